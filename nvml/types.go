package nvml

// Memory is the NVML-shaped memory report. The native layer reports total
// and used; Free is derived as their difference.
type Memory struct {
	Total uint64
	Used  uint64
	Free  uint64
}

// Utilization is the NVML-shaped utilization sample: GPU core and memory
// controller busy percentages over the last sampling window.
type Utilization struct {
	Gpu    uint32
	Memory uint32
}

// PciInfo is the NVML-shaped PCI identity of a device.
type PciInfo struct {
	BusId          [32]byte
	Domain         uint32
	Bus            uint32
	Device         uint32
	PciDeviceId    uint32
	PciSubSystemId uint32
}

// BusIdString returns the PCI bus id as a Go string.
func (p *PciInfo) BusIdString() string {
	for i, c := range p.BusId {
		if c == 0 {
			return string(p.BusId[:i])
		}
	}
	return string(p.BusId[:])
}

// TemperatureSensors selects a temperature sensor for GetTemperature. Only
// the GPU core sensor exists on MT hardware.
type TemperatureSensors int32

const TEMPERATURE_GPU TemperatureSensors = 0

// ClockType selects a clock domain for GetClockInfo.
type ClockType int32

const (
	CLOCK_GRAPHICS ClockType = 0
	CLOCK_SM       ClockType = 1
	CLOCK_MEM      ClockType = 2
	CLOCK_VIDEO    ClockType = 3
)

// Buffer size constants of the NVML vocabulary, for callers that size their
// own buffers.
const (
	SYSTEM_DRIVER_VERSION_BUFFER_SIZE = 80
	SYSTEM_NVML_VERSION_BUFFER_SIZE   = 80
	DEVICE_NAME_BUFFER_SIZE           = 64
	DEVICE_UUID_BUFFER_SIZE           = 80
	DEVICE_PCI_BUS_ID_BUFFER_SIZE     = 32
)

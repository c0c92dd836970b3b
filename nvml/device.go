package nvml

import (
	"fmt"
	"sync"
)

// Device is the NVML-shaped handle to one physical device. It wraps the
// native device handle plus lazily acquired sub-component handles; wrappers
// are cached per index and stay valid until Shutdown.
type Device struct {
	index uint32
	dev   deviceHandle

	mu  sync.Mutex
	gpu gpuHandle
	mem memoryHandle
	vpu vpuHandle
}

// DeviceGetCount returns the number of devices in the system.
func DeviceGetCount() (int, Return) {
	count, err := backend.DeviceCount()
	return int(count), toReturn(err)
}

// DeviceGetHandleByIndex returns the device at the given zero-based index.
func DeviceGetHandleByIndex(index int) (*Device, Return) {
	if index < 0 {
		return nil, ERROR_INVALID_ARGUMENT
	}
	dev, err := backend.DeviceByIndex(uint32(index))
	if err != nil {
		return nil, toReturn(err)
	}
	return cachedDevice(dev)
}

// DeviceGetHandleByUUID returns the device with the given UUID. Derived
// "GPU-<pci bus id>" identities produced by GetUUID for boards without a
// native UUID are resolved by their PCI address.
func DeviceGetHandleByUUID(uuid string) (*Device, Return) {
	if sbdf, ok := derivedUUIDToSbdf(uuid); ok {
		return DeviceGetHandleByPciBusId(sbdf)
	}
	dev, err := backend.DeviceByUUID(uuid)
	if err != nil {
		return nil, toReturn(err)
	}
	return cachedDevice(dev)
}

// DeviceGetHandleByPciBusId returns the device at the given PCI bus id
// ("domain:bus:device.function").
func DeviceGetHandleByPciBusId(busID string) (*Device, Return) {
	dev, err := backend.DeviceByPciSbdf(busID)
	if err != nil {
		return nil, toReturn(err)
	}
	return cachedDevice(dev)
}

// GetIndex returns the zero-based index of the device.
func (d *Device) GetIndex() (int, Return) {
	index, err := d.dev.Index()
	return int(index), toReturn(err)
}

// GetName returns the product name of the device.
func (d *Device) GetName() (string, Return) {
	name, err := d.dev.Name()
	return name, toReturn(err)
}

const derivedUUIDPrefix = "GPU-"

// GetUUID returns the unique identity of the device. Boards that report an
// empty native UUID get a stable derived identity composed from the PCI
// address, "GPU-<domain:bus:device.function>", instead of an error.
func (d *Device) GetUUID() (string, Return) {
	uuid, err := d.dev.UUID()
	if err != nil {
		return "", toReturn(err)
	}
	if uuid != "" {
		return uuid, SUCCESS
	}
	info, err := d.dev.PciInfo()
	if err != nil {
		return "", toReturn(err)
	}
	return derivedUUIDPrefix + info.SbdfString(), SUCCESS
}

// derivedUUIDToSbdf recognizes identities synthesized by GetUUID and
// recovers the PCI address they encode.
func derivedUUIDToSbdf(uuid string) (string, bool) {
	if len(uuid) <= len(derivedUUIDPrefix) || uuid[:len(derivedUUIDPrefix)] != derivedUUIDPrefix {
		return "", false
	}
	rest := uuid[len(derivedUUIDPrefix):]
	// Native UUIDs also start with "GPU-" but carry no ':' separators;
	// only PCI-derived identities do.
	for _, c := range rest {
		if c == ':' {
			return rest, true
		}
	}
	return "", false
}

// GetPciInfo returns the PCI identity of the device, with the native field
// names mapped onto the NVML vocabulary.
func (d *Device) GetPciInfo() (PciInfo, Return) {
	native, err := d.dev.PciInfo()
	if err != nil {
		return PciInfo{}, toReturn(err)
	}
	info := PciInfo{
		Domain:         native.Segment,
		Bus:            native.Bus,
		Device:         native.Device,
		PciDeviceId:    native.PciDeviceID,
		PciSubSystemId: native.PciSubsystemID,
	}
	sbdf := native.SbdfString()
	if sbdf == "" {
		sbdf = fmt.Sprintf("%04x:%02x:%02x.0", native.Segment, native.Bus, native.Device)
	}
	copy(info.BusId[:], sbdf)
	return info, SUCCESS
}

// GetMemoryInfo returns the frame-buffer memory totals. Free is derived
// from total and used; the native layer does not report it directly.
func (d *Device) GetMemoryInfo() (Memory, Return) {
	mem, err := d.memUnit()
	if err != nil {
		return Memory{}, toReturn(err)
	}
	total, err := mem.Total()
	if err != nil {
		return Memory{}, toReturn(err)
	}
	used, err := mem.Used()
	if err != nil {
		return Memory{}, toReturn(err)
	}
	m := Memory{Total: total, Used: used}
	if total >= used {
		m.Free = total - used
	}
	return m, SUCCESS
}

// GetUtilizationRates returns GPU core and memory controller utilization,
// composed from two native queries.
func (d *Device) GetUtilizationRates() (Utilization, Return) {
	gpu, err := d.gpuUnit()
	if err != nil {
		return Utilization{}, toReturn(err)
	}
	gpuUtil, err := gpu.Utilization()
	if err != nil {
		return Utilization{}, toReturn(err)
	}
	mem, err := d.memUnit()
	if err != nil {
		return Utilization{}, toReturn(err)
	}
	memUtil, err := mem.Utilization()
	if err != nil {
		return Utilization{}, toReturn(err)
	}
	return Utilization{Gpu: gpuUtil, Memory: memUtil}, SUCCESS
}

// GetTemperature returns the temperature of the given sensor in degrees
// Celsius. Only TEMPERATURE_GPU exists on MT hardware.
func (d *Device) GetTemperature(sensor TemperatureSensors) (uint32, Return) {
	if sensor != TEMPERATURE_GPU {
		return 0, ERROR_INVALID_ARGUMENT
	}
	gpu, err := d.gpuUnit()
	if err != nil {
		return 0, toReturn(err)
	}
	temp, err := gpu.Temperature()
	return temp, toReturn(err)
}

// GetClockInfo returns the current clock of the given domain in MHz. The
// graphics and SM domains map to the single native GPU clock.
func (d *Device) GetClockInfo(clockType ClockType) (uint32, Return) {
	switch clockType {
	case CLOCK_GRAPHICS, CLOCK_SM:
		gpu, err := d.gpuUnit()
		if err != nil {
			return 0, toReturn(err)
		}
		clock, err := gpu.Clock()
		return clock, toReturn(err)
	default:
		return 0, ERROR_NOT_SUPPORTED
	}
}

// GetEncoderUtilization returns the video encoder utilization in percent.
// The sampling period is not reported by the native layer and is returned
// as zero.
func (d *Device) GetEncoderUtilization() (uint32, uint32, Return) {
	vpu, err := d.vpuUnit()
	if err != nil {
		return 0, 0, toReturn(err)
	}
	util, err := vpu.EncoderUtilization()
	return util, 0, toReturn(err)
}

// GetDecoderUtilization returns the video decoder utilization in percent.
func (d *Device) GetDecoderUtilization() (uint32, uint32, Return) {
	vpu, err := d.vpuUnit()
	if err != nil {
		return 0, 0, toReturn(err)
	}
	util, err := vpu.DecoderUtilization()
	return util, 0, toReturn(err)
}

// gpuUnit returns the lazily acquired GPU sub-component handle.
func (d *Device) gpuUnit() (gpuHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gpu != nil {
		return d.gpu, nil
	}
	gpu, err := d.dev.Gpu()
	if err != nil {
		return nil, err
	}
	d.gpu = gpu
	return gpu, nil
}

func (d *Device) memUnit() (memoryHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mem != nil {
		return d.mem, nil
	}
	mem, err := d.dev.Memory()
	if err != nil {
		return nil, err
	}
	d.mem = mem
	return mem, nil
}

func (d *Device) vpuUnit() (vpuHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vpu != nil {
		return d.vpu, nil
	}
	vpu, err := d.dev.Vpu()
	if err != nil {
		return nil, err
	}
	d.vpu = vpu
	return vpu, nil
}

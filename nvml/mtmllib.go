package nvml

import "github.com/gomtml/gomtml/mtml"

// deviceLib is the narrow slice of the native binding the shim depends on.
// The indirection exists so tests can substitute a fake native layer; the
// production implementation delegates straight to the mtml package.
type deviceLib interface {
	Init() error
	Shutdown() error
	LibraryVersion() (string, error)
	DriverVersion() (string, error)
	DeviceCount() (uint32, error)
	DeviceByIndex(index uint32) (deviceHandle, error)
	DeviceByUUID(uuid string) (deviceHandle, error)
	DeviceByPciSbdf(sbdf string) (deviceHandle, error)
}

type deviceHandle interface {
	Index() (uint32, error)
	Name() (string, error)
	UUID() (string, error)
	PciInfo() (mtml.PciInfo, error)
	Gpu() (gpuHandle, error)
	Memory() (memoryHandle, error)
	Vpu() (vpuHandle, error)
}

type gpuHandle interface {
	Utilization() (uint32, error)
	Temperature() (uint32, error)
	Clock() (uint32, error)
}

type memoryHandle interface {
	Total() (uint64, error)
	Used() (uint64, error)
	Utilization() (uint32, error)
}

type vpuHandle interface {
	Utilization() (uint32, error)
	EncoderUtilization() (uint32, error)
	DecoderUtilization() (uint32, error)
}

type mtmlLib struct{}

func (mtmlLib) Init() error                     { return mtml.Init() }
func (mtmlLib) Shutdown() error                 { return mtml.Shutdown() }
func (mtmlLib) LibraryVersion() (string, error) { return mtml.LibraryVersion() }
func (mtmlLib) DriverVersion() (string, error)  { return mtml.DriverVersion() }
func (mtmlLib) DeviceCount() (uint32, error)    { return mtml.DeviceCount() }

func (mtmlLib) DeviceByIndex(index uint32) (deviceHandle, error) {
	dev, err := mtml.DeviceByIndex(index)
	if err != nil {
		return nil, err
	}
	return mtmlDevice{dev}, nil
}

func (mtmlLib) DeviceByUUID(uuid string) (deviceHandle, error) {
	dev, err := mtml.DeviceByUUID(uuid)
	if err != nil {
		return nil, err
	}
	return mtmlDevice{dev}, nil
}

func (mtmlLib) DeviceByPciSbdf(sbdf string) (deviceHandle, error) {
	dev, err := mtml.DeviceByPciSbdf(sbdf)
	if err != nil {
		return nil, err
	}
	return mtmlDevice{dev}, nil
}

type mtmlDevice struct {
	dev mtml.Device
}

func (d mtmlDevice) Index() (uint32, error)         { return d.dev.Index() }
func (d mtmlDevice) Name() (string, error)          { return d.dev.Name() }
func (d mtmlDevice) UUID() (string, error)          { return d.dev.UUID() }
func (d mtmlDevice) PciInfo() (mtml.PciInfo, error) { return d.dev.PciInfo() }

func (d mtmlDevice) Gpu() (gpuHandle, error) {
	return d.dev.Gpu()
}

func (d mtmlDevice) Memory() (memoryHandle, error) {
	return d.dev.Memory()
}

func (d mtmlDevice) Vpu() (vpuHandle, error) {
	return d.dev.Vpu()
}

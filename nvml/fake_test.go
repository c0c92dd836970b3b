package nvml

import (
	"testing"

	"github.com/gomtml/gomtml/mtml"
)

// fakeLib stands in for the native binding behind the shim, with the same
// guard semantics: every operation fails with an Uninitialized error while
// no Init reference is outstanding.
type fakeLib struct {
	libraryVersion string
	driverVersion  string
	devices        []*fakeDev

	refcount    int
	initCalls   int
	gpuAcquires int
	memAcquires int
	vpuAcquires int

	initErr error
}

type fakeDev struct {
	index   uint32
	name    string
	uuid    string
	sbdf    string
	segment uint32
	bus     uint32

	memTotal uint64
	memUsed  uint64
	gpuUtil  uint32
	memUtil  uint32
	temp     uint32
	clock    uint32
	encUtil  uint32
	decUtil  uint32

	uuidErr error
}

func mtmlError(code mtml.Return) error {
	return &mtml.Error{Code: code, Kind: code.KindOf(), Message: mtml.ErrorString(code)}
}

func (f *fakeLib) guard() error {
	if f.refcount == 0 {
		return mtmlError(mtml.ERROR_UNINITIALIZED)
	}
	return nil
}

func (f *fakeLib) Init() error {
	if f.initErr != nil {
		return f.initErr
	}
	f.refcount++
	f.initCalls++
	return nil
}

func (f *fakeLib) Shutdown() error {
	if f.refcount == 0 {
		return mtmlError(mtml.ERROR_UNINITIALIZED)
	}
	f.refcount--
	return nil
}

func (f *fakeLib) LibraryVersion() (string, error) {
	if err := f.guard(); err != nil {
		return "", err
	}
	return f.libraryVersion, nil
}

func (f *fakeLib) DriverVersion() (string, error) {
	if err := f.guard(); err != nil {
		return "", err
	}
	return f.driverVersion, nil
}

func (f *fakeLib) DeviceCount() (uint32, error) {
	if err := f.guard(); err != nil {
		return 0, err
	}
	return uint32(len(f.devices)), nil
}

func (f *fakeLib) DeviceByIndex(index uint32) (deviceHandle, error) {
	if err := f.guard(); err != nil {
		return nil, err
	}
	if int(index) >= len(f.devices) {
		return nil, mtmlError(mtml.ERROR_NOT_FOUND)
	}
	return fakeHandle{l: f, d: f.devices[index]}, nil
}

func (f *fakeLib) DeviceByUUID(uuid string) (deviceHandle, error) {
	if err := f.guard(); err != nil {
		return nil, err
	}
	for _, d := range f.devices {
		if d.uuid == uuid && uuid != "" {
			return fakeHandle{l: f, d: d}, nil
		}
	}
	return nil, mtmlError(mtml.ERROR_NOT_FOUND)
}

func (f *fakeLib) DeviceByPciSbdf(sbdf string) (deviceHandle, error) {
	if err := f.guard(); err != nil {
		return nil, err
	}
	for _, d := range f.devices {
		if d.sbdf == sbdf {
			return fakeHandle{l: f, d: d}, nil
		}
	}
	return nil, mtmlError(mtml.ERROR_NOT_FOUND)
}

type fakeHandle struct {
	l *fakeLib
	d *fakeDev
}

func (h fakeHandle) Index() (uint32, error) {
	if err := h.l.guard(); err != nil {
		return 0, err
	}
	return h.d.index, nil
}

func (h fakeHandle) Name() (string, error) {
	if err := h.l.guard(); err != nil {
		return "", err
	}
	return h.d.name, nil
}

func (h fakeHandle) UUID() (string, error) {
	if err := h.l.guard(); err != nil {
		return "", err
	}
	if h.d.uuidErr != nil {
		return "", h.d.uuidErr
	}
	return h.d.uuid, nil
}

func (h fakeHandle) PciInfo() (mtml.PciInfo, error) {
	if err := h.l.guard(); err != nil {
		return mtml.PciInfo{}, err
	}
	info := mtml.PciInfo{
		Segment:        h.d.segment,
		Bus:            h.d.bus,
		PciDeviceID:    0x0301,
		PciSubsystemID: 0x1822,
		BusWidth:       16,
	}
	copy(info.Sbdf[:], h.d.sbdf)
	return info, nil
}

func (h fakeHandle) Gpu() (gpuHandle, error) {
	if err := h.l.guard(); err != nil {
		return nil, err
	}
	h.l.gpuAcquires++
	return fakeGpu(h), nil
}

func (h fakeHandle) Memory() (memoryHandle, error) {
	if err := h.l.guard(); err != nil {
		return nil, err
	}
	h.l.memAcquires++
	return fakeMem(h), nil
}

func (h fakeHandle) Vpu() (vpuHandle, error) {
	if err := h.l.guard(); err != nil {
		return nil, err
	}
	h.l.vpuAcquires++
	return fakeVpu(h), nil
}

type fakeGpu fakeHandle

func (g fakeGpu) Utilization() (uint32, error) {
	if err := g.l.guard(); err != nil {
		return 0, err
	}
	return g.d.gpuUtil, nil
}

func (g fakeGpu) Temperature() (uint32, error) {
	if err := g.l.guard(); err != nil {
		return 0, err
	}
	return g.d.temp, nil
}

func (g fakeGpu) Clock() (uint32, error) {
	if err := g.l.guard(); err != nil {
		return 0, err
	}
	return g.d.clock, nil
}

type fakeMem fakeHandle

func (m fakeMem) Total() (uint64, error) {
	if err := m.l.guard(); err != nil {
		return 0, err
	}
	return m.d.memTotal, nil
}

func (m fakeMem) Used() (uint64, error) {
	if err := m.l.guard(); err != nil {
		return 0, err
	}
	return m.d.memUsed, nil
}

func (m fakeMem) Utilization() (uint32, error) {
	if err := m.l.guard(); err != nil {
		return 0, err
	}
	return m.d.memUtil, nil
}

type fakeVpu fakeHandle

func (v fakeVpu) Utilization() (uint32, error) {
	if err := v.l.guard(); err != nil {
		return 0, err
	}
	return (v.d.encUtil + v.d.decUtil) / 2, nil
}

func (v fakeVpu) EncoderUtilization() (uint32, error) {
	if err := v.l.guard(); err != nil {
		return 0, err
	}
	return v.d.encUtil, nil
}

func (v fakeVpu) DecoderUtilization() (uint32, error) {
	if err := v.l.guard(); err != nil {
		return 0, err
	}
	return v.d.decUtil, nil
}

// setupBackend routes the shim to an in-memory native layer for the
// duration of the test.
func setupBackend(t *testing.T, devices ...*fakeDev) *fakeLib {
	t.Helper()
	f := &fakeLib{
		libraryVersion: "2.1.0",
		driverVersion:  "2.7.0-rc1",
		devices:        devices,
	}
	prev := backend
	backend = f
	t.Cleanup(func() {
		backend = prev
		state.Lock()
		state.refcount = 0
		state.devices = nil
		state.Unlock()
	})
	return f
}

func fakeDevices() []*fakeDev {
	return []*fakeDev{
		{
			index:    0,
			name:     "MTT S4000",
			uuid:     "GPU-5a1b0717deadbeef",
			sbdf:     "0000:3b:00.0",
			bus:      0x3b,
			memTotal: 48 << 30,
			memUsed:  16 << 30,
			gpuUtil:  42,
			memUtil:  21,
			temp:     61,
			clock:    1600,
			encUtil:  12,
			decUtil:  4,
		},
		{
			index:    1,
			name:     "MTT S80",
			uuid:     "", // no native UUID
			sbdf:     "0000:3c:00.0",
			bus:      0x3c,
			memTotal: 16 << 30,
			memUsed:  1 << 30,
			gpuUtil:  3,
			memUtil:  1,
			temp:     38,
			clock:    1200,
		},
	}
}

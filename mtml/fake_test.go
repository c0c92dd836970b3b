package mtml

import (
	"testing"
	"unsafe"
)

// fakeNative is an in-memory stand-in for libmtml. Its bind step installs
// Go closures on the binding's function variables, and it counts every
// lifecycle call so tests can assert that nothing leaks or double-frees.
type fakeNative struct {
	libraryVersion string
	driverVersion  string
	devices        []fakeDevice

	initCalls     int
	shutdownCalls int
	systemInits   int
	deviceInits   int
	gpuInits      int
	gpuFrees      int
	memInits      int
	memFrees      int
	vpuInits      int
	vpuFrees      int
	closed        bool

	// fail forces the named entry point to answer with the given code.
	fail map[string]Return

	// missing symbols are skipped at bind time, as if absent from the
	// installed library version.
	missing map[string]bool
}

type fakeDevice struct {
	name     string
	uuid     string
	sbdf     string
	memTotal uint64
	memUsed  uint64
	gpuUtil  uint32
	temp     uint32
	clock    uint32
	vpuUtil  uint32
}

// Handle encoding used by the fake: one base per handle class plus the
// device index.
const (
	fakeLibHandle    uintptr = 0x10
	fakeSystemHandle uintptr = 0x20
	fakeDevBase      uintptr = 0x1000
	fakeGpuBase      uintptr = 0x2000
	fakeMemBase      uintptr = 0x3000
	fakeVpuBase      uintptr = 0x4000
)

func (f *fakeNative) ret(name string) (Return, bool) {
	r, ok := f.fail[name]
	return r, ok
}

func (f *fakeNative) deviceAt(handle uintptr, base uintptr) (*fakeDevice, int, Return) {
	i := int(handle - base)
	if i < 0 || i >= len(f.devices) {
		return nil, 0, ERROR_NOT_FOUND
	}
	return &f.devices[i], i, SUCCESS
}

func writeCString(buf *byte, length uint32, s string) Return {
	if uint32(len(s))+1 > length {
		return ERROR_INSUFFICIENT_SIZE
	}
	out := unsafe.Slice(buf, length)
	n := copy(out, s)
	out[n] = 0
	return SUCCESS
}

// fakeLibrary satisfies loadedLibrary so the fake plugs into Init through
// the openLibrary seam.
type fakeLibrary struct {
	f *fakeNative
}

func (l *fakeLibrary) path() string { return "fake://libmtml.so.1" }

func (l *fakeLibrary) close() error {
	l.f.closed = true
	return nil
}

func (l *fakeLibrary) bind(symbols []symbol) error {
	f := l.f
	install := map[string]func(){
		"mtmlLibraryInit": func() {
			mtmlLibraryInit = func(lib *uintptr) Return {
				if r, ok := f.ret("mtmlLibraryInit"); ok {
					return r
				}
				f.initCalls++
				*lib = fakeLibHandle
				return SUCCESS
			}
		},
		"mtmlLibraryShutDown": func() {
			mtmlLibraryShutDown = func(lib uintptr) Return {
				if r, ok := f.ret("mtmlLibraryShutDown"); ok {
					return r
				}
				f.shutdownCalls++
				return SUCCESS
			}
		},
		"mtmlLibraryGetVersion": func() {
			mtmlLibraryGetVersion = func(lib uintptr, buf *byte, length uint32) Return {
				if r, ok := f.ret("mtmlLibraryGetVersion"); ok {
					return r
				}
				return writeCString(buf, length, f.libraryVersion)
			}
		},
		"mtmlLibraryCountDevice": func() {
			mtmlLibraryCountDevice = func(lib uintptr, count *uint32) Return {
				if r, ok := f.ret("mtmlLibraryCountDevice"); ok {
					return r
				}
				*count = uint32(len(f.devices))
				return SUCCESS
			}
		},
		"mtmlLibraryInitDeviceByIndex": func() {
			mtmlLibraryInitDeviceByIndex = func(lib uintptr, index uint32, dev *uintptr) Return {
				if r, ok := f.ret("mtmlLibraryInitDeviceByIndex"); ok {
					return r
				}
				if int(index) >= len(f.devices) {
					return ERROR_NOT_FOUND
				}
				f.deviceInits++
				*dev = fakeDevBase + uintptr(index)
				return SUCCESS
			}
		},
		"mtmlLibraryInitDeviceByUuid": func() {
			mtmlLibraryInitDeviceByUuid = func(lib uintptr, uuid string, dev *uintptr) Return {
				for i := range f.devices {
					if f.devices[i].uuid == uuid {
						f.deviceInits++
						*dev = fakeDevBase + uintptr(i)
						return SUCCESS
					}
				}
				return ERROR_NOT_FOUND
			}
		},
		"mtmlLibraryInitDeviceByPciSbdf": func() {
			mtmlLibraryInitDeviceByPciSbdf = func(lib uintptr, sbdf string, dev *uintptr) Return {
				for i := range f.devices {
					if f.devices[i].sbdf == sbdf {
						f.deviceInits++
						*dev = fakeDevBase + uintptr(i)
						return SUCCESS
					}
				}
				return ERROR_NOT_FOUND
			}
		},
		"mtmlLibraryInitSystem": func() {
			mtmlLibraryInitSystem = func(lib uintptr, sys *uintptr) Return {
				f.systemInits++
				*sys = fakeSystemHandle
				return SUCCESS
			}
		},
		"mtmlSystemGetDriverVersion": func() {
			mtmlSystemGetDriverVersion = func(sys uintptr, buf *byte, length uint32) Return {
				return writeCString(buf, length, f.driverVersion)
			}
		},
		"mtmlDeviceGetIndex": func() {
			mtmlDeviceGetIndex = func(dev uintptr, index *uint32) Return {
				_, i, r := f.deviceAt(dev, fakeDevBase)
				if r != SUCCESS {
					return r
				}
				*index = uint32(i)
				return SUCCESS
			}
		},
		"mtmlDeviceGetName": func() {
			mtmlDeviceGetName = func(dev uintptr, buf *byte, length uint32) Return {
				d, _, r := f.deviceAt(dev, fakeDevBase)
				if r != SUCCESS {
					return r
				}
				return writeCString(buf, length, d.name)
			}
		},
		"mtmlDeviceGetUUID": func() {
			mtmlDeviceGetUUID = func(dev uintptr, buf *byte, length uint32) Return {
				if r, ok := f.ret("mtmlDeviceGetUUID"); ok {
					return r
				}
				d, _, r := f.deviceAt(dev, fakeDevBase)
				if r != SUCCESS {
					return r
				}
				return writeCString(buf, length, d.uuid)
			}
		},
		"mtmlDeviceGetBrand": func() {
			mtmlDeviceGetBrand = func(dev uintptr, brand *uint32) Return {
				*brand = uint32(BRAND_MTT)
				return SUCCESS
			}
		},
		"mtmlDeviceGetPciInfo": func() {
			mtmlDeviceGetPciInfo = func(dev uintptr, info *PciInfo) Return {
				d, i, r := f.deviceAt(dev, fakeDevBase)
				if r != SUCCESS {
					return r
				}
				*info = PciInfo{Segment: 0, Bus: uint32(0x3b + i), Device: 0, PciDeviceID: 0x0301, BusWidth: 16}
				copy(info.Sbdf[:], d.sbdf)
				return SUCCESS
			}
		},
		"mtmlDeviceGetProperty": func() {
			mtmlDeviceGetProperty = func(dev uintptr, prop *DeviceProperty) Return {
				if r, ok := f.ret("mtmlDeviceGetProperty"); ok {
					return r
				}
				if prop.Version != devicePropertyVersion {
					return ERROR_ARGUMENT_VERSION_MISMATCH
				}
				prop.VirtRole = VIRT_ROLE_NONE
				prop.MpcCapable = 1
				return SUCCESS
			}
		},
		"mtmlDeviceInitGpu": func() {
			mtmlDeviceInitGpu = func(dev uintptr, gpu *uintptr) Return {
				_, i, r := f.deviceAt(dev, fakeDevBase)
				if r != SUCCESS {
					return r
				}
				f.gpuInits++
				*gpu = fakeGpuBase + uintptr(i)
				return SUCCESS
			}
		},
		"mtmlDeviceFreeGpu": func() {
			mtmlDeviceFreeGpu = func(gpu uintptr) Return {
				f.gpuFrees++
				return SUCCESS
			}
		},
		"mtmlDeviceInitMemory": func() {
			mtmlDeviceInitMemory = func(dev uintptr, mem *uintptr) Return {
				_, i, r := f.deviceAt(dev, fakeDevBase)
				if r != SUCCESS {
					return r
				}
				f.memInits++
				*mem = fakeMemBase + uintptr(i)
				return SUCCESS
			}
		},
		"mtmlDeviceFreeMemory": func() {
			mtmlDeviceFreeMemory = func(mem uintptr) Return {
				f.memFrees++
				return SUCCESS
			}
		},
		"mtmlDeviceInitVpu": func() {
			mtmlDeviceInitVpu = func(dev uintptr, vpu *uintptr) Return {
				_, i, r := f.deviceAt(dev, fakeDevBase)
				if r != SUCCESS {
					return r
				}
				f.vpuInits++
				*vpu = fakeVpuBase + uintptr(i)
				return SUCCESS
			}
		},
		"mtmlDeviceFreeVpu": func() {
			mtmlDeviceFreeVpu = func(vpu uintptr) Return {
				f.vpuFrees++
				return SUCCESS
			}
		},
		"mtmlGpuGetUtilization": func() {
			mtmlGpuGetUtilization = func(gpu uintptr, util *uint32) Return {
				d, _, r := f.deviceAt(gpu, fakeGpuBase)
				if r != SUCCESS {
					return r
				}
				*util = d.gpuUtil
				return SUCCESS
			}
		},
		"mtmlGpuGetTemperature": func() {
			mtmlGpuGetTemperature = func(gpu uintptr, temp *uint32) Return {
				d, _, r := f.deviceAt(gpu, fakeGpuBase)
				if r != SUCCESS {
					return r
				}
				*temp = d.temp
				return SUCCESS
			}
		},
		"mtmlGpuGetClock": func() {
			mtmlGpuGetClock = func(gpu uintptr, clockMHz *uint32) Return {
				d, _, r := f.deviceAt(gpu, fakeGpuBase)
				if r != SUCCESS {
					return r
				}
				*clockMHz = d.clock
				return SUCCESS
			}
		},
		"mtmlGpuGetMaxClock": func() {
			mtmlGpuGetMaxClock = func(gpu uintptr, clockMHz *uint32) Return {
				*clockMHz = 1800
				return SUCCESS
			}
		},
		"mtmlMemoryGetTotal": func() {
			mtmlMemoryGetTotal = func(mem uintptr, bytes *uint64) Return {
				d, _, r := f.deviceAt(mem, fakeMemBase)
				if r != SUCCESS {
					return r
				}
				*bytes = d.memTotal
				return SUCCESS
			}
		},
		"mtmlMemoryGetUsed": func() {
			mtmlMemoryGetUsed = func(mem uintptr, bytes *uint64) Return {
				d, _, r := f.deviceAt(mem, fakeMemBase)
				if r != SUCCESS {
					return r
				}
				*bytes = d.memUsed
				return SUCCESS
			}
		},
		"mtmlMemoryGetUtilization": func() {
			mtmlMemoryGetUtilization = func(mem uintptr, util *uint32) Return {
				d, _, r := f.deviceAt(mem, fakeMemBase)
				if r != SUCCESS {
					return r
				}
				*util = d.gpuUtil / 2
				return SUCCESS
			}
		},
		"mtmlVpuGetUtilization": func() {
			mtmlVpuGetUtilization = func(vpu uintptr, util *uint32) Return {
				d, _, r := f.deviceAt(vpu, fakeVpuBase)
				if r != SUCCESS {
					return r
				}
				*util = d.vpuUtil
				return SUCCESS
			}
		},
		"mtmlVpuGetEncoderUtilization": func() {
			mtmlVpuGetEncoderUtilization = func(vpu uintptr, util *uint32) Return {
				d, _, r := f.deviceAt(vpu, fakeVpuBase)
				if r != SUCCESS {
					return r
				}
				*util = d.vpuUtil
				return SUCCESS
			}
		},
		"mtmlVpuGetDecoderUtilization": func() {
			mtmlVpuGetDecoderUtilization = func(vpu uintptr, util *uint32) Return {
				d, _, r := f.deviceAt(vpu, fakeVpuBase)
				if r != SUCCESS {
					return r
				}
				*util = d.vpuUtil
				return SUCCESS
			}
		},
	}

	for _, s := range symbols {
		if f.missing[s.name] {
			if !s.optional {
				return &Error{
					Code:    ERROR_SYMBOL_NOT_FOUND,
					Kind:    KindSymbolNotFound,
					Message: "symbol " + s.name + " not found in fake library",
				}
			}
			continue
		}
		if fn, ok := install[s.name]; ok {
			fn()
		}
	}
	return nil
}

// resetLibraryState forces the package singleton back to the unloaded
// state, regardless of what a failed test left behind.
func resetLibraryState() {
	lib.Lock()
	lib.refcount = 0
	lib.dl = nil
	lib.handle = 0
	lib.system = 0
	lib.devices = nil
	lib.Unlock()
	clearBindings(mtmlSymbols())
}

// setupFake routes Init through an in-memory native library for the
// duration of the test.
func setupFake(t *testing.T, devices ...fakeDevice) *fakeNative {
	t.Helper()
	f := &fakeNative{
		libraryVersion: "2.1.0",
		driverVersion:  "2.7.0-rc1",
		devices:        devices,
		fail:           map[string]Return{},
		missing:        map[string]bool{},
	}
	prev := openLibrary
	openLibrary = func() (loadedLibrary, error) {
		return &fakeLibrary{f: f}, nil
	}
	t.Cleanup(func() {
		openLibrary = prev
		resetLibraryState()
	})
	return f
}

func twoFakeDevices() []fakeDevice {
	return []fakeDevice{
		{
			name:     "MTT S4000",
			uuid:     "GPU-5a1b0717deadbeef",
			sbdf:     "0000:3b:00.0",
			memTotal: 48 << 30,
			memUsed:  16 << 30,
			gpuUtil:  42,
			temp:     61,
			clock:    1600,
			vpuUtil:  7,
		},
		{
			name:     "MTT S80",
			uuid:     "", // some boards report no UUID
			sbdf:     "0000:3c:00.0",
			memTotal: 16 << 30,
			memUsed:  1 << 30,
			gpuUtil:  3,
			temp:     38,
			clock:    1200,
			vpuUtil:  0,
		},
	}
}

package mtml

import (
	"reflect"

	"github.com/ebitengine/purego"
	"k8s.io/klog/v2"
)

// Typed entry points into libmtml. They are bound by bindSymbols after the
// library is loaded and reset to nil on Shutdown; wrappers must only reach
// them through the initialized-state guard, except for optional symbols
// which are nil-checked at the call site.
var (
	mtmlLibraryInit                func(lib *uintptr) Return
	mtmlLibraryShutDown            func(lib uintptr) Return
	mtmlLibraryGetVersion          func(lib uintptr, buf *byte, length uint32) Return
	mtmlLibraryCountDevice         func(lib uintptr, count *uint32) Return
	mtmlLibraryInitDeviceByIndex   func(lib uintptr, index uint32, dev *uintptr) Return
	mtmlLibraryInitDeviceByUuid    func(lib uintptr, uuid string, dev *uintptr) Return
	mtmlLibraryInitDeviceByPciSbdf func(lib uintptr, sbdf string, dev *uintptr) Return
	mtmlLibraryInitSystem          func(lib uintptr, sys *uintptr) Return
	mtmlSystemGetDriverVersion     func(sys uintptr, buf *byte, length uint32) Return

	mtmlDeviceGetIndex    func(dev uintptr, index *uint32) Return
	mtmlDeviceGetName     func(dev uintptr, buf *byte, length uint32) Return
	mtmlDeviceGetUUID     func(dev uintptr, buf *byte, length uint32) Return
	mtmlDeviceGetBrand    func(dev uintptr, brand *uint32) Return
	mtmlDeviceGetPciInfo  func(dev uintptr, info *PciInfo) Return
	mtmlDeviceGetProperty func(dev uintptr, prop *DeviceProperty) Return

	mtmlDeviceInitGpu    func(dev uintptr, gpu *uintptr) Return
	mtmlDeviceFreeGpu    func(gpu uintptr) Return
	mtmlDeviceInitMemory func(dev uintptr, mem *uintptr) Return
	mtmlDeviceFreeMemory func(mem uintptr) Return
	mtmlDeviceInitVpu    func(dev uintptr, vpu *uintptr) Return
	mtmlDeviceFreeVpu    func(vpu uintptr) Return

	mtmlGpuGetUtilization func(gpu uintptr, util *uint32) Return
	mtmlGpuGetTemperature func(gpu uintptr, temp *uint32) Return
	mtmlGpuGetClock       func(gpu uintptr, clockMHz *uint32) Return
	mtmlGpuGetMaxClock    func(gpu uintptr, clockMHz *uint32) Return

	mtmlMemoryGetTotal       func(mem uintptr, bytes *uint64) Return
	mtmlMemoryGetUsed        func(mem uintptr, bytes *uint64) Return
	mtmlMemoryGetUtilization func(mem uintptr, util *uint32) Return

	mtmlVpuGetUtilization        func(vpu uintptr, util *uint32) Return
	mtmlVpuGetEncoderUtilization func(vpu uintptr, util *uint32) Return
	mtmlVpuGetDecoderUtilization func(vpu uintptr, util *uint32) Return

	mtmlErrorString func(r Return) uintptr
)

// symbol describes one native entry point and the function variable it binds
// to. Optional symbols may be absent from older library versions; their
// wrappers answer ERROR_FUNCTION_NOT_FOUND instead of failing the load.
type symbol struct {
	name     string
	fn       any
	optional bool
}

func mtmlSymbols() []symbol {
	return []symbol{
		{name: "mtmlLibraryInit", fn: &mtmlLibraryInit},
		{name: "mtmlLibraryShutDown", fn: &mtmlLibraryShutDown},
		{name: "mtmlLibraryGetVersion", fn: &mtmlLibraryGetVersion},
		{name: "mtmlLibraryCountDevice", fn: &mtmlLibraryCountDevice},
		{name: "mtmlLibraryInitDeviceByIndex", fn: &mtmlLibraryInitDeviceByIndex},
		{name: "mtmlLibraryInitDeviceByUuid", fn: &mtmlLibraryInitDeviceByUuid, optional: true},
		{name: "mtmlLibraryInitDeviceByPciSbdf", fn: &mtmlLibraryInitDeviceByPciSbdf, optional: true},
		{name: "mtmlLibraryInitSystem", fn: &mtmlLibraryInitSystem},
		{name: "mtmlSystemGetDriverVersion", fn: &mtmlSystemGetDriverVersion},
		{name: "mtmlDeviceGetIndex", fn: &mtmlDeviceGetIndex},
		{name: "mtmlDeviceGetName", fn: &mtmlDeviceGetName},
		{name: "mtmlDeviceGetUUID", fn: &mtmlDeviceGetUUID},
		{name: "mtmlDeviceGetBrand", fn: &mtmlDeviceGetBrand, optional: true},
		{name: "mtmlDeviceGetPciInfo", fn: &mtmlDeviceGetPciInfo},
		{name: "mtmlDeviceGetProperty", fn: &mtmlDeviceGetProperty, optional: true},
		{name: "mtmlDeviceInitGpu", fn: &mtmlDeviceInitGpu},
		{name: "mtmlDeviceFreeGpu", fn: &mtmlDeviceFreeGpu},
		{name: "mtmlDeviceInitMemory", fn: &mtmlDeviceInitMemory},
		{name: "mtmlDeviceFreeMemory", fn: &mtmlDeviceFreeMemory},
		{name: "mtmlDeviceInitVpu", fn: &mtmlDeviceInitVpu},
		{name: "mtmlDeviceFreeVpu", fn: &mtmlDeviceFreeVpu},
		{name: "mtmlGpuGetUtilization", fn: &mtmlGpuGetUtilization},
		{name: "mtmlGpuGetTemperature", fn: &mtmlGpuGetTemperature},
		{name: "mtmlGpuGetClock", fn: &mtmlGpuGetClock},
		{name: "mtmlGpuGetMaxClock", fn: &mtmlGpuGetMaxClock, optional: true},
		{name: "mtmlMemoryGetTotal", fn: &mtmlMemoryGetTotal},
		{name: "mtmlMemoryGetUsed", fn: &mtmlMemoryGetUsed},
		{name: "mtmlMemoryGetUtilization", fn: &mtmlMemoryGetUtilization, optional: true},
		{name: "mtmlVpuGetUtilization", fn: &mtmlVpuGetUtilization, optional: true},
		{name: "mtmlVpuGetEncoderUtilization", fn: &mtmlVpuGetEncoderUtilization, optional: true},
		{name: "mtmlVpuGetDecoderUtilization", fn: &mtmlVpuGetDecoderUtilization, optional: true},
		{name: "mtmlErrorString", fn: &mtmlErrorString, optional: true},
	}
}

// bind resolves every symbol in the table and registers it on its function
// variable. A missing mandatory symbol aborts with KindSymbolNotFound;
// missing optional symbols leave their variable nil.
func (dl *dynamicLibrary) bind(symbols []symbol) error {
	for _, s := range symbols {
		addr, err := dl.symbol(s.name)
		if err != nil {
			if s.optional {
				klog.V(1).Infof("optional symbol %q not present in %s", s.name, dl.libPath)
				continue
			}
			return err
		}
		purego.RegisterFunc(s.fn, addr)
	}
	return nil
}

// clearBindings resets all function variables to nil so a stale binding can
// never be called after the library has been unloaded.
func clearBindings(symbols []symbol) {
	for _, s := range symbols {
		v := reflect.ValueOf(s.fn).Elem()
		v.Set(reflect.Zero(v.Type()))
	}
}

// Package nvml re-exposes the MTML bindings under the NVML vocabulary:
// NVML-style function names, structs and return codes, so tooling written
// against an NVML-shaped API runs on MT hardware unmodified.
//
// Every function delegates to the native binding in package mtml. Handle
// types, struct fields and error codes are translated both ways; error
// translation goes through the canonical mtml.Kind enumeration because the
// two numeric code spaces differ.
//
// Functions follow the NVML convention of returning a Return code rather
// than an error; ErrorFromReturn converts a code into a structured error
// value when one is wanted.
package nvml

import (
	"sync"
)

// shim is the process-wide state of the compatibility layer: its own init
// reference count (mirroring the native one) and a cache of device wrappers
// by index. The wrappers hold lazily acquired GPU/Memory/VPU sub-component
// handles so that per-call queries do not acquire and release native
// sub-objects on every invocation.
type shim struct {
	sync.Mutex
	refcount int
	devices  map[uint32]*Device
}

var (
	state = &shim{}

	// backend is the seam to the native binding; tests substitute a fake.
	backend deviceLib = mtmlLib{}
)

// Init initializes the management library. Reference counted and
// repeatable: after the matching number of Shutdown calls the library can
// be initialized again in the same process.
func Init() Return {
	state.Lock()
	defer state.Unlock()
	if err := backend.Init(); err != nil {
		return toReturn(err)
	}
	if state.refcount == 0 {
		state.devices = make(map[uint32]*Device)
	}
	state.refcount++
	return SUCCESS
}

// InitWithFlags behaves like Init; the flags of the NVML vocabulary have no
// MTML counterpart and are accepted and ignored.
func InitWithFlags(_ uint32) Return {
	return Init()
}

// Shutdown releases one Init reference. At zero the native library shuts
// down, which invalidates every device and sub-component handle implicitly;
// the cached wrappers are dropped without freeing their sub-handles, since
// freeing already-invalidated handles would double-free.
func Shutdown() Return {
	state.Lock()
	defer state.Unlock()
	if state.refcount == 0 {
		return ERROR_UNINITIALIZED
	}
	if err := backend.Shutdown(); err != nil {
		return toReturn(err)
	}
	state.refcount--
	if state.refcount == 0 {
		state.devices = nil
	}
	return SUCCESS
}

// cachedDevice returns the wrapper for a device handle, creating and
// caching it by index on first sight.
func cachedDevice(dev deviceHandle) (*Device, Return) {
	index, err := dev.Index()
	if err != nil {
		return nil, toReturn(err)
	}
	state.Lock()
	defer state.Unlock()
	if state.devices == nil {
		return nil, ERROR_UNINITIALIZED
	}
	if d, ok := state.devices[index]; ok {
		return d, SUCCESS
	}
	d := &Device{index: index, dev: dev}
	state.devices[index] = d
	return d, SUCCESS
}

package mtml

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// library is the process-wide state behind the package API: the dynamic
// loader handle, the native MtmlLibrary handle, the count of outstanding
// Init calls, and lazily populated caches for the system handle and device
// handles by index.
//
// The mutex serializes Init/Shutdown and cache updates. Native query calls
// are made outside the lock wherever possible; only the state bookkeeping is
// guarded.
type library struct {
	sync.Mutex
	refcount int
	dl       loadedLibrary
	handle   uintptr // MtmlLibrary*, valid while refcount > 0

	system  uintptr            // cached MtmlSystem*, lazily created
	devices map[uint32]uintptr // index -> MtmlDevice*, lazily populated
}

var lib = &library{}

// openLibrary is the loader entry point; tests substitute a fake.
var openLibrary = openMtmlLibrary

// Init loads libmtml (first call only) and initializes the native library
// handle. Calls are reference counted: each Init must be matched by one
// Shutdown, and only the first of the outstanding calls pays the load cost.
// Full Init/Shutdown cycles can be repeated any number of times in one
// process.
//
// The distinct failure modes are surfaced as distinct kinds:
// KindLibraryNotFound when the shared object cannot be located or loaded,
// KindSymbolNotFound when a mandatory symbol is missing from the installed
// version, and the native code's kind when mtmlLibraryInit itself fails.
func Init() error {
	lib.Lock()
	defer lib.Unlock()
	if lib.refcount > 0 {
		lib.refcount++
		return nil
	}

	dl, err := openLibrary()
	if err != nil {
		return err
	}
	if err := dl.bind(mtmlSymbols()); err != nil {
		if cerr := dl.close(); cerr != nil {
			klog.Errorf("failed to close %s after bind failure: %v", dl.path(), cerr)
		}
		clearBindings(mtmlSymbols())
		return errors.WithMessagef(err, "failed to bind MTML symbols from %s", dl.path())
	}

	var handle uintptr
	if err := errorFromReturn(mtmlLibraryInit(&handle)); err != nil {
		if cerr := dl.close(); cerr != nil {
			klog.Errorf("failed to close %s after init failure: %v", dl.path(), cerr)
		}
		clearBindings(mtmlSymbols())
		return errors.WithMessagef(err, "failed to initialize MTML from %s", dl.path())
	}

	lib.dl = dl
	lib.handle = handle
	lib.devices = make(map[uint32]uintptr)
	lib.refcount = 1
	klog.V(1).Infof("MTML initialized from %s", dl.path())
	return nil
}

// Shutdown releases one Init reference. When the count reaches zero it shuts
// the native library down and unloads the shared object, returning the
// process to a state from which Init works again.
//
// Native shutdown invalidates every outstanding device and sub-component
// handle implicitly, so the cached handles are dropped without individual
// frees; freeing them here would double-free.
func Shutdown() error {
	lib.Lock()
	defer lib.Unlock()
	if lib.refcount == 0 {
		return uninitializedError()
	}
	if lib.refcount > 1 {
		lib.refcount--
		return nil
	}

	if err := errorFromReturn(mtmlLibraryShutDown(lib.handle)); err != nil {
		return errors.WithMessage(err, "failed to shut MTML down")
	}
	lib.handle = 0
	lib.system = 0
	lib.devices = nil
	lib.refcount = 0

	dl := lib.dl
	lib.dl = nil
	clearBindings(mtmlSymbols())
	if err := dl.close(); err != nil {
		return err
	}
	klog.V(1).Info("MTML shut down")
	return nil
}

// libraryHandle returns the native library handle, or an Uninitialized error
// without touching the native layer.
func libraryHandle() (uintptr, error) {
	lib.Lock()
	defer lib.Unlock()
	if lib.refcount == 0 {
		return 0, uninitializedError()
	}
	return lib.handle, nil
}

// ensureInitialized is the guard for operations that already hold a handle.
func ensureInitialized() error {
	lib.Lock()
	defer lib.Unlock()
	if lib.refcount == 0 {
		return uninitializedError()
	}
	return nil
}

// LibraryVersion returns the version string of the loaded MTML library.
func LibraryVersion() (string, error) {
	handle, err := libraryHandle()
	if err != nil {
		return "", err
	}
	return getText(func(buf *byte, length uint32) Return {
		return mtmlLibraryGetVersion(handle, buf, length)
	}, LIBRARY_VERSION_BUFFER_SIZE)
}

// DriverVersion returns the version of the installed MT kernel driver.
func DriverVersion() (string, error) {
	sys, err := systemHandle()
	if err != nil {
		return "", err
	}
	return getText(func(buf *byte, length uint32) Return {
		return mtmlSystemGetDriverVersion(sys, buf, length)
	}, DRIVER_VERSION_BUFFER_SIZE)
}

// systemHandle returns the MtmlSystem handle, creating and caching it on
// first use. Its lifetime is the library handle's; native shutdown frees it.
func systemHandle() (uintptr, error) {
	lib.Lock()
	defer lib.Unlock()
	if lib.refcount == 0 {
		return 0, uninitializedError()
	}
	if lib.system != 0 {
		return lib.system, nil
	}
	var sys uintptr
	if err := errorFromReturn(mtmlLibraryInitSystem(lib.handle, &sys)); err != nil {
		return 0, err
	}
	lib.system = sys
	return sys, nil
}

// DeviceCount returns the number of devices visible to the library. The
// count is fetched fresh on every call.
func DeviceCount() (uint32, error) {
	handle, err := libraryHandle()
	if err != nil {
		return 0, err
	}
	var count uint32
	if err := errorFromReturn(mtmlLibraryCountDevice(handle, &count)); err != nil {
		return 0, err
	}
	return count, nil
}

// DeviceByIndex returns the device handle for the given index. Handles are
// cached per index for the lifetime of the library handle; repeated calls
// with the same index return the same handle rather than allocating a new
// native object each time.
func DeviceByIndex(index uint32) (Device, error) {
	lib.Lock()
	defer lib.Unlock()
	if lib.refcount == 0 {
		return Device{}, uninitializedError()
	}
	if handle, ok := lib.devices[index]; ok {
		return Device{handle: handle}, nil
	}
	var handle uintptr
	if err := errorFromReturn(mtmlLibraryInitDeviceByIndex(lib.handle, index, &handle)); err != nil {
		return Device{}, err
	}
	lib.devices[index] = handle
	return Device{handle: handle}, nil
}

// DeviceByUUID returns the device with the given UUID string.
func DeviceByUUID(uuid string) (Device, error) {
	handle, err := libraryHandle()
	if err != nil {
		return Device{}, err
	}
	if uuid == "" {
		return Device{}, invalidArgumentError("empty device UUID")
	}
	if mtmlLibraryInitDeviceByUuid == nil {
		return Device{}, functionNotFoundError("mtmlLibraryInitDeviceByUuid")
	}
	var devHandle uintptr
	if err := errorFromReturn(mtmlLibraryInitDeviceByUuid(handle, uuid, &devHandle)); err != nil {
		return Device{}, err
	}
	return cacheDeviceHandle(devHandle)
}

// DeviceByPciSbdf returns the device at the given PCI
// "segment:bus:device.function" address.
func DeviceByPciSbdf(sbdf string) (Device, error) {
	handle, err := libraryHandle()
	if err != nil {
		return Device{}, err
	}
	if sbdf == "" {
		return Device{}, invalidArgumentError("empty PCI address")
	}
	if mtmlLibraryInitDeviceByPciSbdf == nil {
		return Device{}, functionNotFoundError("mtmlLibraryInitDeviceByPciSbdf")
	}
	var devHandle uintptr
	if err := errorFromReturn(mtmlLibraryInitDeviceByPciSbdf(handle, sbdf, &devHandle)); err != nil {
		return Device{}, err
	}
	return cacheDeviceHandle(devHandle)
}

// cacheDeviceHandle stores a freshly obtained device handle in the by-index
// cache. When an entry for the index already exists the cached handle wins:
// both refer to the same physical device and keeping one avoids leaking
// native objects across repeated lookups.
func cacheDeviceHandle(handle uintptr) (Device, error) {
	var index uint32
	if err := errorFromReturn(mtmlDeviceGetIndex(handle, &index)); err != nil {
		return Device{}, err
	}
	lib.Lock()
	defer lib.Unlock()
	if lib.devices == nil {
		// Shutdown raced us; the handle is already invalid.
		return Device{}, uninitializedError()
	}
	if cached, ok := lib.devices[index]; ok {
		return Device{handle: cached}, nil
	}
	lib.devices[index] = handle
	return Device{handle: handle}, nil
}

// getText invokes a string-returning native call with a caller-sized
// buffer. The size must be positive; an undersized buffer is answered by
// the native layer with ERROR_INSUFFICIENT_SIZE, which propagates as is
// rather than returning a truncated string.
func getText(call func(buf *byte, length uint32) Return, size int) (string, error) {
	if size <= 0 {
		return "", invalidArgumentError("buffer size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if err := errorFromReturn(call(&buf[0], uint32(size))); err != nil {
		return "", err
	}
	return string(buf[:clen(buf)]), nil
}

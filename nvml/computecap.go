package nvml

import (
	"sync"

	"github.com/ebitengine/purego"
	"k8s.io/klog/v2"
)

// Compute capability is not part of MTML; it is synthesized from the
// optional MUSA runtime when that companion library is installed. When the
// runtime is absent, partially installed, or answers with an error, the
// query degrades to the neutral sentinel (0, 0) rather than failing. This
// is a documented limitation, not an error condition: callers that branch
// on compute capability must treat (0, 0) as "unknown".

var musartSonames = []string{"libmusart.so.1", "libmusart.so"}

// Attribute ids of the MUSA runtime's musaDeviceGetAttribute.
const (
	musaDevAttrComputeCapabilityMajor int32 = 75
	musaDevAttrComputeCapabilityMinor int32 = 76
)

var (
	musartOnce sync.Once

	// nil when the companion runtime is unavailable.
	musaDeviceGetAttribute func(value *int32, attr int32, device int32) int32
)

// loadMusaRuntime loads the companion runtime at most once per process.
// Every failure path leaves musaDeviceGetAttribute nil and only logs.
func loadMusaRuntime() {
	for _, soname := range musartSonames {
		handle, err := purego.Dlopen(soname, purego.RTLD_LAZY|purego.RTLD_LOCAL)
		if err != nil {
			continue
		}
		addr, err := purego.Dlsym(handle, "musaDeviceGetAttribute")
		if err != nil || addr == 0 {
			klog.V(1).Infof("MUSA runtime %q lacks musaDeviceGetAttribute; compute capability unavailable", soname)
			return
		}
		purego.RegisterFunc(&musaDeviceGetAttribute, addr)
		klog.V(1).Infof("loaded MUSA runtime %q for compute capability queries", soname)
		return
	}
	klog.V(1).Info("MUSA runtime not found; compute capability reports (0, 0)")
}

// queryComputeCapability is a seam for tests.
var queryComputeCapability = musaComputeCapability

func musaComputeCapability(index uint32) (major, minor int) {
	musartOnce.Do(loadMusaRuntime)
	if musaDeviceGetAttribute == nil {
		return 0, 0
	}
	var maj, min int32
	if musaDeviceGetAttribute(&maj, musaDevAttrComputeCapabilityMajor, int32(index)) != 0 {
		return 0, 0
	}
	if musaDeviceGetAttribute(&min, musaDevAttrComputeCapabilityMinor, int32(index)) != 0 {
		return 0, 0
	}
	return int(maj), int(min)
}

// GetCudaComputeCapability returns the compute capability of the device,
// obtained from the optional MUSA runtime. Without the runtime the neutral
// sentinel (0, 0) is returned with SUCCESS; absence of the companion is not
// an error.
func (d *Device) GetCudaComputeCapability() (int, int, Return) {
	state.Lock()
	uninitialized := state.refcount == 0
	state.Unlock()
	if uninitialized {
		return 0, 0, ERROR_UNINITIALIZED
	}
	major, minor := queryComputeCapability(d.index)
	return major, minor, SUCCESS
}

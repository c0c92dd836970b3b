package mtml

// Vpu is the video processing unit sub-component handle of a device,
// acquired via Device.Vpu and released via Free. See Gpu for the lifecycle
// contract. All VPU symbols are optional in older library versions; absent
// functions answer KindFunctionNotFound.
type Vpu struct {
	handle uintptr
}

// Free releases the handle. A second Free is rejected with an
// InvalidArgument error.
func (v *Vpu) Free() error {
	if err := ensureInitialized(); err != nil {
		return err
	}
	if v == nil || v.handle == 0 {
		return invalidArgumentError("VPU handle already released")
	}
	if err := errorFromReturn(mtmlDeviceFreeVpu(v.handle)); err != nil {
		return err
	}
	v.handle = 0
	return nil
}

// Utilization returns the overall VPU utilization in percent.
func (v *Vpu) Utilization() (uint32, error) {
	return v.query(mtmlVpuGetUtilization, "mtmlVpuGetUtilization")
}

// EncoderUtilization returns the video encoder utilization in percent.
func (v *Vpu) EncoderUtilization() (uint32, error) {
	return v.query(mtmlVpuGetEncoderUtilization, "mtmlVpuGetEncoderUtilization")
}

// DecoderUtilization returns the video decoder utilization in percent.
func (v *Vpu) DecoderUtilization() (uint32, error) {
	return v.query(mtmlVpuGetDecoderUtilization, "mtmlVpuGetDecoderUtilization")
}

func (v *Vpu) query(fn func(vpu uintptr, util *uint32) Return, name string) (uint32, error) {
	if err := ensureInitialized(); err != nil {
		return 0, err
	}
	if fn == nil {
		return 0, functionNotFoundError(name)
	}
	var util uint32
	if err := errorFromReturn(fn(v.handle, &util)); err != nil {
		return 0, err
	}
	return util, nil
}

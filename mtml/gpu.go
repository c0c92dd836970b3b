package mtml

// Gpu is the graphics/compute sub-component handle of a device, acquired
// via Device.Gpu and released via Free. Its lifetime is strictly contained
// in the parent device's validity: Shutdown invalidates it implicitly, and
// using it after Free or Shutdown is undefined behavior in the native
// library, not guarded here.
type Gpu struct {
	handle uintptr
}

// Free releases the handle. A second Free on the same handle is rejected
// with an InvalidArgument error rather than hitting the native layer's
// undefined double-free behavior.
func (g *Gpu) Free() error {
	if err := ensureInitialized(); err != nil {
		return err
	}
	if g == nil || g.handle == 0 {
		return invalidArgumentError("GPU handle already released")
	}
	if err := errorFromReturn(mtmlDeviceFreeGpu(g.handle)); err != nil {
		return err
	}
	g.handle = 0
	return nil
}

// Utilization returns the instantaneous GPU core utilization in percent.
// The value is fetched fresh on every call.
func (g *Gpu) Utilization() (uint32, error) {
	if err := ensureInitialized(); err != nil {
		return 0, err
	}
	var util uint32
	if err := errorFromReturn(mtmlGpuGetUtilization(g.handle, &util)); err != nil {
		return 0, err
	}
	return util, nil
}

// Temperature returns the current GPU core temperature in degrees Celsius.
func (g *Gpu) Temperature() (uint32, error) {
	if err := ensureInitialized(); err != nil {
		return 0, err
	}
	var temp uint32
	if err := errorFromReturn(mtmlGpuGetTemperature(g.handle, &temp)); err != nil {
		return 0, err
	}
	return temp, nil
}

// Clock returns the current GPU core clock in MHz.
func (g *Gpu) Clock() (uint32, error) {
	if err := ensureInitialized(); err != nil {
		return 0, err
	}
	var clock uint32
	if err := errorFromReturn(mtmlGpuGetClock(g.handle, &clock)); err != nil {
		return 0, err
	}
	return clock, nil
}

// MaxClock returns the maximum GPU core clock in MHz.
func (g *Gpu) MaxClock() (uint32, error) {
	if err := ensureInitialized(); err != nil {
		return 0, err
	}
	if mtmlGpuGetMaxClock == nil {
		return 0, functionNotFoundError("mtmlGpuGetMaxClock")
	}
	var clock uint32
	if err := errorFromReturn(mtmlGpuGetMaxClock(g.handle, &clock)); err != nil {
		return 0, err
	}
	return clock, nil
}

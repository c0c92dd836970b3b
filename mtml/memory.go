package mtml

// Memory is the frame-buffer memory sub-component handle of a device,
// acquired via Device.Memory and released via Free. See Gpu for the
// lifecycle contract.
type Memory struct {
	handle uintptr
}

// Free releases the handle. A second Free is rejected with an
// InvalidArgument error.
func (m *Memory) Free() error {
	if err := ensureInitialized(); err != nil {
		return err
	}
	if m == nil || m.handle == 0 {
		return invalidArgumentError("memory handle already released")
	}
	if err := errorFromReturn(mtmlDeviceFreeMemory(m.handle)); err != nil {
		return err
	}
	m.handle = 0
	return nil
}

// Total returns the total frame-buffer memory in bytes.
func (m *Memory) Total() (uint64, error) {
	if err := ensureInitialized(); err != nil {
		return 0, err
	}
	var bytes uint64
	if err := errorFromReturn(mtmlMemoryGetTotal(m.handle, &bytes)); err != nil {
		return 0, err
	}
	return bytes, nil
}

// Used returns the currently allocated frame-buffer memory in bytes.
func (m *Memory) Used() (uint64, error) {
	if err := ensureInitialized(); err != nil {
		return 0, err
	}
	var bytes uint64
	if err := errorFromReturn(mtmlMemoryGetUsed(m.handle, &bytes)); err != nil {
		return 0, err
	}
	return bytes, nil
}

// Utilization returns the memory controller utilization in percent.
func (m *Memory) Utilization() (uint32, error) {
	if err := ensureInitialized(); err != nil {
		return 0, err
	}
	if mtmlMemoryGetUtilization == nil {
		return 0, functionNotFoundError("mtmlMemoryGetUtilization")
	}
	var util uint32
	if err := errorFromReturn(mtmlMemoryGetUtilization(m.handle, &util)); err != nil {
		return 0, err
	}
	return util, nil
}

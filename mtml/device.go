package mtml

// Device is an opaque handle to one physical device. It is obtained from
// DeviceByIndex, DeviceByUUID or DeviceByPciSbdf and stays valid until
// Shutdown; devices are not reference counted individually. Using a Device
// after Shutdown is a programming error the native layer does not tolerate.
type Device struct {
	handle uintptr
}

// Index returns the zero-based index of the device.
func (d Device) Index() (uint32, error) {
	if err := ensureInitialized(); err != nil {
		return 0, err
	}
	var index uint32
	if err := errorFromReturn(mtmlDeviceGetIndex(d.handle, &index)); err != nil {
		return 0, err
	}
	return index, nil
}

// Name returns the marketing name of the device, e.g. "MTT S4000".
func (d Device) Name() (string, error) {
	if err := ensureInitialized(); err != nil {
		return "", err
	}
	return getText(func(buf *byte, length uint32) Return {
		return mtmlDeviceGetName(d.handle, buf, length)
	}, DEVICE_NAME_BUFFER_SIZE)
}

// UUID returns the globally unique identifier of the device. Some boards
// and virtualized setups report an empty UUID; callers needing a stable
// identity should fall back to the PCI address in that case.
func (d Device) UUID() (string, error) {
	if err := ensureInitialized(); err != nil {
		return "", err
	}
	return getText(func(buf *byte, length uint32) Return {
		return mtmlDeviceGetUUID(d.handle, buf, length)
	}, DEVICE_UUID_BUFFER_SIZE)
}

// Brand returns the product line of the device.
func (d Device) Brand() (BrandType, error) {
	if err := ensureInitialized(); err != nil {
		return BRAND_UNKNOWN, err
	}
	if mtmlDeviceGetBrand == nil {
		return BRAND_UNKNOWN, functionNotFoundError("mtmlDeviceGetBrand")
	}
	var brand uint32
	if err := errorFromReturn(mtmlDeviceGetBrand(d.handle, &brand)); err != nil {
		return BRAND_UNKNOWN, err
	}
	return BrandType(brand), nil
}

// PciInfo returns the PCI identity and link properties of the device.
func (d Device) PciInfo() (PciInfo, error) {
	if err := ensureInitialized(); err != nil {
		return PciInfo{}, err
	}
	var info PciInfo
	if err := errorFromReturn(mtmlDeviceGetPciInfo(d.handle, &info)); err != nil {
		return PciInfo{}, err
	}
	return info, nil
}

// Property returns the versioned device property struct. The binding stamps
// the layout version it was built against; an installed library using a
// different layout answers with KindArgumentVersionMismatch instead of
// writing past the struct.
func (d Device) Property() (DeviceProperty, error) {
	if err := ensureInitialized(); err != nil {
		return DeviceProperty{}, err
	}
	if mtmlDeviceGetProperty == nil {
		return DeviceProperty{}, functionNotFoundError("mtmlDeviceGetProperty")
	}
	prop := DeviceProperty{Version: devicePropertyVersion}
	if err := errorFromReturn(mtmlDeviceGetProperty(d.handle, &prop)); err != nil {
		return DeviceProperty{}, err
	}
	return prop, nil
}

// Gpu acquires the GPU sub-component handle of the device. Each successful
// call allocates a native handle that must be released with Gpu.Free;
// acquiring twice without freeing leaks the first handle. The binding never
// frees a handle the caller still holds.
func (d Device) Gpu() (*Gpu, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}
	var handle uintptr
	if err := errorFromReturn(mtmlDeviceInitGpu(d.handle, &handle)); err != nil {
		return nil, err
	}
	return &Gpu{handle: handle}, nil
}

// Memory acquires the memory sub-component handle of the device. See Gpu
// for the lifecycle contract.
func (d Device) Memory() (*Memory, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}
	var handle uintptr
	if err := errorFromReturn(mtmlDeviceInitMemory(d.handle, &handle)); err != nil {
		return nil, err
	}
	return &Memory{handle: handle}, nil
}

// Vpu acquires the video processing unit sub-component handle of the
// device. See Gpu for the lifecycle contract.
func (d Device) Vpu() (*Vpu, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}
	var handle uintptr
	if err := errorFromReturn(mtmlDeviceInitVpu(d.handle, &handle)); err != nil {
		return nil, err
	}
	return &Vpu{handle: handle}, nil
}

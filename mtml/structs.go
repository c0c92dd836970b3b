package mtml

// Buffer sizes from the mtml.h header contract. String queries use these
// fixed sizes; the native layer answers ERROR_INSUFFICIENT_SIZE when a
// caller-supplied buffer is too small, it never truncates.
const (
	LIBRARY_VERSION_BUFFER_SIZE = 32
	DRIVER_VERSION_BUFFER_SIZE  = 80
	DEVICE_NAME_BUFFER_SIZE     = 64
	DEVICE_UUID_BUFFER_SIZE     = 48
	PCI_SBDF_BUFFER_SIZE        = 32
)

// devicePropertyVersion is the struct layout version this binding was built
// against. It is stamped into DeviceProperty before the native call; a
// library built against a different layout answers
// ERROR_ARGUMENT_VERSION_MISMATCH.
const devicePropertyVersion uint32 = 1

// PciInfo mirrors MtmlPciInfo. Field order, sizes and padding match the
// native ABI; the struct is passed to the library by pointer and filled in
// place.
type PciInfo struct {
	// Sbdf is the NUL-terminated "segment:bus:device.function" address,
	// e.g. "0000:3b:00.0".
	Sbdf           [PCI_SBDF_BUFFER_SIZE]byte
	Segment        uint32
	Bus            uint32
	Device         uint32
	PciDeviceID    uint32
	PciSubsystemID uint32
	BusWidth       uint32
	LinkSpeed      uint32
	reserved       [4]uint32
}

// SbdfString returns the PCI address as a Go string.
func (p *PciInfo) SbdfString() string {
	return string(p.Sbdf[:clen(p.Sbdf[:])])
}

// DeviceProperty mirrors MtmlDeviceProperty, a versioned native struct. The
// binding stamps Version before the call, so a layout mismatch with the
// installed library is detected by the library rather than corrupting
// memory.
type DeviceProperty struct {
	Version    uint32
	VirtRole   uint32
	MpcCapable uint32
	reserved   [8]uint32
}

// Virtualization roles reported in DeviceProperty.VirtRole.
const (
	VIRT_ROLE_NONE         uint32 = 0
	VIRT_ROLE_HOST         uint32 = 1
	VIRT_ROLE_GUEST        uint32 = 2
	VIRT_ROLE_SRIOV_PARENT uint32 = 3
)

// BrandType identifies the product line of a device.
type BrandType uint32

const (
	BRAND_MTT     BrandType = 0
	BRAND_SUDI    BrandType = 1
	BRAND_UNKNOWN BrandType = 0xFFFFFFFF
)

package mtml

// Kind defined on a separate file so it works with enumer.

// Kind is the canonical classification of a failure, independent of any
// particular API's numeric code space. It is the pivot used to translate
// errors between the native MTML taxonomy and the NVML-style taxonomy of
// the compatibility package.
type Kind int

const (
	KindSuccess Kind = iota
	KindUninitialized
	KindInvalidArgument
	KindNotSupported
	KindNoPermission
	KindNotFound
	KindAlreadyInitialized
	KindInsufficientSize
	KindInsufficientMemory
	KindTimeout
	KindDriverNotLoaded
	KindUnexpectedSize
	KindFunctionNotFound
	KindArgumentVersionMismatch
	KindLibraryNotFound
	KindSymbolNotFound
	KindUnknown
)

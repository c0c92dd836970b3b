package mtml

// Return mirrors MtmlReturn, the status code every native entry point
// returns. The values match the mtml.h header contract.
type Return int32

const (
	SUCCESS                         Return = 0
	ERROR_DRIVER_NOT_LOADED         Return = 1
	ERROR_INVALID_ARGUMENT          Return = 2
	ERROR_NOT_SUPPORTED             Return = 3
	ERROR_NO_PERMISSION             Return = 4
	ERROR_INSUFFICIENT_SIZE         Return = 5
	ERROR_NOT_FOUND                 Return = 6
	ERROR_INSUFFICIENT_MEMORY       Return = 7
	ERROR_TIMEOUT                   Return = 8
	ERROR_UNINITIALIZED             Return = 9
	ERROR_ALREADY_INITIALIZED       Return = 10
	ERROR_UNEXPECTED_SIZE           Return = 11
	ERROR_FUNCTION_NOT_FOUND        Return = 12
	ERROR_ARGUMENT_VERSION_MISMATCH Return = 13
	ERROR_UNKNOWN                   Return = 999

	// Codes synthesized by the binding itself, outside the native space:
	// the shared library could not be located/loaded, or a mandatory
	// symbol is missing from the installed version.
	ERROR_LIBRARY_NOT_FOUND Return = 1000
	ERROR_SYMBOL_NOT_FOUND  Return = 1001
)

// KindOf classifies a Return into the canonical, taxonomy-independent error
// kind. It is a pure function and total over all int32 inputs: codes outside
// the header contract classify as KindUnknown.
func (r Return) KindOf() Kind {
	switch r {
	case SUCCESS:
		return KindSuccess
	case ERROR_DRIVER_NOT_LOADED:
		return KindDriverNotLoaded
	case ERROR_INVALID_ARGUMENT:
		return KindInvalidArgument
	case ERROR_NOT_SUPPORTED:
		return KindNotSupported
	case ERROR_NO_PERMISSION:
		return KindNoPermission
	case ERROR_INSUFFICIENT_SIZE:
		return KindInsufficientSize
	case ERROR_NOT_FOUND:
		return KindNotFound
	case ERROR_INSUFFICIENT_MEMORY:
		return KindInsufficientMemory
	case ERROR_TIMEOUT:
		return KindTimeout
	case ERROR_UNINITIALIZED:
		return KindUninitialized
	case ERROR_ALREADY_INITIALIZED:
		return KindAlreadyInitialized
	case ERROR_UNEXPECTED_SIZE:
		return KindUnexpectedSize
	case ERROR_FUNCTION_NOT_FOUND:
		return KindFunctionNotFound
	case ERROR_ARGUMENT_VERSION_MISMATCH:
		return KindArgumentVersionMismatch
	case ERROR_LIBRARY_NOT_FOUND:
		return KindLibraryNotFound
	case ERROR_SYMBOL_NOT_FOUND:
		return KindSymbolNotFound
	default:
		return KindUnknown
	}
}

// fallbackMessages is used when the native mtmlErrorString is not available
// (library not loaded, or a version without the symbol).
var fallbackMessages = map[Return]string{
	SUCCESS:                         "the operation was successful",
	ERROR_DRIVER_NOT_LOADED:         "the MT kernel driver is not loaded",
	ERROR_INVALID_ARGUMENT:          "an argument is invalid",
	ERROR_NOT_SUPPORTED:             "the requested operation is not supported on this device",
	ERROR_NO_PERMISSION:             "the current user has no permission to perform this operation",
	ERROR_INSUFFICIENT_SIZE:         "the supplied buffer is too small",
	ERROR_NOT_FOUND:                 "the requested object was not found",
	ERROR_INSUFFICIENT_MEMORY:       "insufficient memory to complete the operation",
	ERROR_TIMEOUT:                   "the operation timed out",
	ERROR_UNINITIALIZED:             "the library has not been initialized",
	ERROR_ALREADY_INITIALIZED:       "the library has already been initialized",
	ERROR_UNEXPECTED_SIZE:           "the native structure size does not match the header contract",
	ERROR_FUNCTION_NOT_FOUND:        "the function is not available in the installed library version",
	ERROR_ARGUMENT_VERSION_MISMATCH: "the structure version does not match the installed library",
	ERROR_LIBRARY_NOT_FOUND:         "the MTML shared library could not be found",
	ERROR_SYMBOL_NOT_FOUND:          "a required symbol is missing from the MTML shared library",
	ERROR_UNKNOWN:                   "an unknown internal error occurred",
}

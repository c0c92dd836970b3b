package nvml

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gomtml/gomtml/mtml"
)

// Return is a status code in the NVML numeric space. The shim translates
// between this space and the native MTML space through the canonical
// mtml.Kind enumeration, never by numeric passthrough: the two spaces
// assign different numbers to the same failure kinds.
type Return int32

const (
	SUCCESS                         Return = 0
	ERROR_UNINITIALIZED             Return = 1
	ERROR_INVALID_ARGUMENT          Return = 2
	ERROR_NOT_SUPPORTED             Return = 3
	ERROR_NO_PERMISSION             Return = 4
	ERROR_ALREADY_INITIALIZED       Return = 5
	ERROR_NOT_FOUND                 Return = 6
	ERROR_INSUFFICIENT_SIZE         Return = 7
	ERROR_INSUFFICIENT_POWER        Return = 8
	ERROR_DRIVER_NOT_LOADED         Return = 9
	ERROR_TIMEOUT                   Return = 10
	ERROR_IRQ_ISSUE                 Return = 11
	ERROR_LIBRARY_NOT_FOUND         Return = 12
	ERROR_FUNCTION_NOT_FOUND        Return = 13
	ERROR_CORRUPTED_INFOROM         Return = 14
	ERROR_GPU_IS_LOST               Return = 15
	ERROR_RESET_REQUIRED            Return = 16
	ERROR_OPERATING_SYSTEM          Return = 17
	ERROR_LIB_RM_VERSION_MISMATCH   Return = 18
	ERROR_IN_USE                    Return = 19
	ERROR_MEMORY                    Return = 20
	ERROR_NO_DATA                   Return = 21
	ERROR_VGPU_ECC_NOT_SUPPORTED    Return = 22
	ERROR_INSUFFICIENT_RESOURCES    Return = 23
	ERROR_FREQ_NOT_SUPPORTED        Return = 24
	ERROR_ARGUMENT_VERSION_MISMATCH Return = 25
	ERROR_UNKNOWN                   Return = 999
)

// Error carries a failure in the NVML vocabulary. It is structurally the
// same shape as mtml.Error (code, canonical kind, message); only the code
// space differs.
type Error struct {
	Code    Return
	Kind    mtml.Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("nvml: %s (%s, code=%d)", e.Message, e.Kind, int32(e.Code))
}

// returnForKind maps a canonical kind to the NVML code space. Kinds without
// an NVML counterpart collapse onto the closest code: a missing symbol
// means the installed library is unusable, exactly what
// ERROR_LIBRARY_NOT_FOUND communicates, and an unexpected struct size has
// no NVML equivalent at all.
func returnForKind(k mtml.Kind) Return {
	switch k {
	case mtml.KindSuccess:
		return SUCCESS
	case mtml.KindUninitialized:
		return ERROR_UNINITIALIZED
	case mtml.KindInvalidArgument:
		return ERROR_INVALID_ARGUMENT
	case mtml.KindNotSupported:
		return ERROR_NOT_SUPPORTED
	case mtml.KindNoPermission:
		return ERROR_NO_PERMISSION
	case mtml.KindAlreadyInitialized:
		return ERROR_ALREADY_INITIALIZED
	case mtml.KindNotFound:
		return ERROR_NOT_FOUND
	case mtml.KindInsufficientSize:
		return ERROR_INSUFFICIENT_SIZE
	case mtml.KindInsufficientMemory:
		return ERROR_MEMORY
	case mtml.KindTimeout:
		return ERROR_TIMEOUT
	case mtml.KindDriverNotLoaded:
		return ERROR_DRIVER_NOT_LOADED
	case mtml.KindFunctionNotFound:
		return ERROR_FUNCTION_NOT_FOUND
	case mtml.KindArgumentVersionMismatch:
		return ERROR_ARGUMENT_VERSION_MISMATCH
	case mtml.KindLibraryNotFound, mtml.KindSymbolNotFound:
		return ERROR_LIBRARY_NOT_FOUND
	default:
		return ERROR_UNKNOWN
	}
}

// KindOf classifies an NVML code into the canonical kind. Codes with no
// canonical equivalent (inforom corruption, GPU lost, ...) classify as
// KindUnknown. Pure and total over all int32 inputs.
func (r Return) KindOf() mtml.Kind {
	switch r {
	case SUCCESS:
		return mtml.KindSuccess
	case ERROR_UNINITIALIZED:
		return mtml.KindUninitialized
	case ERROR_INVALID_ARGUMENT:
		return mtml.KindInvalidArgument
	case ERROR_NOT_SUPPORTED:
		return mtml.KindNotSupported
	case ERROR_NO_PERMISSION:
		return mtml.KindNoPermission
	case ERROR_ALREADY_INITIALIZED:
		return mtml.KindAlreadyInitialized
	case ERROR_NOT_FOUND:
		return mtml.KindNotFound
	case ERROR_INSUFFICIENT_SIZE:
		return mtml.KindInsufficientSize
	case ERROR_MEMORY:
		return mtml.KindInsufficientMemory
	case ERROR_TIMEOUT:
		return mtml.KindTimeout
	case ERROR_DRIVER_NOT_LOADED:
		return mtml.KindDriverNotLoaded
	case ERROR_LIBRARY_NOT_FOUND:
		return mtml.KindLibraryNotFound
	case ERROR_FUNCTION_NOT_FOUND:
		return mtml.KindFunctionNotFound
	case ERROR_ARGUMENT_VERSION_MISMATCH:
		return mtml.KindArgumentVersionMismatch
	default:
		return mtml.KindUnknown
	}
}

var returnMessages = map[Return]string{
	SUCCESS:                         "the operation was successful",
	ERROR_UNINITIALIZED:             "the library has not been initialized",
	ERROR_INVALID_ARGUMENT:          "an argument is invalid",
	ERROR_NOT_SUPPORTED:             "the requested operation is not supported on this device",
	ERROR_NO_PERMISSION:             "the current user has no permission to perform this operation",
	ERROR_ALREADY_INITIALIZED:       "the library has already been initialized",
	ERROR_NOT_FOUND:                 "the requested object was not found",
	ERROR_INSUFFICIENT_SIZE:         "the supplied buffer is too small",
	ERROR_INSUFFICIENT_POWER:        "the device has insufficient power",
	ERROR_DRIVER_NOT_LOADED:         "the kernel driver is not loaded",
	ERROR_TIMEOUT:                   "the operation timed out",
	ERROR_IRQ_ISSUE:                 "an interrupt issue occurred with the device",
	ERROR_LIBRARY_NOT_FOUND:         "the management library could not be found or loaded",
	ERROR_FUNCTION_NOT_FOUND:        "the function is not available in the installed library version",
	ERROR_CORRUPTED_INFOROM:         "the device information storage is corrupted",
	ERROR_GPU_IS_LOST:               "the device has fallen off the bus or is otherwise inaccessible",
	ERROR_RESET_REQUIRED:            "the device requires a reset before it can be used again",
	ERROR_OPERATING_SYSTEM:          "the operating system blocked the request",
	ERROR_LIB_RM_VERSION_MISMATCH:   "the library and the kernel driver do not match",
	ERROR_IN_USE:                    "the device is busy",
	ERROR_MEMORY:                    "insufficient memory to complete the operation",
	ERROR_NO_DATA:                   "no data is available",
	ERROR_VGPU_ECC_NOT_SUPPORTED:    "the requested operation is not available with ECC enabled",
	ERROR_INSUFFICIENT_RESOURCES:    "insufficient resources to complete the operation",
	ERROR_FREQ_NOT_SUPPORTED:        "the requested frequency is not supported",
	ERROR_ARGUMENT_VERSION_MISMATCH: "the structure version does not match the installed library",
	ERROR_UNKNOWN:                   "an unknown internal error occurred",
}

// ErrorString returns a human-readable description of an NVML code. Unknown
// codes get a generic description, never an error.
func ErrorString(r Return) string {
	if msg, ok := returnMessages[r]; ok {
		return msg
	}
	return fmt.Sprintf("unrecognized return code %d", int32(r))
}

// ErrorFromReturn builds the structured error value for a code; SUCCESS
// yields nil.
func ErrorFromReturn(r Return) error {
	if r == SUCCESS {
		return nil
	}
	return &Error{Code: r, Kind: r.KindOf(), Message: ErrorString(r)}
}

// toReturn translates an error coming out of the native binding into the
// NVML code space via its canonical kind.
func toReturn(err error) Return {
	if err == nil {
		return SUCCESS
	}
	var nerr *Error
	if errors.As(err, &nerr) {
		return nerr.Code
	}
	var merr *mtml.Error
	if errors.As(err, &merr) {
		return returnForKind(merr.Kind)
	}
	return ERROR_UNKNOWN
}

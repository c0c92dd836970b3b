package mtml

import "fmt"

// Error is the structured error returned by every binding operation. It
// carries the native return code, its canonical Kind, and a descriptive
// message. The message comes from the native mtmlErrorString when the
// library is loaded and exports it, otherwise from a static fallback table.
type Error struct {
	Code    Return
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("mtml: %s (%s, code=%d)", e.Message, e.Kind, int32(e.Code))
}

// errorFromReturn translates a native return code into a Go error. SUCCESS
// translates to nil. Translation never fails: codes outside the header
// contract yield an Error of KindUnknown.
func errorFromReturn(r Return) error {
	if r == SUCCESS {
		return nil
	}
	return &Error{Code: r, Kind: r.KindOf(), Message: ErrorString(r)}
}

// ErrorString returns a human-readable description for a return code. It
// prefers the native library's own description and falls back to a static
// table when the library is not loaded or predates mtmlErrorString.
func ErrorString(r Return) string {
	if fn := mtmlErrorString; fn != nil && r >= 0 && r < ERROR_LIBRARY_NOT_FOUND {
		if p := fn(r); p != 0 {
			return goString(p)
		}
	}
	if msg, ok := fallbackMessages[r]; ok {
		return msg
	}
	return fmt.Sprintf("unrecognized MTML return code %d", int32(r))
}

// uninitializedError is the guard failure used before any native call is
// attempted while the library is not initialized.
func uninitializedError() error {
	return &Error{
		Code:    ERROR_UNINITIALIZED,
		Kind:    KindUninitialized,
		Message: fallbackMessages[ERROR_UNINITIALIZED],
	}
}

func functionNotFoundError(name string) error {
	return &Error{
		Code:    ERROR_FUNCTION_NOT_FOUND,
		Kind:    KindFunctionNotFound,
		Message: fmt.Sprintf("%s is not available in the installed MTML version", name),
	}
}

func invalidArgumentError(format string, args ...any) error {
	return &Error{
		Code:    ERROR_INVALID_ARGUMENT,
		Kind:    KindInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

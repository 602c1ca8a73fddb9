package errcode

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Resolution and registration
	ResourceUnavailable  Code = "resource_unavailable"
	OutOfMemory          Code = "out_of_memory"
	RegistrationConflict Code = "registration_conflict"
	ProbeDefer           Code = "probe_defer"
	InvalidDescription   Code = "invalid_description"

	// Tree lookup
	UnknownClock    Code = "unknown_clock"
	UnknownProvider Code = "unknown_provider"

	Unsupported Code = "unsupported"
	Error       Code = "error" // generic fallback
)

// E wraps a Code with operation context and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is makes errors.Is(err, someCode) match through the wrapper.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

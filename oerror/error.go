package oerror

import "fmt"

// ClimberError is the error type returned by climber packages for failures that originate inside the
// module rather than from a wrapped dependency.
type ClimberError struct {
	Err string
}

// New returns a new ClimberError formatted with the arguments passed.
func New(format string, args ...any) *ClimberError {
	if len(args) == 0 {
		return &ClimberError{Err: format}
	}
	return &ClimberError{Err: fmt.Sprintf(format, args...)}
}

func (e *ClimberError) Error() string {
	return e.Err
}

package assert

import "github.com/oomph-ac/climber/oerror"

// IsTrue panics with a ClimberError when ok is false. It guards invariants that can only break through a
// programming error, never through world or input data.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

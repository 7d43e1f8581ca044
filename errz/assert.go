package errz

import "fmt"

// AssertionError is the payload of panics raised when an internal invariant
// of the analysis is broken. Unlike a StructuralError it is never
// attributable to the method under analysis; it indicates a defect in this
// library or its caller and is not meant to be recovered.
type AssertionError struct {
	Message string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return "assertion violated: " + e.Message
}

// Assertf panics with an AssertionError carrying the formatted message.
func Assertf(format string, args ...any) {
	panic(&AssertionError{Message: fmt.Sprintf(format, args...)})
}

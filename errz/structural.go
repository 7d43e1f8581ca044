// Package errz defines the error types raised by the subroutine analysis.
//
// Structural errors describe malformed input methods and are returned to the
// caller; assertion errors describe internal invariant breaches and are
// raised as panics.
package errz

import (
	"bytes"
	"errors"
	"fmt"
)

// ViolationKind categorizes a structural code violation.
type ViolationKind int

const (
	// SharedInstruction indicates an instruction claimed by two regions.
	SharedInstruction ViolationKind = iota
	// MissingExit indicates a subroutine with no RET instruction.
	MissingExit
	// MultipleExits indicates a subroutine with more than one RET.
	MultipleExits
	// ExitSlotMismatch indicates a RET whose local slot differs from the
	// slot the subroutine's entry instruction stores to.
	ExitSlotMismatch
	// ProtectedSubroutine indicates a subroutine instruction inside an
	// exception handler's protected range.
	ProtectedSubroutine
	// RecursiveSlotReuse indicates a call path on which two subroutines use
	// the same return-address slot.
	RecursiveSlotReuse
	// BadEntry indicates a JSR whose target is not an astore instruction.
	BadEntry
)

// String returns the string representation of the violation kind.
func (k ViolationKind) String() string {
	switch k {
	case SharedInstruction:
		return "shared instruction"
	case MissingExit:
		return "missing exit"
	case MultipleExits:
		return "multiple exits"
	case ExitSlotMismatch:
		return "exit slot mismatch"
	case ProtectedSubroutine:
		return "protected subroutine"
	case RecursiveSlotReuse:
		return "recursive slot reuse"
	case BadEntry:
		return "bad entry"
	default:
		return "structural violation"
	}
}

// StructuralError reports that the method under analysis violates the
// well-formedness rules for subroutines. It carries the offending
// instructions and regions, pre-rendered, for diagnostics.
type StructuralError struct {
	Kind         ViolationKind
	Message      string
	Instructions []string
	Regions      []string
	Cause        error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error, if any.
func (e *StructuralError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage returns a multi-line rendering of the violation with
// the offending instructions and regions listed.
func (e *StructuralError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	for _, ins := range e.Instructions {
		msg.WriteString(" | ")
		msg.WriteString(ins)
		msg.WriteString("\n")
	}
	for _, r := range e.Regions {
		msg.WriteString(" in ")
		msg.WriteString(r)
		msg.WriteString("\n")
	}
	return msg.String()
}

// Structuralf creates a StructuralError with a formatted message.
func Structuralf(kind ViolationKind, format string, args ...any) *StructuralError {
	return &StructuralError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithInstructions attaches rendered instruction handles to the error.
func (e *StructuralError) WithInstructions(ins ...string) *StructuralError {
	e.Instructions = append(e.Instructions, ins...)
	return e
}

// WithRegions attaches rendered region identities to the error.
func (e *StructuralError) WithRegions(regions ...string) *StructuralError {
	e.Regions = append(e.Regions, regions...)
	return e
}

// IsStructural reports whether err is (or wraps) a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// Package subroutine partitions a method's instructions into JSR/RET
// subroutines plus one top-level region and enforces a strict notion of
// subroutine well-formedness.
//
// The bytecode specification's own definition of subroutines is informal
// and incomplete, so this package uses a more rigid one: a subroutine is the
// set of instructions reachable from the target of a JSR or JSR_W up to a
// single matching RET, never shared with another subroutine or with the
// top level, and never protected by an exception handler. Methods that do
// not fit this shape are rejected with a structural error.
//
// A Table is built once per method and is immutable afterwards; all queries
// are pure reads and safe for concurrent use.
package subroutine

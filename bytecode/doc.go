// Package bytecode models a single method body as an ordered sequence of
// decoded instruction handles plus its exception handler table.
//
// A Method is immutable after construction and safe for concurrent reads.
// Instruction handles are owned by their Method; other packages hold
// references to them (identity is pointer identity) but never copies.
package bytecode

package bytecode

import (
	"fmt"
	"strings"

	"github.com/jverify/jverify/op"
)

// Instruction is one decoded instruction in a method body. Handles are
// created by NewMethod and never outlive their Method.
type Instruction struct {
	offset  int
	opcode  op.Code
	slot    int // local slot operand, -1 when none
	wide    bool
	next    *Instruction
	targets []*Instruction
}

// Offset returns the position of the instruction in the method body.
func (i *Instruction) Offset() int {
	return i.offset
}

// Opcode returns the decoded operation.
func (i *Instruction) Opcode() op.Code {
	return i.opcode
}

// Next returns the physically following instruction, or nil for the last
// instruction of the method.
func (i *Instruction) Next() *Instruction {
	return i.next
}

// Targets returns the jump targets of a branching instruction. For switches
// the default target comes first, followed by the case targets. The returned
// slice is a copy.
func (i *Instruction) Targets() []*Instruction {
	if i.targets == nil {
		return nil
	}
	dst := make([]*Instruction, len(i.targets))
	copy(dst, i.targets)
	return dst
}

// LocalSlot returns the local variable slot the instruction reads or writes,
// or -1 when the instruction has no local operand.
func (i *Instruction) LocalSlot() int {
	return i.slot
}

// LocalWide reports whether the local access is two slots wide (long or
// double values).
func (i *Instruction) LocalWide() bool {
	return i.wide
}

// String renders the instruction for diagnostics, e.g. "7: jsr ->12".
func (i *Instruction) String() string {
	info := op.GetInfo(i.opcode)
	switch info.Kind {
	case op.KindCall, op.KindJump, op.KindCondBranch:
		return fmt.Sprintf("%d: %s ->%d", i.offset, info.Name, i.targets[0].offset)
	case op.KindSwitch:
		var b strings.Builder
		fmt.Fprintf(&b, "%d: %s", i.offset, info.Name)
		for n, t := range i.targets {
			if n == 0 {
				fmt.Fprintf(&b, " default->%d", t.offset)
			} else {
				fmt.Fprintf(&b, " ->%d", t.offset)
			}
		}
		return b.String()
	case op.KindLocal, op.KindRet:
		if info.ImplicitSlot < 0 {
			return fmt.Sprintf("%d: %s %d", i.offset, info.Name, i.slot)
		}
		return fmt.Sprintf("%d: %s", i.offset, info.Name)
	default:
		return fmt.Sprintf("%d: %s", i.offset, info.Name)
	}
}

package subroutine

import (
	"github.com/jverify/jverify/bytecode"
	"github.com/jverify/jverify/op"
)

// successors returns the instructions that may execute immediately after
// ins within the same region. A RET has no successors here; a JSR has only
// its physical successor, never its target, since the target starts a
// different region and is reached by seeding that region's traversal.
func successors(ins *bytecode.Instruction) []*bytecode.Instruction {
	switch ins.Opcode().Kind() {
	case op.KindRet, op.KindReturn, op.KindThrow:
		return nil
	case op.KindCall:
		if next := ins.Next(); next != nil {
			return []*bytecode.Instruction{next}
		}
		return nil
	case op.KindJump:
		return ins.Targets()
	case op.KindSwitch:
		// Default target first, then every case target.
		return ins.Targets()
	case op.KindCondBranch:
		var out []*bytecode.Instruction
		if next := ins.Next(); next != nil {
			out = append(out, next)
		}
		return append(out, ins.Targets()...)
	default:
		if next := ins.Next(); next != nil {
			return []*bytecode.Instruction{next}
		}
		return nil
	}
}

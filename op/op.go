// Package op defines the JVM opcodes and the opcode classification used by
// the subroutine analysis.
package op

// Code is a JVM opcode byte.
type Code uint8

const (
	Nop Code = 0x00

	// Local variable loads
	Iload  Code = 0x15
	Lload  Code = 0x16
	Fload  Code = 0x17
	Dload  Code = 0x18
	Aload  Code = 0x19
	Iload0 Code = 0x1a
	Iload1 Code = 0x1b
	Iload2 Code = 0x1c
	Iload3 Code = 0x1d
	Lload0 Code = 0x1e
	Lload1 Code = 0x1f
	Lload2 Code = 0x20
	Lload3 Code = 0x21
	Fload0 Code = 0x22
	Fload1 Code = 0x23
	Fload2 Code = 0x24
	Fload3 Code = 0x25
	Dload0 Code = 0x26
	Dload1 Code = 0x27
	Dload2 Code = 0x28
	Dload3 Code = 0x29
	Aload0 Code = 0x2a
	Aload1 Code = 0x2b
	Aload2 Code = 0x2c
	Aload3 Code = 0x2d

	// Local variable stores
	Istore  Code = 0x36
	Lstore  Code = 0x37
	Fstore  Code = 0x38
	Dstore  Code = 0x39
	Astore  Code = 0x3a
	Istore0 Code = 0x3b
	Istore1 Code = 0x3c
	Istore2 Code = 0x3d
	Istore3 Code = 0x3e
	Lstore0 Code = 0x3f
	Lstore1 Code = 0x40
	Lstore2 Code = 0x41
	Lstore3 Code = 0x42
	Fstore0 Code = 0x43
	Fstore1 Code = 0x44
	Fstore2 Code = 0x45
	Fstore3 Code = 0x46
	Dstore0 Code = 0x47
	Dstore1 Code = 0x48
	Dstore2 Code = 0x49
	Dstore3 Code = 0x4a
	Astore0 Code = 0x4b
	Astore1 Code = 0x4c
	Astore2 Code = 0x4d
	Astore3 Code = 0x4e

	Iinc Code = 0x84

	// Conditional branches
	Ifeq      Code = 0x99
	Ifne      Code = 0x9a
	Iflt      Code = 0x9b
	Ifge      Code = 0x9c
	Ifgt      Code = 0x9d
	Ifle      Code = 0x9e
	IfIcmpeq  Code = 0x9f
	IfIcmpne  Code = 0xa0
	IfIcmplt  Code = 0xa1
	IfIcmpge  Code = 0xa2
	IfIcmpgt  Code = 0xa3
	IfIcmple  Code = 0xa4
	IfAcmpeq  Code = 0xa5
	IfAcmpne  Code = 0xa6
	Ifnull    Code = 0xc6
	Ifnonnull Code = 0xc7

	// Unconditional jumps and subroutine linkage
	Goto  Code = 0xa7
	Jsr   Code = 0xa8
	Ret   Code = 0xa9
	GotoW Code = 0xc8
	JsrW  Code = 0xc9

	// Multi-way branches
	Tableswitch  Code = 0xaa
	Lookupswitch Code = 0xab

	// Method returns
	Ireturn Code = 0xac
	Lreturn Code = 0xad
	Freturn Code = 0xae
	Dreturn Code = 0xaf
	Areturn Code = 0xb0
	Return  Code = 0xb1

	Athrow Code = 0xbf
)

// Kind classifies an opcode by the control-flow or local-variable behavior
// the subroutine analysis cares about.
type Kind int

const (
	// KindOther covers every opcode with plain fallthrough semantics.
	KindOther Kind = iota
	// KindCall is the JSR family: jump while remembering a return address.
	KindCall
	// KindRet returns from a subroutine via a stored return address.
	KindRet
	// KindJump is an unconditional goto.
	KindJump
	// KindCondBranch is a two-way conditional branch.
	KindCondBranch
	// KindSwitch is a multi-way branch (tableswitch, lookupswitch).
	KindSwitch
	// KindReturn terminates the method normally.
	KindReturn
	// KindThrow terminates the method abnormally.
	KindThrow
	// KindLocal reads or writes a local variable slot.
	KindLocal
)

// String returns a short name for the kind, e.g. "call" for KindCall.
func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindRet:
		return "ret"
	case KindJump:
		return "jump"
	case KindCondBranch:
		return "cond-branch"
	case KindSwitch:
		return "switch"
	case KindReturn:
		return "return"
	case KindThrow:
		return "throw"
	case KindLocal:
		return "local"
	default:
		return "other"
	}
}

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string
	Kind Kind
	// ImplicitSlot is the local slot encoded in the opcode itself for the
	// _0.._3 short forms, or -1 when the slot is an explicit operand or the
	// opcode has no local operand at all.
	ImplicitSlot int
	// WideLocal is true for long/double loads and stores, which occupy the
	// named slot plus the following one.
	WideLocal bool
}

var infos [256]Info

var byName = make(map[string]Code)

func init() {
	for i := range infos {
		infos[i] = Info{Code: Code(i), Name: "unknown", Kind: KindOther, ImplicitSlot: -1}
	}
	type opInfo struct {
		op       Code
		name     string
		kind     Kind
		implicit int
		wide     bool
	}
	ops := []opInfo{
		{Nop, "nop", KindOther, -1, false},
		{Iload, "iload", KindLocal, -1, false},
		{Lload, "lload", KindLocal, -1, true},
		{Fload, "fload", KindLocal, -1, false},
		{Dload, "dload", KindLocal, -1, true},
		{Aload, "aload", KindLocal, -1, false},
		{Iload0, "iload_0", KindLocal, 0, false},
		{Iload1, "iload_1", KindLocal, 1, false},
		{Iload2, "iload_2", KindLocal, 2, false},
		{Iload3, "iload_3", KindLocal, 3, false},
		{Lload0, "lload_0", KindLocal, 0, true},
		{Lload1, "lload_1", KindLocal, 1, true},
		{Lload2, "lload_2", KindLocal, 2, true},
		{Lload3, "lload_3", KindLocal, 3, true},
		{Fload0, "fload_0", KindLocal, 0, false},
		{Fload1, "fload_1", KindLocal, 1, false},
		{Fload2, "fload_2", KindLocal, 2, false},
		{Fload3, "fload_3", KindLocal, 3, false},
		{Dload0, "dload_0", KindLocal, 0, true},
		{Dload1, "dload_1", KindLocal, 1, true},
		{Dload2, "dload_2", KindLocal, 2, true},
		{Dload3, "dload_3", KindLocal, 3, true},
		{Aload0, "aload_0", KindLocal, 0, false},
		{Aload1, "aload_1", KindLocal, 1, false},
		{Aload2, "aload_2", KindLocal, 2, false},
		{Aload3, "aload_3", KindLocal, 3, false},
		{Istore, "istore", KindLocal, -1, false},
		{Lstore, "lstore", KindLocal, -1, true},
		{Fstore, "fstore", KindLocal, -1, false},
		{Dstore, "dstore", KindLocal, -1, true},
		{Astore, "astore", KindLocal, -1, false},
		{Istore0, "istore_0", KindLocal, 0, false},
		{Istore1, "istore_1", KindLocal, 1, false},
		{Istore2, "istore_2", KindLocal, 2, false},
		{Istore3, "istore_3", KindLocal, 3, false},
		{Lstore0, "lstore_0", KindLocal, 0, true},
		{Lstore1, "lstore_1", KindLocal, 1, true},
		{Lstore2, "lstore_2", KindLocal, 2, true},
		{Lstore3, "lstore_3", KindLocal, 3, true},
		{Fstore0, "fstore_0", KindLocal, 0, false},
		{Fstore1, "fstore_1", KindLocal, 1, false},
		{Fstore2, "fstore_2", KindLocal, 2, false},
		{Fstore3, "fstore_3", KindLocal, 3, false},
		{Dstore0, "dstore_0", KindLocal, 0, true},
		{Dstore1, "dstore_1", KindLocal, 1, true},
		{Dstore2, "dstore_2", KindLocal, 2, true},
		{Dstore3, "dstore_3", KindLocal, 3, true},
		{Astore0, "astore_0", KindLocal, 0, false},
		{Astore1, "astore_1", KindLocal, 1, false},
		{Astore2, "astore_2", KindLocal, 2, false},
		{Astore3, "astore_3", KindLocal, 3, false},
		{Iinc, "iinc", KindLocal, -1, false},
		{Ifeq, "ifeq", KindCondBranch, -1, false},
		{Ifne, "ifne", KindCondBranch, -1, false},
		{Iflt, "iflt", KindCondBranch, -1, false},
		{Ifge, "ifge", KindCondBranch, -1, false},
		{Ifgt, "ifgt", KindCondBranch, -1, false},
		{Ifle, "ifle", KindCondBranch, -1, false},
		{IfIcmpeq, "if_icmpeq", KindCondBranch, -1, false},
		{IfIcmpne, "if_icmpne", KindCondBranch, -1, false},
		{IfIcmplt, "if_icmplt", KindCondBranch, -1, false},
		{IfIcmpge, "if_icmpge", KindCondBranch, -1, false},
		{IfIcmpgt, "if_icmpgt", KindCondBranch, -1, false},
		{IfIcmple, "if_icmple", KindCondBranch, -1, false},
		{IfAcmpeq, "if_acmpeq", KindCondBranch, -1, false},
		{IfAcmpne, "if_acmpne", KindCondBranch, -1, false},
		{Ifnull, "ifnull", KindCondBranch, -1, false},
		{Ifnonnull, "ifnonnull", KindCondBranch, -1, false},
		{Goto, "goto", KindJump, -1, false},
		{GotoW, "goto_w", KindJump, -1, false},
		{Jsr, "jsr", KindCall, -1, false},
		{JsrW, "jsr_w", KindCall, -1, false},
		{Ret, "ret", KindRet, -1, false},
		{Tableswitch, "tableswitch", KindSwitch, -1, false},
		{Lookupswitch, "lookupswitch", KindSwitch, -1, false},
		{Ireturn, "ireturn", KindReturn, -1, false},
		{Lreturn, "lreturn", KindReturn, -1, false},
		{Freturn, "freturn", KindReturn, -1, false},
		{Dreturn, "dreturn", KindReturn, -1, false},
		{Areturn, "areturn", KindReturn, -1, false},
		{Return, "return", KindReturn, -1, false},
		{Athrow, "athrow", KindThrow, -1, false},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:         o.op,
			Name:         o.name,
			Kind:         o.kind,
			ImplicitSlot: o.implicit,
			WideLocal:    o.wide,
		}
		byName[o.name] = o.op
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(c Code) Info {
	return infos[c]
}

// Kind returns the classification of the given opcode.
func (c Code) Kind() Kind {
	return infos[c].Kind
}

// Name returns the JVM mnemonic for the opcode, or "unknown".
func (c Code) Name() string {
	return infos[c].Name
}

// ByName looks up an opcode by its JVM mnemonic.
func ByName(name string) (Code, bool) {
	c, ok := byName[name]
	return c, ok
}

// IsReturnAddressStore reports whether the opcode is one of the astore
// family, the only instructions that can store a JSR return address and
// therefore the only valid subroutine entry instructions.
func IsReturnAddressStore(c Code) bool {
	switch c {
	case Astore, Astore0, Astore1, Astore2, Astore3:
		return true
	}
	return false
}

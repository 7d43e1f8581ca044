package bytecode

import (
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jverify/jverify/op"
)

// ExceptionHandler describes one entry of a method's exception handler
// table. The protected range runs from Start to End inclusive.
type ExceptionHandler struct {
	Start   *Instruction
	End     *Instruction
	Handler *Instruction
}

// String renders the handler for diagnostics.
func (h ExceptionHandler) String() string {
	return fmt.Sprintf("handler @%d protecting [%d,%d]", h.Handler.Offset(), h.Start.Offset(), h.End.Offset())
}

// Instr describes one instruction when constructing a Method. Targets are
// indices into the instruction sequence.
type Instr struct {
	Opcode  op.Code
	Slot    int   // local slot operand; ignored for opcodes with an implicit slot
	Targets []int // branch targets, default target first for switches
}

// Handler describes one exception handler when constructing a Method, by
// instruction index. End is inclusive.
type Handler struct {
	Start   int
	End     int
	Handler int
}

// MethodParams contains parameters for creating a new Method.
type MethodParams struct {
	Name         string
	Instructions []Instr
	Handlers     []Handler
}

// Method is an immutable method body: the ordered instruction sequence plus
// the exception handler table.
type Method struct {
	id           string
	name         string
	instructions []*Instruction
	handlers     []ExceptionHandler
}

// NewMethod creates an immutable Method from the given parameters. All
// target and handler indices are validated against the sequence; branch
// operand counts are validated against the opcode kind.
func NewMethod(params MethodParams) (*Method, error) {
	n := len(params.Instructions)
	if n == 0 {
		return nil, fmt.Errorf("method %q has no instructions", params.Name)
	}
	m := &Method{
		id:           uuid.Must(uuid.NewV4()).String(),
		name:         params.Name,
		instructions: make([]*Instruction, n),
	}
	for idx := range m.instructions {
		m.instructions[idx] = &Instruction{offset: idx, slot: -1}
	}
	for idx, in := range params.Instructions {
		ins := m.instructions[idx]
		info := op.GetInfo(in.Opcode)
		ins.opcode = in.Opcode
		ins.wide = info.WideLocal
		switch info.Kind {
		case op.KindLocal, op.KindRet:
			if info.ImplicitSlot >= 0 {
				ins.slot = info.ImplicitSlot
			} else {
				if in.Slot < 0 {
					return nil, fmt.Errorf("instruction %d: %s requires a local slot operand", idx, info.Name)
				}
				ins.slot = in.Slot
			}
		case op.KindCall, op.KindJump, op.KindCondBranch:
			if len(in.Targets) != 1 {
				return nil, fmt.Errorf("instruction %d: %s requires exactly one target, got %d", idx, info.Name, len(in.Targets))
			}
		case op.KindSwitch:
			if len(in.Targets) == 0 {
				return nil, fmt.Errorf("instruction %d: %s requires a default target", idx, info.Name)
			}
		}
		for _, t := range in.Targets {
			if t < 0 || t >= n {
				return nil, fmt.Errorf("instruction %d: target %d out of range [0,%d)", idx, t, n)
			}
			ins.targets = append(ins.targets, m.instructions[t])
		}
		if idx+1 < n {
			ins.next = m.instructions[idx+1]
		}
	}
	for hi, h := range params.Handlers {
		if h.Start < 0 || h.Start >= n || h.End < 0 || h.End >= n || h.Handler < 0 || h.Handler >= n {
			return nil, fmt.Errorf("handler %d: index out of range [0,%d)", hi, n)
		}
		if h.End < h.Start {
			return nil, fmt.Errorf("handler %d: end %d precedes start %d", hi, h.End, h.Start)
		}
		m.handlers = append(m.handlers, ExceptionHandler{
			Start:   m.instructions[h.Start],
			End:     m.instructions[h.End],
			Handler: m.instructions[h.Handler],
		})
	}
	return m, nil
}

// ID returns the unique identifier of the method body.
func (m *Method) ID() string {
	return m.id
}

// Name returns the method name.
func (m *Method) Name() string {
	return m.name
}

// Instructions returns the ordered instruction handles. The slice is a
// copy; the handles are shared.
func (m *Method) Instructions() []*Instruction {
	dst := make([]*Instruction, len(m.instructions))
	copy(dst, m.instructions)
	return dst
}

// First returns the first instruction of the method body.
func (m *Method) First() *Instruction {
	return m.instructions[0]
}

// Handlers returns a copy of the exception handler table.
func (m *Method) Handlers() []ExceptionHandler {
	if m.handlers == nil {
		return nil
	}
	dst := make([]ExceptionHandler, len(m.handlers))
	copy(dst, m.handlers)
	return dst
}

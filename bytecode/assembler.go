package bytecode

import (
	"fmt"

	"github.com/jverify/jverify/op"
)

type pendingInstr struct {
	opcode op.Code
	slot   int
	labels []string
}

type pendingHandler struct {
	start, end, handler string
}

// Assembler builds a Method incrementally, with forward label references
// resolved at Assemble time. It exists for the textual front end and for
// tests; decoded class files construct Methods directly via NewMethod.
type Assembler struct {
	name     string
	instrs   []pendingInstr
	labels   map[string]int
	handlers []pendingHandler
	err      error
}

// NewAssembler creates an Assembler for a method with the given name.
func NewAssembler(name string) *Assembler {
	return &Assembler{name: name, labels: make(map[string]int)}
}

// Name returns the method name passed to NewAssembler.
func (a *Assembler) Name() string {
	return a.name
}

func (a *Assembler) fail(format string, args ...any) {
	if a.err == nil {
		a.err = fmt.Errorf(format, args...)
	}
}

// Emit appends an instruction with no operands.
func (a *Assembler) Emit(c op.Code) {
	a.instrs = append(a.instrs, pendingInstr{opcode: c, slot: -1})
}

// EmitLocal appends an instruction with a local slot operand. For the
// _0.._3 short forms the slot argument is ignored.
func (a *Assembler) EmitLocal(c op.Code, slot int) {
	a.instrs = append(a.instrs, pendingInstr{opcode: c, slot: slot})
}

// EmitBranch appends a branching instruction targeting the given label.
func (a *Assembler) EmitBranch(c op.Code, label string) {
	a.instrs = append(a.instrs, pendingInstr{opcode: c, slot: -1, labels: []string{label}})
}

// EmitSwitch appends a multi-way branch with a default label and zero or
// more case labels.
func (a *Assembler) EmitSwitch(c op.Code, def string, cases ...string) {
	labels := append([]string{def}, cases...)
	a.instrs = append(a.instrs, pendingInstr{opcode: c, slot: -1, labels: labels})
}

// Label binds a label name to the next emitted instruction.
func (a *Assembler) Label(name string) {
	if _, ok := a.labels[name]; ok {
		a.fail("duplicate label %q", name)
		return
	}
	a.labels[name] = len(a.instrs)
}

// Handler declares an exception handler by labels. The protected range is
// inclusive of both the start and end instructions.
func (a *Assembler) Handler(start, end, handler string) {
	a.handlers = append(a.handlers, pendingHandler{start: start, end: end, handler: handler})
}

func (a *Assembler) resolve(label string) (int, bool) {
	idx, ok := a.labels[label]
	if !ok || idx >= len(a.instrs) {
		// Unknown, or bound past the last instruction.
		return 0, false
	}
	return idx, true
}

// Assemble resolves all labels and returns the finished Method.
func (a *Assembler) Assemble() (*Method, error) {
	if a.err != nil {
		return nil, a.err
	}
	params := MethodParams{Name: a.name}
	for idx, pi := range a.instrs {
		in := Instr{Opcode: pi.opcode, Slot: pi.slot}
		for _, label := range pi.labels {
			t, ok := a.resolve(label)
			if !ok {
				return nil, fmt.Errorf("instruction %d: unresolved label %q", idx, label)
			}
			in.Targets = append(in.Targets, t)
		}
		params.Instructions = append(params.Instructions, in)
	}
	for _, ph := range a.handlers {
		start, ok := a.resolve(ph.start)
		if !ok {
			return nil, fmt.Errorf("handler: unresolved label %q", ph.start)
		}
		end, ok := a.resolve(ph.end)
		if !ok {
			return nil, fmt.Errorf("handler: unresolved label %q", ph.end)
		}
		handler, ok := a.resolve(ph.handler)
		if !ok {
			return nil, fmt.Errorf("handler: unresolved label %q", ph.handler)
		}
		params.Handlers = append(params.Handlers, Handler{Start: start, End: end, Handler: handler})
	}
	return NewMethod(params)
}

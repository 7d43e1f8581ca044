package bytecode

import (
	"testing"

	"github.com/jverify/jverify/op"
	"github.com/stretchr/testify/require"
)

func TestNewMethodLinksAndOperands(t *testing.T) {
	m, err := NewMethod(MethodParams{
		Name: "demo",
		Instructions: []Instr{
			{Opcode: op.Jsr, Targets: []int{2}},
			{Opcode: op.Return},
			{Opcode: op.Astore, Slot: 3},
			{Opcode: op.Ret, Slot: 3},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "demo", m.Name())
	require.NotEmpty(t, m.ID())

	all := m.Instructions()
	require.Len(t, all, 4)
	require.Same(t, all[0], m.First())

	jsr := all[0]
	require.Equal(t, op.Jsr, jsr.Opcode())
	require.Same(t, all[1], jsr.Next())
	require.Len(t, jsr.Targets(), 1)
	require.Same(t, all[2], jsr.Targets()[0])

	astore := all[2]
	require.Equal(t, 3, astore.LocalSlot())
	require.False(t, astore.LocalWide())

	ret := all[3]
	require.Equal(t, 3, ret.LocalSlot())
	require.Nil(t, ret.Next())
}

func TestNewMethodImplicitSlots(t *testing.T) {
	m, err := NewMethod(MethodParams{
		Name: "implicit",
		Instructions: []Instr{
			{Opcode: op.Astore2, Slot: 99}, // explicit slot is ignored
			{Opcode: op.Lload1},
			{Opcode: op.Return},
		},
	})
	require.NoError(t, err)
	all := m.Instructions()
	require.Equal(t, 2, all[0].LocalSlot())
	require.Equal(t, 1, all[1].LocalSlot())
	require.True(t, all[1].LocalWide())
}

func TestNewMethodValidation(t *testing.T) {
	_, err := NewMethod(MethodParams{Name: "empty"})
	require.ErrorContains(t, err, "no instructions")

	_, err = NewMethod(MethodParams{
		Name:         "range",
		Instructions: []Instr{{Opcode: op.Goto, Targets: []int{5}}},
	})
	require.ErrorContains(t, err, "out of range")

	_, err = NewMethod(MethodParams{
		Name:         "operands",
		Instructions: []Instr{{Opcode: op.Goto}},
	})
	require.ErrorContains(t, err, "exactly one target")

	_, err = NewMethod(MethodParams{
		Name:         "slot",
		Instructions: []Instr{{Opcode: op.Astore, Slot: -1}},
	})
	require.ErrorContains(t, err, "requires a local slot")

	_, err = NewMethod(MethodParams{
		Name:         "handler",
		Instructions: []Instr{{Opcode: op.Return}},
		Handlers:     []Handler{{Start: 0, End: 0, Handler: 3}},
	})
	require.ErrorContains(t, err, "out of range")

	_, err = NewMethod(MethodParams{
		Name: "handler-order",
		Instructions: []Instr{
			{Opcode: op.Nop},
			{Opcode: op.Return},
		},
		Handlers: []Handler{{Start: 1, End: 0, Handler: 0}},
	})
	require.ErrorContains(t, err, "precedes")
}

func TestMethodHandlers(t *testing.T) {
	m, err := NewMethod(MethodParams{
		Name: "handlers",
		Instructions: []Instr{
			{Opcode: op.Nop},
			{Opcode: op.Return},
			{Opcode: op.Athrow},
		},
		Handlers: []Handler{{Start: 0, End: 1, Handler: 2}},
	})
	require.NoError(t, err)
	hs := m.Handlers()
	require.Len(t, hs, 1)
	all := m.Instructions()
	require.Same(t, all[0], hs[0].Start)
	require.Same(t, all[1], hs[0].End)
	require.Same(t, all[2], hs[0].Handler)
	require.Equal(t, "handler @2 protecting [0,1]", hs[0].String())
}

func TestInstructionString(t *testing.T) {
	m, err := NewMethod(MethodParams{
		Name: "strings",
		Instructions: []Instr{
			{Opcode: op.Jsr, Targets: []int{3}},
			{Opcode: op.Lookupswitch, Targets: []int{5, 3, 5}},
			{Opcode: op.Iload, Slot: 4},
			{Opcode: op.Astore, Slot: 1},
			{Opcode: op.Astore0},
			{Opcode: op.Ret, Slot: 1},
		},
	})
	require.NoError(t, err)
	all := m.Instructions()
	require.Equal(t, "0: jsr ->3", all[0].String())
	require.Equal(t, "1: lookupswitch default->5 ->3 ->5", all[1].String())
	require.Equal(t, "2: iload 4", all[2].String())
	require.Equal(t, "3: astore 1", all[3].String())
	require.Equal(t, "4: astore_0", all[4].String())
	require.Equal(t, "5: ret 1", all[5].String())
}

func TestInstructionsReturnsCopy(t *testing.T) {
	m, err := NewMethod(MethodParams{
		Name: "copy",
		Instructions: []Instr{
			{Opcode: op.Nop},
			{Opcode: op.Return},
		},
	})
	require.NoError(t, err)
	all := m.Instructions()
	all[0] = nil
	require.NotNil(t, m.Instructions()[0])
	require.Equal(t, op.Nop, m.First().Opcode())
}

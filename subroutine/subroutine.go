package subroutine

import (
	"fmt"
	"sort"

	"github.com/jverify/jverify/bytecode"
	"github.com/jverify/jverify/errz"
	"github.com/jverify/jverify/op"
)

// unsetSlot marks a subroutine whose entry local slot has not been set.
// Only the top-level region keeps it unset.
const unsetSlot = -1

// Subroutine is one call/return region of a method, or the synthetic
// top-level region. Instances are created by NewTable and are immutable
// once the table is built.
type Subroutine struct {
	table     *Table
	entry     *bytecode.Instruction
	localSlot int
	callSites []*bytecode.Instruction
	exit      *bytecode.Instruction
	members   map[*bytecode.Instruction]struct{}
	// order keeps members in instruction order for deterministic queries.
	order []*bytecode.Instruction
}

func newSubroutine(t *Table, entry *bytecode.Instruction) *Subroutine {
	return &Subroutine{
		table:     t,
		entry:     entry,
		localSlot: unsetSlot,
		members:   make(map[*bytecode.Instruction]struct{}),
	}
}

// IsTopLevel reports whether this is the synthetic top-level region.
func (s *Subroutine) IsTopLevel() bool {
	return s == s.table.top
}

// EntryLocalSlot returns the local slot the entry astore stores the return
// address into. Must not be called on the top-level region.
func (s *Subroutine) EntryLocalSlot() int {
	if s.IsTopLevel() {
		errz.Assertf("entry local slot requested for the top-level region")
	}
	return s.localSlot
}

// CallSites returns the JSR instructions targeting this subroutine's entry.
// Must not be called on the top-level region.
func (s *Subroutine) CallSites() []*bytecode.Instruction {
	if s.IsTopLevel() {
		errz.Assertf("call sites requested for the top-level region")
	}
	dst := make([]*bytecode.Instruction, len(s.callSites))
	copy(dst, s.callSites)
	return dst
}

// ExitInstruction returns the single RET that leaves this subroutine. Must
// not be called on the top-level region.
func (s *Subroutine) ExitInstruction() *bytecode.Instruction {
	if s.IsTopLevel() {
		errz.Assertf("exit instruction requested for the top-level region")
	}
	return s.exit
}

// Instructions returns the member instructions in instruction order.
func (s *Subroutine) Instructions() []*bytecode.Instruction {
	dst := make([]*bytecode.Instruction, len(s.order))
	copy(dst, s.order)
	return dst
}

// Contains reports whether the instruction belongs to this region.
func (s *Subroutine) Contains(ins *bytecode.Instruction) bool {
	_, ok := s.members[ins]
	return ok
}

// AccessedLocalSlots returns the local variable slots accessed directly by
// this region's instructions, including the exit instruction's slot. Wide
// accesses (long, double) also claim the following slot. The result is
// sorted and duplicate free.
func (s *Subroutine) AccessedLocalSlots() []int {
	if s.exit == nil && !s.IsTopLevel() {
		errz.Assertf("accessed local slots requested before %s was fully built", s)
	}
	seen := make(map[int]struct{})
	for _, ins := range s.order {
		kind := ins.Opcode().Kind()
		if kind != op.KindLocal && kind != op.KindRet {
			continue
		}
		idx := ins.LocalSlot()
		seen[idx] = struct{}{}
		if ins.LocalWide() {
			seen[idx+1] = struct{}{}
		}
	}
	return sortedSlots(seen)
}

// RecursivelyAccessedLocalSlots returns the union of AccessedLocalSlots over
// this region and every transitively nested callee. Shared callees reached
// over multiple paths are visited once.
func (s *Subroutine) RecursivelyAccessedLocalSlots() []int {
	slots := make(map[int]struct{})
	visited := make(map[*Subroutine]struct{})
	var walk func(*Subroutine)
	walk = func(r *Subroutine) {
		if _, ok := visited[r]; ok {
			return
		}
		visited[r] = struct{}{}
		for _, idx := range r.AccessedLocalSlots() {
			slots[idx] = struct{}{}
		}
		for _, callee := range r.SubSubs() {
			walk(callee)
		}
	}
	walk(s)
	return sortedSlots(slots)
}

// SubSubs returns the distinct subroutines called directly from this
// region, derived by scanning the members for JSR instructions.
func (s *Subroutine) SubSubs() []*Subroutine {
	seen := make(map[*Subroutine]struct{})
	var subs []*Subroutine
	for _, ins := range s.order {
		if ins.Opcode().Kind() != op.KindCall {
			continue
		}
		callee := s.table.Subroutine(ins.Targets()[0])
		if _, ok := seen[callee]; ok {
			continue
		}
		seen[callee] = struct{}{}
		subs = append(subs, callee)
	}
	return subs
}

// String identifies the region for diagnostics. It deliberately avoids
// SubSubs so that it is safe to call on partially built regions.
func (s *Subroutine) String() string {
	if s.IsTopLevel() {
		return "top-level"
	}
	return fmt.Sprintf("subroutine @%d (slot %d)", s.entry.Offset(), s.localSlot)
}

func (s *Subroutine) setLocalSlot(slot int) {
	if s.localSlot != unsetSlot {
		errz.Assertf("local slot set twice for %s", s)
	}
	s.localSlot = slot
}

func (s *Subroutine) addCallSite(ins *bytecode.Instruction) {
	if ins == nil || ins.Opcode().Kind() != op.KindCall {
		errz.Assertf("call site %v is not a jsr instruction", ins)
	}
	if s.localSlot == unsetSlot {
		errz.Assertf("call site %s attached before the entry local slot was set", ins)
	}
	// The region is keyed by its entry, so a differing slot here means the
	// caller handed us a jsr from another region.
	if target := ins.Targets()[0]; target.LocalSlot() != s.localSlot {
		errz.Assertf("call site %s targets slot %d but %s stores slot %d", ins, target.LocalSlot(), s, s.localSlot)
	}
	s.callSites = append(s.callSites, ins)
}

func (s *Subroutine) addMember(ins *bytecode.Instruction) {
	if s.exit != nil {
		errz.Assertf("member %s added to %s after exit resolution", ins, s)
	}
	if _, ok := s.members[ins]; ok {
		return
	}
	s.members[ins] = struct{}{}
	s.order = append(s.order, ins)
}

// resolveExit finds the single RET among the members and checks its slot
// against the entry slot. Called exactly once per non-top-level region,
// after all members are assigned.
func (s *Subroutine) resolveExit() error {
	if s.localSlot == unsetSlot {
		errz.Assertf("exit resolution requested for the top-level region")
	}
	var exit *bytecode.Instruction
	for _, ins := range s.order {
		if ins.Opcode().Kind() != op.KindRet {
			continue
		}
		if exit != nil {
			return errz.Structuralf(errz.MultipleExits, "subroutine with more than one ret").
				WithInstructions(exit.String(), ins.String()).
				WithRegions(s.String())
		}
		exit = ins
	}
	if exit == nil {
		return errz.Structuralf(errz.MissingExit, "subroutine without a ret").
			WithRegions(s.String())
	}
	if exit.LocalSlot() != s.localSlot {
		return errz.Structuralf(errz.ExitSlotMismatch, "ret reads slot %d but the entry stores slot %d", exit.LocalSlot(), s.localSlot).
			WithInstructions(exit.String()).
			WithRegions(s.String())
	}
	s.exit = exit
	return nil
}

func sortedSlots(set map[int]struct{}) []int {
	slots := make([]int, 0, len(set))
	for idx := range set {
		slots = append(slots, idx)
	}
	sort.Ints(slots)
	return slots
}

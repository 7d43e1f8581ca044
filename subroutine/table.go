package subroutine

import (
	"github.com/jverify/jverify/bytecode"
	"github.com/jverify/jverify/errz"
	"github.com/jverify/jverify/op"
)

// Table owns the subroutines found in one method body, keyed by their entry
// instruction, plus the synthetic top-level region. It is built once by
// NewTable and never mutated afterwards.
type Table struct {
	method *bytecode.Method
	subs   map[*bytecode.Instruction]*Subroutine
	// order lists the regions deterministically: top level first, then
	// subroutines in order of entry discovery.
	order []*Subroutine
	top   *Subroutine
}

// NewTable partitions the method's instructions into subroutines plus the
// top-level region and validates the partition. A method that violates the
// well-formedness rules is rejected with a *errz.StructuralError; there is
// no partial table on failure.
func NewTable(method *bytecode.Method) (*Table, error) {
	all := method.Instructions()
	handlers := method.Handlers()

	t := &Table{
		method: method,
		subs:   make(map[*bytecode.Instruction]*Subroutine),
	}
	t.top = newSubroutine(t, method.First())

	// Discover the subroutine entry points: every distinct jsr target. The
	// target must be an astore, the only instruction that can receive the
	// return address.
	var leaders []*bytecode.Instruction
	for _, ins := range all {
		if ins.Opcode().Kind() != op.KindCall {
			continue
		}
		target := ins.Targets()[0]
		if _, ok := t.subs[target]; ok {
			continue
		}
		if !op.IsReturnAddressStore(target.Opcode()) {
			return nil, errz.Structuralf(errz.BadEntry, "jsr targets %s, which cannot store a return address", target.Opcode().Name()).
				WithInstructions(ins.String(), target.String())
		}
		sub := newSubroutine(t, target)
		sub.setLocalSlot(target.LocalSlot())
		t.subs[target] = sub
		leaders = append(leaders, target)
	}

	// The top level is keyed by the method's first instruction. This is a
	// seed for the traversal below, never a callable entry; a jsr targeting
	// instruction 0 trips the call-site assertions further down.
	t.subs[method.First()] = t.top
	seeds := make([]*bytecode.Instruction, 0, len(leaders)+1)
	seeds = append(seeds, method.First())
	for _, leader := range leaders {
		if leader != method.First() {
			seeds = append(seeds, leader)
		}
	}

	// Attach every jsr to the region it targets.
	for _, ins := range all {
		if ins.Opcode().Kind() == op.KindCall {
			t.subs[ins.Targets()[0]].addCallSite(ins)
		}
	}

	// Partition by multi-source BFS: one independent traversal per region,
	// each with its own visited set. The top level is additionally seeded
	// at every exception handler entry, since handlers are reachable from
	// top-level code without being physically adjacent to it.
	assigned := make(map[*bytecode.Instruction]*Subroutine, len(all))
	for _, seed := range seeds {
		region := t.subs[seed]
		t.order = append(t.order, region)

		visited := make(map[*bytecode.Instruction]struct{}, len(all))
		queue := []*bytecode.Instruction{seed}
		visited[seed] = struct{}{}
		if region == t.top {
			for _, h := range handlers {
				if _, ok := visited[h.Handler]; !ok {
					visited[h.Handler] = struct{}{}
					queue = append(queue, h.Handler)
				}
			}
		}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range successors(u) {
				if _, ok := visited[v]; !ok {
					visited[v] = struct{}{}
					queue = append(queue, v)
				}
			}
		}

		// Assign in instruction order for deterministic membership. No
		// instruction may be claimed by a second region.
		for _, ins := range all {
			if _, ok := visited[ins]; !ok {
				continue
			}
			if prev, ok := assigned[ins]; ok {
				return nil, errz.Structuralf(errz.SharedInstruction, "instruction is part of more than one region").
					WithInstructions(ins.String()).
					WithRegions(prev.String(), region.String())
			}
			assigned[ins] = region
			region.addMember(ins)
		}

		if region != t.top {
			if err := region.resolveExit(); err != nil {
				return nil, err
			}
		}
	}

	// No subroutine instruction may be protected by an exception handler.
	for _, h := range handlers {
		for ins := h.Start; ins != nil; ins = ins.Next() {
			for _, region := range t.order {
				if region == t.top {
					continue
				}
				if region.Contains(ins) {
					return nil, errz.Structuralf(errz.ProtectedSubroutine, "subroutine instruction is protected by %s", h).
						WithInstructions(ins.String()).
						WithRegions(region.String())
				}
			}
			if ins == h.End {
				break
			}
		}
	}

	// No call path may reuse a return-address slot; this forbids direct and
	// mutual recursion alike.
	if err := t.noRecursiveCalls(t.top, make(map[int]*Subroutine)); err != nil {
		return nil, err
	}

	return t, nil
}

// Method returns the method body this table was built for.
func (t *Table) Method() *bytecode.Method {
	return t.method
}

// TopLevel returns the synthetic top-level region.
func (t *Table) TopLevel() *Subroutine {
	return t.top
}

// Subroutine returns the region whose entry instruction is leader. Asking
// for an instruction that is not a subroutine entry, or for the top-level
// seed, is a programming error.
func (t *Table) Subroutine(leader *bytecode.Instruction) *Subroutine {
	sub, ok := t.subs[leader]
	if !ok {
		errz.Assertf("no subroutine has %s as its entry instruction", leader)
	}
	if sub == t.top {
		errz.Assertf("top-level region requested via Subroutine; use TopLevel")
	}
	return sub
}

// SubroutineOf returns the region containing the given instruction. The
// second result is false for dead code, which belongs to no region; that is
// expected and benign here, not a failure.
func (t *Table) SubroutineOf(ins *bytecode.Instruction) (*Subroutine, bool) {
	for _, sub := range t.order {
		if sub.Contains(ins) {
			return sub, true
		}
	}
	return nil, false
}

// Subroutines returns every region including the top level, top level
// first.
func (t *Table) Subroutines() []*Subroutine {
	dst := make([]*Subroutine, len(t.order))
	copy(dst, t.order)
	return dst
}

package subroutine

import "github.com/jverify/jverify/errz"

// noRecursiveCalls walks the call graph depth first, carrying the set of
// return-address slots in use on the current path. Entering a subroutine
// whose exit slot is already on the path would clobber a live return
// address, so it is rejected; the set is scoped to the path, so sibling
// calls may reuse a slot freely.
func (t *Table) noRecursiveCalls(sub *Subroutine, inUse map[int]*Subroutine) error {
	for _, callee := range sub.SubSubs() {
		slot := callee.ExitInstruction().LocalSlot()
		if prev, ok := inUse[slot]; ok {
			return errz.Structuralf(errz.RecursiveSlotReuse, "subroutine is entered while slot %d already holds a return address on the call path", slot).
				WithRegions(prev.String(), callee.String())
		}
		inUse[slot] = callee
		if err := t.noRecursiveCalls(callee, inUse); err != nil {
			return err
		}
		delete(inUse, slot)
	}
	return nil
}

package subroutine_test

import (
	"testing"

	"github.com/jverify/jverify/subroutine"
	"github.com/stretchr/testify/require"
)

const nestedSrc = `
	.method nested
		jsr a
		return
	a:
		astore 1
		jsr b
		jsr c
		iload 4
		ret 1
	b:
		astore 2
		jsr d
		ret 2
	c:
		astore 3
		jsr d
		ret 3
	d:
		astore 5
		lload 6
		ret 5
`

func TestAccessedLocalSlots(t *testing.T) {
	table := mustTable(t, nestedSrc)
	all := table.Method().Instructions()

	a := table.Subroutine(all[2])
	require.Equal(t, []int{1, 4}, a.AccessedLocalSlots())

	b := table.Subroutine(all[7])
	require.Equal(t, []int{2}, b.AccessedLocalSlots())

	// d's lload 6 is a wide access, so slot 7 is claimed too.
	d := table.Subroutine(all[13])
	require.Equal(t, []int{5, 6, 7}, d.AccessedLocalSlots())

	// The top level has no local accesses at all here.
	require.Empty(t, table.TopLevel().AccessedLocalSlots())
}

func TestRecursivelyAccessedLocalSlots(t *testing.T) {
	table := mustTable(t, nestedSrc)
	all := table.Method().Instructions()

	a := table.Subroutine(all[2])
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, a.RecursivelyAccessedLocalSlots())

	b := table.Subroutine(all[7])
	require.Equal(t, []int{2, 5, 6, 7}, b.RecursivelyAccessedLocalSlots())

	// Same through the top level, which accesses nothing itself.
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, table.TopLevel().RecursivelyAccessedLocalSlots())
}

func TestRecursiveSlotsSupersetOfDirect(t *testing.T) {
	table := mustTable(t, nestedSrc)
	for _, region := range table.Subroutines() {
		recursive := make(map[int]bool)
		for _, idx := range region.RecursivelyAccessedLocalSlots() {
			recursive[idx] = true
		}
		for _, idx := range region.AccessedLocalSlots() {
			require.True(t, recursive[idx])
		}
		for _, callee := range region.SubSubs() {
			for _, idx := range callee.RecursivelyAccessedLocalSlots() {
				require.True(t, recursive[idx])
			}
		}
	}
}

func TestSubSubs(t *testing.T) {
	table := mustTable(t, nestedSrc)
	all := table.Method().Instructions()

	top := table.TopLevel()
	require.Len(t, top.SubSubs(), 1)

	a := table.Subroutine(all[2])
	require.Len(t, a.SubSubs(), 2)

	// b and c both call d; d calls nothing.
	b := table.Subroutine(all[7])
	c := table.Subroutine(all[10])
	d := table.Subroutine(all[13])
	require.Equal(t, []*subroutine.Subroutine{d}, b.SubSubs())
	require.Len(t, c.SubSubs(), 1)
	require.Same(t, d, c.SubSubs()[0])
	require.Empty(t, d.SubSubs())
}

func TestSubSubsDeduplicatesCallSites(t *testing.T) {
	table := mustTable(t, `
		.method two_calls
			jsr sub
			jsr sub
			return
		sub:
			astore 2
			ret 2
	`)
	require.Len(t, table.TopLevel().SubSubs(), 1)
}

func TestInstructionsAreOrdered(t *testing.T) {
	table := mustTable(t, nestedSrc)
	for _, region := range table.Subroutines() {
		members := region.Instructions()
		for i := 1; i < len(members); i++ {
			require.Less(t, members[i-1].Offset(), members[i].Offset())
		}
	}
}

func TestQueriesAreIdempotent(t *testing.T) {
	table := mustTable(t, nestedSrc)
	all := table.Method().Instructions()
	a := table.Subroutine(all[2])

	require.Equal(t, a.AccessedLocalSlots(), a.AccessedLocalSlots())
	require.Equal(t, a.RecursivelyAccessedLocalSlots(), a.RecursivelyAccessedLocalSlots())
	require.Equal(t, a.SubSubs(), a.SubSubs())
	require.Equal(t, a.Instructions(), a.Instructions())
	require.Equal(t, a.CallSites(), a.CallSites())
	require.Equal(t, a.EntryLocalSlot(), a.EntryLocalSlot())

	first, ok1 := table.SubroutineOf(all[3])
	second, ok2 := table.SubroutineOf(all[3])
	require.True(t, ok1)
	require.True(t, ok2)
	require.Same(t, first, second)
}

func TestSubroutineString(t *testing.T) {
	table := mustTable(t, `
		.method one_sub
			jsr sub
			return
		sub:
			astore 3
			ret 3
	`)
	all := table.Method().Instructions()
	require.Equal(t, "top-level", table.TopLevel().String())
	require.Equal(t, "subroutine @2 (slot 3)", table.Subroutine(all[2]).String())
}

package solver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/amaranta/puzzle"
)

func mustCrossword(t *testing.T, structure string, words []string) *puzzle.Crossword {
	t.Helper()
	grid, err := puzzle.ParseStructure(strings.NewReader(structure))
	require.NoError(t, err)
	cw, err := puzzle.NewCrossword(grid, words)
	require.NoError(t, err)
	return cw
}

func newSolver(t *testing.T, cw *puzzle.Crossword) *Solver {
	t.Helper()
	s := &Solver{}
	require.NoError(t, s.Init(cw))
	return s
}

// One across slot of length 3 crossing one down slot of length 3 at
// the across slot's last letter and the down slot's first.
const crossAtEnd = "___\n##_\n##_\n"

// Same shape but crossing at the across slot's middle letter.
const crossAtMiddle = "___\n#_#\n#_#\n"

func TestSolveTwoSlots(t *testing.T) {
	cw := mustCrossword(t, crossAtEnd, []string{"CAT", "CAR", "TEA"})
	s := newSolver(t, cw)
	a, err := s.Solve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a)

	across := puzzle.Slot{Row: 0, Col: 0, Dir: puzzle.Across, Length: 3}
	down := puzzle.Slot{Row: 0, Col: 2, Dir: puzzle.Down, Length: 3}
	// Only CAT/TEA agree at the crossing (T).
	assert.Equal(t, "CAT", a[across])
	assert.Equal(t, "TEA", a[down])
}

func TestSolveTwoSlotsNoAgreement(t *testing.T) {
	// Crossing at A[1]/B[0]: no word in the pool starts with a middle
	// letter of another, so AC-3 wipes a domain out.
	cw := mustCrossword(t, crossAtMiddle, []string{"CAT", "CAR", "TEA"})
	s := newSolver(t, cw)
	a, err := s.Solve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestSolveEmptyPool(t *testing.T) {
	cw := mustCrossword(t, "___\n###\n", nil)
	s := newSolver(t, cw)
	a, err := s.Solve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestUnsatDisjointSingletons(t *testing.T) {
	// Two length-2 slots crossing at A[1]/B[0]; neither word supports
	// the other at the overlap.
	cw := mustCrossword(t, "__\n#_\n", []string{"AB", "CD"})
	s := newSolver(t, cw)
	s.enforceNodeConsistency()
	ok, err := s.ac3(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConsistentRejectsWrongLength(t *testing.T) {
	cw := mustCrossword(t, crossAtEnd, []string{"CAT", "TEA"})
	s := newSolver(t, cw)

	across := puzzle.Slot{Row: 0, Col: 0, Dir: puzzle.Across, Length: 3}
	down := puzzle.Slot{Row: 0, Col: 2, Dir: puzzle.Down, Length: 3}

	// A too-short neighbor must fail the length check, not blow up on
	// the overlap index. Map iteration order decides which slot the
	// checker visits first, so exercise it repeatedly.
	for i := 0; i < 100; i++ {
		assert.False(t, s.consistent(Assignment{across: "CAT", down: "AB"}))
		assert.False(t, s.consistent(Assignment{across: "AB", down: "TEA"}))
	}
	assert.True(t, s.consistent(Assignment{across: "CAT", down: "TEA"}))
}

func TestNodeConsistency(t *testing.T) {
	cw := mustCrossword(t, "#___\n#_##\n#_##\n#___\n",
		[]string{"AB", "CAT", "NINE", "TOAD", "X", "HELLO"})
	s := newSolver(t, cw)
	s.enforceNodeConsistency()
	for _, slot := range cw.Slots() {
		for w := range s.domains[slot] {
			assert.Len(t, w, slot.Length)
		}
	}
}

// structure0-style grid: two across slots tied together by one down
// slot. Multiple completions exist, so tie-breaking matters.
const ladderGrid = "#___\n#_##\n#_##\n#___\n"

var ladderWords = []string{
	"ONE", "TWO", "SIX", "TEN", "NET", "NIL", "EAR", "END",
	"FOUR", "FIVE", "NINE",
}

func TestArcConsistencySoundness(t *testing.T) {
	cw := mustCrossword(t, ladderGrid, ladderWords)
	s := newSolver(t, cw)
	s.enforceNodeConsistency()
	ok, err := s.ac3(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)

	for _, x := range cw.Slots() {
		for _, y := range cw.Neighbors(x) {
			ov, found := cw.Overlap(x, y)
			require.True(t, found)
			for w := range s.domains[x] {
				supported := false
				for v := range s.domains[y] {
					if w[ov.AIndex] == v[ov.BIndex] {
						supported = true
						break
					}
				}
				assert.True(t, supported, "%s in %v has no support in %v", w, x, y)
			}
		}
	}
}

func TestArcConsistencyIdempotent(t *testing.T) {
	cw := mustCrossword(t, ladderGrid, ladderWords)
	s := newSolver(t, cw)
	s.enforceNodeConsistency()
	ok, err := s.ac3(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)

	before := s.domains.Copy()
	ok, err = s.ac3(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, before, s.domains)
}

func TestMonotonicShrinkage(t *testing.T) {
	cw := mustCrossword(t, ladderGrid, ladderWords)
	s := newSolver(t, cw)

	before := s.domains.Copy()
	s.enforceNodeConsistency()
	assertSubset(t, s.domains, before)

	before = s.domains.Copy()
	_, err := s.ac3(context.Background(), nil)
	require.NoError(t, err)
	assertSubset(t, s.domains, before)
}

func assertSubset(t *testing.T, narrow, wide Domains) {
	t.Helper()
	for slot, words := range narrow {
		for w := range words {
			assert.True(t, wide.Contains(slot, w),
				"%s appeared in %v's domain out of nowhere", w, slot)
		}
	}
}

func TestSolutionValidity(t *testing.T) {
	cw := mustCrossword(t, ladderGrid, ladderWords)
	s := newSolver(t, cw)
	a, err := s.Solve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a)

	// Re-check completeness and every constraint independently of the
	// solver's own checker.
	require.Len(t, a, len(cw.Slots()))
	for _, slot := range cw.Slots() {
		word, ok := a[slot]
		require.True(t, ok)
		require.Len(t, word, slot.Length)
		for _, n := range cw.Neighbors(slot) {
			ov, found := cw.Overlap(slot, n)
			require.True(t, found)
			assert.Equal(t, word[ov.AIndex], a[n][ov.BIndex])
		}
	}
}

func TestDeterminism(t *testing.T) {
	first, err := newSolver(t, mustCrossword(t, ladderGrid, ladderWords)).
		Solve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)

	for i := 0; i < 3; i++ {
		again, err := newSolver(t, mustCrossword(t, ladderGrid, ladderWords)).
			Solve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMACOffFindsSameSolution(t *testing.T) {
	withMAC := newSolver(t, mustCrossword(t, ladderGrid, ladderWords))
	withMAC.SetMaintainArcConsistency(true)
	a1, err := withMAC.Solve(context.Background())
	require.NoError(t, err)

	without := newSolver(t, mustCrossword(t, ladderGrid, ladderWords))
	without.SetMaintainArcConsistency(false)
	a2, err := without.Solve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
}

func TestBacktrackRestoresAssignment(t *testing.T) {
	// AC-3 would catch this puzzle before search, so drive backtrack
	// directly on node-consistent domains and make sure a failed
	// search leaves no residue in the assignment.
	cw := mustCrossword(t, crossAtMiddle, []string{"CAT", "CAR", "TEA"})
	s := newSolver(t, cw)
	s.SetMaintainArcConsistency(false)
	s.enforceNodeConsistency()

	a := make(Assignment)
	sol, err := s.backtrack(context.Background(), a)
	require.NoError(t, err)
	assert.Nil(t, sol)
	assert.Empty(t, a)
}

func TestBacktrackRestoresDomains(t *testing.T) {
	cw := mustCrossword(t, crossAtMiddle, []string{"CAT", "CAR", "TEA"})
	s := newSolver(t, cw)
	s.enforceNodeConsistency()
	before := s.domains.Copy()

	sol, err := s.backtrack(context.Background(), make(Assignment))
	require.NoError(t, err)
	require.Nil(t, sol)
	// Every MAC trim along failed branches must have been undone.
	assert.Equal(t, before, s.domains)
}

func TestSolveCancelled(t *testing.T) {
	cw := mustCrossword(t, ladderGrid, ladderWords)
	s := newSolver(t, cw)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Solve(ctx)
	assert.Equal(t, ErrSolveCancelled, err)
}

func TestNodesBudget(t *testing.T) {
	cw := mustCrossword(t, ladderGrid, ladderWords)
	s := newSolver(t, cw)
	s.SetNodesBudget(1)
	_, err := s.Solve(context.Background())
	assert.Equal(t, ErrBudgetExceeded, err)
}

func TestSolveUninitialized(t *testing.T) {
	s := &Solver{}
	_, err := s.Solve(context.Background())
	assert.Equal(t, ErrNotInitialized, err)
}

func TestTiesSeedStillValid(t *testing.T) {
	s := newSolver(t, mustCrossword(t, ladderGrid, ladderWords))
	s.SetTiesSeed(42)
	a, err := s.Solve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, a)
	for _, slot := range s.cw.Slots() {
		require.Len(t, a[slot], slot.Length)
	}
	require.True(t, s.consistent(a))
}

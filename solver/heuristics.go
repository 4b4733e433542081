package solver

import (
	"sort"

	"github.com/samber/lo"

	"github.com/domino14/amaranta/puzzle"
)

// selectUnassigned picks the next slot to fill: fewest remaining
// domain values first (MRV), ties broken by most neighbors (degree),
// remaining ties by the puzzle's slot order. Callers guarantee at
// least one slot is unassigned.
func (s *Solver) selectUnassigned(a Assignment) puzzle.Slot {
	var best puzzle.Slot
	found := false
	for _, slot := range s.cw.Slots() {
		if _, assigned := a[slot]; assigned {
			continue
		}
		if !found {
			best = slot
			found = true
			continue
		}
		dc, bc := s.domains.Count(slot), s.domains.Count(best)
		if dc < bc {
			best = slot
		} else if dc == bc && len(s.cw.Neighbors(slot)) > len(s.cw.Neighbors(best)) {
			best = slot
		}
	}
	return best
}

// orderDomainValues returns the slot's remaining candidates in
// least-constraining order: ascending by how many words the value
// would eliminate from unassigned neighbors' domains. Pure; scratch
// counting only, the domains are never touched. Ties are broken
// lexicographically unless a ties RNG is set, in which case
// equal-score runs are shuffled.
func (s *Solver) orderDomainValues(slot puzzle.Slot, a Assignment) []string {
	words := s.domains.SortedWords(slot)
	if len(words) < 2 {
		return words
	}
	unassigned := lo.Filter(s.cw.Neighbors(slot), func(n puzzle.Slot, _ int) bool {
		_, assigned := a[n]
		return !assigned
	})
	scores := make(map[string]int, len(words))
	for _, w := range words {
		eliminated := 0
		for _, n := range unassigned {
			ov, ok := s.cw.Overlap(slot, n)
			if !ok {
				continue
			}
			eliminated += lo.CountBy(lo.Keys(s.domains[n]), func(v string) bool {
				return v[ov.BIndex] != w[ov.AIndex]
			})
		}
		scores[w] = eliminated
	}
	// words is already sorted lexicographically; a stable sort on the
	// score keeps that as the tie order.
	sort.SliceStable(words, func(i, j int) bool {
		return scores[words[i]] < scores[words[j]]
	})
	if s.tiesRng != nil {
		s.shuffleTies(words, scores)
	}
	return words
}

// shuffleTies shuffles each maximal run of equal-score values in
// place. Only used when a ties seed was explicitly set.
func (s *Solver) shuffleTies(words []string, scores map[string]int) {
	start := 0
	for i := 1; i <= len(words); i++ {
		if i < len(words) && scores[words[i]] == scores[words[start]] {
			continue
		}
		run := words[start:i]
		if len(run) > 1 {
			s.tiesRng.Shuffle(len(run), func(x, y int) {
				run[x], run[y] = run[y], run[x]
			})
		}
		start = i
	}
}

package solver

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/domino14/amaranta/puzzle"
)

// enforceNodeConsistency removes every word whose length doesn't
// match its slot. Run once before any arc propagation; revise indexes
// into words assuming lengths already match.
func (s *Solver) enforceNodeConsistency() {
	for _, slot := range s.cw.Slots() {
		for w := range s.domains[slot] {
			if len(w) != slot.Length {
				s.delete(slot, w)
			}
		}
	}
}

// delete removes a word from a slot's domain, recording it in the
// active trim log if one is open.
func (s *Solver) delete(slot puzzle.Slot, w string) {
	delete(s.domains[slot], w)
	if s.trims != nil {
		*s.trims = append(*s.trims, trim{slot: slot, word: w})
	}
}

// revise makes x arc-consistent with y: every word of x must have at
// least one supporting word in y's domain whose overlap character
// matches. A word supports itself; distinctness is not a constraint
// here. Only x's domain is pruned. Reports whether anything was
// removed.
func (s *Solver) revise(x, y puzzle.Slot) bool {
	ov, ok := s.cw.Overlap(x, y)
	if !ok {
		return false
	}
	revised := false
	for w := range s.domains[x] {
		supported := false
		for v := range s.domains[y] {
			if w[ov.AIndex] == v[ov.BIndex] {
				supported = true
				break
			}
		}
		if !supported {
			s.delete(x, w)
			revised = true
		}
	}
	return revised
}

type arc struct {
	x, y puzzle.Slot
}

// ac3 runs the AC-3 worklist algorithm. A nil arcs slice starts from
// every ordered neighbor pair; callers doing localized re-propagation
// pass their own seed arcs. Returns false as soon as any domain
// empties (the puzzle, or this branch of it, is unsatisfiable). The
// context is checked once per popped arc.
func (s *Solver) ac3(ctx context.Context, arcs []arc) (bool, error) {
	if arcs == nil {
		for _, x := range s.cw.Slots() {
			for _, y := range s.cw.Neighbors(x) {
				arcs = append(arcs, arc{x: x, y: y})
			}
		}
	}
	for len(arcs) > 0 {
		if ctx.Err() != nil {
			return false, ErrSolveCancelled
		}
		a := arcs[0]
		arcs = arcs[1:]
		if !s.revise(a.x, a.y) {
			continue
		}
		if len(s.domains[a.x]) == 0 {
			log.Debug().Stringer("slot", a.x).Msg("domain-emptied")
			return false, nil
		}
		for _, z := range s.cw.Neighbors(a.x) {
			if z == a.y {
				continue
			}
			arcs = append(arcs, arc{x: z, y: a.x})
		}
	}
	return true, nil
}

// consistent reports whether the partial assignment violates any
// length or overlap constraint. It looks only at assigned slots and
// never consults the domains, so it can vet tentative values the
// domains no longer contain.
func (s *Solver) consistent(a Assignment) bool {
	for slot, word := range a {
		if len(word) != slot.Length {
			return false
		}
		for _, n := range s.cw.Neighbors(slot) {
			nword, assigned := a[n]
			if !assigned {
				continue
			}
			// The neighbor's own length violation may not have been
			// visited yet; don't index past a short word.
			if len(nword) != n.Length {
				return false
			}
			ov, ok := s.cw.Overlap(slot, n)
			if !ok {
				continue
			}
			if word[ov.AIndex] != nword[ov.BIndex] {
				return false
			}
		}
	}
	return true
}

// complete reports whether every slot is assigned and the whole
// assignment is consistent.
func (s *Solver) complete(a Assignment) bool {
	return len(a) == len(s.cw.Slots()) && s.consistent(a)
}

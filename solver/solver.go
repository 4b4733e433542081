package solver

import (
	"context"
	"encoding/binary"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/amaranta/puzzle"
)

var (
	ErrNotInitialized = errors.New("solver not initialized; call Init")
	ErrSolveCancelled = errors.New("solve cancelled")
	ErrBudgetExceeded = errors.New("node budget exceeded")
)

// Solver fills a crossword by backtracking search over slot
// assignments, after narrowing each slot's domain with node and arc
// consistency. A Solver is single-threaded; create one per solve or
// call Reset between solves.
type Solver struct {
	cw      *puzzle.Crossword
	domains Domains

	// macOptim: after every tentative assignment, re-propagate arc
	// consistency seeded from the assigned slot and undo the pruning
	// on backtrack. Off, the solver still finds the same solutions;
	// it just visits more nodes.
	macOptim    bool
	nodesBudget uint64
	tiesRng     *frand.RNG

	// trim log for the currently active inference pass, nil outside
	// of one. Nested passes save and restore it.
	trims *[]trim

	nodes atomic.Uint64
}

type trim struct {
	slot puzzle.Slot
	word string
}

// Init points the solver at a puzzle and seeds every slot's domain
// with the full word pool.
func (s *Solver) Init(cw *puzzle.Crossword) error {
	if cw == nil {
		return errors.New("nil crossword")
	}
	s.cw = cw
	s.macOptim = true
	s.Reset()
	return nil
}

// Reset re-seeds all domains from the word pool and zeroes counters.
func (s *Solver) Reset() {
	s.domains = make(Domains, len(s.cw.Slots()))
	for _, slot := range s.cw.Slots() {
		set := make(map[string]struct{}, len(s.cw.Words()))
		for _, w := range s.cw.Words() {
			set[w] = struct{}{}
		}
		s.domains[slot] = set
	}
	s.nodes.Store(0)
}

func (s *Solver) SetMaintainArcConsistency(on bool) {
	s.macOptim = on
}

// SetNodesBudget bounds the number of backtrack calls; 0 means
// unbounded. Exceeding the budget fails the solve with
// ErrBudgetExceeded rather than returning "no solution".
func (s *Solver) SetNodesBudget(n uint64) {
	s.nodesBudget = n
}

// SetTiesSeed makes the solver shuffle equal-score value ties with a
// seeded RNG. Zero restores fully deterministic ordering.
func (s *Solver) SetTiesSeed(seed uint64) {
	if seed == 0 {
		s.tiesRng = nil
		return
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	s.tiesRng = frand.NewCustom(key[:], 1024, 12)
}

// Nodes returns the number of backtrack calls made by the last solve.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// Solve enforces node consistency, propagates arc consistency, and
// runs backtracking search. A nil assignment with a nil error means
// the puzzle has no solution; errors are reserved for cancellation
// and the node budget.
func (s *Solver) Solve(ctx context.Context) (Assignment, error) {
	if s.cw == nil {
		return nil, ErrNotInitialized
	}
	s.nodes.Store(0)
	s.enforceNodeConsistency()
	ok, err := s.ac3(ctx, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug().Msg("arc-consistency-unsatisfiable")
		return nil, nil
	}
	sol, err := s.backtrack(ctx, make(Assignment))
	if err != nil {
		return nil, err
	}
	if sol == nil {
		log.Debug().Uint64("nodes", s.nodes.Load()).Msg("search-exhausted")
		return nil, nil
	}
	log.Debug().Uint64("nodes", s.nodes.Load()).Msg("solved")
	return sol, nil
}

// backtrack extends the partial assignment toward a complete one. It
// restores the assignment (and any inference pruning) on every path
// that does not lead to a solution.
func (s *Solver) backtrack(ctx context.Context, a Assignment) (Assignment, error) {
	if ctx.Err() != nil {
		return nil, ErrSolveCancelled
	}
	n := s.nodes.Add(1)
	if s.nodesBudget > 0 && n > s.nodesBudget {
		return nil, ErrBudgetExceeded
	}
	if s.complete(a) {
		return a.Copy(), nil
	}
	slot := s.selectUnassigned(a)
	for _, value := range s.orderDomainValues(slot, a) {
		a[slot] = value
		if !s.consistent(a) {
			delete(a, slot)
			continue
		}
		trims, feasible, err := s.inference(ctx, slot, value, a)
		if err != nil {
			s.undoTrims(trims)
			delete(a, slot)
			return nil, err
		}
		if feasible {
			sol, err := s.backtrack(ctx, a)
			if err != nil {
				s.undoTrims(trims)
				delete(a, slot)
				return nil, err
			}
			if sol != nil {
				return sol, nil
			}
		}
		s.undoTrims(trims)
		delete(a, slot)
	}
	return nil, nil
}

// inference runs the optional maintain-arc-consistency pass after the
// tentative assignment slot=value, recording every domain removal so
// the caller can undo it. Returns feasible=false if some domain
// empties under the assignment.
func (s *Solver) inference(ctx context.Context, slot puzzle.Slot, value string, a Assignment) ([]trim, bool, error) {
	if !s.macOptim {
		return nil, true, nil
	}
	var captured []trim
	prev := s.trims
	s.trims = &captured
	defer func() { s.trims = prev }()

	// Restrict the assigned slot's own domain to the chosen value so
	// neighbors prune against it.
	for w := range s.domains[slot] {
		if w != value {
			s.delete(slot, w)
		}
	}
	arcs := make([]arc, 0, len(s.cw.Neighbors(slot)))
	for _, n := range s.cw.Neighbors(slot) {
		if _, assigned := a[n]; assigned {
			continue
		}
		arcs = append(arcs, arc{x: n, y: slot})
	}
	ok, err := s.ac3(ctx, arcs)
	return captured, ok, err
}

func (s *Solver) undoTrims(trims []trim) {
	for _, t := range trims {
		s.domains[t.slot][t.word] = struct{}{}
	}
}

package automatic

// Batch solving: fill many structure files against one word list.
// Puzzles are independent, so they run concurrently; each individual
// solve stays single-threaded.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/amaranta/config"
	"github.com/domino14/amaranta/puzzle"
	"github.com/domino14/amaranta/solver"
)

type BatchResult struct {
	StructurePath string
	Solved        bool
	Nodes         uint64
	Duration      time.Duration
	Assignment    solver.Assignment
	Err           error
}

// RunBatch solves every structure against the word list, at most
// concurrency at a time. Per-puzzle failures (bad files, budget
// blowouts) land in the result, not in the returned error; only
// context cancellation aborts the batch.
func RunBatch(ctx context.Context, cfg *config.Config, structurePaths []string,
	wordsPath string, concurrency int) ([]BatchResult, error) {

	if concurrency < 1 {
		concurrency = 1
	}
	log.Debug().Int("puzzles", len(structurePaths)).Int("concurrency", concurrency).
		Msg("starting-batch")

	results := make([]BatchResult, len(structurePaths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range structurePaths {
		i, path := i, path
		g.Go(func() error {
			results[i] = solveOne(ctx, cfg, path, wordsPath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	solved := 0
	for _, r := range results {
		if r.Solved {
			solved++
		}
	}
	log.Info().Int("solved", solved).Int("total", len(results)).Msg("batch-done")
	return results, nil
}

func solveOne(ctx context.Context, cfg *config.Config, structurePath, wordsPath string) BatchResult {
	res := BatchResult{StructurePath: structurePath}

	cw, err := puzzle.NewCrosswordFromFiles(cfg, structurePath, wordsPath)
	if err != nil {
		res.Err = err
		return res
	}
	s := &solver.Solver{}
	if err := s.Init(cw); err != nil {
		res.Err = err
		return res
	}
	s.SetMaintainArcConsistency(cfg.GetBool("maintain-arc-consistency"))
	s.SetNodesBudget(uint64(cfg.GetInt("nodes-budget")))

	start := time.Now()
	a, err := s.Solve(ctx)
	res.Duration = time.Since(start)
	res.Nodes = s.Nodes()
	if err != nil {
		res.Err = err
		return res
	}
	res.Solved = a != nil
	res.Assignment = a
	return res
}

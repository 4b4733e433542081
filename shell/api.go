package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/amaranta/automatic"
	"github.com/domino14/amaranta/history"
	"github.com/domino14/amaranta/puzzle"
	"github.com/domino14/amaranta/render"
	"github.com/domino14/amaranta/solver"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for load")
	}
	structurePath := cmd.args[0]
	wordsPath := sc.config.GetString("default-words-file")
	if len(cmd.args) > 1 {
		wordsPath = cmd.args[1]
	}
	cw, err := puzzle.NewCrosswordFromFiles(sc.config, structurePath, wordsPath)
	if err != nil {
		return nil, err
	}
	sc.cw = cw
	sc.structurePath = structurePath
	sc.wordsPath = wordsPath
	sc.lastAssignment = nil
	log.Debug().Int("slots", len(cw.Slots())).Int("words", len(cw.Words())).
		Msg("loaded-puzzle")
	return msg(fmt.Sprintf("loaded %s: %d×%d grid, %d slots, %d candidate words\n%s",
		structurePath, cw.Height, cw.Width, len(cw.Slots()), len(cw.Words()),
		render.Text(cw, nil))), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.cw == nil {
		return nil, errNothingLoaded
	}
	return msg(render.Text(sc.cw, sc.lastAssignment)), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.cw == nil {
		return nil, errNothingLoaded
	}
	s := &solver.Solver{}
	if err := s.Init(sc.cw); err != nil {
		return nil, err
	}
	s.SetMaintainArcConsistency(sc.config.GetBool("maintain-arc-consistency"))
	s.SetNodesBudget(uint64(sc.config.GetInt("nodes-budget")))
	s.SetTiesSeed(sc.config.GetUint64("ties-seed"))

	start := time.Now()
	a, err := s.Solve(context.Background())
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	sc.lastAssignment = a
	sc.recordSolve(a, s.Nodes(), elapsed)
	if a == nil {
		return msg(fmt.Sprintf("no solution (%d nodes, %v)", s.Nodes(), elapsed)), nil
	}
	return msg(fmt.Sprintf("solved in %v (%d nodes)\n%s",
		elapsed, s.Nodes(), render.Text(sc.cw, a))), nil
}

func (sc *ShellController) recordSolve(a solver.Assignment, nodes uint64, elapsed time.Duration) {
	st, err := sc.historyStore()
	if err != nil {
		log.Err(err).Msg("could-not-open-history")
		return
	}
	assignmentStr := ""
	if a != nil {
		assignmentStr = a.String()
	}
	err = st.Record(context.Background(), history.Result{
		Signature:     history.Signature(sc.cw),
		StructurePath: sc.structurePath,
		WordsPath:     sc.wordsPath,
		Solved:        a != nil,
		Nodes:         nodes,
		Duration:      elapsed,
		Assignment:    assignmentStr,
	})
	if err != nil {
		log.Err(err).Msg("could-not-record-solve")
	}
}

func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	if sc.cw == nil {
		return nil, errNothingLoaded
	}
	if sc.lastAssignment == nil {
		return nil, errors.New("nothing solved yet; use `solve` first")
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("need a filename for export")
	}
	filename := cmd.args[0]
	if !strings.HasSuffix(filename, ".png") {
		filename += ".png"
	}
	if err := render.SavePNG(sc.cw, sc.lastAssignment, filename); err != nil {
		return nil, err
	}
	return msg("exported to " + filename), nil
}

var settableOptions = []string{
	"maintain-arc-consistency", "nodes-budget", "ties-seed", "default-words-file",
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var sb strings.Builder
		for _, opt := range settableOptions {
			fmt.Fprintf(&sb, "%s: %v\n", opt, sc.config.SanitizedSettings()[opt])
		}
		return msg(sb.String()), nil
	}
	opt := cmd.args[0]
	ok := false
	for _, known := range settableOptions {
		if opt == known {
			ok = true
			break
		}
	}
	if !ok {
		return nil, errors.New("option " + opt + " is not settable")
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", sc.config.SanitizedSettings()[opt])), nil
	}
	sc.config.Set(opt, cmd.args[1])
	return msg("set " + opt + " to " + cmd.args[1]), nil
}

func (sc *ShellController) batch(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: batch <words-file> <structure-file>...")
	}
	wordsPath := cmd.args[0]
	structures := cmd.args[1:]
	results, err := automatic.RunBatch(context.Background(), sc.config, structures,
		wordsPath, 4)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(&sb, "%s: error: %v\n", r.StructurePath, r.Err)
		case r.Solved:
			fmt.Fprintf(&sb, "%s: solved (%d nodes, %v)\n", r.StructurePath, r.Nodes, r.Duration)
		default:
			fmt.Fprintf(&sb, "%s: no solution (%d nodes, %v)\n", r.StructurePath, r.Nodes, r.Duration)
		}
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	n := 10
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	st, err := sc.historyStore()
	if err != nil {
		return nil, err
	}
	results, err := st.List(context.Background(), n)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return msg("no solves recorded yet"), nil
	}
	var sb strings.Builder
	for _, r := range results {
		status := "no solution"
		if r.Solved {
			status = "solved"
		}
		fmt.Fprintf(&sb, "%s  %s  %s  %d nodes  %v\n",
			r.CreatedAt.Format(time.RFC3339), r.StructurePath, status, r.Nodes, r.Duration)
	}
	return msg(sb.String()), nil
}

func usage() (*Response, error) {
	return msg(`Commands:
  load <structure> [words]   load a puzzle (words defaults to default-words-file)
  show                       display the grid, filled if solved
  solve                      fill the loaded puzzle
  export <file.png>          save the solved grid as an image
  set [<option> [<value>]]   show or change solver options
  batch <words> <structure>... solve several puzzles concurrently
  history [n]                show recent solves
  script <file.lua>          run a lua script against this shell
  exit                       leave the shell`), nil
}

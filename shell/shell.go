package shell

import (
	"errors"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/amaranta/config"
	"github.com/domino14/amaranta/history"
	"github.com/domino14/amaranta/puzzle"
	"github.com/domino14/amaranta/solver"
)

var errNothingLoaded = errors.New("no puzzle is loaded; use `load <structure> [words]`")

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string

	cw            *puzzle.Crossword
	structurePath string
	wordsPath     string

	lastAssignment solver.Assignment

	histStore *history.Store
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mamaranta>\033[0m ",
		HistoryFile:     "/tmp/readline-amaranta.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, config: cfg, execPath: execPath}
}

type shellcmd struct {
	cmd  string
	args []string
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errors.New("no command entered")
	}
	return &shellcmd{cmd: fields[0], args: fields[1:]}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "solve":
		return sc.solve(cmd)
	case "export":
		return sc.export(cmd)
	case "set":
		return sc.set(cmd)
	case "batch":
		return sc.batch(cmd)
	case "history":
		return sc.history(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return usage()
	case "bye", "exit", "quit":
		sig <- syscall.SIGINT
		return nil, errors.New("sending quit signal")
	default:
		return nil, errors.New("command " + cmd.cmd + " not found")
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if err != nil {
			if strings.Contains(err.Error(), "sending quit signal") {
				break
			}
			log.Error().Err(err).Msg("")
			continue
		}
		if resp != nil && resp.message != "" {
			showMessage(resp.message, sc.l.Stderr())
		}
	}
	log.Debug().Msg("exiting readline loop")
}

// Execute runs a single semicolon-separated command line
// non-interactively.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	for _, single := range strings.Split(line, ";") {
		single = strings.TrimSpace(single)
		if single == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(single, sig)
		if err != nil {
			log.Error().Err(err).Msg("")
			return
		}
		if resp != nil && resp.message != "" {
			showMessage(resp.message, os.Stderr)
		}
	}
}

func (sc *ShellController) Cleanup() {
	if sc.histStore != nil {
		sc.histStore.Close()
		sc.histStore = nil
	}
}

// historyStore lazily opens the sqlite solve log.
func (sc *ShellController) historyStore() (*history.Store, error) {
	if sc.histStore != nil {
		return sc.histStore, nil
	}
	st, err := history.Open(sc.config.GetString("history-db-path"))
	if err != nil {
		return nil, err
	}
	sc.histStore = st
	return st, nil
}

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/countdown/config"
	"github.com/domino14/countdown/game"
	"github.com/domino14/countdown/solver"
	"github.com/domino14/countdown/store"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format for option")
	errNoGame            = errors.New("no current game; deal one or give a target and numbers")
	errUnknownCommand    = errors.New("unknown command")
	errExit              = errors.New("exit")
	errNoResultsDB       = errors.New("no results database; set --results-db")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config
	out    io.Writer

	curGame *game.Game
	solver  *solver.Solver
	threads int
	results *store.Store

	mu          sync.Mutex
	solveCancel context.CancelFunc
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string]string

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option -%s: %w", key, err)
	}
	return i, nil
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config) (*ShellController, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36mcountdown>\033[0m ",
		HistoryFile:     "/tmp/countdown_readline.tmp",
		AutoComplete:    completer,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc := newController(cfg, l.Stdout())
	sc.l = l
	return sc, nil
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{
		config:  cfg,
		out:     out,
		solver:  &solver.Solver{},
		threads: cfg.Threads(),
	}
}

// extractFields splits a line into a command, its arguments, and -key value
// options. Negative numbers are arguments, not options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") && len(f) > 1 && !isNumber(f[1:]) {
			if i+1 >= len(fields) {
				return nil, errWrongOptionSyntax
			}
			cmd.options[f[1:]] = fields[i+1]
			i++
			continue
		}
		cmd.args = append(cmd.args, f)
	}
	return cmd, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

func (sc *ShellController) showMessage(m string) {
	io.WriteString(sc.out, m)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "solve":
		return sc.solve(cmd)
	case "deal":
		return sc.deal(cmd)
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "set":
		return sc.set(cmd)
	case "history":
		return sc.history(cmd)
	case "help":
		return sc.help(cmd)
	case "exit", "quit":
		return nil, errExit
	}
	return nil, fmt.Errorf("%w: %s", errUnknownCommand, cmd.cmd)
}

// Execute runs a single command line, as given on the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	cmd, err := extractFields(line)
	if err != nil {
		sc.showError(err)
		return
	}
	resp, err := sc.dispatch(cmd)
	if errors.Is(err, errExit) {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
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
		cmd, err := extractFields(line)
		if err != nil {
			sc.showError(err)
			continue
		}
		resp, err := sc.dispatch(cmd)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Solving() bool {
	return sc.solver.IsSolving()
}

// CancelSolve stops a running search, if there is one.
func (sc *ShellController) CancelSolve() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.solveCancel != nil {
		sc.solveCancel()
	}
}

func (sc *ShellController) Cleanup() {
	sc.CancelSolve()
	if sc.results != nil {
		if err := sc.results.Close(); err != nil {
			log.Err(err).Msg("error-closing-results-db")
		}
		sc.results = nil
	}
}

package shell

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/countdown/config"
	"github.com/domino14/countdown/game"
	"github.com/domino14/countdown/solver"
	"github.com/domino14/countdown/store"
)

//go:embed helptext/*.txt
var helptext embed.FS

const (
	defaultLargeNumbers = 1
	defaultHistory      = 10
)

func (sc *ShellController) threadsFor(cmd *shellcmd) (int, error) {
	t, err := cmd.options.IntDefault("threads", sc.threads)
	if err != nil {
		return 0, err
	}
	if t < 1 {
		return 0, errors.New("threads must be at least 1")
	}
	return t, nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.solver.IsSolving() {
		return nil, solver.ErrSolving
	}
	threads, err := sc.threadsFor(cmd)
	if err != nil {
		return nil, err
	}
	g := sc.curGame
	if len(cmd.args) > 0 {
		g, err = game.Parse(cmd.args[0], cmd.args[1:])
		if err != nil {
			return nil, err
		}
		sc.curGame = g
	}
	if g == nil {
		return nil, errNoGame
	}
	res, err := sc.runSolver(g, threads)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Searched %d number sets in %v", res.Expanded, res.Elapsed)), nil
}

func (sc *ShellController) runSolver(g *game.Game, threads int) (*solver.Result, error) {
	sc.solver.SetThreads(threads)
	sc.solver.SetVisitedMemoryFraction(sc.config.GetFloat64(config.ConfigVisitedMemoryFraction))
	if err := sc.solver.Init(g, solver.NewTextReporter(sc.out)); err != nil {
		return nil, err
	}

	if path := sc.config.GetString(config.ConfigLogStream); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sc.solver.SetLogStream(f)
		log.Info().Str("path", path).Msg("writing-log-stream")
	} else {
		sc.solver.SetLogStream(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sc.mu.Lock()
	sc.solveCancel = cancel
	sc.mu.Unlock()
	defer func() {
		sc.mu.Lock()
		sc.solveCancel = nil
		sc.mu.Unlock()
		cancel()
	}()

	sc.showMessage(g.String())
	res, err := sc.solver.Solve(ctx)
	if err != nil {
		return nil, err
	}
	if err := sc.record(g, res, threads); err != nil {
		return nil, err
	}
	return res, nil
}

// resultsStore opens the results database on first use. It returns nil if
// none is configured.
func (sc *ShellController) resultsStore() (*store.Store, error) {
	if sc.results != nil {
		return sc.results, nil
	}
	path := sc.config.GetString(config.ConfigResultsDB)
	if path == "" {
		return nil, nil
	}
	s, err := store.Open(context.Background(), path)
	if err != nil {
		return nil, err
	}
	sc.results = s
	return s, nil
}

func (sc *ShellController) record(g *game.Game, res *solver.Result, threads int) error {
	s, err := sc.resultsStore()
	if err != nil || s == nil {
		return err
	}
	id, err := s.Save(context.Background(), g, res, threads)
	if err != nil {
		return err
	}
	log.Debug().Int64("id", id).Msg("recorded-solve")
	return nil
}

func (sc *ShellController) deal(cmd *shellcmd) (*Response, error) {
	if sc.solver.IsSolving() {
		return nil, solver.ErrSolving
	}
	large, err := cmd.options.IntDefault("large", defaultLargeNumbers)
	if err != nil {
		return nil, err
	}
	g, err := game.Deal(large)
	if err != nil {
		return nil, err
	}
	sc.curGame = g
	return msg(g.String()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if sc.solver.IsSolving() {
		return nil, solver.ErrSolving
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file.yaml>")
	}
	threads, err := sc.threadsFor(cmd)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	games, err := game.LoadGames(f)
	if err != nil {
		return nil, err
	}

	solved := 0
	for i, g := range games {
		sc.showMessage(fmt.Sprintf("Game %d of %d", i+1, len(games)))
		res, err := sc.runSolver(g, threads)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}
		if res.Solutions > 0 {
			solved++
		}
	}
	return msg(fmt.Sprintf("Solved %d of %d games", solved, len(games))), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	s, err := sc.resultsStore()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errNoResultsDB
	}
	n, err := cmd.options.IntDefault("n", defaultHistory)
	if err != nil {
		return nil, err
	}
	var recs []store.Record
	if len(cmd.args) > 0 {
		t, perr := strconv.ParseUint(cmd.args[0], 10, 64)
		if perr != nil {
			return nil, fmt.Errorf("%w: %q", game.ErrBadNumber, cmd.args[0])
		}
		recs, err = s.ForTarget(context.Background(), t)
	} else {
		recs, err = s.Recent(context.Background(), n)
	}
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return msg("No solves recorded"), nil
	}
	lines := make([]string, len(recs))
	for i, r := range recs {
		lines[i] = r.String()
	}
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.curGame == nil {
		return nil, errNoGame
	}
	return msg(sc.curGame.String()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(fmt.Sprintf("threads: %d", sc.threads)), nil
	}
	switch cmd.args[0] {
	case "threads":
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: set threads <N>")
		}
		t, err := strconv.Atoi(cmd.args[1])
		if err != nil || t < 1 {
			return nil, fmt.Errorf("bad thread count %q", cmd.args[1])
		}
		sc.threads = t
		return msg("set threads to " + cmd.args[1]), nil
	}
	return nil, fmt.Errorf("unknown setting %q", cmd.args[0])
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	topic := "usage"
	if len(cmd.args) > 0 {
		topic = cmd.args[0]
	}
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return nil, fmt.Errorf("there is no help text for the topic %s", topic)
	}
	return msg(strings.TrimRight(string(dat), "\n")), nil
}

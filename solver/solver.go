// Package solver searches for a sequence of operations that reaches the
// target of a numbers game.
//
// The search is breadth-first over candidates. Two candidates whose
// remaining numbers are the same multiset can reach exactly the same
// results, so only the first one found is ever expanded. Every candidate
// that gets closer to the target than anything before it is reported, as is
// every candidate that hits the target exactly.
package solver

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/countdown/candidate"
	"github.com/domino14/countdown/game"
	"github.com/domino14/countdown/operation"
)

var (
	ErrNoGame  = errors.New("no game to solve")
	ErrSolving = errors.New("solver is already running")
)

const defaultVisitedMemoryFraction = 0.05

// how many expansions between context checks
const cancelCheckInterval = 1024

type Result struct {
	// Solutions is the number of winning candidates reported.
	Solutions    int
	BestDistance uint64
	// Best is the first candidate reported at BestDistance; nil if nothing
	// was ever reported.
	Best      *candidate.Candidate
	Expanded  uint64
	Generated uint64
	Visited   int
	Elapsed   time.Duration
	Depths    []DepthStats
}

type Solver struct {
	game     *game.Game
	reporter Reporter

	threads               int
	visitedMemoryFraction float64
	logStream             io.Writer

	solving   atomic.Bool
	expanded  atomic.Uint64
	generated atomic.Uint64

	// called with every candidate right before it is expanded.
	onExpand func(*candidate.Candidate)
}

// Init prepares the solver for g. Reports go to r.
func (s *Solver) Init(g *game.Game, r Reporter) error {
	if g == nil {
		return ErrNoGame
	}
	if s.solving.Load() {
		return ErrSolving
	}
	s.game = g
	s.reporter = r
	if s.threads < 1 {
		s.threads = 1
	}
	if s.visitedMemoryFraction <= 0 {
		s.visitedMemoryFraction = defaultVisitedMemoryFraction
	}
	return nil
}

// SetThreads sets the number of search goroutines. One thread searches in
// strict breadth-first order.
func (s *Solver) SetThreads(t int) {
	s.threads = max(t, 1)
}

func (s *Solver) SetVisitedMemoryFraction(f float64) {
	s.visitedMemoryFraction = f
}

// SetLogStream makes the solver also write every report as YAML to w.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

func (s *Solver) IsSolving() bool {
	return s.solving.Load()
}

func (s *Solver) Threads() int {
	return s.threads
}

func (s *Solver) activeReporter() Reporter {
	var reporters []Reporter
	if s.reporter != nil {
		reporters = append(reporters, s.reporter)
	}
	if s.logStream != nil {
		reporters = append(reporters, &streamReporter{w: s.logStream})
	}
	return &teeReporter{reporters: reporters}
}

// Solve runs the search until every distinct reachable number set has been
// expanded, or ctx is done. On cancellation the partial result is returned
// along with the context's error, and no final report is made.
func (s *Solver) Solve(ctx context.Context) (*Result, error) {
	if s.game == nil {
		return nil, ErrNoGame
	}
	if !s.solving.CompareAndSwap(false, true) {
		return nil, ErrSolving
	}
	defer s.solving.Store(false)
	s.expanded.Store(0)
	s.generated.Store(0)

	reporter := s.activeReporter()
	log.Info().
		Uint64("target", s.game.Target).
		Str("numbers", s.game.Numbers.String()).
		Int("threads", s.threads).
		Msg("solve-started")

	tstart := time.Now()
	var res *Result
	var err error
	if s.threads > 1 {
		res, err = s.solveParallel(ctx, reporter)
	} else {
		res, err = s.solveSerial(ctx, reporter)
	}
	res.Elapsed = time.Since(tstart)
	res.Expanded = s.expanded.Load()
	res.Generated = s.generated.Load()

	if err != nil {
		log.Info().Err(err).Uint64("expanded", res.Expanded).Msg("solve-interrupted")
		return res, err
	}
	reporter.Finished(res.Solutions)

	stats := searchStats{depths: res.Depths}
	mean, stdev := stats.branching()
	nps := 0.0
	if res.Elapsed > 0 {
		nps = float64(res.Expanded) / res.Elapsed.Seconds()
	}
	log.Info().
		Int("solutions", res.Solutions).
		Uint64("best-distance", res.BestDistance).
		Uint64("expanded", res.Expanded).
		Uint64("generated", res.Generated).
		Int("visited", res.Visited).
		Float64("nps", nps).
		Float64("branching-mean", mean).
		Float64("branching-stdev", stdev).
		Dur("elapsed", res.Elapsed).
		Msg("solve-finished")
	return res, nil
}

// expand calls fn with every legal child of base, trying each operand pair
// with the operators in OpTypes order. It returns the number of children.
func expand(base *candidate.Candidate, fn func(*candidate.Candidate)) int {
	n := 0
	for big, small := range base.Numbers().Pairs() {
		for _, ot := range operation.OpTypes {
			op := operation.New(big, small, ot)
			if !op.IsPossible() {
				continue
			}
			fn(base.WithOperation(op))
			n++
		}
	}
	return n
}

func mustDistance(c *candidate.Candidate) uint64 {
	d, ok := c.Distance()
	if !ok {
		panic("child candidate has no distance: " + c.String())
	}
	return d
}

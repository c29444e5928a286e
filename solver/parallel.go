package solver

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/countdown/candidate"
)

// shards per thread in the visited set, to keep lock contention down.
const shardsPerThread = 8

// sharedState is the state of a parallel run. Every field is safe for
// concurrent use.
type sharedState struct {
	visited      *VisitedSet
	bestDistance atomic.Uint64
	solutions    atomic.Int64

	// reportMu serializes reports and guards best.
	reportMu sync.Mutex
	best     *candidate.Candidate
	reporter Reporter
}

// lowerBest lowers the best distance to dist if dist is strictly better. It
// reports whether it did.
func (st *sharedState) lowerBest(dist uint64) bool {
	for {
		cur := st.bestDistance.Load()
		if dist >= cur {
			return false
		}
		if st.bestDistance.CompareAndSwap(cur, dist) {
			return true
		}
	}
}

// addCandidate is the concurrent version of searchState.addCandidate. Non
// winning children with 2+ numbers are claimed with a single insert-if-absent,
// so no number set is ever queued twice.
func (st *sharedState) addCandidate(c *candidate.Candidate, next *[]*candidate.Candidate) bool {
	numbers := c.Numbers()
	dist := mustDistance(c)
	if dist == 0 {
		if st.visited.Contains(numbers) {
			return false
		}
		st.reportMu.Lock()
		defer st.reportMu.Unlock()
		if st.lowerBest(0) {
			st.best = c
		}
		st.solutions.Add(1)
		st.reporter.Won(c)
		return true
	}
	if numbers.Len() > 1 && !st.visited.Insert(numbers) {
		return false
	}
	if st.lowerBest(dist) {
		st.reportMu.Lock()
		// another goroutine may have found something better in the meantime;
		// only the current best gets reported.
		if st.bestDistance.Load() == dist {
			st.best = c
			st.reporter.Improved(c)
		}
		st.reportMu.Unlock()
	}
	if numbers.Len() > 1 {
		*next = append(*next, c)
	}
	return false
}

// solveParallel expands one breadth-first level at a time. Each level is split
// into contiguous chunks, one per thread; the next level is the threads'
// outputs joined in chunk order.
func (s *Solver) solveParallel(ctx context.Context, reporter Reporter) (*Result, error) {
	capacity := visitedCapacity(s.visitedMemoryFraction, s.game.Numbers.Len())
	st := &sharedState{
		visited:  NewVisitedSet(s.threads*shardsPerThread, capacity),
		reporter: reporter,
	}
	st.bestDistance.Store(s.game.Target)

	var stats searchStats
	frontier := []*candidate.Candidate{candidate.New(s.game.Target, s.game.Numbers)}
	depth := 0
	var err error

	for len(frontier) > 0 {
		if err = ctx.Err(); err != nil {
			break
		}
		log.Debug().Int("depth", depth).Int("frontier", len(frontier)).Msg("expanding-level")

		chunk := (len(frontier) + s.threads - 1) / s.threads
		chunks := lo.Chunk(frontier, chunk)
		nexts := make([][]*candidate.Candidate, len(chunks))
		threadStats := make([]searchStats, len(chunks))

		g, gctx := errgroup.WithContext(ctx)
		for t, work := range chunks {
			g.Go(func() error {
				ds := threadStats[t].at(depth)
				for i, base := range work {
					if i%cancelCheckInterval == 0 {
						if err := gctx.Err(); err != nil {
							return err
						}
					}
					s.expanded.Add(1)
					if s.onExpand != nil {
						s.onExpand(base)
					}
					queued := len(nexts[t])
					children := expand(base, func(child *candidate.Candidate) {
						st.addCandidate(child, &nexts[t])
					})
					ds.Expanded++
					ds.Generated += uint64(children)
					ds.Queued += uint64(len(nexts[t]) - queued)
					s.generated.Add(uint64(children))
				}
				return nil
			})
		}
		err = g.Wait()
		for t := range threadStats {
			stats.merge(&threadStats[t])
		}
		if err != nil {
			break
		}
		frontier = lo.Flatten(nexts)
		depth++
	}

	return &Result{
		Solutions:    int(st.solutions.Load()),
		BestDistance: st.bestDistance.Load(),
		Best:         st.best,
		Visited:      st.visited.Len(),
		Depths:       stats.depths,
	}, err
}

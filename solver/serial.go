package solver

import (
	"context"

	"github.com/domino14/countdown/candidate"
)

// searchState lives for one serial run.
type searchState struct {
	queue        candidateQueue
	visited      *VisitedSet
	bestDistance uint64
	best         *candidate.Candidate
	reporter     Reporter
}

// addCandidate evaluates a freshly generated child. It returns true if the
// child hits the target.
func (st *searchState) addCandidate(c *candidate.Candidate) bool {
	if st.visited.Contains(c.Numbers()) {
		// Some earlier candidate already arrived at this number list, so there
		// is nothing new to explore from here.
		return false
	}

	dist := mustDistance(c)
	if dist == 0 {
		st.reporter.Won(c)
		if st.bestDistance != 0 {
			st.best = c
		}
		st.bestDistance = 0
		return true
	} else if dist < st.bestDistance {
		st.reporter.Improved(c)
		st.bestDistance = dist
		st.best = c
	}

	if c.Numbers().Len() > 1 {
		// only continue if there are 2+ numbers left
		st.visited.Insert(c.Numbers())
		st.queue.push(c)
	}
	return false
}

func (s *Solver) solveSerial(ctx context.Context, reporter Reporter) (*Result, error) {
	capacity := visitedCapacity(s.visitedMemoryFraction, s.game.Numbers.Len())
	st := &searchState{
		visited:      NewVisitedSet(1, capacity),
		bestDistance: s.game.Target,
		reporter:     reporter,
	}
	st.queue.push(candidate.New(s.game.Target, s.game.Numbers))

	var stats searchStats
	solutions := 0
	var err error
	for {
		base, ok := st.queue.pop()
		if !ok {
			break
		}
		if s.expanded.Load()%cancelCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				break
			}
		}
		s.expanded.Add(1)
		if s.onExpand != nil {
			s.onExpand(base)
		}
		ds := stats.at(base.Depth())
		before := st.queue.len()
		children := expand(base, func(child *candidate.Candidate) {
			if st.addCandidate(child) {
				solutions++
			}
		})
		ds.Expanded++
		ds.Generated += uint64(children)
		ds.Queued += uint64(st.queue.len() - before)
		s.generated.Add(uint64(children))
	}

	return &Result{
		Solutions:    solutions,
		BestDistance: st.bestDistance,
		Best:         st.best,
		Visited:      st.visited.Len(),
		Depths:       stats.depths,
	}, err
}

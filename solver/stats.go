package solver

import (
	"gonum.org/v1/gonum/stat"
)

// DepthStats counts work done on candidates that already have Depth
// operations applied.
type DepthStats struct {
	Depth     int
	Expanded  uint64
	Generated uint64
	Queued    uint64
}

// Branching is the average number of legal children per expanded candidate.
func (d DepthStats) Branching() float64 {
	if d.Expanded == 0 {
		return 0
	}
	return float64(d.Generated) / float64(d.Expanded)
}

type searchStats struct {
	depths []DepthStats
}

func (s *searchStats) at(depth int) *DepthStats {
	for len(s.depths) <= depth {
		s.depths = append(s.depths, DepthStats{Depth: len(s.depths)})
	}
	return &s.depths[depth]
}

func (s *searchStats) merge(o *searchStats) {
	for _, d := range o.depths {
		m := s.at(d.Depth)
		m.Expanded += d.Expanded
		m.Generated += d.Generated
		m.Queued += d.Queued
	}
}

// branching returns the mean and standard deviation of the per-depth
// branching factor, weighted by how many candidates were expanded at each
// depth.
func (s *searchStats) branching() (mean, stdev float64) {
	var xs, ws []float64
	for _, d := range s.depths {
		if d.Expanded == 0 {
			continue
		}
		xs = append(xs, d.Branching())
		ws = append(ws, float64(d.Expanded))
	}
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, ws)
}

package solver

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/countdown/candidate"
	"github.com/domino14/countdown/operation"
)

// Reporter receives every candidate that improves on the best distance so
// far, every winning candidate, and the final number of wins.
type Reporter interface {
	Improved(c *candidate.Candidate)
	Won(c *candidate.Candidate)
	Finished(solutions int)
}

// TextReporter writes one human-readable line per report.
type TextReporter struct {
	w io.Writer
}

func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

func (r *TextReporter) Improved(c *candidate.Candidate) {
	fmt.Fprintf(r.w, "FOUND: %s\n", c)
}

func (r *TextReporter) Won(c *candidate.Candidate) {
	fmt.Fprintf(r.w, "WON!!! %s\n", c)
}

func (r *TextReporter) Finished(solutions int) {
	fmt.Fprintf(r.w, "Solutions found: %d\n", solutions)
}

// event is a single entry of the YAML log stream.
type event struct {
	Kind       string   `yaml:"kind"`
	Distance   uint64   `yaml:"distance"`
	Operations []string `yaml:"operations,omitempty"`
	Remaining  []uint64 `yaml:"remaining,omitempty"`
	Solutions  int      `yaml:"solutions,omitempty"`
}

// streamReporter writes every report as a YAML document.
type streamReporter struct {
	w io.Writer
}

func (r *streamReporter) write(e event) {
	out, err := yaml.Marshal([]event{e})
	if err != nil {
		log.Err(err).Msg("error-marshaling-event")
		return
	}
	if _, err := r.w.Write(out); err != nil {
		log.Err(err).Msg("error-writing-event")
	}
}

func candidateEvent(kind string, c *candidate.Candidate) event {
	dist, _ := c.Distance()
	ops := lo.Map(c.Operations(), func(op operation.Operation, _ int) string {
		return op.String()
	})
	return event{
		Kind:       kind,
		Distance:   dist,
		Operations: ops,
		Remaining:  c.Numbers().Values(),
	}
}

func (r *streamReporter) Improved(c *candidate.Candidate) { r.write(candidateEvent("found", c)) }
func (r *streamReporter) Won(c *candidate.Candidate)      { r.write(candidateEvent("won", c)) }
func (r *streamReporter) Finished(solutions int) {
	r.write(event{Kind: "finished", Solutions: solutions})
}

// teeReporter forwards to several reporters, one call at a time.
type teeReporter struct {
	sync.Mutex
	reporters []Reporter
}

func (t *teeReporter) Improved(c *candidate.Candidate) {
	t.Lock()
	defer t.Unlock()
	for _, r := range t.reporters {
		r.Improved(c)
	}
}

func (t *teeReporter) Won(c *candidate.Candidate) {
	t.Lock()
	defer t.Unlock()
	for _, r := range t.reporters {
		r.Won(c)
	}
}

func (t *teeReporter) Finished(solutions int) {
	t.Lock()
	defer t.Unlock()
	for _, r := range t.reporters {
		r.Finished(solutions)
	}
}

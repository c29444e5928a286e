package candidate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/domino14/countdown/numberset"
	"github.com/domino14/countdown/operation"
)

// Candidate is one node of the search tree: the numbers that remain after
// applying ops, in order, to the starting numbers.
type Candidate struct {
	numbers numberset.NumberSet
	ops     []operation.Operation
	target  uint64
}

// New creates the root candidate, with no operations applied.
func New(target uint64, numbers numberset.NumberSet) *Candidate {
	return &Candidate{numbers: numbers, target: target}
}

func (c *Candidate) Target() uint64               { return c.target }
func (c *Candidate) Numbers() numberset.NumberSet { return c.numbers }
func (c *Candidate) Depth() int                   { return len(c.ops) }

func (c *Candidate) Operations() []operation.Operation {
	return slices.Clone(c.ops)
}

// Result is the value produced by the last operation.
func (c *Candidate) Result() (uint64, bool) {
	if len(c.ops) == 0 {
		return 0, false
	}
	return c.ops[len(c.ops)-1].Result()
}

// Distance is how far Result is from the target.
func (c *Candidate) Distance() (uint64, bool) {
	r, ok := c.Result()
	if !ok {
		return 0, false
	}
	return AbsDiff(r, c.target), true
}

// WithOperation returns a child candidate with op applied. It panics if op
// is not possible; a candidate never represents an illegal state.
func (c *Candidate) WithOperation(op operation.Operation) *Candidate {
	if !op.IsPossible() {
		panic("candidates cannot have impossible operations: " + op.String())
	}
	ops := make([]operation.Operation, len(c.ops), len(c.ops)+1)
	copy(ops, c.ops)
	return &Candidate{
		numbers: c.numbers.Substitute(op),
		ops:     append(ops, op),
		target:  c.target,
	}
}

func AbsDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

func (c *Candidate) String() string {
	var sb strings.Builder
	for _, op := range c.ops {
		sb.WriteString(op.String())
		sb.WriteString(", ")
	}
	dist, ok := c.Distance()
	switch {
	case !ok:
		sb.WriteString("[No distance]")
	case dist == 0:
		sb.WriteString("***")
	case dist <= 5:
		fmt.Fprintf(&sb, "[dist = %d] **", dist)
	case dist <= 10:
		fmt.Fprintf(&sb, "[dist = %d] *", dist)
	default:
		fmt.Fprintf(&sb, "[dist = %d]", dist)
	}
	return sb.String()
}

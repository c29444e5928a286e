// Package game describes a single numbers game: the target and the
// numbers that may be combined to reach it.
package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/countdown/numberset"
)

var (
	ErrBadNumber = errors.New("numbers must be non-negative integers")
	ErrNoNumbers = errors.New("a game needs at least one number")
)

// Game is immutable once created.
type Game struct {
	Target  uint64
	Numbers numberset.NumberSet
}

func New(target uint64, numbers []uint64) *Game {
	return &Game{
		Target:  target,
		Numbers: numberset.New(numbers...),
	}
}

// Parse builds a game from textual input, such as shell or command-line
// arguments.
func Parse(target string, numbers []string) (*Game, error) {
	t, err := parseNumber(target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if len(numbers) == 0 {
		return nil, ErrNoNumbers
	}
	nums := make([]uint64, 0, len(numbers))
	for _, s := range numbers {
		n, err := parseNumber(s)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return New(t, nums), nil
}

func parseNumber(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return n, nil
}

func (g *Game) String() string {
	nums := lo.Map(g.Numbers.Values(), func(n uint64, _ int) string {
		return strconv.FormatUint(n, 10)
	})
	return fmt.Sprintf("target %d, numbers %s", g.Target, strings.Join(nums, " "))
}

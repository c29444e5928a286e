package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/samber/lo"
)

func TestParse(t *testing.T) {
	is := is.New(t)
	g, err := Parse("508", []string{"6", "1", "7", "8", "9"})
	is.NoErr(err)
	is.Equal(g.Target, uint64(508))
	is.Equal(g.Numbers.Values(), []uint64{1, 6, 7, 8, 9})
	is.Equal(g.String(), "target 508, numbers 1 6 7 8 9")
}

func TestParseErrors(t *testing.T) {
	is := is.New(t)
	_, err := Parse("508", []string{"6", "-1"})
	is.True(errors.Is(err, ErrBadNumber))
	_, err = Parse("abc", []string{"6"})
	is.True(errors.Is(err, ErrBadNumber))
	_, err = Parse("508", nil)
	is.True(errors.Is(err, ErrNoNumbers))
	_, err = Parse("5.5", []string{"1"})
	is.True(errors.Is(err, ErrBadNumber))
}

func TestDeal(t *testing.T) {
	is := is.New(t)
	for numLarge := 0; numLarge <= MaxLarge; numLarge++ {
		for range 50 {
			g, err := Deal(numLarge)
			is.NoErr(err)
			vals := g.Numbers.Values()
			is.Equal(len(vals), NumbersPerGame)
			is.True(g.Target >= MinTarget && g.Target <= MaxTarget)
			large := lo.Filter(vals, func(v uint64, _ int) bool { return v > 10 })
			is.Equal(len(large), numLarge)
			is.Equal(len(lo.Uniq(large)), numLarge) // each large number once
			// no small number is drawn more than twice
			for _, count := range lo.CountValues(vals) {
				is.True(count <= 2)
			}
		}
	}
}

func TestDealBadCount(t *testing.T) {
	is := is.New(t)
	_, err := Deal(5)
	is.True(err != nil)
	_, err = Deal(-1)
	is.True(err != nil)
}

func TestLoadGames(t *testing.T) {
	is := is.New(t)
	games, err := LoadGames(strings.NewReader(`
- target: 508
  numbers: [6, 1, 7, 8, 9]
- target: 482
  numbers: [50, 25, 6, 5, 10]
`))
	is.NoErr(err)
	is.Equal(len(games), 2)
	is.Equal(games[0].Target, uint64(508))
	is.Equal(games[1].Numbers.Values(), []uint64{5, 6, 10, 25, 50})
}

func TestLoadGamesErrors(t *testing.T) {
	is := is.New(t)
	_, err := LoadGames(strings.NewReader("- numbers: [1, 2]\n"))
	is.True(err != nil)
	_, err = LoadGames(strings.NewReader("- target: 10\n"))
	is.True(errors.Is(err, ErrNoNumbers))
	_, err = LoadGames(strings.NewReader("- target: 10\n  numbers: [-3]\n"))
	is.True(err != nil)
	games, err := LoadGames(strings.NewReader(""))
	is.NoErr(err)
	is.Equal(len(games), 0)
}

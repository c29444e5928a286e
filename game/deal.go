package game

import (
	"fmt"
	"slices"

	"lukechampine.com/frand"
)

const (
	NumbersPerGame = 6
	MaxLarge       = 4
	MinTarget      = 101
	MaxTarget      = 999
)

var largeNumbers = []uint64{25, 50, 75, 100}

// two of each
var smallNumbers = []uint64{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10}

// Deal draws a random game the way the television show does: numLarge
// numbers from the large pool, the rest from the small pool, and a three
// digit target.
func Deal(numLarge int) (*Game, error) {
	if numLarge < 0 || numLarge > MaxLarge {
		return nil, fmt.Errorf("number of large numbers must be between 0 and %d, got %d",
			MaxLarge, numLarge)
	}
	large := slices.Clone(largeNumbers)
	small := slices.Clone(smallNumbers)
	frand.Shuffle(len(large), func(i, j int) { large[i], large[j] = large[j], large[i] })
	frand.Shuffle(len(small), func(i, j int) { small[i], small[j] = small[j], small[i] })

	numbers := make([]uint64, 0, NumbersPerGame)
	numbers = append(numbers, large[:numLarge]...)
	numbers = append(numbers, small[:NumbersPerGame-numLarge]...)

	target := uint64(MinTarget + frand.Intn(MaxTarget-MinTarget+1))
	return New(target, numbers), nil
}

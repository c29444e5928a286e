package zobrist

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"
)

const bignum = 1<<63 - 2

// generate a zobrist-style hash for a multiset of numbers.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// The number space is unbounded, so instead of a precomputed random table
// every value gets its key from a seeded xxhash. Keys are combined with
// wrapping addition rather than XOR, so repeated values do not cancel out
// and the hash does not depend on element order.
type Zobrist struct {
	seed uint64
}

func (z *Zobrist) Initialize() {
	z.seed = frand.Uint64n(bignum) + 1
}

// Element returns the key for a single value.
func (z *Zobrist) Element(v uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], z.seed)
	binary.LittleEndian.PutUint64(buf[8:], v)
	return xxhash.Sum64(buf[:])
}

func (z *Zobrist) Hash(values []uint64) uint64 {
	key := uint64(0)
	for _, v := range values {
		key += z.Element(v)
	}
	return key
}

// Substitute updates key for a multiset in which a and b were replaced by
// result. It is equivalent to rehashing the new multiset from scratch.
func (z *Zobrist) Substitute(key, a, b, result uint64) uint64 {
	return key - z.Element(a) - z.Element(b) + z.Element(result)
}

// Default is shared by every number set in the process so that their hashes
// are comparable.
var Default = func() *Zobrist {
	z := &Zobrist{}
	z.Initialize()
	return z
}()

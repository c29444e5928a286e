// Package numberset holds the multiset of numbers still available in a
// numbers game. Values are kept sorted so that equal multisets have equal
// representations; the ordering carries no other meaning.
package numberset

import (
	"encoding/binary"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/domino14/countdown/operation"
	"github.com/domino14/countdown/zobrist"
)

// Key is a canonical encoding of a NumberSet, usable as a map key.
type Key string

// NumberSet is an immutable multiset of non-negative integers. Every
// transformation returns a new NumberSet.
type NumberSet struct {
	numbers []uint64
	hash    uint64
}

func New(numbers ...uint64) NumberSet {
	ns := slices.Clone(numbers)
	slices.Sort(ns)
	return NumberSet{numbers: ns, hash: zobrist.Default.Hash(ns)}
}

func (n NumberSet) Len() int {
	return len(n.numbers)
}

// Values returns a sorted copy of the numbers.
func (n NumberSet) Values() []uint64 {
	return slices.Clone(n.numbers)
}

// Hash is an order-independent hash of the multiset. Equal sets always have
// equal hashes; the converse is only very likely.
func (n NumberSet) Hash() uint64 {
	return n.hash
}

func (n NumberSet) Equal(o NumberSet) bool {
	return n.hash == o.hash && slices.Equal(n.numbers, o.numbers)
}

func (n NumberSet) Key() Key {
	buf := make([]byte, 0, len(n.numbers)*2)
	for _, v := range n.numbers {
		buf = binary.AppendUvarint(buf, v)
	}
	return Key(buf)
}

// Pairs yields every (larger, smaller) operand pair once. When values repeat,
// each distinct pair of values is only produced once.
func (n NumberSet) Pairs() iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		it := NewPairIterator(n)
		for {
			big, small, ok := it.Next()
			if !ok || !yield(big, small) {
				return
			}
		}
	}
}

// Substitute removes the operands of op and inserts its result. It panics if
// op is not legal or if either operand is missing; callers only ever apply
// operations built from this set's own pairs.
func (n NumberSet) Substitute(op operation.Operation) NumberSet {
	result, ok := op.Result()
	if !ok {
		panic(fmt.Sprintf("cannot substitute impossible operation %v", op))
	}
	found1, found2 := false, false
	numbers := make([]uint64, 0, len(n.numbers))
	for _, v := range n.numbers {
		if !found1 && v == op.Op1() {
			found1 = true
		} else if !found2 && v == op.Op2() {
			found2 = true
		} else {
			numbers = append(numbers, v)
		}
	}
	if !found1 || !found2 {
		panic(fmt.Sprintf("operation %v does not apply to %v", op, n))
	}
	idx, _ := slices.BinarySearch(numbers, result)
	numbers = slices.Insert(numbers, idx, result)

	return NumberSet{
		numbers: numbers,
		hash:    zobrist.Default.Substitute(n.hash, op.Op1(), op.Op2(), result),
	}
}

func (n NumberSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range n.numbers {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	sb.WriteByte(']')
	return sb.String()
}

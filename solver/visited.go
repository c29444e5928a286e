package solver

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/countdown/numberset"
)

// rough bytes per visited entry: map slot, slice header and a few numbers.
const visitedEntrySize = 96

// never preallocate more than this many entries, however much memory there is.
const maxVisitedPrealloc = 1 << 20

type FakeLock struct{}

func (f FakeLock) Lock()   {}
func (f FakeLock) Unlock() {}

type visitedShard struct {
	sync.Locker
	buckets map[uint64][]numberset.NumberSet
}

// VisitedSet records number sets that have already been queued. It is keyed
// by the order-independent multiset hash, and every hit is confirmed against
// the full set of values, so hash collisions never cause a wrong prune.
type VisitedSet struct {
	shards []visitedShard
	mask   uint64
	size   atomic.Int64
}

// NewVisitedSet creates a set split into shards, rounded up to a power of
// two. A single shard is not locked at all and must only be used from one
// goroutine.
func NewVisitedSet(shards, capacity int) *VisitedSet {
	if shards < 1 {
		shards = 1
	}
	shards = 1 << bits.Len(uint(shards-1))
	v := &VisitedSet{
		shards: make([]visitedShard, shards),
		mask:   uint64(shards - 1),
	}
	for i := range v.shards {
		if shards == 1 {
			v.shards[i].Locker = FakeLock{}
		} else {
			v.shards[i].Locker = &sync.Mutex{}
		}
		v.shards[i].buckets = make(map[uint64][]numberset.NumberSet, capacity/shards)
	}
	return v
}

func (v *VisitedSet) shard(n numberset.NumberSet) *visitedShard {
	return &v.shards[n.Hash()&v.mask]
}

func (v *VisitedSet) Contains(n numberset.NumberSet) bool {
	s := v.shard(n)
	s.Lock()
	defer s.Unlock()
	return containsSet(s.buckets[n.Hash()], n)
}

// Insert adds n unless it is already present. It reports whether n was
// added; the check and the insert happen under the same lock.
func (v *VisitedSet) Insert(n numberset.NumberSet) bool {
	s := v.shard(n)
	s.Lock()
	defer s.Unlock()
	bucket := s.buckets[n.Hash()]
	if containsSet(bucket, n) {
		return false
	}
	s.buckets[n.Hash()] = append(bucket, n)
	v.size.Add(1)
	return true
}

func (v *VisitedSet) Len() int {
	return int(v.size.Load())
}

func containsSet(bucket []numberset.NumberSet, n numberset.NumberSet) bool {
	for _, b := range bucket {
		if b.Equal(n) {
			return true
		}
	}
	return false
}

// visitedCapacity picks how many entries to preallocate: no more than
// fractionOfMemory of the system memory, and no more than the game can
// possibly produce.
func visitedCapacity(fractionOfMemory float64, numbers int) int {
	totalMem := memory.TotalMemory()
	byMemory := int(fractionOfMemory * float64(totalMem) / visitedEntrySize)
	byGame := maxReachableSets(numbers, maxVisitedPrealloc)
	capacity := min(byMemory, byGame, maxVisitedPrealloc)
	if capacity < 0 {
		capacity = 0
	}
	log.Debug().
		Int("capacity", capacity).
		Int("by-memory", byMemory).
		Int("by-game", byGame).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("visited-set-size")
	return capacity
}

// maxReachableSets bounds the number of queueable number sets for a game
// with n numbers: every level multiplies by pairs × operators and loses one
// number. The result saturates at limit.
func maxReachableSets(n, limit int) int {
	total, level := 0, 1
	for k := n; k > 2; k-- {
		level *= k * (k - 1) / 2 * 4
		if level >= limit {
			return limit
		}
		total += level
		if total >= limit {
			return limit
		}
	}
	return total
}

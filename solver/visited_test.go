package solver

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/countdown/candidate"
	"github.com/domino14/countdown/numberset"
)

func TestVisitedSet(t *testing.T) {
	is := is.New(t)
	v := NewVisitedSet(1, 16)
	a := numberset.New(5, 10, 10)
	is.True(!v.Contains(a))
	is.True(v.Insert(a))
	is.True(v.Contains(numberset.New(10, 5, 10)))
	is.True(!v.Insert(numberset.New(10, 10, 5)))
	is.True(!v.Contains(numberset.New(5, 10)))
	is.Equal(v.Len(), 1)
	_, fake := v.shards[0].Locker.(FakeLock)
	is.True(fake)
}

func TestVisitedShardCount(t *testing.T) {
	is := is.New(t)
	is.Equal(len(NewVisitedSet(0, 0).shards), 1)
	is.Equal(len(NewVisitedSet(3, 0).shards), 4)
	is.Equal(len(NewVisitedSet(32, 0).shards), 32)
	_, fake := NewVisitedSet(2, 0).shards[1].Locker.(FakeLock)
	is.True(!fake)
}

func TestVisitedConcurrentInsert(t *testing.T) {
	is := is.New(t)
	v := NewVisitedSet(8, 0)
	var inserted atomic.Int64
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := uint64(0); i < 500; i++ {
				if v.Insert(numberset.New(i, i+1, 7)) {
					inserted.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	is.Equal(inserted.Load(), int64(500))
	is.Equal(v.Len(), 500)
}

func TestMaxReachableSets(t *testing.T) {
	is := is.New(t)
	is.Equal(maxReachableSets(0, 1000), 0)
	is.Equal(maxReachableSets(2, 1000), 0)
	is.Equal(maxReachableSets(3, 1000), 12)
	is.Equal(maxReachableSets(4, 1000), 24+24*12)
	is.Equal(maxReachableSets(6, 1000), 1000)
}

func TestVisitedCapacity(t *testing.T) {
	is := is.New(t)
	is.Equal(visitedCapacity(0.5, 3), 12)
	is.Equal(visitedCapacity(0, 6), 0)
	is.True(visitedCapacity(1, 100) <= maxVisitedPrealloc)
}

func TestCandidateQueue(t *testing.T) {
	is := is.New(t)
	var q candidateQueue
	_, ok := q.pop()
	is.True(!ok)

	const n = 5000
	for i := range n {
		q.push(candidate.New(uint64(i), numberset.New()))
	}
	is.Equal(q.len(), n)
	for i := range n {
		c, ok := q.pop()
		is.True(ok)
		is.Equal(c.Target(), uint64(i))
		if i == n/2 {
			q.push(candidate.New(n, numberset.New()))
		}
	}
	c, ok := q.pop()
	is.True(ok)
	is.Equal(c.Target(), uint64(n))
	is.Equal(q.len(), 0)
}

package solver

import "github.com/domino14/countdown/candidate"

// candidateQueue is a FIFO queue. Popped slots are reclaimed once they make
// up half of the backing array.
type candidateQueue struct {
	items []*candidate.Candidate
	head  int
}

func (q *candidateQueue) push(c *candidate.Candidate) {
	q.items = append(q.items, c)
}

func (q *candidateQueue) pop() (*candidate.Candidate, bool) {
	if q.head >= len(q.items) {
		return nil, false
	}
	c := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head >= 1024 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return c, true
}

func (q *candidateQueue) len() int {
	return len(q.items) - q.head
}

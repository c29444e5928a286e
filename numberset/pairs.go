package numberset

// PairIterator walks the operand pairs of a NumberSet with two cursors over
// the sorted values. Both cursors skip runs of equal values so that the same
// numeric pair is never produced twice.
type PairIterator struct {
	numbers []uint64
	i       int
	j       int
	done    bool
}

func NewPairIterator(n NumberSet) *PairIterator {
	return &PairIterator{
		numbers: n.numbers,
		i:       0,
		j:       1,
		done:    len(n.numbers) < 2,
	}
}

// Next returns the next pair as (larger, smaller). ok is false once the
// pairs are exhausted.
func (p *PairIterator) Next() (big, small uint64, ok bool) {
	if p.done {
		return 0, 0, false
	}
	big, small = p.numbers[p.j], p.numbers[p.i]
	p.advanceJ()
	return big, small, true
}

func (p *PairIterator) advanceJ() {
	for {
		p.j++
		if p.j >= len(p.numbers) {
			p.advanceI()
			return
		}
		if p.numbers[p.j] != p.numbers[p.j-1] {
			return
		}
	}
}

func (p *PairIterator) advanceI() {
	for {
		p.i++
		p.j = p.i + 1
		if p.j >= len(p.numbers) {
			p.done = true
			return
		}
		if p.numbers[p.i] != p.numbers[p.i-1] {
			return
		}
	}
}

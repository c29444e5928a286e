package operation

import (
	"fmt"
	"math/bits"
)

// OpType is one of the four arithmetic operators allowed in the numbers game.
type OpType uint8

const (
	Addition OpType = iota
	Multiplication
	Subtraction
	Division
)

// OpTypes is the order in which the solver tries operators for every pair.
var OpTypes = [...]OpType{Addition, Multiplication, Subtraction, Division}

func (t OpType) String() string {
	switch t {
	case Addition:
		return "+"
	case Multiplication:
		return "×"
	case Subtraction:
		return "-"
	case Division:
		return "÷"
	}
	return "?"
}

// Operation is a single binary arithmetic move.
// Invariant: op1 >= op2 (enforced on creation)
type Operation struct {
	op1    uint64
	op2    uint64
	opType OpType
}

// New creates an operation. The operands may come in any order; the larger
// one is always stored first so that subtraction and division are evaluated
// as larger - smaller and larger ÷ smaller.
func New(a, b uint64, t OpType) Operation {
	if b > a {
		a, b = b, a
	}
	return Operation{op1: a, op2: b, opType: t}
}

func (o Operation) Op1() uint64  { return o.op1 }
func (o Operation) Op2() uint64  { return o.op2 }
func (o Operation) Type() OpType { return o.opType }

// IsPossible reports whether the operation yields a non-negative integer
// under the game's rules. Addition and multiplication always do.
func (o Operation) IsPossible() bool {
	_, ok := o.Result()
	return ok
}

// Result returns the value produced by the operation, and false if the
// operation is not legal. Subtraction may not produce zero, division must
// be exact, and nothing may overflow.
func (o Operation) Result() (uint64, bool) {
	switch o.opType {
	case Addition:
		sum, carry := bits.Add64(o.op1, o.op2, 0)
		return sum, carry == 0
	case Multiplication:
		hi, lo := bits.Mul64(o.op1, o.op2)
		return lo, hi == 0
	case Subtraction:
		if o.op1 > o.op2 {
			return o.op1 - o.op2, true
		}
	case Division:
		if o.op2 != 0 && o.op1%o.op2 == 0 {
			return o.op1 / o.op2, true
		}
	}
	return 0, false
}

func (o Operation) String() string {
	if r, ok := o.Result(); ok {
		return fmt.Sprintf("%d %s %d = %d", o.op1, o.opType, o.op2, r)
	}
	return fmt.Sprintf("%d %s %d = X", o.op1, o.opType, o.op2)
}

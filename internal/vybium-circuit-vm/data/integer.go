package data

import (
	"fmt"
	"math/big"

	"golang.org/x/exp/constraints"
)

// Integer is a signed or unsigned integer literal of a fixed width.
// The value always lies in [kind.Min(), kind.Max()].
type Integer struct {
	kind Kind
	v    *big.Int
}

// NewInteger checks that v fits kind
func NewInteger(kind Kind, v *big.Int) (Integer, error) {
	if !kind.IsInteger() {
		return Integer{}, fmt.Errorf("%s is not an integer kind", kind)
	}
	if v.Cmp(kind.Min()) < 0 || v.Cmp(kind.Max()) > 0 {
		return Integer{}, fmt.Errorf("%s is out of range for %s", v, kind)
	}
	return Integer{kind: kind, v: new(big.Int).Set(v)}, nil
}

// IntegerOf converts a native Go integer into a literal of the given kind
func IntegerOf[T constraints.Integer](kind Kind, v T) (Integer, error) {
	var b *big.Int
	if v < 0 {
		b = big.NewInt(int64(v))
	} else {
		b = new(big.Int).SetUint64(uint64(v))
	}
	return NewInteger(kind, b)
}

// MustInteger is IntegerOf for values known to fit
func MustInteger[T constraints.Integer](kind Kind, v T) Integer {
	i, err := IntegerOf(kind, v)
	if err != nil {
		panic(err)
	}
	return i
}

// Big returns a copy of the value
func (i Integer) Big() *big.Int { return new(big.Int).Set(i.v) }

func (i Integer) Kind() Kind { return i.kind }

func (i Integer) String() string {
	return i.v.String() + i.kind.String()
}

func (i Integer) Equal(other Literal) bool {
	o, ok := other.(Integer)
	return ok && i.kind == o.kind && i.v.Cmp(o.v) == 0
}

func (Integer) isValue()   {}
func (Integer) isLiteral() {}

// AddWrapped returns i + other modulo 2^W
func (i Integer) AddWrapped(other Integer) Integer {
	i.mustMatch(other, "add")
	return wrap(i.kind, new(big.Int).Add(i.v, other.v))
}

// SubWrapped returns i - other modulo 2^W
func (i Integer) SubWrapped(other Integer) Integer {
	i.mustMatch(other, "subtract")
	return wrap(i.kind, new(big.Int).Sub(i.v, other.v))
}

// MulWrapped returns i * other modulo 2^W
func (i Integer) MulWrapped(other Integer) Integer {
	i.mustMatch(other, "multiply")
	return wrap(i.kind, new(big.Int).Mul(i.v, other.v))
}

// AddChecked returns i + other and false if the sum does not fit the kind
func (i Integer) AddChecked(other Integer) (Integer, bool) {
	i.mustMatch(other, "add")
	sum := new(big.Int).Add(i.v, other.v)
	if sum.Cmp(i.kind.Min()) < 0 || sum.Cmp(i.kind.Max()) > 0 {
		return Integer{}, false
	}
	return Integer{kind: i.kind, v: sum}, true
}

// Unsigned returns the W-bit two's complement representation
func (i Integer) Unsigned() *big.Int {
	if i.v.Sign() >= 0 {
		return new(big.Int).Set(i.v)
	}
	return new(big.Int).Add(i.v, modulusOf(i.kind))
}

// integerFromUnsigned interprets u in [0, 2^W) as a two's complement value of kind
func integerFromUnsigned(kind Kind, u *big.Int) Integer {
	return wrap(kind, u)
}

func (i Integer) mustMatch(other Integer, op string) {
	if i.kind != other.kind {
		panic(fmt.Sprintf("cannot %s %s and %s", op, i.kind, other.kind))
	}
}

// wrap reduces v into the range of kind
func wrap(kind Kind, v *big.Int) Integer {
	m := modulusOf(kind)
	r := new(big.Int).Mod(v, m)
	if kind.IsSigned() && r.Cmp(kind.Max()) > 0 {
		r.Sub(r, m)
	}
	return Integer{kind: kind, v: r}
}

// modulusOf returns 2^W
func modulusOf(kind Kind) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(kind.BitWidth()))
}

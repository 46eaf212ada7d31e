package data

import (
	"fmt"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/core"
)

// ToBits returns the little-endian bit decomposition of lit.
// Every kind has one, so generic hashes accept any literal.
func ToBits(lit Literal) []bool {
	bits, _ := Visit[[]bool](lit, bitsVisitor{})
	return bits
}

// ToFields decomposes lit into base field elements.
// Integers and scalars are packed in chunks of the base field's data capacity.
func ToFields(lit Literal) ([]*core.FieldElement, error) {
	switch l := lit.(type) {
	case Field:
		return []*core.FieldElement{l.v}, nil
	case Integer, Scalar:
		return packFields(ToBits(l)), nil
	}
	return nil, fmt.Errorf("%s has no field decomposition", lit.Kind())
}

func packFields(bits []bool) []*core.FieldElement {
	chunk := core.BaseField.SizeInDataBits()
	var out []*core.FieldElement
	for start := 0; start < len(bits); start += chunk {
		end := min(start+chunk, len(bits))
		out = append(out, core.BaseField.FromBitsLE(bits[start:end]))
	}
	return out
}

type bitsVisitor struct{}

func (bitsVisitor) VisitAddress(a Address) ([]bool, error) {
	return a.p.X.BitsLE(), nil
}

func (bitsVisitor) VisitBoolean(b Boolean) ([]bool, error) {
	return []bool{bool(b)}, nil
}

func (bitsVisitor) VisitField(f Field) ([]bool, error) {
	return f.v.BitsLE(), nil
}

func (bitsVisitor) VisitGroup(g Group) ([]bool, error) {
	return g.p.X.BitsLE(), nil
}

func (bitsVisitor) VisitInteger(i Integer) ([]bool, error) {
	u := i.Unsigned()
	bits := make([]bool, i.kind.BitWidth())
	for j := range bits {
		bits[j] = u.Bit(j) == 1
	}
	return bits, nil
}

func (bitsVisitor) VisitScalar(s Scalar) ([]bool, error) {
	return s.v.BitsLE(), nil
}

func (bitsVisitor) VisitString(s String) ([]bool, error) {
	return core.UnpackBitsLE([]byte(s.s), 8*len(s.s)), nil
}

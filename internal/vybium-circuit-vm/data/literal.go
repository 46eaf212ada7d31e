package data

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/core"
)

// MaxStringBytes is the longest string literal, in bytes
const MaxStringBytes = 255

// Literal is a single non-composite value of one fixed kind.
// Literals are immutable; accessors that expose big integers return copies.
type Literal interface {
	Value
	Kind() Kind
	Equal(other Literal) bool
	isLiteral()
}

// Visitor has one method per literal type.
// Adding a literal type adds a method here, so every visitor must be revisited.
type Visitor[T any] interface {
	VisitAddress(Address) (T, error)
	VisitBoolean(Boolean) (T, error)
	VisitField(Field) (T, error)
	VisitGroup(Group) (T, error)
	VisitInteger(Integer) (T, error)
	VisitScalar(Scalar) (T, error)
	VisitString(String) (T, error)
}

// Visit dispatches lit to the matching visitor method
func Visit[T any](lit Literal, v Visitor[T]) (T, error) {
	switch l := lit.(type) {
	case Address:
		return v.VisitAddress(l)
	case Boolean:
		return v.VisitBoolean(l)
	case Field:
		return v.VisitField(l)
	case Group:
		return v.VisitGroup(l)
	case Integer:
		return v.VisitInteger(l)
	case Scalar:
		return v.VisitScalar(l)
	case String:
		return v.VisitString(l)
	}
	// unreachable: the union is sealed
	var zero T
	return zero, fmt.Errorf("unknown literal %T", lit)
}

// ----------------------------------------------------------------------------
// Boolean
// ----------------------------------------------------------------------------

// Boolean is a boolean literal
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }

func (b Boolean) String() string {
	return strconv.FormatBool(bool(b))
}

func (b Boolean) Equal(other Literal) bool {
	o, ok := other.(Boolean)
	return ok && b == o
}

func (Boolean) isValue()   {}
func (Boolean) isLiteral() {}

// ----------------------------------------------------------------------------
// String
// ----------------------------------------------------------------------------

// String is a UTF-8 string literal of at most MaxStringBytes bytes
type String struct {
	s string
}

// NewString validates and wraps s
func NewString(s string) (String, error) {
	if len(s) > MaxStringBytes {
		return String{}, fmt.Errorf("string literal is %d bytes, at most %d allowed", len(s), MaxStringBytes)
	}
	if !utf8.ValidString(s) {
		return String{}, fmt.Errorf("string literal is not valid UTF-8")
	}
	return String{s: s}, nil
}

// Value returns the Go string
func (s String) Value() string { return s.s }

func (String) Kind() Kind { return KindString }

func (s String) String() string {
	return strconv.Quote(s.s)
}

func (s String) Equal(other Literal) bool {
	o, ok := other.(String)
	return ok && s.s == o.s
}

func (String) isValue()   {}
func (String) isLiteral() {}

// ----------------------------------------------------------------------------
// Field and Scalar
// ----------------------------------------------------------------------------

// Field is an element of the base field
type Field struct {
	v *core.FieldElement
}

// NewField wraps a base field element
func NewField(fe *core.FieldElement) (Field, error) {
	if fe == nil || !fe.Field().Equals(core.BaseField) {
		return Field{}, fmt.Errorf("field literal requires a base field element")
	}
	return Field{v: fe}, nil
}

// FieldFromUint64 returns the field literal with value v
func FieldFromUint64(v uint64) Field {
	return Field{v: core.BaseField.NewElementFromUint64(v)}
}

// Element returns the underlying field element
func (f Field) Element() *core.FieldElement { return f.v }

func (Field) Kind() Kind { return KindField }

func (f Field) String() string {
	return f.v.String() + "field"
}

func (f Field) Equal(other Literal) bool {
	o, ok := other.(Field)
	return ok && f.v.Equal(o.v)
}

func (Field) isValue()   {}
func (Field) isLiteral() {}

// Scalar is an element of the scalar field
type Scalar struct {
	v *core.FieldElement
}

// NewScalar wraps a scalar field element
func NewScalar(fe *core.FieldElement) (Scalar, error) {
	if fe == nil || !fe.Field().Equals(core.ScalarField) {
		return Scalar{}, fmt.Errorf("scalar literal requires a scalar field element")
	}
	return Scalar{v: fe}, nil
}

// ScalarFromUint64 returns the scalar literal with value v
func ScalarFromUint64(v uint64) Scalar {
	return Scalar{v: core.ScalarField.NewElementFromUint64(v)}
}

// Element returns the underlying scalar field element
func (s Scalar) Element() *core.FieldElement { return s.v }

func (Scalar) Kind() Kind { return KindScalar }

func (s Scalar) String() string {
	return s.v.String() + "scalar"
}

func (s Scalar) Equal(other Literal) bool {
	o, ok := other.(Scalar)
	return ok && s.v.Equal(o.v)
}

func (Scalar) isValue()   {}
func (Scalar) isLiteral() {}

// ----------------------------------------------------------------------------
// Group and Address
// ----------------------------------------------------------------------------

// Group is a point on the Edwards curve, written as its x-coordinate
type Group struct {
	p core.Point
}

// NewGroup recovers the group element with x-coordinate x
func NewGroup(x *core.FieldElement) (Group, error) {
	p, err := core.RecoverPoint(x)
	if err != nil {
		return Group{}, err
	}
	return Group{p: p}, nil
}

// GroupIdentity returns the neutral element, written 0group
func GroupIdentity() Group {
	return Group{p: core.Identity()}
}

// Point returns the affine point
func (g Group) Point() core.Point { return g.p }

func (Group) Kind() Kind { return KindGroup }

func (g Group) String() string {
	return g.p.X.String() + "group"
}

func (g Group) Equal(other Literal) bool {
	o, ok := other.(Group)
	return ok && g.p.Equal(o.p)
}

func (Group) isValue()   {}
func (Group) isLiteral() {}

// Address is an account address: a curve point written in bech32m
type Address struct {
	p core.Point
}

// NewAddress recovers the address with x-coordinate x
func NewAddress(x *core.FieldElement) (Address, error) {
	p, err := core.RecoverPoint(x)
	if err != nil {
		return Address{}, err
	}
	return Address{p: p}, nil
}

// Point returns the affine point
func (a Address) Point() core.Point { return a.p }

func (Address) Kind() Kind { return KindAddress }

func (a Address) String() string {
	s, err := encodeAddress(a.p.X)
	if err != nil {
		// 32 bytes always fit in a bech32m string
		panic(err)
	}
	return s
}

func (a Address) Equal(other Literal) bool {
	o, ok := other.(Address)
	return ok && a.p.Equal(o.p)
}

func (Address) isValue()   {}
func (Address) isLiteral() {}

package core

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
)

// ElementBytes is the size of a canonical little-endian field element encoding
const ElementBytes = 32

// Field represents a prime field with modular arithmetic operations.
// Base field elements do their heavy arithmetic through gnark-crypto's fr.Element.
type Field struct {
	name    string
	modulus *big.Int
	native  bool
}

// FieldElement represents an element in the finite field
type FieldElement struct {
	field *Field
	value *big.Int
}

// NewField creates a new prime field with the given modulus
func NewField(name string, modulus *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("modulus must be greater than 2")
	}
	if modulus.BitLen() > ElementBytes*8 {
		return nil, fmt.Errorf("modulus exceeds %d bits", ElementBytes*8)
	}
	return &Field{name: name, modulus: new(big.Int).Set(modulus), native: modulus.Cmp(fr.Modulus()) == 0}, nil
}

// mustField is used for the package-level fields, whose moduli come from gnark-crypto
func mustField(name string, modulus *big.Int) *Field {
	f, err := NewField(name, modulus)
	if err != nil {
		panic(err)
	}
	return f
}

func (fe *FieldElement) toFr() fr.Element {
	var e fr.Element
	e.SetBigInt(fe.value)
	return e
}

func (f *Field) fromFr(e *fr.Element) *FieldElement {
	return &FieldElement{field: f, value: e.BigInt(new(big.Int))}
}

// Name returns the name of the field
func (f *Field) Name() string {
	return f.name
}

// Modulus returns the field modulus
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// SizeInBits returns the number of bits needed to represent any element
func (f *Field) SizeInBits() int {
	return f.modulus.BitLen()
}

// SizeInDataBits returns the number of bits that can be packed into an element without reduction
func (f *Field) SizeInDataBits() int {
	return f.modulus.BitLen() - 1
}

// NewElement creates a new field element from a big.Int, reducing it modulo p
func (f *Field) NewElement(value *big.Int) *FieldElement {
	normalized := new(big.Int).Mod(value, f.modulus)
	return &FieldElement{
		field: f,
		value: normalized,
	}
}

// NewCanonicalElement creates a field element, failing if value is not in [0, p)
func (f *Field) NewCanonicalElement(value *big.Int) (*FieldElement, error) {
	if value.Sign() < 0 || value.Cmp(f.modulus) >= 0 {
		return nil, fmt.Errorf("value is not a canonical %s element", f.name)
	}
	return &FieldElement{field: f, value: new(big.Int).Set(value)}, nil
}

// NewElementFromInt64 creates a new field element from an int64
func (f *Field) NewElementFromInt64(value int64) *FieldElement {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 creates a new field element from a uint64
func (f *Field) NewElementFromUint64(value uint64) *FieldElement {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// FromBytesLE decodes a canonical little-endian encoding
func (f *Field) FromBytesLE(data []byte) (*FieldElement, error) {
	if len(data) != ElementBytes {
		return nil, fmt.Errorf("expected %d bytes, got %d", ElementBytes, len(data))
	}
	return f.NewCanonicalElement(new(big.Int).SetBytes(reverse(data)))
}

// FromBitsLE packs little-endian bits into an element, reducing modulo p
func (f *Field) FromBitsLE(bits []bool) *FieldElement {
	value := new(big.Int)
	for i, bit := range bits {
		if bit {
			value.SetBit(value, i, 1)
		}
	}
	return f.NewElement(value)
}

// RandomElement generates a random field element
func (f *Field) RandomElement() (*FieldElement, error) {
	if f.native {
		var e fr.Element
		if _, err := e.SetRandom(); err != nil {
			return nil, fmt.Errorf("failed to generate random element: %w", err)
		}
		return f.fromFr(&e), nil
	}
	value, err := rand.Int(rand.Reader, f.modulus)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random element: %w", err)
	}
	return f.NewElement(value), nil
}

// Zero returns the additive identity
func (f *Field) Zero() *FieldElement {
	return f.NewElement(big.NewInt(0))
}

// One returns the multiplicative identity
func (f *Field) One() *FieldElement {
	return f.NewElement(big.NewInt(1))
}

// Equals reports whether two fields share a modulus
func (f *Field) Equals(other *Field) bool {
	return f.modulus.Cmp(other.modulus) == 0
}

// Big returns the value as a big.Int
func (fe *FieldElement) Big() *big.Int {
	return new(big.Int).Set(fe.value)
}

// Field returns the field this element belongs to
func (fe *FieldElement) Field() *Field {
	return fe.field
}

// Add performs field addition
func (fe *FieldElement) Add(other *FieldElement) *FieldElement {
	fe.mustMatch(other, "add")
	result := new(big.Int).Add(fe.value, other.value)
	return fe.field.NewElement(result)
}

// Sub performs field subtraction
func (fe *FieldElement) Sub(other *FieldElement) *FieldElement {
	fe.mustMatch(other, "subtract")
	result := new(big.Int).Sub(fe.value, other.value)
	return fe.field.NewElement(result)
}

// Neg returns the additive inverse (negation) of the field element
func (fe *FieldElement) Neg() *FieldElement {
	result := new(big.Int).Neg(fe.value)
	return fe.field.NewElement(result)
}

// Mul performs field multiplication
func (fe *FieldElement) Mul(other *FieldElement) *FieldElement {
	fe.mustMatch(other, "multiply")
	if fe.field.native {
		x, y := fe.toFr(), other.toFr()
		var z fr.Element
		z.Mul(&x, &y)
		return fe.field.fromFr(&z)
	}
	result := new(big.Int).Mul(fe.value, other.value)
	return fe.field.NewElement(result)
}

// Square computes the square of the field element
func (fe *FieldElement) Square() *FieldElement {
	return fe.Mul(fe)
}

// Exp performs field exponentiation
func (fe *FieldElement) Exp(exponent *big.Int) *FieldElement {
	if fe.field.native {
		var z fr.Element
		z.Exp(fe.toFr(), exponent)
		return fe.field.fromFr(&z)
	}
	result := new(big.Int).Exp(fe.value, exponent, fe.field.modulus)
	return fe.field.NewElement(result)
}

// Inv computes the multiplicative inverse
func (fe *FieldElement) Inv() (*FieldElement, error) {
	if fe.IsZero() {
		return nil, fmt.Errorf("cannot compute inverse of zero")
	}
	if fe.field.native {
		x := fe.toFr()
		var z fr.Element
		z.Inverse(&x)
		return fe.field.fromFr(&z), nil
	}
	inv := new(big.Int).ModInverse(fe.value, fe.field.modulus)
	if inv == nil {
		return nil, fmt.Errorf("inverse does not exist")
	}
	return fe.field.NewElement(inv), nil
}

// Div performs field division (multiplication by inverse)
func (fe *FieldElement) Div(other *FieldElement) (*FieldElement, error) {
	if !fe.field.Equals(other.field) {
		return nil, fmt.Errorf("cannot divide elements from different fields")
	}
	inv, err := other.Inv()
	if err != nil {
		return nil, fmt.Errorf("division failed: %w", err)
	}
	return fe.Mul(inv), nil
}

// Sqrt returns a square root of the field element.
// Base field roots come from fr.Element; other fields use big.Int.ModSqrt.
func (fe *FieldElement) Sqrt() (*FieldElement, error) {
	if fe.field.native {
		x := fe.toFr()
		var root fr.Element
		if root.Sqrt(&x) == nil {
			return nil, fmt.Errorf("field element is not a quadratic residue")
		}
		return fe.field.fromFr(&root), nil
	}
	root := new(big.Int).ModSqrt(fe.value, fe.field.modulus)
	if root == nil {
		return nil, fmt.Errorf("field element is not a quadratic residue")
	}
	return fe.field.NewElement(root), nil
}

// Legendre returns 1 for a nonzero square, -1 for a non-square and 0 for zero
func (fe *FieldElement) Legendre() int {
	if fe.field.native {
		x := fe.toFr()
		return x.Legendre()
	}
	return big.Jacobi(fe.value, fe.field.modulus)
}

// Equal checks if two field elements are equal
func (fe *FieldElement) Equal(other *FieldElement) bool {
	if !fe.field.Equals(other.field) {
		return false
	}
	return fe.value.Cmp(other.value) == 0
}

// Cmp compares the canonical representatives of two elements
func (fe *FieldElement) Cmp(other *FieldElement) int {
	return fe.value.Cmp(other.value)
}

// IsZero checks if the element is zero
func (fe *FieldElement) IsZero() bool {
	return fe.value.Sign() == 0
}

// IsOne checks if the element is one
func (fe *FieldElement) IsOne() bool {
	return fe.value.Cmp(big.NewInt(1)) == 0
}

// String returns the decimal representation of the field element
func (fe *FieldElement) String() string {
	return fe.value.String()
}

// BytesLE returns the canonical 32-byte little-endian encoding
func (fe *FieldElement) BytesLE() []byte {
	out := make([]byte, ElementBytes)
	fe.value.FillBytes(out)
	return reverse(out)
}

// BitsLE returns SizeInBits little-endian bits of the canonical representative
func (fe *FieldElement) BitsLE() []bool {
	n := fe.field.SizeInBits()
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = fe.value.Bit(i) == 1
	}
	return bits
}

func (fe *FieldElement) mustMatch(other *FieldElement, op string) {
	if !fe.field.Equals(other.field) {
		panic(fmt.Sprintf("cannot %s elements from different fields", op))
	}
}

// reverse returns a reversed copy of b
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

var (
	// BaseField is the BLS12-377 scalar field, the base field of the Edwards curve
	BaseField = mustField("base", fr.Modulus())
	// ScalarField is the prime-order subgroup scalar field of the Edwards curve
	ScalarField = mustField("scalar", edwardsOrder())
)

func edwardsOrder() *big.Int {
	curve := twistededwards.GetEdwardsCurve()
	return &curve.Order
}

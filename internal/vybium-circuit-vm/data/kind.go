// Package data provides the literal and value model of the circuit VM.
//
// Literals form a closed union: every concrete type lives in this package and carries an
// unexported marker method, so no other package can add a variant. Code that must handle
// every variant implements Visitor, which fails to compile when a variant is added.
package data

import (
	"fmt"
	"math/big"
)

// Kind identifies a literal variant. The numeric value is the wire tag.
type Kind uint16

const (
	KindAddress Kind = iota
	KindBoolean
	KindField
	KindGroup
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindScalar
	KindString
)

// KindCount is the number of literal kinds
const KindCount = 16

// KindInfo provides metadata about a literal kind
type KindInfo struct {
	Kind     Kind
	Name     string
	BitWidth int // integer width, 0 for non-integers
	Signed   bool
}

// AllKinds returns information about all literal kinds, indexed by wire tag
var AllKinds = [KindCount]KindInfo{
	{KindAddress, "address", 0, false},
	{KindBoolean, "boolean", 0, false},
	{KindField, "field", 0, false},
	{KindGroup, "group", 0, false},
	{KindI8, "i8", 8, true},
	{KindI16, "i16", 16, true},
	{KindI32, "i32", 32, true},
	{KindI64, "i64", 64, true},
	{KindI128, "i128", 128, true},
	{KindU8, "u8", 8, false},
	{KindU16, "u16", 16, false},
	{KindU32, "u32", 32, false},
	{KindU64, "u64", 64, false},
	{KindU128, "u128", 128, false},
	{KindScalar, "scalar", 0, false},
	{KindString, "string", 0, false},
}

// IntegerKinds lists the ten integer kinds, signed first
var IntegerKinds = []Kind{
	KindI8, KindI16, KindI32, KindI64, KindI128,
	KindU8, KindU16, KindU32, KindU64, KindU128,
}

// String returns the type token of the kind
func (k Kind) String() string {
	if k.Valid() {
		return AllKinds[k].Name
	}
	return fmt.Sprintf("unknown(%d)", uint16(k))
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k < KindCount
}

// IsInteger reports whether k is one of the ten integer kinds
func (k Kind) IsInteger() bool {
	return k.Valid() && AllKinds[k].BitWidth > 0
}

// IsSigned reports whether k is a signed integer kind
func (k Kind) IsSigned() bool {
	return k.Valid() && AllKinds[k].Signed
}

// BitWidth returns the width of an integer kind, or 0
func (k Kind) BitWidth() int {
	if !k.Valid() {
		return 0
	}
	return AllKinds[k].BitWidth
}

// Min returns the smallest value of an integer kind
func (k Kind) Min() *big.Int {
	if !k.IsInteger() {
		panic(fmt.Sprintf("%s is not an integer kind", k))
	}
	if !k.IsSigned() {
		return new(big.Int)
	}
	return new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(k.BitWidth()-1)))
}

// Max returns the largest value of an integer kind
func (k Kind) Max() *big.Int {
	if !k.IsInteger() {
		panic(fmt.Sprintf("%s is not an integer kind", k))
	}
	w := k.BitWidth()
	if k.IsSigned() {
		w--
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(w))
	return max.Sub(max, big.NewInt(1))
}

// ParseKind returns the kind named by a type token
func ParseKind(s string) (Kind, error) {
	for _, info := range AllKinds {
		if info.Name == s {
			return info.Kind, nil
		}
	}
	return 0, fmt.Errorf("unknown literal type %q", s)
}

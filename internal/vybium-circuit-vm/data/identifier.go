package data

import (
	"fmt"
	"io"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/core"
)

// MaxIdentifierBytes is the longest identifier that still packs into one base field element
const MaxIdentifierBytes = 31

// Identifier names a composite type or one of its members: [A-Za-z][A-Za-z0-9_]*
type Identifier struct {
	name string
}

// NewIdentifier validates name
func NewIdentifier(name string) (Identifier, error) {
	if name == "" {
		return Identifier{}, fmt.Errorf("identifier is empty")
	}
	if len(name) > MaxIdentifierBytes {
		return Identifier{}, fmt.Errorf("identifier %q exceeds %d bytes", name, MaxIdentifierBytes)
	}
	if !isLetter(name[0]) {
		return Identifier{}, fmt.Errorf("identifier %q must start with a letter", name)
	}
	for i := 1; i < len(name); i++ {
		if c := name[i]; !isLetter(c) && !isDigit(c) && c != '_' {
			return Identifier{}, fmt.Errorf("identifier %q contains invalid character %q", name, c)
		}
	}
	return Identifier{name: name}, nil
}

// MustIdentifier is NewIdentifier for names known to be valid
func MustIdentifier(name string) Identifier {
	id, err := NewIdentifier(name)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identifier) String() string { return id.name }

// IsZero reports whether id is the unset identifier
func (id Identifier) IsZero() bool { return id.name == "" }

// ToField packs the identifier bytes little-endian into a base field element
func (id Identifier) ToField() *core.FieldElement {
	bits := core.UnpackBitsLE([]byte(id.name), 8*len(id.name))
	return core.BaseField.FromBitsLE(bits)
}

// IdentifierFromField is the inverse of ToField
func IdentifierFromField(fe *core.FieldElement) (Identifier, error) {
	if !fe.Field().Equals(core.BaseField) {
		return Identifier{}, fmt.Errorf("identifier requires a base field element")
	}
	if fe.Big().BitLen() > 8*MaxIdentifierBytes {
		return Identifier{}, fmt.Errorf("field element exceeds identifier capacity")
	}
	raw := fe.BytesLE()
	n := len(raw)
	for n > 0 && raw[n-1] == 0 {
		n--
	}
	return NewIdentifier(string(raw[:n]))
}

// AppendIdentifier appends the binary form of id: a u8 length, then the low bytes of its field packing
func AppendIdentifier(buf []byte, id Identifier) []byte {
	n := len(id.name)
	buf = append(buf, byte(n))
	return append(buf, id.ToField().BytesLE()[:n]...)
}

// ReadIdentifier reads the binary form written by AppendIdentifier
func ReadIdentifier(r io.Reader) (Identifier, error) {
	var n [1]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return Identifier{}, &DecodeError{What: "identifier", Cause: err}
	}
	if n[0] > MaxIdentifierBytes {
		return Identifier{}, &DecodeError{What: "identifier", Cause: fmt.Errorf("length %d exceeds %d", n[0], MaxIdentifierBytes)}
	}
	raw := make([]byte, core.ElementBytes)
	if _, err := io.ReadFull(r, raw[:n[0]]); err != nil {
		return Identifier{}, &DecodeError{What: "identifier", Cause: err}
	}
	fe, err := core.BaseField.FromBytesLE(raw)
	if err != nil {
		return Identifier{}, &DecodeError{What: "identifier", Cause: err}
	}
	id, err := IdentifierFromField(fe)
	if err != nil {
		return Identifier{}, &DecodeError{What: "identifier", Cause: err}
	}
	// zero bytes would be trimmed by the field packing
	if len(id.name) != int(n[0]) {
		return Identifier{}, &DecodeError{What: "identifier", Cause: fmt.Errorf("identifier contains a zero byte")}
	}
	return id, nil
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

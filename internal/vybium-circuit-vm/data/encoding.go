package data

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"unicode/utf8"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/core"
)

// WriteLiteral writes the binary form of lit: a u16 little-endian kind tag followed by its payload
func WriteLiteral(w io.Writer, lit Literal) error {
	payload, err := Visit[[]byte](lit, encoder{})
	if err != nil {
		return err
	}
	var tag [2]byte
	binary.LittleEndian.PutUint16(tag[:], uint16(lit.Kind()))
	if _, err := w.Write(tag[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// MarshalLiteral returns the binary form of lit
func MarshalLiteral(lit Literal) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLiteral(&buf, lit); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadLiteral reads one literal. Only canonical encodings are accepted,
// so a decoded literal always re-encodes to the bytes it was read from.
func ReadLiteral(r io.Reader) (Literal, error) {
	var tag uint16
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return nil, decodeErr("literal tag", err)
	}
	kind := Kind(tag)
	if !kind.Valid() {
		return nil, decodeErr("literal tag", fmt.Errorf("unknown literal kind %d", tag))
	}

	if kind.IsInteger() {
		buf, err := readN(r, kind.BitWidth()/8, kind.String())
		if err != nil {
			return nil, err
		}
		u := new(big.Int).SetBytes(reverseBytes(buf))
		return integerFromUnsigned(kind, u), nil
	}

	switch kind {
	case KindBoolean:
		buf, err := readN(r, 1, "boolean")
		if err != nil {
			return nil, err
		}
		switch buf[0] {
		case 0:
			return Boolean(false), nil
		case 1:
			return Boolean(true), nil
		}
		return nil, decodeErr("boolean", fmt.Errorf("non-canonical byte 0x%02x", buf[0]))

	case KindField, KindScalar, KindGroup, KindAddress:
		buf, err := readN(r, core.ElementBytes, kind.String())
		if err != nil {
			return nil, err
		}
		f := core.BaseField
		if kind == KindScalar {
			f = core.ScalarField
		}
		fe, err := f.FromBytesLE(buf)
		if err != nil {
			return nil, decodeErr(kind.String(), err)
		}
		switch kind {
		case KindField:
			return Field{v: fe}, nil
		case KindScalar:
			return Scalar{v: fe}, nil
		case KindGroup:
			g, err := NewGroup(fe)
			if err != nil {
				return nil, decodeErr("group", err)
			}
			return g, nil
		default:
			a, err := NewAddress(fe)
			if err != nil {
				return nil, decodeErr("address", err)
			}
			return a, nil
		}

	case KindString:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, decodeErr("string length", err)
		}
		if int(n) > MaxStringBytes {
			return nil, decodeErr("string", fmt.Errorf("length %d exceeds %d", n, MaxStringBytes))
		}
		buf, err := readN(r, int(n), "string")
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(buf) {
			return nil, decodeErr("string", errors.New("invalid UTF-8"))
		}
		return String{s: string(buf)}, nil
	}
	return nil, decodeErr("literal", fmt.Errorf("unhandled kind %s", kind))
}

// UnmarshalLiteral decodes exactly one literal from data
func UnmarshalLiteral(data []byte) (Literal, error) {
	r := bytes.NewReader(data)
	lit, err := ReadLiteral(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, decodeErr("literal", fmt.Errorf("%d trailing bytes", r.Len()))
	}
	return lit, nil
}

func readN(r io.Reader, n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, decodeErr(what, err)
	}
	return buf, nil
}

// encoder produces the payload that follows the kind tag
type encoder struct{}

func (encoder) VisitAddress(a Address) ([]byte, error) {
	return a.p.X.BytesLE(), nil
}

func (encoder) VisitBoolean(b Boolean) ([]byte, error) {
	if b {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (encoder) VisitField(f Field) ([]byte, error) {
	return f.v.BytesLE(), nil
}

func (encoder) VisitGroup(g Group) ([]byte, error) {
	return g.p.X.BytesLE(), nil
}

func (encoder) VisitInteger(i Integer) ([]byte, error) {
	buf := make([]byte, i.kind.BitWidth()/8)
	i.Unsigned().FillBytes(buf)
	return reverseBytes(buf), nil
}

func (encoder) VisitScalar(s Scalar) ([]byte, error) {
	return s.v.BytesLE(), nil
}

func (encoder) VisitString(s String) ([]byte, error) {
	out := make([]byte, 2, 2+len(s.s))
	binary.LittleEndian.PutUint16(out, uint16(len(s.s)))
	return append(out, s.s...), nil
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

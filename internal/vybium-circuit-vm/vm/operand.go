package vm

import (
	"fmt"
	"io"
	"strings"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// Mode is the visibility a circuit assigns to a literal.
// Plain evaluation ignores it; it survives parsing, printing and encoding.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeConstant
	ModePublic
	ModePrivate
)

var modeNames = [...]string{"", "constant", "public", "private"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return int(m) < len(modeNames)
}

// parseModeSuffix consumes .constant, .public or .private at the start of s
func parseModeSuffix(s string) (Mode, string) {
	for m := ModeConstant; m <= ModePrivate; m++ {
		suffix := "." + m.String()
		if strings.HasPrefix(s, suffix) {
			rest := s[len(suffix):]
			if rest == "" || !isIdentChar(rest[0]) {
				return m, rest
			}
		}
	}
	return ModeNone, s
}

// Operand is an immediate literal or a register reference
type Operand struct {
	lit  data.Literal
	mode Mode
	reg  Register
}

// LiteralOperand returns an immediate operand
func LiteralOperand(lit data.Literal, mode Mode) Operand {
	return Operand{lit: lit, mode: mode}
}

// RegisterOperand returns a register operand
func RegisterOperand(r Register) Operand {
	return Operand{reg: r}
}

// IsRegister reports whether o refers to a register
func (o Operand) IsRegister() bool { return o.lit == nil }

// Register returns the referenced register
func (o Operand) Register() Register { return o.reg }

// Literal returns the immediate literal, or nil for register operands
func (o Operand) Literal() data.Literal { return o.lit }

// Mode returns the visibility of an immediate literal
func (o Operand) Mode() Mode { return o.mode }

func (o Operand) String() string {
	if o.IsRegister() {
		return o.reg.String()
	}
	if o.mode == ModeNone {
		return o.lit.String()
	}
	return o.lit.String() + "." + o.mode.String()
}

// Equal compares operands structurally
func (o Operand) Equal(other Operand) bool {
	if o.IsRegister() || other.IsRegister() {
		return o.IsRegister() && other.IsRegister() && o.reg == other.reg
	}
	return o.mode == other.mode && o.lit.Equal(other.lit)
}

// Resolve returns the operand's value
func (o Operand) Resolve(rs *Registers) (data.Value, error) {
	if !o.IsRegister() {
		return o.lit, nil
	}
	return rs.Load(o.reg)
}

// ResolveLiteral resolves o and rejects composites, naming them in the halt
func (o Operand) ResolveLiteral(rs *Registers, opcode Opcode) (data.Literal, error) {
	v, err := o.Resolve(rs)
	if err != nil {
		if h, ok := AsHalt(err); ok && h.Opcode == "" {
			h.Opcode = opcode.String()
		}
		return nil, err
	}
	switch v := v.(type) {
	case data.Literal:
		return v, nil
	case *data.Composite:
		return nil, Halt(opcode.String(), "%s is not a literal", v.Name)
	}
	return nil, Halt(opcode.String(), "unexpected value %T", v)
}

// parseOperandPrefix parses a register or a literal with an optional mode suffix
func parseOperandPrefix(s string) (Operand, string, error) {
	if len(s) >= 2 && s[0] == 'r' && isDigit(s[1]) {
		reg, rest, err := parseRegisterPrefix(s)
		if err != nil {
			return Operand{}, s, err
		}
		return RegisterOperand(reg), rest, nil
	}
	lit, rest, err := data.ParseLiteralPrefix(s)
	if err != nil {
		return Operand{}, s, err
	}
	mode, rest := parseModeSuffix(rest)
	return LiteralOperand(lit, mode), rest, nil
}

const (
	operandLiteral  byte = 0
	operandRegister byte = 1
)

func writeOperand(w io.Writer, o Operand) error {
	if o.IsRegister() {
		if _, err := w.Write([]byte{operandRegister}); err != nil {
			return err
		}
		return writeRegister(w, o.reg)
	}
	if _, err := w.Write([]byte{operandLiteral, byte(o.mode)}); err != nil {
		return err
	}
	return data.WriteLiteral(w, o.lit)
}

func readOperand(r io.Reader) (Operand, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return Operand{}, &data.DecodeError{What: "operand tag", Cause: err}
	}
	switch tag[0] {
	case operandRegister:
		reg, err := readRegister(r)
		if err != nil {
			return Operand{}, err
		}
		return RegisterOperand(reg), nil
	case operandLiteral:
		var mode [1]byte
		if _, err := io.ReadFull(r, mode[:]); err != nil {
			return Operand{}, &data.DecodeError{What: "operand mode", Cause: err}
		}
		if !Mode(mode[0]).Valid() {
			return Operand{}, &data.DecodeError{What: "operand mode", Cause: fmt.Errorf("unknown mode %d", mode[0])}
		}
		lit, err := data.ReadLiteral(r)
		if err != nil {
			return Operand{}, err
		}
		return LiteralOperand(lit, Mode(mode[0])), nil
	}
	return Operand{}, &data.DecodeError{What: "operand tag", Cause: fmt.Errorf("unknown tag %d", tag[0])}
}

func isIdentChar(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || isDigit(c) || c == '_'
}

package vm

import (
	"fmt"
	"strings"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// Instruction is one operation of a program: it reads its operands,
// computes a literal and assigns it to its destination register.
//
// The set of instruction types is closed; New is the single constructor
// used by the parser, the decoder and callers building programs directly.
type Instruction interface {
	Opcode() Opcode
	Operands() []Operand
	Destination() Register
	// Evaluate performs exactly one register assignment, or returns a *HaltError
	Evaluate(env Environment, rs *Registers) error
	String() string
	isInstruction()
}

// New builds the instruction for op, checking arity and destination
func New(op Opcode, operands []Operand, dest Register) (Instruction, error) {
	info, err := op.Info()
	if err != nil {
		return nil, err
	}
	if len(operands) != info.Arity {
		return nil, fmt.Errorf("'%s' takes %d operands, got %d", info.Name, info.Arity, len(operands))
	}
	if !dest.IsPlain() {
		return nil, fmt.Errorf("'%s' destination %s must be a plain register", info.Name, dest)
	}
	base := operation{op: op, operands: append([]Operand(nil), operands...), dest: dest}
	switch info.Family {
	case FamilyArithmetic:
		return &Arithmetic{base}, nil
	case FamilyCompare:
		return &Compare{base}, nil
	case FamilyHashToField:
		return &HashToField{base}, nil
	case FamilyHashToScalar:
		return &HashToScalar{operation: base, rate: info.Rate}, nil
	}
	return nil, fmt.Errorf("opcode %s has no instruction family", op)
}

// MustNew is New for instructions known to be well formed
func MustNew(op Opcode, dest Register, operands ...Operand) Instruction {
	instr, err := New(op, operands, dest)
	if err != nil {
		panic(err)
	}
	return instr
}

// Equal compares two instructions structurally
func Equal(a, b Instruction) bool {
	if a.Opcode() != b.Opcode() || a.Destination() != b.Destination() {
		return false
	}
	ao, bo := a.Operands(), b.Operands()
	if len(ao) != len(bo) {
		return false
	}
	for i := range ao {
		if !ao[i].Equal(bo[i]) {
			return false
		}
	}
	return true
}

// operation holds the parts shared by every instruction
type operation struct {
	op       Opcode
	operands []Operand
	dest     Register
}

func (o *operation) Opcode() Opcode { return o.op }

func (o *operation) Operands() []Operand {
	return append([]Operand(nil), o.operands...)
}

func (o *operation) Destination() Register { return o.dest }

func (o *operation) String() string {
	var sb strings.Builder
	sb.WriteString(o.op.String())
	for _, operand := range o.operands {
		sb.WriteByte(' ')
		sb.WriteString(operand.String())
	}
	sb.WriteString(" into ")
	sb.WriteString(o.dest.String())
	sb.WriteByte(';')
	return sb.String()
}

func (o *operation) isInstruction() {}

// literals resolves every operand to a literal
func (o *operation) literals(rs *Registers) ([]data.Literal, error) {
	out := make([]data.Literal, len(o.operands))
	for i, operand := range o.operands {
		lit, err := operand.ResolveLiteral(rs, o.op)
		if err != nil {
			return nil, err
		}
		out[i] = lit
	}
	return out, nil
}

// assign writes the result, attributing register halts to this opcode
func (o *operation) assign(rs *Registers, v data.Value) error {
	if err := rs.Assign(o.dest, v); err != nil {
		if h, ok := AsHalt(err); ok && h.Opcode == "" {
			h.Opcode = o.op.String()
		}
		return err
	}
	return nil
}

// unsupported is the halt for any operand combination an instruction does not define
func (o *operation) unsupported(lits ...data.Literal) *HaltError {
	kinds := make([]string, len(lits))
	for i, lit := range lits {
		kinds[i] = lit.Kind().String()
	}
	return Halt(o.op.String(), "Invalid '%s' instruction: unsupported operands (%s)", o.op, strings.Join(kinds, ", "))
}

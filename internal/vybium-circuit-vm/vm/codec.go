package vm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// EncodeInstruction writes a u16 little-endian opcode, the operands in order, then the destination
func EncodeInstruction(w io.Writer, instr Instruction) error {
	var op [2]byte
	binary.LittleEndian.PutUint16(op[:], uint16(instr.Opcode()))
	if _, err := w.Write(op[:]); err != nil {
		return err
	}
	for _, operand := range instr.Operands() {
		if err := writeOperand(w, operand); err != nil {
			return err
		}
	}
	return writeRegister(w, instr.Destination())
}

// DecodeInstruction reads one instruction. The arity comes from the opcode table.
func DecodeInstruction(r io.Reader) (Instruction, error) {
	var raw uint16
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, &data.DecodeError{What: "opcode", Cause: err}
	}
	op := Opcode(raw)
	info, err := op.Info()
	if err != nil {
		return nil, &data.DecodeError{What: "opcode", Cause: err}
	}

	operands := make([]Operand, info.Arity)
	for i := range operands {
		operands[i], err = readOperand(r)
		if err != nil {
			return nil, fmt.Errorf("'%s' operand %d: %w", info.Name, i, err)
		}
	}
	dest, err := readRegister(r)
	if err != nil {
		return nil, fmt.Errorf("'%s' destination: %w", info.Name, err)
	}
	instr, err := New(op, operands, dest)
	if err != nil {
		return nil, &data.DecodeError{What: "instruction", Cause: err}
	}
	return instr, nil
}

// MarshalInstruction returns the binary form of instr
func MarshalInstruction(instr Instruction) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeInstruction(&buf, instr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalInstruction decodes exactly one instruction from b
func UnmarshalInstruction(b []byte) (Instruction, error) {
	r := bytes.NewReader(b)
	instr, err := DecodeInstruction(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, &data.DecodeError{What: "instruction", Cause: fmt.Errorf("%d trailing bytes", r.Len())}
	}
	return instr, nil
}

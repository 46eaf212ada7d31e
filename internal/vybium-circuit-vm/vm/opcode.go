package vm

import (
	"fmt"
)

// Opcode identifies an instruction kind. The numeric value is the wire tag.
type Opcode uint16

// Circuit VM Instruction Set
const (
	// ========== Arithmetic ==========

	// Add adds two integers (halting on overflow), fields or scalars
	Add Opcode = 0

	// AddWrapped adds two integers of the same kind modulo 2^W
	AddWrapped Opcode = 1

	// SubWrapped subtracts two integers of the same kind modulo 2^W
	SubWrapped Opcode = 2

	// MulWrapped multiplies two integers of the same kind modulo 2^W
	MulWrapped Opcode = 3

	// ========== Comparison ==========

	// Eq checks two literals of the same kind for equality
	Eq Opcode = 4

	// Neq checks two literals of the same kind for inequality
	Neq Opcode = 5

	// ========== Hash to field ==========
	// The opcode token is the hash domain

	HashPed64   Opcode = 6
	HashPed128  Opcode = 7
	HashPed256  Opcode = 8
	HashPed512  Opcode = 9
	HashPed1024 Opcode = 10

	// ========== Hash to scalar ==========
	// Poseidon sponges of rate 2, 4 and 8

	HashPsd2 Opcode = 11
	HashPsd4 Opcode = 12
	HashPsd8 Opcode = 13
)

// OpcodeCount is the total number of opcodes
const OpcodeCount = 14

// Family groups opcodes that share an instruction type
type Family uint8

const (
	FamilyArithmetic Family = iota
	FamilyCompare
	FamilyHashToField
	FamilyHashToScalar
)

// OpcodeInfo provides metadata about an opcode
type OpcodeInfo struct {
	Opcode      Opcode
	Name        string
	Description string
	Family      Family
	Arity       int // number of source operands
	Rate        int // sponge rate, hash-to-scalar only
}

// AllOpcodes returns information about all opcodes
var AllOpcodes = map[Opcode]OpcodeInfo{
	// Arithmetic
	Add:        {Add, "add", "Checked addition", FamilyArithmetic, 2, 0},
	AddWrapped: {AddWrapped, "add.w", "Wrapping integer addition", FamilyArithmetic, 2, 0},
	SubWrapped: {SubWrapped, "sub.w", "Wrapping integer subtraction", FamilyArithmetic, 2, 0},
	MulWrapped: {MulWrapped, "mul.w", "Wrapping integer multiplication", FamilyArithmetic, 2, 0},

	// Comparison
	Eq:  {Eq, "eq", "Equality", FamilyCompare, 2, 0},
	Neq: {Neq, "neq", "Inequality", FamilyCompare, 2, 0},

	// Hash to field
	HashPed64:   {HashPed64, "hash.ped64", "Hash literal bits to a field element", FamilyHashToField, 1, 0},
	HashPed128:  {HashPed128, "hash.ped128", "Hash literal bits to a field element", FamilyHashToField, 1, 0},
	HashPed256:  {HashPed256, "hash.ped256", "Hash literal bits to a field element", FamilyHashToField, 1, 0},
	HashPed512:  {HashPed512, "hash.ped512", "Hash literal bits to a field element", FamilyHashToField, 1, 0},
	HashPed1024: {HashPed1024, "hash.ped1024", "Hash literal bits to a field element", FamilyHashToField, 1, 0},

	// Hash to scalar
	HashPsd2: {HashPsd2, "hash.psd2", "Poseidon rate-2 hash to a scalar", FamilyHashToScalar, 1, 2},
	HashPsd4: {HashPsd4, "hash.psd4", "Poseidon rate-4 hash to a scalar", FamilyHashToScalar, 1, 4},
	HashPsd8: {HashPsd8, "hash.psd8", "Poseidon rate-8 hash to a scalar", FamilyHashToScalar, 1, 8},
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(AllOpcodes))
	for op, info := range AllOpcodes {
		m[info.Name] = op
	}
	return m
}()

// String returns the token of the opcode
func (op Opcode) String() string {
	if info, ok := AllOpcodes[op]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown(%d)", uint16(op))
}

// Info returns metadata about the opcode
func (op Opcode) Info() (OpcodeInfo, error) {
	info, ok := AllOpcodes[op]
	if !ok {
		return OpcodeInfo{}, fmt.Errorf("unknown opcode: %d", uint16(op))
	}
	return info, nil
}

// Arity returns the number of source operands
func (op Opcode) Arity() int {
	info, err := op.Info()
	if err != nil {
		return 0
	}
	return info.Arity
}

// ParseOpcode returns the opcode with the given token
func ParseOpcode(token string) (Opcode, error) {
	op, ok := opcodesByName[token]
	if !ok {
		return 0, fmt.Errorf("unknown opcode %q", token)
	}
	return op, nil
}

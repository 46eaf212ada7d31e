package vm

import (
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// HashToField hashes the bits of any literal to a field element.
// The opcode token is the domain separator, so each hash.ped* opcode is an independent function.
type HashToField struct {
	operation
}

func (h *HashToField) Evaluate(env Environment, rs *Registers) error {
	lits, err := h.literals(rs)
	if err != nil {
		return err
	}
	out, err := env.HashToField(h.op.String(), data.ToBits(lits[0]))
	if err != nil {
		return Halt(h.op.String(), "hash failed: %v", err)
	}
	result, err := data.NewField(out)
	if err != nil {
		return Halt(h.op.String(), "%v", err)
	}
	return h.assign(rs, result)
}

// HashToScalar absorbs the field decomposition of a field, integer or scalar
// into a Poseidon sponge of fixed rate and returns a scalar.
type HashToScalar struct {
	operation
	rate int
}

// Rate returns the sponge rate of the instruction
func (h *HashToScalar) Rate() int { return h.rate }

func (h *HashToScalar) Evaluate(env Environment, rs *Registers) error {
	lits, err := h.literals(rs)
	if err != nil {
		return err
	}
	// only fields, integers and scalars decompose into field elements
	fields, err := data.ToFields(lits[0])
	if err != nil {
		return h.unsupported(lits[0])
	}
	out, err := env.HashToScalar(fields, h.rate)
	if err != nil {
		return Halt(h.op.String(), "hash failed: %v", err)
	}
	result, err := data.NewScalar(out)
	if err != nil {
		return Halt(h.op.String(), "%v", err)
	}
	return h.assign(rs, result)
}

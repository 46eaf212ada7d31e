package vybiumcircuitvm

import (
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/store"
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/utils"
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/vm"
)

// Value is a literal or a composite
type Value = data.Value

// Literal is one of the primitive values
type Literal = data.Literal

// Composite is a named record of literal members
type Composite = data.Composite

// Program is a parsed or decoded program
type Program = vm.Program

// Instruction is a single evaluated operation
type Instruction = vm.Instruction

// Digest identifies a program by its canonical binary form
type Digest = vm.Digest

// StoreEntry describes a stored program
type StoreEntry = store.Entry

// Config represents configuration for execution and storage
type Config = utils.Config

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// ParseValue parses the text form of a literal or composite value
func ParseValue(s string) (Value, error) {
	v, err := data.ParseValue(s)
	if err != nil {
		return nil, newError(ErrParse, "invalid value", err)
	}
	return v, nil
}

// ParseValues parses each string with ParseValue
func ParseValues(ss ...string) ([]Value, error) {
	out := make([]Value, len(ss))
	for i, s := range ss {
		v, err := ParseValue(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// MustParseValues is ParseValues for constant inputs; it panics on error
func MustParseValues(ss ...string) []Value {
	out, err := ParseValues(ss...)
	if err != nil {
		panic(err)
	}
	return out
}

// ParseDigest parses the hex form of a digest
func ParseDigest(s string) (Digest, error) {
	d, err := vm.ParseDigest(s)
	if err != nil {
		return d, newError(ErrParse, "invalid digest", err)
	}
	return d, nil
}

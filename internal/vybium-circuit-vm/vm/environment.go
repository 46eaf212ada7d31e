package vm

import (
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/core"
)

// Environment supplies the cryptographic primitives instructions delegate to.
// Instruction semantics do not depend on which environment is used.
type Environment interface {
	// HashToField hashes little-endian bits into a base field element under domain
	HashToField(domain string, bits []bool) (*core.FieldElement, error)
	// HashToScalar absorbs base field elements into a sponge of the given rate
	HashToScalar(inputs []*core.FieldElement, rate int) (*core.FieldElement, error)
}

// Console evaluates instructions on plain values
type Console struct {
	poseidon *core.PoseidonCache
}

// NewConsole creates a Console caching up to cacheSize Poseidon instances
func NewConsole(cacheSize int) (*Console, error) {
	cache, err := core.NewPoseidonCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Console{poseidon: cache}, nil
}

func (c *Console) HashToField(domain string, bits []bool) (*core.FieldElement, error) {
	return core.HashToField(domain, bits), nil
}

func (c *Console) HashToScalar(inputs []*core.FieldElement, rate int) (*core.FieldElement, error) {
	return core.HashToScalar(c.poseidon, inputs, rate)
}

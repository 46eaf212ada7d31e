package core

import (
	"encoding/binary"
	"math/big"

	"lukechampine.com/blake3"
)

// hashToFieldContext is the BLAKE3 key-derivation context for HashToField keys
const hashToFieldContext = "vybium-circuit-vm 2022-06 hash-to-field"

// HashToField hashes little-endian bits into a BaseField element under a domain separator.
//
// The key is derived from the domain with BLAKE3's key derivation mode, so distinct
// domains give independent functions. The bit count is hashed before the packed bits
// so that inputs which differ only by trailing zero bits do not collide. The 512-bit
// output is reduced modulo p, leaving a negligible bias.
func HashToField(domain string, bits []bool) *FieldElement {
	var key [32]byte
	blake3.DeriveKey(key[:], hashToFieldContext, []byte(domain))

	h := blake3.New(64, key[:])
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(bits)))
	h.Write(length[:])
	h.Write(PackBitsLE(bits))

	sum := h.Sum(nil)
	return BaseField.NewElement(new(big.Int).SetBytes(reverse(sum)))
}

// HashToScalar absorbs inputs into the Poseidon sponge of the given rate
func HashToScalar(cache *PoseidonCache, inputs []*FieldElement, rate int) (*FieldElement, error) {
	p, err := cache.Get(rate)
	if err != nil {
		return nil, err
	}
	return p.HashToScalar(inputs), nil
}

// PackBitsLE packs little-endian bits into bytes, bit i landing in byte i/8 at position i%8
func PackBitsLE(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

// UnpackBitsLE is the inverse of PackBitsLE for n bits
func UnpackBitsLE(data []byte, n int) []bool {
	bits := make([]bool, n)
	for i := 0; i < n && i/8 < len(data); i++ {
		bits[i] = data[i/8]>>(i%8)&1 == 1
	}
	return bits
}

package data

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/core"
)

// AddressPrefix is the bech32m human-readable part of an address
const AddressPrefix = "aleo"

// encodeAddress writes the 32-byte little-endian x-coordinate as bech32m
func encodeAddress(x *core.FieldElement) (string, error) {
	conv, err := bech32.ConvertBits(x.BytesLE(), 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.EncodeM(AddressPrefix, conv)
}

// ParseAddress decodes a bech32m address and checks the point is on the curve
func ParseAddress(s string) (Address, error) {
	hrp, data, version, err := bech32.DecodeGeneric(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if hrp != AddressPrefix {
		return Address{}, fmt.Errorf("address prefix is %q, want %q", hrp, AddressPrefix)
	}
	if version != bech32.VersionM {
		return Address{}, fmt.Errorf("address %q is not bech32m", s)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	x, err := core.BaseField.FromBytesLE(raw)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return NewAddress(x)
}

package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldArithmetic(t *testing.T) {
	t.Run("AddWrapsAtModulus", func(t *testing.T) {
		minusOne := BaseField.NewElementFromInt64(-1)
		require.True(t, minusOne.Add(BaseField.One()).IsZero())
	})

	t.Run("Inverse", func(t *testing.T) {
		x := BaseField.NewElementFromUint64(12345)
		inv, err := x.Inv()
		require.NoError(t, err)
		assert.True(t, x.Mul(inv).IsOne())

		_, err = BaseField.Zero().Inv()
		assert.Error(t, err)
	})

	t.Run("Sqrt", func(t *testing.T) {
		for _, f := range []*Field{BaseField, ScalarField} {
			r, err := f.RandomElement()
			require.NoError(t, err)
			sq := r.Square()
			root, err := sq.Sqrt()
			require.NoError(t, err)
			assert.True(t, root.Square().Equal(sq), "%s field: root^2 = %v, want %v", f.Name(), root.Square(), sq)
		}
	})

	t.Run("NativeAgreesWithBigInt", func(t *testing.T) {
		generic := &Field{name: "generic", modulus: BaseField.Modulus()}
		for i := 0; i < 8; i++ {
			x, err := BaseField.RandomElement()
			require.NoError(t, err)
			y, err := BaseField.RandomElement()
			require.NoError(t, err)
			gx, gy := generic.NewElement(x.Big()), generic.NewElement(y.Big())

			assert.Equal(t, 0, x.Mul(y).Big().Cmp(gx.Mul(gy).Big()))
			assert.Equal(t, 0, x.Exp(big.NewInt(17)).Big().Cmp(gx.Exp(big.NewInt(17)).Big()))
			inv, err := x.Inv()
			require.NoError(t, err)
			ginv, err := gx.Inv()
			require.NoError(t, err)
			assert.Equal(t, 0, inv.Big().Cmp(ginv.Big()))
			assert.Equal(t, gx.Legendre(), x.Legendre())
		}
	})

	t.Run("NonResidue", func(t *testing.T) {
		for _, f := range []*Field{BaseField, ScalarField} {
			var nonResidue *FieldElement
			for v := int64(2); nonResidue == nil; v++ {
				if x := f.NewElementFromInt64(v); x.Legendre() == -1 {
					nonResidue = x
				}
			}
			_, err := nonResidue.Sqrt()
			assert.Error(t, err, "%s field", f.Name())
		}
	})

	t.Run("DifferentFieldsNotEqual", func(t *testing.T) {
		assert.False(t, BaseField.One().Equal(ScalarField.One()))
	})
}

func TestFieldEncoding(t *testing.T) {
	t.Run("BytesRoundTrip", func(t *testing.T) {
		x, err := BaseField.RandomElement()
		require.NoError(t, err)
		data := x.BytesLE()
		require.Len(t, data, ElementBytes)
		y, err := BaseField.FromBytesLE(data)
		require.NoError(t, err)
		assert.True(t, x.Equal(y))
	})

	t.Run("LittleEndian", func(t *testing.T) {
		data := BaseField.NewElementFromUint64(0x0102).BytesLE()
		assert.Equal(t, byte(0x02), data[0])
		assert.Equal(t, byte(0x01), data[1])
	})

	t.Run("RejectsNonCanonical", func(t *testing.T) {
		m := BaseField.Modulus()
		buf := make([]byte, ElementBytes)
		m.FillBytes(buf)
		_, err := BaseField.FromBytesLE(reverse(buf))
		assert.Error(t, err)
	})

	t.Run("BitsRoundTrip", func(t *testing.T) {
		x := ScalarField.NewElementFromUint64(0xdeadbeef)
		bits := x.BitsLE()
		assert.Len(t, bits, 251)
		assert.True(t, x.Equal(ScalarField.FromBitsLE(bits)))
	})
}

func TestSizes(t *testing.T) {
	assert.Equal(t, 253, BaseField.SizeInBits())
	assert.Equal(t, 252, BaseField.SizeInDataBits())
	assert.Equal(t, 251, ScalarField.SizeInBits())
	assert.Equal(t, 250, ScalarField.SizeInDataBits())
}

func TestCurveParameters(t *testing.T) {
	assert.Equal(t, "8444461749428370424248824938781546531375899335154063827935233455917409239041", BaseField.Modulus().String())
	assert.Equal(t, "2111115437357092606062206234695386632838870926408408195193685246394721360383", ScalarField.Modulus().String())
	assert.True(t, EdwardsD.Equal(BaseField.NewElementFromInt64(3021)))
	assert.True(t, BaseField.native)
	assert.False(t, ScalarField.native)
}

func TestGroup(t *testing.T) {
	t.Run("IdentityFromZero", func(t *testing.T) {
		p, err := RecoverPoint(BaseField.Zero())
		require.NoError(t, err)
		assert.True(t, p.IsIdentity())
		assert.True(t, p.Equal(Identity()))
		assert.True(t, p.IsOnCurve())
	})

	t.Run("RecoveredPointsAreOnCurve", func(t *testing.T) {
		found := 0
		for x := int64(1); x < 40 && found < 3; x++ {
			p, err := RecoverPoint(BaseField.NewElementFromInt64(x))
			if err != nil {
				continue
			}
			found++
			assert.True(t, p.IsOnCurve(), "x = %d", x)
			half := new(big.Int).Rsh(BaseField.Modulus(), 1)
			assert.True(t, p.Y.Big().Cmp(half) <= 0, "y must be the canonical root")

			// the other root gives the same curve point mirrored in y
			mirrored := Point{X: p.X, Y: p.Y.Neg()}
			assert.True(t, mirrored.IsOnCurve())
			assert.False(t, mirrored.Equal(p))
		}
		assert.Greater(t, found, 0)
	})

	t.Run("OffCurve", func(t *testing.T) {
		p := Point{X: BaseField.One(), Y: BaseField.One()}
		assert.False(t, p.IsOnCurve())
	})
}

func TestHashToField(t *testing.T) {
	bits := []bool{true, false, true, true}

	t.Run("Deterministic", func(t *testing.T) {
		assert.True(t, HashToField("hash.ped64", bits).Equal(HashToField("hash.ped64", bits)))
	})

	t.Run("DomainSeparation", func(t *testing.T) {
		assert.False(t, HashToField("hash.ped64", bits).Equal(HashToField("hash.ped128", bits)))
	})

	t.Run("TrailingZerosMatter", func(t *testing.T) {
		assert.False(t, HashToField("d", bits).Equal(HashToField("d", append(bits, false))))
	})
}

func TestPoseidon(t *testing.T) {
	cache, err := NewPoseidonCache(4)
	require.NoError(t, err)

	inputs := []*FieldElement{BaseField.NewElementFromUint64(1), BaseField.NewElementFromUint64(2)}

	t.Run("CachedInstanceReused", func(t *testing.T) {
		a, err := cache.Get(2)
		require.NoError(t, err)
		b, err := cache.Get(2)
		require.NoError(t, err)
		assert.Same(t, a, b)
	})

	t.Run("HashToScalarIsScalar", func(t *testing.T) {
		s, err := HashToScalar(cache, inputs, 2)
		require.NoError(t, err)
		assert.True(t, s.Field().Equals(ScalarField))
		assert.LessOrEqual(t, s.Big().BitLen(), ScalarField.SizeInDataBits())
	})

	t.Run("RatesAreSeparated", func(t *testing.T) {
		s2, err := HashToScalar(cache, inputs, 2)
		require.NoError(t, err)
		s4, err := HashToScalar(cache, inputs, 4)
		require.NoError(t, err)
		assert.False(t, s2.Equal(s4))
	})

	t.Run("LengthIsAbsorbed", func(t *testing.T) {
		p, err := cache.Get(2)
		require.NoError(t, err)
		padded := append(append([]*FieldElement{}, inputs...), BaseField.Zero())
		assert.False(t, p.Hash(inputs).Equal(p.Hash(padded)))
	})

	t.Run("RejectsZeroRate", func(t *testing.T) {
		_, err := NewPoseidon(0)
		assert.Error(t, err)
	})
}

func TestPackBits(t *testing.T) {
	bits := []bool{true, false, false, false, false, false, false, false, true}
	packed := PackBitsLE(bits)
	assert.Equal(t, []byte{0x01, 0x01}, packed)
	assert.Equal(t, bits, UnpackBitsLE(packed, len(bits)))
}

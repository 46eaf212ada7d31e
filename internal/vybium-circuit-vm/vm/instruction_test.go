package vm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

func TestAddWrappedScenario(t *testing.T) {
	instr := MustNew(AddWrapped, R(2), RegisterOperand(R(0)), RegisterOperand(R(1)))
	out, err := evaluate(t, instr, lit(t, "127i8"), lit(t, "1i8"))
	require.NoError(t, err)
	assert.Equal(t, "-128i8", out.String())
}

func TestNeqScenario(t *testing.T) {
	instr := MustNew(Neq, R(2), RegisterOperand(R(0)), RegisterOperand(R(1)))
	out, err := evaluate(t, instr, lit(t, "1field"), lit(t, "2field"))
	require.NoError(t, err)
	assert.True(t, data.EqualValues(data.Boolean(true), out))
}

func TestCompositeRejected(t *testing.T) {
	for _, instr := range representative() {
		t.Run(instr.Opcode().String(), func(t *testing.T) {
			_, err := evaluate(t, instr, token(), data.MustInteger(data.KindU64, 1))
			h, ok := AsHalt(err)
			require.True(t, ok, "got %v, want a halt", err)
			assert.Equal(t, instr.Opcode().String(), h.Opcode)
			assert.Contains(t, h.Reason, "token is not a literal")
		})
	}
}

func TestWrapAround(t *testing.T) {
	one := big.NewInt(1)
	for _, k := range data.IntegerKinds {
		t.Run(k.String(), func(t *testing.T) {
			max, err := data.NewInteger(k, k.Max())
			require.NoError(t, err)
			min, err := data.NewInteger(k, k.Min())
			require.NoError(t, err)
			oneLit, err := data.NewInteger(k, one)
			require.NoError(t, err)

			add := MustNew(AddWrapped, R(2), RegisterOperand(R(0)), RegisterOperand(R(1)))
			out, err := evaluate(t, add, max, oneLit)
			require.NoError(t, err)
			assert.True(t, data.EqualValues(min, out), "max + 1 = %v, want %v", out, min)

			// underflow: min + (-1) for signed, min + max for unsigned
			var operand data.Literal = max
			if k.IsSigned() {
				operand = data.MustInteger(k, -1)
			}
			out, err = evaluate(t, add, min, operand)
			require.NoError(t, err)
			assert.True(t, data.EqualValues(max, out), "min + %v = %v, want %v", operand, out, max)

			if !k.IsSigned() {
				want, err := data.NewInteger(k, new(big.Int).Sub(k.Max(), one))
				require.NoError(t, err)
				out, err = evaluate(t, add, max, max)
				require.NoError(t, err)
				assert.True(t, data.EqualValues(want, out), "max + max = %v, want %v", out, want)
			}

			sub := MustNew(SubWrapped, R(2), RegisterOperand(R(0)), RegisterOperand(R(1)))
			zero := data.MustInteger(k, 0)
			out, err = evaluate(t, sub, zero, oneLit)
			require.NoError(t, err)
			if k.IsSigned() {
				assert.Equal(t, "-1"+k.String(), out.String())
			} else {
				assert.True(t, data.EqualValues(max, out))
			}
		})
	}
}

func TestVariantMismatch(t *testing.T) {
	add := MustNew(AddWrapped, R(2), RegisterOperand(R(0)), RegisterOperand(R(1)))
	for _, a := range allKinds() {
		for _, b := range allKinds() {
			if a == b && a.IsInteger() {
				continue
			}
			_, err := evaluate(t, add, sampleLiteral(t, a), sampleLiteral(t, b))
			h, ok := AsHalt(err)
			if assert.True(t, ok, "add.w(%s, %s): got %v, want a halt", a, b, err) {
				assert.Equal(t, "add.w", h.Opcode)
				assert.Contains(t, h.Reason, "Invalid 'add.w' instruction")
			}
		}
	}
}

func TestCheckedAdd(t *testing.T) {
	add := MustNew(Add, R(2), RegisterOperand(R(0)), RegisterOperand(R(1)))

	out, err := evaluate(t, add, lit(t, "100u8"), lit(t, "155u8"))
	require.NoError(t, err)
	assert.Equal(t, "255u8", out.String())

	_, err = evaluate(t, add, lit(t, "127i8"), lit(t, "1i8"))
	h, ok := AsHalt(err)
	require.True(t, ok)
	assert.Contains(t, h.Reason, "overflowed")

	out, err = evaluate(t, add, lit(t, "2field"), lit(t, "3field"))
	require.NoError(t, err)
	assert.Equal(t, "5field", out.String())

	out, err = evaluate(t, add, lit(t, "2scalar"), lit(t, "3scalar"))
	require.NoError(t, err)
	assert.Equal(t, "5scalar", out.String())

	_, err = evaluate(t, add, lit(t, "2field"), lit(t, "3scalar"))
	assert.True(t, IsHalt(err))
}

func TestMulWrapped(t *testing.T) {
	mul := MustNew(MulWrapped, R(2), RegisterOperand(R(0)), LiteralOperand(lit(t, "3u8"), ModeConstant))
	out, err := evaluate(t, mul, lit(t, "100u8"))
	require.NoError(t, err)
	assert.Equal(t, "44u8", out.String())
}

func TestCompare(t *testing.T) {
	eq := MustNew(Eq, R(2), RegisterOperand(R(0)), RegisterOperand(R(1)))
	neq := MustNew(Neq, R(2), RegisterOperand(R(0)), RegisterOperand(R(1)))

	for _, k := range allKinds() {
		a := sampleLiteral(t, k)
		out, err := evaluate(t, eq, a, a)
		require.NoError(t, err, k.String())
		assert.True(t, data.EqualValues(data.Boolean(true), out))
		out, err = evaluate(t, neq, a, a)
		require.NoError(t, err, k.String())
		assert.True(t, data.EqualValues(data.Boolean(false), out))
	}

	_, err := evaluate(t, neq, lit(t, "1field"), lit(t, "1scalar"))
	h, ok := AsHalt(err)
	require.True(t, ok)
	assert.Contains(t, h.Reason, "unsupported operands (field, scalar)")
}

func TestHashToField(t *testing.T) {
	input := lit(t, "5u32")
	outputs := map[string]Opcode{}
	for _, op := range []Opcode{HashPed64, HashPed128, HashPed256, HashPed512, HashPed1024} {
		out, err := evaluate(t, MustNew(op, R(1), RegisterOperand(R(0))), input)
		require.NoError(t, err)
		assert.Equal(t, data.KindField, out.(data.Literal).Kind())
		prev, seen := outputs[out.String()]
		assert.False(t, seen, "%s and %s collide", op, prev)
		outputs[out.String()] = op
	}

	t.Run("Deterministic", func(t *testing.T) {
		instr := MustNew(HashPed64, R(1), RegisterOperand(R(0)))
		a, err := evaluate(t, instr, input)
		require.NoError(t, err)
		b, err := evaluate(t, instr, input)
		require.NoError(t, err)
		assert.True(t, data.EqualValues(a, b))
	})

	t.Run("EveryKind", func(t *testing.T) {
		instr := MustNew(HashPed256, R(1), RegisterOperand(R(0)))
		for _, k := range allKinds() {
			_, err := evaluate(t, instr, sampleLiteral(t, k))
			assert.NoError(t, err, k.String())
		}
	})
}

func TestHashToScalar(t *testing.T) {
	psd2 := MustNew(HashPsd2, R(1), RegisterOperand(R(0)))
	psd4 := MustNew(HashPsd4, R(1), RegisterOperand(R(0)))
	assert.Equal(t, 4, psd4.(*HashToScalar).Rate())

	for _, k := range allKinds() {
		_, err := evaluate(t, psd2, sampleLiteral(t, k))
		switch {
		case k == data.KindField, k == data.KindScalar, k.IsInteger():
			assert.NoError(t, err, k.String())
		default:
			h, ok := AsHalt(err)
			if assert.True(t, ok, "%s: got %v, want a halt", k, err) {
				assert.Contains(t, h.Reason, "Invalid 'hash.psd2' instruction")
			}
		}
	}

	a, err := evaluate(t, psd2, lit(t, "7field"))
	require.NoError(t, err)
	assert.Equal(t, data.KindScalar, a.(data.Literal).Kind())
	b, err := evaluate(t, psd4, lit(t, "7field"))
	require.NoError(t, err)
	assert.False(t, data.EqualValues(a, b))
}

func TestNewRejects(t *testing.T) {
	a := RegisterOperand(R(0))
	_, err := New(AddWrapped, []Operand{a}, R(1))
	assert.Error(t, err)
	_, err = New(HashPsd2, []Operand{a, a}, R(1))
	assert.Error(t, err)
	_, err = New(Neq, []Operand{a, a}, Register{Locator: 1, Member: data.MustIdentifier("x")})
	assert.Error(t, err)
	_, err = New(Opcode(99), []Operand{a}, R(1))
	assert.Error(t, err)
}

func TestOpcodeTable(t *testing.T) {
	require.Len(t, AllOpcodes, OpcodeCount)
	for op, info := range AllOpcodes {
		assert.Equal(t, op, info.Opcode)
		parsed, err := ParseOpcode(info.Name)
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}
	_, err := ParseOpcode("add.x")
	assert.Error(t, err)
}

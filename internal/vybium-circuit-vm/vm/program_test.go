package vm

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/testutil"
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/utils"
)

const sampleProgram = `// wrapping counter
input r0 as i8.public;
input r1 as i8.private;
input r2 as token;
add.w r0 r1 into r3; // may wrap
neq r3 0i8 into r4;
hash.psd2 r2.amount into r5;
hash.ped64 "a // not a comment" into r6;
output r3 as i8.private;
output r4 as boolean;
output r5 as scalar;
`

func TestProgramText(t *testing.T) {
	p, err := ParseProgram(sampleProgram)
	require.NoError(t, err)
	require.Len(t, p.Inputs, 3)
	require.Len(t, p.Instructions, 4)
	require.Len(t, p.Outputs, 3)
	assert.Equal(t, CompositeType(data.MustIdentifier("token")), p.Inputs[2].Type)
	assert.Equal(t, `hash.ped64 "a // not a comment" into r6;`, p.Instructions[3].String())

	again, err := ParseProgram(p.String())
	require.NoError(t, err)
	assert.Equal(t, p.String(), again.String())

	for name, text := range map[string]string{
		"InputAfterInstruction":  "add.w r0 r1 into r2;\ninput r0 as i8;",
		"InstructionAfterOutput": "output r0 as i8;\nadd.w r0 r1 into r2;",
		"UnknownMode":            "input r0 as i8.secret;",
		"MemberInput":            "input r0.a as i8;",
		"MissingSemicolon":       "input r0 as i8",
		"CompositeMode":          "input r0 as token.public;",
	} {
		_, err := ParseProgram(text)
		assert.Error(t, err, name)
	}
}

func TestProgramLongLine(t *testing.T) {
	const n = 4000
	var sb strings.Builder
	sb.WriteString("input r0 as field; ")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "neq 1field 2field into r%d; ", i)
	}
	sb.WriteString("output r1 as boolean; // trailing comment\r\n")
	require.Greater(t, sb.Len(), 1<<16)

	p, err := ParseProgram(sb.String())
	require.NoError(t, err)
	assert.Len(t, p.Instructions, n)
	assert.Len(t, p.Outputs, 1)
}

func TestProgramBinary(t *testing.T) {
	p, err := ParseProgram(sampleProgram)
	require.NoError(t, err)

	encoded, err := p.MarshalBinary()
	require.NoError(t, err)
	decoded, err := UnmarshalProgram(encoded, 16)
	require.NoError(t, err)
	assert.Equal(t, p.String(), decoded.String())

	again, err := decoded.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, encoded, again)

	_, err = UnmarshalProgram(encoded, 3)
	var derr *data.DecodeError
	assert.ErrorAs(t, err, &derr)

	_, err = UnmarshalProgram(append([]byte{1, 0}, encoded[2:]...), 16)
	assert.ErrorAs(t, err, &derr)

	// composite type names go through identifier validation
	at := bytes.Index(encoded, []byte("token"))
	require.Positive(t, at)
	corrupt := bytes.Clone(encoded)
	corrupt[at] = '9'
	_, err = UnmarshalProgram(corrupt, 16)
	assert.ErrorAs(t, err, &derr)
}

func TestProgramDigest(t *testing.T) {
	p, err := ParseProgram(sampleProgram)
	require.NoError(t, err)
	d1, err := p.Digest()
	require.NoError(t, err)
	d2, err := p.Digest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	parsed, err := ParseDigest(d1.String())
	require.NoError(t, err)
	assert.Equal(t, d1, parsed)

	other, err := ParseProgram("input r0 as i8;\nadd.w r0 r0 into r1;\noutput r1 as i8;")
	require.NoError(t, err)
	d3, err := other.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)

	_, err = ParseDigest("abcd")
	assert.Error(t, err)
}

func newExecutor(t testing.TB, config *utils.Config) *Executor {
	e, err := NewExecutor(newConsole(t), config)
	require.NoError(t, err)
	return e
}

func TestExecutorRun(t *testing.T) {
	ctx := testutil.Context(t)
	p, err := ParseProgram(sampleProgram)
	require.NoError(t, err)
	e := newExecutor(t, utils.DefaultConfig())

	outs, err := e.Run(ctx, p, []data.Value{lit(t, "127i8"), lit(t, "1i8"), token()})
	require.NoError(t, err)
	require.Len(t, outs, 3)
	assert.Equal(t, "-128i8", outs[0].String())
	assert.Equal(t, "true", outs[1].String())
	assert.Equal(t, data.KindScalar, outs[2].(data.Literal).Kind())

	t.Run("InputMismatch", func(t *testing.T) {
		_, err := e.Run(ctx, p, []data.Value{lit(t, "1u8"), lit(t, "1i8"), token()})
		var ierr *InputError
		require.ErrorAs(t, err, &ierr)
		assert.Equal(t, 0, ierr.Index)

		_, err = e.Run(ctx, p, []data.Value{lit(t, "1i8")})
		assert.ErrorAs(t, err, &ierr)
	})

	t.Run("Halt", func(t *testing.T) {
		bad, err := ParseProgram("input r0 as token;\nadd.w r0 1u8 into r1;")
		require.NoError(t, err)
		_, err = e.Run(ctx, bad, []data.Value{token()})
		h, ok := AsHalt(err)
		require.True(t, ok)
		assert.Equal(t, "add.w", h.Opcode)
		assert.Contains(t, err.Error(), "instruction 0")
	})

	t.Run("DoubleDestination", func(t *testing.T) {
		bad, err := ParseProgram("input r0 as u8;\nadd.w r0 r0 into r1;\nadd.w r0 r0 into r1;")
		require.NoError(t, err)
		_, err = e.Run(ctx, bad, []data.Value{lit(t, "1u8")})
		assert.True(t, IsHalt(err))

		bad, err = ParseProgram("input r0 as u8;\nadd.w r0 r0 into r0;")
		require.NoError(t, err)
		_, err = e.Run(ctx, bad, []data.Value{lit(t, "1u8")})
		assert.True(t, IsHalt(err))
	})

	t.Run("ReadBeforeWrite", func(t *testing.T) {
		bad, err := ParseProgram("add.w r1 r1 into r2;\nadd.w 1u8 1u8 into r1;")
		require.NoError(t, err)
		_, err = e.Run(ctx, bad, nil)
		assert.True(t, IsHalt(err))
	})

	t.Run("InstructionLimit", func(t *testing.T) {
		small := newExecutor(t, utils.DefaultConfig().WithMaxInstructions(2))
		_, err := small.Run(ctx, p, []data.Value{lit(t, "1i8"), lit(t, "1i8"), token()})
		assert.Error(t, err)
		assert.False(t, IsHalt(err))
	})
}

func TestExecutorRunBatch(t *testing.T) {
	ctx := testutil.Context(t)
	p, err := ParseProgram("input r0 as u8;\ninput r1 as u8;\nadd.w r0 r1 into r2;\noutput r2 as u8;")
	require.NoError(t, err)
	e := newExecutor(t, utils.DefaultConfig().WithParallelism(3))

	var inputs [][]data.Value
	for i := 0; i < 10; i++ {
		inputs = append(inputs, []data.Value{data.MustInteger(data.KindU8, 250), data.MustInteger(data.KindU8, i)})
	}
	results, err := e.RunBatch(ctx, p, inputs)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))
	for i, outs := range results {
		want := data.MustInteger(data.KindU8, (250+i)%256)
		assert.True(t, data.EqualValues(want, outs[0]), "run %d: got %v, want %v", i, outs[0], want)
	}

	inputs[4] = []data.Value{data.MustInteger(data.KindI8, 1), data.MustInteger(data.KindU8, 1)}
	_, err = e.RunBatch(ctx, p, inputs)
	assert.Error(t, err)
}

func TestStateStep(t *testing.T) {
	p, err := ParseProgram("input r0 as u8;\nadd.w r0 r0 into r1;\nmul.w r1 r1 into r2;\noutput r2 as u8;")
	require.NoError(t, err)
	s, err := NewState(newConsole(t), p, []data.Value{lit(t, "3u8")})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Registers().Len())
	assert.True(t, s.Registers().IsDefined(R(2)))

	require.NoError(t, s.Step())
	_, err = s.Registers().Load(R(2))
	assert.True(t, IsHalt(err), "r2 is defined but not yet assigned")

	require.NoError(t, s.Step())
	assert.True(t, s.Halted())
	assert.Error(t, s.Step())

	outs, err := s.Outputs()
	require.NoError(t, err)
	assert.Equal(t, "36u8", outs[0].String())
}

package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/core"
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

func newConsole(t testing.TB) *Console {
	c, err := NewConsole(8)
	require.NoError(t, err)
	return c
}

func lit(t testing.TB, s string) data.Literal {
	l, err := data.ParseLiteral(s)
	require.NoError(t, err)
	return l
}

// sampleLiteral returns some literal of each kind
func sampleLiteral(t testing.TB, k data.Kind) data.Literal {
	switch {
	case k.IsInteger():
		return data.MustInteger(k, 1)
	case k == data.KindAddress:
		for x := int64(1); x < 100; x++ {
			if a, err := data.NewAddress(core.BaseField.NewElementFromInt64(x)); err == nil {
				return a
			}
		}
		t.Fatal("no address found")
	case k == data.KindBoolean:
		return data.Boolean(true)
	case k == data.KindField:
		return data.FieldFromUint64(1)
	case k == data.KindGroup:
		return data.GroupIdentity()
	case k == data.KindScalar:
		return data.ScalarFromUint64(1)
	case k == data.KindString:
		s, err := data.NewString("s")
		require.NoError(t, err)
		return s
	}
	t.Fatalf("unknown kind %v", k)
	return nil
}

func allKinds() []data.Kind {
	kinds := make([]data.Kind, data.KindCount)
	for i := range kinds {
		kinds[i] = data.Kind(i)
	}
	return kinds
}

func token() *data.Composite {
	c, err := data.NewComposite(data.MustIdentifier("token"),
		data.Member{Name: data.MustIdentifier("amount"), Literal: data.MustInteger(data.KindU64, 10)},
		data.Member{Name: data.MustIdentifier("owner_flag"), Literal: data.Boolean(true)},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// evaluate runs a single instruction against registers preloaded with values r0, r1, ...
func evaluate(t testing.TB, instr Instruction, values ...data.Value) (data.Value, error) {
	rs := NewRegisters()
	for i, v := range values {
		require.NoError(t, rs.Define(R(uint64(i))))
		require.NoError(t, rs.Assign(R(uint64(i)), v))
	}
	require.NoError(t, rs.Define(instr.Destination()))
	if err := instr.Evaluate(newConsole(t), rs); err != nil {
		return nil, err
	}
	return rs.Load(instr.Destination())
}

// representative returns one instance of every opcode
func representative() []Instruction {
	a, b := RegisterOperand(R(0)), RegisterOperand(R(1))
	var out []Instruction
	for op := Opcode(0); op < OpcodeCount; op++ {
		if op.Arity() == 2 {
			out = append(out, MustNew(op, R(2), a, b))
		} else {
			out = append(out, MustNew(op, R(2), a))
		}
	}
	return out
}

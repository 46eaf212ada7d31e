package vm

import (
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// Arithmetic is a binary arithmetic instruction: add, add.w, sub.w or mul.w.
// Both operands must have the same kind; the result has that kind too.
type Arithmetic struct {
	operation
}

func (a *Arithmetic) Evaluate(_ Environment, rs *Registers) error {
	lits, err := a.literals(rs)
	if err != nil {
		return err
	}
	result, err := a.apply(lits[0], lits[1])
	if err != nil {
		return err
	}
	return a.assign(rs, result)
}

func (a *Arithmetic) apply(x, y data.Literal) (data.Literal, error) {
	switch x := x.(type) {
	case data.Integer:
		y, ok := y.(data.Integer)
		if !ok || x.Kind() != y.Kind() {
			break
		}
		switch a.op {
		case AddWrapped:
			return x.AddWrapped(y), nil
		case SubWrapped:
			return x.SubWrapped(y), nil
		case MulWrapped:
			return x.MulWrapped(y), nil
		case Add:
			sum, ok := x.AddChecked(y)
			if !ok {
				return nil, Halt(a.op.String(), "'%s' overflowed on %s and %s", a.op, x, y)
			}
			return sum, nil
		}

	case data.Field:
		if y, ok := y.(data.Field); ok && a.op == Add {
			return data.NewField(x.Element().Add(y.Element()))
		}

	case data.Scalar:
		if y, ok := y.(data.Scalar); ok && a.op == Add {
			return data.NewScalar(x.Element().Add(y.Element()))
		}
	}
	return nil, a.unsupported(x, y)
}

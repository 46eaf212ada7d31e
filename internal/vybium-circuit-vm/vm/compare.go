package vm

import (
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// Compare is eq or neq over two literals of the same kind; the result is a boolean
type Compare struct {
	operation
}

func (c *Compare) Evaluate(_ Environment, rs *Registers) error {
	lits, err := c.literals(rs)
	if err != nil {
		return err
	}
	x, y := lits[0], lits[1]
	if x.Kind() != y.Kind() {
		return c.unsupported(x, y)
	}
	equal := x.Equal(y)
	if c.op == Neq {
		equal = !equal
	}
	return c.assign(rs, data.Boolean(equal))
}

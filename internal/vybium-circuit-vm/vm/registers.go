package vm

import (
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/data"
)

// slot is one register's lifecycle: defined, then assigned exactly once
type slot struct {
	value    data.Value
	assigned bool
}

// Registers is the register store of one execution.
// It is not safe for concurrent use; each execution owns its own store.
type Registers struct {
	slots map[uint64]*slot
}

// NewRegisters creates an empty store
func NewRegisters() *Registers {
	return &Registers{slots: make(map[uint64]*slot)}
}

// Define makes a plain register eligible for assignment
func (rs *Registers) Define(r Register) error {
	if !r.IsPlain() {
		return Halt("", "cannot define member register %s", r)
	}
	if _, ok := rs.slots[r.Locator]; ok {
		return Halt("", "register %s is already defined", r)
	}
	rs.slots[r.Locator] = &slot{}
	return nil
}

// Assign stores v in a defined, unassigned plain register
func (rs *Registers) Assign(r Register, v data.Value) error {
	if !r.IsPlain() {
		return Halt("", "cannot assign to member register %s", r)
	}
	s, ok := rs.slots[r.Locator]
	if !ok {
		return Halt("", "register %s is not defined", r)
	}
	if s.assigned {
		return Halt("", "register %s is already assigned", r)
	}
	s.value = data.CopyValue(v)
	s.assigned = true
	return nil
}

// Load returns a copy of the value in r, indexing into the composite for member registers
func (rs *Registers) Load(r Register) (data.Value, error) {
	s, ok := rs.slots[r.Locator]
	if !ok || !s.assigned {
		return nil, Halt("", "register %s is not assigned", r.Slot())
	}
	if r.IsPlain() {
		return data.CopyValue(s.value), nil
	}
	c, ok := s.value.(*data.Composite)
	if !ok {
		return nil, Halt("", "register %s is not a composite", r.Slot())
	}
	lit, ok := c.Member(r.Member)
	if !ok {
		return nil, Halt("", "composite %s in %s has no member %s", c.Name, r.Slot(), r.Member)
	}
	return lit, nil
}

// IsDefined reports whether r's slot has been defined
func (rs *Registers) IsDefined(r Register) bool {
	_, ok := rs.slots[r.Locator]
	return ok
}

// Len returns the number of defined registers
func (rs *Registers) Len() int {
	return len(rs.slots)
}

package data

import (
	"fmt"
	"strings"
)

// Value is either a Literal or a *Composite
type Value interface {
	String() string
	isValue()
}

// Member is one named entry of a composite
type Member struct {
	Name    Identifier
	Literal Literal
}

// Composite is a named aggregate of literals with ordered, uniquely named members
type Composite struct {
	Name    Identifier
	Members []Member
}

// NewComposite checks member names for duplicates
func NewComposite(name Identifier, members ...Member) (*Composite, error) {
	if name.IsZero() {
		return nil, fmt.Errorf("composite requires a name")
	}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.Name.IsZero() || m.Literal == nil {
			return nil, fmt.Errorf("composite %s has an incomplete member", name)
		}
		if _, ok := seen[m.Name.name]; ok {
			return nil, fmt.Errorf("composite %s has duplicate member %s", name, m.Name)
		}
		seen[m.Name.name] = struct{}{}
	}
	return &Composite{Name: name, Members: append([]Member(nil), members...)}, nil
}

// Member looks up a member by name
func (c *Composite) Member(name Identifier) (Literal, bool) {
	for _, m := range c.Members {
		if m.Name == name {
			return m.Literal, true
		}
	}
	return nil, false
}

// Clone copies the member list; literals are immutable and shared
func (c *Composite) Clone() *Composite {
	return &Composite{Name: c.Name, Members: append([]Member(nil), c.Members...)}
}

func (c *Composite) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name.String())
	sb.WriteString(" {")
	for i, m := range c.Members {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, " %s: %s", m.Name, m.Literal)
	}
	if len(c.Members) > 0 {
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}

func (*Composite) isValue() {}

// Equal compares name and members in order
func (c *Composite) Equal(other *Composite) bool {
	if c.Name != other.Name || len(c.Members) != len(other.Members) {
		return false
	}
	for i := range c.Members {
		if c.Members[i].Name != other.Members[i].Name || !c.Members[i].Literal.Equal(other.Members[i].Literal) {
			return false
		}
	}
	return true
}

// EqualValues compares two values of any shape
func EqualValues(a, b Value) bool {
	switch a := a.(type) {
	case Literal:
		bl, ok := b.(Literal)
		return ok && a.Equal(bl)
	case *Composite:
		bc, ok := b.(*Composite)
		return ok && a.Equal(bc)
	}
	return a == nil && b == nil
}

// CopyValue returns a value that shares no mutable state with v
func CopyValue(v Value) Value {
	if c, ok := v.(*Composite); ok {
		return c.Clone()
	}
	return v
}

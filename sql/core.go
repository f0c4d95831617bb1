package sql

import "fmt"

// Nameable is something that has a name.
type Nameable interface {
	// Name returns the name.
	Name() string
}

// Node is a node of the statement tree. The set of node kinds is closed:
// every implementation lives in the plan and expression packages and is
// known to the transform package.
type Node interface {
	fmt.Stringer
}

// Expression is a value-producing node. Its type slot is empty until the
// type resolver assigns it and is never recomputed afterwards.
type Expression interface {
	Node
	// Type returns the computed type, or a type of the Unknown family if it
	// has not been computed yet.
	Type() Type
	// SetType assigns the computed type.
	SetType(Type)
}

// TypeSlot is the write-once type annotation embedded by every expression.
type TypeSlot struct {
	typ Type
}

// Type implements the Expression interface.
func (s *TypeSlot) Type() Type {
	return s.typ
}

// SetType implements the Expression interface. Assigning a type to a slot
// that already holds one is a no-op.
func (s *TypeSlot) SetType(t Type) {
	if s.typ.IsUnknown() {
		s.typ = t
	}
}

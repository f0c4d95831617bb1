package expression

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// Cast converts its child to the target type. Implicit casts are inserted
// by the type resolver.
type Cast struct {
	UnaryExpression
	Target   sql.Type
	Implicit bool
}

// NewCast returns an explicit CAST of the child to the given type.
func NewCast(child sql.Expression, target sql.Type) *Cast {
	return &Cast{UnaryExpression: UnaryExpression{Child: child}, Target: target}
}

// NewImplicitCast returns a typed implicit CAST of the child.
func NewImplicitCast(child sql.Expression, target sql.Type) *Cast {
	c := &Cast{UnaryExpression: UnaryExpression{Child: child}, Target: target, Implicit: true}
	c.SetType(target)
	return c
}

func (c *Cast) String() string {
	return "CAST(" + c.Child.String() + " AS " + c.Target.String() + ")"
}

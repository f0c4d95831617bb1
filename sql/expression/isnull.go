package expression

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// IsNull is an expression that checks if an expression is null.
type IsNull struct {
	UnaryExpression
}

// NewIsNull creates a new IsNull expression.
func NewIsNull(child sql.Expression) *IsNull {
	return &IsNull{UnaryExpression{Child: child}}
}

func (e *IsNull) String() string {
	return e.Child.String() + " IS NULL"
}

package expression

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// UnaryExpression is an expression that has only one children.
type UnaryExpression struct {
	sql.TypeSlot
	Child sql.Expression
}

// BinaryExpression is an expression that has two children.
type BinaryExpression struct {
	sql.TypeSlot
	Left  sql.Expression
	Right sql.Expression
}

// IsNullable returns whether the already typed operands can be null.
func (p *BinaryExpression) IsNullable() bool {
	return p.Left.Type().Nullable || p.Right.Type().Nullable
}

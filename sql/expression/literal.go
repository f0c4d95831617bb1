package expression

import (
	"fmt"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// Literal represents a constant value. Its type is known when it is built.
type Literal struct {
	sql.TypeSlot
	Value interface{}
}

// NewLiteral creates a new Literal expression of the given type.
func NewLiteral(value interface{}, typ sql.Type) *Literal {
	l := &Literal{Value: value}
	l.SetType(typ)
	return l
}

// NewNull returns the NULL literal.
func NewNull() *Literal {
	return NewLiteral(nil, sql.NullType)
}

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "NULL"
	case string:
		return fmt.Sprintf("'%s'", v)
	default:
		return fmt.Sprint(v)
	}
}

// BooleanConstant is a TRUE or FALSE constant. The TRUE constant is used as
// the terminator of conjunction chains and as the replacement of conjuncts
// that have been absorbed or flattened away.
type BooleanConstant struct {
	sql.TypeSlot
	Value bool
}

// NewBooleanConstant returns a typed boolean constant.
func NewBooleanConstant(v bool) *BooleanConstant {
	b := &BooleanConstant{Value: v}
	b.SetType(sql.BooleanNotNull)
	return b
}

// NewTrue returns a new boolean-true sentinel.
func NewTrue() *BooleanConstant {
	return NewBooleanConstant(true)
}

// IsTrue reports whether the expression is the boolean-true constant.
func IsTrue(e sql.Expression) bool {
	b, ok := e.(*BooleanConstant)
	return ok && b.Value
}

func (b *BooleanConstant) String() string {
	if b.Value {
		return "TRUE"
	}
	return "FALSE"
}

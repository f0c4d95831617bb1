package expression

import (
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// InList is an expression that checks an expression is inside a list of
// expressions.
type InList struct {
	sql.TypeSlot
	Left sql.Expression
	List []sql.Expression
	Not  bool
}

// NewInList creates an InList expression.
func NewInList(left sql.Expression, list ...sql.Expression) *InList {
	return &InList{Left: left, List: list}
}

// NewNotInList creates a negated InList expression.
func NewNotInList(left sql.Expression, list ...sql.Expression) *InList {
	return &InList{Left: left, List: list, Not: true}
}

func (in *InList) String() string {
	var items = make([]string, len(in.List))
	for i, e := range in.List {
		items[i] = e.String()
	}
	op := " IN "
	if in.Not {
		op = " NOT IN "
	}
	return in.Left.String() + op + "(" + strings.Join(items, ", ") + ")"
}

package expression

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// And checks whether two expressions are true.
type And struct {
	BinaryExpression
}

// NewAnd creates a new And expression.
func NewAnd(left, right sql.Expression) *And {
	return &And{BinaryExpression{Left: left, Right: right}}
}

func (a *And) String() string {
	return "(" + a.Left.String() + " AND " + a.Right.String() + ")"
}

// Or checks whether one of the two given expressions is true.
type Or struct {
	BinaryExpression
}

// NewOr creates a new Or expression.
func NewOr(left, right sql.Expression) *Or {
	return &Or{BinaryExpression{Left: left, Right: right}}
}

func (o *Or) String() string {
	return "(" + o.Left.String() + " OR " + o.Right.String() + ")"
}

// Not is a node that negates an expression.
type Not struct {
	UnaryExpression
}

// NewNot returns a new Not node.
func NewNot(child sql.Expression) *Not {
	return &Not{UnaryExpression{Child: child}}
}

func (n *Not) String() string {
	return "NOT(" + n.Child.String() + ")"
}

// JoinAnd builds a right-deep conjunction chain of the given expressions
// terminated by a boolean-true sentinel. Nested conjunctions are flattened
// and existing true sentinels dropped.
func JoinAnd(exprs ...sql.Expression) sql.Expression {
	var conjuncts []sql.Expression
	for _, e := range exprs {
		if e == nil {
			continue
		}
		conjuncts = append(conjuncts, SplitConjunction(e)...)
	}

	var chain sql.Expression = NewTrue()
	for i := len(conjuncts) - 1; i >= 0; i-- {
		chain = NewAnd(conjuncts[i], chain)
	}
	return chain
}

// SplitConjunction returns the conjuncts of the given expression, without
// any boolean-true sentinel.
func SplitConjunction(e sql.Expression) []sql.Expression {
	if e == nil || IsTrue(e) {
		return nil
	}

	and, ok := e.(*And)
	if !ok {
		return []sql.Expression{e}
	}

	return append(
		SplitConjunction(and.Left),
		SplitConjunction(and.Right)...,
	)
}

// IsConjunctionChain reports whether the expression is a right-deep chain
// of And nodes terminated by a boolean-true sentinel.
func IsConjunctionChain(e sql.Expression) bool {
	for {
		if IsTrue(e) {
			return true
		}
		and, ok := e.(*And)
		if !ok {
			return false
		}
		e = and.Right
	}
}

// AppendConjunction splices the tail chain onto the end of the given
// chain, replacing its true terminator. Both must be conjunction chains.
// The resulting chain is returned.
func AppendConjunction(chain, tail sql.Expression) sql.Expression {
	if tail == nil || IsTrue(tail) {
		return chain
	}
	if chain == nil || IsTrue(chain) {
		return tail
	}

	last := chain.(*And)
	for {
		next, ok := last.Right.(*And)
		if !ok {
			break
		}
		last = next
	}
	last.Right = tail
	return chain
}

package plan

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// SubqueryKind is the context a subquery is used in.
type SubqueryKind byte

const (
	// ExpressionSubquery is a scalar subquery.
	ExpressionSubquery SubqueryKind = iota
	// ExistsSubquery is EXISTS (...).
	ExistsSubquery
	// InSubquery is x IN (...).
	InSubquery
	// NotInSubquery is x NOT IN (...).
	NotInSubquery
	EqAnySubquery
	EqAllSubquery
	NeAnySubquery
	NeAllSubquery
	LtAnySubquery
	LtAllSubquery
	LeAnySubquery
	LeAllSubquery
	GtAnySubquery
	GtAllSubquery
	GeAnySubquery
	GeAllSubquery
)

var subqueryKinds = [...]string{
	ExpressionSubquery: "EXPRESSION",
	ExistsSubquery:     "EXISTS",
	InSubquery:         "IN",
	NotInSubquery:      "NOT IN",
	EqAnySubquery:      "= ANY",
	EqAllSubquery:      "= ALL",
	NeAnySubquery:      "<> ANY",
	NeAllSubquery:      "<> ALL",
	LtAnySubquery:      "< ANY",
	LtAllSubquery:      "< ALL",
	LeAnySubquery:      "<= ANY",
	LeAllSubquery:      "<= ALL",
	GtAnySubquery:      "> ANY",
	GtAllSubquery:      "> ALL",
	GeAnySubquery:      ">= ANY",
	GeAllSubquery:      ">= ALL",
}

func (k SubqueryKind) String() string {
	return subqueryKinds[k]
}

// IsPredicate reports whether a subquery of this kind evaluates to a
// boolean rather than to its first projected column.
func (k SubqueryKind) IsPredicate() bool {
	return k != ExpressionSubquery
}

// Subquery is a query block used as an expression.
type Subquery struct {
	sql.TypeSlot
	Kind SubqueryKind
	// Left is the left-hand operand of IN and quantified comparisons.
	Left sql.Expression
	// Query is a *Select or a *Union.
	Query sql.Node
}

// NewSubquery creates a new scalar subquery.
func NewSubquery(query sql.Node) *Subquery {
	return &Subquery{Kind: ExpressionSubquery, Query: query}
}

// NewExistsSubquery creates a new EXISTS subquery.
func NewExistsSubquery(query sql.Node) *Subquery {
	return &Subquery{Kind: ExistsSubquery, Query: query}
}

// NewInSubquery creates a new IN or NOT IN subquery.
func NewInSubquery(left sql.Expression, query sql.Node, not bool) *Subquery {
	kind := InSubquery
	if not {
		kind = NotInSubquery
	}
	return &Subquery{Kind: kind, Left: left, Query: query}
}

// NewQuantifiedSubquery creates a new quantified comparison subquery, such
// as x >= ANY (...).
func NewQuantifiedSubquery(kind SubqueryKind, left sql.Expression, query sql.Node) *Subquery {
	return &Subquery{Kind: kind, Left: left, Query: query}
}

// FirstProjection returns the expression of the first projected column.
func (s *Subquery) FirstProjection() sql.Expression {
	columns := ResultColumns(s.Query)
	if len(columns) == 0 {
		return nil
	}
	return columns[0].Expression
}

func (s *Subquery) String() string {
	switch {
	case s.Kind == ExpressionSubquery:
		return "(" + s.Query.String() + ")"
	case s.Left == nil:
		return s.Kind.String() + " (" + s.Query.String() + ")"
	default:
		return s.Left.String() + " " + s.Kind.String() + " (" + s.Query.String() + ")"
	}
}

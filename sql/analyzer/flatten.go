package analyzer

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/transform"
)

// flattenOps maps the subquery kinds that can be flattened to the operator
// of the comparison replacing them. EXISTS has no operand to compare.
var flattenOps = map[plan.SubqueryKind]expression.ComparisonOp{
	plan.InSubquery:    expression.Equals,
	plan.EqAnySubquery: expression.Equals,
	plan.NeAnySubquery: expression.NotEquals,
	plan.LtAnySubquery: expression.LessThan,
	plan.LeAnySubquery: expression.LessThanOrEqual,
	plan.GtAnySubquery: expression.GreaterThan,
	plan.GeAnySubquery: expression.GreaterThanOrEqual,
}

// flattenSubqueries merges into their enclosing select the subqueries of
// a WHERE clause that are proven to return at most one row. Selects are
// visited children first, so inner subqueries are flattened before the
// ones enclosing them.
func flattenSubqueries(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, _ := ctx.Span("flatten_subqueries")
	defer span.Finish()

	f := &flattener{a: a, uniqueness: a.Uniqueness}
	if f.uniqueness == nil {
		f.uniqueness = KeyUniqueness{}
	}

	return transform.Node(n, func(n sql.Node) (sql.Node, error) {
		if s, ok := n.(*plan.Select); ok {
			if err := f.flattenSelect(s); err != nil {
				return nil, err
			}
		}
		return n, nil
	})
}

type flattener struct {
	a          *Analyzer
	uniqueness UniquenessProver
}

func (f *flattener) flattenSelect(s *plan.Select) error {
	if s.Where == nil {
		return nil
	}

	for e := s.Where; ; {
		and, ok := e.(*expression.And)
		if !ok {
			return nil
		}

		replacement, err := f.flattenConjunct(s, and.Left)
		if err != nil {
			return err
		}
		if replacement != nil {
			and.Left = replacement
		}

		e = and.Right
	}
}

// flattenConjunct tries to flatten a single conjunct of the WHERE clause
// of s. It returns the expression that replaces the conjunct, or nil if it
// is left untouched.
func (f *flattener) flattenConjunct(s *plan.Select, conjunct sql.Expression) (sql.Expression, error) {
	var (
		sq       *plan.Subquery
		left     sql.Expression
		op       expression.ComparisonOp
		hasOp    bool
		generate bool
	)

	switch e := conjunct.(type) {
	case *plan.Subquery:
		if e.Kind == plan.ExistsSubquery {
			sq = e
			break
		}
		op, hasOp = flattenOps[e.Kind]
		if !hasOp {
			f.a.Log("subquery %s can not be flattened", e.Kind)
			return nil, nil
		}
		sq, left, generate = e, e.Left, true
	case *expression.Comparison:
		right, ok := e.Right.(*plan.Subquery)
		if !ok || right.Kind != plan.ExpressionSubquery {
			return nil, nil
		}
		sq, left, op, generate = right, e.Left, e.Op, true
	default:
		return nil, nil
	}

	inner, ok := sq.Query.(*plan.Select)
	if !ok {
		return nil, nil
	}

	var cmp *expression.Comparison
	var assumed []sql.Expression
	if generate {
		if len(inner.Projections) == 0 {
			return nil, nil
		}
		cmp = expression.NewComparison(op, left, inner.Projections[0].Expression)
		cmp.Generated = true
		cmp.SetType(sql.NewType(sql.Boolean, cmp.IsNullable()))
		if op == expression.Equals {
			assumed = append(assumed, cmp)
		}
	}

	if !f.flattenable(inner, assumed) {
		return nil, nil
	}

	s.From = append(s.From, inner.From...)
	if inner.Where != nil {
		s.Where = expression.AppendConjunction(s.Where, inner.Where)
	}

	if cmp == nil {
		f.a.Log("flattened %s subquery", sq.Kind)
		return expression.NewTrue(), nil
	}

	f.a.Log("flattened %s subquery into %s", sq.Kind, cmp)
	return cmp, nil
}

// flattenable reports whether the select of a subquery can be merged into
// the enclosing one, given the conditions the merge adds.
func (f *flattener) flattenable(inner *plan.Select, assumed []sql.Expression) bool {
	if !inner.IsSimple() {
		return false
	}

	nested, err := transform.Contains(inner, func(n sql.Node) bool {
		switch n.(type) {
		case *plan.Subquery, *plan.FromSubquery:
			return true
		}
		return false
	})
	if err != nil || nested {
		return false
	}

	if !f.uniqueness.Unique(inner, assumed...) {
		f.a.Log("subquery is not proven to return at most one row: %s", inner)
		return false
	}

	return true
}

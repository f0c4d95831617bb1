package analyzer

import (
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/transform"
	"github.com/brunoribeiro/sql-parser-sub002/sql/types"
)

// ErrInvalidCast is returned when an explicit CAST converts between types
// that are not convertible.
var ErrInvalidCast = errors.NewKind("cannot cast %s to %s")

func computeTypes(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, _ := ctx.Span("compute_types")
	defer span.Finish()

	return transform.Walk(&typeResolver{a: a}, n)
}

// typeResolver assigns a type to every expression, children first. Nodes
// that already carry a type are left alone.
type typeResolver struct {
	a *Analyzer
}

var _ transform.Visitor = (*typeResolver)(nil)

func (r *typeResolver) Order() transform.Order {
	return transform.PostOrder
}

func (r *typeResolver) Before(sql.Node) (bool, error) {
	return true, nil
}

func (r *typeResolver) After(n sql.Node) (sql.Node, error) {
	if e, ok := n.(sql.Expression); ok && !e.Type().IsUnknown() {
		return n, nil
	}

	switch n := n.(type) {
	case *plan.Select:
		if err := checkClause("WHERE", n.Where); err != nil {
			return nil, err
		}
		if err := checkClause("HAVING", n.Having); err != nil {
			return nil, err
		}
	case *plan.JoinNode:
		if err := checkClause("ON", n.On); err != nil {
			return nil, err
		}
	case *plan.FromSubquery:
		if len(n.ColumnNames) > 0 {
			columns := plan.ResultColumns(n.Query)
			n.ColumnTypes = make([]sql.Type, len(columns))
			for i, c := range columns {
				n.ColumnTypes[i] = c.Expression.Type()
			}
		}
	case *expression.ColumnRef:
		if n.Binding == nil {
			return nil, sql.ErrUnboundNode.New(n)
		}
		t := n.Binding.Type()
		if t.IsUnknown() {
			return nil, sql.ErrUnboundNode.New(n)
		}
		n.SetType(t)
	case *expression.Star:
		return nil, sql.ErrUnboundNode.New(n)
	case *expression.And:
		return n, typeLogical("AND", n, &n.BinaryExpression)
	case *expression.Or:
		return n, typeLogical("OR", n, &n.BinaryExpression)
	case *expression.Not:
		t := n.Child.Type()
		if !isBoolean(t) {
			return nil, sql.ErrNonBooleanOperand.New("NOT", t)
		}
		n.SetType(sql.NewType(sql.Boolean, t.Nullable))
	case *expression.Arithmetic:
		return n, r.typeArithmetic(n)
	case *expression.Comparison:
		return n, typeComparison(n)
	case *expression.IsNull:
		n.SetType(sql.BooleanNotNull)
	case *expression.InList:
		nullable := n.Left.Type().Nullable
		for _, e := range n.List {
			if !types.Comparable(n.Left.Type(), e.Type(), true) {
				return nil, sql.ErrTypesNotComparable.New(n.Left.Type(), e.Type(), "IN")
			}
			nullable = nullable || e.Type().Nullable
		}
		n.SetType(sql.NewType(sql.Boolean, nullable))
	case *expression.Cast:
		from := n.Child.Type()
		if !types.Convertible(from, n.Target) {
			return nil, ErrInvalidCast.New(from, n.Target)
		}
		n.SetType(n.Target.WithNullable(from.Nullable))
	case *expression.Case:
		return n, typeCase(n)
	case *expression.Coalesce:
		var t sql.Type
		for _, arg := range n.Args {
			var err error
			if t, err = types.Dominant(t, arg.Type()); err != nil {
				return nil, err
			}
		}
		n.SetType(t)
	case *plan.Subquery:
		return n, typeSubquery(n)
	}

	return n, nil
}

func isBoolean(t sql.Type) bool {
	return t.Family == sql.Boolean || t.Family == sql.Null
}

func checkClause(clause string, e sql.Expression) error {
	if e == nil {
		return nil
	}
	if !isBoolean(e.Type()) {
		return sql.ErrNonBooleanClause.New(clause, e.Type())
	}
	return nil
}

func typeLogical(op string, e sql.Expression, b *expression.BinaryExpression) error {
	for _, operand := range []sql.Expression{b.Left, b.Right} {
		if !isBoolean(operand.Type()) {
			return sql.ErrNonBooleanOperand.New(op, operand.Type())
		}
	}
	e.SetType(sql.NewType(sql.Boolean, b.IsNullable()))
	return nil
}

func (r *typeResolver) typeArithmetic(n *expression.Arithmetic) error {
	l, rt := n.Left.Type(), n.Right.Type()
	switch {
	case l.Family.IsString() && rt.Family.IsNumeric():
		cast, err := implicitNumericCast(n.Left, rt)
		if err != nil {
			return err
		}
		n.Left = cast
		r.a.Log("implicit cast inserted: %s", cast)
	case rt.Family.IsString() && l.Family.IsNumeric():
		cast, err := implicitNumericCast(n.Right, l)
		if err != nil {
			return err
		}
		n.Right = cast
		r.a.Log("implicit cast inserted: %s", cast)
	}

	t, err := types.ArithmeticResult(n.Left.Type(), n.Right.Type(), n.Op)
	if err != nil {
		return err
	}
	n.SetType(t)
	return nil
}

// implicitNumericCast wraps a string operand of an arithmetic expression
// into a cast to the type of the numeric operand. Decimals are widened to
// hold as many digits as the string can.
func implicitNumericCast(operand sql.Expression, numeric sql.Type) (*expression.Cast, error) {
	from := operand.Type()
	target := numeric.WithNullable(from.Nullable)
	if target.Family == sql.Decimal {
		width := from.MaximumWidth()
		target.Precision = min(target.Precision+2*width, types.MaxDecimalPrecision)
		target.Scale = min(target.Scale+width, target.Precision)
	}

	if lit, ok := operand.(*expression.Literal); ok {
		if _, err := types.ConvertLiteral(lit.Value, target); err != nil {
			return nil, err
		}
	}

	return expression.NewImplicitCast(operand, target), nil
}

func typeComparison(n *expression.Comparison) error {
	l, r := n.Left.Type(), n.Right.Type()
	switch {
	case l.Family.IsString() && !r.Family.IsString() && r.Family != sql.Null:
		n.Right = expression.NewImplicitCast(n.Right, r.WithNullable(true))
	case r.Family.IsString() && !l.Family.IsString() && l.Family != sql.Null:
		n.Left = expression.NewImplicitCast(n.Left, l.WithNullable(true))
	}

	if !n.Generated && !types.Comparable(l, r, n.Op.IsEquality()) {
		return sql.ErrTypesNotComparable.New(l, r, n.Op)
	}

	n.SetType(sql.NewType(sql.Boolean, n.IsNullable()))
	return nil
}

func typeCase(n *expression.Case) error {
	var t sql.Type
	for _, b := range n.Branches {
		if n.Operand != nil {
			if !types.Comparable(n.Operand.Type(), b.Cond.Type(), true) {
				return sql.ErrTypesNotComparable.New(n.Operand.Type(), b.Cond.Type(), "CASE")
			}
		} else if !isBoolean(b.Cond.Type()) {
			return sql.ErrNonBooleanOperand.New("WHEN", b.Cond.Type())
		}

		var err error
		if t, err = types.Dominant(t, b.Value.Type()); err != nil {
			return err
		}
	}

	if n.Else == nil {
		t = t.WithNullable(true)
	} else {
		var err error
		if t, err = types.Dominant(t, n.Else.Type()); err != nil {
			return err
		}
	}

	n.SetType(t)
	return nil
}

// quantifiedOps are the comparison operators of the subquery kinds that
// compare their left operand with the projected column.
var quantifiedOps = map[plan.SubqueryKind]expression.ComparisonOp{
	plan.InSubquery:    expression.Equals,
	plan.NotInSubquery: expression.Equals,
	plan.EqAnySubquery: expression.Equals,
	plan.EqAllSubquery: expression.Equals,
	plan.NeAnySubquery: expression.NotEquals,
	plan.NeAllSubquery: expression.NotEquals,
	plan.LtAnySubquery: expression.LessThan,
	plan.LtAllSubquery: expression.LessThan,
	plan.LeAnySubquery: expression.LessThanOrEqual,
	plan.LeAllSubquery: expression.LessThanOrEqual,
	plan.GtAnySubquery: expression.GreaterThan,
	plan.GtAllSubquery: expression.GreaterThan,
	plan.GeAnySubquery: expression.GreaterThanOrEqual,
	plan.GeAllSubquery: expression.GreaterThanOrEqual,
}

func typeSubquery(n *plan.Subquery) error {
	first := n.FirstProjection()
	if n.Kind == plan.ExpressionSubquery {
		if first == nil {
			return sql.ErrUnboundNode.New(n)
		}
		n.SetType(first.Type().WithNullable(true))
		return nil
	}

	if op, ok := quantifiedOps[n.Kind]; ok && n.Left != nil && first != nil {
		if !types.Comparable(n.Left.Type(), first.Type(), op.IsEquality()) {
			return sql.ErrTypesNotComparable.New(n.Left.Type(), first.Type(), n.Kind)
		}
	}

	n.SetType(sql.NewType(sql.Boolean, true))
	return nil
}

package parse

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/types"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/shopspring/decimal"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"
)

var (
	// ErrUnsupportedSyntax is thrown when a specific syntax is not already supported
	ErrUnsupportedSyntax = errors.NewKind("unsupported syntax: %s")

	// ErrUnsupportedFeature is thrown when a feature is not already supported
	ErrUnsupportedFeature = errors.NewKind("unsupported feature: %s")

	// ErrInvalidSQLValType is returned when a SQLVal type is not valid.
	ErrInvalidSQLValType = errors.NewKind("invalid SQLVal of type: %d")

	// ErrInvalidSortOrder is returned when a sort order is not valid.
	ErrInvalidSortOrder = errors.NewKind("invalid sort order: %s")

	// ErrInvalidLiteral is returned when a literal value can not be read.
	ErrInvalidLiteral = errors.NewKind("invalid literal: %s")
)

// Parse parses the given SQL query and returns the corresponding statement
// tree. Only queries are supported.
func Parse(ctx *sql.Context, query string) (*plan.Cursor, error) {
	span, _ := ctx.Span("parse", opentracing.Tag{Key: "query", Value: query})
	defer span.Finish()

	s := strings.TrimSpace(query)
	if strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(s[:len(s)-1])
	}

	stmt, err := sqlparser.Parse(s)
	if err != nil {
		return nil, err
	}

	q, err := convertQuery(stmt)
	if err != nil {
		return nil, err
	}

	return plan.NewCursor(q), nil
}

func convertQuery(stmt sqlparser.SQLNode) (sql.Node, error) {
	switch n := stmt.(type) {
	case *sqlparser.Select:
		return convertSelect(n)
	case *sqlparser.Union:
		return convertUnion(n)
	case *sqlparser.ParenSelect:
		return convertQuery(n.Select)
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(stmt))
	}
}

func convertUnion(u *sqlparser.Union) (sql.Node, error) {
	if len(u.OrderBy) > 0 || u.Limit != nil {
		return nil, ErrUnsupportedFeature.New("ORDER BY or LIMIT on UNION")
	}

	left, err := convertQuery(u.Left)
	if err != nil {
		return nil, err
	}

	right, err := convertQuery(u.Right)
	if err != nil {
		return nil, err
	}

	switch u.Type {
	case sqlparser.UnionStr, sqlparser.UnionDistinctStr:
		return plan.NewUnion(left, right, false), nil
	case sqlparser.UnionAllStr:
		return plan.NewUnion(left, right, true), nil
	default:
		return nil, ErrUnsupportedFeature.New(u.Type)
	}
}

func convertSelect(s *sqlparser.Select) (*plan.Select, error) {
	from, err := tableExprsToFrom(s.From)
	if err != nil {
		return nil, err
	}

	projections, err := selectExprsToResultColumns(s.SelectExprs)
	if err != nil {
		return nil, err
	}

	node := plan.NewSelect(projections, from, nil)
	node.Distinct = s.Distinct != ""

	if s.Where != nil {
		if node.Where, err = exprToExpression(s.Where.Expr); err != nil {
			return nil, err
		}
	}

	if len(s.GroupBy) > 0 {
		node.GroupBy = make([]sql.Expression, len(s.GroupBy))
		for i, g := range s.GroupBy {
			if node.GroupBy[i], err = exprToExpression(g); err != nil {
				return nil, err
			}
		}
	}

	if s.Having != nil {
		if node.Having, err = exprToExpression(s.Having.Expr); err != nil {
			return nil, err
		}
	}

	if node.OrderBy, err = orderByToColumns(s.OrderBy); err != nil {
		return nil, err
	}

	if s.Limit != nil {
		if node.FetchFirst, err = limitToExpression(s.Limit.Rowcount, "LIMIT"); err != nil {
			return nil, err
		}
		if s.Limit.Offset != nil {
			if node.Offset, err = limitToExpression(s.Limit.Offset, "OFFSET"); err != nil {
				return nil, err
			}
		}
	}

	return node, nil
}

func limitToExpression(e sqlparser.Expr, clause string) (sql.Expression, error) {
	expr, err := exprToExpression(e)
	if err != nil {
		return nil, err
	}

	l, ok := expr.(*expression.Literal)
	if !ok {
		return nil, ErrUnsupportedFeature.New(clause + " with non-integer literal")
	}

	switch l.Type().Family {
	case sql.SmallInt, sql.Integer, sql.BigInt:
		return l, nil
	default:
		return nil, ErrUnsupportedFeature.New(clause + " with non-integer literal")
	}
}

func orderByToColumns(ob sqlparser.OrderBy) ([]*plan.OrderByColumn, error) {
	var columns []*plan.OrderByColumn
	for _, o := range ob {
		e, err := exprToExpression(o.Expr)
		if err != nil {
			return nil, err
		}

		var descending bool
		switch o.Direction {
		default:
			return nil, ErrInvalidSortOrder.New(o.Direction)
		case sqlparser.AscScr:
		case sqlparser.DescScr:
			descending = true
		}

		columns = append(columns, plan.NewOrderByColumn(e, descending))
	}
	return columns, nil
}

// tableExprsToFrom converts the FROM list. A select without FROM, which the
// parser reports as reading from dual, has no FROM items.
func tableExprsToFrom(te sqlparser.TableExprs) ([]plan.FromItem, error) {
	if len(te) == 0 || isDual(te) {
		return nil, nil
	}

	var items []plan.FromItem
	for _, t := range te {
		item, err := tableExprToFrom(t)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func isDual(te sqlparser.TableExprs) bool {
	if len(te) != 1 {
		return false
	}
	t, ok := te[0].(*sqlparser.AliasedTableExpr)
	if !ok || !t.As.IsEmpty() {
		return false
	}
	name, ok := t.Expr.(sqlparser.TableName)
	return ok && name.Qualifier.IsEmpty() && strings.EqualFold(name.Name.String(), "dual")
}

func tableExprToFrom(te sqlparser.TableExpr) (plan.FromItem, error) {
	switch t := te.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(te))
	case *sqlparser.ParenTableExpr:
		if len(t.Exprs) != 1 {
			return nil, ErrUnsupportedFeature.New("parenthesized FROM list")
		}
		return tableExprToFrom(t.Exprs[0])
	case *sqlparser.AliasedTableExpr:
		switch e := t.Expr.(type) {
		case sqlparser.TableName:
			return plan.NewFromTable(e.Qualifier.String(), e.Name.String(), t.As.String()), nil
		case *sqlparser.Subquery:
			if t.As.IsEmpty() {
				return nil, ErrUnsupportedFeature.New("subquery without alias")
			}

			q, err := convertQuery(e.Select)
			if err != nil {
				return nil, err
			}

			return plan.NewFromSubquery(q, t.As.String()), nil
		default:
			return nil, ErrUnsupportedSyntax.New(sqlparser.String(te))
		}
	case *sqlparser.JoinTableExpr:
		var kind plan.JoinKind
		switch t.Join {
		case sqlparser.JoinStr:
			kind = plan.InnerJoin
		case sqlparser.LeftJoinStr:
			kind = plan.LeftOuterJoin
		case sqlparser.RightJoinStr:
			kind = plan.RightOuterJoin
		default:
			return nil, ErrUnsupportedFeature.New(t.Join)
		}

		if len(t.Condition.Using) > 0 {
			return nil, ErrUnsupportedFeature.New("using clause on join")
		}

		left, err := tableExprToFrom(t.LeftExpr)
		if err != nil {
			return nil, err
		}

		right, err := tableExprToFrom(t.RightExpr)
		if err != nil {
			return nil, err
		}

		var on sql.Expression
		if t.Condition.On != nil {
			if on, err = exprToExpression(t.Condition.On); err != nil {
				return nil, err
			}
		}

		return plan.NewJoin(kind, left, right, on), nil
	}
}

func selectExprsToResultColumns(se sqlparser.SelectExprs) ([]*plan.ResultColumn, error) {
	var columns []*plan.ResultColumn
	for _, e := range se {
		switch e := e.(type) {
		default:
			return nil, ErrUnsupportedSyntax.New(sqlparser.String(e))
		case *sqlparser.StarExpr:
			if e.TableName.IsEmpty() {
				columns = append(columns, plan.NewResultColumn("*", expression.NewStar()))
			} else {
				star := expression.NewQualifiedStar(e.TableName.Name.String())
				columns = append(columns, plan.NewResultColumn(star.String(), star))
			}
		case *sqlparser.AliasedExpr:
			expr, err := exprToExpression(e.Expr)
			if err != nil {
				return nil, err
			}

			name := e.As.Lowered()
			if name == "" {
				if col, ok := e.Expr.(*sqlparser.ColName); ok {
					name = col.Name.Lowered()
				} else {
					name = sqlparser.String(e.Expr)
				}
			}

			columns = append(columns, plan.NewResultColumn(name, expr))
		}
	}
	return columns, nil
}

func exprToExpression(e sqlparser.Expr) (sql.Expression, error) {
	switch v := e.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(e))
	case *sqlparser.ComparisonExpr:
		return comparisonExprToExpression(v)
	case *sqlparser.IsExpr:
		return isExprToExpression(v)
	case *sqlparser.NotExpr:
		if exists, ok := v.Expr.(*sqlparser.ExistsExpr); ok {
			q, err := convertQuery(exists.Subquery.Select)
			if err != nil {
				return nil, err
			}
			return expression.NewNot(plan.NewExistsSubquery(q)), nil
		}

		c, err := exprToExpression(v.Expr)
		if err != nil {
			return nil, err
		}

		return expression.NewNot(c), nil
	case *sqlparser.SQLVal:
		return convertVal(v)
	case sqlparser.BoolVal:
		return expression.NewLiteral(bool(v), sql.BooleanNotNull), nil
	case *sqlparser.NullVal:
		return expression.NewNull(), nil
	case *sqlparser.ColName:
		switch {
		case !v.Qualifier.Qualifier.IsEmpty():
			return expression.NewSchemaQualifiedColumnRef(
				v.Qualifier.Qualifier.String(),
				v.Qualifier.Name.String(),
				v.Name.String(),
			), nil
		case !v.Qualifier.IsEmpty():
			return expression.NewQualifiedColumnRef(
				v.Qualifier.Name.String(),
				v.Name.String(),
			), nil
		default:
			return expression.NewColumnRef(v.Name.String()), nil
		}
	case *sqlparser.FuncExpr:
		return funcExprToExpression(v)
	case *sqlparser.ParenExpr:
		return exprToExpression(v.Expr)
	case *sqlparser.AndExpr:
		lhs, err := exprToExpression(v.Left)
		if err != nil {
			return nil, err
		}

		rhs, err := exprToExpression(v.Right)
		if err != nil {
			return nil, err
		}

		return expression.NewAnd(lhs, rhs), nil
	case *sqlparser.OrExpr:
		lhs, err := exprToExpression(v.Left)
		if err != nil {
			return nil, err
		}

		rhs, err := exprToExpression(v.Right)
		if err != nil {
			return nil, err
		}

		return expression.NewOr(lhs, rhs), nil
	case *sqlparser.ConvertExpr:
		expr, err := exprToExpression(v.Expr)
		if err != nil {
			return nil, err
		}

		target, err := convertTypeToType(v.Type)
		if err != nil {
			return nil, err
		}

		return expression.NewCast(expr, target), nil
	case *sqlparser.CaseExpr:
		return caseExprToExpression(v)
	case *sqlparser.Subquery:
		q, err := convertQuery(v.Select)
		if err != nil {
			return nil, err
		}
		return plan.NewSubquery(q), nil
	case *sqlparser.ExistsExpr:
		q, err := convertQuery(v.Subquery.Select)
		if err != nil {
			return nil, err
		}
		return plan.NewExistsSubquery(q), nil
	case *sqlparser.UnaryExpr:
		return unaryExprToExpression(v)
	case *sqlparser.BinaryExpr:
		return binaryExprToExpression(v)
	}
}

func funcExprToExpression(f *sqlparser.FuncExpr) (sql.Expression, error) {
	name := f.Name.Lowered()
	if name != "coalesce" && name != "ifnull" {
		return nil, ErrUnsupportedFeature.New("function " + name)
	}

	var args []sql.Expression
	for _, se := range f.Exprs {
		ae, ok := se.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, ErrUnsupportedSyntax.New(sqlparser.String(se))
		}

		arg, err := exprToExpression(ae.Expr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if name == "ifnull" && len(args) != 2 {
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(f))
	}

	return expression.NewCoalesce(args...), nil
}

func caseExprToExpression(c *sqlparser.CaseExpr) (sql.Expression, error) {
	var operand, elseExpr sql.Expression
	var err error
	if c.Expr != nil {
		if operand, err = exprToExpression(c.Expr); err != nil {
			return nil, err
		}
	}

	var branches []expression.CaseBranch
	for _, w := range c.Whens {
		cond, err := exprToExpression(w.Cond)
		if err != nil {
			return nil, err
		}

		val, err := exprToExpression(w.Val)
		if err != nil {
			return nil, err
		}

		branches = append(branches, expression.CaseBranch{Cond: cond, Value: val})
	}

	if c.Else != nil {
		if elseExpr, err = exprToExpression(c.Else); err != nil {
			return nil, err
		}
	}

	return expression.NewCase(operand, branches, elseExpr), nil
}

func convertTypeToType(ct *sqlparser.ConvertType) (sql.Type, error) {
	name := strings.ToLower(ct.Type)
	switch name {
	case "signed", "unsigned", "signed integer", "unsigned integer":
		return sql.NewType(sql.BigInt, true), nil
	case "binary", "nchar":
		name = "char"
	}

	var args []string
	if ct.Length != nil {
		args = append(args, string(ct.Length.Val))
	}
	if ct.Scale != nil {
		args = append(args, string(ct.Scale.Val))
	}
	if len(args) > 0 {
		name += "(" + strings.Join(args, ",") + ")"
	}

	return types.ParseType(name)
}

func unaryExprToExpression(u *sqlparser.UnaryExpr) (sql.Expression, error) {
	switch u.Operator {
	case sqlparser.UPlusStr:
		return exprToExpression(u.Expr)
	case sqlparser.UMinusStr:
		if val, ok := u.Expr.(*sqlparser.SQLVal); ok {
			switch val.Type {
			case sqlparser.IntVal, sqlparser.FloatVal:
				neg := *val
				neg.Val = append([]byte("-"), val.Val...)
				return convertVal(&neg)
			}
		}

		e, err := exprToExpression(u.Expr)
		if err != nil {
			return nil, err
		}

		zero := expression.NewLiteral(int64(0), sql.NewType(sql.Integer, false))
		return expression.NewMinus(zero, e), nil
	default:
		return nil, ErrUnsupportedFeature.New("unary operator " + u.Operator)
	}
}

func convertVal(v *sqlparser.SQLVal) (sql.Expression, error) {
	switch v.Type {
	case sqlparser.StrVal:
		s := string(v.Val)
		return expression.NewLiteral(s, sql.NewString(sql.Char, utf8.RuneCountInString(s), false)), nil
	case sqlparser.IntVal:
		return integerLiteral(string(v.Val))
	case sqlparser.FloatVal:
		return numericLiteral(string(v.Val))
	case sqlparser.HexNum:
		v := strings.ToLower(string(v.Val))
		if strings.HasPrefix(v, "0x") {
			v = v[2:]
		} else if strings.HasPrefix(v, "x") {
			v = strings.Trim(v[1:], "'")
		}

		val, err := strconv.ParseInt(v, 16, 64)
		if err != nil {
			return nil, ErrInvalidLiteral.Wrap(err, v)
		}
		return expression.NewLiteral(val, sql.NewType(sql.BigInt, false)), nil
	case sqlparser.HexVal:
		val, err := v.HexDecode()
		if err != nil {
			return nil, ErrInvalidLiteral.Wrap(err, string(v.Val))
		}
		return expression.NewLiteral(string(val), sql.NewString(sql.Char, len(val), false)), nil
	case sqlparser.BitVal:
		return expression.NewLiteral(v.Val[0] == '1', sql.BooleanNotNull), nil
	case sqlparser.ValArg:
		return nil, ErrUnsupportedFeature.New("bind variable " + string(v.Val))
	}

	return nil, ErrInvalidSQLValType.New(v.Type)
}

// integerLiteral types an integer literal with the smallest of INTEGER and
// BIGINT that holds it, or as an exact DECIMAL when it overflows both.
func integerLiteral(s string) (sql.Expression, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return numericLiteral(s)
		}
		return nil, ErrInvalidLiteral.Wrap(err, s)
	}

	if n >= -1<<31 && n <= 1<<31-1 {
		return expression.NewLiteral(n, sql.NewType(sql.Integer, false)), nil
	}
	return expression.NewLiteral(n, sql.NewType(sql.BigInt, false)), nil
}

// numericLiteral types an exact numeric literal as DECIMAL(p,s) and an
// approximate one, written with an exponent, as DOUBLE.
func numericLiteral(s string) (sql.Expression, error) {
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, ErrInvalidLiteral.Wrap(err, s)
		}
		return expression.NewLiteral(f, sql.NewType(sql.Double, false)), nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrInvalidLiteral.Wrap(err, s)
	}

	scale := 0
	if d.Exponent() < 0 {
		scale = int(-d.Exponent())
	}

	digits := strings.TrimLeft(strings.Replace(strings.TrimLeft(s, "+-"), ".", "", 1), "0")
	precision := len(digits)
	if precision < scale {
		precision = scale
	}
	if precision == 0 {
		precision = 1
	}

	return expression.NewLiteral(d, sql.NewDecimal(precision, scale, false)), nil
}

func isExprToExpression(c *sqlparser.IsExpr) (sql.Expression, error) {
	e, err := exprToExpression(c.Expr)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case sqlparser.IsNullStr:
		return expression.NewIsNull(e), nil
	case sqlparser.IsNotNullStr:
		return expression.NewNot(expression.NewIsNull(e)), nil
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(c))
	}
}

var comparisonOps = map[string]expression.ComparisonOp{
	sqlparser.EqualStr:        expression.Equals,
	sqlparser.NotEqualStr:     expression.NotEquals,
	sqlparser.LessThanStr:     expression.LessThan,
	sqlparser.LessEqualStr:    expression.LessThanOrEqual,
	sqlparser.GreaterThanStr:  expression.GreaterThan,
	sqlparser.GreaterEqualStr: expression.GreaterThanOrEqual,
	sqlparser.LikeStr:         expression.Like,
}

func comparisonExprToExpression(c *sqlparser.ComparisonExpr) (sql.Expression, error) {
	left, err := exprToExpression(c.Left)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case sqlparser.InStr, sqlparser.NotInStr:
		not := c.Operator == sqlparser.NotInStr
		switch r := c.Right.(type) {
		case *sqlparser.Subquery:
			q, err := convertQuery(r.Select)
			if err != nil {
				return nil, err
			}
			return plan.NewInSubquery(left, q, not), nil
		case sqlparser.ValTuple:
			var list = make([]sql.Expression, len(r))
			for i, e := range r {
				if list[i], err = exprToExpression(e); err != nil {
					return nil, err
				}
			}
			if not {
				return expression.NewNotInList(left, list...), nil
			}
			return expression.NewInList(left, list...), nil
		default:
			return nil, ErrUnsupportedSyntax.New(sqlparser.String(c))
		}
	case sqlparser.NotLikeStr:
		right, err := exprToExpression(c.Right)
		if err != nil {
			return nil, err
		}
		return expression.NewNot(expression.NewComparison(expression.Like, left, right)), nil
	}

	op, ok := comparisonOps[c.Operator]
	if !ok {
		return nil, ErrUnsupportedFeature.New(c.Operator)
	}

	right, err := exprToExpression(c.Right)
	if err != nil {
		return nil, err
	}

	return expression.NewComparison(op, left, right), nil
}

var arithmeticOps = map[string]expression.ArithmeticOp{
	sqlparser.PlusStr:  expression.Plus,
	sqlparser.MinusStr: expression.Minus,
	sqlparser.MultStr:  expression.Mult,
	sqlparser.DivStr:   expression.Div,
}

func binaryExprToExpression(be *sqlparser.BinaryExpr) (sql.Expression, error) {
	op, ok := arithmeticOps[be.Operator]
	if !ok {
		return nil, ErrUnsupportedFeature.New(be.Operator)
	}

	l, err := exprToExpression(be.Left)
	if err != nil {
		return nil, err
	}

	r, err := exprToExpression(be.Right)
	if err != nil {
		return nil, err
	}

	return expression.NewArithmetic(op, l, r), nil
}

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/transform"
)

func countCasts(n sql.Node) int {
	var count int
	_ = transform.Inspect(n, func(n sql.Node) bool {
		if c, ok := n.(*expression.Cast); ok && c.Implicit {
			count++
		}
		return true
	})
	return count
}

func firstProjection(t *testing.T, n *plan.Cursor) sql.Expression {
	t.Helper()
	return topSelect(t, n).Projections[0].Expression
}

func TestComputeTypes(t *testing.T) {
	testCases := []struct {
		query    string
		expected sql.Type
	}{
		{"SELECT n FROM t", sql.NewType(sql.Integer, true)},
		{"SELECT id FROM u", sql.NewType(sql.Integer, false)},
		{"SELECT n + 1 FROM t", sql.NewType(sql.Integer, true)},
		{"SELECT id * 2 FROM u", sql.NewType(sql.Integer, false)},
		{"SELECT total * 2 FROM orders", sql.NewDecimal(20, 2, true)},
		{"SELECT total + 1.5 FROM orders", sql.NewDecimal(11, 2, true)},
		{"SELECT n = 1 FROM t", sql.NewType(sql.Boolean, true)},
		{"SELECT id = 1 AND id > 0 FROM u", sql.NewType(sql.Boolean, false)},
		{"SELECT NOT active FROM events", sql.NewType(sql.Boolean, true)},
		{"SELECT n IS NULL FROM t", sql.BooleanNotNull},
		{"SELECT n IN (1, 2) FROM t", sql.NewType(sql.Boolean, true)},
		{"SELECT COALESCE(n, 1.5) FROM t", sql.NewDecimal(11, 1, true)},
		{"SELECT CASE WHEN n > 1 THEN 'a' ELSE 'bcd' END FROM t", sql.NewString(sql.Char, 3, false)},
		{"SELECT CASE WHEN n > 1 THEN 'a' END FROM t", sql.NewString(sql.Char, 1, true)},
		{"SELECT CAST(n AS CHAR(5)) FROM t", sql.NewString(sql.Char, 5, true)},
		{"SELECT (SELECT id FROM u WHERE u.id = 1) FROM t", sql.NewType(sql.Integer, true)},
		{"SELECT n IN (SELECT id FROM u) FROM t", sql.NewType(sql.Boolean, true)},
	}

	for _, tt := range testCases {
		t.Run(tt.query, func(t *testing.T) {
			require := require.New(t)
			n, err := runRules(t, tt.query, bind, computeTypes)
			require.NoError(err)
			require.Equal(tt.expected, firstProjection(t, n).Type())
		})
	}
}

func TestComputeTypesArithmeticCast(t *testing.T) {
	testCases := []struct {
		query  string
		result sql.Type
		cast   sql.Type
	}{
		{
			"SELECT n + '1' FROM t",
			sql.NewType(sql.Integer, true),
			sql.NewType(sql.Integer, false),
		},
		{
			"SELECT '2' * id FROM u",
			sql.NewType(sql.Integer, false),
			sql.NewType(sql.Integer, false),
		},
		{
			"SELECT total + '1.5' FROM orders",
			sql.NewDecimal(17, 5, true),
			sql.NewDecimal(16, 5, false),
		},
		{
			"SELECT n + name FROM t",
			sql.NewType(sql.Integer, true),
			sql.NewType(sql.Integer, true),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.query, func(t *testing.T) {
			require := require.New(t)
			n, err := runRules(t, tt.query, bind, computeTypes)
			require.NoError(err)

			require.Equal(1, countCasts(n))

			a := firstProjection(t, n).(*expression.Arithmetic)
			require.Equal(tt.result, a.Type())

			var cast *expression.Cast
			if c, ok := a.Left.(*expression.Cast); ok {
				cast = c
			} else {
				cast = a.Right.(*expression.Cast)
			}
			require.True(cast.Implicit)
			require.Equal(tt.cast, cast.Type())
			require.True(cast.Child.Type().Family.IsString())
		})
	}
}

func TestComputeTypesComparisonCast(t *testing.T) {
	require := require.New(t)

	n, err := runRules(t, "SELECT name FROM u WHERE name = id", bind, normalizeConditions, computeTypes)
	require.NoError(err)
	require.Equal(1, countCasts(n))

	cmp := topSelect(t, n).Where.(*expression.And).Left.(*expression.Comparison)
	cast, ok := cmp.Right.(*expression.Cast)
	require.True(ok)
	require.Equal(sql.NewType(sql.Integer, true), cast.Type())
	require.Equal(sql.NewType(sql.Boolean, true), cmp.Type())

	n, err = runRules(t, "SELECT name FROM t WHERE name = 'x'", bind, normalizeConditions, computeTypes)
	require.NoError(err)
	require.Equal(0, countCasts(n))
}

func TestComputeTypesIdempotent(t *testing.T) {
	require := require.New(t)

	n, err := runRules(t, "SELECT n + '1' FROM t WHERE name = n", bind, normalizeConditions, computeTypes, computeTypes)
	require.NoError(err)
	require.Equal(2, countCasts(n))
}

func TestComputeTypesDerivedColumns(t *testing.T) {
	require := require.New(t)

	n, err := runRules(t, "SELECT x.total FROM (SELECT total FROM orders) AS x", bind, computeTypes)
	require.NoError(err)
	require.Equal(sql.NewDecimal(10, 2, true), firstProjection(t, n).Type())

	// Declared column lists get the projected types.
	inner := plan.NewSelect(
		[]*plan.ResultColumn{plan.NewResultColumn("id", expression.NewColumnRef("id"))},
		[]plan.FromItem{plan.NewFromTable("", "u", "")},
		nil,
	)
	outer := plan.NewSelect(
		[]*plan.ResultColumn{plan.NewResultColumn("k", expression.NewQualifiedColumnRef("x", "k"))},
		[]plan.FromItem{plan.NewFromSubquery(inner, "x", "k")},
		nil,
	)

	ctx := sql.NewEmptyContext()
	a := NewDefault(newTestCatalog(t))
	root, err := bind(ctx, a, plan.NewCursor(outer))
	require.NoError(err)
	_, err = computeTypes(ctx, a, root)
	require.NoError(err)

	sq := outer.From[0].(*plan.FromSubquery)
	require.Equal([]sql.Type{sql.NewType(sql.Integer, false)}, sq.ColumnTypes)
	require.Equal(sql.NewType(sql.Integer, false), outer.Projections[0].Expression.Type())
}

func TestComputeTypesErrors(t *testing.T) {
	testCases := []struct {
		query string
		err   *errors.Kind
	}{
		{"SELECT 1 FROM t WHERE n AND name = 'x'", sql.ErrNonBooleanOperand},
		{"SELECT NOT n FROM t", sql.ErrNonBooleanOperand},
		{"SELECT 1 FROM events WHERE born = active", sql.ErrTypesNotComparable},
		{"SELECT 1 FROM events WHERE active < 1", sql.ErrTypesNotComparable},
		{"SELECT born + 1 FROM events", sql.ErrUnsupportedArithmetic},
		{"SELECT name + name FROM t", sql.ErrUnsupportedArithmetic},
		{"SELECT n + 'abc' FROM t", sql.ErrInvalidLiteralConversion},
		{"SELECT CAST(active AS DATE) FROM events", ErrInvalidCast},
		{"SELECT COALESCE(n, born) FROM t, events", sql.ErrIncompatibleTypes},
		{"SELECT 1 FROM events WHERE born IN (SELECT active FROM events)", sql.ErrTypesNotComparable},
	}

	for _, tt := range testCases {
		t.Run(tt.query, func(t *testing.T) {
			require := require.New(t)
			_, err := runRules(t, tt.query, bind, normalizeConditions, computeTypes)
			require.Error(err)
			require.True(tt.err.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestComputeTypesNonBooleanClause(t *testing.T) {
	testCases := []string{
		"SELECT 1 FROM t WHERE n",
		"SELECT n FROM t GROUP BY n HAVING n + 1",
		"SELECT 1 FROM t JOIN u ON t.n + u.id",
	}

	for _, q := range testCases {
		t.Run(q, func(t *testing.T) {
			require := require.New(t)
			_, err := runRules(t, q, bind, computeTypes)
			require.Error(err)
			require.True(sql.ErrNonBooleanClause.Is(err), "unexpected error: %s", err)
		})
	}
}

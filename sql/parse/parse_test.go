package parse

import (
	"testing"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var integerNotNull = sql.NewType(sql.Integer, false)

var fixtures = map[string]sql.Node{
	`SELECT a, b FROM t WHERE a = 1`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("a", expression.NewColumnRef("a")),
				plan.NewResultColumn("b", expression.NewColumnRef("b")),
			},
			[]plan.FromItem{plan.NewFromTable("", "t", "")},
			expression.NewEquals(
				expression.NewColumnRef("a"),
				expression.NewLiteral(int64(1), integerNotNull),
			),
		),
	),
	`SELECT * FROM s.T AS X;`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("*", expression.NewStar()),
			},
			[]plan.FromItem{plan.NewFromTable("s", "t", "x")},
			nil,
		),
	),
	`SELECT t.* FROM t JOIN u ON t.id = u.tid`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("t.*", expression.NewQualifiedStar("t")),
			},
			[]plan.FromItem{
				plan.NewInnerJoin(
					plan.NewFromTable("", "t", ""),
					plan.NewFromTable("", "u", ""),
					expression.NewEquals(
						expression.NewQualifiedColumnRef("t", "id"),
						expression.NewQualifiedColumnRef("u", "tid"),
					),
				),
			},
			nil,
		),
	),
	`SELECT a FROM t LEFT JOIN u ON t.id = u.tid`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("a", expression.NewColumnRef("a")),
			},
			[]plan.FromItem{
				plan.NewJoin(
					plan.LeftOuterJoin,
					plan.NewFromTable("", "t", ""),
					plan.NewFromTable("", "u", ""),
					expression.NewEquals(
						expression.NewQualifiedColumnRef("t", "id"),
						expression.NewQualifiedColumnRef("u", "tid"),
					),
				),
			},
			nil,
		),
	),
	`SELECT a FROM t WHERE b IN (SELECT c FROM u)`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("a", expression.NewColumnRef("a")),
			},
			[]plan.FromItem{plan.NewFromTable("", "t", "")},
			plan.NewInSubquery(
				expression.NewColumnRef("b"),
				plan.NewSelect(
					[]*plan.ResultColumn{
						plan.NewResultColumn("c", expression.NewColumnRef("c")),
					},
					[]plan.FromItem{plan.NewFromTable("", "u", "")},
					nil,
				),
				false,
			),
		),
	),
	`SELECT a FROM t WHERE b NOT IN (1, 2)`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("a", expression.NewColumnRef("a")),
			},
			[]plan.FromItem{plan.NewFromTable("", "t", "")},
			expression.NewNotInList(
				expression.NewColumnRef("b"),
				expression.NewLiteral(int64(1), integerNotNull),
				expression.NewLiteral(int64(2), integerNotNull),
			),
		),
	),
	`SELECT a FROM t WHERE EXISTS (SELECT c FROM u WHERE u.c = t.a) AND b IS NOT NULL`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("a", expression.NewColumnRef("a")),
			},
			[]plan.FromItem{plan.NewFromTable("", "t", "")},
			expression.NewAnd(
				plan.NewExistsSubquery(
					plan.NewSelect(
						[]*plan.ResultColumn{
							plan.NewResultColumn("c", expression.NewColumnRef("c")),
						},
						[]plan.FromItem{plan.NewFromTable("", "u", "")},
						expression.NewEquals(
							expression.NewQualifiedColumnRef("u", "c"),
							expression.NewQualifiedColumnRef("t", "a"),
						),
					),
				),
				expression.NewNot(expression.NewIsNull(expression.NewColumnRef("b"))),
			),
		),
	),
	`SELECT a + '1' AS s FROM t`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("s", expression.NewPlus(
					expression.NewColumnRef("a"),
					expression.NewLiteral("1", sql.NewString(sql.Char, 1, false)),
				)),
			},
			[]plan.FromItem{plan.NewFromTable("", "t", "")},
			nil,
		),
	),
	`SELECT x.a FROM (SELECT a FROM t) AS x`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("a", expression.NewQualifiedColumnRef("x", "a")),
			},
			[]plan.FromItem{
				plan.NewFromSubquery(
					plan.NewSelect(
						[]*plan.ResultColumn{
							plan.NewResultColumn("a", expression.NewColumnRef("a")),
						},
						[]plan.FromItem{plan.NewFromTable("", "t", "")},
						nil,
					),
					"x",
				),
			},
			nil,
		),
	),
	`SELECT CAST(a AS DECIMAL(10, 2)) AS c, COALESCE(a, 0) AS d FROM t`: plan.NewCursor(
		plan.NewSelect(
			[]*plan.ResultColumn{
				plan.NewResultColumn("c", expression.NewCast(
					expression.NewColumnRef("a"),
					sql.NewDecimal(10, 2, true),
				)),
				plan.NewResultColumn("d", expression.NewCoalesce(
					expression.NewColumnRef("a"),
					expression.NewLiteral(int64(0), integerNotNull),
				)),
			},
			[]plan.FromItem{plan.NewFromTable("", "t", "")},
			nil,
		),
	),
	`SELECT a FROM t UNION ALL SELECT b FROM u`: plan.NewCursor(
		plan.NewUnion(
			plan.NewSelect(
				[]*plan.ResultColumn{
					plan.NewResultColumn("a", expression.NewColumnRef("a")),
				},
				[]plan.FromItem{plan.NewFromTable("", "t", "")},
				nil,
			),
			plan.NewSelect(
				[]*plan.ResultColumn{
					plan.NewResultColumn("b", expression.NewColumnRef("b")),
				},
				[]plan.FromItem{plan.NewFromTable("", "u", "")},
				nil,
			),
			true,
		),
	),
}

func TestParse(t *testing.T) {
	for query, expected := range fixtures {
		t.Run(query, func(t *testing.T) {
			require := require.New(t)
			ctx := sql.NewEmptyContext()
			p, err := Parse(ctx, query)
			require.Nil(err, "error for query '%s'", query)
			require.Exactly(expected, p,
				"trees do not match for query '%s'", query)
		})
	}
}

func TestParseSelectClauses(t *testing.T) {
	require := require.New(t)

	p, err := Parse(sql.NewEmptyContext(), `SELECT DISTINCT a FROM t GROUP BY a HAVING a > 1 ORDER BY a DESC LIMIT 10 OFFSET 5`)
	require.NoError(err)

	s, ok := p.Query.(*plan.Select)
	require.True(ok)
	require.True(s.Distinct)
	require.False(s.IsSimple())
	require.Equal([]sql.Expression{expression.NewColumnRef("a")}, s.GroupBy)
	require.Equal(
		expression.NewComparison(
			expression.GreaterThan,
			expression.NewColumnRef("a"),
			expression.NewLiteral(int64(1), integerNotNull),
		),
		s.Having,
	)
	require.Equal([]*plan.OrderByColumn{plan.NewOrderByColumn(expression.NewColumnRef("a"), true)}, s.OrderBy)
	require.Equal(expression.NewLiteral(int64(10), integerNotNull), s.FetchFirst)
	require.Equal(expression.NewLiteral(int64(5), integerNotNull), s.Offset)
}

func TestParseLiteralTypes(t *testing.T) {
	testCases := []struct {
		literal  string
		expected sql.Type
	}{
		{"1", integerNotNull},
		{"-5", integerNotNull},
		{"2147483648", sql.NewType(sql.BigInt, false)},
		{"99999999999999999999", sql.NewDecimal(20, 0, false)},
		{"12.345", sql.NewDecimal(5, 3, false)},
		{"0.05", sql.NewDecimal(2, 2, false)},
		{"1e3", sql.NewType(sql.Double, false)},
		{"'abc'", sql.NewString(sql.Char, 3, false)},
		{"true", sql.BooleanNotNull},
		{"NULL", sql.NullType},
	}

	for _, tt := range testCases {
		t.Run(tt.literal, func(t *testing.T) {
			require := require.New(t)
			p, err := Parse(sql.NewEmptyContext(), "SELECT "+tt.literal+" AS v FROM t")
			require.NoError(err)

			s := p.Query.(*plan.Select)
			require.Len(s.Projections, 1)
			require.Equal(tt.expected, s.Projections[0].Expression.Type())
		})
	}
}

func TestParseDecimalLiteral(t *testing.T) {
	require := require.New(t)

	p, err := Parse(sql.NewEmptyContext(), "SELECT 12.345 AS v FROM t")
	require.NoError(err)

	lit, ok := p.Query.(*plan.Select).Projections[0].Expression.(*expression.Literal)
	require.True(ok)
	require.True(decimal.RequireFromString("12.345").Equal(lit.Value.(decimal.Decimal)))
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		query string
		kind  interface{ Is(error) bool }
	}{
		{`INSERT INTO t VALUES (1)`, ErrUnsupportedSyntax},
		{`SELECT upper(a) FROM t`, ErrUnsupportedFeature},
		{`SELECT a FROM t NATURAL JOIN u`, ErrUnsupportedFeature},
		{`SELECT a FROM t WHERE a = :v`, ErrUnsupportedFeature},
		{`SELECT a FROM t WHERE a = b % 2`, ErrUnsupportedFeature},
		{`SELECT 0x1FFFFFFFFFFFFFFFF FROM t`, ErrInvalidLiteral},
	}

	for _, tt := range testCases {
		t.Run(tt.query, func(t *testing.T) {
			require := require.New(t)
			_, err := Parse(sql.NewEmptyContext(), tt.query)
			require.Error(err)
			require.True(tt.kind.Is(err), "unexpected error: %s", err)
		})
	}

	_, err := Parse(sql.NewEmptyContext(), `SELECT FROM WHERE`)
	require.Error(t, err)
}

func TestParseWithoutFrom(t *testing.T) {
	for _, query := range []string{`SELECT 1 + 2 AS v`, `SELECT 1 + 2 AS v FROM dual`, `SELECT 1 + 2 AS v FROM DUAL`} {
		t.Run(query, func(t *testing.T) {
			require := require.New(t)

			p, err := Parse(sql.NewEmptyContext(), query)
			require.NoError(err)

			s := p.Query.(*plan.Select)
			require.Len(s.From, 0)
			require.Equal("Select((1 + 2) AS v)", s.String())
		})
	}
}

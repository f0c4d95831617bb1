package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brunoribeiro/sql-parser-sub002/memory"
	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/parse"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/transform"
)

const testCatalog = `
schemas:
  - name: test
    tables:
      - name: customers
        columns:
          - {name: id, type: INTEGER NOT NULL}
          - {name: name, type: VARCHAR(32)}
        primary_key: [id]
        group: coi
      - name: orders
        columns:
          - {name: id, type: INTEGER NOT NULL}
          - {name: customer_id, type: INTEGER NOT NULL}
          - {name: total, type: "DECIMAL(10,2)"}
        primary_key: [id]
        parent:
          table: customers
          columns: [{child: customer_id, parent: id}]
      - name: items
        columns:
          - {name: id, type: INTEGER NOT NULL}
          - {name: order_id, type: INTEGER NOT NULL}
          - {name: qty, type: INTEGER}
        primary_key: [id]
        parent:
          table: orders
          columns: [{child: order_id, parent: id}]
      - name: t
        columns:
          - {name: name, type: VARCHAR(10)}
          - {name: n, type: INTEGER}
      - name: u
        columns:
          - {name: id, type: INTEGER NOT NULL}
          - {name: name, type: VARCHAR(10)}
        primary_key: [id]
      - name: events
        columns:
          - {name: born, type: DATE}
          - {name: active, type: BOOLEAN}
  - name: other
    tables:
      - name: t
        columns:
          - {name: name, type: VARCHAR(20)}
`

func newTestCatalog(t *testing.T) *memory.Catalog {
	t.Helper()
	c, err := memory.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)
	return c
}

func parseQuery(t *testing.T, query string) *plan.Cursor {
	t.Helper()
	n, err := parse.Parse(sql.NewEmptyContext(), query)
	require.NoError(t, err)
	return n
}

// runRules parses the query and applies the given rules in order with a
// default analyzer.
func runRules(t *testing.T, query string, rules ...RuleFunc) (*plan.Cursor, error) {
	t.Helper()
	return runRulesWith(t, NewDefault(newTestCatalog(t)), query, rules...)
}

func runRulesWith(t *testing.T, a *Analyzer, query string, rules ...RuleFunc) (*plan.Cursor, error) {
	t.Helper()
	ctx := sql.NewEmptyContext()
	var n sql.Node = parseQuery(t, query)
	for _, rule := range rules {
		var err error
		if n, err = rule(ctx, a, n); err != nil {
			return nil, err
		}
	}
	return n.(*plan.Cursor), nil
}

func analyzeQuery(t *testing.T, a *Analyzer, query string) *plan.Cursor {
	t.Helper()
	n, err := a.Analyze(sql.NewEmptyContext(), parseQuery(t, query))
	require.NoError(t, err)
	return n.(*plan.Cursor)
}

func topSelect(t *testing.T, c *plan.Cursor) *plan.Select {
	t.Helper()
	s, ok := c.Query.(*plan.Select)
	require.True(t, ok, "query is a %T", c.Query)
	return s
}

func columnRefs(n sql.Node) []*expression.ColumnRef {
	var refs []*expression.ColumnRef
	_ = transform.Inspect(n, func(n sql.Node) bool {
		if c, ok := n.(*expression.ColumnRef); ok {
			refs = append(refs, c)
		}
		return true
	})
	return refs
}

func findColumnRef(t *testing.T, n sql.Node, name string) *expression.ColumnRef {
	t.Helper()
	for _, c := range columnRefs(n) {
		if c.String() == name {
			return c
		}
	}
	require.FailNow(t, "column reference not found", name)
	return nil
}

func findSubqueries(n sql.Node) []*plan.Subquery {
	var result []*plan.Subquery
	_ = transform.Inspect(n, func(n sql.Node) bool {
		if s, ok := n.(*plan.Subquery); ok {
			result = append(result, s)
		}
		return true
	})
	return result
}

func conjunctStrings(e sql.Expression) []string {
	var result []string
	for _, c := range expression.SplitConjunction(e) {
		result = append(result, c.String())
	}
	return result
}

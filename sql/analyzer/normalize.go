package analyzer

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/transform"
)

// normalizeConditions turns every WHERE, HAVING and ON clause into a
// right-deep chain of conjunctions terminated by TRUE. Disjunctions and
// negations are kept as single conjuncts.
func normalizeConditions(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, _ := ctx.Span("normalize_conditions")
	defer span.Finish()

	return transform.Node(n, func(n sql.Node) (sql.Node, error) {
		switch n := n.(type) {
		case *plan.Select:
			if n.Where != nil {
				n.Where = expression.JoinAnd(n.Where)
			}
			if n.Having != nil {
				n.Having = expression.JoinAnd(n.Having)
			}
		case *plan.JoinNode:
			if n.On != nil {
				n.On = expression.JoinAnd(n.On)
			}
		}
		return n, nil
	})
}

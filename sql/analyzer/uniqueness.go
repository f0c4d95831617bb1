package analyzer

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/transform"
)

// UniquenessProver decides whether a select returns at most one row for
// each row of the query enclosing it.
type UniquenessProver interface {
	// Unique reports whether the select is proven to return at most one
	// row, assuming the given extra conditions hold.
	Unique(s *plan.Select, assumed ...sql.Expression) bool
}

// PermissiveUniqueness considers every select unique. Flattening with it
// may duplicate rows of the enclosing query.
type PermissiveUniqueness struct{}

// Unique implements the UniquenessProver interface.
func (PermissiveUniqueness) Unique(*plan.Select, ...sql.Expression) bool {
	return true
}

// KeyUniqueness proves uniqueness when every table of the select has all
// of its primary key columns fixed by equality conditions. A column is
// fixed when it equals an expression that only depends on constants, on
// outer queries or on tables already proven to contribute a single row.
type KeyUniqueness struct{}

// Unique implements the UniquenessProver interface.
func (KeyUniqueness) Unique(s *plan.Select, assumed ...sql.Expression) bool {
	var tables []*sql.TableBinding
	var conditions []sql.Expression
	for _, f := range s.From {
		var ok bool
		if tables, conditions, ok = collectUniqueCandidates(tables, conditions, f); !ok {
			return false
		}
	}
	if len(tables) == 0 {
		return false
	}

	conditions = append(conditions, expression.SplitConjunction(s.Where)...)
	conditions = append(conditions, assumed...)

	var equalities []*expression.Comparison
	for _, c := range conditions {
		if cmp, ok := c.(*expression.Comparison); ok && cmp.Op == expression.Equals {
			equalities = append(equalities, cmp)
		}
	}

	local := make(map[*sql.TableBinding]bool, len(tables))
	for _, t := range tables {
		local[t] = true
	}

	fixed := make(map[*sql.TableBinding]bool, len(tables))
	for changed := true; changed; {
		changed = false
		for _, t := range tables {
			if fixed[t] || !keyFixed(t, equalities, local, fixed) {
				continue
			}
			fixed[t] = true
			changed = true
		}
	}

	return len(fixed) == len(tables)
}

func collectUniqueCandidates(
	tables []*sql.TableBinding,
	conditions []sql.Expression,
	f plan.FromItem,
) ([]*sql.TableBinding, []sql.Expression, bool) {
	switch f := f.(type) {
	case *plan.FromTable:
		if f.Binding == nil || f.Binding.IsDerived() {
			return nil, nil, false
		}
		return append(tables, f.Binding), conditions, true
	case *plan.JoinNode:
		var ok bool
		if tables, conditions, ok = collectUniqueCandidates(tables, conditions, f.Left); !ok {
			return nil, nil, false
		}
		if tables, conditions, ok = collectUniqueCandidates(tables, conditions, f.Right); !ok {
			return nil, nil, false
		}
		if f.Kind == plan.InnerJoin {
			conditions = append(conditions, expression.SplitConjunction(f.On)...)
		}
		return tables, conditions, true
	default:
		return nil, nil, false
	}
}

func keyFixed(
	t *sql.TableBinding,
	equalities []*expression.Comparison,
	local, fixed map[*sql.TableBinding]bool,
) bool {
	pk := t.Table.PrimaryKey()
	if len(pk) == 0 {
		return false
	}

	for _, col := range pk {
		var found bool
		for _, eq := range equalities {
			if isColumnOf(eq.Left, t, col) && determined(eq.Right, local, fixed) ||
				isColumnOf(eq.Right, t, col) && determined(eq.Left, local, fixed) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func isColumnOf(e sql.Expression, t *sql.TableBinding, col sql.Column) bool {
	ref, ok := e.(*expression.ColumnRef)
	if !ok || ref.Binding == nil || ref.Binding.Column == nil {
		return false
	}
	return ref.Binding.Table == t && ref.Binding.Column.Name() == col.Name()
}

// determined reports whether the expression has a single value for each
// row of the outer queries and of the fixed tables.
func determined(e sql.Expression, local, fixed map[*sql.TableBinding]bool) bool {
	ok := true
	_ = transform.Inspect(e, func(n sql.Node) bool {
		switch n := n.(type) {
		case *plan.Subquery:
			ok = false
		case *expression.ColumnRef:
			if n.Binding == nil {
				ok = false
			} else if local[n.Binding.Table] && !fixed[n.Binding.Table] {
				ok = false
			}
		}
		return ok
	})
	return ok
}

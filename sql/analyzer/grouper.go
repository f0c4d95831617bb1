package analyzer

import (
	"sort"
	"strconv"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/transform"
)

func groupTables(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, _ := ctx.Span("group_tables")
	defer span.Finish()

	g := NewGrouper(a)
	if err := g.Group(n); err != nil {
		return nil, err
	}
	return g.Rewrite(n)
}

// Grouper recognizes the joins of a statement that follow the parent/child
// relationships declared between the tables of a group, and collapses the
// tables they join into a single access to the group table.
type Grouper struct {
	a        *Analyzer
	prefix   string
	aliases  int
	absorbed map[*expression.Comparison]struct{}
}

// NewGrouper creates a Grouper generating aliases with the prefix the
// analyzer is configured with.
func NewGrouper(a *Analyzer) *Grouper {
	prefix := DefaultGroupAliasPrefix
	if a != nil && a.GroupAliasPrefix != "" {
		prefix = a.GroupAliasPrefix
	}
	return &Grouper{
		a:        a,
		prefix:   prefix,
		absorbed: make(map[*expression.Comparison]struct{}),
	}
}

// Group assigns a group binding to every table of the statement that
// belongs to a group and records the join conditions the group accesses
// make redundant. The tree is not modified.
func (g *Grouper) Group(n sql.Node) error {
	return transform.Inspect(n, func(n sql.Node) bool {
		if s, ok := n.(*plan.Select); ok {
			g.groupSelect(s)
		}
		return true
	})
}

// columnKey identifies a column of a table in a FROM list.
type columnKey struct {
	table  *sql.TableBinding
	column string
}

func (g *Grouper) groupSelect(s *plan.Select) {
	var tables []*sql.TableBinding
	var conditions []sql.Expression
	for _, f := range s.From {
		tables, conditions = collectGroupCandidates(tables, conditions, f)
	}
	if len(tables) == 0 {
		return
	}
	conditions = append(conditions, expression.SplitConjunction(s.Where)...)

	candidate := make(map[*sql.TableBinding]bool, len(tables))
	for _, t := range tables {
		candidate[t] = true
	}

	index := make(map[columnKey][]*expression.Comparison)
	for _, c := range conditions {
		l, r, ok := expression.IsColumnEquality(c)
		if !ok || !groupedColumn(l, candidate) || !groupedColumn(r, candidate) {
			continue
		}
		cmp := c.(*expression.Comparison)
		for _, ref := range []*expression.ColumnRef{l, r} {
			key := columnKey{ref.Binding.Table, ref.Binding.Column.Name()}
			index[key] = append(index[key], cmp)
		}
	}

	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].Table.Depth() < tables[j].Table.Depth()
	})

	for i, t := range tables {
		if t.Group != nil {
			continue
		}

		if p, matched := g.matchParent(t, tables[:i], index); p != nil {
			t.Group = p.Group
			for _, cmp := range matched {
				g.absorbed[cmp] = struct{}{}
			}
			g.a.Log("table %s joins its parent %s in group access %s", t, p, t.Group.Alias)
			continue
		}

		g.aliases++
		t.Group = &sql.GroupBinding{
			Group: t.Table.Group(),
			Alias: g.prefix + strconv.Itoa(g.aliases),
		}
		g.a.Log("table %s starts group access %s", t, t.Group.Alias)
	}
}

// collectGroupCandidates returns the tables of the FROM item that belong to
// a group, along with the ON conditions linking them. Tables under an outer
// join are never candidates.
func collectGroupCandidates(
	tables []*sql.TableBinding,
	conditions []sql.Expression,
	f plan.FromItem,
) ([]*sql.TableBinding, []sql.Expression) {
	switch f := f.(type) {
	case *plan.FromTable:
		if f.Binding != nil && !f.Binding.IsDerived() && f.Binding.Table.Group() != nil {
			tables = append(tables, f.Binding)
		}
	case *plan.JoinNode:
		if f.Kind != plan.InnerJoin {
			break
		}
		tables, conditions = collectGroupCandidates(tables, conditions, f.Left)
		tables, conditions = collectGroupCandidates(tables, conditions, f.Right)
		conditions = append(conditions, expression.SplitConjunction(f.On)...)
	}
	return tables, conditions
}

func groupedColumn(ref *expression.ColumnRef, candidate map[*sql.TableBinding]bool) bool {
	return ref.Binding != nil && ref.Binding.Column != nil && candidate[ref.Binding.Table]
}

// matchParent looks for a table bound to the declared parent of t whose key
// columns are all joined to t's. The first one found wins. The equalities
// the match relies on are returned along with it.
func (g *Grouper) matchParent(
	t *sql.TableBinding,
	previous []*sql.TableBinding,
	index map[columnKey][]*expression.Comparison,
) (*sql.TableBinding, []*expression.Comparison) {
	join := t.Table.ParentJoin()
	if join == nil {
		return nil, nil
	}

	for _, p := range previous {
		if p.Table.QualifiedName() != join.Parent.QualifiedName() || p.Group == nil {
			continue
		}

		matched := make([]*expression.Comparison, 0, len(join.Columns))
		for _, jc := range join.Columns {
			cmp := commonCondition(
				index[columnKey{t, jc.Child.Name()}],
				index[columnKey{p, jc.Parent.Name()}],
			)
			if cmp == nil {
				break
			}
			matched = append(matched, cmp)
		}

		if len(matched) == len(join.Columns) {
			return p, matched
		}
	}

	return nil, nil
}

// commonCondition returns the first comparison present in both lists.
func commonCondition(a, b []*expression.Comparison) *expression.Comparison {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return x
			}
		}
	}
	return nil
}

// Rewrite replaces the FROM entries of grouped tables with group table
// accesses, reduces absorbed conditions to TRUE and makes the column
// references to grouped tables point to the group table.
func (g *Grouper) Rewrite(n sql.Node) (sql.Node, error) {
	return transform.Node(n, func(n sql.Node) (sql.Node, error) {
		switch n := n.(type) {
		case *plan.Select:
			g.rewriteFrom(n)
		case *expression.And:
			if cmp, ok := n.Left.(*expression.Comparison); ok {
				if _, absorbed := g.absorbed[cmp]; absorbed {
					n.Left = expression.NewTrue()
				}
			}
		case *expression.ColumnRef:
			b := n.Binding
			if b == nil || b.Column == nil || b.Table.Group == nil {
				return n, nil
			}
			ref := &expression.ColumnRef{
				Table:   b.Table.Group.Alias,
				Name:    b.Column.GroupColumnName(),
				Binding: b,
			}
			ref.SetType(n.Type())
			return ref, nil
		}
		return n, nil
	})
}

func (g *Grouper) rewriteFrom(s *plan.Select) {
	seen := make(map[*sql.GroupBinding]bool)
	var from []plan.FromItem
	for _, f := range s.From {
		if f = g.rewriteFromItem(s, f, seen); f != nil {
			from = append(from, f)
		}
	}
	s.From = from
}

// rewriteFromItem returns the FROM item replacing f, or nil if f must be
// removed. Joins losing one of their sides have their ON condition moved
// to the WHERE clause.
func (g *Grouper) rewriteFromItem(s *plan.Select, f plan.FromItem, seen map[*sql.GroupBinding]bool) plan.FromItem {
	switch f := f.(type) {
	case *plan.FromTable:
		if f.Binding == nil || f.Binding.Group == nil {
			return f
		}
		gb := f.Binding.Group
		if seen[gb] {
			return nil
		}
		seen[gb] = true
		return plan.NewFromGroupTable(gb)
	case *plan.JoinNode:
		left := g.rewriteFromItem(s, f.Left, seen)
		right := g.rewriteFromItem(s, f.Right, seen)
		if left != nil && right != nil {
			f.Left, f.Right = left, right
			return f
		}

		if f.On != nil {
			s.Where = expression.AppendConjunction(s.Where, f.On)
		}
		if left != nil {
			return left
		}
		return right
	default:
		return f
	}
}

package analyzer

import (
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/brunoribeiro/sql-parser-sub002/sql/plan"
	"github.com/brunoribeiro/sql-parser-sub002/sql/transform"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrDerivedColumnCount is returned when the declared column list of a
// derived table does not match the columns its query projects.
var ErrDerivedColumnCount = errors.NewKind("derived table %s declares %d columns, but its query projects %d")

func bind(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("bind")
	defer span.Finish()

	b := &binder{ctx: ctx, a: a, catalog: a.Catalog}
	return transform.Walk(b, n)
}

// binder resolves table and column references. It pushes a scope when it
// enters a select and pops it when it leaves it.
type binder struct {
	ctx     *sql.Context
	a       *Analyzer
	catalog sql.Catalog
	scopes  scopes
}

var _ transform.Visitor = (*binder)(nil)

func (b *binder) Order() transform.Order {
	return transform.PostOrder
}

func (b *binder) Before(n sql.Node) (bool, error) {
	switch n := n.(type) {
	case *plan.Select:
		b.scopes.push()
		if err := b.bindFrom(n); err != nil {
			return false, err
		}
		if err := b.expandStars(n); err != nil {
			return false, err
		}
		return true, nil
	case *plan.FromTable, *plan.FromSubquery:
		// Already bound when the select was entered.
		return false, nil
	default:
		return true, nil
	}
}

func (b *binder) After(n sql.Node) (sql.Node, error) {
	switch n := n.(type) {
	case *plan.Select:
		b.scopes.pop()
	case *expression.ColumnRef:
		if n.Binding != nil {
			return n, nil
		}
		if err := b.bindColumn(n); err != nil {
			return nil, err
		}
	case *expression.Star:
		return nil, sql.ErrUnboundNode.New(n)
	}
	return n, nil
}

// bindFrom binds the FROM list of the select and registers its entries in
// the current scope. Derived tables are bound first, so they can not see
// their siblings.
func (b *binder) bindFrom(s *plan.Select) error {
	var items []plan.FromItem
	for _, f := range s.From {
		items = appendFromLeaves(items, f)
	}

	for _, item := range items {
		if sq, ok := item.(*plan.FromSubquery); ok {
			if _, err := transform.Walk(b, sq.Query); err != nil {
				return err
			}
		}
	}

	sc := b.scopes.current()
	for _, item := range items {
		var tb *sql.TableBinding
		switch item := item.(type) {
		case *plan.FromTable:
			t, err := b.lookupTable(item.Schema, item.Name)
			if err != nil {
				return err
			}

			tb = &sql.TableBinding{Table: t, Correlation: item.Correlation}
			item.Binding = tb
			b.a.Log("table %q bound to %s", item.String(), t.QualifiedName())
		case *plan.FromSubquery:
			var err error
			if tb, err = derivedBinding(item); err != nil {
				return err
			}
			item.Binding = tb
		}

		if tb.Correlation != "" {
			if err := sc.addCorrelation(tb.Correlation, tb); err != nil {
				return err
			}
		}
	}

	for _, item := range items {
		switch item := item.(type) {
		case *plan.FromTable:
			sc.tables = append(sc.tables, item.Binding)
		case *plan.FromSubquery:
			sc.tables = append(sc.tables, item.Binding)
		}
	}

	return nil
}

func appendFromLeaves(items []plan.FromItem, f plan.FromItem) []plan.FromItem {
	if j, ok := f.(*plan.JoinNode); ok {
		items = appendFromLeaves(items, j.Left)
		return appendFromLeaves(items, j.Right)
	}
	return append(items, f)
}

func (b *binder) lookupTable(schema, name string) (sql.Table, error) {
	if schema == "" {
		schema = b.ctx.DefaultSchema()
	}
	return b.catalog.Table(schema, name)
}

func derivedBinding(sq *plan.FromSubquery) (*sql.TableBinding, error) {
	projections := plan.ResultColumns(sq.Query)
	names := sq.ColumnNames
	if len(names) > 0 && len(names) != len(projections) {
		return nil, ErrDerivedColumnCount.New(sq.Correlation, len(names), len(projections))
	}

	tb := &sql.TableBinding{Correlation: sq.Correlation}
	for i, p := range projections {
		name := p.Name
		if len(names) > 0 {
			name = names[i]
		}
		tb.Columns = append(tb.Columns, &sql.DerivedColumn{
			Name:       name,
			Index:      i,
			Expression: p.Expression,
		})
	}
	return tb, nil
}

// expandStars replaces every star projection with one bound column per
// column of the tables it stands for.
func (b *binder) expandStars(s *plan.Select) error {
	var projections []*plan.ResultColumn
	for _, p := range s.Projections {
		star, ok := p.Expression.(*expression.Star)
		if !ok {
			projections = append(projections, p)
			continue
		}

		tables := b.scopes.current().tables
		if star.Table != "" {
			t, err := b.resolveTable("", star.Table)
			if err != nil {
				return err
			}
			tables = []*sql.TableBinding{t}
		}

		for _, t := range tables {
			projections = append(projections, starColumns(t)...)
		}
	}

	s.Projections = projections
	return nil
}

func starColumns(t *sql.TableBinding) []*plan.ResultColumn {
	var result []*plan.ResultColumn
	qualifier := t.ExposedName()
	if t.IsDerived() {
		for _, c := range t.Columns {
			ref := expression.NewQualifiedColumnRef(qualifier, c.Name)
			ref.Binding = &sql.ColumnBinding{Table: t, Derived: c}
			result = append(result, plan.NewResultColumn(c.Name, ref))
		}
		return result
	}

	for _, c := range t.Table.Columns() {
		ref := expression.NewQualifiedColumnRef(qualifier, c.Name())
		ref.Binding = &sql.ColumnBinding{Table: t, Column: c}
		result = append(result, plan.NewResultColumn(c.Name(), ref))
	}
	return result
}

func (b *binder) bindColumn(c *expression.ColumnRef) error {
	if c.IsQualified() {
		t, err := b.resolveTable(c.Schema, c.Table)
		if err != nil {
			return err
		}

		binding, ok := columnOf(t, c.Name)
		if !ok {
			return sql.ErrTableColumnNotFound.New(c.Table, c.Name)
		}

		c.Binding = binding
		b.a.Log("column %q bound to %s", c, t)
		return nil
	}

	// Unqualified names resolve in the innermost scope that has a column
	// with that name: inner tables shadow outer ones, and ambiguity is only
	// reported between tables of that one scope.
	for i := len(b.scopes) - 1; i >= 0; i-- {
		var matches []*sql.ColumnBinding
		for _, t := range b.scopes[i].tables {
			if binding, ok := columnOf(t, c.Name); ok {
				matches = append(matches, binding)
			}
		}

		switch len(matches) {
		case 0:
			continue
		case 1:
			c.Binding = matches[0]
			b.a.Log("column %q bound to %s", c, matches[0].Table)
			return nil
		default:
			var tables = make([]string, len(matches))
			for i, m := range matches {
				tables[i] = m.Table.ExposedName()
			}
			return sql.ErrAmbiguousColumn.New(c.Name, strings.Join(tables, ", "))
		}
	}

	return sql.ErrColumnNotFound.New(c.Name)
}

// resolveTable finds the table a qualified reference points to. Correlation
// names are looked up first. Otherwise, tables without a correlation name
// whose schema and name match are searched, innermost scope first: a table
// of an inner scope shadows the same table of an enclosing one.
func (b *binder) resolveTable(schema, name string) (*sql.TableBinding, error) {
	if schema == "" {
		if t, ok := b.scopes.current().correlations[name]; ok {
			return t, nil
		}
		schema = b.ctx.DefaultSchema()
	}

	qn := sql.NewQualifiedName(schema, name)
	for i := len(b.scopes) - 1; i >= 0; i-- {
		var matches []*sql.TableBinding
		for _, t := range b.scopes[i].tables {
			if t.IsDerived() || t.Correlation != "" {
				continue
			}
			if t.Table.QualifiedName() == qn {
				matches = append(matches, t)
			}
		}

		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return nil, sql.ErrAmbiguousTable.New(qn)
		}
	}

	return nil, sql.ErrTableNotFound.New(qn)
}

func columnOf(t *sql.TableBinding, name string) (*sql.ColumnBinding, bool) {
	if t.IsDerived() {
		dc, ok := t.DerivedColumn(name)
		if !ok {
			return nil, false
		}
		return &sql.ColumnBinding{Table: t, Derived: dc}, true
	}

	col, ok := t.Table.Column(name)
	if !ok {
		return nil, false
	}
	return &sql.ColumnBinding{Table: t, Column: col}, true
}

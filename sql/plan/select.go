package plan

import (
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// Select is a single query block.
type Select struct {
	Distinct    bool
	Projections []*ResultColumn
	From        []FromItem
	Where       sql.Expression
	GroupBy     []sql.Expression
	Having      sql.Expression
	OrderBy     []*OrderByColumn
	Offset      sql.Expression
	FetchFirst  sql.Expression
}

// NewSelect creates a new Select node with the given projections and FROM
// list.
func NewSelect(projections []*ResultColumn, from []FromItem, where sql.Expression) *Select {
	return &Select{Projections: projections, From: from, Where: where}
}

// IsSimple reports whether the select is a plain projection over its FROM
// list, without grouping, duplicate elimination, ordering or row limits.
func (s *Select) IsSimple() bool {
	return !s.Distinct &&
		len(s.GroupBy) == 0 &&
		s.Having == nil &&
		len(s.OrderBy) == 0 &&
		s.Offset == nil &&
		s.FetchFirst == nil
}

func (s *Select) String() string {
	var sb strings.Builder
	sb.WriteString("Select(")
	if s.Distinct {
		sb.WriteString("DISTINCT ")
	}
	var projections = make([]string, len(s.Projections))
	for i, p := range s.Projections {
		projections[i] = p.String()
	}
	sb.WriteString(strings.Join(projections, ", "))

	if len(s.From) > 0 {
		var from = make([]string, len(s.From))
		for i, f := range s.From {
			from[i] = f.String()
		}
		sb.WriteString(" FROM ")
		sb.WriteString(strings.Join(from, ", "))
	}

	if s.Where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(s.Where.String())
	}
	if len(s.GroupBy) > 0 {
		var groupBy = make([]string, len(s.GroupBy))
		for i, g := range s.GroupBy {
			groupBy[i] = g.String()
		}
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(groupBy, ", "))
	}
	if s.Having != nil {
		sb.WriteString(" HAVING ")
		sb.WriteString(s.Having.String())
	}
	if len(s.OrderBy) > 0 {
		var orderBy = make([]string, len(s.OrderBy))
		for i, o := range s.OrderBy {
			orderBy[i] = o.String()
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orderBy, ", "))
	}
	if s.Offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(s.Offset.String())
	}
	if s.FetchFirst != nil {
		sb.WriteString(" FETCH FIRST ")
		sb.WriteString(s.FetchFirst.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Union is a set union of two query blocks.
type Union struct {
	Left  sql.Node
	Right sql.Node
	All   bool
}

// NewUnion creates a new Union node.
func NewUnion(left, right sql.Node, all bool) *Union {
	return &Union{Left: left, Right: right, All: all}
}

func (u *Union) String() string {
	op := " UNION "
	if u.All {
		op = " UNION ALL "
	}
	return "(" + u.Left.String() + op + u.Right.String() + ")"
}

// ResultColumn is a single projected column of a select.
type ResultColumn struct {
	Name       string
	Expression sql.Expression
}

// NewResultColumn creates a new named ResultColumn.
func NewResultColumn(name string, e sql.Expression) *ResultColumn {
	return &ResultColumn{Name: strings.ToLower(name), Expression: e}
}

func (r *ResultColumn) String() string {
	if r.Name == "" || r.Name == r.Expression.String() {
		return r.Expression.String()
	}
	return r.Expression.String() + " AS " + r.Name
}

// OrderByColumn is a single sort key of an ORDER BY clause.
type OrderByColumn struct {
	Expression sql.Expression
	Descending bool
}

// NewOrderByColumn creates a new OrderByColumn node.
func NewOrderByColumn(e sql.Expression, descending bool) *OrderByColumn {
	return &OrderByColumn{Expression: e, Descending: descending}
}

func (o *OrderByColumn) String() string {
	if o.Descending {
		return o.Expression.String() + " DESC"
	}
	return o.Expression.String() + " ASC"
}

// ResultColumns returns the projected columns of a query: those of the
// select itself, or of the leftmost select of a union.
func ResultColumns(query sql.Node) []*ResultColumn {
	switch q := query.(type) {
	case *Select:
		return q.Projections
	case *Union:
		return ResultColumns(q.Left)
	default:
		return nil
	}
}

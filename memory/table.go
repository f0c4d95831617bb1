package memory

import (
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"gopkg.in/src-d/go-errors.v1"
)

// ErrInvalidCatalog is returned when a catalog definition is not valid.
var ErrInvalidCatalog = errors.NewKind("invalid catalog: %s")

// ColumnDef describes a column of a new table. GroupColumn is the name of
// the column in the physical group table and defaults to table$column.
type ColumnDef struct {
	Name        string
	Type        sql.Type
	GroupColumn string
}

// Table represents an in-memory catalog table.
type Table struct {
	schema  string
	name    string
	columns []sql.Column
	pk      []sql.Column
	parent  *sql.Join
	// group is only set on group roots; other tables take the group of
	// their parent.
	group *Group
}

var _ sql.Table = (*Table)(nil)

// NewTable creates a new Table with the given name and columns. The schema
// is the one of the database the table is added to.
func NewTable(name string, columns ...ColumnDef) *Table {
	t := &Table{name: strings.ToLower(name)}
	for i, def := range columns {
		c := &Column{
			name:     strings.ToLower(def.Name),
			typ:      def.Type,
			table:    t,
			position: i,
			group:    strings.ToLower(def.GroupColumn),
		}
		if c.group == "" {
			c.group = t.name + "$" + c.name
		}
		t.columns = append(t.columns, c)
	}
	return t
}

// Name implements the sql.Nameable interface.
func (t *Table) Name() string {
	return t.name
}

// Schema implements the sql.Table interface.
func (t *Table) Schema() string {
	return t.schema
}

// QualifiedName implements the sql.Table interface.
func (t *Table) QualifiedName() sql.QualifiedName {
	return sql.QualifiedName{Schema: t.schema, Name: t.name}
}

// Columns implements the sql.Table interface.
func (t *Table) Columns() []sql.Column {
	return t.columns
}

// Column implements the sql.Table interface.
func (t *Table) Column(name string) (sql.Column, bool) {
	for _, c := range t.columns {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// PrimaryKey implements the sql.Table interface.
func (t *Table) PrimaryKey() []sql.Column {
	return t.pk
}

// ParentJoin implements the sql.Table interface.
func (t *Table) ParentJoin() *sql.Join {
	return t.parent
}

// Group implements the sql.Table interface.
func (t *Table) Group() sql.Group {
	if p := t.parentTable(); p != nil {
		return p.Group()
	}
	if t.group == nil {
		return nil
	}
	return t.group
}

// Depth implements the sql.Table interface.
func (t *Table) Depth() int {
	var depth int
	for p := t.parentTable(); p != nil; p = p.parentTable() {
		depth++
	}
	return depth
}

func (t *Table) String() string {
	return t.QualifiedName().String()
}

// SetPrimaryKey declares the primary key of the table.
func (t *Table) SetPrimaryKey(columns ...string) error {
	pk, err := t.lookupColumns(columns)
	if err != nil {
		return err
	}
	t.pk = pk
	return nil
}

// SetParent declares the join from the table to its parent: each child
// column references the parent column at the same position. The table
// joins the group of its parent, one level below it.
func (t *Table) SetParent(parent *Table, childColumns, parentColumns []string) error {
	switch {
	case t.parent != nil:
		return ErrInvalidCatalog.New("table " + t.name + " already has a parent")
	case t.group != nil:
		return ErrInvalidCatalog.New("table " + t.name + " is the root of group " + t.group.name)
	case len(childColumns) == 0 || len(childColumns) != len(parentColumns):
		return ErrInvalidCatalog.New("join of " + t.name + " to " + parent.name + " needs matching column lists")
	}

	for p := parent; p != nil; p = p.parentTable() {
		if p == t {
			return ErrInvalidCatalog.New("join of " + t.name + " to " + parent.name + " is cyclic")
		}
	}

	child, err := t.lookupColumns(childColumns)
	if err != nil {
		return err
	}

	parents, err := parent.lookupColumns(parentColumns)
	if err != nil {
		return err
	}

	join := &sql.Join{Parent: parent, Child: t}
	for i := range child {
		join.Columns = append(join.Columns, sql.JoinColumn{Parent: parents[i], Child: child[i]})
	}

	t.parent = join
	return nil
}

func (t *Table) parentTable() *Table {
	if t.parent == nil {
		return nil
	}
	return t.parent.Parent.(*Table)
}

func (t *Table) lookupColumns(names []string) ([]sql.Column, error) {
	var columns = make([]sql.Column, len(names))
	for i, n := range names {
		c, ok := t.Column(strings.ToLower(n))
		if !ok {
			return nil, ErrInvalidCatalog.New("table " + t.name + " does not have column " + n)
		}
		columns[i] = c
	}
	return columns, nil
}

// Column is a column of an in-memory table.
type Column struct {
	name     string
	typ      sql.Type
	table    *Table
	position int
	group    string
}

var _ sql.Column = (*Column)(nil)

// Name implements the sql.Nameable interface.
func (c *Column) Name() string { return c.name }

// Table implements the sql.Column interface.
func (c *Column) Table() sql.Table { return c.table }

// Type implements the sql.Column interface.
func (c *Column) Type() sql.Type { return c.typ }

// Position implements the sql.Column interface.
func (c *Column) Position() int { return c.position }

// GroupColumnName implements the sql.Column interface.
func (c *Column) GroupColumnName() string { return c.group }

func (c *Column) String() string {
	return c.table.name + "." + c.name
}

// Group is a set of tables stored together in a single physical table.
type Group struct {
	name  string
	table sql.QualifiedName
	root  *Table
}

var _ sql.Group = (*Group)(nil)

// NewGroup creates a new group rooted at the given table, which must
// already belong to a database. The physical group table is named after
// the group, in the schema of the root.
func NewGroup(name string, root *Table) (*Group, error) {
	switch {
	case root.group != nil:
		return nil, ErrInvalidCatalog.New("table " + root.name + " already is the root of group " + root.group.name)
	case root.parent != nil:
		return nil, ErrInvalidCatalog.New("table " + root.name + " has a parent and cannot be a group root")
	}

	g := &Group{
		name:  strings.ToLower(name),
		table: sql.NewQualifiedName(root.schema, name),
		root:  root,
	}
	root.group = g
	return g, nil
}

// Name implements the sql.Nameable interface.
func (g *Group) Name() string { return g.name }

// TableName implements the sql.Group interface.
func (g *Group) TableName() sql.QualifiedName { return g.table }

// Root implements the sql.Group interface.
func (g *Group) Root() sql.Table { return g.root }

func (g *Group) String() string { return g.name }

package expression

import (
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// ColumnRef is a reference to a column, optionally qualified by a table
// name and a schema.
type ColumnRef struct {
	sql.TypeSlot
	Schema string
	Table  string
	Name   string
	// Binding is set by the binder the first time the reference resolves.
	Binding *sql.ColumnBinding
}

// NewColumnRef creates a new unqualified column reference.
func NewColumnRef(name string) *ColumnRef {
	return &ColumnRef{Name: strings.ToLower(name)}
}

// NewQualifiedColumnRef creates a new column reference qualified by a
// table name or correlation name.
func NewQualifiedColumnRef(table, name string) *ColumnRef {
	return &ColumnRef{Table: strings.ToLower(table), Name: strings.ToLower(name)}
}

// NewSchemaQualifiedColumnRef creates a new column reference qualified by a
// schema and table name.
func NewSchemaQualifiedColumnRef(schema, table, name string) *ColumnRef {
	return &ColumnRef{
		Schema: strings.ToLower(schema),
		Table:  strings.ToLower(table),
		Name:   strings.ToLower(name),
	}
}

// IsQualified reports whether the reference names its table.
func (c *ColumnRef) IsQualified() bool {
	return c.Table != ""
}

func (c *ColumnRef) String() string {
	switch {
	case c.Schema != "":
		return c.Schema + "." + c.Table + "." + c.Name
	case c.Table != "":
		return c.Table + "." + c.Name
	default:
		return c.Name
	}
}

// Star is a `*` or `t.*` projection, expanded by the binder.
type Star struct {
	sql.TypeSlot
	Table string
}

// NewStar returns a new unqualified star.
func NewStar() *Star {
	return &Star{}
}

// NewQualifiedStar returns a new star qualified with a table name.
func NewQualifiedStar(table string) *Star {
	return &Star{Table: strings.ToLower(table)}
}

func (s *Star) String() string {
	if s.Table != "" {
		return s.Table + ".*"
	}
	return "*"
}

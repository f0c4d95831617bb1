package sql

import "strings"

// QualifiedName is a schema-qualified object name.
type QualifiedName struct {
	Schema string
	Name   string
}

// NewQualifiedName returns a case-normalized qualified name.
func NewQualifiedName(schema, name string) QualifiedName {
	return QualifiedName{Schema: strings.ToLower(schema), Name: strings.ToLower(name)}
}

func (q QualifiedName) String() string {
	if q.Schema == "" {
		return q.Name
	}
	return q.Schema + "." + q.Name
}

// Catalog is the read-only schema catalog view consumed by the analyzer.
// Implementations must be safe for concurrent readers.
type Catalog interface {
	// Table returns the table with the given case-normalized name, or an
	// ErrTableNotFound error.
	Table(schema, name string) (Table, error)
}

// Table is a base table of the catalog.
type Table interface {
	Nameable
	// Schema returns the name of the schema the table belongs to.
	Schema() string
	// QualifiedName returns the schema-qualified name of the table.
	QualifiedName() QualifiedName
	// Columns returns the columns of the table in declaration order.
	Columns() []Column
	// Column returns the column with the given case-normalized name.
	Column(name string) (Column, bool)
	// PrimaryKey returns the primary key columns, if any.
	PrimaryKey() []Column
	// ParentJoin returns the declared join to the parent table, or nil if
	// the table is a group root or belongs to no group.
	ParentJoin() *Join
	// Group returns the group the table belongs to, or nil.
	Group() Group
	// Depth returns the depth of the table in its group hierarchy, 0 being
	// the root.
	Depth() int
}

// Column is a column of a catalog table.
type Column interface {
	Nameable
	Table() Table
	Type() Type
	Position() int
	// GroupColumnName is the name of the column in the physical group table.
	GroupColumnName() string
}

// Join is a declared parent/child relationship between two tables of a
// group, made of primary key to foreign key column pairs.
type Join struct {
	Parent  Table
	Child   Table
	Columns []JoinColumn
}

// JoinColumn is a single key column pair of a Join.
type JoinColumn struct {
	Parent Column
	Child  Column
}

// Group is a set of tables physically co-located by the storage layer.
type Group interface {
	Nameable
	// TableName is the name of the physical group table.
	TableName() QualifiedName
	// Root returns the root table of the group.
	Root() Table
}

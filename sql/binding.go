package sql

// TableBinding associates a FROM clause entry with a catalog table or, for
// a derived table, with its projected output columns.
type TableBinding struct {
	// Table is the catalog table. It is nil for derived tables.
	Table Table
	// Correlation is the correlation name of the entry, if any.
	Correlation string
	// Columns are the output columns of a derived table.
	Columns []*DerivedColumn
	// Group is the group access the table participates in. It is set by the
	// group matcher and nil when the table is accessed on its own.
	Group *GroupBinding
}

// IsDerived reports whether the binding is for a derived table.
func (b *TableBinding) IsDerived() bool {
	return b.Table == nil
}

// ExposedName is the name the entry can be referenced by.
func (b *TableBinding) ExposedName() string {
	if b.Correlation != "" {
		return b.Correlation
	}
	if b.Table != nil {
		return b.Table.Name()
	}
	return ""
}

// DerivedColumn returns the output column of a derived table with the
// given name.
func (b *TableBinding) DerivedColumn(name string) (*DerivedColumn, bool) {
	for _, c := range b.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (b *TableBinding) String() string {
	if b.Table != nil {
		if b.Correlation != "" {
			return b.Table.QualifiedName().String() + " AS " + b.Correlation
		}
		return b.Table.QualifiedName().String()
	}
	return "(derived) AS " + b.Correlation
}

// DerivedColumn is an output column of a derived table.
type DerivedColumn struct {
	Name       string
	Index      int
	Expression Expression
}

// ColumnBinding associates a column reference with either a catalog column
// or the output column of a derived table.
type ColumnBinding struct {
	Table   *TableBinding
	Column  Column
	Derived *DerivedColumn
}

// Type returns the declared type of the bound column. Derived columns take
// the type of their projected expression.
func (b *ColumnBinding) Type() Type {
	if b.Column != nil {
		return b.Column.Type()
	}
	if b.Derived != nil && b.Derived.Expression != nil {
		return b.Derived.Expression.Type()
	}
	return Type{}
}

// Name returns the name of the bound column.
func (b *ColumnBinding) Name() string {
	if b.Column != nil {
		return b.Column.Name()
	}
	if b.Derived != nil {
		return b.Derived.Name
	}
	return ""
}

// GroupBinding is the group access shared by the tables collapsed into it.
type GroupBinding struct {
	Group Group
	Alias string
}

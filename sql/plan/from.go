package plan

import (
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// FromItem is an entry of a FROM list.
type FromItem interface {
	sql.Node
	isFromItem()
}

// FromTable is a base table in a FROM list.
type FromTable struct {
	Schema      string
	Name        string
	Correlation string
	// Binding is set by the binder once the table has been looked up.
	Binding *sql.TableBinding
}

// NewFromTable creates a new FromTable, case-normalizing its names.
func NewFromTable(schema, name, correlation string) *FromTable {
	return &FromTable{
		Schema:      strings.ToLower(schema),
		Name:        strings.ToLower(name),
		Correlation: strings.ToLower(correlation),
	}
}

func (*FromTable) isFromItem() {}

func (t *FromTable) String() string {
	name := t.Name
	if t.Schema != "" {
		name = t.Schema + "." + name
	}
	if t.Correlation != "" {
		return name + " AS " + t.Correlation
	}
	return name
}

// FromSubquery is a derived table in a FROM list.
type FromSubquery struct {
	// Query is a *Select or a *Union.
	Query       sql.Node
	Correlation string
	// ColumnNames is the optional declared output column list.
	ColumnNames []string
	// ColumnTypes holds the type of each declared output column once the
	// type resolver has run.
	ColumnTypes []sql.Type
	Binding     *sql.TableBinding
}

// NewFromSubquery creates a new derived table.
func NewFromSubquery(query sql.Node, correlation string, columns ...string) *FromSubquery {
	var names = make([]string, len(columns))
	for i, c := range columns {
		names[i] = strings.ToLower(c)
	}
	return &FromSubquery{Query: query, Correlation: strings.ToLower(correlation), ColumnNames: names}
}

func (*FromSubquery) isFromItem() {}

func (s *FromSubquery) String() string {
	str := "(" + s.Query.String() + ") AS " + s.Correlation
	if len(s.ColumnNames) > 0 {
		str += "(" + strings.Join(s.ColumnNames, ", ") + ")"
	}
	return str
}

// JoinKind is the kind of a join.
type JoinKind byte

const (
	// InnerJoin is an INNER JOIN.
	InnerJoin JoinKind = iota
	// LeftOuterJoin is a LEFT OUTER JOIN.
	LeftOuterJoin
	// RightOuterJoin is a RIGHT OUTER JOIN.
	RightOuterJoin
)

func (k JoinKind) String() string {
	switch k {
	case LeftOuterJoin:
		return "LEFT JOIN"
	case RightOuterJoin:
		return "RIGHT JOIN"
	default:
		return "INNER JOIN"
	}
}

// JoinNode is an explicit join between two FROM items.
type JoinNode struct {
	Left  FromItem
	Right FromItem
	Kind  JoinKind
	On    sql.Expression
}

// NewJoin creates a new JoinNode.
func NewJoin(kind JoinKind, left, right FromItem, on sql.Expression) *JoinNode {
	return &JoinNode{Left: left, Right: right, Kind: kind, On: on}
}

// NewInnerJoin creates a new inner JoinNode.
func NewInnerJoin(left, right FromItem, on sql.Expression) *JoinNode {
	return NewJoin(InnerJoin, left, right, on)
}

func (*JoinNode) isFromItem() {}

func (j *JoinNode) String() string {
	str := "(" + j.Left.String() + " " + j.Kind.String() + " " + j.Right.String()
	if j.On != nil {
		str += " ON " + j.On.String()
	}
	return str + ")"
}

// FromGroupTable is an access to a physical group table, replacing the FROM
// entries of all the tables collapsed into the group.
type FromGroupTable struct {
	Binding *sql.GroupBinding
}

// NewFromGroupTable creates a new FromGroupTable for the given group access.
func NewFromGroupTable(binding *sql.GroupBinding) *FromGroupTable {
	return &FromGroupTable{Binding: binding}
}

func (*FromGroupTable) isFromItem() {}

// TableName is the name of the physical group table.
func (g *FromGroupTable) TableName() sql.QualifiedName {
	return g.Binding.Group.TableName()
}

func (g *FromGroupTable) String() string {
	return g.TableName().String() + " AS " + g.Binding.Alias
}

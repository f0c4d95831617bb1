package plan

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// Cursor is the top-level node of a query statement.
type Cursor struct {
	// Query is a *Select or a *Union.
	Query sql.Node
}

// NewCursor creates a new Cursor node.
func NewCursor(query sql.Node) *Cursor {
	return &Cursor{Query: query}
}

func (c *Cursor) String() string {
	return "Cursor(" + c.Query.String() + ")"
}

package expression

import (
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// CaseBranch is a single WHEN ... THEN ... branch of a CASE expression.
type CaseBranch struct {
	Cond  sql.Expression
	Value sql.Expression
}

// Case is a CASE expression. When Operand is set, branch conditions are
// compared against it.
type Case struct {
	sql.TypeSlot
	Operand  sql.Expression
	Branches []CaseBranch
	Else     sql.Expression
}

// NewCase returns a new Case expression.
func NewCase(operand sql.Expression, branches []CaseBranch, elseExpr sql.Expression) *Case {
	return &Case{Operand: operand, Branches: branches, Else: elseExpr}
}

func (c *Case) String() string {
	var sb strings.Builder
	sb.WriteString("CASE ")
	if c.Operand != nil {
		sb.WriteString(c.Operand.String())
		sb.WriteString(" ")
	}
	for _, b := range c.Branches {
		sb.WriteString("WHEN ")
		sb.WriteString(b.Cond.String())
		sb.WriteString(" THEN ")
		sb.WriteString(b.Value.String())
		sb.WriteString(" ")
	}
	if c.Else != nil {
		sb.WriteString("ELSE ")
		sb.WriteString(c.Else.String())
		sb.WriteString(" ")
	}
	sb.WriteString("END")
	return sb.String()
}

// Coalesce returns the first non-NULL argument.
type Coalesce struct {
	sql.TypeSlot
	Args []sql.Expression
}

// NewCoalesce creates a new Coalesce expression.
func NewCoalesce(args ...sql.Expression) *Coalesce {
	return &Coalesce{Args: args}
}

func (c *Coalesce) String() string {
	var args = make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = arg.String()
	}
	return "COALESCE(" + strings.Join(args, ", ") + ")"
}

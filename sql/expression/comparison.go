package expression

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// ComparisonOp is the operator of a comparison.
type ComparisonOp byte

const (
	// Equals is the = operator.
	Equals ComparisonOp = iota
	// NotEquals is the <> operator.
	NotEquals
	// LessThan is the < operator.
	LessThan
	// LessThanOrEqual is the <= operator.
	LessThanOrEqual
	// GreaterThan is the > operator.
	GreaterThan
	// GreaterThanOrEqual is the >= operator.
	GreaterThanOrEqual
	// Like is the LIKE operator.
	Like
)

var comparisonOps = [...]string{
	Equals:             "=",
	NotEquals:          "<>",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	Like:               "LIKE",
}

func (op ComparisonOp) String() string {
	return comparisonOps[op]
}

// IsEquality reports whether the operator is = or <>, which have stricter
// comparability rules than ordering operators.
func (op ComparisonOp) IsEquality() bool {
	return op == Equals || op == NotEquals
}

// Comparison is an expression that compares an expression against another.
type Comparison struct {
	BinaryExpression
	Op ComparisonOp
	// Generated marks comparisons synthesized by the analyzer, which skip
	// the comparability check.
	Generated bool
}

// NewComparison creates a new comparison between two expressions.
func NewComparison(op ComparisonOp, left, right sql.Expression) *Comparison {
	return &Comparison{BinaryExpression: BinaryExpression{Left: left, Right: right}, Op: op}
}

// NewEquals returns a new = comparison.
func NewEquals(left, right sql.Expression) *Comparison {
	return NewComparison(Equals, left, right)
}

func (c *Comparison) String() string {
	return c.Left.String() + " " + c.Op.String() + " " + c.Right.String()
}

// IsColumnEquality returns the two sides of an equality between two column
// references.
func IsColumnEquality(e sql.Expression) (*ColumnRef, *ColumnRef, bool) {
	c, ok := e.(*Comparison)
	if !ok || c.Op != Equals {
		return nil, nil, false
	}
	l, ok := c.Left.(*ColumnRef)
	if !ok {
		return nil, nil, false
	}
	r, ok := c.Right.(*ColumnRef)
	if !ok {
		return nil, nil, false
	}
	return l, r, true
}

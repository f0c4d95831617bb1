package expression

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// ArithmeticOp is the operator of an arithmetic expression.
type ArithmeticOp byte

const (
	// Plus is the + operator.
	Plus ArithmeticOp = iota
	// Minus is the - operator.
	Minus
	// Mult is the * operator.
	Mult
	// Div is the / operator.
	Div
)

var arithmeticOps = [...]string{
	Plus:  "+",
	Minus: "-",
	Mult:  "*",
	Div:   "/",
}

func (op ArithmeticOp) String() string {
	return arithmeticOps[op]
}

// Arithmetic expressions (+, -, *, /).
type Arithmetic struct {
	BinaryExpression
	Op ArithmeticOp
}

// NewArithmetic creates a new Arithmetic sql.Expression.
func NewArithmetic(op ArithmeticOp, left, right sql.Expression) *Arithmetic {
	return &Arithmetic{BinaryExpression: BinaryExpression{Left: left, Right: right}, Op: op}
}

// NewPlus creates a new Arithmetic + sql.Expression.
func NewPlus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(Plus, left, right)
}

// NewMinus creates a new Arithmetic - sql.Expression.
func NewMinus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(Minus, left, right)
}

func (a *Arithmetic) String() string {
	return "(" + a.Left.String() + " " + a.Op.String() + " " + a.Right.String() + ")"
}

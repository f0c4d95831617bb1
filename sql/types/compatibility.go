package types

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
)

// MaxDecimalPrecision is the largest precision a computed DECIMAL gets.
const MaxDecimalPrecision = 31

// Rules are the compatibility rules of a type family.
type Rules interface {
	// Convertible reports whether a value of type from, which belongs to the
	// family of the rules, can be converted to type to.
	Convertible(from, to sql.Type) bool
	// Comparable reports whether a, which belongs to the family of the
	// rules, can be compared with b. Equality comparisons are stricter than
	// ordering ones.
	Comparable(a, b sql.Type, forEquality bool) bool
	// ArithmeticResult computes the result type of left op right, left
	// belonging to the family of the rules.
	ArithmeticResult(left, right sql.Type, op expression.ArithmeticOp) (sql.Type, error)
}

// For returns the rules of the given family.
func For(f sql.Family) Rules {
	switch f {
	case sql.Null, sql.Unknown:
		return nullRules{}
	case sql.Boolean:
		return booleanRules{}
	case sql.SmallInt, sql.Integer, sql.BigInt, sql.Decimal, sql.Double:
		return numericRules{}
	case sql.Char, sql.Varchar:
		return stringRules{}
	case sql.Date, sql.Time, sql.Timestamp:
		return datetimeRules{}
	default:
		panic("unknown type family " + f.String())
	}
}

// Convertible reports whether a value of type from can be converted to
// type to.
func Convertible(from, to sql.Type) bool {
	return For(from.Family).Convertible(from, to)
}

// Comparable reports whether values of the two types can be compared.
func Comparable(a, b sql.Type, forEquality bool) bool {
	return For(a.Family).Comparable(a, b, forEquality)
}

// ArithmeticResult returns the type of the arithmetic operation. The rules
// of the left operand's family decide.
func ArithmeticResult(left, right sql.Type, op expression.ArithmeticOp) (sql.Type, error) {
	return For(left.Family).ArithmeticResult(left, right, op)
}

func unsupported(left, right sql.Type, op expression.ArithmeticOp) (sql.Type, error) {
	return sql.Type{}, sql.ErrUnsupportedArithmetic.New(op, left, right)
}

type nullRules struct{}

func (nullRules) Convertible(from, to sql.Type) bool { return true }

func (nullRules) Comparable(a, b sql.Type, forEquality bool) bool { return true }

func (nullRules) ArithmeticResult(left, right sql.Type, op expression.ArithmeticOp) (sql.Type, error) {
	if right.Family.IsNumeric() {
		return right.WithNullable(true), nil
	}
	return unsupported(left, right, op)
}

type booleanRules struct{}

func (booleanRules) Convertible(from, to sql.Type) bool {
	return to.Family == sql.Boolean || to.Family.IsString()
}

func (booleanRules) Comparable(a, b sql.Type, forEquality bool) bool {
	return b.Family == sql.Boolean || b.Family == sql.Null
}

func (booleanRules) ArithmeticResult(left, right sql.Type, op expression.ArithmeticOp) (sql.Type, error) {
	return unsupported(left, right, op)
}

// numericPrecedence orders numeric families from the least to the most
// general.
var numericPrecedence = map[sql.Family]int{
	sql.SmallInt: 1,
	sql.Integer:  2,
	sql.BigInt:   3,
	sql.Decimal:  4,
	sql.Double:   5,
}

// integerDigits is the DECIMAL precision needed to hold any value of an
// integer family.
var integerDigits = map[sql.Family]int{
	sql.SmallInt: 5,
	sql.Integer:  10,
	sql.BigInt:   19,
}

type numericRules struct{}

func (numericRules) Convertible(from, to sql.Type) bool {
	return to.Family.IsNumeric() || to.Family.IsString()
}

func (numericRules) Comparable(a, b sql.Type, forEquality bool) bool {
	return b.Family.IsNumeric() || b.Family.IsString() || b.Family == sql.Null
}

func (numericRules) ArithmeticResult(left, right sql.Type, op expression.ArithmeticOp) (sql.Type, error) {
	if right.Family == sql.Null {
		return left.WithNullable(true), nil
	}
	if !right.Family.IsNumeric() {
		return unsupported(left, right, op)
	}

	nullable := left.Nullable || right.Nullable
	family := left.Family
	if numericPrecedence[right.Family] > numericPrecedence[family] {
		family = right.Family
	}

	if family != sql.Decimal {
		return sql.NewType(family, nullable), nil
	}

	p1, s1 := asDecimal(left)
	p2, s2 := asDecimal(right)
	var precision, scale int
	switch op {
	case expression.Plus, expression.Minus:
		scale = max(s1, s2)
		precision = max(p1-s1, p2-s2) + scale + 1
	case expression.Mult:
		scale = s1 + s2
		precision = p1 + p2
	case expression.Div:
		scale = max(6, s1+p2+1)
		precision = p1 - s1 + s2 + scale
	}
	return boundedDecimal(precision, scale, nullable), nil
}

func asDecimal(t sql.Type) (precision, scale int) {
	if t.Family == sql.Decimal {
		return t.Precision, t.Scale
	}
	return integerDigits[t.Family], 0
}

func boundedDecimal(precision, scale int, nullable bool) sql.Type {
	if precision > MaxDecimalPrecision {
		precision = MaxDecimalPrecision
	}
	if scale > precision {
		scale = precision
	}
	return sql.NewDecimal(precision, scale, nullable)
}

type stringRules struct{}

func (stringRules) Convertible(from, to sql.Type) bool {
	return to.Family != sql.Unknown
}

func (stringRules) Comparable(a, b sql.Type, forEquality bool) bool {
	switch {
	case b.Family == sql.Null, b.Family.IsNumeric(), b.Family.IsDatetime():
		return true
	case b.Family.IsString():
		if a.Charset != "" && b.Charset != "" && a.Charset != b.Charset {
			return false
		}
		if forEquality && a.Collation != "" && b.Collation != "" {
			return a.Collation == b.Collation
		}
		return true
	}
	return false
}

func (stringRules) ArithmeticResult(left, right sql.Type, op expression.ArithmeticOp) (sql.Type, error) {
	return unsupported(left, right, op)
}

type datetimeRules struct{}

func (datetimeRules) Convertible(from, to sql.Type) bool {
	switch {
	case to.Family.IsString(), to.Family == from.Family:
		return true
	case to.Family == sql.Timestamp, from.Family == sql.Timestamp:
		return to.Family.IsDatetime()
	}
	return false
}

func (datetimeRules) Comparable(a, b sql.Type, forEquality bool) bool {
	switch {
	case b.Family == sql.Null, b.Family.IsString():
		return true
	case b.Family.IsDatetime():
		if forEquality {
			return a.Family == b.Family
		}
		return a.Family == b.Family || a.Family == sql.Timestamp || b.Family == sql.Timestamp
	}
	return false
}

func (datetimeRules) ArithmeticResult(left, right sql.Type, op expression.ArithmeticOp) (sql.Type, error) {
	return unsupported(left, right, op)
}

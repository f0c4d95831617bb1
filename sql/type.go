package sql

import (
	"fmt"
	"strings"
)

// Family is the closed set of SQL type families.
type Family byte

const (
	// Unknown is the family of a type that has not been computed.
	Unknown Family = iota
	// Null is the family of the untyped NULL literal.
	Null
	Boolean
	SmallInt
	Integer
	BigInt
	Decimal
	Double
	Char
	Varchar
	Date
	Time
	Timestamp
)

var familyNames = map[Family]string{
	Unknown:   "UNKNOWN",
	Null:      "NULL",
	Boolean:   "BOOLEAN",
	SmallInt:  "SMALLINT",
	Integer:   "INTEGER",
	BigInt:    "BIGINT",
	Decimal:   "DECIMAL",
	Double:    "DOUBLE",
	Char:      "CHAR",
	Varchar:   "VARCHAR",
	Date:      "DATE",
	Time:      "TIME",
	Timestamp: "TIMESTAMP",
}

func (f Family) String() string {
	if s, ok := familyNames[f]; ok {
		return s
	}
	return fmt.Sprintf("FAMILY(%d)", byte(f))
}

// IsNumeric reports whether the family is an exact or approximate numeric.
func (f Family) IsNumeric() bool {
	switch f {
	case SmallInt, Integer, BigInt, Decimal, Double:
		return true
	}
	return false
}

// IsString reports whether the family is a character string.
func (f Family) IsString() bool {
	return f == Char || f == Varchar
}

// IsDatetime reports whether the family is a date, time or timestamp.
func (f Family) IsDatetime() bool {
	return f == Date || f == Time || f == Timestamp
}

// Type is an immutable SQL type descriptor. Precision holds the maximum
// length for character families.
type Type struct {
	Family    Family
	Precision int
	Scale     int
	Nullable  bool
	Charset   string
	Collation string
}

// NewType returns a descriptor of the given family without precision.
func NewType(f Family, nullable bool) Type {
	return Type{Family: f, Nullable: nullable}
}

// NewDecimal returns a DECIMAL(precision, scale) descriptor.
func NewDecimal(precision, scale int, nullable bool) Type {
	return Type{Family: Decimal, Precision: precision, Scale: scale, Nullable: nullable}
}

// NewString returns a CHAR or VARCHAR descriptor of the given length.
func NewString(f Family, length int, nullable bool) Type {
	return Type{Family: f, Precision: length, Nullable: nullable}
}

var (
	// BooleanNotNull is the type of the boolean-true sentinel.
	BooleanNotNull = NewType(Boolean, false)
	// NullType is the type of the NULL literal.
	NullType = NewType(Null, true)
)

// IsUnknown reports whether the type has not been computed.
func (t Type) IsUnknown() bool {
	return t.Family == Unknown
}

// WithNullable returns a copy of the descriptor with the given nullability.
func (t Type) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

// MaximumWidth is the maximum number of characters needed to represent a
// value of this type.
func (t Type) MaximumWidth() int {
	switch t.Family {
	case Boolean:
		return 5
	case SmallInt:
		return 6
	case Integer:
		return 11
	case BigInt:
		return 20
	case Decimal:
		if t.Scale > 0 {
			return t.Precision + 2
		}
		return t.Precision + 1
	case Double:
		return 24
	case Char, Varchar:
		return t.Precision
	case Date:
		return 10
	case Time:
		return 8
	case Timestamp:
		return 29
	}
	return 0
}

func (t Type) String() string {
	var sb strings.Builder
	sb.WriteString(t.Family.String())
	switch t.Family {
	case Decimal:
		fmt.Fprintf(&sb, "(%d,%d)", t.Precision, t.Scale)
	case Char, Varchar:
		fmt.Fprintf(&sb, "(%d)", t.Precision)
	}
	if t.Collation != "" {
		sb.WriteString(" COLLATE ")
		sb.WriteString(t.Collation)
	}
	if !t.Nullable && t.Family != Null && t.Family != Unknown {
		sb.WriteString(" NOT NULL")
	}
	return sb.String()
}

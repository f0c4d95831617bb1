package types

import (
	"strconv"
	"strings"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"gopkg.in/src-d/go-errors.v1"
)

// ErrUnknownType is returned when a type name is not recognized.
var ErrUnknownType = errors.NewKind("unknown type %q")

const (
	defaultDecimalPrecision = 10
	defaultCharLength       = 1
	defaultVarcharLength    = 255
)

var familyByName = map[string]sql.Family{
	"boolean":   sql.Boolean,
	"bool":      sql.Boolean,
	"smallint":  sql.SmallInt,
	"int":       sql.Integer,
	"integer":   sql.Integer,
	"bigint":    sql.BigInt,
	"decimal":   sql.Decimal,
	"numeric":   sql.Decimal,
	"double":    sql.Double,
	"float":     sql.Double,
	"real":      sql.Double,
	"char":      sql.Char,
	"character": sql.Char,
	"varchar":   sql.Varchar,
	"text":      sql.Varchar,
	"date":      sql.Date,
	"time":      sql.Time,
	"timestamp": sql.Timestamp,
	"datetime":  sql.Timestamp,
}

// ParseType parses a type name such as "DECIMAL(10,2)", "VARCHAR(32)" or
// "INTEGER NOT NULL". Types are nullable unless NOT NULL is given.
func ParseType(s string) (sql.Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	nullable := true
	if strings.HasSuffix(name, "not null") {
		nullable = false
		name = strings.TrimSpace(strings.TrimSuffix(name, "not null"))
	}

	var args []int
	if i := strings.IndexByte(name, '('); i >= 0 {
		if !strings.HasSuffix(name, ")") {
			return sql.Type{}, ErrUnknownType.New(s)
		}
		for _, a := range strings.Split(name[i+1:len(name)-1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(a))
			if err != nil || n < 0 {
				return sql.Type{}, ErrUnknownType.New(s)
			}
			args = append(args, n)
		}
		name = strings.TrimSpace(name[:i])
	}

	family, ok := familyByName[name]
	if !ok {
		return sql.Type{}, ErrUnknownType.New(s)
	}

	switch family {
	case sql.Decimal:
		switch len(args) {
		case 0:
			return sql.NewDecimal(defaultDecimalPrecision, 0, nullable), nil
		case 1:
			return sql.NewDecimal(args[0], 0, nullable), nil
		case 2:
			if args[1] > args[0] {
				return sql.Type{}, ErrUnknownType.New(s)
			}
			return sql.NewDecimal(args[0], args[1], nullable), nil
		}
	case sql.Char, sql.Varchar:
		switch len(args) {
		case 0:
			if family == sql.Char {
				return sql.NewString(family, defaultCharLength, nullable), nil
			}
			return sql.NewString(family, defaultVarcharLength, nullable), nil
		case 1:
			return sql.NewString(family, args[0], nullable), nil
		}
	default:
		if len(args) == 0 {
			return sql.NewType(family, nullable), nil
		}
	}

	return sql.Type{}, ErrUnknownType.New(s)
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) sql.Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

package types

import (
	"github.com/brunoribeiro/sql-parser-sub002/sql"
)

// Dominant returns the most general type covering both a and b. Types that
// are still unknown are skipped.
func Dominant(a, b sql.Type) (sql.Type, error) {
	switch {
	case a.IsUnknown():
		return b, nil
	case b.IsUnknown():
		return a, nil
	case a.Family == sql.Null:
		return b.WithNullable(true), nil
	case b.Family == sql.Null:
		return a.WithNullable(true), nil
	}

	nullable := a.Nullable || b.Nullable
	switch {
	case a.Family == sql.Boolean && b.Family == sql.Boolean:
		return sql.NewType(sql.Boolean, nullable), nil

	case a.Family.IsNumeric() && b.Family.IsNumeric():
		family := a.Family
		if numericPrecedence[b.Family] > numericPrecedence[family] {
			family = b.Family
		}
		if family != sql.Decimal {
			return sql.NewType(family, nullable), nil
		}
		p1, s1 := asDecimal(a)
		p2, s2 := asDecimal(b)
		scale := max(s1, s2)
		return boundedDecimal(max(p1-s1, p2-s2)+scale, scale, nullable), nil

	case a.Family.IsString() && b.Family.IsString():
		family := sql.Char
		if a.Family == sql.Varchar || b.Family == sql.Varchar {
			family = sql.Varchar
		}
		t := sql.NewString(family, max(a.Precision, b.Precision), nullable)
		t.Charset = firstNonEmpty(a.Charset, b.Charset)
		t.Collation = firstNonEmpty(a.Collation, b.Collation)
		return t, nil

	case a.Family.IsDatetime() && b.Family.IsDatetime():
		switch {
		case a.Family == b.Family:
			return a.WithNullable(nullable), nil
		case a.Family == sql.Timestamp || b.Family == sql.Timestamp:
			return sql.NewType(sql.Timestamp, nullable), nil
		}
	}

	return sql.Type{}, sql.ErrIncompatibleTypes.New(a, b)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

package types

import (
	"math"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gopkg.in/src-d/go-errors.v1"
)

// ConvertLiteral converts a literal value to the given type. It returns
// sql.ErrInvalidLiteralConversion if the value cannot be represented in it.
// A nil value converts to any type.
func ConvertLiteral(v interface{}, to sql.Type) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	converted, err := convertLiteral(v, to)
	if err != nil {
		return nil, sql.ErrInvalidLiteralConversion.New(cast.ToString(v), to)
	}
	return converted, nil
}

func convertLiteral(v interface{}, to sql.Type) (interface{}, error) {
	switch to.Family {
	case sql.Boolean:
		return cast.ToBoolE(v)
	case sql.SmallInt:
		return toInteger(v, math.MinInt16, math.MaxInt16)
	case sql.Integer:
		return toInteger(v, math.MinInt32, math.MaxInt32)
	case sql.BigInt:
		return toInteger(v, math.MinInt64, math.MaxInt64)
	case sql.Decimal:
		return toDecimal(v, to)
	case sql.Double:
		return cast.ToFloat64E(v)
	case sql.Char, sql.Varchar:
		return cast.ToStringE(v)
	case sql.Date, sql.Time, sql.Timestamp:
		return cast.ToTimeE(v)
	case sql.Null, sql.Unknown:
		return v, nil
	}
	return nil, ErrUnknownType.New(to.Family)
}

func toInteger(v interface{}, min, max int64) (int64, error) {
	if d, ok := v.(decimal.Decimal); ok {
		if !d.Equal(d.Truncate(0)) {
			return 0, errOutOfRange
		}
		v = d.IntPart()
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, err
	}
	if n < min || n > max {
		return 0, errOutOfRange
	}
	return n, nil
}

func toDecimal(v interface{}, to sql.Type) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch v := v.(type) {
	case decimal.Decimal:
		d = v
	case string:
		var err error
		d, err = decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, err
		}
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return decimal.Decimal{}, err
		}
		d = decimal.NewFromFloat(f)
	}

	if to.Precision > 0 && integerDigitCount(d) > to.Precision-to.Scale {
		return decimal.Decimal{}, errOutOfRange
	}
	return d.Round(int32(to.Scale)), nil
}

// integerDigitCount returns the number of digits at the left of the decimal
// point.
func integerDigitCount(d decimal.Decimal) int {
	s := d.Abs().Truncate(0).String()
	if s == "0" {
		return 0
	}
	return len(s)
}

var errOutOfRange = errors.NewKind("value out of range").New()

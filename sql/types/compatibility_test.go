package types

import (
	"testing"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/brunoribeiro/sql-parser-sub002/sql/expression"
	"github.com/stretchr/testify/require"
)

func TestArithmeticResult(t *testing.T) {
	testCases := []struct {
		name     string
		left     sql.Type
		right    sql.Type
		op       expression.ArithmeticOp
		expected sql.Type
	}{
		{
			"integer plus integer",
			sql.NewType(sql.Integer, false),
			sql.NewType(sql.Integer, false),
			expression.Plus,
			sql.NewType(sql.Integer, false),
		},
		{
			"smallint plus bigint",
			sql.NewType(sql.SmallInt, false),
			sql.NewType(sql.BigInt, true),
			expression.Plus,
			sql.NewType(sql.BigInt, true),
		},
		{
			"integer plus double",
			sql.NewType(sql.Integer, false),
			sql.NewType(sql.Double, false),
			expression.Mult,
			sql.NewType(sql.Double, false),
		},
		{
			"decimal plus decimal",
			sql.NewDecimal(5, 2, false),
			sql.NewDecimal(10, 4, false),
			expression.Plus,
			sql.NewDecimal(11, 4, false),
		},
		{
			"decimal minus integer",
			sql.NewDecimal(5, 2, false),
			sql.NewType(sql.Integer, false),
			expression.Minus,
			sql.NewDecimal(13, 2, false),
		},
		{
			"decimal times decimal",
			sql.NewDecimal(5, 2, true),
			sql.NewDecimal(4, 1, false),
			expression.Mult,
			sql.NewDecimal(9, 3, true),
		},
		{
			"decimal divided by decimal",
			sql.NewDecimal(5, 2, false),
			sql.NewDecimal(4, 1, false),
			expression.Div,
			sql.NewDecimal(11, 7, false),
		},
		{
			"precision is bounded",
			sql.NewDecimal(30, 0, false),
			sql.NewDecimal(30, 0, false),
			expression.Mult,
			sql.NewDecimal(31, 0, false),
		},
		{
			"null plus integer",
			sql.NullType,
			sql.NewType(sql.Integer, false),
			expression.Plus,
			sql.NewType(sql.Integer, true),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			result, err := ArithmeticResult(tt.left, tt.right, tt.op)
			require.NoError(err)
			require.Equal(tt.expected, result)
		})
	}
}

func TestArithmeticResultUnsupported(t *testing.T) {
	require := require.New(t)

	_, err := ArithmeticResult(sql.NewString(sql.Char, 3, false), sql.NewType(sql.Integer, false), expression.Plus)
	require.Error(err)
	require.True(sql.ErrUnsupportedArithmetic.Is(err))

	_, err = ArithmeticResult(sql.NewType(sql.Integer, false), sql.NewType(sql.Date, false), expression.Plus)
	require.True(sql.ErrUnsupportedArithmetic.Is(err))

	_, err = ArithmeticResult(sql.BooleanNotNull, sql.BooleanNotNull, expression.Plus)
	require.True(sql.ErrUnsupportedArithmetic.Is(err))
}

func TestComparable(t *testing.T) {
	var (
		integer   = sql.NewType(sql.Integer, false)
		char      = sql.NewString(sql.Char, 10, false)
		date      = sql.NewType(sql.Date, false)
		time      = sql.NewType(sql.Time, false)
		timestamp = sql.NewType(sql.Timestamp, false)
		boolean   = sql.BooleanNotNull
	)

	collated := func(t sql.Type, collation string) sql.Type {
		t.Collation = collation
		return t
	}

	testCases := []struct {
		name     string
		a, b     sql.Type
		equality bool
		expected bool
	}{
		{"integer and integer", integer, integer, true, true},
		{"integer and char", integer, char, true, true},
		{"char and integer", char, integer, false, true},
		{"integer and boolean", integer, boolean, true, false},
		{"boolean and boolean", boolean, boolean, true, true},
		{"date and date", date, date, true, true},
		{"date and timestamp ordering", date, timestamp, false, true},
		{"date and timestamp equality", date, timestamp, true, false},
		{"date and time", date, time, false, false},
		{"date and integer", date, integer, false, false},
		{"same collation", collated(char, "utf8_bin"), collated(char, "utf8_bin"), true, true},
		{"different collation equality", collated(char, "utf8_bin"), collated(char, "latin1_bin"), true, false},
		{"different collation ordering", collated(char, "utf8_bin"), collated(char, "latin1_bin"), false, true},
		{"null and date", sql.NullType, date, true, true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Comparable(tt.a, tt.b, tt.equality))
		})
	}
}

func TestConvertible(t *testing.T) {
	require := require.New(t)

	char := sql.NewString(sql.Char, 4, false)
	require.True(Convertible(char, sql.NewType(sql.Integer, false)))
	require.True(Convertible(char, sql.NewType(sql.Date, false)))
	require.True(Convertible(sql.NewType(sql.Integer, false), char))
	require.True(Convertible(sql.NewType(sql.Integer, false), sql.NewDecimal(10, 2, false)))
	require.False(Convertible(sql.NewType(sql.Integer, false), sql.NewType(sql.Date, false)))
	require.False(Convertible(sql.BooleanNotNull, sql.NewType(sql.Integer, false)))
	require.False(Convertible(sql.NewType(sql.Date, false), sql.NewType(sql.Time, false)))
	require.True(Convertible(sql.NewType(sql.Date, false), sql.NewType(sql.Timestamp, false)))
}

func TestDominant(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     sql.Type
		expected sql.Type
		err      bool
	}{
		{
			"integer and bigint",
			sql.NewType(sql.Integer, false),
			sql.NewType(sql.BigInt, false),
			sql.NewType(sql.BigInt, false),
			false,
		},
		{
			"integer and decimal",
			sql.NewType(sql.Integer, false),
			sql.NewDecimal(5, 2, true),
			sql.NewDecimal(12, 2, true),
			false,
		},
		{
			"char and varchar",
			sql.NewString(sql.Char, 10, false),
			sql.NewString(sql.Varchar, 4, false),
			sql.NewString(sql.Varchar, 10, false),
			false,
		},
		{
			"null and integer",
			sql.NullType,
			sql.NewType(sql.Integer, false),
			sql.NewType(sql.Integer, true),
			false,
		},
		{
			"unknown is skipped",
			sql.Type{},
			sql.NewType(sql.Double, false),
			sql.NewType(sql.Double, false),
			false,
		},
		{
			"date and timestamp",
			sql.NewType(sql.Date, false),
			sql.NewType(sql.Timestamp, true),
			sql.NewType(sql.Timestamp, true),
			false,
		},
		{
			"integer and char",
			sql.NewType(sql.Integer, false),
			sql.NewString(sql.Char, 10, false),
			sql.Type{},
			true,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			result, err := Dominant(tt.a, tt.b)
			if tt.err {
				require.Error(err)
				require.True(sql.ErrIncompatibleTypes.Is(err))
				return
			}
			require.NoError(err)
			require.Equal(tt.expected, result)
		})
	}
}

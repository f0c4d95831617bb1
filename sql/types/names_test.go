package types

import (
	"testing"

	"github.com/brunoribeiro/sql-parser-sub002/sql"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	testCases := []struct {
		input    string
		expected sql.Type
	}{
		{"INTEGER", sql.NewType(sql.Integer, true)},
		{"int not null", sql.NewType(sql.Integer, false)},
		{"DECIMAL(10,2)", sql.NewDecimal(10, 2, true)},
		{"decimal(7)", sql.NewDecimal(7, 0, true)},
		{"NUMERIC", sql.NewDecimal(10, 0, true)},
		{"VARCHAR(32) NOT NULL", sql.NewString(sql.Varchar, 32, false)},
		{"char", sql.NewString(sql.Char, 1, true)},
		{"datetime", sql.NewType(sql.Timestamp, true)},
		{" boolean ", sql.NewType(sql.Boolean, true)},
	}

	for _, tt := range testCases {
		t.Run(tt.input, func(t *testing.T) {
			require := require.New(t)
			typ, err := ParseType(tt.input)
			require.NoError(err)
			require.Equal(tt.expected, typ)
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, input := range []string{"blob", "decimal(2,3)", "integer(3)", "varchar(a)", "char(1,2)", "decimal(5"} {
		t.Run(input, func(t *testing.T) {
			require := require.New(t)
			_, err := ParseType(input)
			require.Error(err)
			require.True(ErrUnknownType.Is(err))
		})
	}
}

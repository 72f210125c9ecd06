package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"115", "115"},
		{"115.5", "115.5"},
		{"115,50", "115.5"},
		{"S/ 115.00", "115"},
		{"S/. 89,90", "89.9"},
		{"S/. 115.50", "115.5"},
		{"S/.115", "115"},
		{"S/. 89.90", "89.9"},
		{"115.50 S/.", "115.5"},
		{"$1,299.90", "1299.9"},
		{"1.299,90", "1299.9"},
		{"1,299", "1299"},
		{"1.234.567", "1234567"},
		{"  42 ", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"", "consultar", "nan", "--"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw)
			assert.True(t, errors.Is(err, ErrInvalidPrice))
		})
	}
}

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter("S/", 2)

	got, err := f.Format("115")
	require.NoError(t, err)
	assert.Equal(t, "S/ 115.00", got)

	got, err = f.Format("89,9")
	require.NoError(t, err)
	assert.Equal(t, "S/ 89.90", got)

	// Unparseable prices come back verbatim
	got, err = f.Format(" Consultar ")
	assert.Error(t, err)
	assert.Equal(t, "Consultar", got)
}

func TestFormatter_NoCurrency(t *testing.T) {
	f := NewFormatter("", 0)
	assert.Equal(t, "116", f.FormatAmount(decimal.RequireFromString("115.5")))
}

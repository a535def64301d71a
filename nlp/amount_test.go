package nlp

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"50k", "50000"},
		{"50K", "50000"},
		{"100000", "100000"},
		{"50.5k", "50500"},
		{"50,5k", "50500"},
		{"1.5k", "1500"},
		{"50.000", "50000"},
		{"1.500.000", "1500000"},
		{"1,500,000", "1500000"},
		{"50,5", "50.5"},
		{"50.5", "50.5"},
		{"0.5k", "500"},
		{"7", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, got.Equal(want), "ParseAmount(%q) = %s, want %s", tt.input, got, want)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{
		"",
		"abc",
		"0",
		"0k",
		"-5",
		"-5k",
		"50..5",
		"50.5.5k",
		"1.23.456", // mixed group widths without k
		"k",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAmount(input)
			assert.Error(t, err, "ParseAmount(%q) should fail", input)
		})
	}
}

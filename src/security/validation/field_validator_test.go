package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/shopledger/backend/src/models"
)

func TestParseExchangeRate(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"1480", "1480", false},
		{" 1,310.5 ", "1310.5", false},
		{"", "", true},
		{"abc", "", true},
		{"0", "", true},
		{"-1440", "", true},
		{"14.4", "14.4", false},
		{"1440000", "1440000", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseExchangeRate(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRateBoundsCheck(t *testing.T) {
	tests := []struct {
		name    string
		bounds  RateBounds
		value   string
		wantErr bool
	}{
		{"unbounded accepts anything positive", RateBounds{}, "14.4", false},
		{"inside band", NewRateBounds(100, 100000), "1480", false},
		{"below min", NewRateBounds(100, 100000), "14.4", true},
		{"above max", NewRateBounds(100, 100000), "1440000", true},
		{"min only", NewRateBounds(1000, 0), "9999999", false},
		{"max only", NewRateBounds(0, 2000), "2500", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bounds.Check(decimal.RequireFromString(tt.value))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("12,500", "amount")
	require.NoError(t, err)
	assert.Equal(t, "12500", got.String())

	_, err = ParseAmount("-5", "amount")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidateCurrencyCode(t *testing.T) {
	c, err := ValidateCurrencyCode("iqd")
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyIQD, c)

	for _, bad := range []string{"", "MULTI", "EUR"} {
		_, err := ValidateCurrencyCode(bad)
		assert.ErrorIs(t, err, ErrValidationFailed, bad)
	}
}

func TestValidateObligationKind(t *testing.T) {
	k, err := ValidateObligationKind("Personal_Loan")
	require.NoError(t, err)
	assert.Equal(t, models.ObligationPersonalLoan, k)

	_, err = ValidateObligationKind("mortgage")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42", "sale id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-3", "x"} {
		_, err := ParseID(bad, "sale id")
		assert.ErrorIs(t, err, ErrValidationFailed)
	}
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Ahmed", CleanName("  <b>Ahmed</b>\x00 "))
	assert.Equal(t, "Ali's Phones & Co", CleanName("Ali's Phones & Co<script>x</script>"))
	assert.Equal(t, MaxNameLength, len([]rune(CleanName(strings.Repeat("x", 500)))))
}

func TestValidateStringMaxLength(t *testing.T) {
	assert.NoError(t, ValidateStringMaxLength("abc", 3, "name"))
	assert.ErrorIs(t, ValidateStringMaxLength("abcd", 3, "name"), ErrValidationFailed)
}

// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/models"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxNameLength          = 120
)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ParseAmount parses a user-typed money amount. Thousands separators are
// accepted; negative values are not.
func ParseAmount(raw, fieldName string) (decimal.Decimal, error) {
	if err := ValidateStringNotEmpty(raw, fieldName); err != nil {
		return decimal.Zero, err
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s ('%s') is not a number", ErrValidationFailed, fieldName, raw)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	return value, nil
}

// ParseExchangeRate validates the USD->IQD rate entered by the owner.
func ParseExchangeRate(raw string) (decimal.Decimal, error) {
	value, err := ParseAmount(raw, "exchange rate")
	if err != nil {
		return decimal.Zero, err
	}
	if !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: exchange rate must be greater than zero", ErrValidationFailed)
	}
	return value, nil
}

// RateBounds is an optional sanity band for newly entered rates, used to
// catch typos such as 14.4 or 144000. A zero bound is not checked.
type RateBounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func NewRateBounds(lo, hi float64) RateBounds {
	return RateBounds{Min: decimal.NewFromFloat(lo), Max: decimal.NewFromFloat(hi)}
}

// Check rejects value when it falls outside a configured bound.
func (b RateBounds) Check(value decimal.Decimal) error {
	if b.Min.IsPositive() && value.LessThan(b.Min) {
		return fmt.Errorf("%w: exchange rate %s is below the minimum %s", ErrValidationFailed, value, b.Min)
	}
	if b.Max.IsPositive() && value.GreaterThan(b.Max) {
		return fmt.Errorf("%w: exchange rate %s is above the maximum %s", ErrValidationFailed, value, b.Max)
	}
	return nil
}

// ValidateCurrencyCode accepts USD or IQD only.
func ValidateCurrencyCode(raw string) (models.Currency, error) {
	c, err := models.ParseCurrency(raw, "")
	if err != nil || c == "" || c == models.CurrencyMulti {
		return "", fmt.Errorf("%w: currency must be USD or IQD, got '%s'", ErrValidationFailed, raw)
	}
	return c, nil
}

// ValidateObligationKind accepts company_debt or personal_loan.
func ValidateObligationKind(raw string) (models.ObligationKind, error) {
	switch kind := models.ObligationKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case models.ObligationCompanyDebt, models.ObligationPersonalLoan:
		return kind, nil
	}
	return "", fmt.Errorf("%w: kind must be '%s' or '%s'", ErrValidationFailed, models.ObligationCompanyDebt, models.ObligationPersonalLoan)
}

// ParseID parses a positive numeric identifier taken from a URL.
func ParseID(raw, fieldName string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrValidationFailed, fieldName)
	}
	return id, nil
}

package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// Common validation errors
var (
	ErrInvalidISIN     = fmt.Errorf("invalid ISIN format")
	ErrInvalidAccount  = fmt.Errorf("invalid account number")
	ErrInvalidDate     = fmt.Errorf("invalid date format, expected YYYY-MM-DD")
	ErrInvalidMode     = fmt.Errorf("invalid trade mode")
	ErrInvalidWeight   = fmt.Errorf("weight must be between 0 and 100")
	ErrEmptySlice      = fmt.Errorf("slice cannot be empty")
)

// isinPattern is the standard ISIN shape: 2 letters, 9 alphanumerics, 1 check digit.
var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// accountPattern keeps account numbers to the character set the custodian
// files actually use.
var accountPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-]{0,199}$`)

// ValidateISIN checks if a string has a valid ISIN shape.
func ValidateISIN(isin string) error {
	if !isinPattern.MatchString(isin) {
		return fmt.Errorf("%w: %s", ErrInvalidISIN, isin)
	}
	return nil
}

// ValidateAccountNumber checks an account number for shape and length.
func ValidateAccountNumber(account string) error {
	if !accountPattern.MatchString(account) {
		return fmt.Errorf("%w: %q", ErrInvalidAccount, account)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date string in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.UTC(), nil
}

// ValidateTradeMode checks the trade mode against the closed set.
func ValidateTradeMode(mode string) error {
	switch mode {
	case model.ModeCash, model.ModeRebalance, model.ModeBoth:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// ValidateTargetWeights checks each weight is within 0-100. Weights need not
// sum to 100; cash is the implied residual.
func ValidateTargetWeights(weights []model.TargetWeight) error {
	if len(weights) == 0 {
		return ErrEmptySlice
	}
	for _, w := range weights {
		if w.IndexIsin == "" {
			return fmt.Errorf("%w: empty index ISIN", ErrInvalidISIN)
		}
		if w.Weight < 0 || w.Weight > 100 {
			return fmt.Errorf("%w: %s=%.2f", ErrInvalidWeight, w.IndexIsin, w.Weight)
		}
	}
	return nil
}

package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MinAccountIDLength = 8
	MaxAccountIDLength = 15 // E.164
	// ProxyAccountMinLength is the shortest token read as an account rather than a value
	// in "/bf <account> <value>".
	ProxyAccountMinLength = 10
	MaxAdjustmentAmount   = "1000000000" // 1 billion
	// MaxAmountScale is the most decimal places an amount may carry.
	MaxAmountScale = 12

	maxAmountExponent = 9
)

var maxAmount = decimal.RequireFromString(MaxAdjustmentAmount)

// WithinAmountLimit reports whether |d| <= MaxAdjustmentAmount with at most MaxAmountScale
// decimal places. The exponent is checked before any arithmetic, so a value such as
// 1e30000000 is rejected without being expanded.
func WithinAmountLimit(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxAmountExponent || exp < -MaxAmountScale {
		return false
	}
	return d.Abs().LessThanOrEqual(maxAmount)
}

// ValidateAccountID checks a normalized account identifier.
func ValidateAccountID(id string) error {
	if len(id) < MinAccountIDLength || len(id) > MaxAccountIDLength {
		return fmt.Errorf("%w: %q must have %d to %d digits", ErrInvalidAccountID, id, MinAccountIDLength, MaxAccountIDLength)
	}

	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q contains non-digit characters", ErrInvalidAccountID, id)
		}
	}

	return nil
}

// ParseAmount reads a typed value such as "100", "-50" or "10,5".
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	if !WithinAmountLimit(d) {
		return decimal.Zero, fmt.Errorf("%w: maximum amount is %s with %d decimals", ErrInvalidAmount, MaxAdjustmentAmount, MaxAmountScale)
	}

	return d, nil
}

// ParseDueDate validates a dd/mm due date and returns it zero padded.
func ParseDueDate(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q is not dd/mm", ErrInvalidDueDate, raw)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return "", fmt.Errorf("%w: bad day in %q", ErrInvalidDueDate, raw)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("%w: bad month in %q", ErrInvalidDueDate, raw)
	}

	return fmt.Sprintf("%02d/%02d", day, month), nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 500
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

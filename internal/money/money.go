// Package money converts between user-facing decimal strings and the int64
// minor units every table stores.
package money

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

var minorFactor = decimal.NewFromInt(100)

// ParseMinor parses a decimal string ("150000", "150000.50") into minor
// units. At most two decimal places are accepted.
func ParseMinor(input string) (int64, error) {
	value, err := decimal.NewFromString(input)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if value.Exponent() < -2 {
		return 0, ErrTooManyDecimals
	}
	minor := value.Mul(minorFactor)
	if !minor.IsInteger() {
		return 0, ErrTooManyDecimals
	}
	return minor.IntPart(), nil
}

// FormatMinor renders minor units back as a fixed two-decimal string.
func FormatMinor(value int64) string {
	return decimal.New(value, -2).StringFixed(2)
}

func ValueToInt64(value interface{}) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case []byte:
		parsed, _ := strconv.ParseInt(string(v), 10, 64)
		return parsed
	case string:
		parsed, _ := strconv.ParseInt(v, 10, 64)
		return parsed
	default:
		parsed, _ := strconv.ParseInt(fmt.Sprint(v), 10, 64)
		return parsed
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"babadolan/internal/money"
)

var errInvalidAmount = errors.New("invalid amount")

func parseAmountMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil || amount <= 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}

// parseSignedMinor accepts zero and negative values; used for manual balance
// correction and advance settlement.
func parseSignedMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil {
		return 0, errInvalidAmount
	}
	return amount, nil
}

func parseListParams(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

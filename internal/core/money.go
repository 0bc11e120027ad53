// Package core holds the flat entity records of the barangay farm and the
// pure aggregations derived from them: budget totals, crop rollups, poll
// tallies and volunteer rankings. Aggregators never mutate their inputs.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCentavos converts a decimal amount string to centavos with
// half-up rounding on the third decimal place. Both dot (12.34) and comma
// (12,34) separators are accepted. Zero and negative amounts are rejected:
// the ledger only carries positive entries.
func ParseDecimalToCentavos(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	centavos := iv*100 + frac
	if centavos <= 0 {
		return 0, ErrInvalidAmount
	}
	return centavos, nil
}

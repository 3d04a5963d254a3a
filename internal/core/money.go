// Package core holds the domain model for the expense-splitting bot.
//
// This file contains amount parsing and formatting. Amounts are handled as
// integer cents internally; the persisted document and all user-facing text
// use the decimal euro representation.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmountToCents converts a user-typed decimal string to cents.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted; a
// third decimal digit is rounded half-up. Zero is a valid amount. Explicit
// signs and anything non-numeric fail with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmountToCents("15.50") -> 1550, nil
//	ParseAmountToCents("15,50") -> 1550, nil
//	ParseAmountToCents("0")     -> 0, nil
//	ParseAmountToCents("-5")    -> 0, ErrInvalidAmount
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
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
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// CentsFromEuros converts a float euro value (the persisted representation)
// to cents with half-up rounding.
func CentsFromEuros(euros float64) int64 {
	return int64(math.Round(euros * 100))
}

// Euros returns the euro value as a float64 for display and persistence.
// Use cents for calculations.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount with two decimals, e.g. "15.50".
func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Euros())
}

// Package core provides money parsing and handling utilities.
//
// This file contains helpers for turning spreadsheet cells into decimals and
// decimals into the float64 values used by JSON output.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a spreadsheet cell into a nullable decimal.
//
// Blank cells and the literal "nan" are missing values. Both dot (12.34) and
// comma (12,34) decimal separators are accepted, as are space and no-break
// space thousand separators.
//
// Examples:
//
//	ParseAmount("-160,89")   -> -160.89, valid
//	ParseAmount("1 212.80")  -> 1212.80, valid
//	ParseAmount("")          -> invalid
func ParseAmount(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.NullDecimal{}
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Round2 rounds to two decimal places (half away from zero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Float returns the float64 value of d for display and JSON output.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// NullFloat returns nil for a missing decimal, the float64 value otherwise.
func NullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

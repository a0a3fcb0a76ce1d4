package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02" // FchEmis format

// coerceDecimal parses a numeric envelope field. Blank or malformed input
// yields nil — absence, never zero, so "unreported" stays distinguishable
// from "reported zero".
func coerceDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// coerceDate parses a YYYY-MM-DD envelope date; failure yields nil.
func coerceDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// coerceString normalizes a blank string to absence.
func coerceString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

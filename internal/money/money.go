// Package money parses monetary strings as they appear on UK bank
// statements: "£1,234.56", "(12.34)", "1,234.56 CR", non-breaking spaces,
// and unicode minus variants.
package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var trailingMarker = regexp.MustCompile(`(?i)\s*(CR|DR|CREDIT|DEBIT)\.?\s*$`)

// Parse converts a statement money string to a decimal. The empty string is
// an error; callers decide whether a field is optional before calling.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := normalize(s)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty money value %q", s)
	}

	neg := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		neg = true
		cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
	}

	cleaned = trailingMarker.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("no numeric content in %q", s)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing money %q: %w", s, err)
	}
	if neg {
		d = d.Abs().Neg()
	}
	return d, nil
}

// ParseOptional parses s, returning an invalid NullDecimal for blank input.
// Zero is a valid balance; only blank means missing.
func ParseOptional(s string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := Parse(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, " ", " ") // NBSP
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, ",", "")
	// Unicode minus and dash variants used by some statement renderers.
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	return strings.TrimSpace(s)
}

package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountKind tags the three shapes a monetary token can take on a broker
// statement. Keeping the distinction explicit lets callers match
// exhaustively instead of comparing magic strings.
type AmountKind int

const (
	// AmountEmpty covers absent values and the "--" / "-" placeholders.
	AmountEmpty AmountKind = iota
	// AmountNotProvided is the literal "Not Provided" cost basis marker.
	// It is preserved verbatim, never coerced to zero or empty.
	AmountNotProvided
	// AmountValue holds a canonicalized token: no currency symbol, no
	// thousands separators, parenthesized negatives rewritten with a
	// leading minus, numeric values rendered with two fractional digits.
	AmountValue
)

// Amount is the normalized form of a monetary token.
type Amount struct {
	Kind AmountKind
	text string
}

// ParseAmount canonicalizes a raw statement token. It never fails: tokens
// that survive symbol stripping but do not parse as numbers are carried
// through trimmed and otherwise unchanged. The function is idempotent, so
// already-normalized values round-trip exactly.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" || s == "-" {
		return Amount{Kind: AmountEmpty}
	}
	if s == "Not Provided" {
		return Amount{Kind: AmountNotProvided}
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, "$", ""))
	if s == "" || s == "--" {
		return Amount{Kind: AmountEmpty}
	}

	neg := false
	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		neg = true
		s = strings.NewReplacer("(", "", ")", "").Replace(s)
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "--" {
		return Amount{Kind: AmountEmpty}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Kind: AmountValue, text: s}
	}
	if neg {
		d = d.Neg()
	}
	return Amount{Kind: AmountValue, text: d.StringFixed(2)}
}

// String renders the amount back to its canonical text form.
func (a Amount) String() string {
	switch a.Kind {
	case AmountNotProvided:
		return "Not Provided"
	case AmountValue:
		return a.text
	default:
		return ""
	}
}

// NormalizeAmount is shorthand for ParseAmount(s).String(), for callers that
// only need the canonical text.
func NormalizeAmount(s string) string {
	return ParseAmount(s).String()
}

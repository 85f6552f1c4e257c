// Package ticker classifies raw instrument identifiers by their shape.
//
// Classification is pure: the same string always yields the same Class and no I/O
// is performed. It is the single rule table used by every caller; classes are
// never persisted, always recomputed.
package ticker

import (
	"strings"
)

// Class is the instrument type derived from a ticker string.
type Class int

const (
	Invalid Class = iota
	StockNSE
	StockBSE
	MutualFundAMFI
	MutualFundISIN
	PMS
	AIF
)

// maxLength is the longest identifier accepted; longer strings are free text.
const maxLength = 25

// pmsKeywords mark a ticker as a PMS when found anywhere in the upper-cased string.
var pmsKeywords = []string{"PMS", "INP", "BUOYANT", "CARNELIAN", "JULIUS", "VALENTIS", "UNIFI"}

var classNames = map[Class]string{
	Invalid:        "invalid",
	StockNSE:       "stock_nse",
	StockBSE:       "stock_bse",
	MutualFundAMFI: "mutual_fund_amfi",
	MutualFundISIN: "mutual_fund_isin",
	PMS:            "pms",
	AIF:            "aif",
}

// String returns the snake_case name of the class.
func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the class by name in JSON payloads.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseClass is the inverse of String. Unknown names yield Invalid and false.
func ParseClass(name string) (Class, bool) {
	for c, n := range classNames {
		if n == name {
			return c, true
		}
	}
	return Invalid, false
}

// IsStock reports whether the class is an exchange-listed equity.
func (c Class) IsStock() bool { return c == StockNSE || c == StockBSE }

// IsFund reports whether the class is a mutual fund.
func (c Class) IsFund() bool { return c == MutualFundAMFI || c == MutualFundISIN }

// IsAlternative reports whether the class has no market price (PMS or AIF).
func (c Class) IsAlternative() bool { return c == PMS || c == AIF }

// Classify determines the instrument class of a raw ticker. Rules are applied in
// order and the first match wins.
func Classify(raw string) Class {
	t := strings.TrimSpace(raw)
	upper := strings.ToUpper(t)

	if t == "" || strings.Contains(t, "/") ||
		strings.Contains(upper, "E+") || strings.Contains(upper, "E-") ||
		len(t) > maxLength {
		return Invalid
	}

	if isPMS(upper) {
		return PMS
	}

	if strings.HasPrefix(upper, "AIF") || strings.Contains(upper, "AIF") || strings.Contains(upper, "LEI:") {
		return AIF
	}

	if strings.HasPrefix(upper, "INF") && len(upper) == 12 {
		return MutualFundISIN
	}

	if isDigits(t) {
		switch {
		case len(t) == 6 && t[0] == '5':
			return StockBSE
		case len(t) >= 5 && len(t) <= 7:
			return MutualFundAMFI
		default:
			return StockNSE
		}
	}

	return StockNSE
}

func isPMS(upper string) bool {
	if strings.HasPrefix(upper, "INP") || strings.HasSuffix(upper, "_PMS") {
		return true
	}
	for _, kw := range pmsKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Normalize returns the canonical form of a raw ticker: trimmed and upper-cased.
// Cache rows, holdings and return series are all keyed by it.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Symbol returns the exchange symbol for a stock ticker: trimmed, upper-cased and
// with any Yahoo exchange suffix removed ("infy.ns" → "INFY").
func Symbol(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for _, suffix := range []string{".NS", ".BO"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

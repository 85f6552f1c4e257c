package llm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "niveshak/internal/errors"
)

var (
	numberRe   = regexp.MustCompile(`[+-]?\d+(?:\.\d+)?`)
	currencyRe = regexp.MustCompile(`(?i)₹|\bINR\b|\bRs\.?`)
	bulletRe   = regexp.MustCompile(`^(?:\d+[.)]\s+|[-*•]\s*)`)
)

// Answer is a parsed single-value reply.
type Answer struct {
	Value float64
	// Date is the trading date the model reported, when it gave one.
	Date *time.Time
}

// ParseNumber extracts the first number from text after stripping currency markers
// and thousands separators. Only positive values are accepted.
func ParseNumber(text string) (float64, bool) {
	cleaned := currencyRe.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	m := numberRe.FindString(cleaned)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || !(v > 0) {
		return 0, false
	}
	return v, true
}

// ParseSingle parses a VALUE or VALUE|DATE reply. NOT_FOUND, empty replies and
// non-positive values are reported as ErrPriceNotFound.
func ParseSingle(text string) (Answer, error) {
	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), "`\"'"))
	if text == "" {
		return Answer{}, apperrors.Wrap(apperrors.ErrPriceNotFound, fmt.Errorf("empty answer"))
	}
	if strings.Contains(strings.ToUpper(text), NotFoundToken) {
		return Answer{}, apperrors.Wrap(apperrors.ErrPriceNotFound, fmt.Errorf("model answered %s", NotFoundToken))
	}

	line := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	parts := strings.Split(line, "|")

	v, ok := ParseNumber(parts[0])
	if !ok {
		return Answer{}, apperrors.Wrap(apperrors.ErrPriceNotFound, fmt.Errorf("no positive number in %q", line))
	}
	ans := Answer{Value: v}
	if len(parts) > 1 {
		if d, ok := parseDate(parts[1]); ok {
			ans.Date = &d
		}
	}
	return ans, nil
}

// ParseBulk parses CODE|VALUE lines. Each line stands alone: a malformed line, a
// NOT_FOUND value or a non-positive value drops only that line. Codes are upper-cased.
func ParseBulk(text string) map[string]float64 {
	out := make(map[string]float64)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "`"))
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		code := strings.ToUpper(strings.TrimSpace(bulletRe.ReplaceAllString(parts[0], "")))
		if code == "" || strings.Contains(strings.ToUpper(parts[1]), NotFoundToken) {
			continue
		}
		v, ok := ParseNumber(parts[1])
		if !ok {
			continue
		}
		out[code] = v
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, "02-01-2006", "02-Jan-2006", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

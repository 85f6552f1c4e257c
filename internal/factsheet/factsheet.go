// Package factsheet extracts trailing return figures from PMS/AIF factsheet text.
package factsheet

import (
	"regexp"
	"strconv"

	"niveshak/internal/cagr"
)

const pct = `([+-]?\d+\.?\d*)\s*%`

// patterns are tried in order per period; the first match wins.
var patterns = []struct {
	period cagr.Period
	res    []*regexp.Regexp
}{
	{cagr.OneMonth, compile(
		`1\s*M(?:onth)?.*?(?:Return|Performance).*?`+pct,
		`1\s*Month.*?`+pct,
	)},
	{cagr.ThreeMonths, compile(
		`3\s*M(?:onth)?.*?(?:Return|Performance).*?`+pct,
		`3\s*Month.*?`+pct,
	)},
	{cagr.SixMonths, compile(
		`6\s*M(?:onth)?.*?(?:Return|Performance).*?`+pct,
		`6\s*Month.*?`+pct,
	)},
	{cagr.OneYear, compile(
		`1\s*Y(?:ear)?.*?(?:Return|CAGR|Performance).*?`+pct,
		`1\s*Year.*?`+pct,
		`(?:^|\s)1Y\s*(?:Return|CAGR)?\s*[:\-]?\s*`+pct,
	)},
	{cagr.ThreeYears, compile(
		`3\s*Y(?:ear)?.*?(?:CAGR|Return|Performance).*?`+pct,
		`3\s*Year.*?CAGR.*?`+pct,
		`(?:^|\s)3Y\s*(?:CAGR|Return)?\s*[:\-]?\s*`+pct,
	)},
	{cagr.FiveYears, compile(
		`5\s*Y(?:ear)?.*?(?:CAGR|Return|Performance).*?`+pct,
		`5\s*Year.*?CAGR.*?`+pct,
		`(?:^|\s)5Y\s*(?:CAGR|Return)?\s*[:\-]?\s*`+pct,
	)},
	{cagr.SinceInception, compile(
		`Since\s*Inception.*?CAGR.*?`+pct,
		`SI.*?CAGR.*?`+pct,
	)},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		// (?i) case-insensitive, (?m) so ^ anchors at line starts; . does not cross lines.
		out[i] = regexp.MustCompile(`(?im)` + e)
	}
	return out
}

// ExtractReturns scans factsheet text line-wise for period labels followed by a
// percentage. Periods with no match are absent from the result.
func ExtractReturns(text string) cagr.ReturnSeries {
	series := cagr.ReturnSeries{}
	for _, p := range patterns {
		for _, re := range p.res {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			series[p.period] = v
			break
		}
	}
	return series
}

// Package cagr projects the value of PMS/AIF holdings from disclosed return figures.
//
// PMS and AIF vehicles have no daily market price; their factsheets publish trailing
// returns instead. The projector compounds an investment forward with the
// longest-horizon figure the holding period qualifies for.
package cagr

import (
	"math"
	"time"
)

// Period labels a disclosed return figure.
type Period string

const (
	OneMonth       Period = "1m_return"
	ThreeMonths    Period = "3m_return"
	SixMonths      Period = "6m_return"
	OneYear        Period = "1y_return"
	ThreeYears     Period = "3y_cagr"
	FiveYears      Period = "5y_cagr"
	SinceInception Period = "since_inception"
)

// Periods lists every known label.
var Periods = []Period{OneMonth, ThreeMonths, SixMonths, OneYear, ThreeYears, FiveYears, SinceInception}

// ParsePeriod returns the Period for a known label.
func ParsePeriod(s string) (Period, bool) {
	for _, p := range Periods {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// ReturnSeries maps period labels to percentage returns (18.2 means 18.2%).
// Any subset of keys may be present.
type ReturnSeries map[Period]float64

// daysPerYear is the mean Gregorian year length used for elapsed time.
const daysPerYear = 365.25

// window is one selection rule: the figure to use once minMonths calendar months
// have elapsed. periodDays is set for sub-annual figures, which are annualized
// before compounding.
type window struct {
	period     Period
	minMonths  int
	periodDays float64
}

// windows is ordered longest horizon first.
var windows = []window{
	{period: FiveYears, minMonths: 60},
	{period: ThreeYears, minMonths: 36},
	{period: OneYear, minMonths: 12},
	{period: SixMonths, minMonths: 6, periodDays: 365.0 / 2},
	{period: ThreeMonths, minMonths: 3, periodDays: 365.0 / 4},
	{period: OneMonth, minMonths: 1, periodDays: 365.0 / 12},
}

// Projection is the outcome of compounding an investment to a given date.
type Projection struct {
	Amount     float64 `json:"investment_amount"`
	Value      float64 `json:"current_value"`
	Gain       float64 `json:"absolute_gain"`
	GainPct    float64 `json:"percentage_gain"`
	Years      float64 `json:"years_elapsed"`
	Period     Period  `json:"return_period,omitempty"`
	AnnualRate float64 `json:"annual_rate"`
}

// Grew reports whether a return figure was applied.
func (p Projection) Grew() bool { return p.Period != "" }

// YearsBetween returns the elapsed time in years between two dates.
func YearsBetween(from, to time.Time) float64 {
	days := math.Floor(to.Sub(from).Hours() / 24)
	return days / daysPerYear
}

// Project compounds amount from investedOn to asOf using the best qualifying figure
// in returns. With no qualifying figure the value stays flat at amount.
func Project(amount float64, investedOn, asOf time.Time, returns ReturnSeries) Projection {
	years := YearsBetween(investedOn, asOf)
	p := Projection{Amount: amount, Value: amount, Years: years}

	if years > 0 {
		if w, pct, ok := selectWindow(investedOn, asOf, returns); ok {
			rate := pct / 100
			if w.periodDays > 0 {
				rate = math.Pow(1+rate, 365/w.periodDays) - 1
			}
			p.Period = w.period
			p.AnnualRate = rate
			p.Value = amount * math.Pow(1+rate, years)
		}
	}

	p.Gain = p.Value - amount
	if amount > 0 {
		p.GainPct = p.Gain / amount * 100
	}
	return p
}

// ProjectValue is Project reduced to the projected value.
func ProjectValue(amount float64, investedOn, asOf time.Time, returns ReturnSeries) float64 {
	return Project(amount, investedOn, asOf, returns).Value
}

// selectWindow picks by calendar anniversary so a holding of exactly N years
// qualifies for the N-year figure.
func selectWindow(investedOn, asOf time.Time, returns ReturnSeries) (window, float64, bool) {
	for _, w := range windows {
		if investedOn.AddDate(0, w.minMonths, 0).After(asOf) {
			continue
		}
		if pct, ok := returns[w.period]; ok && !math.IsNaN(pct) && !math.IsInf(pct, 0) {
			return w, pct, true
		}
	}
	return window{}, 0, false
}

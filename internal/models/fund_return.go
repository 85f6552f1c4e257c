package models

import "time"

// FundReturn is one disclosed return figure for a PMS/AIF, e.g. ("INP000006387", "3y_cagr", 18.2).
// A ticker's rows together form its return series.
type FundReturn struct {
	Base
	Ticker   string    `gorm:"not null;uniqueIndex:uq_fund_returns_ticker_period" json:"ticker"`
	Period   string    `gorm:"not null;uniqueIndex:uq_fund_returns_ticker_period" json:"period"`
	Value    float64   `gorm:"not null" json:"value"`
	Source   string    `json:"source"`
	AsOfDate time.Time `gorm:"type:date" json:"as_of_date"`
}

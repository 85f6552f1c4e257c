package pricing

import (
	"context"
	"time"

	"niveshak/internal/cache"
	"niveshak/internal/cagr"
	apperrors "niveshak/internal/errors"
	"niveshak/internal/services"
	"niveshak/internal/ticker"
)

// Valuation is the projected worth of a PMS/AIF holding on a date.
type Valuation struct {
	Ticker       string              `json:"ticker"`
	Class        ticker.Class        `json:"class"`
	AsOf         time.Time           `json:"as_of"`
	Investment   services.Investment `json:"investment"`
	Returns      cagr.ReturnSeries   `json:"returns"`
	Projection   cagr.Projection     `json:"projection"`
	PricePerUnit float64             `json:"price_per_unit"`
}

// Valuation projects the first buy of a PMS or AIF ticker to asOf.
func (r *Resolver) Valuation(ctx context.Context, raw string, asOf time.Time) (*Valuation, error) {
	inst := Instrument{Ticker: raw, Class: ticker.Classify(raw)}
	if !inst.Class.IsAlternative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTicker, "valuation is only available for PMS and AIF tickers")
	}
	if r.holdings == nil {
		return nil, apperrors.ErrInvestmentNotFound
	}
	if r.returns == nil {
		return nil, apperrors.ErrReturnsNotFound
	}
	return r.project(ctx, inst, cache.Day(asOf))
}

func (r *Resolver) project(ctx context.Context, inst Instrument, asOf time.Time) (*Valuation, error) {
	if r.returns == nil {
		return nil, apperrors.ErrReturnsNotFound
	}
	inv, err := r.holdings.EarliestInvestment(ctx, inst.Ticker)
	if err != nil {
		return nil, err
	}
	series, err := r.returns.Get(ctx, inst.Ticker)
	if err != nil {
		return nil, err
	}

	proj := cagr.Project(inv.Amount, inv.Date, asOf, series)
	perUnit := proj.Value
	if inv.Units > 0 {
		perUnit = proj.Value / inv.Units
	}
	return &Valuation{
		Ticker:       inst.Ticker,
		Class:        inst.Class,
		AsOf:         asOf,
		Investment:   *inv,
		Returns:      series,
		Projection:   proj,
		PricePerUnit: perUnit,
	}, nil
}

package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"niveshak/internal/cagr"
	apperrors "niveshak/internal/errors"
	"niveshak/internal/models"
	"niveshak/internal/ticker"
)

// returnsService stores the return series disclosed by PMS and AIF factsheets.
type returnsService struct {
	db *gorm.DB
}

// NewReturnsService creates a new ReturnsServicer.
func NewReturnsService(db *gorm.DB) ReturnsServicer {
	return &returnsService{db: db}
}

// Save upserts every figure in series for ticker. Periods absent from series keep
// their previous values.
func (s *returnsService) Save(ctx context.Context, tickerRaw string, series cagr.ReturnSeries, source string, asOf time.Time) error {
	tickerRaw = ticker.Normalize(tickerRaw)
	if !ticker.Classify(tickerRaw).IsAlternative() {
		return apperrors.WithMessage(apperrors.ErrInvalidTicker, "return series are only kept for PMS and AIF tickers")
	}
	if len(series) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "return series is empty")
	}

	rows := make([]models.FundReturn, 0, len(series))
	for period, value := range series {
		if _, ok := cagr.ParsePeriod(string(period)); !ok {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown return period %q", period))
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("invalid value for %s", period))
		}
		rows = append(rows, models.FundReturn{
			Ticker:   tickerRaw,
			Period:   string(period),
			Value:    value,
			Source:   source,
			AsOfDate: asOf,
		})
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "source", "as_of_date", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Get returns the stored series for ticker.
func (s *returnsService) Get(ctx context.Context, tickerRaw string) (cagr.ReturnSeries, error) {
	var rows []models.FundReturn
	if err := s.db.WithContext(ctx).
		Where("ticker = ?", ticker.Normalize(tickerRaw)).
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrReturnsNotFound
	}

	series := make(cagr.ReturnSeries, len(rows))
	for _, r := range rows {
		if p, ok := cagr.ParsePeriod(r.Period); ok {
			series[p] = r.Value
		}
	}
	return series, nil
}

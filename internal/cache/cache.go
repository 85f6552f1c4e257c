// Package cache persists resolved prices in the write-once price_cache table.
package cache

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "niveshak/internal/errors"
	"niveshak/internal/models"
	"niveshak/internal/pagination"
)

// Store is the price cache contract. A (ticker, date) pair is written at most once;
// later writes for the same pair are silently ignored.
type Store interface {
	// Get returns the cached row or nil on a miss.
	Get(ctx context.Context, ticker string, date time.Time) (*models.CachedPrice, error)
	Put(ctx context.Context, ticker string, date time.Time, price float64, source string) error
	// GetMany returns hits keyed by ticker; misses are absent.
	GetMany(ctx context.Context, tickers []string, date time.Time) (map[string]*models.CachedPrice, error)
	Range(ctx context.Context, ticker string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.CachedPrice], error)
}

// Day truncates t to midnight UTC of its calendar day. Every cache key goes through it.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get looks up the price recorded for ticker on date.
func (s *GormStore) Get(ctx context.Context, ticker string, date time.Time) (*models.CachedPrice, error) {
	var row models.CachedPrice
	err := s.db.WithContext(ctx).
		Where("ticker = ? AND price_date = ?", ticker, Day(date)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}

// Put records price for (ticker, date). An existing row is left untouched.
func (s *GormStore) Put(ctx context.Context, ticker string, date time.Time, price float64, source string) error {
	if ticker == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "ticker is required")
	}
	if !(price > 0) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be positive")
	}

	row := models.CachedPrice{
		Ticker:    ticker,
		PriceDate: Day(date),
		Price:     price,
		Source:    source,
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetMany fetches cached prices for several tickers on one date in a single query.
func (s *GormStore) GetMany(ctx context.Context, tickers []string, date time.Time) (map[string]*models.CachedPrice, error) {
	out := make(map[string]*models.CachedPrice, len(tickers))
	if len(tickers) == 0 {
		return out, nil
	}

	var rows []models.CachedPrice
	if err := s.db.WithContext(ctx).
		Where("ticker IN ? AND price_date = ?", tickers, Day(date)).
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range rows {
		out[rows[i].Ticker] = &rows[i]
	}
	return out, nil
}

// Range lists cached prices for ticker between from and to inclusive, newest first.
// A zero from or to leaves that side open.
func (s *GormStore) Range(ctx context.Context, ticker string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.CachedPrice], error) {
	page.Defaults()

	query := s.db.WithContext(ctx).Model(&models.CachedPrice{}).Where("ticker = ?", ticker)
	if !from.IsZero() {
		query = query.Where("price_date >= ?", Day(from))
	}
	if !to.IsZero() {
		query = query.Where("price_date <= ?", Day(to))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rows []models.CachedPrice
	if err := query.Order("price_date DESC").Scopes(pagination.Paginate(page)).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(rows, page.Page, page.PageSize, total)
	return &resp, nil
}

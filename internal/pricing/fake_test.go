package pricing

import (
	"context"
	"errors"
	"sync"
	"time"

	"niveshak/internal/cache"
	"niveshak/internal/cagr"
	apperrors "niveshak/internal/errors"
	"niveshak/internal/models"
	"niveshak/internal/pagination"
	"niveshak/internal/provider"
	"niveshak/internal/services"
	"niveshak/internal/ticker"
)

// memStore is an in-memory cache.Store with the same write-once rules.
type memStore struct {
	mu      sync.Mutex
	rows    map[string]models.CachedPrice
	getErr  error
	puts    int
	getMany int
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]models.CachedPrice)}
}

func storeKey(tickerRaw string, date time.Time) string {
	return tickerRaw + "|" + cache.Day(date).Format(time.DateOnly)
}

func (s *memStore) Get(_ context.Context, tickerRaw string, date time.Time) (*models.CachedPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	row, ok := s.rows[storeKey(tickerRaw, date)]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *memStore) Put(_ context.Context, tickerRaw string, date time.Time, price float64, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if price <= 0 {
		return apperrors.ErrInvalidInput
	}
	s.puts++
	k := storeKey(tickerRaw, date)
	if _, ok := s.rows[k]; ok {
		return nil
	}
	s.rows[k] = models.CachedPrice{Ticker: tickerRaw, PriceDate: cache.Day(date), Price: price, Source: source}
	return nil
}

func (s *memStore) GetMany(_ context.Context, tickers []string, date time.Time) (map[string]*models.CachedPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getMany++
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := make(map[string]*models.CachedPrice)
	for _, t := range tickers {
		if row, ok := s.rows[storeKey(t, date)]; ok {
			out[t] = &row
		}
	}
	return out, nil
}

func (s *memStore) Range(context.Context, string, time.Time, time.Time, pagination.PageRequest) (*pagination.PageResponse[models.CachedPrice], error) {
	return nil, errors.New("not implemented")
}

func (s *memStore) row(tickerRaw string, date time.Time) (models.CachedPrice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[storeKey(tickerRaw, date)]
	return row, ok
}

// fakeSource answers from a fixed price table and records every call.
type fakeSource struct {
	tag      string
	classes  []ticker.Class
	prices   map[string]float64
	mu       sync.Mutex
	calls    []string
	bulkArgs [][]string
}

func newFakeSource(tag string, prices map[string]float64, classes ...ticker.Class) *fakeSource {
	return &fakeSource{tag: tag, prices: prices, classes: classes}
}

func (f *fakeSource) Name() string { return f.tag }
func (f *fakeSource) Tag() string  { return f.tag }

func (f *fakeSource) Supports(c ticker.Class) bool {
	for _, s := range f.classes {
		if s == c {
			return true
		}
	}
	return false
}

func (f *fakeSource) Fetch(_ context.Context, inst provider.Instrument, date *time.Time) (*provider.Quote, error) {
	f.mu.Lock()
	f.calls = append(f.calls, inst.Ticker)
	f.mu.Unlock()

	price, ok := f.prices[inst.Ticker]
	if !ok {
		return nil, &provider.FetchError{Ticker: inst.Ticker, Source: f.tag, Err: apperrors.ErrPriceNotFound}
	}
	q := &provider.Quote{Ticker: inst.Ticker, Price: price, Source: f.tag}
	if date != nil {
		q.Date = *date
	}
	return q, nil
}

func (f *fakeSource) FetchLatest(_ context.Context, insts []provider.Instrument) (map[string]*provider.Quote, []provider.FetchError) {
	f.mu.Lock()
	var tickers []string
	for _, inst := range insts {
		tickers = append(tickers, inst.Ticker)
	}
	f.bulkArgs = append(f.bulkArgs, tickers)
	f.mu.Unlock()

	quotes := make(map[string]*provider.Quote)
	var errs []provider.FetchError
	for _, inst := range insts {
		if price, ok := f.prices[inst.Ticker]; ok {
			quotes[inst.Ticker] = &provider.Quote{Ticker: inst.Ticker, Price: price, Source: f.tag}
			continue
		}
		errs = append(errs, provider.FetchError{Ticker: inst.Ticker, Source: f.tag, Err: apperrors.ErrPriceNotFound})
	}
	return quotes, errs
}

func (f *fakeSource) fetchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSource) bulkCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.bulkArgs...)
}

var (
	stockClasses = []ticker.Class{ticker.StockNSE, ticker.StockBSE}
	fundClasses  = []ticker.Class{ticker.MutualFundAMFI, ticker.MutualFundISIN}
	allClasses   = append(append([]ticker.Class{}, stockClasses...), fundClasses...)
)

// fakeHoldings serves investments and transaction prices from maps.
type fakeHoldings struct {
	investments map[string]services.Investment
	prices      map[string]float64
}

func (f *fakeHoldings) EarliestInvestment(_ context.Context, tickerRaw string) (*services.Investment, error) {
	inv, ok := f.investments[tickerRaw]
	if !ok {
		return nil, apperrors.ErrInvestmentNotFound
	}
	return &inv, nil
}

func (f *fakeHoldings) PriceAsOf(_ context.Context, tickerRaw string, _ time.Time) (float64, error) {
	p, ok := f.prices[tickerRaw]
	if !ok {
		return 0, apperrors.ErrInvestmentNotFound
	}
	return p, nil
}

type fakeReturns map[string]cagr.ReturnSeries

func (f fakeReturns) Get(_ context.Context, tickerRaw string) (cagr.ReturnSeries, error) {
	s, ok := f[tickerRaw]
	if !ok {
		return nil, apperrors.ErrReturnsNotFound
	}
	return s, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// Package pricing resolves a price for any instrument by walking a per-class chain
// of sources, caching the first positive answer.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"niveshak/internal/cache"
	"niveshak/internal/cagr"
	apperrors "niveshak/internal/errors"
	"niveshak/internal/provider"
	"niveshak/internal/services"
	"niveshak/internal/ticker"
)

type (
	Quote      = provider.Quote
	Instrument = provider.Instrument
)

// defaultWorkers bounds concurrent per-instrument chains in the bulk variants.
const defaultWorkers = 4

// Holdings is the slice of the transaction service the PMS/AIF chain reads.
type Holdings interface {
	EarliestInvestment(ctx context.Context, ticker string) (*services.Investment, error)
	PriceAsOf(ctx context.Context, ticker string, asOf time.Time) (float64, error)
}

// Returns looks up a stored PMS/AIF return series.
type Returns interface {
	Get(ctx context.Context, ticker string) (cagr.ReturnSeries, error)
}

// Config tunes a Resolver. Zero values select defaults.
type Config struct {
	// Now is the clock used to key latest prices. Defaults to time.Now.
	Now func() time.Time
	// Workers bounds concurrent chains in ResolveLatest and ResolveHistory.
	Workers int
}

// Resolver turns instruments into quotes.
type Resolver struct {
	store    cache.Store
	sources  Sources
	holdings Holdings
	returns  Returns
	now      func() time.Time
	workers  int
	log      *zap.SugaredLogger
}

// NewResolver creates a Resolver. holdings and returns may be nil, in which case
// PMS and AIF tickers never resolve.
func NewResolver(store cache.Store, sources Sources, holdings Holdings, returns Returns, cfg Config, log *zap.SugaredLogger) *Resolver {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Resolver{
		store:    store,
		sources:  sources,
		holdings: holdings,
		returns:  returns,
		now:      cfg.Now,
		workers:  cfg.Workers,
		log:      log,
	}
}

// Sources returns the configured sources.
func (r *Resolver) Sources() Sources { return r.sources }

// Today is the cache key for latest prices: the current calendar day in IST.
func (r *Resolver) Today() time.Time {
	return cache.Day(r.now().In(provider.IST))
}

func (r *Resolver) key(date *time.Time) time.Time {
	if date == nil {
		return r.Today()
	}
	return cache.Day(*date)
}

// Resolve returns the price of inst on date, or the latest price when date is nil.
// The error is ErrInvalidTicker or ErrPriceNotFound; IsNotFound holds for both.
func (r *Resolver) Resolve(ctx context.Context, inst Instrument, date *time.Time) (*Quote, error) {
	inst.Ticker = ticker.Normalize(inst.Ticker)
	inst.Class = ticker.Classify(inst.Ticker)
	if inst.Class == ticker.Invalid {
		return nil, apperrors.Wrap(apperrors.ErrInvalidTicker, fmt.Errorf("unrecognised ticker %q", inst.Ticker))
	}

	key := r.key(date)
	if q := r.cached(ctx, inst, key); q != nil {
		return q, nil
	}

	if inst.Class.IsAlternative() {
		return r.resolveAlternative(ctx, inst, key)
	}

	if q := r.walk(ctx, inst, date, key, r.sources.Chain(inst.Class)); q != nil {
		return q, nil
	}
	return nil, r.notFound(ctx, inst, key)
}

// walk tries each source in turn. Failures and unusable answers are logged and skipped.
func (r *Resolver) walk(ctx context.Context, inst Instrument, date *time.Time, key time.Time, chain []provider.Source) *Quote {
	for _, src := range chain {
		if ctx.Err() != nil {
			return nil
		}
		if !src.Supports(inst.Class) {
			continue
		}
		q, err := src.Fetch(ctx, inst, date)
		if err != nil {
			r.log.Debugw("price source failed", "source", src.Tag(), "ticker", inst.Ticker, "error", err)
			continue
		}
		if !usable(q) {
			r.log.Warnw("price source returned unusable value", "source", src.Tag(), "ticker", inst.Ticker)
			continue
		}
		return r.accept(ctx, inst, key, q, true)
	}
	return nil
}

// accept stamps q with the request key and, when persist is set, writes it to the cache.
func (r *Resolver) accept(ctx context.Context, inst Instrument, key time.Time, q *Quote, persist bool) *Quote {
	out := *q
	out.Ticker = inst.Ticker
	out.Date = key
	if out.AsOf.IsZero() {
		out.AsOf = key
	}
	if persist {
		if err := r.store.Put(ctx, inst.Ticker, key, out.Price, out.Source); err != nil {
			r.log.Warnw("failed to cache price", "ticker", inst.Ticker, "date", key.Format(time.DateOnly), "error", err)
		}
	}
	r.log.Debugw("price resolved", "ticker", inst.Ticker, "date", key.Format(time.DateOnly), "source", out.Source, "price", out.Price)
	return &out
}

func (r *Resolver) cached(ctx context.Context, inst Instrument, key time.Time) *Quote {
	row, err := r.store.Get(ctx, inst.Ticker, key)
	if err != nil {
		r.log.Warnw("price cache read failed", "ticker", inst.Ticker, "error", err)
		return nil
	}
	if row == nil || !usablePrice(row.Price) {
		return nil
	}
	return &Quote{Ticker: inst.Ticker, Date: key, AsOf: key, Price: row.Price, Source: row.Source}
}

func (r *Resolver) notFound(ctx context.Context, inst Instrument, key time.Time) error {
	cause := fmt.Errorf("no source priced %s (%s) for %s", inst.Ticker, inst.Class, key.Format(time.DateOnly))
	if err := ctx.Err(); err != nil {
		cause = fmt.Errorf("%w: %w", cause, err)
	}
	return apperrors.Wrap(apperrors.ErrPriceNotFound, cause)
}

// resolveAlternative prices a PMS or AIF unit. A CAGR projection from the first buy
// is cached; the fallback transaction price is returned but never cached.
func (r *Resolver) resolveAlternative(ctx context.Context, inst Instrument, key time.Time) (*Quote, error) {
	if r.holdings == nil {
		return nil, r.notFound(ctx, inst, key)
	}

	v, err := r.project(ctx, inst, key)
	switch {
	case err == nil && v.Projection.Grew():
		q := &Quote{Price: v.PricePerUnit, Source: provider.TagPMSCAGR}
		if usable(q) {
			return r.accept(ctx, inst, key, q, true), nil
		}
	case err != nil:
		r.log.Debugw("no projection for alternative", "ticker", inst.Ticker, "error", err)
	}

	price, err := r.holdings.PriceAsOf(ctx, inst.Ticker, key)
	if err != nil {
		r.log.Debugw("no transaction price for alternative", "ticker", inst.Ticker, "error", err)
		return nil, r.notFound(ctx, inst, key)
	}
	q := &Quote{Price: price, Source: provider.TagPMSTransactionPrice}
	if !usable(q) {
		return nil, r.notFound(ctx, inst, key)
	}
	return r.accept(ctx, inst, key, q, false), nil
}

// ResolveLatest prices many instruments at once. Cache hits are served first, then
// the AMFI list in one download, then each remaining instrument's deterministic
// chain, and finally one batched model prompt per batch of leftovers. Instruments
// nothing could price are absent from the result.
func (r *Resolver) ResolveLatest(ctx context.Context, insts []Instrument) map[string]*Quote {
	key := r.Today()
	out := make(map[string]*Quote, len(insts))

	pending := r.dedupe(insts)
	if len(pending) == 0 {
		return out
	}

	tickers := make([]string, len(pending))
	for i, inst := range pending {
		tickers[i] = inst.Ticker
	}
	hits, err := r.store.GetMany(ctx, tickers, key)
	if err != nil {
		r.log.Warnw("price cache bulk read failed", "count", len(tickers), "error", err)
	}
	pending = filter(pending, func(inst Instrument) bool {
		row, ok := hits[inst.Ticker]
		if !ok || !usablePrice(row.Price) {
			return true
		}
		out[inst.Ticker] = &Quote{Ticker: inst.Ticker, Date: key, AsOf: key, Price: row.Price, Source: row.Source}
		return false
	})
	r.log.Infow("latest prices from cache", "hits", len(out), "misses", len(pending))

	pending = r.bulk(ctx, r.sources.AMFI, pending, key, out)

	var mu sync.Mutex
	var unresolved []Instrument
	r.each(ctx, pending, func(inst Instrument) {
		var q *Quote
		if inst.Class.IsAlternative() {
			q, _ = r.resolveAlternative(ctx, inst, key)
		} else {
			q = r.walk(ctx, inst, nil, key, r.deterministic(inst.Class))
		}
		mu.Lock()
		defer mu.Unlock()
		if q != nil {
			out[inst.Ticker] = q
			return
		}
		unresolved = append(unresolved, inst)
	})

	r.bulk(ctx, r.sources.LLM, unresolved, key, out)
	return out
}

// bulk prices pending through src in one call and returns what it left unpriced.
func (r *Resolver) bulk(ctx context.Context, src provider.BulkSource, pending []Instrument, key time.Time, out map[string]*Quote) []Instrument {
	if src == nil || len(pending) == 0 || ctx.Err() != nil {
		return pending
	}

	var supported []Instrument
	for _, inst := range pending {
		if src.Supports(inst.Class) {
			supported = append(supported, inst)
		}
	}
	if len(supported) == 0 {
		return pending
	}

	quotes, fetchErrors := src.FetchLatest(ctx, supported)
	for _, fe := range fetchErrors {
		r.log.Debugw("bulk price source miss", "source", fe.Source, "ticker", fe.Ticker, "error", fe.Err)
	}
	r.log.Infow("bulk price source done", "source", src.Tag(), "requested", len(supported), "resolved", len(quotes))

	return filter(pending, func(inst Instrument) bool {
		q, ok := quotes[inst.Ticker]
		if !ok || !usable(q) {
			return true
		}
		out[inst.Ticker] = r.accept(ctx, inst, key, q, true)
		return false
	})
}

// deterministic is the class chain without the sources the bulk passes already tried.
func (r *Resolver) deterministic(c ticker.Class) []provider.Source {
	var chain []provider.Source
	for _, src := range r.sources.Chain(c) {
		if r.sources.LLM != nil && src == provider.Source(r.sources.LLM) {
			continue
		}
		if r.sources.AMFI != nil && src == provider.Source(r.sources.AMFI) {
			continue
		}
		chain = append(chain, src)
	}
	return chain
}

// ResolveHistory prices each instrument on each date, keyed by ticker and then by
// YYYY-MM-DD. Every valid ticker gets an entry, possibly empty.
func (r *Resolver) ResolveHistory(ctx context.Context, insts []Instrument, dates []time.Time) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(insts))
	var mu sync.Mutex

	r.each(ctx, r.dedupe(insts), func(inst Instrument) {
		series := make(map[string]float64, len(dates))
		for _, d := range dates {
			if ctx.Err() != nil {
				break
			}
			q, err := r.Resolve(ctx, inst, &d)
			if err != nil {
				r.log.Debugw("historical price not found", "ticker", inst.Ticker, "date", d.Format(time.DateOnly))
				continue
			}
			series[cache.Day(d).Format(time.DateOnly)] = q.Price
		}
		mu.Lock()
		out[inst.Ticker] = series
		mu.Unlock()
	})
	return out
}

// each runs fn for every instrument on at most r.workers goroutines.
func (r *Resolver) each(ctx context.Context, insts []Instrument, fn func(Instrument)) {
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup
	for _, inst := range insts {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(inst Instrument) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(inst)
		}(inst)
	}
	wg.Wait()
}

// dedupe normalizes and classifies insts and drops invalid tickers and repeats.
func (r *Resolver) dedupe(insts []Instrument) []Instrument {
	seen := make(map[string]bool, len(insts))
	out := make([]Instrument, 0, len(insts))
	for _, inst := range insts {
		inst.Ticker = ticker.Normalize(inst.Ticker)
		inst.Class = ticker.Classify(inst.Ticker)
		if inst.Class == ticker.Invalid {
			r.log.Debugw("skipping invalid ticker", "ticker", inst.Ticker)
			continue
		}
		if seen[inst.Ticker] {
			continue
		}
		seen[inst.Ticker] = true
		out = append(out, inst)
	}
	return out
}

func filter(insts []Instrument, keep func(Instrument) bool) []Instrument {
	var out []Instrument
	for _, inst := range insts {
		if keep(inst) {
			out = append(out, inst)
		}
	}
	return out
}

func usable(q *Quote) bool {
	return q != nil && usablePrice(q.Price)
}

func usablePrice(p float64) bool {
	return p > 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

// IsNotFound reports whether err means no price could be found. An invalid ticker
// counts: it never has a price, though callers may still tell it apart through
// ErrInvalidTicker.
func IsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrPriceNotFound) || errors.Is(err, apperrors.ErrInvalidTicker)
}

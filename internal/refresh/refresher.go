// Package refresh keeps the price cache warm by resolving the latest price of
// every ticker that appears in the transactions table.
package refresh

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"niveshak/internal/provider"
	"niveshak/internal/ticker"
)

// InstrumentLister returns the instruments worth refreshing.
type InstrumentLister interface {
	KnownInstruments(ctx context.Context) ([]provider.Instrument, error)
}

// LatestResolver prices instruments in bulk.
type LatestResolver interface {
	ResolveLatest(ctx context.Context, insts []provider.Instrument) map[string]*provider.Quote
}

// RunResult contains the outcome of a refresh run.
type RunResult struct {
	InstrumentsFound int            `json:"instruments_found"`
	PricesResolved   int            `json:"prices_resolved"`
	Invalid          []string       `json:"invalid"`
	Missing          []string       `json:"missing"`
	BySource         map[string]int `json:"by_source"`
	Duration         time.Duration  `json:"duration"`
}

// ErrAlreadyStarted is returned by Start on a running Refresher.
var ErrAlreadyStarted = errors.New("refresher already started")

// Refresher resolves latest prices for every known instrument, once or on a schedule.
type Refresher struct {
	instruments InstrumentLister
	resolver    LatestResolver
	interval    time.Duration
	log         *zap.SugaredLogger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewRefresher creates a Refresher that runs every interval once started.
func NewRefresher(instruments InstrumentLister, resolver LatestResolver, interval time.Duration, log *zap.SugaredLogger) *Refresher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Refresher{
		instruments: instruments,
		resolver:    resolver,
		interval:    interval,
		log:         log,
	}
}

// Run executes a single refresh cycle: list instruments, resolve, summarise.
func (r *Refresher) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{BySource: make(map[string]int)}

	// 1. Discover what is held.
	insts, err := r.instruments.KnownInstruments(ctx)
	if err != nil {
		return nil, err
	}
	result.InstrumentsFound = len(insts)

	if len(insts) == 0 {
		r.log.Info("no instruments found, nothing to refresh")
		result.Duration = time.Since(start)
		return result, nil
	}

	// 2. Drop tickers no source can price.
	valid := make([]provider.Instrument, 0, len(insts))
	for _, inst := range insts {
		inst.Class = ticker.Classify(inst.Ticker)
		if inst.Class == ticker.Invalid {
			result.Invalid = append(result.Invalid, inst.Ticker)
			continue
		}
		valid = append(valid, inst)
	}
	if len(result.Invalid) > 0 {
		r.log.Warnw("skipping unrecognised tickers", "count", len(result.Invalid), "tickers", result.Invalid)
	}

	// 3. Resolve everything else in bulk.
	quotes := r.resolver.ResolveLatest(ctx, valid)
	for _, inst := range valid {
		q, ok := quotes[inst.Ticker]
		if !ok {
			result.Missing = append(result.Missing, inst.Ticker)
			continue
		}
		result.PricesResolved++
		result.BySource[q.Source]++
	}
	sort.Strings(result.Missing)

	result.Duration = time.Since(start)
	return result, ctx.Err()
}

// Start schedules Run every interval until Stop is called or ctx is cancelled.
// Overlapping runs are skipped.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	logger := cronLogger{log: r.log}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	schedule := "@every " + r.interval.String()
	if _, err := c.AddFunc(schedule, func() { r.scheduled(runCtx) }); err != nil {
		cancel()
		return err
	}

	c.Start()
	r.cron, r.cancel = c, cancel
	r.log.Infow("refresher started", "schedule", schedule)
	return nil
}

// Stop cancels any in-flight run and waits for it to return.
func (r *Refresher) Stop() {
	r.mu.Lock()
	c, cancel := r.cron, r.cancel
	r.cron, r.cancel = nil, nil
	r.mu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	r.log.Info("refresher stopped")
}

func (r *Refresher) scheduled(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	result, err := r.Run(ctx)
	if err != nil {
		r.log.Errorw("refresh run failed", "error", err)
		return
	}
	r.log.Infow("refresh run complete",
		"instruments", result.InstrumentsFound,
		"resolved", result.PricesResolved,
		"missing", len(result.Missing),
		"invalid", len(result.Invalid),
		"by_source", result.BySource,
		"duration", result.Duration.Round(time.Millisecond),
	)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

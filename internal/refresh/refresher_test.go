package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niveshak/internal/provider"
)

// mockLister implements InstrumentLister for testing.
type mockLister struct {
	knownInstrumentsFn func(ctx context.Context) ([]provider.Instrument, error)
}

func (m *mockLister) KnownInstruments(ctx context.Context) ([]provider.Instrument, error) {
	return m.knownInstrumentsFn(ctx)
}

// mockResolver implements LatestResolver for testing.
type mockResolver struct {
	resolveLatestFn func(ctx context.Context, insts []provider.Instrument) map[string]*provider.Quote
}

func (m *mockResolver) ResolveLatest(ctx context.Context, insts []provider.Instrument) map[string]*provider.Quote {
	return m.resolveLatestFn(ctx, insts)
}

func listing(tickers ...string) *mockLister {
	return &mockLister{
		knownInstrumentsFn: func(_ context.Context) ([]provider.Instrument, error) {
			insts := make([]provider.Instrument, len(tickers))
			for i, t := range tickers {
				insts[i] = provider.NewInstrument(t, "")
			}
			return insts, nil
		},
	}
}

func TestRefresher_Run_FullFlow(t *testing.T) {
	var requested []provider.Instrument
	mr := &mockResolver{
		resolveLatestFn: func(_ context.Context, insts []provider.Instrument) map[string]*provider.Quote {
			requested = insts
			return map[string]*provider.Quote{
				"INFY":         {Ticker: "INFY", Price: 1500, Source: provider.TagYahooNSE},
				"TCS":          {Ticker: "TCS", Price: 3500, Source: provider.TagYahooNSE},
				"119551":       {Ticker: "119551", Price: 146.58, Source: provider.TagAMFIBulk},
				"INP000006387": {Ticker: "INP000006387", Price: 8258000, Source: provider.TagPMSCAGR},
			}
		},
	}

	r := NewRefresher(listing("INFY", "TCS", "119551", "INP000006387", "ZZZ", "3261/27"), mr, time.Hour, nil)
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, result.InstrumentsFound)
	assert.Len(t, requested, 5, "invalid ticker should be filtered before resolving")
	assert.Equal(t, 4, result.PricesResolved)
	assert.Equal(t, []string{"ZZZ"}, result.Missing)
	assert.Equal(t, []string{"3261/27"}, result.Invalid)
	assert.Equal(t, 2, result.BySource[provider.TagYahooNSE])
	assert.Equal(t, 1, result.BySource[provider.TagAMFIBulk])
}

func TestRefresher_Run_NoInstruments(t *testing.T) {
	called := false
	mr := &mockResolver{
		resolveLatestFn: func(_ context.Context, _ []provider.Instrument) map[string]*provider.Quote {
			called = true
			return nil
		},
	}

	r := NewRefresher(listing(), mr, time.Hour, nil)
	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.InstrumentsFound)
	assert.False(t, called, "resolver should not be called with nothing to refresh")
}

func TestRefresher_Run_ListError(t *testing.T) {
	ml := &mockLister{
		knownInstrumentsFn: func(_ context.Context) ([]provider.Instrument, error) {
			return nil, errors.New("database unavailable")
		},
	}

	r := NewRefresher(ml, &mockResolver{}, time.Hour, nil)
	_, err := r.Run(context.Background())
	assert.Error(t, err)
}

func TestRefresher_StartStop(t *testing.T) {
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	mr := &mockResolver{
		resolveLatestFn: func(_ context.Context, insts []provider.Instrument) map[string]*provider.Quote {
			if runs.Add(1) == 1 {
				done <- struct{}{}
			}
			return map[string]*provider.Quote{}
		},
	}

	r := NewRefresher(listing("INFY"), mr, time.Second, nil)
	require.NoError(t, r.Start(context.Background()))
	assert.ErrorIs(t, r.Start(context.Background()), ErrAlreadyStarted)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled run did not happen")
	}

	r.Stop()
	after := runs.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "expected no runs after Stop")

	// Stop is idempotent and the refresher can be restarted.
	r.Stop()
	require.NoError(t, r.Start(context.Background()))
	r.Stop()
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "niveshak/internal/errors"
	"niveshak/internal/provider"
	"niveshak/internal/ticker"
)

// DefaultBatchSize is how many instruments go into one bulk prompt.
const DefaultBatchSize = 20

// Source is the model fallback behind the provider.Source contract. Completers are
// tried in order; the first usable answer wins and is tagged with that model's tag.
type Source struct {
	completers []Completer
	batchSize  int
	log        *zap.SugaredLogger
}

// NewSource creates a model fallback. Put paid, unthrottled completers first.
func NewSource(log *zap.SugaredLogger, batchSize int, completers ...Completer) *Source {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Source{completers: completers, batchSize: batchSize, log: log}
}

// Available reports whether any model is configured.
func (s *Source) Available() bool { return len(s.completers) > 0 }

// Name returns the source's display name.
func (s *Source) Name() string {
	names := make([]string, len(s.completers))
	for i, c := range s.completers {
		names[i] = c.Name()
	}
	return "LLM (" + strings.Join(names, ", ") + ")"
}

// Tag returns the generic chain-step label; quotes carry the answering model's tag.
func (s *Source) Tag() string { return "ai" }

// Supports returns true for every priced class. PMS/AIF values come from return
// series, not market quotes.
func (s *Source) Supports(c ticker.Class) bool { return c.IsStock() || c.IsFund() }

// Fetch asks each model for the instrument's value. AMFI schemes whose code is
// not recognised get a second round by name alone.
func (s *Source) Fetch(ctx context.Context, inst provider.Instrument, date *time.Time) (*provider.Quote, error) {
	if !s.Available() {
		return nil, &provider.FetchError{Ticker: inst.Ticker, Source: s.Tag(),
			Err: apperrors.Wrap(apperrors.ErrPriceNotFound, errors.New("no model configured"))}
	}

	prompts := []string{SinglePrompt(inst, date)}
	if inst.Class == ticker.MutualFundAMFI && strings.TrimSpace(inst.Name) != "" {
		prompts = append(prompts, NamePrompt(inst, date))
	}

	var lastErr error
	for _, prompt := range prompts {
		for _, c := range s.completers {
			text, err := c.Complete(ctx, prompt)
			if err != nil {
				s.log.Warnw("model call failed", "model", c.Name(), "ticker", inst.Ticker, "error", err)
				lastErr = err
				continue
			}
			ans, err := ParseSingle(text)
			if err != nil {
				s.log.Debugw("model answer rejected", "model", c.Name(), "ticker", inst.Ticker, "answer", text)
				lastErr = err
				continue
			}
			return s.quote(inst, date, ans, c.Tag()), nil
		}
	}

	if lastErr == nil || !errors.Is(lastErr, apperrors.ErrPriceNotFound) {
		lastErr = apperrors.Wrap(apperrors.ErrPriceNotFound, fmt.Errorf("no model could price %s: %v", inst.Ticker, lastErr))
	}
	return nil, &provider.FetchError{Ticker: inst.Ticker, Source: s.Tag(), Err: lastErr}
}

func (s *Source) quote(inst provider.Instrument, date *time.Time, ans Answer, tag string) *provider.Quote {
	var requested time.Time
	if date != nil {
		requested = dayUTC(*date)
	}
	asOf := requested
	if ans.Date != nil {
		asOf = dayUTC(*ans.Date)
	}
	return &provider.Quote{Ticker: inst.Ticker, Date: requested, AsOf: asOf, Price: ans.Value, Source: tag}
}

// FetchLatest prices instruments in batches, one prompt per batch. Instruments a
// model skipped are retried with the next model.
func (s *Source) FetchLatest(ctx context.Context, insts []provider.Instrument) (map[string]*provider.Quote, []provider.FetchError) {
	quotes := make(map[string]*provider.Quote, len(insts))

	var supported []provider.Instrument
	for _, inst := range insts {
		if s.Supports(inst.Class) {
			supported = append(supported, inst)
		}
	}

	for start := 0; start < len(supported); start += s.batchSize {
		end := min(start+s.batchSize, len(supported))
		remaining := supported[start:end]

		for _, c := range s.completers {
			if len(remaining) == 0 {
				break
			}
			if ctx.Err() != nil {
				break
			}
			text, err := c.Complete(ctx, BulkPrompt(remaining))
			if err != nil {
				s.log.Warnw("bulk model call failed", "model", c.Name(), "batch_size", len(remaining), "error", err)
				continue
			}
			values := ParseBulk(text)

			var missed []provider.Instrument
			for _, inst := range remaining {
				v, ok := values[BulkKey(inst.Ticker)]
				if !ok {
					missed = append(missed, inst)
					continue
				}
				quotes[inst.Ticker] = &provider.Quote{Ticker: inst.Ticker, Price: v, Source: c.Tag()}
			}
			s.log.Infow("bulk model batch parsed", "model", c.Name(), "resolved", len(remaining)-len(missed), "requested", len(remaining))
			remaining = missed
		}
	}

	var fetchErrors []provider.FetchError
	for _, inst := range supported {
		if _, ok := quotes[inst.Ticker]; !ok {
			fetchErrors = append(fetchErrors, provider.FetchError{Ticker: inst.Ticker, Source: s.Tag(),
				Err: apperrors.Wrap(apperrors.ErrPriceNotFound, errors.New("not in any model answer"))})
		}
	}
	return quotes, fetchErrors
}

func dayUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

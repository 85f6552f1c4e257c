// Package provider defines the price sources the resolver chains together and
// their HTTP implementations.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "niveshak/internal/errors"
	"niveshak/internal/ticker"
)

// Source tags recorded alongside every cached price.
const (
	TagYahooNSE            = "yfinance_nse"
	TagYahooBSE            = "yfinance_bse"
	TagAMFIBulk            = "amfi_bulk"
	TagMFAPI               = "mftool"
	TagINDstocks           = "indstocks"
	TagGemini              = "ai_gemini"
	TagOpenAI              = "ai_openai"
	TagPMSCAGR             = "pms_cagr"
	TagPMSTransactionPrice = "pms_transaction_price"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// IST is the exchange timezone for Indian markets. Trading days are bucketed in it.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Instrument identifies what to price. Name is optional and only used by sources
// that cross-verify by name.
type Instrument struct {
	Ticker string
	Name   string
	Class  ticker.Class
}

// NewInstrument classifies raw and returns the instrument.
func NewInstrument(raw, name string) Instrument {
	t := ticker.Normalize(raw)
	return Instrument{Ticker: t, Name: name, Class: ticker.Classify(t)}
}

// Quote is one resolved price. Date is the requested day and AsOf the market day the
// value was observed on; they differ for nearest-trading-day lookups.
type Quote struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	AsOf   time.Time `json:"as_of"`
	Price  float64   `json:"price"`
	Source string    `json:"source"`
}

// Source fetches a single price for an instrument. A nil date asks for the latest price.
type Source interface {
	// Name returns the source's display name (e.g., "Yahoo Finance (NSE)").
	Name() string

	// Tag returns the source tag stored with prices from this source.
	Tag() string

	// Supports reports whether the source can price instruments of class c.
	Supports(c ticker.Class) bool

	// Fetch returns a quote with a positive price, or an error.
	Fetch(ctx context.Context, inst Instrument, date *time.Time) (*Quote, error)
}

// BulkSource is implemented by sources that can price many instruments in one call.
// Only latest prices are supported in bulk.
type BulkSource interface {
	Source

	// FetchLatest returns quotes keyed by ticker. Instruments it could not price are
	// absent from the map and reported in the error slice.
	FetchLatest(ctx context.Context, insts []Instrument) (map[string]*Quote, []FetchError)
}

// FetchError represents a failed price fetch for a specific instrument.
type FetchError struct {
	Ticker string
	Source string
	Err    error
}

// Error implements the error interface. It reports the underlying cause rather than
// the public message of a wrapping AppError.
func (e *FetchError) Error() string {
	cause := e.Err
	var appErr *apperrors.AppError
	if errors.As(cause, &appErr) && appErr.Internal != nil {
		cause = appErr.Internal
	}
	return fmt.Sprintf("%s: failed to fetch price for %s: %v", e.Source, e.Ticker, cause)
}

// Unwrap exposes the cause for errors.Is.
func (e *FetchError) Unwrap() error { return e.Err }

func fetchError(src Source, inst Instrument, err error) *FetchError {
	return &FetchError{Ticker: inst.Ticker, Source: src.Tag(), Err: err}
}

// notFound marks a well-formed response that carried no usable price.
func notFound(format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrPriceNotFound, fmt.Errorf(format, args...))
}

// unavailable marks a transport or decoding failure.
func unavailable(format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrSourceUnavailable, fmt.Errorf(format, args...))
}

// getJSON issues a GET and decodes a 200 response into out.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return unavailable("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return unavailable("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return notFound("unexpected status %d", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.Wrap(apperrors.ErrRateLimited, fmt.Errorf("unexpected status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return unavailable("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return unavailable("decoding response: %w", err)
	}
	return nil
}

// day truncates t to midnight UTC of its calendar day in loc.
func day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

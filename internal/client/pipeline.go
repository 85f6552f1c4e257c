// Package client provides an HTTP client for the niveshak pipeline API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"niveshak/internal/cagr"
	"niveshak/internal/provider"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Instrument identifies one instrument in a bulk price request.
type Instrument struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name,omitempty"`
}

// LatestPrices is the bulk latest-price response.
type LatestPrices struct {
	Prices  map[string]*provider.Quote `json:"prices"`
	Missing []string                   `json:"missing"`
}

// PipelineClient communicates with a running niveshak API.
type PipelineClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPipelineClient creates a new pipeline API client. apiKey is only needed for
// the /pipeline routes.
func NewPipelineClient(baseURL, apiKey string, httpClient *http.Client) *PipelineClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PipelineClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// SaveReturns upserts a PMS/AIF return series.
func (c *PipelineClient) SaveReturns(ctx context.Context, ticker string, series cagr.ReturnSeries, source string, asOf time.Time) (cagr.ReturnSeries, error) {
	body := struct {
		Returns cagr.ReturnSeries `json:"returns"`
		Source  string            `json:"source,omitempty"`
		AsOf    string            `json:"as_of,omitempty"`
	}{Returns: series, Source: source}
	if !asOf.IsZero() {
		body.AsOf = asOf.Format(time.DateOnly)
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling returns: %w", err)
	}

	var result struct {
		Returns cagr.ReturnSeries `json:"returns"`
	}
	path := "/api/v1/pipeline/pms/" + url.PathEscape(ticker) + "/returns"
	if err := c.do(ctx, http.MethodPut, path, "application/json", bytes.NewReader(jsonBody), &result); err != nil {
		return nil, fmt.Errorf("saving returns: %w", err)
	}
	return result.Returns, nil
}

// ImportFactsheet uploads factsheet text and returns the return series extracted from it.
func (c *PipelineClient) ImportFactsheet(ctx context.Context, ticker string, text io.Reader, asOf time.Time) (cagr.ReturnSeries, error) {
	path := "/api/v1/pipeline/pms/" + url.PathEscape(ticker) + "/factsheet"
	if !asOf.IsZero() {
		path += "?as_of=" + asOf.Format(time.DateOnly)
	}

	var result struct {
		Returns cagr.ReturnSeries `json:"returns"`
	}
	if err := c.do(ctx, http.MethodPost, path, "text/plain", text, &result); err != nil {
		return nil, fmt.Errorf("importing factsheet: %w", err)
	}
	return result.Returns, nil
}

// ImportTransactions uploads a transaction CSV and returns the number of rows stored.
func (c *PipelineClient) ImportTransactions(ctx context.Context, csv io.Reader) (int, error) {
	var result struct {
		Imported int `json:"imported"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/pipeline/transactions/import", "text/csv", csv, &result); err != nil {
		return 0, fmt.Errorf("importing transactions: %w", err)
	}
	return result.Imported, nil
}

// LatestPrices resolves latest prices for insts.
func (c *PipelineClient) LatestPrices(ctx context.Context, insts []Instrument) (*LatestPrices, error) {
	body := struct {
		Instruments []Instrument `json:"instruments"`
	}{Instruments: insts}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling instruments: %w", err)
	}

	var result LatestPrices
	if err := c.do(ctx, http.MethodPost, "/api/v1/prices/latest", "application/json", bytes.NewReader(jsonBody), &result); err != nil {
		return nil, fmt.Errorf("fetching latest prices: %w", err)
	}
	return &result, nil
}

func (c *PipelineClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Code, apiErr.Message = payload.Error.Code, payload.Error.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

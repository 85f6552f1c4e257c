package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"niveshak/internal/ticker"
)

// indstocksResponse is the INDstocks quote envelope.
type indstocksResponse struct {
	Status string `json:"status"`
	Data   *struct {
		Price float64 `json:"price"`
		Date  string  `json:"date"`
	} `json:"data"`
	Message string `json:"message"`
}

// INDstocksSource prices listed stocks and fund ISINs from the INDstocks REST API.
type INDstocksSource struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewINDstocksSource creates an INDstocks source authenticated with a bearer token.
func NewINDstocksSource(httpClient *http.Client, baseURL, token string) *INDstocksSource {
	return &INDstocksSource{httpClient: httpClient, baseURL: baseURL, token: token}
}

// Name returns the source's display name.
func (p *INDstocksSource) Name() string { return "INDstocks" }

// Tag returns indstocks.
func (p *INDstocksSource) Tag() string { return TagINDstocks }

// Supports returns true for stocks and fund ISINs.
func (p *INDstocksSource) Supports(c ticker.Class) bool {
	return c.IsStock() || c == ticker.MutualFundISIN
}

// Identifier maps an instrument to the INDstocks identifier: EXCHANGE:SYMBOL for
// stocks, the bare ISIN for funds.
func Identifier(inst Instrument) string {
	switch inst.Class {
	case ticker.StockBSE:
		return string(BSE) + ":" + ticker.Symbol(inst.Ticker)
	case ticker.StockNSE:
		return string(NSE) + ":" + ticker.Symbol(inst.Ticker)
	default:
		return strings.ToUpper(strings.TrimSpace(inst.Ticker))
	}
}

// Fetch returns the latest price, or the price on date.
func (p *INDstocksSource) Fetch(ctx context.Context, inst Instrument, date *time.Time) (*Quote, error) {
	params := url.Values{}
	params.Set("identifier", Identifier(inst))
	if date != nil {
		params.Set("date", date.Format(time.DateOnly))
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.token)

	var body indstocksResponse
	if err := getJSON(ctx, p.httpClient, p.baseURL+"/v1/quotes?"+params.Encode(), header, &body); err != nil {
		return nil, fetchError(p, inst, err)
	}
	if body.Data == nil || !(body.Data.Price > 0) {
		return nil, fetchError(p, inst, notFound("no quote for %s: %s", Identifier(inst), body.Message))
	}

	asOf, err := time.Parse(time.DateOnly, body.Data.Date)
	if err != nil {
		asOf = day(time.Now(), IST)
	}
	requested := asOf
	if date != nil {
		requested = day(*date, time.UTC)
	}
	return &Quote{Ticker: inst.Ticker, Date: requested, AsOf: asOf, Price: body.Data.Price, Source: p.Tag()}, nil
}

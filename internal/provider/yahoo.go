package provider

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"niveshak/internal/ticker"
)

// Exchange is an Indian stock exchange listing.
type Exchange string

const (
	NSE Exchange = "NSE"
	BSE Exchange = "BSE"
)

// exchangeSuffixes maps exchange codes to Yahoo Finance ticker suffixes.
var exchangeSuffixes = map[Exchange]string{
	NSE: ".NS",
	BSE: ".BO",
}

var exchangeTags = map[Exchange]string{
	NSE: TagYahooNSE,
	BSE: TagYahooBSE,
}

// yahooChartResponse is the v8 chart API response.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooSource prices NSE or BSE listed stocks from the Yahoo Finance chart API.
type YahooSource struct {
	httpClient *http.Client
	baseURL    string
	exchange   Exchange
	window     int
}

// NewYahooSource creates a Yahoo Finance source for one exchange. window bounds the
// nearest-trading-day search for historical lookups.
func NewYahooSource(httpClient *http.Client, baseURL string, exchange Exchange, window int) *YahooSource {
	return &YahooSource{httpClient: httpClient, baseURL: baseURL, exchange: exchange, window: window}
}

// Name returns the source's display name.
func (p *YahooSource) Name() string { return "Yahoo Finance (" + string(p.exchange) + ")" }

// Tag returns yfinance_nse or yfinance_bse.
func (p *YahooSource) Tag() string { return exchangeTags[p.exchange] }

// Supports returns true for stocks on either exchange; the chain decides the order.
func (p *YahooSource) Supports(c ticker.Class) bool { return c.IsStock() }

// YahooSymbol converts a raw ticker to a Yahoo-compatible symbol for the exchange.
func YahooSymbol(raw string, exchange Exchange) string {
	return ticker.Symbol(raw) + exchangeSuffixes[exchange]
}

// Fetch returns the latest close, or the close on the nearest trading day to date.
func (p *YahooSource) Fetch(ctx context.Context, inst Instrument, date *time.Time) (*Quote, error) {
	symbol := YahooSymbol(inst.Ticker, p.exchange)

	params := url.Values{}
	params.Set("interval", "1d")
	if date == nil {
		params.Set("range", "5d")
	} else {
		from := day(*date, time.UTC).AddDate(0, 0, -p.window)
		to := day(*date, time.UTC).AddDate(0, 0, p.window+1)
		params.Set("period1", strconv.FormatInt(from.Unix(), 10))
		params.Set("period2", strconv.FormatInt(to.Unix(), 10))
	}
	reqURL := p.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + params.Encode()

	var chart yahooChartResponse
	if err := getJSON(ctx, p.httpClient, reqURL, nil, &chart); err != nil {
		return nil, fetchError(p, inst, err)
	}
	if chart.Chart.Error != nil {
		return nil, fetchError(p, inst, notFound("yahoo chart error for %s: %s: %s",
			symbol, chart.Chart.Error.Code, chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fetchError(p, inst, notFound("no chart data for %s", symbol))
	}
	result := chart.Chart.Result[0]

	var points []Point
	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i, ts := range result.Timestamp {
			if i >= len(closes) || closes[i] == nil {
				continue
			}
			points = append(points, Point{Date: day(time.Unix(ts, 0), IST), Price: *closes[i]})
		}
	}

	if date == nil {
		meta := result.Meta
		if meta.RegularMarketPrice > 0 {
			asOf := time.Now()
			if meta.RegularMarketTime > 0 {
				asOf = time.Unix(meta.RegularMarketTime, 0)
			}
			return p.quote(inst, day(asOf, IST), day(asOf, IST), meta.RegularMarketPrice), nil
		}
		pt, ok := Latest(points)
		if !ok {
			return nil, fetchError(p, inst, notFound("zero price for %s", symbol))
		}
		return p.quote(inst, pt.Date, pt.Date, pt.Price), nil
	}

	pt, ok := Nearest(points, *date, p.window)
	if !ok {
		return nil, fetchError(p, inst, notFound("no close for %s within %d days of %s",
			symbol, p.window, date.Format(time.DateOnly)))
	}
	return p.quote(inst, day(*date, time.UTC), pt.Date, pt.Price), nil
}

func (p *YahooSource) quote(inst Instrument, date, asOf time.Time, price float64) *Quote {
	return &Quote{Ticker: inst.Ticker, Date: date, AsOf: asOf, Price: price, Source: p.Tag()}
}

package provider

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"niveshak/internal/ticker"
)

// mfapiResponse is the scheme history returned by api.mfapi.in, newest first.
type mfapiResponse struct {
	Meta struct {
		FundHouse  string `json:"fund_house"`
		SchemeName string `json:"scheme_name"`
		SchemeCode int    `json:"scheme_code"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
	Status string `json:"status"`
}

// MFAPISource prices AMFI scheme codes from the per-scheme NAV history API.
type MFAPISource struct {
	httpClient *http.Client
	baseURL    string
	window     int
}

// NewMFAPISource creates a scheme-code NAV source.
func NewMFAPISource(httpClient *http.Client, baseURL string, window int) *MFAPISource {
	return &MFAPISource{httpClient: httpClient, baseURL: baseURL, window: window}
}

// Name returns the source's display name.
func (p *MFAPISource) Name() string { return "MF API" }

// Tag returns mftool.
func (p *MFAPISource) Tag() string { return TagMFAPI }

// Supports returns true for AMFI scheme codes only.
func (p *MFAPISource) Supports(c ticker.Class) bool { return c == ticker.MutualFundAMFI }

// Fetch returns the latest NAV, or the NAV on the nearest date to date.
func (p *MFAPISource) Fetch(ctx context.Context, inst Instrument, date *time.Time) (*Quote, error) {
	code := strings.TrimSpace(inst.Ticker)

	var body mfapiResponse
	if err := getJSON(ctx, p.httpClient, p.baseURL+"/mf/"+url.PathEscape(code), nil, &body); err != nil {
		return nil, fetchError(p, inst, err)
	}
	if len(body.Data) == 0 {
		return nil, fetchError(p, inst, notFound("no NAV history for scheme %s", code))
	}

	points := make([]Point, 0, len(body.Data))
	for _, d := range body.Data {
		t, err := time.Parse("02-01-2006", d.Date)
		if err != nil {
			continue
		}
		nav, err := strconv.ParseFloat(strings.TrimSpace(d.NAV), 64)
		if err != nil {
			continue
		}
		points = append(points, Point{Date: t, Price: nav})
	}

	var pt Point
	var ok bool
	var requested time.Time
	if date == nil {
		pt, ok = Latest(points)
		requested = pt.Date
	} else {
		pt, ok = Nearest(points, *date, p.window)
		requested = day(*date, time.UTC)
	}
	if !ok {
		return nil, fetchError(p, inst, notFound("no usable NAV for scheme %s", code))
	}
	return &Quote{Ticker: inst.Ticker, Date: requested, AsOf: pt.Date, Price: pt.Price, Source: p.Tag()}, nil
}

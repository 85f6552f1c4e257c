package provider

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"niveshak/internal/ticker"
)

// NAVRecord is one scheme row from the AMFI NAVAll.txt list.
type NAVRecord struct {
	Code         string
	ISINGrowth   string
	ISINReinvest string
	Name         string
	FundHouse    string
	NAV          float64
	Date         time.Time
}

// AMFISource serves latest NAVs from the AMFI bulk list. The list is downloaded at
// most once per TTL and shared by every lookup.
type AMFISource struct {
	httpClient *http.Client
	url        string
	ttl        time.Duration
	now        func() time.Time

	mu        sync.Mutex
	fetchedAt time.Time
	byCode    map[string]NAVRecord
	byISIN    map[string]NAVRecord
}

// NewAMFISource creates an AMFI bulk-list source. now is the clock used for TTL checks.
func NewAMFISource(httpClient *http.Client, url string, ttl time.Duration, now func() time.Time) *AMFISource {
	if now == nil {
		now = time.Now
	}
	return &AMFISource{httpClient: httpClient, url: url, ttl: ttl, now: now}
}

// Name returns the source's display name.
func (p *AMFISource) Name() string { return "AMFI NAV list" }

// Tag returns amfi_bulk.
func (p *AMFISource) Tag() string { return TagAMFIBulk }

// Supports returns true for AMFI scheme codes and fund ISINs.
func (p *AMFISource) Supports(c ticker.Class) bool { return c.IsFund() }

// Fetch returns the latest NAV. The list carries no history, so a dated request fails.
func (p *AMFISource) Fetch(ctx context.Context, inst Instrument, date *time.Time) (*Quote, error) {
	if date != nil {
		return nil, fetchError(p, inst, notFound("AMFI list only carries the latest NAV"))
	}
	byCode, byISIN, err := p.load(ctx)
	if err != nil {
		return nil, fetchError(p, inst, err)
	}
	q, err := p.lookup(inst, byCode, byISIN)
	if err != nil {
		return nil, fetchError(p, inst, err)
	}
	return q, nil
}

// FetchLatest prices every supported instrument from a single list download.
func (p *AMFISource) FetchLatest(ctx context.Context, insts []Instrument) (map[string]*Quote, []FetchError) {
	quotes := make(map[string]*Quote, len(insts))
	var fetchErrors []FetchError

	byCode, byISIN, err := p.load(ctx)
	for _, inst := range insts {
		if !p.Supports(inst.Class) {
			continue
		}
		if err != nil {
			fetchErrors = append(fetchErrors, *fetchError(p, inst, err))
			continue
		}
		q, lookupErr := p.lookup(inst, byCode, byISIN)
		if lookupErr != nil {
			fetchErrors = append(fetchErrors, *fetchError(p, inst, lookupErr))
			continue
		}
		quotes[inst.Ticker] = q
	}
	return quotes, fetchErrors
}

// Lookup returns the raw record for a scheme code or ISIN.
func (p *AMFISource) Lookup(ctx context.Context, key string) (NAVRecord, bool, error) {
	byCode, byISIN, err := p.load(ctx)
	if err != nil {
		return NAVRecord{}, false, err
	}
	key = strings.ToUpper(strings.TrimSpace(key))
	if rec, ok := byCode[key]; ok {
		return rec, true, nil
	}
	rec, ok := byISIN[key]
	return rec, ok, nil
}

func (p *AMFISource) lookup(inst Instrument, byCode, byISIN map[string]NAVRecord) (*Quote, error) {
	key := strings.ToUpper(strings.TrimSpace(inst.Ticker))

	var rec NAVRecord
	var ok bool
	switch inst.Class {
	case ticker.MutualFundAMFI:
		rec, ok = byCode[key]
	case ticker.MutualFundISIN:
		rec, ok = byISIN[key]
	}
	if !ok {
		return nil, notFound("%s not in AMFI list", key)
	}
	return &Quote{Ticker: inst.Ticker, Date: rec.Date, AsOf: rec.Date, Price: rec.NAV, Source: p.Tag()}, nil
}

// load returns the indexed list, downloading it when absent or older than the TTL.
// A failed refresh keeps serving the previous list if there is one.
func (p *AMFISource) load(ctx context.Context) (map[string]NAVRecord, map[string]NAVRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.byCode != nil && p.now().Sub(p.fetchedAt) < p.ttl {
		return p.byCode, p.byISIN, nil
	}

	records, err := p.download(ctx)
	if err != nil {
		if p.byCode != nil {
			return p.byCode, p.byISIN, nil
		}
		return nil, nil, err
	}

	byCode := make(map[string]NAVRecord, len(records))
	byISIN := make(map[string]NAVRecord, 2*len(records))
	for _, rec := range records {
		byCode[rec.Code] = rec
		for _, isin := range []string{rec.ISINGrowth, rec.ISINReinvest} {
			if isin != "" {
				byISIN[isin] = rec
			}
		}
	}
	p.byCode, p.byISIN, p.fetchedAt = byCode, byISIN, p.now()
	return byCode, byISIN, nil
}

func (p *AMFISource) download(ctx context.Context) ([]NAVRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, unavailable("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, unavailable("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable("unexpected status %d", resp.StatusCode)
	}

	records, err := ParseNAVList(resp.Body)
	if err != nil {
		return nil, unavailable("reading NAV list: %w", err)
	}
	if len(records) == 0 {
		return nil, unavailable("NAV list is empty")
	}
	return records, nil
}

// ParseNAVList parses the semicolon-separated NAVAll.txt format:
//
//	Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date
//
// interleaved with fund-house and scheme-category header lines. Rows without a usable
// NAV are skipped.
func ParseNAVList(r io.Reader) ([]NAVRecord, error) {
	var records []NAVRecord
	fundHouse := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.Contains(line, ";") {
			if strings.HasSuffix(line, "Mutual Fund") {
				fundHouse = line
			}
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) < 6 {
			continue
		}
		code := strings.TrimSpace(parts[0])
		if code == "" || !isAllDigits(code) {
			continue
		}
		nav, err := strconv.ParseFloat(strings.TrimSpace(parts[4]), 64)
		if err != nil || nav <= 0 {
			continue
		}
		date, err := time.Parse("02-Jan-2006", strings.TrimSpace(parts[5]))
		if err != nil {
			continue
		}

		records = append(records, NAVRecord{
			Code:         code,
			ISINGrowth:   cleanISIN(parts[1]),
			ISINReinvest: cleanISIN(parts[2]),
			Name:         strings.TrimSpace(parts[3]),
			FundHouse:    fundHouse,
			NAV:          nav,
			Date:         date,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning NAV list: %w", err)
	}
	return records, nil
}

func cleanISIN(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 12 {
		return ""
	}
	return s
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "niveshak/internal/errors"
)

const navList = `Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date

Open Ended Schemes(Equity Scheme - Flexi Cap Fund)

Parag Parikh Mutual Fund

122639;INF879O01027;-;Parag Parikh Flexi Cap Fund - Direct Plan - Growth;92.1234;13-Oct-2025

ICICI Prudential Mutual Fund

119551;INF109K016L0;INF109K016M8;ICICI Prudential Bluechip Fund - Direct Plan - Growth;146.58;13-Oct-2025
120000;INF109K01ZZ1;-;Wound Up Scheme;N.A.;13-Oct-2025
bad;row
`

type amfiServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newAMFIServer(t *testing.T, body string) *amfiServer {
	t.Helper()
	s := &amfiServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, body)
	}))
	return s
}

func TestParseNAVList(t *testing.T) {
	records, err := ParseNAVList(strings.NewReader(navList))
	require.NoError(t, err)
	require.Len(t, records, 2)

	rec := records[1]
	assert.Equal(t, "119551", rec.Code)
	assert.Equal(t, 146.58, rec.NAV)
	assert.Equal(t, "INF109K016L0", rec.ISINGrowth)
	assert.Equal(t, "INF109K016M8", rec.ISINReinvest)
	assert.Equal(t, "ICICI Prudential Mutual Fund", rec.FundHouse)
	assert.True(t, rec.Date.Equal(time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)), "date %v", rec.Date)
	assert.Empty(t, records[0].ISINReinvest, "dash ISIN should be empty")
}

func TestAMFISource_FetchByCode(t *testing.T) {
	server := newAMFIServer(t, navList)
	defer server.Close()

	p := NewAMFISource(server.Client(), server.URL, time.Hour, nil)
	q, err := p.Fetch(context.Background(), NewInstrument("119551", ""), nil)
	require.NoError(t, err)
	assert.Equal(t, 146.58, q.Price)
	assert.Equal(t, TagAMFIBulk, q.Source)
}

func TestAMFISource_FetchByISIN(t *testing.T) {
	server := newAMFIServer(t, navList)
	defer server.Close()

	p := NewAMFISource(server.Client(), server.URL, time.Hour, nil)
	for _, isin := range []string{"INF109K016L0", "inf109k016m8"} {
		q, err := p.Fetch(context.Background(), NewInstrument(isin, ""), nil)
		require.NoError(t, err, isin)
		assert.Equal(t, 146.58, q.Price, isin)
	}
}

func TestAMFISource_HistoricalUnsupported(t *testing.T) {
	server := newAMFIServer(t, navList)
	defer server.Close()

	p := NewAMFISource(server.Client(), server.URL, time.Hour, nil)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := p.Fetch(context.Background(), NewInstrument("119551", ""), &d)
	assert.ErrorIs(t, err, apperrors.ErrPriceNotFound)
	assert.Zero(t, server.hits.Load(), "dated request should not download the list")
}

func TestAMFISource_UnknownScheme(t *testing.T) {
	server := newAMFIServer(t, navList)
	defer server.Close()

	p := NewAMFISource(server.Client(), server.URL, time.Hour, nil)
	_, err := p.Fetch(context.Background(), NewInstrument("120000", ""), nil)
	assert.ErrorIs(t, err, apperrors.ErrPriceNotFound, "N.A. scheme")
}

func TestAMFISource_CacheTTL(t *testing.T) {
	server := newAMFIServer(t, navList)
	defer server.Close()

	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	p := NewAMFISource(server.Client(), server.URL, time.Hour, func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := p.Fetch(ctx, NewInstrument("119551", ""), nil)
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), server.hits.Load(), "expected one download within TTL")

	now = now.Add(61 * time.Minute)
	_, err := p.Fetch(ctx, NewInstrument("119551", ""), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), server.hits.Load(), "expected refresh after TTL")
}

func TestAMFISource_StaleListSurvivesFailedRefresh(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, navList)
	}))
	defer server.Close()

	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	p := NewAMFISource(server.Client(), server.URL, time.Hour, func() time.Time { return now })
	ctx := context.Background()

	_, err := p.Fetch(ctx, NewInstrument("119551", ""), nil)
	require.NoError(t, err)

	fail.Store(true)
	now = now.Add(2 * time.Hour)
	_, err = p.Fetch(ctx, NewInstrument("119551", ""), nil)
	assert.NoError(t, err, "expected stale list to be served")
}

func TestAMFISource_DownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := NewAMFISource(server.Client(), server.URL, time.Hour, nil)
	_, err := p.Fetch(context.Background(), NewInstrument("119551", ""), nil)
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
}

func TestAMFISource_FetchLatest(t *testing.T) {
	server := newAMFIServer(t, navList)
	defer server.Close()

	p := NewAMFISource(server.Client(), server.URL, time.Hour, nil)
	insts := []Instrument{
		NewInstrument("119551", ""),
		NewInstrument("INF879O01027", ""),
		NewInstrument("999999", ""),
		NewInstrument("RELIANCE", ""),
	}
	quotes, fetchErrors := p.FetchLatest(context.Background(), insts)

	assert.Len(t, quotes, 2)
	require.NotNil(t, quotes["INF879O01027"])
	assert.Equal(t, 92.1234, quotes["INF879O01027"].Price)
	require.Len(t, fetchErrors, 1)
	assert.Equal(t, "999999", fetchErrors[0].Ticker)
	assert.Equal(t, int32(1), server.hits.Load(), "expected a single download")
}

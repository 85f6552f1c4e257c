package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"niveshak/internal/cagr"
	"niveshak/internal/logger"
	"niveshak/internal/models"
	"niveshak/internal/pagination"
	"niveshak/internal/pricing"
	"niveshak/internal/provider"
	"niveshak/internal/services"
	"niveshak/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// --- mock resolver ---

type mockResolver struct {
	resolveFn        func(ctx context.Context, inst provider.Instrument, date *time.Time) (*provider.Quote, error)
	resolveLatestFn  func(ctx context.Context, insts []provider.Instrument) map[string]*provider.Quote
	resolveHistoryFn func(ctx context.Context, insts []provider.Instrument, dates []time.Time) map[string]map[string]float64
	valuationFn      func(ctx context.Context, raw string, asOf time.Time) (*pricing.Valuation, error)
}

var (
	_ PriceResolver = (*mockResolver)(nil)
	_ Valuer        = (*mockResolver)(nil)
)

func (m *mockResolver) Resolve(ctx context.Context, inst provider.Instrument, date *time.Time) (*provider.Quote, error) {
	return m.resolveFn(ctx, inst, date)
}

func (m *mockResolver) ResolveLatest(ctx context.Context, insts []provider.Instrument) map[string]*provider.Quote {
	return m.resolveLatestFn(ctx, insts)
}

func (m *mockResolver) ResolveHistory(ctx context.Context, insts []provider.Instrument, dates []time.Time) map[string]map[string]float64 {
	return m.resolveHistoryFn(ctx, insts, dates)
}

func (m *mockResolver) Valuation(ctx context.Context, raw string, asOf time.Time) (*pricing.Valuation, error) {
	return m.valuationFn(ctx, raw, asOf)
}

// --- mock cache store ---

type mockStore struct {
	rangeFn func(ctx context.Context, ticker string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.CachedPrice], error)
}

func (m *mockStore) Get(context.Context, string, time.Time) (*models.CachedPrice, error) {
	return nil, nil
}

func (m *mockStore) Put(context.Context, string, time.Time, float64, string) error { return nil }

func (m *mockStore) GetMany(context.Context, []string, time.Time) (map[string]*models.CachedPrice, error) {
	return map[string]*models.CachedPrice{}, nil
}

func (m *mockStore) Range(ctx context.Context, ticker string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.CachedPrice], error) {
	return m.rangeFn(ctx, ticker, from, to, page)
}

// --- mock services ---

type mockReturnsService struct {
	saveFn func(ctx context.Context, ticker string, series cagr.ReturnSeries, source string, asOf time.Time) error
	getFn  func(ctx context.Context, ticker string) (cagr.ReturnSeries, error)
}

var _ services.ReturnsServicer = (*mockReturnsService)(nil)

func (m *mockReturnsService) Save(ctx context.Context, ticker string, series cagr.ReturnSeries, source string, asOf time.Time) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, ticker, series, source, asOf)
	}
	return nil
}

func (m *mockReturnsService) Get(ctx context.Context, ticker string) (cagr.ReturnSeries, error) {
	return m.getFn(ctx, ticker)
}

type mockTransactionService struct {
	importFn func(ctx context.Context, rows []models.Transaction) (int, error)
	listFn   func(ctx context.Context, ticker string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func (m *mockTransactionService) Import(ctx context.Context, rows []models.Transaction) (int, error) {
	return m.importFn(ctx, rows)
}

func (m *mockTransactionService) ListTransactions(ctx context.Context, ticker string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	return m.listFn(ctx, ticker, page)
}

func (m *mockTransactionService) EarliestInvestment(context.Context, string) (*services.Investment, error) {
	return nil, nil
}

func (m *mockTransactionService) PriceAsOf(context.Context, string, time.Time) (float64, error) {
	return 0, nil
}

func (m *mockTransactionService) KnownInstruments(context.Context) ([]provider.Instrument, error) {
	return nil, nil
}

// --- router setup ---

const testAPIKey = "pipeline-secret"

var testNow = time.Date(2025, 6, 23, 4, 0, 0, 0, time.UTC)

func setupRouter(resolver *mockResolver, store *mockStore, returns *mockReturnsService, txs *mockTransactionService) *gin.Engine {
	r := gin.New()
	Router{
		Prices:         NewPriceHandler(resolver, store),
		PMS:            NewPMSHandler(resolver, returns, func() time.Time { return testNow }),
		Transactions:   NewTransactionHandler(txs),
		PipelineAPIKey: testAPIKey,
	}.Register(r.Group("/api/v1"))
	return r
}

func doRequest(r *gin.Engine, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

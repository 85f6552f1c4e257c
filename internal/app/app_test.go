package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"niveshak/internal/config"
	"niveshak/internal/logger"
	"niveshak/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func testConfig() config.Config {
	return config.Config{
		Env:              "test",
		RequestTimeout:   time.Second,
		YahooBaseURL:     "http://127.0.0.1:0",
		AMFINavURL:       "http://127.0.0.1:0/NAVAll.txt",
		AMFICacheTTL:     time.Hour,
		MFAPIBaseURL:     "http://127.0.0.1:0",
		IndstocksBaseURL: "http://127.0.0.1:0",
		NearestDayWindow: 7,
		GeminiModel:      "gemini-2.5-flash",
		GeminiRateLimit:  8,
		GeminiRateWindow: time.Minute,
		OpenAIModel:      "gpt-4o-mini",
		LLMBatchSize:     20,
		RefreshInterval:  time.Hour,
	}
}

func TestNewSources(t *testing.T) {
	t.Run("free_sources_only", func(t *testing.T) {
		sources, err := NewSources(context.Background(), testConfig(), http.DefaultClient, nil)
		testutil.AssertNoError(t, err)

		if sources.INDstocks != nil {
			t.Error("expected INDstocks to be disabled without a token")
		}
		if sources.LLM != nil {
			t.Error("expected model fallback to be disabled without keys")
		}
		if sources.YahooNSE == nil || sources.YahooBSE == nil || sources.AMFI == nil || sources.MFAPI == nil {
			t.Error("expected free sources to be configured")
		}

		chains := sources.Describe()
		if got := chains["stock_nse"]; len(got) != 2 || got[0] != "yfinance_nse" || got[1] != "yfinance_bse" {
			t.Errorf("unexpected stock_nse chain: %v", got)
		}
		if got := chains["mutual_fund_isin"]; len(got) != 1 || got[0] != "amfi_bulk" {
			t.Errorf("unexpected mutual_fund_isin chain: %v", got)
		}
	})

	t.Run("all_credentials", func(t *testing.T) {
		cfg := testConfig()
		cfg.IndstocksAPIToken = "token"
		cfg.OpenAIAPIKey = "sk-test"
		cfg.GeminiAPIKey = "gemini-test"

		sources, err := NewSources(context.Background(), cfg, http.DefaultClient, nil)
		testutil.AssertNoError(t, err)

		if sources.INDstocks == nil {
			t.Error("expected INDstocks to be configured")
		}
		if sources.LLM == nil {
			t.Fatal("expected model fallback to be configured")
		}
		chain := sources.Describe()["stock_bse"]
		if len(chain) != 4 || chain[0] != "yfinance_bse" || chain[2] != "indstocks" {
			t.Errorf("unexpected stock_bse chain: %v", chain)
		}
	})
}

func TestRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	a, err := New(context.Background(), testConfig(), db)
	testutil.AssertNoError(t, err)
	router := a.Router()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body struct {
			Status  string              `json:"status"`
			Sources map[string][]string `json:"sources"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to parse body: %v", err)
		}
		if body.Status != "ok" {
			t.Errorf("expected status ok, got %q", body.Status)
		}
		if len(body.Sources["mutual_fund_amfi"]) != 2 {
			t.Errorf("expected AMFI and mfapi in fund chain, got %v", body.Sources["mutual_fund_amfi"])
		}
	})

	t.Run("cors_preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/prices/latest", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected CORS header")
		}
	})

	t.Run("request_id_echoed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/instruments/INFY/class", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID response header")
		}
	})

	t.Run("pipeline_disabled_without_key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/transactions/import", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("transactions_empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

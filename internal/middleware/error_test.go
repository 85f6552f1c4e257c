package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "niveshak/internal/errors"
	"niveshak/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app_error", apperrors.ErrPriceNotFound, http.StatusNotFound, "PRICE_NOT_FOUND"},
		{"wrapped_app_error", apperrors.Wrap(apperrors.ErrRateLimited, errors.New("8 calls in 60s")), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/test", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			errObj, _ := parseBody(t, rec)["error"].(map[string]interface{})
			if code, _ := errObj["code"].(string); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestErrorHandler_LeavesWrittenResponses(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		_ = c.Error(errors.New("late failure"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestRequestLogging(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestLogging(zap.NewNop().Sugar()))
	r.GET("/test", func(c *gin.Context) {
		seen = RequestID(c)
		c.Status(http.StatusNoContent)
	})

	t.Run("generates_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

		header := rec.Header().Get(RequestIDHeader)
		if _, err := uuid.Parse(header); err != nil {
			t.Errorf("expected uuid request id, got %q", header)
		}
		if seen != header {
			t.Errorf("context id %q does not match header %q", seen, header)
		}
	})

	t.Run("reuses_inbound_id", func(t *testing.T) {
		inbound := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set(RequestIDHeader, inbound)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != inbound {
			t.Errorf("expected inbound id %q, got %q", inbound, got)
		}
	})

	t.Run("replaces_malformed_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set(RequestIDHeader, "<script>")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got == "<script>" {
			t.Error("malformed inbound id should be replaced")
		}
	})
}

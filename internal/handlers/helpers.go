package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "niveshak/internal/errors"
	"niveshak/internal/middleware"
)

// maxUploadBytes caps plain-text and CSV request bodies.
const maxUploadBytes = 5 << 20

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.RenderError(c, err)
}

// tickerParam returns the :ticker path parameter, trimmed.
func tickerParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("ticker"))
}

// parseDate accepts YYYY-MM-DD or RFC3339 and returns midnight UTC of that calendar day.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

// optionalDate parses the named query parameter, returning nil when it is absent.
func optionalDate(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(v)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, name+": "+err.Error())
	}
	return &t, nil
}

// readBody reads a raw request body up to maxUploadBytes.
func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes))
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "request body too large or unreadable")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "request body is empty")
	}
	return body, nil
}

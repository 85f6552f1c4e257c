package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"niveshak/internal/cache"
	"niveshak/internal/cagr"
	apperrors "niveshak/internal/errors"
	"niveshak/internal/factsheet"
	"niveshak/internal/pricing"
	"niveshak/internal/provider"
	"niveshak/internal/services"
)

// Valuer projects PMS/AIF holdings.
type Valuer interface {
	Valuation(ctx context.Context, raw string, asOf time.Time) (*pricing.Valuation, error)
}

// PMSHandler handles PMS/AIF valuations and their return series.
type PMSHandler struct {
	valuer         Valuer
	returnsService services.ReturnsServicer
	now            func() time.Time
}

// NewPMSHandler creates a new PMSHandler. now supplies the default valuation date.
func NewPMSHandler(valuer Valuer, returnsService services.ReturnsServicer, now func() time.Time) *PMSHandler {
	if now == nil {
		now = time.Now
	}
	return &PMSHandler{valuer: valuer, returnsService: returnsService, now: now}
}

// SaveReturnsRequest represents the request payload for recording a return series.
type SaveReturnsRequest struct {
	Returns map[string]float64 `json:"returns" binding:"required,min=1,dive,keys,return_period,endkeys"`
	Source  string             `json:"source" binding:"max=100"`
	AsOf    string             `json:"as_of,omitempty"`
}

// ReturnsResponse is a ticker's stored return series.
type ReturnsResponse struct {
	Ticker  string            `json:"ticker"`
	Returns cagr.ReturnSeries `json:"returns"`
}

// GetValuation handles projecting a PMS/AIF holding.
// @Summary     Get PMS/AIF valuation
// @Description Project the first buy forward with the best qualifying disclosed return
// @Tags        pms
// @Produce     json
// @Param       ticker path  string true  "PMS or AIF ticker"
// @Param       as_of  query string false "Valuation date (YYYY-MM-DD); today when omitted"
// @Success     200 {object} pricing.Valuation "Valuation"
// @Failure     400 {object} ErrorResponse "Not a PMS/AIF ticker"
// @Failure     404 {object} ErrorResponse "No investment or return series"
// @Router      /pms/{ticker}/valuation [get]
func (h *PMSHandler) GetValuation(c *gin.Context) {
	asOf, err := optionalDate(c, "as_of")
	if err != nil {
		respondWithError(c, err)
		return
	}
	day := h.today()
	if asOf != nil {
		day = *asOf
	}

	v, err := h.valuer.Valuation(c.Request.Context(), tickerParam(c), day)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valuation": v})
}

// GetReturns handles reading a stored return series.
// @Summary     Get return series
// @Description Get the disclosed return figures recorded for a PMS/AIF
// @Tags        pms
// @Produce     json
// @Param       ticker path string true "PMS or AIF ticker"
// @Success     200 {object} ReturnsResponse "Return series"
// @Failure     404 {object} ErrorResponse "No return series"
// @Router      /pms/{ticker}/returns [get]
func (h *PMSHandler) GetReturns(c *gin.Context) {
	raw := tickerParam(c)
	series, err := h.returnsService.Get(c.Request.Context(), raw)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReturnsResponse{Ticker: raw, Returns: series})
}

// SaveReturns handles recording a return series.
// @Summary     Save return series
// @Description Upsert disclosed return figures for a PMS/AIF (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       ticker  path string             true "PMS or AIF ticker"
// @Param       request body SaveReturnsRequest true "Return figures in percent"
// @Success     200 {object} ReturnsResponse "Saved series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/pms/{ticker}/returns [put]
func (h *PMSHandler) SaveReturns(c *gin.Context) {
	var req SaveReturnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asOf := h.today()
	if req.AsOf != "" {
		d, err := parseDate(req.AsOf)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		asOf = d
	}
	source := req.Source
	if source == "" {
		source = "manual"
	}

	series := make(cagr.ReturnSeries, len(req.Returns))
	for k, v := range req.Returns {
		series[cagr.Period(k)] = v
	}

	h.save(c, series, source, asOf)
}

// ImportFactsheet handles extracting a return series from factsheet text.
// @Summary     Import factsheet
// @Description Extract trailing returns from plain factsheet text and store them (pipeline endpoint)
// @Tags        pipeline
// @Accept      plain
// @Produce     json
// @Security    ApiKeyAuth
// @Param       ticker path  string true  "PMS or AIF ticker"
// @Param       as_of  query string false "Factsheet date (YYYY-MM-DD); today when omitted"
// @Param       request body string true "Factsheet text"
// @Success     200 {object} ReturnsResponse "Extracted series"
// @Failure     400 {object} ErrorResponse "No return figures found"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/pms/{ticker}/factsheet [post]
func (h *PMSHandler) ImportFactsheet(c *gin.Context) {
	asOf, err := optionalDate(c, "as_of")
	if err != nil {
		respondWithError(c, err)
		return
	}
	day := h.today()
	if asOf != nil {
		day = *asOf
	}

	body, err := readBody(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	series := factsheet.ExtractReturns(string(body))
	if len(series) == 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "no return figures found in factsheet"))
		return
	}

	h.save(c, series, "factsheet", day)
}

// today is the current calendar day in IST.
func (h *PMSHandler) today() time.Time {
	return cache.Day(h.now().In(provider.IST))
}

func (h *PMSHandler) save(c *gin.Context, series cagr.ReturnSeries, source string, asOf time.Time) {
	raw := tickerParam(c)
	if err := h.returnsService.Save(c.Request.Context(), raw, series, source, asOf); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReturnsResponse{Ticker: raw, Returns: series})
}

package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"niveshak/internal/cache"
	apperrors "niveshak/internal/errors"
	"niveshak/internal/pagination"
	"niveshak/internal/provider"
	"niveshak/internal/ticker"
)

// PriceResolver is the pricing surface the HTTP API exposes.
type PriceResolver interface {
	Resolve(ctx context.Context, inst provider.Instrument, date *time.Time) (*provider.Quote, error)
	ResolveLatest(ctx context.Context, insts []provider.Instrument) map[string]*provider.Quote
	ResolveHistory(ctx context.Context, insts []provider.Instrument, dates []time.Time) map[string]map[string]float64
}

// PriceHandler handles price lookups.
type PriceHandler struct {
	resolver PriceResolver
	store    cache.Store
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(resolver PriceResolver, store cache.Store) *PriceHandler {
	return &PriceHandler{resolver: resolver, store: store}
}

// InstrumentRequest identifies one instrument in a bulk request.
type InstrumentRequest struct {
	Ticker string `json:"ticker" binding:"required,max=64"`
	Name   string `json:"name,omitempty" binding:"max=200"`
}

// LatestPricesRequest represents the request payload for bulk latest prices.
type LatestPricesRequest struct {
	Instruments []InstrumentRequest `json:"instruments" binding:"required,min=1,max=500,dive"`
}

// LatestPricesResponse lists resolved quotes by ticker and the tickers nothing could price.
type LatestPricesResponse struct {
	Prices  map[string]*provider.Quote `json:"prices"`
	Missing []string                   `json:"missing"`
}

// PriceHistoryRequest represents the request payload for historical prices.
type PriceHistoryRequest struct {
	Instruments []InstrumentRequest `json:"instruments" binding:"required,min=1,max=100,dive"`
	Dates       []string            `json:"dates" binding:"required,min=1,max=400"`
}

// ClassResponse describes how a ticker is classified.
type ClassResponse struct {
	Ticker string       `json:"ticker"`
	Class  ticker.Class `json:"class"`
	Symbol string       `json:"symbol"`
}

// GetClass handles classifying a ticker.
// @Summary     Classify ticker
// @Description Report the instrument class a raw ticker is routed as
// @Tags        instruments
// @Produce     json
// @Param       ticker path string true "Raw ticker"
// @Success     200 {object} ClassResponse "Classification"
// @Router      /instruments/{ticker}/class [get]
func (h *PriceHandler) GetClass(c *gin.Context) {
	raw := tickerParam(c)
	c.JSON(http.StatusOK, ClassResponse{
		Ticker: raw,
		Class:  ticker.Classify(raw),
		Symbol: ticker.Symbol(raw),
	})
}

// GetPrice handles resolving one price.
// @Summary     Get price
// @Description Resolve the latest price, or the price on a date, through the class's source chain
// @Tags        prices
// @Produce     json
// @Param       ticker path  string true  "Raw ticker"
// @Param       date   query string false "Date (YYYY-MM-DD); latest when omitted"
// @Param       name   query string false "Instrument name used to cross-verify model answers"
// @Success     200 {object} map[string]provider.Quote "Resolved quote"
// @Failure     400 {object} ErrorResponse "Invalid ticker or date"
// @Failure     404 {object} ErrorResponse "No source returned a price"
// @Router      /prices/{ticker} [get]
func (h *PriceHandler) GetPrice(c *gin.Context) {
	date, err := optionalDate(c, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	inst := provider.NewInstrument(tickerParam(c), c.Query("name"))
	quote, err := h.resolver.Resolve(c.Request.Context(), inst, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// GetLatestPrices handles bulk latest price resolution.
// @Summary     Get latest prices
// @Description Resolve latest prices for many instruments, batching model fallbacks
// @Tags        prices
// @Accept      json
// @Produce     json
// @Param       request body LatestPricesRequest true "Instruments"
// @Success     200 {object} LatestPricesResponse "Resolved quotes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /prices/latest [post]
func (h *PriceHandler) GetLatestPrices(c *gin.Context) {
	var req LatestPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	insts := toInstruments(req.Instruments)
	quotes := h.resolver.ResolveLatest(c.Request.Context(), insts)

	missing := []string{}
	seen := make(map[string]bool)
	for _, inst := range insts {
		if _, ok := quotes[inst.Ticker]; !ok && !seen[inst.Ticker] {
			missing = append(missing, inst.Ticker)
			seen[inst.Ticker] = true
		}
	}
	sort.Strings(missing)

	c.JSON(http.StatusOK, LatestPricesResponse{Prices: quotes, Missing: missing})
}

// GetPriceHistory handles historical prices for charts and backfills.
// @Summary     Get price history
// @Description Resolve each instrument's price on each date
// @Tags        prices
// @Accept      json
// @Produce     json
// @Param       request body PriceHistoryRequest true "Instruments and dates"
// @Success     200 {object} map[string]map[string]float64 "Prices by ticker and date"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /prices/history [post]
func (h *PriceHandler) GetPriceHistory(c *gin.Context) {
	var req PriceHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dates := make([]time.Time, len(req.Dates))
	for i, s := range req.Dates {
		d, err := parseDate(s)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		dates[i] = d
	}

	history := h.resolver.ResolveHistory(c.Request.Context(), toInstruments(req.Instruments), dates)
	c.JSON(http.StatusOK, gin.H{"prices": history})
}

// ListCachedPrices handles listing stored prices for a ticker.
// @Summary     List cached prices
// @Description Get a paginated list of cached prices for a ticker, newest first
// @Tags        prices
// @Produce     json
// @Param       ticker    path  string true  "Raw ticker"
// @Param       from      query string false "Start date (YYYY-MM-DD)"
// @Param       to        query string false "End date (YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.CachedPrice] "Paginated prices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /prices/{ticker}/cached [get]
func (h *PriceHandler) ListCachedPrices(c *gin.Context) {
	from, err := optionalDate(c, "from")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := optionalDate(c, "to")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var fromT, toT time.Time
	if from != nil {
		fromT = *from
	}
	if to != nil {
		toT = *to
	}

	result, err := h.store.Range(c.Request.Context(), tickerParam(c), fromT, toT, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func toInstruments(reqs []InstrumentRequest) []provider.Instrument {
	insts := make([]provider.Instrument, len(reqs))
	for i, r := range reqs {
		insts[i] = provider.NewInstrument(r.Ticker, r.Name)
	}
	return insts
}

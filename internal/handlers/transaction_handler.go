package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "niveshak/internal/errors"
	"niveshak/internal/pagination"
	"niveshak/internal/services"
)

// TransactionHandler handles transaction imports and listings.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// ImportTransactions handles a CSV transaction upload.
// @Summary     Import transactions
// @Description Import a CSV file with ticker, quantity, price, transaction_type and date columns (pipeline endpoint)
// @Tags        pipeline
// @Accept      plain
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body string true "CSV file contents"
// @Success     201 {object} map[string]int "Imported row count"
// @Failure     400 {object} ErrorResponse "Malformed file"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/transactions/import [post]
func (h *TransactionHandler) ImportTransactions(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := services.ParseTransactionsCSV(bytes.NewReader(body))
	if err != nil {
		respondWithError(c, err)
		return
	}

	count, err := h.transactionService.Import(c.Request.Context(), rows)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imported": count})
}

// ListTransactions handles listing imported transactions.
// @Summary     List transactions
// @Description Get a paginated list of transactions, newest first, optionally for one ticker
// @Tags        transactions
// @Produce     json
// @Param       ticker    query string false "Filter by ticker"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), strings.TrimSpace(c.Query("ticker")), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "niveshak/internal/errors"
	"niveshak/internal/models"
	"niveshak/internal/pagination"
	"niveshak/internal/provider"
	"niveshak/internal/ticker"
)

// importBatchSize bounds the rows per INSERT during an import.
const importBatchSize = 200

// Investment is the initial commitment into a holding, taken from its earliest buy.
type Investment struct {
	Ticker       string    `json:"ticker"`
	Date         time.Time `json:"date"`
	Amount       float64   `json:"amount"`
	Units        float64   `json:"units"`
	PricePerUnit float64   `json:"price_per_unit"`
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// Import validates and stores rows in a single database transaction. Either every
// row is stored or none is.
func (s *transactionService) Import(ctx context.Context, rows []models.Transaction) (int, error) {
	if len(rows) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "no transactions to import")
	}
	for i := range rows {
		if err := validateTransaction(&rows[i]); err != nil {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("row %d: %s", i+1, err.Error()))
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, importBatchSize).Error
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(rows), nil
}

func validateTransaction(t *models.Transaction) error {
	t.Ticker = ticker.Normalize(t.Ticker)
	if t.Ticker == "" {
		return errors.New("ticker is required")
	}
	if !t.Quantity.IsPositive() {
		return errors.New("quantity must be greater than zero")
	}
	if !t.Price.IsPositive() {
		return errors.New("price must be greater than zero")
	}
	if t.Type != models.TransactionTypeBuy && t.Type != models.TransactionTypeSell {
		return fmt.Errorf("transaction type must be buy or sell, got %q", t.Type)
	}
	if t.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// ListTransactions returns a ticker's transactions, newest first. An empty ticker
// lists every transaction.
func (s *transactionService) ListTransactions(ctx context.Context, tickerRaw string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{})
	if tickerRaw != "" {
		base = base.Where("ticker = ?", ticker.Normalize(tickerRaw))
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txs []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).Order("date DESC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(txs, page.Page, page.PageSize, total)
	return &resp, nil
}

// EarliestInvestment returns the first buy recorded for ticker.
func (s *transactionService) EarliestInvestment(ctx context.Context, tickerRaw string) (*Investment, error) {
	var tx models.Transaction
	err := s.db.WithContext(ctx).
		Where("ticker = ? AND type = ?", ticker.Normalize(tickerRaw), models.TransactionTypeBuy).
		Order("date ASC").
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Investment{
		Ticker:       tx.Ticker,
		Date:         tx.Date,
		Amount:       tx.Amount().InexactFloat64(),
		Units:        tx.Quantity.InexactFloat64(),
		PricePerUnit: tx.Price.InexactFloat64(),
	}, nil
}

// PriceAsOf returns the per-unit price of the latest transaction on or before asOf.
func (s *transactionService) PriceAsOf(ctx context.Context, tickerRaw string, asOf time.Time) (float64, error) {
	var tx models.Transaction
	err := s.db.WithContext(ctx).
		Where("ticker = ? AND date < ?", ticker.Normalize(tickerRaw), asOf.AddDate(0, 0, 1)).
		Order("date DESC").
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrInvestmentNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tx.Price.InexactFloat64(), nil
}

// KnownInstruments returns every distinct ticker that appears in the transactions
// table, with the first non-empty name recorded for it.
func (s *transactionService) KnownInstruments(ctx context.Context) ([]provider.Instrument, error) {
	type row struct {
		Ticker    string
		StockName string
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("ticker, stock_name").
		Order("ticker ASC, date ASC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var insts []provider.Instrument
	index := make(map[string]int)
	for _, r := range rows {
		i, seen := index[r.Ticker]
		if !seen {
			index[r.Ticker] = len(insts)
			insts = append(insts, provider.NewInstrument(r.Ticker, r.StockName))
			continue
		}
		if insts[i].Name == "" && r.StockName != "" {
			insts[i].Name = r.StockName
		}
	}
	return insts, nil
}

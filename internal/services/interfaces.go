package services

import (
	"context"
	"time"

	"niveshak/internal/cagr"
	"niveshak/internal/models"
	"niveshak/internal/pagination"
	"niveshak/internal/provider"
)

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	Import(ctx context.Context, rows []models.Transaction) (int, error)
	ListTransactions(ctx context.Context, ticker string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	EarliestInvestment(ctx context.Context, ticker string) (*Investment, error)
	PriceAsOf(ctx context.Context, ticker string, asOf time.Time) (float64, error)
	KnownInstruments(ctx context.Context) ([]provider.Instrument, error)
}

// ReturnsServicer defines the contract for PMS/AIF return series storage.
type ReturnsServicer interface {
	Save(ctx context.Context, ticker string, series cagr.ReturnSeries, source string, asOf time.Time) error
	Get(ctx context.Context, ticker string) (cagr.ReturnSeries, error)
}

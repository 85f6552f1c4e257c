package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the side of a portfolio transaction.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// Transaction is one row of an imported transaction file.
type Transaction struct {
	Base
	Ticker    string          `gorm:"not null;index" json:"ticker"`
	StockName string          `json:"stock_name"`
	Quantity  decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"price"`
	Type      TransactionType `gorm:"not null" json:"transaction_type"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Channel   string          `json:"channel,omitempty"`
	Sector    string          `json:"sector,omitempty"`
}

// Amount returns quantity × price.
func (t Transaction) Amount() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}

package testutil

import (
	"testing"
	"time"

	"niveshak/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestTransaction inserts a transaction row.
func CreateTestTransaction(t *testing.T, db *gorm.DB, ticker string, txType models.TransactionType, quantity, price float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Ticker:    ticker,
		StockName: ticker + " name",
		Quantity:  decimal.NewFromFloat(quantity),
		Price:     decimal.NewFromFloat(price),
		Type:      txType,
		Date:      date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestCachedPrice inserts a price cache row directly.
func CreateTestCachedPrice(t *testing.T, db *gorm.DB, ticker string, date time.Time, price float64, source string) *models.CachedPrice {
	t.Helper()

	row := &models.CachedPrice{
		Ticker:    ticker,
		PriceDate: date,
		Price:     price,
		Source:    source,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create cached price: %v", err)
	}
	return row
}

// CreateTestFundReturns inserts one fund_returns row per period.
func CreateTestFundReturns(t *testing.T, db *gorm.DB, ticker string, series map[string]float64) {
	t.Helper()

	for period, value := range series {
		row := &models.FundReturn{Ticker: ticker, Period: period, Value: value, Source: "test"}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to create fund return: %v", err)
		}
	}
}

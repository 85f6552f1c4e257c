package models

import (
	"time"

	"gorm.io/gorm"
)

// CachedPrice is a resolved price for a (ticker, date) pair.
// Rows are write-once: no Base embed, no updates, no soft deletes.
type CachedPrice struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Ticker    string    `gorm:"not null;uniqueIndex:uq_price_cache_ticker_date" json:"ticker"`
	PriceDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_price_cache_ticker_date" json:"price_date"`
	Price     float64   `gorm:"not null" json:"price"`
	Source    string    `gorm:"not null" json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the table name used by the migrations.
func (CachedPrice) TableName() string { return "price_cache" }

// BeforeCreate hook generates a UUIDv7 for new records
func (p *CachedPrice) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}

package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "niveshak/internal/errors"
	"niveshak/internal/models"
)

// csvDateLayouts are the date formats accepted in transaction files, tried in order.
var csvDateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"02-Jan-2006",
	"02 Jan 2006",
	"2006-01-02 15:04:05",
}

// csvColumns maps accepted header spellings to the transaction field they fill.
var csvColumns = map[string]string{
	"ticker":           "ticker",
	"symbol":           "ticker",
	"stock_name":       "stock_name",
	"name":             "stock_name",
	"quantity":         "quantity",
	"qty":              "quantity",
	"price":            "price",
	"transaction_type": "type",
	"type":             "type",
	"date":             "date",
	"channel":          "channel",
	"sector":           "sector",
}

var requiredColumns = []string{"ticker", "quantity", "price", "type", "date"}

// ParseTransactionsCSV reads a transaction file with a header row. Column order is
// free; unknown columns are ignored. The first malformed row aborts the parse.
func ParseTransactionsCSV(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is empty")
		}
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unreadable header: "+err.Error())
	}

	cols := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := csvColumns[key]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	for _, field := range requiredColumns {
		if _, ok := cols[field]; !ok {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "missing column: "+field)
		}
	}

	var rows []models.Transaction
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("line %d: %v", line, err))
		}
		if isBlank(record) {
			continue
		}

		tx, err := parseRecord(record, cols)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("line %d: %v", line, err))
		}
		rows = append(rows, tx)
	}
	return rows, nil
}

func parseRecord(record []string, cols map[string]int) (models.Transaction, error) {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	qty, err := decimal.NewFromString(strings.ReplaceAll(get("quantity"), ",", ""))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid quantity %q", get("quantity"))
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(get("price"), ",", ""))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid price %q", get("price"))
	}
	date, err := parseCSVDate(get("date"))
	if err != nil {
		return models.Transaction{}, err
	}

	tx := models.Transaction{
		Ticker:    get("ticker"),
		StockName: get("stock_name"),
		Quantity:  qty,
		Price:     price,
		Type:      models.TransactionType(strings.ToLower(get("type"))),
		Date:      date,
		Channel:   get("channel"),
		Sector:    get("sector"),
	}
	if err := validateTransaction(&tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

func parseCSVDate(s string) (time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

package services

import (
	"strings"
	"testing"

	"niveshak/internal/models"
	"niveshak/internal/testutil"
)

func TestParseTransactionsCSV(t *testing.T) {
	t.Run("mixed_date_formats", func(t *testing.T) {
		input := "Ticker,Stock_Name,Quantity,Price,Transaction_Type,Date,Channel\n" +
			"INFY,Infosys,10,\"1,450.50\",BUY,2023-01-02,Zerodha\n" +
			"119551,Aditya Birla Liquid,100.5,98.2,buy,02-02-2023,\n" +
			"\n" +
			"INP000006387,Buoyant PMS,1,5000000,buy,23-Jun-2022,\n"

		rows, err := ParseTransactionsCSV(strings.NewReader(input))
		testutil.AssertNoError(t, err)
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		if rows[0].Price.String() != "1450.5" {
			t.Errorf("expected price 1450.5, got %s", rows[0].Price)
		}
		if rows[0].Type != models.TransactionTypeBuy {
			t.Errorf("expected buy, got %q", rows[0].Type)
		}
		if rows[0].Channel != "Zerodha" {
			t.Errorf("expected channel Zerodha, got %q", rows[0].Channel)
		}
		if !rows[1].Date.Equal(testutil.Date(2023, 2, 2)) {
			t.Errorf("expected 2023-02-02, got %s", rows[1].Date)
		}
		if !rows[2].Date.Equal(testutil.Date(2022, 6, 23)) {
			t.Errorf("expected 2022-06-23, got %s", rows[2].Date)
		}
	})

	t.Run("header_aliases_and_order", func(t *testing.T) {
		input := "date,type,symbol,qty,price\n2024/03/01,sell,TCS,2,3500\n"

		rows, err := ParseTransactionsCSV(strings.NewReader(input))
		testutil.AssertNoError(t, err)
		if len(rows) != 1 || rows[0].Ticker != "TCS" || rows[0].Type != models.TransactionTypeSell {
			t.Errorf("unexpected rows: %+v", rows)
		}
	})

	tests := []struct {
		name  string
		input string
	}{
		{"empty_file", ""},
		{"missing_column", "ticker,quantity,price,date\nINFY,1,1500,2024-01-01\n"},
		{"bad_type", "ticker,quantity,price,type,date\nINFY,1,1500,gift,2024-01-01\n"},
		{"bad_date", "ticker,quantity,price,type,date\nINFY,1,1500,buy,Jan 1st\n"},
		{"bad_quantity", "ticker,quantity,price,type,date\nINFY,ten,1500,buy,2024-01-01\n"},
		{"negative_price", "ticker,quantity,price,type,date\nINFY,1,-5,buy,2024-01-01\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTransactionsCSV(strings.NewReader(tt.input))
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		})
	}
}

package llm

import (
	"fmt"
	"strings"
	"time"

	"niveshak/internal/provider"
	"niveshak/internal/ticker"
)

// NotFoundToken is the literal answer a model must give when it cannot verify the
// instrument.
const NotFoundToken = "NOT_FOUND"

// ClosestWindowDays bounds how far from the requested date a model may answer.
const ClosestWindowDays = 7

func describe(inst provider.Instrument) (kind, codeLabel, valueLabel string) {
	switch inst.Class {
	case ticker.MutualFundAMFI:
		return "Indian mutual fund", "AMFI Code", "NAV (Net Asset Value)"
	case ticker.MutualFundISIN:
		return "Indian mutual fund", "ISIN", "NAV (Net Asset Value)"
	case ticker.StockBSE:
		return "Indian stock listed on BSE", "BSE Code", "closing share price in INR"
	default:
		return "Indian stock listed on NSE", "NSE Symbol", "closing share price in INR"
	}
}

func dateLine(date *time.Time) string {
	if date == nil {
		return "Date: latest available"
	}
	return "Date: as of " + date.Format(time.DateOnly)
}

func rules(verify string, date *time.Time) string {
	var b strings.Builder
	b.WriteString("Rules:\n")
	b.WriteString("- " + verify + "\n")
	fmt.Fprintf(&b, "- If you cannot verify it or do not know the value, answer exactly %s.\n", NotFoundToken)
	if date == nil {
		b.WriteString("- Answer ONLY in the format VALUE (numeric only, no currency symbols or units).\n")
	} else {
		fmt.Fprintf(&b, "- If there is no value for that exact date (holiday or weekend), use the closest trading date within ±%d days.\n", ClosestWindowDays)
		b.WriteString("- Answer ONLY in the format VALUE|YYYY-MM-DD where the date is the trading date the value is from.\n")
	}
	b.WriteString("- Do not add any other text.")
	return b.String()
}

// SinglePrompt asks for one instrument's value, cross-verified by code and name.
func SinglePrompt(inst provider.Instrument, date *time.Time) string {
	kind, codeLabel, valueLabel := describe(inst)
	name := inst.Name
	if name == "" {
		name = "unknown"
	}
	code := strings.TrimSpace(inst.Ticker)
	if inst.Class.IsStock() {
		code = ticker.Symbol(inst.Ticker)
	}

	return fmt.Sprintf(`You are a financial data expert. Get the %s for this %s:

Name: %s
%s: %s
%s

%s`, valueLabel, kind, name, codeLabel, code, dateLine(date),
		rules("Verify that the code AND the name refer to the same instrument.", date))
}

// NamePrompt asks for a mutual fund's NAV by its name alone, for when the scheme code
// itself is unknown to the model.
func NamePrompt(inst provider.Instrument, date *time.Time) string {
	return fmt.Sprintf(`You are a financial data expert. Get the NAV (Net Asset Value) for the Indian mutual fund scheme named exactly:

Name: %s
%s

%s`, inst.Name, dateLine(date),
		rules("Match the scheme name exactly, including plan (Direct/Regular) and option (Growth/IDCW).", date))
}

// BulkPrompt asks for the latest values of many instruments, one CODE|VALUE line each.
func BulkPrompt(insts []provider.Instrument) string {
	var list strings.Builder
	for i, inst := range insts {
		_, codeLabel, _ := describe(inst)
		name := inst.Name
		if name == "" {
			name = "unknown"
		}
		fmt.Fprintf(&list, "%d. %s: %s, Name: %s\n", i+1, codeLabel, BulkKey(inst.Ticker), name)
	}

	return fmt.Sprintf(`Get the LATEST price (share price in INR for stocks, NAV for mutual funds) for these Indian instruments:

%s
Return ONLY in this exact format (one per line):
CODE|VALUE

Examples:
INF740K01NY4|49.52
119019|146.58
RELIANCE|2875.40

Rules:
- One instrument per line
- CODE must match the code given above exactly
- VALUE is numeric only, no currency symbols
- Verify the code against the name
- If they do not match or you do not know the value, answer CODE|%s for that instrument`, list.String(), NotFoundToken)
}

// BulkKey normalises a ticker to the CODE used in bulk prompts and answers.
func BulkKey(raw string) string { return ticker.Symbol(raw) }

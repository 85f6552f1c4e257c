package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "niveshak/internal/errors"
	"niveshak/internal/provider"
)

func TestSource_FetchPrefersFirstCompleter(t *testing.T) {
	paid := &fakeCompleter{name: "openai", tag: provider.TagOpenAI, answers: []string{"2875.40"}}
	free := &fakeCompleter{name: "gemini", tag: provider.TagGemini, answers: []string{"1"}}
	src := NewSource(nil, 0, paid, free)

	q, err := src.Fetch(context.Background(), provider.NewInstrument("RELIANCE", "Reliance Industries"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2875.40, q.Price)
	assert.Equal(t, "ai_openai", q.Source)
	assert.Equal(t, 0, free.calls())
	assert.Contains(t, paid.prompts[0], "RELIANCE")
	assert.Contains(t, paid.prompts[0], "Reliance Industries")
	assert.Contains(t, paid.prompts[0], NotFoundToken)
}

func TestSource_FetchFallsThroughOnErrorAndNotFound(t *testing.T) {
	paid := &fakeCompleter{name: "openai", tag: provider.TagOpenAI, err: errors.New("quota exceeded")}
	free := &fakeCompleter{name: "gemini", tag: provider.TagGemini, answers: []string{"NOT_FOUND"}}
	src := NewSource(nil, 0, paid, free)

	_, err := src.Fetch(context.Background(), provider.NewInstrument("TCS", "Tata Consultancy"), nil)
	assert.ErrorIs(t, err, apperrors.ErrPriceNotFound)
	assert.Equal(t, 1, paid.calls())
	assert.Equal(t, 1, free.calls())
}

func TestSource_FetchRateLimitedBecomesNotFound(t *testing.T) {
	free := &fakeCompleter{name: "gemini", tag: provider.TagGemini, err: apperrors.ErrRateLimited}
	src := NewSource(nil, 0, free)

	_, err := src.Fetch(context.Background(), provider.NewInstrument("TCS", ""), nil)
	assert.ErrorIs(t, err, apperrors.ErrPriceNotFound)
}

func TestSource_FetchAMFIFallsBackToName(t *testing.T) {
	gem := &fakeCompleter{name: "gemini", tag: provider.TagGemini, answers: []string{"NOT_FOUND", "146.58"}}
	src := NewSource(nil, 0, gem)

	inst := provider.NewInstrument("119551", "ICICI Prudential Bluechip Fund - Direct Plan - Growth")
	q, err := src.Fetch(context.Background(), inst, nil)
	require.NoError(t, err)
	assert.Equal(t, 146.58, q.Price)
	require.Len(t, gem.prompts, 2)
	assert.Contains(t, gem.prompts[0], "AMFI Code: 119551")
	assert.NotContains(t, gem.prompts[1], "119551")
	assert.Contains(t, gem.prompts[1], inst.Name)
}

func TestSource_FetchAMFIWithoutNameSkipsNamePrompt(t *testing.T) {
	gem := &fakeCompleter{name: "gemini", tag: provider.TagGemini, answers: []string{"NOT_FOUND", "146.58"}}
	src := NewSource(nil, 0, gem)

	_, err := src.Fetch(context.Background(), provider.NewInstrument("119551", ""), nil)
	assert.ErrorIs(t, err, apperrors.ErrPriceNotFound)
	assert.Equal(t, 1, gem.calls())
}

func TestSource_FetchHistoricalUsesReportedDate(t *testing.T) {
	gem := &fakeCompleter{name: "gemini", tag: provider.TagGemini, answers: []string{"1450.00|2025-08-14"}}
	src := NewSource(nil, 0, gem)
	target := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	q, err := src.Fetch(context.Background(), provider.NewInstrument("INFY", "Infosys"), &target)
	require.NoError(t, err)
	assert.True(t, q.Date.Equal(target))
	assert.True(t, q.AsOf.Equal(time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)))
	assert.Contains(t, gem.prompts[0], "2025-08-15")
	assert.Contains(t, gem.prompts[0], "±7 days")
	assert.Contains(t, gem.prompts[0], "VALUE|YYYY-MM-DD")
}

func TestSource_NoCompleters(t *testing.T) {
	src := NewSource(nil, 0)
	assert.False(t, src.Available())
	_, err := src.Fetch(context.Background(), provider.NewInstrument("INFY", ""), nil)
	assert.ErrorIs(t, err, apperrors.ErrPriceNotFound)
}

func TestSource_Supports(t *testing.T) {
	src := NewSource(nil, 0)
	assert.True(t, src.Supports(provider.NewInstrument("INFY", "").Class))
	assert.True(t, src.Supports(provider.NewInstrument("119551", "").Class))
	assert.False(t, src.Supports(provider.NewInstrument("INP000006387", "").Class))
	assert.False(t, src.Supports(provider.NewInstrument("3261/27", "").Class))
}

func TestSource_FetchLatestBatchesAndRetriesMisses(t *testing.T) {
	var insts []provider.Instrument
	for i := 0; i < 25; i++ {
		insts = append(insts, provider.NewInstrument(fmt.Sprintf("1200%02d", i), fmt.Sprintf("Fund %d", i)))
	}

	// First batch: openai answers all but 120003; second batch: everything.
	var batch1, batch2 strings.Builder
	for i := 0; i < 20; i++ {
		if i != 3 {
			fmt.Fprintf(&batch1, "1200%02d|%d.5\n", i, 100+i)
		}
	}
	for i := 20; i < 25; i++ {
		fmt.Fprintf(&batch2, "1200%02d|%d.5\n", i, 100+i)
	}
	paid := &fakeCompleter{name: "openai", tag: provider.TagOpenAI, answers: []string{batch1.String(), batch2.String()}}
	free := &fakeCompleter{name: "gemini", tag: provider.TagGemini, answers: []string{"120003|103.5"}}

	src := NewSource(nil, 20, paid, free)
	quotes, fetchErrors := src.FetchLatest(context.Background(), insts)

	assert.Len(t, quotes, 25)
	assert.Empty(t, fetchErrors)
	assert.Equal(t, 2, paid.calls())
	assert.Equal(t, 1, free.calls())
	assert.Equal(t, "ai_gemini", quotes["120003"].Source)
	assert.Equal(t, 103.5, quotes["120003"].Price)
	assert.Equal(t, "ai_openai", quotes["120024"].Source)
	assert.Contains(t, free.prompts[0], "120003")
	assert.NotContains(t, free.prompts[0], "120004")
}

func TestSource_FetchLatestMalformedLineDropsOnlyThatTicker(t *testing.T) {
	insts := []provider.Instrument{
		provider.NewInstrument("INFY", "Infosys"),
		provider.NewInstrument("TCS", "Tata Consultancy"),
		provider.NewInstrument("119551", "ICICI Bluechip"),
		provider.NewInstrument("INF740K01NY4", "DSP Fund"),
		provider.NewInstrument("500325", "Reliance BSE"),
	}
	answer := "INFY|1500\nTCS|??\n119551|146.58\nINF740K01NY4|49.52\n500325|2875.4"
	gem := &fakeCompleter{name: "gemini", tag: provider.TagGemini, answers: []string{answer}}

	src := NewSource(nil, 20, gem)
	quotes, fetchErrors := src.FetchLatest(context.Background(), insts)

	assert.Len(t, quotes, 4)
	require.Len(t, fetchErrors, 1)
	assert.Equal(t, "TCS", fetchErrors[0].Ticker)
}

package pricing

import (
	"niveshak/internal/provider"
	"niveshak/internal/ticker"
)

// Sources is the set of configured price sources. Nil entries are skipped, so a
// deployment without INDstocks or model credentials simply has shorter chains.
type Sources struct {
	YahooNSE  provider.Source
	YahooBSE  provider.Source
	INDstocks provider.Source
	MFAPI     provider.Source
	AMFI      provider.BulkSource
	LLM       provider.BulkSource
}

// Chain returns the sources tried for class c, in order.
func (s Sources) Chain(c ticker.Class) []provider.Source {
	switch c {
	case ticker.StockNSE:
		return nonNil(s.YahooNSE, s.YahooBSE, s.INDstocks, s.LLM)
	case ticker.StockBSE:
		return nonNil(s.YahooBSE, s.YahooNSE, s.INDstocks, s.LLM)
	case ticker.MutualFundAMFI:
		return nonNil(s.AMFI, s.MFAPI, s.LLM)
	case ticker.MutualFundISIN:
		return nonNil(s.INDstocks, s.AMFI, s.LLM)
	default:
		return nil
	}
}

// Describe lists the tags of each class's chain for diagnostics.
func (s Sources) Describe() map[string][]string {
	out := make(map[string][]string)
	for _, c := range []ticker.Class{ticker.StockNSE, ticker.StockBSE, ticker.MutualFundAMFI, ticker.MutualFundISIN} {
		tags := []string{}
		for _, src := range s.Chain(c) {
			tags = append(tags, src.Tag())
		}
		out[c.String()] = tags
	}
	return out
}

func nonNil(srcs ...provider.Source) []provider.Source {
	out := make([]provider.Source, 0, len(srcs))
	for _, src := range srcs {
		if src != nil {
			out = append(out, src)
		}
	}
	return out
}

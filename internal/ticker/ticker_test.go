package ticker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ticker string
		want   Class
	}{
		{"32613719/27", Invalid},
		{"1.23E+11", Invalid},
		{"4.5e-05", Invalid},
		{"", Invalid},
		{"   ", Invalid},
		{"SOME VERY LONG FREE TEXT FUND LABEL", Invalid},

		{"INP000006387", PMS},
		{"inp000005000", PMS},
		{"BUOYANT_OPPORTUNITIES_PMS", PMS},
		{"CARNELIAN_SHIFT", PMS},
		{"JULIUS BAER EQUITY", PMS},
		{"VALENTIS_RISING", PMS},
		{"UNIFI_BCAD", PMS},
		{"MYFUND_PMS", PMS},

		{"AIF_IIIB_0042", AIF},
		{"ABC AIF CAT III", AIF},
		{"LEI:335800ABC", AIF},

		{"INF174K01KT2", MutualFundISIN},
		{"inf740k01ny4", MutualFundISIN},

		{"119551", MutualFundAMFI},
		{"100120", MutualFundAMFI},
		{"12345", MutualFundAMFI},
		{"1234567", MutualFundAMFI},

		{"500414", StockBSE},
		{"532540", StockBSE},

		{"1234", StockNSE},
		{"12345678", StockNSE},
		{"INFY", StockNSE},
		{"RELIANCE", StockNSE},
		{"TCS.NS", StockNSE},
		{"INFY1234", StockNSE},
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ticker))
		})
	}
}

func TestClassify_DigitRules(t *testing.T) {
	// Every 5-digit code and every 6-digit code not starting with 5 is an AMFI scheme code.
	for _, code := range []string{"10000", "99999", "100000", "119551", "499999", "600000", "999999"} {
		assert.Equal(t, MutualFundAMFI, Classify(code), code)
	}
	for n := 500000; n <= 599999; n += 7919 {
		code := fmt.Sprintf("%d", n)
		assert.Equal(t, StockBSE, Classify(code), code)
	}
}

func TestClassify_TwelveCharacterCodes(t *testing.T) {
	assert.Equal(t, MutualFundISIN, Classify("INF209K01YN0"))
	assert.Equal(t, PMS, Classify("INP000006387"))
	// INF codes of the wrong length are not ISINs.
	assert.NotEqual(t, MutualFundISIN, Classify("INF209K01YN"))
}

func TestClassify_Deterministic(t *testing.T) {
	inputs := []string{"119551", "INFY", "INP000006387", "INF174K01KT2", "32613719/27", "500414"}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, Classify(in))
		}
	}
}

func TestClassHelpers(t *testing.T) {
	assert.True(t, StockNSE.IsStock())
	assert.True(t, StockBSE.IsStock())
	assert.False(t, MutualFundAMFI.IsStock())

	assert.True(t, MutualFundAMFI.IsFund())
	assert.True(t, MutualFundISIN.IsFund())
	assert.False(t, PMS.IsFund())

	assert.True(t, PMS.IsAlternative())
	assert.True(t, AIF.IsAlternative())
	assert.False(t, Invalid.IsAlternative())
}

func TestParseClass(t *testing.T) {
	for c := range classNames {
		got, ok := ParseClass(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	_, ok := ParseClass("bond")
	assert.False(t, ok)
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "INFY", Symbol(" infy.ns "))
	assert.Equal(t, "500414", Symbol("500414.BO"))
	assert.Equal(t, "TCS", Symbol("TCS"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "INFY", Normalize(" infy "))
	assert.Equal(t, "INP000006387", Normalize("inp000006387"))
	assert.Equal(t, "32613719/27", Normalize("32613719/27"))
	assert.Equal(t, Classify("infy.ns"), Classify(Normalize("infy.ns")))
}

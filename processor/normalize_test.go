package processor

import (
	"testing"

	"arbflow/models"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		symbol   string
		exchange string
		want     string
	}{
		{"BTCUSDT", models.ExchangeBinance, "BTCUSDT"},
		{"btcusdt", models.ExchangeBinance, "BTCUSDT"},
		{"BTC-USDT", models.ExchangeBybit, "BTCUSDT"},
		{"BTC_USDT", models.ExchangeBybit, "BTCUSDT"},

		// CoinDCX contract prefix.
		{"B-BTC_USDT", models.ExchangeCoinDCX, "BTCUSDT"},
		{"B-1000PEPE_USDT", models.ExchangeCoinDCX, "1000PEPEUSDT"},

		// Delta's USD-margined perpetuals line up with USDT contracts.
		{"BTCUSD", models.ExchangeDelta, "BTCUSDT"},
		{"ETHUSD", models.ExchangeDelta, "ETHUSDT"},
		{"BTCUSDT", models.ExchangeDelta, "BTCUSDT"},

		// Inverse contracts elsewhere are not comparable.
		{"BTCUSD", models.ExchangeBinance, ""},
		{"BTCUSD_PERP", models.ExchangeBybit, ""},

		// Non-USDT quotes never survive.
		{"BTCUSDC", models.ExchangeBinance, ""},
		{"ETHBTC", models.ExchangeBinance, ""},
		{"", models.ExchangeBinance, ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.symbol, tc.exchange); got != tc.want {
			t.Errorf("Normalize(%q, %s) = %q, want %q", tc.symbol, tc.exchange, got, tc.want)
		}
	}
}

func TestNormalizeIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Normalize("B-BTC_USDT", models.ExchangeCoinDCX); got != "BTCUSDT" {
			t.Fatalf("call %d: Normalize = %q, want BTCUSDT", i, got)
		}
	}
}

func TestNormalizeOutputAlwaysUSDTOrEmpty(t *testing.T) {
	symbols := []string{"BTCUSDT", "BTCUSD", "B-DOGE_USDT", "SOL_USDC", "xrp-usdt", "BTC"}
	exchanges := []string{models.ExchangeBinance, models.ExchangeBybit, models.ExchangeDelta, models.ExchangeCoinDCX}

	for _, sym := range symbols {
		for _, ex := range exchanges {
			got := Normalize(sym, ex)
			if got == "" {
				continue
			}
			if len(got) < 5 || got[len(got)-4:] != "USDT" {
				t.Errorf("Normalize(%q, %s) = %q: non-empty result must end in USDT", sym, ex, got)
			}
		}
	}
}

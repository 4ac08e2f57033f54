package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatRate renders a raw-decimal funding rate as a percentage string with
// four decimal places, e.g. 0.0001 -> "0.0100%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.4f%%", rate*100)
}

// FormatNextFunding renders a millisecond timestamp as "HH:MM UTC". Zero
// means the exchange did not report a next funding time.
func FormatNextFunding(tsMs int64) string {
	if tsMs == 0 {
		return "N/A"
	}
	return time.UnixMilli(tsMs).UTC().Format("15:04 UTC")
}

// TradeURL builds a direct trading link for a canonical symbol on the given
// exchange.
func TradeURL(exchange, symbol string) string {
	base := strings.TrimSuffix(symbol, "USDT")
	switch exchange {
	case "Binance":
		return "https://www.binance.com/en/futures/" + symbol
	case "Bybit":
		return "https://www.bybit.com/trade/usdt/" + symbol
	case "Delta":
		return "https://www.india.delta.exchange/app/futures/trade/" + base + "/USD"
	case "CoinDCX":
		return "https://coindcx.com/futures-trading/B-" + base + "_USDT"
	}
	return "#"
}

// Round4 rounds to four decimal places, used for price spread figures.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

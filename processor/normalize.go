package processor

import (
	"strings"

	"arbflow/models"
)

// Normalize maps an exchange-native symbol to the canonical cross-exchange
// form, or "" when the instrument is not comparable. It is pure and total:
// the same input always yields the same output.
//
// Rules: uppercase, strip "-" and "_" separators; CoinDCX drops the leading
// "B" contract prefix ("B-BTC_USDT" -> "BTCUSDT"); Delta rewrites its USD
// suffix to USDT ("BTCUSD" -> "BTCUSDT") since its USD-margined perpetuals
// line up with the other venues' linear USDT contracts; on every other
// exchange a trailing USD marks an inverse contract and is rejected. Only
// USDT-margined names survive.
func Normalize(symbol, exchange string) string {
	s := strings.ToUpper(symbol)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")

	switch exchange {
	case models.ExchangeCoinDCX:
		s = strings.TrimPrefix(s, "B")
	case models.ExchangeDelta:
		if strings.HasSuffix(s, "USD") {
			s += "T"
		}
	default:
		if strings.HasSuffix(s, "USD") {
			return ""
		}
	}

	if !strings.HasSuffix(s, "USDT") {
		return ""
	}

	return s
}

package models

import (
	"time"
)

// Display names for the supported exchanges, used as map keys in scan
// results and as the exchange field of trade requests.
const (
	ExchangeBinance = "Binance"
	ExchangeBybit   = "Bybit"
	ExchangeDelta   = "Delta"
	ExchangeCoinDCX = "CoinDCX"
)

// FundingEntry is a single funding record produced by a feed adapter.
// Rate is always a raw decimal (0.0001 = 0.01%), regardless of how the
// exchange reports it. OriginalSymbol keeps the exchange-native name so a
// trade can be routed back to the venue after normalization.
type FundingEntry struct {
	Rate           float64 `json:"rate"`
	NextFundingMs  int64   `json:"next_funding_ms"`
	MarkPrice      float64 `json:"mark_price"`
	OriginalSymbol string  `json:"original_symbol"`
}

// Opportunity pairs two exchanges that carry the same canonical symbol with
// a funding-rate difference above the scan threshold. It is derived data,
// created fresh on every scan and never mutated.
type Opportunity struct {
	Symbol    string `json:"symbol"`
	Exchange1 string `json:"exchange1"`
	Exchange2 string `json:"exchange2"`

	Rate1    float64 `json:"rate1"`
	Rate2    float64 `json:"rate2"`
	Rate1Fmt string  `json:"rate1_fmt"`
	Rate2Fmt string  `json:"rate2_fmt"`
	Diff     float64 `json:"diff"`
	DiffFmt  string  `json:"diff_fmt"`

	ShortExchange string `json:"short_exchange"`
	LongExchange  string `json:"long_exchange"`

	// Exchange-native symbols for the short and long legs, needed by the
	// trade orchestrator.
	ShortSymbol string `json:"short_symbol"`
	LongSymbol  string `json:"long_symbol"`

	NextFunding1 string `json:"next_funding1"`
	NextFunding2 string `json:"next_funding2"`

	Price1    float64 `json:"price1"`
	Price2    float64 `json:"price2"`
	PriceDiff float64 `json:"price_diff"`
	SpreadPct float64 `json:"spread_pct"`

	URL1     string `json:"url1"`
	URL2     string `json:"url2"`
	ShortURL string `json:"short_url"`
	LongURL  string `json:"long_url"`
}

// ExchangeStatus records connectivity for one exchange in a scan.
type ExchangeStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ScanResult aggregates one scan invocation. A scan with zero working
// exchanges is still a well-formed result with an empty opportunity list.
type ScanResult struct {
	ScanID         string                    `json:"scan_id"`
	ScanTime       string                    `json:"scan_time"`
	Threshold      string                    `json:"threshold"`
	ThresholdRaw   float64                   `json:"threshold_raw"`
	ExchangeCounts map[string]int            `json:"exchange_counts"`
	Status         map[string]ExchangeStatus `json:"exchange_status"`
	TotalSymbols   int                       `json:"total_symbols"`
	Opportunities  []Opportunity             `json:"opportunities"`
	Count          int                       `json:"count"`
}

// ScanTimeFormat is the layout used for ScanResult.ScanTime.
const ScanTimeFormat = "2006-01-02 15:04 UTC"

// NewScanTime formats t for ScanResult.ScanTime.
func NewScanTime(t time.Time) string {
	return t.UTC().Format(ScanTimeFormat)
}

package processor

import (
	"context"
	"errors"
	"testing"

	"arbflow/config"
	"arbflow/models"
	"arbflow/reader"
)

type stubFeed struct {
	name    string
	entries map[string]models.FundingEntry
	err     error
}

func (s *stubFeed) Name() string { return s.name }

func (s *stubFeed) Fetch(ctx context.Context) (map[string]models.FundingEntry, error) {
	return s.entries, s.err
}

func TestScanMatchesAcrossExchanges(t *testing.T) {
	feeds := []reader.Feed{
		&stubFeed{name: models.ExchangeBinance, entries: map[string]models.FundingEntry{
			"BTCUSDT": {Rate: 0.004, MarkPrice: 50000, OriginalSymbol: "BTCUSDT"},
			"ETHUSDT": {Rate: 0.0001, MarkPrice: 3000, OriginalSymbol: "ETHUSDT"},
		}},
		&stubFeed{name: models.ExchangeCoinDCX, entries: map[string]models.FundingEntry{
			"B-BTC_USDT": {Rate: 0.0005, MarkPrice: 50000, OriginalSymbol: "B-BTC_USDT"},
		}},
	}

	result := NewScanner(&config.Config{}, feeds).Scan(context.Background(), 0.003)

	if result.ScanID == "" {
		t.Error("scan id must be set")
	}
	if result.ThresholdRaw != 0.003 {
		t.Errorf("threshold raw = %v, want 0.003", result.ThresholdRaw)
	}
	if result.Threshold != "0.3000%" {
		t.Errorf("threshold = %s, want 0.3000%%", result.Threshold)
	}
	if result.TotalSymbols != 2 {
		t.Errorf("total symbols = %d, want 2", result.TotalSymbols)
	}
	if result.Count != 1 || len(result.Opportunities) != 1 {
		t.Fatalf("count = %d, want exactly the BTCUSDT pair", result.Count)
	}

	opp := result.Opportunities[0]
	if opp.Symbol != "BTCUSDT" {
		t.Errorf("symbol = %s", opp.Symbol)
	}
	if opp.ShortExchange != models.ExchangeBinance || opp.LongExchange != models.ExchangeCoinDCX {
		t.Errorf("legs = short %s / long %s", opp.ShortExchange, opp.LongExchange)
	}
	if opp.LongSymbol != "B-BTC_USDT" {
		t.Errorf("long symbol = %s, want the CoinDCX native name", opp.LongSymbol)
	}

	for _, ex := range []string{models.ExchangeBinance, models.ExchangeCoinDCX} {
		if st := result.Status[ex]; !st.OK {
			t.Errorf("%s status not OK: %s", ex, st.Error)
		}
	}
	if result.ExchangeCounts[models.ExchangeBinance] != 2 {
		t.Errorf("binance count = %d, want 2", result.ExchangeCounts[models.ExchangeBinance])
	}
}

func TestScanToleratesFeedFailure(t *testing.T) {
	feedErr := &models.FetchError{Exchange: models.ExchangeBybit, Err: errors.New("connection refused")}
	feeds := []reader.Feed{
		&stubFeed{name: models.ExchangeBinance, entries: map[string]models.FundingEntry{
			"BTCUSDT": {Rate: 0.004, MarkPrice: 50000, OriginalSymbol: "BTCUSDT"},
		}},
		&stubFeed{name: models.ExchangeBybit, err: feedErr},
		&stubFeed{name: models.ExchangeCoinDCX, entries: map[string]models.FundingEntry{
			"B-BTC_USDT": {Rate: 0.0005, MarkPrice: 50000, OriginalSymbol: "B-BTC_USDT"},
		}},
	}

	result := NewScanner(&config.Config{}, feeds).Scan(context.Background(), 0.003)

	if st := result.Status[models.ExchangeBybit]; st.OK || st.Error == "" {
		t.Fatalf("bybit status = %+v, want failure with reason", st)
	}
	if result.ExchangeCounts[models.ExchangeBybit] != 0 {
		t.Errorf("bybit count = %d, want 0", result.ExchangeCounts[models.ExchangeBybit])
	}

	// The surviving exchanges still match.
	if result.Count != 1 {
		t.Fatalf("count = %d, want 1 from the surviving pair", result.Count)
	}
	if !result.Status[models.ExchangeBinance].OK {
		t.Error("binance must be unaffected by the bybit failure")
	}
}

func TestScanAllFeedsFailing(t *testing.T) {
	feeds := []reader.Feed{
		&stubFeed{name: models.ExchangeBinance, err: errors.New("down")},
		&stubFeed{name: models.ExchangeBybit, err: errors.New("down")},
	}

	result := NewScanner(&config.Config{}, feeds).Scan(context.Background(), 0.003)

	if result == nil {
		t.Fatal("scan must return a result even with zero working exchanges")
	}
	if result.Count != 0 || result.TotalSymbols != 0 {
		t.Errorf("count = %d, symbols = %d, want empty result", result.Count, result.TotalSymbols)
	}
	for ex, st := range result.Status {
		if st.OK {
			t.Errorf("%s reported OK, want failure", ex)
		}
	}
}

func TestScanThresholdMonotonicity(t *testing.T) {
	feeds := []reader.Feed{
		&stubFeed{name: models.ExchangeBinance, entries: map[string]models.FundingEntry{
			"BTCUSDT": {Rate: 0.004, OriginalSymbol: "BTCUSDT"},
			"ETHUSDT": {Rate: 0.01, OriginalSymbol: "ETHUSDT"},
		}},
		&stubFeed{name: models.ExchangeBybit, entries: map[string]models.FundingEntry{
			"BTCUSDT": {Rate: 0.0, OriginalSymbol: "BTCUSDT"},
			"ETHUSDT": {Rate: 0.0, OriginalSymbol: "ETHUSDT"},
		}},
	}
	scanner := NewScanner(&config.Config{}, feeds)

	loose := scanner.Scan(context.Background(), 0.003)
	tight := scanner.Scan(context.Background(), 0.005)

	if loose.Count != 2 {
		t.Fatalf("loose count = %d, want 2", loose.Count)
	}
	if tight.Count != 1 {
		t.Fatalf("tight count = %d, want 1", tight.Count)
	}
	if tight.Count > loose.Count {
		t.Fatal("raising the threshold must never add opportunities")
	}
}

func TestScanDropsNonComparableSymbols(t *testing.T) {
	feeds := []reader.Feed{
		&stubFeed{name: models.ExchangeBinance, entries: map[string]models.FundingEntry{
			"BTCUSD":  {Rate: 0.01, OriginalSymbol: "BTCUSD"},
			"ETHBTC":  {Rate: 0.01, OriginalSymbol: "ETHBTC"},
			"BTCUSDT": {Rate: 0.01, OriginalSymbol: "BTCUSDT"},
		}},
	}

	result := NewScanner(&config.Config{}, feeds).Scan(context.Background(), 0.003)
	if result.ExchangeCounts[models.ExchangeBinance] != 1 {
		t.Fatalf("count = %d, want 1 after dropping inverse and non-USDT symbols",
			result.ExchangeCounts[models.ExchangeBinance])
	}
}

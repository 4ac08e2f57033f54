package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	appconfig "arbflow/config"
	"arbflow/logger"
	"arbflow/models"
	"arbflow/reader"

	bybit "github.com/bybit-exchange/bybit.go.api"
)

// tickerList is the shape of the v5 market tickers result for the linear
// category. Funding figures arrive as strings.
type tickerList struct {
	Category string `json:"category"`
	List     []struct {
		Symbol          string `json:"symbol"`
		FundingRate     string `json:"fundingRate"`
		NextFundingTime string `json:"nextFundingTime"`
		MarkPrice       string `json:"markPrice"`
	} `json:"list"`
}

// FundingReader fetches funding rates from the Bybit v5 linear tickers.
type FundingReader struct {
	config appconfig.FeedConfig
	client *bybit.Client
	log    *logger.Log
}

// NewFundingReader creates a new funding reader backed by the Bybit SDK
// client with an injected pooled HTTP client.
func NewFundingReader(cfg *appconfig.Config) *FundingReader {
	log := logger.GetLogger()
	feedCfg := cfg.Source.Bybit

	base := feedCfg.URL
	if parsed, err := url.Parse(feedCfg.URL); err == nil && parsed.Host != "" {
		base = fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	}

	client := bybit.NewBybitHttpClient("", "", bybit.WithBaseURL(base))
	client.HTTPClient = reader.NewHTTPClient(feedCfg)

	log.WithComponent("bybit_reader").WithFields(logger.Fields{
		"timeout": feedCfg.Timeout,
	}).Info("bybit funding reader initialized")

	return &FundingReader{config: feedCfg, client: client, log: log}
}

func (r *FundingReader) Name() string { return models.ExchangeBybit }

// Fetch returns funding entries for all linear perpetuals. Bybit reports
// fundingRate as a raw decimal on the Binance scale. Tickers with an empty
// funding rate or nextFundingTime of "0" are not perpetuals and are skipped.
func (r *FundingReader) Fetch(ctx context.Context) (map[string]models.FundingEntry, error) {
	log := r.log.WithComponent("bybit_reader").WithFields(logger.Fields{"operation": "fetch_funding"})

	params := map[string]interface{}{"category": "linear"}

	start := time.Now()
	resp, err := r.client.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to fetch tickers")
		return nil, &models.FetchError{Exchange: models.ExchangeBybit, Err: err}
	}
	logger.LogPerformanceEntry(log, "bybit_reader", "api_request", time.Since(start), nil)

	payload, err := json.Marshal(resp.Result)
	if err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeBybit, Err: err}
	}

	var tickers tickerList
	if err := json.Unmarshal(payload, &tickers); err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeBybit, Body: reader.TruncateBody(payload), Err: err}
	}

	funding := make(map[string]models.FundingEntry, len(tickers.List))
	skipped := 0
	for _, t := range tickers.List {
		if t.FundingRate == "" || t.NextFundingTime == "0" || t.NextFundingTime == "" {
			skipped++
			continue
		}
		rate, err := strconv.ParseFloat(t.FundingRate, 64)
		if err != nil {
			skipped++
			continue
		}
		nextMs, _ := strconv.ParseInt(t.NextFundingTime, 10, 64)
		markPrice, _ := strconv.ParseFloat(t.MarkPrice, 64)

		funding[t.Symbol] = models.FundingEntry{
			Rate:           rate,
			NextFundingMs:  nextMs,
			MarkPrice:      markPrice,
			OriginalSymbol: t.Symbol,
		}
	}

	logger.IncrementFeedRead()
	log.WithFields(logger.Fields{"pairs": len(funding), "skipped": skipped}).Info("bybit funding loaded")
	return funding, nil
}

package coindcx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	appconfig "arbflow/config"
	"arbflow/logger"
	"arbflow/models"
	"arbflow/reader"

	"golang.org/x/time/rate"
)

// FundingReader fetches funding rates from the CoinDCX public realtime
// futures prices endpoint. Records arrive as an object keyed by pair name
// ("B-BTC_USDT") with terse field names (fr, efr, mp).
type FundingReader struct {
	config  appconfig.FeedConfig
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Log
}

func NewFundingReader(cfg *appconfig.Config) *FundingReader {
	feedCfg := cfg.Source.Coindcx
	limiter := rate.NewLimiter(rate.Limit(feedCfg.RateLimit.RequestsPerSecond), feedCfg.RateLimit.BurstSize)

	return &FundingReader{
		config:  feedCfg,
		client:  reader.NewHTTPClient(feedCfg),
		limiter: limiter,
		log:     logger.GetLogger(),
	}
}

func (r *FundingReader) Name() string { return models.ExchangeCoinDCX }

// Fetch returns funding entries keyed by the CoinDCX pair name. Rates are
// already raw decimals on the Binance scale. Pairs without a funding rate
// are skipped, not fatal.
func (r *FundingReader) Fetch(ctx context.Context) (map[string]models.FundingEntry, error) {
	log := r.log.WithComponent("coindcx_reader").WithFields(logger.Fields{"operation": "fetch_funding"})

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeCoinDCX, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.URL, nil)
	if err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeCoinDCX, Err: err}
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("failed to fetch prices")
		return nil, &models.FetchError{Exchange: models.ExchangeCoinDCX, Err: err}
	}
	defer resp.Body.Close()
	logger.LogPerformanceEntry(log, "coindcx_reader", "api_request", time.Since(start), nil)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeCoinDCX, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithFields(logger.Fields{"status": resp.StatusCode}).Warn("prices request rejected")
		return nil, &models.FetchError{Exchange: models.ExchangeCoinDCX, Status: resp.StatusCode, Body: reader.TruncateBody(body)}
	}

	var envelope struct {
		Prices json.RawMessage `json:"prices"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeCoinDCX, Body: reader.TruncateBody(body), Err: err}
	}
	// Some revisions return the prices map at the top level.
	raw := envelope.Prices
	if len(raw) == 0 {
		raw = body
	}

	records, err := reader.DecodeRecords(raw)
	if err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeCoinDCX, Body: reader.TruncateBody(raw), Err: err}
	}

	funding := make(map[string]models.FundingEntry, len(records))
	skipped := 0
	for pair, rec := range records {
		rateVal, ok := rec.Float(reader.RateAliases)
		if !ok {
			skipped++
			continue
		}
		markPrice, _ := rec.Float(reader.PriceAliases)
		nextMs, _ := rec.Int(reader.NextTimeAliases)

		funding[pair] = models.FundingEntry{
			Rate:           rateVal,
			NextFundingMs:  nextMs,
			MarkPrice:      markPrice,
			OriginalSymbol: pair,
		}
	}

	logger.IncrementFeedRead()
	log.WithFields(logger.Fields{"pairs": len(funding), "skipped": skipped}).Info("coindcx funding loaded")
	return funding, nil
}

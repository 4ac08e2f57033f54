package delta

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

// FundingReader fetches funding rates from the Delta Exchange India tickers
// endpoint. Delta has no Go SDK, so this reader talks to the REST API
// directly and probes the loosely-typed records for the fields it needs.
type FundingReader struct {
	config  appconfig.FeedConfig
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Log
}

func NewFundingReader(cfg *appconfig.Config) *FundingReader {
	feedCfg := cfg.Source.Delta
	limiter := rate.NewLimiter(rate.Limit(feedCfg.RateLimit.RequestsPerSecond), feedCfg.RateLimit.BurstSize)

	return &FundingReader{
		config:  feedCfg,
		client:  reader.NewHTTPClient(feedCfg),
		limiter: limiter,
		log:     logger.GetLogger(),
	}
}

func (r *FundingReader) Name() string { return models.ExchangeDelta }

// Fetch returns funding entries for Delta perpetuals. Delta reports the
// funding rate in percentage form (0.01 means 0.01%), so every rate is
// divided by 100 before it leaves the adapter to reach the raw-decimal
// scale used everywhere else. Non-perpetual contracts are filtered out.
func (r *FundingReader) Fetch(ctx context.Context) (map[string]models.FundingEntry, error) {
	log := r.log.WithComponent("delta_reader").WithFields(logger.Fields{"operation": "fetch_funding"})

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeDelta, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.URL, nil)
	if err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeDelta, Err: err}
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("failed to fetch tickers")
		return nil, &models.FetchError{Exchange: models.ExchangeDelta, Err: err}
	}
	defer resp.Body.Close()
	logger.LogPerformanceEntry(log, "delta_reader", "api_request", time.Since(start), nil)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeDelta, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithFields(logger.Fields{"status": resp.StatusCode}).Warn("tickers request rejected")
		return nil, &models.FetchError{Exchange: models.ExchangeDelta, Status: resp.StatusCode, Body: reader.TruncateBody(body)}
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeDelta, Body: reader.TruncateBody(body), Err: err}
	}

	records, err := reader.DecodeRecords(envelope.Result)
	if err != nil {
		return nil, &models.FetchError{Exchange: models.ExchangeDelta, Body: reader.TruncateBody(envelope.Result), Err: err}
	}

	funding := make(map[string]models.FundingEntry, len(records))
	skipped := 0
	for sym, rec := range records {
		// Only perpetual futures carry funding rates.
		if ct, ok := rec.String(reader.Aliases{"contract_type"}); !ok || ct != "perpetual_futures" {
			continue
		}
		pctRate, ok := rec.Float(reader.RateAliases)
		if !ok {
			skipped++
			continue
		}
		markPrice, _ := rec.Float(reader.PriceAliases)
		nextMs, _ := rec.Int(reader.NextTimeAliases)

		funding[sym] = models.FundingEntry{
			Rate:           pctRate / 100,
			NextFundingMs:  nextMs,
			MarkPrice:      markPrice,
			OriginalSymbol: sym,
		}
	}

	logger.IncrementFeedRead()
	log.WithFields(logger.Fields{"pairs": len(funding), "skipped": skipped}).Info("delta funding loaded")
	return funding, nil
}

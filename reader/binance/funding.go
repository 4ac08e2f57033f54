package binance

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"arbflow/config"
	"arbflow/logger"
	"arbflow/models"
	"arbflow/reader"

	futures "github.com/adshao/go-binance/v2/futures"
)

// FundingReader fetches the Binance futures premium index, which carries the
// last funding rate and mark price for every linear contract.
type FundingReader struct {
	config config.FeedConfig
	client *futures.Client
	log    *logger.Log
}

// NewFundingReader creates the reader using the binance-go futures client
// with an injected pooled HTTP client and the configured endpoint.
func NewFundingReader(cfg *config.Config) *FundingReader {
	log := logger.GetLogger()
	feedCfg := cfg.Source.Binance

	client := futures.NewClient("", "")
	client.HTTPClient = reader.NewHTTPClient(feedCfg)
	if parsed, err := url.Parse(feedCfg.URL); err == nil && parsed.Host != "" {
		client.SetApiEndpoint(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host))
	}

	log.WithComponent("binance_reader").WithFields(logger.Fields{
		"timeout": feedCfg.Timeout,
	}).Info("binance funding reader initialized")

	return &FundingReader{config: feedCfg, client: client, log: log}
}

func (r *FundingReader) Name() string { return models.ExchangeBinance }

// Fetch returns funding entries for all active perpetuals. Binance reports
// lastFundingRate as a raw decimal, so no scale conversion is needed.
// Quarterly contracts (underscore symbols) and inactive contracts
// (nextFundingTime == 0) are skipped.
func (r *FundingReader) Fetch(ctx context.Context) (map[string]models.FundingEntry, error) {
	log := r.log.WithComponent("binance_reader").WithFields(logger.Fields{"operation": "fetch_funding"})

	start := time.Now()
	indexes, err := r.client.NewPremiumIndexService().Do(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to fetch premium index")
		return nil, &models.FetchError{Exchange: models.ExchangeBinance, Err: err}
	}
	logger.LogPerformanceEntry(log, "binance_reader", "api_request", time.Since(start), nil)

	funding := make(map[string]models.FundingEntry, len(indexes))
	skipped := 0
	for _, idx := range indexes {
		if strings.Contains(idx.Symbol, "_") || idx.NextFundingTime == 0 {
			continue
		}
		rate, err := strconv.ParseFloat(idx.LastFundingRate, 64)
		if err != nil || idx.LastFundingRate == "" {
			skipped++
			continue
		}
		markPrice, _ := strconv.ParseFloat(idx.MarkPrice, 64)

		funding[idx.Symbol] = models.FundingEntry{
			Rate:           rate,
			NextFundingMs:  idx.NextFundingTime,
			MarkPrice:      markPrice,
			OriginalSymbol: idx.Symbol,
		}
	}

	logger.IncrementFeedRead()
	log.WithFields(logger.Fields{"pairs": len(funding), "skipped": skipped}).Info("binance funding loaded")
	return funding, nil
}

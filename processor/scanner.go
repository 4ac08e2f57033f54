package processor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"arbflow/config"
	"arbflow/logger"
	"arbflow/models"
	"arbflow/reader"
)

// Scanner runs one funding-rate scan across all configured feeds. Every
// entity it produces is owned by the call that produced it; nothing is
// shared across invocations.
type Scanner struct {
	config    *config.Config
	feeds     []reader.Feed
	exchanges []string
	log       *logger.Log
}

// NewScanner wires the scanner to its feeds. The feed order fixes the
// exchange-pair enumeration order in results.
func NewScanner(cfg *config.Config, feeds []reader.Feed) *Scanner {
	exchanges := make([]string, 0, len(feeds))
	for _, f := range feeds {
		exchanges = append(exchanges, f.Name())
	}

	log := logger.GetLogger()
	log.WithComponent("scanner").WithFields(logger.Fields{"exchanges": exchanges}).Info("scanner initialized")

	return &Scanner{config: cfg, feeds: feeds, exchanges: exchanges, log: log}
}

type feedResult struct {
	exchange string
	entries  map[string]models.FundingEntry
	err      error
}

// Scan fetches every feed concurrently, waits for all of them to settle
// (success or failure each recorded in its own slot, no fail-fast), then
// normalizes, matches and ranks opportunities at or above the threshold.
// Feed failures never abort the scan; they surface in the per-exchange
// status of the result.
func (s *Scanner) Scan(ctx context.Context, threshold float64) *models.ScanResult {
	log := s.log.WithComponent("scanner").WithFields(logger.Fields{"operation": "scan"})
	start := time.Now()

	results := make([]feedResult, len(s.feeds))
	var wg sync.WaitGroup
	for i, feed := range s.feeds {
		wg.Add(1)
		go func(slot int, f reader.Feed) {
			defer wg.Done()
			entries, err := f.Fetch(ctx)
			results[slot] = feedResult{exchange: f.Name(), entries: entries, err: err}
		}(i, feed)
	}
	wg.Wait()

	normalized := make(map[string]map[string]models.FundingEntry, len(results))
	counts := make(map[string]int, len(results))
	status := make(map[string]models.ExchangeStatus, len(results))

	for _, res := range results {
		if res.err != nil {
			log.WithError(res.err).WithFields(logger.Fields{"exchange": res.exchange}).Warn("feed failed, excluded from scan")
			status[res.exchange] = models.ExchangeStatus{OK: false, Error: res.err.Error()}
			normalized[res.exchange] = map[string]models.FundingEntry{}
			counts[res.exchange] = 0
			continue
		}
		status[res.exchange] = models.ExchangeStatus{OK: true}
		normalized[res.exchange] = s.normalizeEntries(res.exchange, res.entries)
		counts[res.exchange] = len(normalized[res.exchange])
	}

	symbols := make(map[string]struct{})
	for _, perExchange := range normalized {
		for sym := range perExchange {
			symbols[sym] = struct{}{}
		}
	}

	opportunities := matchOpportunities(s.exchanges, normalized, threshold)

	duration := time.Since(start)
	logger.IncrementScan()
	log.LogMetric("scanner", "ScanDurationMs", float64(duration.Milliseconds()), "gauge", nil)
	log.LogMetric("scanner", "OpportunityCount", len(opportunities), "gauge", nil)
	log.WithFields(logger.Fields{
		"total_symbols": len(symbols),
		"count":         len(opportunities),
		"duration_ms":   duration.Milliseconds(),
	}).Info("scan complete")

	return &models.ScanResult{
		ScanID:         uuid.New().String(),
		ScanTime:       models.NewScanTime(time.Now()),
		Threshold:      models.FormatRate(threshold),
		ThresholdRaw:   threshold,
		ExchangeCounts: counts,
		Status:         status,
		TotalSymbols:   len(symbols),
		Opportunities:  opportunities,
		Count:          len(opportunities),
	}
}

// normalizeEntries keys an exchange's raw entries by canonical symbol.
// Collisions keep the last writer but are logged so dropped data stays
// observable.
func (s *Scanner) normalizeEntries(exchange string, entries map[string]models.FundingEntry) map[string]models.FundingEntry {
	out := make(map[string]models.FundingEntry, len(entries))
	for raw, entry := range entries {
		canonical := Normalize(raw, exchange)
		if canonical == "" {
			continue
		}
		if prev, ok := out[canonical]; ok {
			s.log.WithComponent("scanner").WithFields(logger.Fields{
				"exchange":  exchange,
				"canonical": canonical,
				"kept":      raw,
				"dropped":   prev.OriginalSymbol,
			}).Warn("canonical symbol collision, keeping last writer")
		}
		out[canonical] = entry
	}
	return out
}

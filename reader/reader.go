package reader

import (
	"context"
	"net/http"

	"arbflow/config"
	"arbflow/models"
)

// Feed is one exchange's funding-rate source. Fetch returns a map keyed by
// the exchange-native symbol; the rate in every entry is already converted
// to raw-decimal scale. Errors never escape as panics and never abort
// sibling feeds.
type Feed interface {
	Name() string
	Fetch(ctx context.Context) (map[string]models.FundingEntry, error)
}

// NewHTTPClient builds the pooled http.Client a feed adapter owns. Timeouts
// are per-adapter so a stalled venue only delays its own slot.
func NewHTTPClient(fc config.FeedConfig) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        fc.ConnectionPool.MaxIdleConns,
		MaxIdleConnsPerHost: fc.ConnectionPool.MaxIdleConns,
		MaxConnsPerHost:     fc.ConnectionPool.MaxConnsPerHost,
		IdleConnTimeout:     fc.ConnectionPool.IdleConnTimeout,
		DisableCompression:  false,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   fc.Timeout,
	}
}

// TruncateBody bounds an error-response body for diagnostics.
func TruncateBody(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// Package reader holds the shared plumbing for the market feed adapters:
// the feed interface consumed by the scanner and the defensive field-probing
// helpers for venues whose JSON is not schema-stable.
package reader

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one loosely-typed ticker record from an exchange response.
type Record map[string]interface{}

// Aliases is the ordered list of field names probed for one semantic field.
// The first present alias wins.
type Aliases []string

// Common alias tables. Exchanges rename fields across API revisions, so each
// semantic field is looked up through an ordered list rather than a fixed
// schema.
var (
	RateAliases      = Aliases{"funding_rate", "fr", "fundingRate", "lastFundingRate"}
	PriceAliases     = Aliases{"mark_price", "mp", "markPrice"}
	NextTimeAliases  = Aliases{"next_funding_time", "nft", "nextFundingTime"}
	SymbolAliases    = Aliases{"symbol", "s", "pair", "instrument"}
	EstimatedAliases = Aliases{"estimated_funding_rate", "efr"}
)

// Float probes the record for the first present alias and coerces it to a
// float64. JSON numbers and numeric strings are both accepted. The second
// result is false when no alias is present or the value is not numeric.
func (r Record) Float(aliases Aliases) (float64, bool) {
	for _, name := range aliases {
		v, ok := r[name]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case string:
			if t == "" {
				continue
			}
			if f, err := strconv.ParseFloat(t, 64); err == nil {
				return f, true
			}
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Int probes like Float but truncates to int64, for millisecond timestamps.
func (r Record) Int(aliases Aliases) (int64, bool) {
	f, ok := r.Float(aliases)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// String probes the record for the first present string alias.
func (r Record) String(aliases Aliases) (string, bool) {
	for _, name := range aliases {
		if v, ok := r[name]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// DecodeRecords accepts either an array of records or an object keyed by
// symbol and returns a uniform symbol->record map. For the array form the
// symbol is probed from each record; records without one are skipped.
func DecodeRecords(data []byte) (map[string]Record, error) {
	var asArray []Record
	if err := json.Unmarshal(data, &asArray); err == nil {
		out := make(map[string]Record, len(asArray))
		for _, rec := range asArray {
			if sym, ok := rec.String(SymbolAliases); ok {
				out[sym] = rec
			}
		}
		return out, nil
	}

	var asObject map[string]Record
	if err := json.Unmarshal(data, &asObject); err == nil {
		return asObject, nil
	}

	return nil, fmt.Errorf("payload is neither an array of records nor an object keyed by symbol")
}

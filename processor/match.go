package processor

import (
	"sort"

	"arbflow/models"
)

// matchOpportunities walks every canonical symbol present on at least two
// exchanges, enumerates all unordered exchange pairs that carry it, and
// emits an opportunity for every pair whose funding-rate difference clears
// the threshold (inclusive). The result is sorted by descending difference.
//
// exchanges fixes the iteration order so results are deterministic; data is
// keyed exchange -> canonical symbol -> entry.
func matchOpportunities(exchanges []string, data map[string]map[string]models.FundingEntry, threshold float64) []models.Opportunity {
	symbols := make(map[string]struct{})
	for _, perExchange := range data {
		for sym := range perExchange {
			symbols[sym] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(symbols))
	for sym := range symbols {
		sorted = append(sorted, sym)
	}
	sort.Strings(sorted)

	var opportunities []models.Opportunity
	for _, sym := range sorted {
		available := make([]string, 0, len(exchanges))
		for _, ex := range exchanges {
			if _, ok := data[ex][sym]; ok {
				available = append(available, ex)
			}
		}
		if len(available) < 2 {
			continue
		}

		for i := 0; i < len(available); i++ {
			for j := i + 1; j < len(available); j++ {
				e1, e2 := available[i], available[j]
				entry1, entry2 := data[e1][sym], data[e2][sym]

				diff := entry1.Rate - entry2.Rate
				if diff < 0 {
					diff = -diff
				}
				if diff < threshold {
					continue
				}

				opportunities = append(opportunities, buildOpportunity(sym, e1, e2, entry1, entry2, diff))
			}
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Diff > opportunities[j].Diff
	})

	return opportunities
}

func buildOpportunity(sym, e1, e2 string, entry1, entry2 models.FundingEntry, diff float64) models.Opportunity {
	// Shorting the algebraically higher-funding side captures positive carry.
	shortEx, longEx := e1, e2
	shortSym, longSym := entry1.OriginalSymbol, entry2.OriginalSymbol
	if entry2.Rate > entry1.Rate {
		shortEx, longEx = e2, e1
		shortSym, longSym = entry2.OriginalSymbol, entry1.OriginalSymbol
	}

	price1, price2 := entry1.MarkPrice, entry2.MarkPrice
	priceDiff := price1 - price2
	if priceDiff < 0 {
		priceDiff = -priceDiff
	}
	// A missing price on either side yields a zero spread, not a division
	// fault.
	spreadPct := 0.0
	if price1 > 0 && price2 > 0 {
		spreadPct = priceDiff / ((price1 + price2) / 2) * 100
	}

	return models.Opportunity{
		Symbol:        sym,
		Exchange1:     e1,
		Exchange2:     e2,
		Rate1:         entry1.Rate,
		Rate2:         entry2.Rate,
		Rate1Fmt:      models.FormatRate(entry1.Rate),
		Rate2Fmt:      models.FormatRate(entry2.Rate),
		Diff:          diff,
		DiffFmt:       models.FormatRate(diff),
		ShortExchange: shortEx,
		LongExchange:  longEx,
		ShortSymbol:   shortSym,
		LongSymbol:    longSym,
		NextFunding1:  models.FormatNextFunding(entry1.NextFundingMs),
		NextFunding2:  models.FormatNextFunding(entry2.NextFundingMs),
		Price1:        price1,
		Price2:        price2,
		PriceDiff:     models.Round4(priceDiff),
		SpreadPct:     models.Round4(spreadPct),
		URL1:          models.TradeURL(e1, sym),
		URL2:          models.TradeURL(e2, sym),
		ShortURL:      models.TradeURL(shortEx, sym),
		LongURL:       models.TradeURL(longEx, sym),
	}
}

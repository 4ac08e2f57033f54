// Package trader places the two legs of a funding-rate arbitrage trade.
// Each venue has its own order adapter and signing scheme; the orchestrator
// submits both legs concurrently and reports both outcomes without rollback.
package trader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"arbflow/config"
	"arbflow/logger"
	"arbflow/models"
)

// OrderPlacer submits one market order on a single venue and maps the
// exchange-specific response into the common OrderResult shape. Failures are
// reported in the result, never panicked.
type OrderPlacer interface {
	Exchange() string
	PlaceOrder(ctx context.Context, symbol, side string, quantity, leverage float64) models.OrderResult
}

// Trader orchestrates two-leg trades. State machine per trade:
// Validated -> Executing -> {Succeeded, PartiallyFailed}, all terminal.
type Trader struct {
	creds   config.Credentials
	placers map[string]OrderPlacer
	log     *logger.Log
}

// NewTrader builds the order adapters for every venue whose credentials are
// configured. A venue whose signer cannot be constructed (bad seed) is
// disabled with a warning rather than failing startup.
func NewTrader(cfg *config.Config, creds config.Credentials) *Trader {
	log := logger.GetLogger()
	placers := make(map[string]OrderPlacer)

	if creds.Binance.Configured() {
		if p, err := NewBinanceOrders(cfg.Trading.Binance, creds.Binance); err != nil {
			log.WithComponent("trader").WithError(err).Warn("binance trading disabled")
		} else {
			placers[models.ExchangeBinance] = p
		}
	}
	if creds.Delta.Configured() {
		placers[models.ExchangeDelta] = NewDeltaOrders(cfg.Trading.Delta, creds.Delta)
	}
	if creds.Coindcx.Configured() {
		placers[models.ExchangeCoinDCX] = NewCoindcxOrders(cfg.Trading.Coindcx, creds.Coindcx)
	}

	exchanges := make([]string, 0, len(placers))
	for ex := range placers {
		exchanges = append(exchanges, ex)
	}
	log.WithComponent("trader").WithFields(logger.Fields{"exchanges": exchanges}).Info("trader initialized")

	return &Trader{creds: creds, placers: placers, log: log}
}

// Execute validates the request, then places the short and long legs
// concurrently. There is no rollback of a filled leg when the other fails;
// both outcomes are reported so the operator can close the surviving leg.
func (t *Trader) Execute(ctx context.Context, req models.TradeRequest) *models.TradeResult {
	log := t.log.WithComponent("trader").WithFields(logger.Fields{
		"symbol": req.Symbol,
		"short":  req.ShortExchange,
		"long":   req.LongExchange,
	})

	result := &models.TradeResult{
		TradeID: uuid.New().String(),
		Symbol:  req.Symbol,
	}

	// Defensive re-validation; the caller boundary validates first.
	if req.Quantity <= 0 {
		result.Error = "quantity must be greater than 0"
		return result
	}
	if req.Leverage <= 0 {
		result.Error = "leverage must be greater than 0"
		return result
	}

	var errs []string
	shortPlacer, err := t.placerFor(req.ShortExchange)
	if err != nil {
		errs = append(errs, fmt.Sprintf("Short (%s): %s", req.ShortExchange, err))
	}
	longPlacer, err := t.placerFor(req.LongExchange)
	if err != nil {
		errs = append(errs, fmt.Sprintf("Long (%s): %s", req.LongExchange, err))
	}
	if len(errs) > 0 {
		result.Error = strings.Join(errs, "; ")
		log.WithFields(logger.Fields{"error": result.Error}).Warn("trade refused before execution")
		return result
	}

	log.Info("executing trade")

	var shortOrder, longOrder models.OrderResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		shortOrder = shortPlacer.PlaceOrder(ctx, req.ShortSymbol, models.SideShort, req.Quantity, req.Leverage)
	}()
	go func() {
		defer wg.Done()
		longOrder = longPlacer.PlaceOrder(ctx, req.LongSymbol, models.SideLong, req.Quantity, req.Leverage)
	}()
	wg.Wait()

	result.ShortOrder = &shortOrder
	result.LongOrder = &longOrder

	if shortOrder.Failed() {
		errs = append(errs, fmt.Sprintf("Short (%s): %s", req.ShortExchange, shortOrder.Error))
	}
	if longOrder.Failed() {
		errs = append(errs, fmt.Sprintf("Long (%s): %s", req.LongExchange, longOrder.Error))
	}

	result.Success = len(errs) == 0
	result.Error = strings.Join(errs, "; ")

	if result.Success {
		log.WithFields(logger.Fields{"trade_id": result.TradeID}).Info("both legs placed")
	} else {
		log.WithFields(logger.Fields{"trade_id": result.TradeID, "error": result.Error}).Error("trade incomplete")
	}

	return result
}

// placerFor resolves the order adapter for an exchange. A venue without
// configured credentials (or with no authenticated support at all) is
// reported as unconfigured, distinct from runtime signing faults.
func (t *Trader) placerFor(exchange string) (OrderPlacer, error) {
	creds, supported := t.creds.For(exchange)
	if !supported || !creds.Configured() {
		return nil, fmt.Errorf("API keys not configured")
	}
	placer, ok := t.placers[exchange]
	if !ok {
		// Credentials present but signer construction failed at startup.
		return nil, fmt.Errorf("trading disabled: signing unavailable")
	}
	return placer, nil
}

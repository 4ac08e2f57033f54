package trader

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"arbflow/config"
	"arbflow/internal/signer"
	"arbflow/logger"
	"arbflow/models"
	"arbflow/reader"
)

// DeltaOrders places market orders on Delta Exchange India. Requests are
// signed with hex HMAC-SHA256 over method + timestamp + path + query + body.
type DeltaOrders struct {
	config config.OrderEndpointConfig
	apiKey string
	signer *signer.HMACSigner
	client *http.Client
	log    *logger.Log
}

func NewDeltaOrders(cfg config.OrderEndpointConfig, creds config.APICredentials) *DeltaOrders {
	return &DeltaOrders{
		config: cfg,
		apiKey: creds.Key,
		signer: signer.NewHMACSigner(creds.Secret),
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.GetLogger(),
	}
}

func (d *DeltaOrders) Exchange() string { return models.ExchangeDelta }

// PlaceOrder submits a market order. Leverage on Delta is a per-product
// setting on the venue, so only the order size and side are sent.
func (d *DeltaOrders) PlaceOrder(ctx context.Context, symbol, side string, quantity, leverage float64) models.OrderResult {
	log := d.log.WithComponent("delta_trader").WithFields(logger.Fields{"symbol": symbol, "side": side})
	result := models.OrderResult{
		Exchange: models.ExchangeDelta,
		Symbol:   symbol,
		Side:     side,
		Status:   models.OrderStatusFailed,
	}

	payload := map[string]interface{}{
		"product_symbol": symbol,
		"size":           quantity,
		"side":           side,
		"order_type":     "market_order",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeDelta, Detail: err.Error()}).Error()
		return result
	}

	const path = "/v2/orders"
	ts := time.Now().Unix()
	sig := d.signer.SignRequest(http.MethodPost, path, "", string(body), ts)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeDelta, Detail: err.Error()}).Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", d.apiKey)
	req.Header.Set("timestamp", strconv.FormatInt(ts, 10))
	req.Header.Set("signature", sig)

	logger.IncrementOrder()
	resp, err := d.client.Do(req)
	if err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeDelta, Detail: err.Error()}).Error()
		log.WithError(err).Error("order request failed")
		return result
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeDelta, Detail: err.Error()}).Error()
		return result
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := reader.TruncateBody(respBody)
		result.Error = (&models.OrderError{Exchange: models.ExchangeDelta, Status: resp.StatusCode, Detail: detail}).Error()
		log.WithFields(logger.Fields{"status": resp.StatusCode, "detail": detail}).Error("order rejected")
		return result
	}

	var placed struct {
		Success bool `json:"success"`
		Result  struct {
			ID               int64  `json:"id"`
			State            string `json:"state"`
			AverageFillPrice string `json:"average_fill_price"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &placed); err != nil || !placed.Success {
		result.Error = (&models.OrderError{Exchange: models.ExchangeDelta, Detail: reader.TruncateBody(respBody)}).Error()
		return result
	}

	result.Status = models.OrderStatusPlaced
	if placed.Result.State == "closed" {
		result.Status = models.OrderStatusFilled
	}
	result.OrderID = strconv.FormatInt(placed.Result.ID, 10)
	result.Price, _ = strconv.ParseFloat(placed.Result.AverageFillPrice, 64)

	log.WithFields(logger.Fields{"order_id": result.OrderID, "status": result.Status}).Info("order placed")
	return result
}

package trader

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"arbflow/config"
	"arbflow/internal/signer"
	"arbflow/logger"
	"arbflow/models"
	"arbflow/reader"
)

// CoindcxOrders places futures market orders on CoinDCX. The venue
// authenticates the raw JSON body alone: the signature is hex HMAC-SHA256
// of the exact bytes sent.
type CoindcxOrders struct {
	config config.OrderEndpointConfig
	apiKey string
	signer *signer.HMACSigner
	client *http.Client
	log    *logger.Log
}

func NewCoindcxOrders(cfg config.OrderEndpointConfig, creds config.APICredentials) *CoindcxOrders {
	return &CoindcxOrders{
		config: cfg,
		apiKey: creds.Key,
		signer: signer.NewHMACSigner(creds.Secret),
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.GetLogger(),
	}
}

func (c *CoindcxOrders) Exchange() string { return models.ExchangeCoinDCX }

// PlaceOrder submits a market order for the CoinDCX pair name
// (e.g. "B-BTC_USDT").
func (c *CoindcxOrders) PlaceOrder(ctx context.Context, symbol, side string, quantity, leverage float64) models.OrderResult {
	log := c.log.WithComponent("coindcx_trader").WithFields(logger.Fields{"symbol": symbol, "side": side})
	result := models.OrderResult{
		Exchange: models.ExchangeCoinDCX,
		Symbol:   symbol,
		Side:     side,
		Status:   models.OrderStatusFailed,
	}

	payload := map[string]interface{}{
		"timestamp": time.Now().UnixMilli(),
		"order": map[string]interface{}{
			"side":           side,
			"pair":           symbol,
			"order_type":     "market_order",
			"total_quantity": quantity,
			"leverage":       leverage,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeCoinDCX, Detail: err.Error()}).Error()
		return result
	}

	const path = "/exchange/v1/derivatives/futures/orders/create"
	sig := c.signer.SignBody(string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeCoinDCX, Detail: err.Error()}).Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-AUTH-APIKEY", c.apiKey)
	req.Header.Set("X-AUTH-SIGNATURE", sig)

	logger.IncrementOrder()
	resp, err := c.client.Do(req)
	if err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeCoinDCX, Detail: err.Error()}).Error()
		log.WithError(err).Error("order request failed")
		return result
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeCoinDCX, Detail: err.Error()}).Error()
		return result
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := reader.TruncateBody(respBody)
		result.Error = (&models.OrderError{Exchange: models.ExchangeCoinDCX, Status: resp.StatusCode, Detail: detail}).Error()
		log.WithFields(logger.Fields{"status": resp.StatusCode, "detail": detail}).Error("order rejected")
		return result
	}

	id, status := coindcxOrderFields(respBody)
	if id == "" {
		result.Error = (&models.OrderError{Exchange: models.ExchangeCoinDCX, Detail: "no order in response: " + reader.TruncateBody(respBody)}).Error()
		return result
	}

	result.Status = models.OrderStatusPlaced
	if status == "filled" {
		result.Status = models.OrderStatusFilled
	}
	result.OrderID = id

	log.WithFields(logger.Fields{"order_id": result.OrderID, "status": result.Status}).Info("order placed")
	return result
}

// coindcxOrderFields extracts the order id and status. The endpoint has
// returned both a bare order object and an array of orders across API
// revisions, so both shapes are accepted.
func coindcxOrderFields(body []byte) (string, string) {
	type order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	var many []order
	if err := json.Unmarshal(body, &many); err == nil && len(many) > 0 {
		return many[0].ID, many[0].Status
	}

	var one order
	if err := json.Unmarshal(body, &one); err == nil {
		return one.ID, one.Status
	}

	return "", ""
}

package trader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"arbflow/config"
	"arbflow/internal/signer"
	"arbflow/logger"
	"arbflow/models"
	"arbflow/reader"
)

// BinanceOrders places USDT-M futures market orders signed with an Ed25519
// API key.
type BinanceOrders struct {
	config config.OrderEndpointConfig
	apiKey string
	signer *signer.Ed25519Signer
	client *http.Client
	log    *logger.Log
}

// NewBinanceOrders derives the Ed25519 signing key from the configured hex
// seed. Errors are configuration or signing faults; the caller disables
// Binance trading instead of crashing.
func NewBinanceOrders(cfg config.OrderEndpointConfig, creds config.APICredentials) (*BinanceOrders, error) {
	sgn, err := signer.NewEd25519Signer(models.ExchangeBinance, creds.Secret)
	if err != nil {
		return nil, err
	}

	return &BinanceOrders{
		config: cfg,
		apiKey: creds.Key,
		signer: sgn,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.GetLogger(),
	}, nil
}

func (b *BinanceOrders) Exchange() string { return models.ExchangeBinance }

// PlaceOrder submits a MARKET order. Leverage is applied first with a
// best-effort signed call; a leverage failure logs a warning but does not
// fail the leg.
func (b *BinanceOrders) PlaceOrder(ctx context.Context, symbol, side string, quantity, leverage float64) models.OrderResult {
	log := b.log.WithComponent("binance_trader").WithFields(logger.Fields{"symbol": symbol, "side": side})
	result := models.OrderResult{
		Exchange: models.ExchangeBinance,
		Symbol:   symbol,
		Side:     side,
		Status:   models.OrderStatusFailed,
	}

	if err := b.setLeverage(ctx, symbol, leverage); err != nil {
		log.WithError(err).Warn("failed to set leverage, order proceeds at current setting")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", strings.ToUpper(side))
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', -1, 64))
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	body, status, err := b.signedPost(ctx, "/fapi/v1/order", params)
	logger.IncrementOrder()
	if err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeBinance, Detail: err.Error()}).Error()
		log.WithError(err).Error("order request failed")
		return result
	}
	if status < 200 || status > 299 {
		detail := binanceErrorDetail(body)
		result.Error = (&models.OrderError{Exchange: models.ExchangeBinance, Status: status, Detail: detail}).Error()
		log.WithFields(logger.Fields{"status": status, "detail": detail}).Error("order rejected")
		return result
	}

	var placed struct {
		OrderID  int64  `json:"orderId"`
		Status   string `json:"status"`
		AvgPrice string `json:"avgPrice"`
	}
	if err := json.Unmarshal(body, &placed); err != nil {
		result.Error = (&models.OrderError{Exchange: models.ExchangeBinance, Detail: "unreadable response: " + reader.TruncateBody(body)}).Error()
		return result
	}

	result.Status = models.OrderStatusPlaced
	if placed.Status == "FILLED" {
		result.Status = models.OrderStatusFilled
	}
	result.OrderID = strconv.FormatInt(placed.OrderID, 10)
	result.Price, _ = strconv.ParseFloat(placed.AvgPrice, 64)

	log.WithFields(logger.Fields{"order_id": result.OrderID, "status": result.Status}).Info("order placed")
	return result
}

func (b *BinanceOrders) setLeverage(ctx context.Context, symbol string, leverage float64) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("leverage", strconv.Itoa(int(leverage)))
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	body, status, err := b.signedPost(ctx, "/fapi/v1/leverage", params)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("status %d: %s", status, binanceErrorDetail(body))
	}
	return nil
}

// signedPost signs timestamp + POST + path?query + body with the Ed25519
// key and appends the hex signature as a query parameter.
func (b *BinanceOrders) signedPost(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	ts, err := strconv.ParseInt(params.Get("timestamp"), 10, 64)
	if err != nil {
		return nil, 0, err
	}

	query := params.Encode()
	sig, err := b.signer.Sign(ts, http.MethodPost, path+"?"+query, "")
	if err != nil {
		return nil, 0, err
	}
	query += "&signature=" + url.QueryEscape(sig)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.config.BaseURL+path+"?"+query, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("X-MBX-APIKEY", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func binanceErrorDetail(body []byte) string {
	var apiErr struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Msg != "" {
		return fmt.Sprintf("%s (code %d)", apiErr.Msg, apiErr.Code)
	}
	return reader.TruncateBody(body)
}

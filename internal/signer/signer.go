// Package signer implements the per-exchange request authentication schemes:
// hex HMAC-SHA256 over a canonical request description (Delta), HMAC-SHA256
// over the raw body only (CoinDCX), and raw-seed Ed25519 (Binance).
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSigner signs requests with a shared secret.
type HMACSigner struct {
	secret []byte
}

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

// SignRequest produces the hex HMAC-SHA256 digest over the canonical
// method + timestamp + path + query + body concatenation. The query string
// must include its leading "?" when present, matching the exchange's
// canonical form.
func (s *HMACSigner) SignRequest(method, path, query, body string, timestamp int64) string {
	payload := method + formatTimestamp(timestamp) + path + query + body
	return s.digest(payload)
}

// SignBody signs only the raw request body. Used by venues that
// authenticate the JSON payload alone.
func (s *HMACSigner) SignBody(body string) string {
	return s.digest(body)
}

func (s *HMACSigner) digest(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

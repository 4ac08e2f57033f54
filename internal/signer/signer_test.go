package signer

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"arbflow/models"
)

func hmacHex(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignRequestCanonicalOrder(t *testing.T) {
	s := NewHMACSigner("test-secret")

	body := `{"product_symbol":"BTCUSD","size":1}`
	got := s.SignRequest("POST", "/v2/orders", "", body, 1700000000)
	want := hmacHex("test-secret", "POST1700000000/v2/orders"+body)

	if got != want {
		t.Fatalf("SignRequest = %s, want %s", got, want)
	}
}

func TestSignRequestIncludesQuery(t *testing.T) {
	s := NewHMACSigner("test-secret")

	withQuery := s.SignRequest("GET", "/v2/orders", "?state=open", "", 1700000000)
	withoutQuery := s.SignRequest("GET", "/v2/orders", "", "", 1700000000)

	if withQuery == withoutQuery {
		t.Fatal("query string must contribute to the signature")
	}
	if want := hmacHex("test-secret", "GET1700000000/v2/orders?state=open"); withQuery != want {
		t.Fatalf("SignRequest = %s, want %s", withQuery, want)
	}
}

func TestSignBody(t *testing.T) {
	s := NewHMACSigner("another-secret")

	body := `{"timestamp":1700000000000,"order":{"side":"buy"}}`
	got := s.SignBody(body)
	if want := hmacHex("another-secret", body); got != want {
		t.Fatalf("SignBody = %s, want %s", got, want)
	}
	if len(got) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(got))
	}
}

func TestSignDeterministic(t *testing.T) {
	s := NewHMACSigner("secret")

	first := s.SignRequest("POST", "/v2/orders", "", "{}", 42)
	second := s.SignRequest("POST", "/v2/orders", "", "{}", 42)
	if first != second {
		t.Fatalf("same input produced different signatures: %s vs %s", first, second)
	}

	other := NewHMACSigner("different").SignRequest("POST", "/v2/orders", "", "{}", 42)
	if first == other {
		t.Fatal("different secrets produced the same signature")
	}
}

func TestNewEd25519SignerRejectsBadHex(t *testing.T) {
	_, err := NewEd25519Signer("Binance", "not-hex-at-all")
	if err == nil {
		t.Fatal("expected error for non-hex seed")
	}
	var cfgErr *models.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *models.ConfigurationError", err)
	}
}

func TestNewEd25519SignerRejectsShortSeed(t *testing.T) {
	_, err := NewEd25519Signer("Binance", hex.EncodeToString([]byte("too-short")))
	if err == nil {
		t.Fatal("expected error for short seed")
	}
	var cfgErr *models.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *models.ConfigurationError", err)
	}
}

func TestEd25519SignVerifies(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}

	s, err := NewEd25519Signer("Binance", hex.EncodeToString(seed))
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}

	sigHex, err := s.Sign(1700000000000, "post", "/fapi/v1/order?symbol=BTCUSDT", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		t.Fatalf("signature is not hex: %v", err)
	}
	if len(sig) != ed25519.SignatureSize {
		t.Fatalf("signature length = %d, want %d", len(sig), ed25519.SignatureSize)
	}

	// The method must be uppercased in the signed payload.
	priv := ed25519.NewKeyFromSeed(seed)
	payload := "1700000000000POST/fapi/v1/order?symbol=BTCUSDT"
	if !ed25519.Verify(priv.Public().(ed25519.PublicKey), []byte(payload), sig) {
		t.Fatal("signature does not verify against the canonical payload")
	}
}

func TestEd25519SignDeterministic(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	s, err := NewEd25519Signer("Binance", hex.EncodeToString(seed))
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}

	first, _ := s.Sign(1, "POST", "/fapi/v1/order", "")
	second, _ := s.Sign(1, "POST", "/fapi/v1/order", "")
	if first != second {
		t.Fatal("same input produced different signatures")
	}
}

package signer

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"arbflow/models"
)

// Ed25519Signer signs requests with a key derived from a raw 32-byte seed.
// The seed is supplied hex-encoded; it is expanded into the standard
// private-key encoding before signing.
type Ed25519Signer struct {
	exchange string
	priv     ed25519.PrivateKey
}

// NewEd25519Signer derives the signing key from the hex-encoded seed. A seed
// that does not decode to exactly 32 bytes is a configuration fault; a key
// that cannot be constructed is a signing fault. In both cases the caller
// must treat the exchange as unauthenticated rather than abort.
func NewEd25519Signer(exchange, hexSeed string) (*Ed25519Signer, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(hexSeed))
	if err != nil {
		return nil, &models.ConfigurationError{Exchange: exchange, Reason: fmt.Sprintf("seed is not valid hex: %v", err)}
	}
	if len(seed) != ed25519.SeedSize {
		return nil, &models.ConfigurationError{Exchange: exchange, Reason: fmt.Sprintf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))}
	}

	priv := ed25519.NewKeyFromSeed(seed)
	if len(priv) != ed25519.PrivateKeySize {
		return nil, &models.SigningError{Exchange: exchange, Err: fmt.Errorf("derived key has %d bytes", len(priv))}
	}

	return &Ed25519Signer{exchange: exchange, priv: priv}, nil
}

// Sign produces the hex-encoded 64-byte signature over
// timestamp + uppercased method + path (with query string) + body.
func (s *Ed25519Signer) Sign(timestamp int64, method, pathWithQuery, body string) (string, error) {
	payload := formatTimestamp(timestamp) + strings.ToUpper(method) + pathWithQuery + body
	sig := ed25519.Sign(s.priv, []byte(payload))
	if len(sig) != ed25519.SignatureSize {
		return "", &models.SigningError{Exchange: s.exchange, Err: fmt.Errorf("signature has %d bytes", len(sig))}
	}
	return hex.EncodeToString(sig), nil
}

func formatTimestamp(ts int64) string {
	return strconv.FormatInt(ts, 10)
}

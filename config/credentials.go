package config

import (
	"os"
	"strings"
)

// APICredentials is one exchange's key pair. For Binance the Secret field
// carries the hex-encoded 32-byte Ed25519 seed rather than an HMAC secret.
type APICredentials struct {
	Key    string
	Secret string
}

// Configured reports whether both halves of the pair are present.
func (a APICredentials) Configured() bool {
	return a.Key != "" && a.Secret != ""
}

// Credentials holds the per-exchange API credentials for every venue that
// supports authenticated calls. It is read from the environment once at
// startup and injected into the signer and trader so components never touch
// the process environment themselves.
type Credentials struct {
	Binance APICredentials
	Delta   APICredentials
	Coindcx APICredentials
}

// LoadCredentials reads the per-exchange key pairs from the environment.
// A missing pair disables only that exchange's authenticated paths.
func LoadCredentials() Credentials {
	return Credentials{
		Binance: APICredentials{
			Key:    envValue("BINANCE_API_KEY"),
			Secret: envValue("BINANCE_ED25519_SEED"),
		},
		Delta: APICredentials{
			Key:    envValue("DELTA_API_KEY"),
			Secret: envValue("DELTA_API_SECRET"),
		},
		Coindcx: APICredentials{
			Key:    envValue("COINDCX_API_KEY"),
			Secret: envValue("COINDCX_API_SECRET"),
		},
	}
}

// For returns the credentials for a display exchange name ("Binance",
// "Delta", "CoinDCX"). The second result is false for venues with no
// authenticated support (e.g. Bybit).
func (c Credentials) For(exchange string) (APICredentials, bool) {
	switch strings.ToLower(exchange) {
	case "binance":
		return c.Binance, true
	case "delta":
		return c.Delta, true
	case "coindcx":
		return c.Coindcx, true
	}
	return APICredentials{}, false
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

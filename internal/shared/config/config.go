package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the gateway runtime settings, loaded once from environment
// variables (a .env file is honored when present)
type Config struct {
	ListenAddr string

	// authority connection
	AuthorityMode    string // "http" or "memory"
	AuthorityBaseURL string
	AuthorityTimeout time.Duration

	// admission limiter policy
	BidMaxAttempts int
	BidWindow      time.Duration

	// receipt persistence backend, "memory" or "postgres"
	ReceiptBackend string
}

// Load reads the configuration from the environment, applying defaults for
// anything unset
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":9000"),
		AuthorityMode:    getEnv("AUTHORITY_MODE", "memory"),
		AuthorityBaseURL: getEnv("AUTHORITY_BASE_URL", "http://localhost:9100"),
		AuthorityTimeout: getDuration("AUTHORITY_TIMEOUT", 10*time.Second),
		BidMaxAttempts:   getInt("BID_MAX_ATTEMPTS", 3),
		BidWindow:        getDuration("BID_WINDOW", 60*time.Second),
		ReceiptBackend:   getEnv("RECEIPT_BACKEND", "memory"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

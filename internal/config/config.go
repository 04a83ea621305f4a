package config

import (
	"fmt"
	"os"
	"time"
)

const (
	DefaultQueue          = "hashcrack.outcomes"
	DefaultListen         = ":8080"
	DefaultRequestTimeout = time.Minute
)

// Config is read from HASHCRACK_* environment variables.
type Config struct {
	Environment    string
	LogLevel       string
	AMQPURL        string
	AMQPQueue      string
	Listen         string
	Wordlist       string
	RequestTimeout time.Duration
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads the configuration through lookup, which has the
// signature of os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}

		return def
	}

	cfg := Config{
		Environment:    get("HASHCRACK_ENV", "production"),
		LogLevel:       get("HASHCRACK_LOG_LEVEL", "info"),
		AMQPURL:        get("HASHCRACK_AMQP_URL", ""),
		AMQPQueue:      get("HASHCRACK_AMQP_QUEUE", DefaultQueue),
		Listen:         get("HASHCRACK_LISTEN", DefaultListen),
		Wordlist:       get("HASHCRACK_WORDLIST", ""),
		RequestTimeout: DefaultRequestTimeout,
	}

	if raw := get("HASHCRACK_REQUEST_TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("HASHCRACK_REQUEST_TIMEOUT: %w", err)
		}

		if d <= 0 {
			return Config{}, fmt.Errorf("HASHCRACK_REQUEST_TIMEOUT must be positive, got %s", d)
		}

		cfg.RequestTimeout = d
	}

	return cfg, nil
}

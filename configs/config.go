package configs

import (
	"fmt"
	"os"
	"strings"
)

// Config is built once at startup and passed into constructors; nothing
// reads the environment after LoadConfig returns.
type Config struct {
	AppPort string

	// blob storage
	StorageBackend string // "telegram" or "s3"
	BotTokens      []string
	ChatID         string
	RelayBaseURL   string
	SelectStrategy string // random | round_robin | failover

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	S3Bucket    string

	// document store
	StoreBaseURL   string
	StoreAuthToken string

	// optional backends
	RedisAddr    string
	KafkaBrokers string
	KafkaTopic   string
}

// LoadConfig fails fast when required configuration is absent instead of
// letting the first request crash mid-flight.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppPort:        getEnv("APP_PORT", ":8080"),
		StorageBackend: getEnv("STORAGE_BACKEND", "telegram"),
		BotTokens:      splitNonEmpty(os.Getenv("BOT_TOKENS")),
		ChatID:         os.Getenv("CHAT_ID"),
		RelayBaseURL:   os.Getenv("RELAY_BASE_URL"),
		SelectStrategy: getEnv("RELAY_STRATEGY", "random"),
		S3Endpoint:     getEnv("S3_ENDPOINT", "http://localhost:9000"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3UseSSL:       os.Getenv("S3_USE_SSL") == "true",
		S3Bucket:       getEnv("S3_BUCKET", "media"),
		StoreBaseURL:   os.Getenv("STORE_BASE_URL"),
		StoreAuthToken: os.Getenv("STORE_AUTH_TOKEN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "social.activity"),
	}

	if cfg.StoreBaseURL == "" {
		return nil, fmt.Errorf("STORE_BASE_URL is not configured")
	}
	switch cfg.StorageBackend {
	case "telegram":
		if len(cfg.BotTokens) == 0 {
			return nil, fmt.Errorf("BOT_TOKENS is not configured")
		}
		if cfg.ChatID == "" {
			return nil, fmt.Errorf("CHAT_ID is not configured")
		}
	case "s3":
		if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY/S3_SECRET_KEY are not configured")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) String() string {
	return fmt.Sprintf("AppPort=%s, StorageBackend=%s, Bots=%d, StoreBaseURL=%s, Redis=%t, Kafka=%t",
		c.AppPort, c.StorageBackend, len(c.BotTokens), c.StoreBaseURL, c.RedisAddr != "", c.KafkaBrokers != "")
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Thresholds holds the named signal boundaries, fixed at startup.
type Thresholds struct {
	RSIOverbought    float64
	RSIOversold      float64
	VolumeMultiplier float64
	FundingHigh      float64
	FearGreedGreedy  float64
	FearGreedFearful float64
}

// Weights holds the per-category aggregation weights, fixed at startup.
type Weights struct {
	Trend      float64
	Volume     float64
	RSI        float64
	Funding    float64
	FearGreed  float64
	Volatility float64
}

type Config struct {
	Symbol      string
	Interval    string
	CandleLimit int
	RSIPeriod   int

	PollSecs int
	LockFile string
	HTTPAddr string

	TelegramBotToken string
	TelegramChatID   int64
	RedisURL         string

	Thresholds Thresholds
	Weights    Weights
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		RedisURL:         os.Getenv("REDIS_URL"),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, alerts disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		} else {
			log.Printf("Warning: invalid TELEGRAM_CHAT_ID %q", v)
		}
	}

	cfg.Symbol = strings.TrimSpace(os.Getenv("SCAN_SYMBOL"))
	if cfg.Symbol == "" {
		cfg.Symbol = "BTCUSDT"
	}

	cfg.Interval = strings.TrimSpace(os.Getenv("SCAN_INTERVAL"))
	if cfg.Interval == "" {
		cfg.Interval = "1h"
	}

	cfg.CandleLimit = 100
	if v := os.Getenv("SCAN_CANDLE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CandleLimit = n
		}
	}

	cfg.RSIPeriod = 14
	if v := os.Getenv("SCAN_RSI_PERIOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			cfg.RSIPeriod = n
		}
	}

	cfg.PollSecs = 3600
	if v := os.Getenv("SCAN_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollSecs = n
		}
	}

	cfg.LockFile = strings.TrimSpace(os.Getenv("SCAN_LOCKFILE"))
	if cfg.LockFile == "" {
		cfg.LockFile = "/tmp/btc-pulse.lock"
	}

	cfg.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.Thresholds = Thresholds{
		RSIOverbought:    envFloat("THRESHOLD_RSI_OVERBOUGHT", 70),
		RSIOversold:      envFloat("THRESHOLD_RSI_OVERSOLD", 30),
		VolumeMultiplier: envFloat("THRESHOLD_VOLUME_MULTIPLIER", 1.5),
		FundingHigh:      envFloat("THRESHOLD_FUNDING_HIGH", 0.0005),
		FearGreedGreedy:  envFloat("THRESHOLD_FEAR_GREED_GREEDY", 75),
		FearGreedFearful: envFloat("THRESHOLD_FEAR_GREED_FEARFUL", 25),
	}

	cfg.Weights = Weights{
		Trend:      envFloat("WEIGHT_TREND", 1),
		Volume:     envFloat("WEIGHT_VOLUME", 1),
		RSI:        envFloat("WEIGHT_RSI", 1),
		Funding:    envFloat("WEIGHT_FUNDING", 0.5),
		FearGreed:  envFloat("WEIGHT_FEAR_GREED", 0.5),
		Volatility: envFloat("WEIGHT_VOLATILITY", 0.5),
	}

	return cfg
}

func envFloat(name string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		log.Printf("Warning: invalid %s=%q, using default %v", name, v, fallback)
		return fallback
	}
	return n
}

// Command scanonce runs a single analyze cycle, prints the result, and sends
// one alert when Telegram is configured.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"btc-pulse/internal/bot"
	"btc-pulse/internal/config"
	"btc-pulse/internal/market"
	"btc-pulse/internal/provider"
	"btc-pulse/internal/scoring"
	"btc-pulse/pkg/tracing"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg := config.Load()

	ctx := context.Background()
	tp, tracer, err := tracing.InitTracer(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	binance := provider.NewBinanceProvider(tracer)
	coingecko := provider.NewCoinGeckoProvider(tracer)
	fearGreed := provider.NewFearGreedProvider(tracer)

	chain := market.NewChain(tracer, binance, coingecko, cfg.Symbol, cfg.Interval, cfg.CandleLimit)
	analyzer := scoring.NewAnalyzer(tracer, cfg, chain, binance, fearGreed, coingecko)

	result := analyzer.Analyze(ctx)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("marshal result: %v", err)
	}
	fmt.Println(string(out))

	alerter, err := bot.NewAlerter(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("telegram: %v", err)
		os.Exit(1)
	}
	if err := alerter.SendAlert(result); err != nil {
		log.Printf("alert delivery error: %v", err)
		os.Exit(1)
	}
}

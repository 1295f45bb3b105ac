package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"btc-pulse/internal/bot"
	"btc-pulse/internal/cache"
	"btc-pulse/internal/config"
	"btc-pulse/internal/handler"
	"btc-pulse/internal/job"
	"btc-pulse/internal/lock"
	"btc-pulse/internal/market"
	"btc-pulse/internal/provider"
	"btc-pulse/internal/scoring"
	"btc-pulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	godotenv.Load()

	cfg := config.Load()

	// One scanner instance per host.
	if err := lock.Acquire(cfg.LockFile); err != nil {
		log.Fatalf("lockfile: %v", err)
	}
	defer lock.Release(cfg.LockFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache.InitRedis(ctx, cfg.RedisURL)

	tp, tracer, err := tracing.InitTracer(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Sources: Binance primary, CoinGecko fallback, two auxiliary feeds.
	binance := provider.NewBinanceProvider(tracer)
	coingecko := provider.NewCoinGeckoProvider(tracer)
	fearGreed := provider.NewFearGreedProvider(tracer)

	chain := market.NewChain(tracer, binance, coingecko, cfg.Symbol, cfg.Interval, cfg.CandleLimit)
	analyzer := scoring.NewAnalyzer(tracer, cfg, chain, binance, fearGreed, coingecko)

	// Cache each result long enough to bridge two cycles.
	store := cache.NewResultStore(cache.Client, 2*time.Duration(cfg.PollSecs)*time.Second)

	alerter, err := bot.NewAlerter(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	alerter.StartCommands(analyzer)

	scanJob := job.NewScanJob(tracer, analyzer, alerter, store, cfg.PollSecs)
	go scanJob.Start(ctx)

	h := handler.New(tracer, analyzer, coingecko, store)

	r := gin.Default()
	r.Use(otelgin.Middleware("btc-pulse"))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("Scanner exiting")
}

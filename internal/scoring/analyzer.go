package scoring

import (
	"context"
	"log"
	"math"

	"btc-pulse/internal/config"
	"btc-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// MarketDataSource supplies the candle series (with fallback already handled).
type MarketDataSource interface {
	GetCandles(ctx context.Context) ([]*domain.Candle, error)
}

// FundingSource supplies the latest perpetual funding rate. Optional.
type FundingSource interface {
	FetchFundingRate(ctx context.Context, symbol string) (*domain.FundingRatePoint, error)
}

// SentimentSource supplies the latest Fear & Greed reading. Optional.
type SentimentSource interface {
	FetchLatest(ctx context.Context) (*domain.FearGreedPoint, error)
}

// SpotPriceSource supplies a best-effort spot quote for degraded results.
type SpotPriceSource interface {
	FetchSpotPrice(ctx context.Context) (float64, error)
}

// Analyzer runs one stateless scoring pass: candles in, ScoreResult out.
type Analyzer struct {
	tracer    trace.Tracer
	cfg       *config.Config
	market    MarketDataSource
	funding   FundingSource
	sentiment SentimentSource
	spot      SpotPriceSource
}

func NewAnalyzer(
	tracer trace.Tracer,
	cfg *config.Config,
	market MarketDataSource,
	funding FundingSource,
	sentiment SentimentSource,
	spot SpotPriceSource,
) *Analyzer {
	return &Analyzer{
		tracer:    tracer,
		cfg:       cfg,
		market:    market,
		funding:   funding,
		sentiment: sentiment,
		spot:      spot,
	}
}

// Analyze always returns a structurally valid result: when no market data is
// available from any source it degrades to an all-neutral result instead of
// failing, and any failure inside a single signal is isolated to that signal.
func (a *Analyzer) Analyze(ctx context.Context) *domain.ScoreResult {
	ctx, span := a.tracer.Start(ctx, "analyzer.analyze")
	defer span.End()

	candles, err := a.market.GetCandles(ctx)
	if err != nil {
		log.Printf("no market data from any source, degrading to neutral: %v", err)
		return a.degradedResult(ctx)
	}

	ind := ComputeIndicators(candles, a.cfg.RSIPeriod)
	fundingRate := a.fetchFundingRate(ctx)
	fearGreed := a.fetchFearGreed(ctx)

	th := a.cfg.Thresholds
	signals := domain.SignalMap{
		domain.SignalTrend: orNeutral(domain.SignalTrend, func() float64 {
			return TrendSignal(ind.Price, ind.MAFast, ind.MASlow)
		}),
		domain.SignalVolume: orNeutral(domain.SignalVolume, func() float64 {
			return VolumeSignal(ind.Volume, ind.VolumeAvg, th)
		}),
		domain.SignalRSI: orNeutral(domain.SignalRSI, func() float64 {
			return RSISignal(ind.RSI, th)
		}),
		domain.SignalFunding: orNeutral(domain.SignalFunding, func() float64 {
			return FundingSignal(fundingRate, th)
		}),
		domain.SignalFearGreed: orNeutral(domain.SignalFearGreed, func() float64 {
			return FearGreedSignal(fearGreed, th)
		}),
		domain.SignalVolatility: orNeutral(domain.SignalVolatility, func() float64 {
			return VolatilitySignal(ind.Volatility)
		}),
	}

	score, verdict := Aggregate(signals, a.cfg.Weights)
	price := ind.Price

	return &domain.ScoreResult{
		Price:   &price,
		Score:   score,
		Verdict: verdict,
		Signals: signals,
		AsOf:    candles[len(candles)-1].CloseTime,
	}
}

func (a *Analyzer) fetchFundingRate(ctx context.Context) float64 {
	if a.funding == nil {
		return math.NaN()
	}
	point, err := a.funding.FetchFundingRate(ctx, a.cfg.Symbol)
	if err != nil {
		log.Printf("funding feed unavailable, using neutral: %v", err)
		return math.NaN()
	}
	return point.Rate
}

func (a *Analyzer) fetchFearGreed(ctx context.Context) float64 {
	if a.sentiment == nil {
		return math.NaN()
	}
	point, err := a.sentiment.FetchLatest(ctx)
	if err != nil {
		log.Printf("fear & greed feed unavailable, using neutral: %v", err)
		return math.NaN()
	}
	return float64(point.Value)
}

// degradedResult builds the all-neutral result, with a best-effort spot price
// when one is still obtainable.
func (a *Analyzer) degradedResult(ctx context.Context) *domain.ScoreResult {
	result := &domain.ScoreResult{
		Score:   0.5,
		Verdict: domain.VerdictNeutral,
		Signals: domain.NeutralSignals(),
	}
	if a.spot == nil {
		return result
	}
	price, err := a.spot.FetchSpotPrice(ctx)
	if err != nil {
		log.Printf("spot price unavailable for degraded result: %v", err)
		return result
	}
	result.Price = &price
	return result
}

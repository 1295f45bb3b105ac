package handler

import (
	"context"

	"btc-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Scanner runs one analysis cycle on demand.
type Scanner interface {
	Analyze(ctx context.Context) *domain.ScoreResult
}

// SpotQuoter serves the current spot price.
type SpotQuoter interface {
	FetchSpotPrice(ctx context.Context) (float64, error)
}

// ResultCache serves the latest cached scan result.
type ResultCache interface {
	LatestResult(ctx context.Context) (*domain.ScoreResult, error)
}

type Handler struct {
	tracer  trace.Tracer
	scanner Scanner
	spot    SpotQuoter
	cache   ResultCache
}

func New(tracer trace.Tracer, scanner Scanner, spot SpotQuoter, cache ResultCache) *Handler {
	return &Handler{
		tracer:  tracer,
		scanner: scanner,
		spot:    spot,
		cache:   cache,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/analysis", h.GetAnalysis)
	r.GET("/api/price", h.GetPrice)
}

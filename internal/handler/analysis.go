package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAnalysis serves the latest cached scan result, running a fresh cycle
// when the cache is cold.
func (h *Handler) GetAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-analysis")
	defer span.End()

	if h.cache != nil {
		cached, err := h.cache.LatestResult(ctx)
		if err != nil {
			log.Printf("result cache read error: %v", err)
		}
		if cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	c.JSON(http.StatusOK, h.scanner.Analyze(ctx))
}

// GetPrice serves the current spot quote.
func (h *Handler) GetPrice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-price")
	defer span.End()

	price, err := h.spot.FetchSpotPrice(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": price, "currency": "usd"})
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"btc-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type fakeScanner struct {
	result *domain.ScoreResult
	calls  int
}

func (f *fakeScanner) Analyze(ctx context.Context) *domain.ScoreResult {
	f.calls++
	return f.result
}

type fakeSpot struct {
	price float64
	err   error
}

func (f *fakeSpot) FetchSpotPrice(ctx context.Context) (float64, error) {
	return f.price, f.err
}

type fakeCache struct {
	result *domain.ScoreResult
	err    error
}

func (f *fakeCache) LatestResult(ctx context.Context) (*domain.ScoreResult, error) {
	return f.result, f.err
}

func newTestRouter(scanner Scanner, spot SpotQuoter, cache ResultCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(trace.NewNoopTracerProvider().Tracer("test"), scanner, spot, cache)
	h.RegisterRoutes(r)
	return r
}

func doRequest(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&fakeScanner{}, &fakeSpot{}, nil)

	w := doRequest(r, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestGetAnalysisCached(t *testing.T) {
	cached := &domain.ScoreResult{
		Score:   0.7,
		Verdict: domain.VerdictBuy,
		Signals: domain.NeutralSignals(),
	}
	scanner := &fakeScanner{result: &domain.ScoreResult{Score: 0.3, Verdict: domain.VerdictSell}}
	r := newTestRouter(scanner, &fakeSpot{}, &fakeCache{result: cached})

	w := doRequest(r, "/api/analysis")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if scanner.calls != 0 {
		t.Fatal("expected cached result served without running a cycle")
	}

	var got domain.ScoreResult
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Verdict != domain.VerdictBuy || got.Score != 0.7 {
		t.Fatalf("expected cached result, got %+v", got)
	}
}

func TestGetAnalysisColdCache(t *testing.T) {
	fresh := &domain.ScoreResult{
		Score:   0.5,
		Verdict: domain.VerdictNeutral,
		Signals: domain.NeutralSignals(),
	}
	scanner := &fakeScanner{result: fresh}
	r := newTestRouter(scanner, &fakeSpot{}, &fakeCache{})

	w := doRequest(r, "/api/analysis")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if scanner.calls != 1 {
		t.Fatalf("expected one fresh cycle, got %d", scanner.calls)
	}
}

func TestGetAnalysisCacheErrorFallsThrough(t *testing.T) {
	scanner := &fakeScanner{result: &domain.ScoreResult{Verdict: domain.VerdictNeutral, Signals: domain.NeutralSignals()}}
	r := newTestRouter(scanner, &fakeSpot{}, &fakeCache{err: errors.New("redis down")})

	w := doRequest(r, "/api/analysis")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite cache error, got %d", w.Code)
	}
	if scanner.calls != 1 {
		t.Fatal("expected fresh cycle when cache errors")
	}
}

func TestGetPrice(t *testing.T) {
	r := newTestRouter(&fakeScanner{}, &fakeSpot{price: 97123.45}, nil)

	w := doRequest(r, "/api/price")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["price"] != 97123.45 {
		t.Fatalf("unexpected price: %v", body["price"])
	}
	if body["currency"] != "usd" {
		t.Fatalf("unexpected currency: %v", body["currency"])
	}
}

func TestGetPriceUpstreamError(t *testing.T) {
	r := newTestRouter(&fakeScanner{}, &fakeSpot{err: errors.New("upstream down")}, nil)

	w := doRequest(r, "/api/price")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

package job

import (
	"context"
	"log"
	"time"

	"btc-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Scanner runs one analysis cycle.
type Scanner interface {
	Analyze(ctx context.Context) *domain.ScoreResult
}

// AlertSink consumes one result per cycle for delivery.
type AlertSink interface {
	SendAlert(result *domain.ScoreResult) error
}

// ResultStore caches the latest result for the read paths.
type ResultStore interface {
	StoreResult(ctx context.Context, result *domain.ScoreResult) error
}

// ScanJob runs the analyze pipeline on a timer and hands each result to the
// cache and the alert sink. Cycle errors never stop the loop.
type ScanJob struct {
	tracer   trace.Tracer
	scanner  Scanner
	sink     AlertSink
	store    ResultStore
	interval time.Duration
}

func NewScanJob(tracer trace.Tracer, scanner Scanner, sink AlertSink, store ResultStore, pollSecs int) *ScanJob {
	return &ScanJob{
		tracer:   tracer,
		scanner:  scanner,
		sink:     sink,
		store:    store,
		interval: time.Duration(pollSecs) * time.Second,
	}
}

// Start runs an immediate first cycle, then one per interval. Blocks until
// ctx is cancelled.
func (j *ScanJob) Start(ctx context.Context) {
	log.Printf("Scan job starting, interval %s", j.interval)

	j.runCycle(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scan job stopped")
			return
		case <-ticker.C:
			j.runCycle(ctx)
		}
	}
}

func (j *ScanJob) runCycle(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "job.scan-cycle")
	defer span.End()

	result := j.scanner.Analyze(ctx)
	log.Printf("scan cycle done: score=%.3f verdict=%s", result.Score, result.Verdict)

	if j.store != nil {
		if err := j.store.StoreResult(ctx, result); err != nil {
			log.Printf("result cache write error: %v", err)
		}
	}
	if j.sink != nil {
		if err := j.sink.SendAlert(result); err != nil {
			log.Printf("alert delivery error: %v", err)
		}
	}
}

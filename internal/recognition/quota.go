package recognition

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitpulse/internal/nutrition"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

const monthLayout = "2006-01"

// Usage is the number of recognition calls made in Month (formatted as 2006-01, UTC).
type Usage struct {
	Count int    `json:"count"`
	Month string `json:"month"`
}

type UsageReport struct {
	Count     int    `json:"count"`
	Month     string `json:"month"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// UsageCounter persists the monthly recognition usage.
// Increment is not expected to be atomic with Get; concurrent analyses may overshoot the quota slightly.
type UsageCounter interface {
	Get(ctx context.Context) (Usage, error)
	Increment(ctx context.Context) error
	ResetIfNewMonth(ctx context.Context, now time.Time) error
}

// MonthKey is the quota period of t. Periods roll over at the UTC month boundary.
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// QuotaRecognizer rejects calls once limit recognitions were made in the current month.
// A limit <= 0 disables the check, usage is still counted.
type QuotaRecognizer struct {
	next    Recognizer
	counter UsageCounter
	limit   int
	now     func() time.Time
	metrics *metrics.Manager
}

func NewQuotaRecognizer(next Recognizer, counter UsageCounter, limit int, metricsManager *metrics.Manager) *QuotaRecognizer {
	return &QuotaRecognizer{
		next:    next,
		counter: counter,
		limit:   limit,
		now:     time.Now,
		metrics: metricsManager,
	}
}

// WithClock replaces the time source, used by tests crossing month boundaries.
func (q *QuotaRecognizer) WithClock(now func() time.Time) *QuotaRecognizer {
	q.now = now
	return q
}

func (q *QuotaRecognizer) Recognize(ctx context.Context, image []byte) ([]nutrition.RecognizedFood, error) {
	used := q.currentCount(ctx)
	if q.limit > 0 && used >= q.limit {
		if q.metrics != nil {
			q.metrics.CounterQuotaExceeded.Inc()
		}
		return nil, fmt.Errorf("%w: %d/%d used", ErrQuotaExceeded, used, q.limit)
	}

	foods, err := q.next.Recognize(ctx, image)
	if err != nil {
		return nil, err
	}

	if err := q.counter.Increment(ctx); err != nil {
		log.Errorf("recognition quota: increment usage: %s", err)
	}

	return foods, nil
}

func (q *QuotaRecognizer) Usage(ctx context.Context) (UsageReport, error) {
	month := MonthKey(q.now())
	if err := q.counter.ResetIfNewMonth(ctx, q.now()); err != nil {
		return UsageReport{}, fmt.Errorf("reset usage: %w", err)
	}
	usage, err := q.counter.Get(ctx)
	if err != nil {
		return UsageReport{}, fmt.Errorf("get usage: %w", err)
	}

	report := UsageReport{
		Month: month,
		Limit: q.limit,
	}
	if usage.Month == month {
		report.Count = usage.Count
	}
	if q.limit > 0 {
		report.Remaining = max(0, q.limit-report.Count)
	}

	return report, nil
}

// currentCount fails open: a broken counter store must not block analyses.
func (q *QuotaRecognizer) currentCount(ctx context.Context) int {
	now := q.now()
	if err := q.counter.ResetIfNewMonth(ctx, now); err != nil {
		log.Errorf("recognition quota: reset usage: %s", err)
	}

	usage, err := q.counter.Get(ctx)
	if err != nil {
		log.Errorf("recognition quota: get usage: %s", err)
		return 0
	}
	if usage.Month != MonthKey(now) {
		return 0
	}

	return usage.Count
}

type MemoryUsageCounter struct {
	mu    sync.Mutex
	usage Usage
}

func NewMemoryUsageCounter(initial Usage) *MemoryUsageCounter {
	return &MemoryUsageCounter{usage: initial}
}

func (m *MemoryUsageCounter) Get(_ context.Context) (Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage, nil
}

func (m *MemoryUsageCounter) Increment(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage.Count++
	return nil
}

func (m *MemoryUsageCounter) ResetIfNewMonth(_ context.Context, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if month := MonthKey(now); m.usage.Month != month {
		m.usage = Usage{Month: month}
	}
	return nil
}

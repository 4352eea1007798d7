package recognition

import (
	"context"
	"errors"

	"github.com/2beens/fitpulse/internal/nutrition"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// DegradingRecognizer asks the primary recognizer first and falls back to the
// secondary one only when the primary failed with a transient service error.
type DegradingRecognizer struct {
	primary  Recognizer
	fallback Recognizer
	metrics  *metrics.Manager
}

func NewDegradingRecognizer(primary, fallback Recognizer, metricsManager *metrics.Manager) *DegradingRecognizer {
	return &DegradingRecognizer{
		primary:  primary,
		fallback: fallback,
		metrics:  metricsManager,
	}
}

func (d *DegradingRecognizer) Recognize(ctx context.Context, image []byte) ([]nutrition.RecognizedFood, error) {
	foods, err := d.primary.Recognize(ctx, image)
	if err == nil {
		d.countOutcome("ok")
		return foods, nil
	}

	if !errors.Is(err, ErrTransientService) || ctx.Err() != nil {
		d.countOutcome(outcomeOf(err))
		return nil, err
	}

	log.Warnf("recognition: primary failed, serving stand-in result: %s", err)
	if d.metrics != nil {
		d.metrics.CounterFallbackRecognitions.Inc()
	}
	d.countOutcome("fallback")

	return d.fallback.Recognize(ctx, image)
}

func (d *DegradingRecognizer) countOutcome(outcome string) {
	if d.metrics == nil {
		return
	}
	d.metrics.CounterRecognitions.WithLabelValues(outcome).Inc()
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrServiceMisconfigured):
		return "misconfigured"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

package meals

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/2beens/fitpulse/internal/nutrition"
	"github.com/2beens/fitpulse/internal/recognition"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultPortionGrams = 150
	// MaxWeightGrams bounds a single meal; larger weights are clamped.
	MaxWeightGrams = 5000
)

var (
	ErrNoFoodIdentified = errors.New("no food identified, retake the photo")
	ErrEmptyPhoto       = errors.New("empty photo")
)

// PrepareFunc resizes and re-encodes a photo before it is sent for recognition.
type PrepareFunc func(photo []byte) ([]byte, error)

type Analyzer struct {
	recognizer          recognition.Recognizer
	aggregator          *nutrition.Aggregator
	prepare             PrepareFunc
	defaultPortionGrams float64
	metricsManager      *metrics.Manager
}

func NewAnalyzer(
	recognizer recognition.Recognizer,
	aggregator *nutrition.Aggregator,
	prepare PrepareFunc,
	defaultPortionGrams float64,
	metricsManager *metrics.Manager,
) *Analyzer {
	if prepare == nil {
		prepare = func(photo []byte) ([]byte, error) { return photo, nil }
	}
	if defaultPortionGrams <= 0 {
		defaultPortionGrams = DefaultPortionGrams
	}
	return &Analyzer{
		recognizer:          recognizer,
		aggregator:          aggregator,
		prepare:             prepare,
		defaultPortionGrams: defaultPortionGrams,
		metricsManager:      metricsManager,
	}
}

// Analyze runs prepare -> recognize -> aggregate -> generate for one photo.
// A non-positive or non-finite weight means the default portion is used.
func (a *Analyzer) Analyze(ctx context.Context, photo []byte, weightGrams float64) (_ *AnalysisResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "meals.analyzer.analyze")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(photo) == 0 {
		return nil, ErrEmptyPhoto
	}

	begin := time.Now()
	defer func() {
		if a.metricsManager != nil {
			a.metricsManager.HistAnalysisDuration.Observe(time.Since(begin).Seconds())
		}
	}()

	switch {
	case math.IsNaN(weightGrams), math.IsInf(weightGrams, 0), weightGrams <= 0:
		weightGrams = a.defaultPortionGrams
	case weightGrams > MaxWeightGrams:
		weightGrams = MaxWeightGrams
	}
	span.SetAttributes(attribute.Float64("weight.grams", weightGrams))

	prepared, err := a.prepare(photo)
	if err != nil {
		return nil, fmt.Errorf("prepare photo: %w", err)
	}

	recognized, err := a.recognizer.Recognize(ctx, prepared)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("foods.recognized", len(recognized)))
	if len(recognized) == 0 {
		return nil, ErrNoFoodIdentified
	}

	aggregation := a.aggregator.Aggregate(recognized, weightGrams)
	insights, score := nutrition.Generate(aggregation.Totals, aggregation.Foods)

	log.Debugf("meal analyzed: %d foods, %v kcal, score %d", len(aggregation.Foods), aggregation.Totals.Calories, score.Score)

	return &AnalysisResult{
		Foods:           aggregation.Foods,
		Totals:          aggregation.Totals,
		Insights:        insights,
		NutritionScore:  score,
		Confidence:      meanConfidence(recognized),
		EstimatedWeight: weightGrams,
		photo:           prepared,
	}, nil
}

func meanConfidence(foods []nutrition.RecognizedFood) int {
	if len(foods) == 0 {
		return 0
	}
	sum := 0
	for _, f := range foods {
		sum += f.Confidence
	}
	return int(math.Round(float64(sum) / float64(len(foods))))
}

package recognition

import (
	"context"
	"fmt"
	"testing"

	"github.com/2beens/fitpulse/internal/nutrition"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_CacheSavesQuota(t *testing.T) {
	m := metrics.NewTestManager()
	calls := 0
	primary := RecognizerFunc(func(context.Context, []byte) ([]nutrition.RecognizedFood, error) {
		calls++
		return []nutrition.RecognizedFood{{Name: "banana", Confidence: 93}}, nil
	})

	stack := newStack(primary, StackParams{
		Counter:        NewMemoryUsageCounter(Usage{}),
		MonthlyQuota:   1,
		CacheSizeMB:    1,
		MetricsManager: m,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		foods, err := stack.Recognizer.Recognize(ctx, []byte("same photo"))
		require.NoError(t, err)
		assert.Equal(t, "banana", foods[0].Name)
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterCachedRecognitions))

	_, err := stack.Recognizer.Recognize(ctx, []byte("another photo"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	report, err := stack.Quota.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, 0, report.Remaining)
}

func TestStack_TransientFallsBack(t *testing.T) {
	m := metrics.NewTestManager()
	stack := newStack(
		failingRecognizer(fmt.Errorf("%w: 502", ErrTransientService)),
		StackParams{
			Counter:        NewMemoryUsageCounter(Usage{}),
			MetricsManager: m,
		},
	)

	foods, err := stack.Recognizer.Recognize(context.Background(), []byte("photo"))
	require.NoError(t, err)
	assert.NotEmpty(t, foods)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterFallbackRecognitions))
}

func TestNewStack_MissingKey(t *testing.T) {
	stack := NewStack(StackParams{
		BaseURL: "http://127.0.0.1:1",
		Counter: NewMemoryUsageCounter(Usage{}),
	})
	_, err := stack.Recognizer.Recognize(context.Background(), []byte("photo"))
	assert.ErrorIs(t, err, ErrServiceMisconfigured)
}

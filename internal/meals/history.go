package meals

import (
	"math"
	"sort"
	"time"

	"github.com/2beens/fitpulse/internal/nutrition"
)

type DaySummary struct {
	// Day is YYYY-MM-DD in the user's location.
	Day          string           `json:"day"`
	Totals       nutrition.Totals `json:"totals"`
	MealsCount   int              `json:"mealsCount"`
	AverageScore int              `json:"averageScore"`
}

type HistoryAnalyzer struct {
	loc *time.Location
}

func NewHistoryAnalyzer(loc *time.Location) *HistoryAnalyzer {
	if loc == nil {
		loc = time.UTC
	}
	return &HistoryAnalyzer{loc: loc}
}

// DailySummaries sums meal totals per local day; days are returned newest first.
func (h *HistoryAnalyzer) DailySummaries(meals []Meal) []DaySummary {
	type acc struct {
		summary  DaySummary
		scoreSum int
	}

	byDay := make(map[string]*acc)
	for _, meal := range meals {
		day := meal.CreatedAt.In(h.loc).Format(time.DateOnly)
		a, ok := byDay[day]
		if !ok {
			a = &acc{summary: DaySummary{Day: day}}
			byDay[day] = a
		}
		t := meal.Analysis.Totals
		a.summary.Totals.Calories += t.Calories
		a.summary.Totals.Protein += t.Protein
		a.summary.Totals.Carbs += t.Carbs
		a.summary.Totals.Fat += t.Fat
		a.summary.Totals.Fiber += t.Fiber
		a.summary.MealsCount++
		a.scoreSum += meal.Analysis.NutritionScore.Score
	}

	summaries := make([]DaySummary, 0, len(byDay))
	for _, a := range byDay {
		s := a.summary
		s.Totals.Protein = roundOneDecimal(s.Totals.Protein)
		s.Totals.Carbs = roundOneDecimal(s.Totals.Carbs)
		s.Totals.Fat = roundOneDecimal(s.Totals.Fat)
		s.Totals.Fiber = roundOneDecimal(s.Totals.Fiber)
		s.AverageScore = int(math.Round(float64(a.scoreSum) / float64(s.MealsCount)))
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Day > summaries[j].Day
	})

	return summaries
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

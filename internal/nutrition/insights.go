package nutrition

import "math"

const baseScore = 50

// Generate builds the qualitative insights and the composite score for a meal.
// The insight rules are independent and may fire together; the list is never empty.
func Generate(totals Totals, foods []FoodContribution) ([]Insight, Score) {
	return Insights(totals, foods), ScoreMeal(totals, foods)
}

func Insights(totals Totals, foods []FoodContribution) []Insight {
	var insights []Insight

	switch {
	case totals.Calories > 700:
		insights = append(insights, Insight{
			Type:    InsightWarning,
			Title:   "Very caloric meal",
			Message: "This meal is high in calories, consider a lighter option for your next one.",
		})
	case totals.Calories >= 400:
		insights = append(insights, Insight{
			Type:    InsightSuccess,
			Title:   "Balanced meal",
			Message: "The calorie content is in a good range for a main meal.",
		})
	case totals.Calories < 200:
		insights = append(insights, Insight{
			Type:    InsightInfo,
			Title:   "Light snack",
			Message: "This looks more like a snack than a full meal.",
		})
	}

	if totals.Protein > 30 {
		insights = append(insights, Insight{
			Type:    InsightSuccess,
			Title:   "Excellent protein source",
			Message: "Great for muscle recovery after training.",
		})
	} else if totals.Protein < 10 {
		insights = append(insights, Insight{
			Type:    InsightWarning,
			Title:   "Low in protein",
			Message: "Add eggs, legumes, fish or lean meat to reach your protein goals.",
		})
	}

	if totals.Carbs > 60 {
		insights = append(insights, Insight{
			Type:    InsightInfo,
			Title:   "Carb-rich",
			Message: "Good fuel before a workout, go easier on carbs on rest days.",
		})
	}

	if totals.Fiber > 10 {
		insights = append(insights, Insight{
			Type:    InsightSuccess,
			Title:   "Fiber-rich",
			Message: "High fiber helps digestion and keeps you full longer.",
		})
	} else if totals.Fiber < 3 {
		insights = append(insights, Insight{
			Type:    InsightInfo,
			Title:   "Low in fiber",
			Message: "Vegetables, fruit or whole grains would add some fiber.",
		})
	}

	if countDistinctFoods(foods, CategoryVegetable) >= 2 {
		insights = append(insights, Insight{
			Type:    InsightSuccess,
			Title:   "Vegetable-rich",
			Message: "Nice variety of vegetables on the plate.",
		})
	}

	if len(insights) == 0 {
		insights = append(insights, Insight{
			Type:    InsightInfo,
			Title:   "Balanced meal",
			Message: "Nothing stands out, a fairly balanced meal in general.",
		})
	}

	return insights
}

// ScoreMeal returns a 0-100 score: base 50, bonuses for protein, fiber and variety,
// penalties for very high calories and a high share of calories from fat.
func ScoreMeal(totals Totals, foods []FoodContribution) Score {
	proteinBonus := math.Min(25, totals.Protein/25*25)
	fiberBonus := math.Min(15, totals.Fiber/10*15)
	varietyBonus := math.Min(10, float64(countDistinctCategories(foods))*2.5)

	score := baseScore + proteinBonus + fiberBonus + varietyBonus

	if totals.Calories > 800 {
		score -= math.Min(20, (totals.Calories-800)/50)
	}

	if totals.Calories > 0 {
		fatPct := totals.Fat * 9 / totals.Calories * 100
		if fatPct > 35 {
			score -= math.Min(10, (fatPct-35)/2)
		}
	}

	score = math.Max(0, math.Min(100, score))

	return Score{
		Score: int(roundInt(score)),
		Breakdown: ScoreBreakdown{
			Protein: roundOneDecimal(proteinBonus),
			Fiber:   roundOneDecimal(fiberBonus),
			Variety: roundOneDecimal(varietyBonus),
		},
	}
}

func countDistinctCategories(foods []FoodContribution) int {
	seen := make(map[Category]bool, len(foods))
	for _, f := range foods {
		seen[f.Category] = true
	}
	return len(seen)
}

func countDistinctFoods(foods []FoodContribution, category Category) int {
	seen := make(map[string]bool)
	for _, f := range foods {
		if f.Category == category {
			seen[normalizeName(f.Name)] = true
		}
	}
	return len(seen)
}

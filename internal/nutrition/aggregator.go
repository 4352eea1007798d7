package nutrition

import "math"

// category weight multipliers applied to the estimated portion weight
var portionMultipliers = map[Category]float64{
	CategoryVegetable: 0.8,
	CategoryProtein:   1.2,
	CategoryFat:       0.3,
}

type Aggregation struct {
	Foods  []FoodContribution `json:"foods"`
	Totals Totals             `json:"totals"`
}

type Aggregator struct {
	table *Table
}

func NewAggregator(table *Table) *Aggregator {
	return &Aggregator{
		table: table,
	}
}

func (a *Aggregator) Table() *Table {
	return a.table
}

// Aggregate turns recognized foods into per-food contributions and confidence-weighted totals.
// It is pure: the same input always gives the same output.
func (a *Aggregator) Aggregate(foods []RecognizedFood, estimatedWeightGrams float64) Aggregation {
	if math.IsNaN(estimatedWeightGrams) || estimatedWeightGrams < 0 {
		estimatedWeightGrams = 0
	}

	agg := Aggregation{
		Foods: make([]FoodContribution, 0, len(foods)),
	}

	var calories, protein, carbs, fat, fiber float64
	for _, food := range foods {
		ref := a.table.Lookup(food.Name)
		portion := estimatedWeightGrams * PortionMultiplier(ref.Category)
		factor := portion / 100

		contribution := FoodContribution{
			Name:         food.Name,
			Confidence:   food.Confidence,
			Category:     ref.Category,
			Calories:     roundInt(ref.CaloriesPer100 * factor),
			Protein:      roundOneDecimal(ref.ProteinPer100 * factor),
			Carbs:        roundOneDecimal(ref.CarbsPer100 * factor),
			Fat:          roundOneDecimal(ref.FatPer100 * factor),
			Fiber:        roundOneDecimal(ref.FiberPer100 * factor),
			PortionGrams: portion,
		}
		agg.Foods = append(agg.Foods, contribution)

		weight := float64(food.Confidence) / 100
		calories += contribution.Calories * weight
		protein += contribution.Protein * weight
		carbs += contribution.Carbs * weight
		fat += contribution.Fat * weight
		fiber += contribution.Fiber * weight
	}

	agg.Totals = Totals{
		Calories: roundInt(calories),
		Protein:  roundOneDecimal(protein),
		Carbs:    roundOneDecimal(carbs),
		Fat:      roundOneDecimal(fat),
		Fiber:    roundOneDecimal(fiber),
	}

	return agg
}

func PortionMultiplier(category Category) float64 {
	if m, ok := portionMultipliers[category]; ok {
		return m
	}
	return 1
}

// half-up rounding, values here are never negative
func roundInt(v float64) float64 {
	return math.Floor(v + 0.5)
}

func roundOneDecimal(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

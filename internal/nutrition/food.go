package nutrition

type Category string

const (
	CategoryProtein   Category = "protein"
	CategoryCarbs     Category = "carbs"
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryDairy     Category = "dairy"
	CategoryLegume    Category = "legume"
	CategoryFat       Category = "fat"
	CategoryMixed     Category = "mixed"
)

var knownCategories = map[Category]bool{
	CategoryProtein:   true,
	CategoryCarbs:     true,
	CategoryVegetable: true,
	CategoryFruit:     true,
	CategoryDairy:     true,
	CategoryLegume:    true,
	CategoryFat:       true,
	CategoryMixed:     true,
}

func (c Category) Valid() bool {
	return knownCategories[c]
}

// RecognizedFood is a single label returned by a recognizer, with confidence in [0, 100].
type RecognizedFood struct {
	Name       string `json:"name"`
	Confidence int    `json:"confidence"`
}

// Reference holds per-100g macros for a food key.
type Reference struct {
	Key            string   `json:"key" yaml:"name"`
	Category       Category `json:"category" yaml:"category"`
	CaloriesPer100 float64  `json:"caloriesPer100" yaml:"calories"`
	ProteinPer100  float64  `json:"proteinPer100" yaml:"protein"`
	CarbsPer100    float64  `json:"carbsPer100" yaml:"carbs"`
	FatPer100      float64  `json:"fatPer100" yaml:"fat"`
	FiberPer100    float64  `json:"fiberPer100" yaml:"fiber"`
}

// FoodContribution is what one recognized food adds to a meal, before confidence weighting.
type FoodContribution struct {
	Name         string   `json:"name"`
	Confidence   int      `json:"confidence"`
	Category     Category `json:"category"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Fiber        float64  `json:"fiber"`
	PortionGrams float64  `json:"portionGrams"`
}

type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

type InsightType string

const (
	InsightWarning InsightType = "warning"
	InsightSuccess InsightType = "success"
	InsightInfo    InsightType = "info"
)

type Insight struct {
	Type    InsightType `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

type ScoreBreakdown struct {
	Protein float64 `json:"protein"`
	Fiber   float64 `json:"fiber"`
	Variety float64 `json:"variety"`
}

type Score struct {
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

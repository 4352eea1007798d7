package nutrition

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidTable = errors.New("invalid nutrition table")

// GenericFallback is returned by Lookup for anything the table does not know.
var GenericFallback = Reference{
	Key:            "mixed",
	Category:       CategoryMixed,
	CaloriesPer100: 150,
	ProteinPer100:  8,
	CarbsPer100:    15,
	FatPer100:      6,
	FiberPer100:    2,
}

// Table is an ordered, read-only food reference table.
// Order matters: the substring pass of Lookup returns the first entry that matches.
type Table struct {
	entries []Reference
	byKey   map[string]int
}

func NewTable(entries []Reference) (*Table, error) {
	t := &Table{
		entries: make([]Reference, 0, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		key := normalizeName(e.Key)
		if key == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidTable, i)
		}
		if !e.Category.Valid() {
			return nil, fmt.Errorf("%w: entry [%s] has unknown category [%s]", ErrInvalidTable, key, e.Category)
		}
		if e.CaloriesPer100 < 0 || e.ProteinPer100 < 0 || e.CarbsPer100 < 0 || e.FatPer100 < 0 || e.FiberPer100 < 0 {
			return nil, fmt.Errorf("%w: entry [%s] has negative values", ErrInvalidTable, key)
		}
		if _, ok := t.byKey[key]; ok {
			return nil, fmt.Errorf("%w: duplicate entry [%s]", ErrInvalidTable, key)
		}
		e.Key = key
		t.byKey[key] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// DefaultTable returns the built-in reference table.
func DefaultTable() *Table {
	t, err := NewTable(builtinEntries)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTableYAML reads an ordered YAML list of entries, e.g.:
//
//   - name: chicken
//     category: protein
//     calories: 165
//     protein: 31
//     fat: 3.6
func LoadTableYAML(r io.Reader) (*Table, error) {
	var entries []Reference
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode nutrition table: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidTable)
	}
	return NewTable(entries)
}

// Lookup never fails. It tries an exact key match first, then the first entry (in table order)
// whose key is contained in name or contains name, and finally GenericFallback.
func (t *Table) Lookup(name string) Reference {
	n := normalizeName(name)
	if n == "" {
		return GenericFallback
	}

	if i, ok := t.byKey[n]; ok {
		return t.entries[i]
	}

	for _, e := range t.entries {
		if strings.Contains(n, e.Key) || strings.Contains(e.Key, n) {
			return e
		}
	}

	return GenericFallback
}

func (t *Table) Entries() []Reference {
	out := make([]Reference, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) Len() int {
	return len(t.entries)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var builtinEntries = []Reference{
	// protein
	{Key: "chicken", Category: CategoryProtein, CaloriesPer100: 165, ProteinPer100: 31, CarbsPer100: 0, FatPer100: 3.6, FiberPer100: 0},
	{Key: "turkey", Category: CategoryProtein, CaloriesPer100: 135, ProteinPer100: 30, CarbsPer100: 0, FatPer100: 1, FiberPer100: 0},
	{Key: "beef", Category: CategoryProtein, CaloriesPer100: 250, ProteinPer100: 26, CarbsPer100: 0, FatPer100: 15, FiberPer100: 0},
	{Key: "steak", Category: CategoryProtein, CaloriesPer100: 271, ProteinPer100: 25, CarbsPer100: 0, FatPer100: 19, FiberPer100: 0},
	{Key: "pork", Category: CategoryProtein, CaloriesPer100: 242, ProteinPer100: 27, CarbsPer100: 0, FatPer100: 14, FiberPer100: 0},
	{Key: "salmon", Category: CategoryProtein, CaloriesPer100: 208, ProteinPer100: 20, CarbsPer100: 0, FatPer100: 13, FiberPer100: 0},
	{Key: "tuna", Category: CategoryProtein, CaloriesPer100: 132, ProteinPer100: 28, CarbsPer100: 0, FatPer100: 1.3, FiberPer100: 0},
	{Key: "shrimp", Category: CategoryProtein, CaloriesPer100: 99, ProteinPer100: 24, CarbsPer100: 0.2, FatPer100: 0.3, FiberPer100: 0},
	{Key: "fish", Category: CategoryProtein, CaloriesPer100: 206, ProteinPer100: 22, CarbsPer100: 0, FatPer100: 12, FiberPer100: 0},
	{Key: "eggplant", Category: CategoryVegetable, CaloriesPer100: 25, ProteinPer100: 1, CarbsPer100: 6, FatPer100: 0.2, FiberPer100: 3},
	{Key: "egg", Category: CategoryProtein, CaloriesPer100: 155, ProteinPer100: 13, CarbsPer100: 1.1, FatPer100: 11, FiberPer100: 0},
	{Key: "tofu", Category: CategoryProtein, CaloriesPer100: 76, ProteinPer100: 8, CarbsPer100: 1.9, FatPer100: 4.8, FiberPer100: 0.3},
	// carbs
	{Key: "rice", Category: CategoryCarbs, CaloriesPer100: 130, ProteinPer100: 2.7, CarbsPer100: 28, FatPer100: 0.3, FiberPer100: 0.4},
	{Key: "fried rice", Category: CategoryMixed, CaloriesPer100: 163, ProteinPer100: 3.6, CarbsPer100: 23, FatPer100: 6.2, FiberPer100: 0.9},
	{Key: "pasta", Category: CategoryCarbs, CaloriesPer100: 131, ProteinPer100: 5, CarbsPer100: 25, FatPer100: 1.1, FiberPer100: 1.8},
	{Key: "spaghetti", Category: CategoryCarbs, CaloriesPer100: 158, ProteinPer100: 5.8, CarbsPer100: 31, FatPer100: 0.9, FiberPer100: 1.8},
	{Key: "noodle", Category: CategoryCarbs, CaloriesPer100: 138, ProteinPer100: 4.5, CarbsPer100: 25, FatPer100: 2.1, FiberPer100: 1.2},
	{Key: "bread", Category: CategoryCarbs, CaloriesPer100: 265, ProteinPer100: 9, CarbsPer100: 49, FatPer100: 3.2, FiberPer100: 2.7},
	{Key: "french fries", Category: CategoryCarbs, CaloriesPer100: 312, ProteinPer100: 3.4, CarbsPer100: 41, FatPer100: 15, FiberPer100: 3.8},
	{Key: "potato", Category: CategoryCarbs, CaloriesPer100: 77, ProteinPer100: 2, CarbsPer100: 17, FatPer100: 0.1, FiberPer100: 2.2},
	{Key: "oat", Category: CategoryCarbs, CaloriesPer100: 389, ProteinPer100: 17, CarbsPer100: 66, FatPer100: 7, FiberPer100: 11},
	{Key: "quinoa", Category: CategoryCarbs, CaloriesPer100: 120, ProteinPer100: 4.4, CarbsPer100: 21, FatPer100: 1.9, FiberPer100: 2.8},
	{Key: "corn", Category: CategoryCarbs, CaloriesPer100: 86, ProteinPer100: 3.3, CarbsPer100: 19, FatPer100: 1.4, FiberPer100: 2.7},
	// vegetables
	{Key: "broccoli", Category: CategoryVegetable, CaloriesPer100: 34, ProteinPer100: 2.8, CarbsPer100: 7, FatPer100: 0.4, FiberPer100: 2.6},
	{Key: "carrot", Category: CategoryVegetable, CaloriesPer100: 41, ProteinPer100: 0.9, CarbsPer100: 10, FatPer100: 0.2, FiberPer100: 2.8},
	{Key: "spinach", Category: CategoryVegetable, CaloriesPer100: 23, ProteinPer100: 2.9, CarbsPer100: 3.6, FatPer100: 0.4, FiberPer100: 2.2},
	{Key: "lettuce", Category: CategoryVegetable, CaloriesPer100: 15, ProteinPer100: 1.4, CarbsPer100: 2.9, FatPer100: 0.2, FiberPer100: 1.3},
	{Key: "tomato", Category: CategoryVegetable, CaloriesPer100: 18, ProteinPer100: 0.9, CarbsPer100: 3.9, FatPer100: 0.2, FiberPer100: 1.2},
	{Key: "cucumber", Category: CategoryVegetable, CaloriesPer100: 15, ProteinPer100: 0.7, CarbsPer100: 3.6, FatPer100: 0.1, FiberPer100: 0.5},
	{Key: "pepper", Category: CategoryVegetable, CaloriesPer100: 31, ProteinPer100: 1, CarbsPer100: 6, FatPer100: 0.3, FiberPer100: 2.1},
	{Key: "onion", Category: CategoryVegetable, CaloriesPer100: 40, ProteinPer100: 1.1, CarbsPer100: 9.3, FatPer100: 0.1, FiberPer100: 1.7},
	{Key: "mushroom", Category: CategoryVegetable, CaloriesPer100: 22, ProteinPer100: 3.1, CarbsPer100: 3.3, FatPer100: 0.3, FiberPer100: 1},
	{Key: "salad", Category: CategoryVegetable, CaloriesPer100: 20, ProteinPer100: 1.5, CarbsPer100: 3.5, FatPer100: 0.2, FiberPer100: 1.8},
	{Key: "vegetable", Category: CategoryVegetable, CaloriesPer100: 65, ProteinPer100: 2.5, CarbsPer100: 13, FatPer100: 0.3, FiberPer100: 3.5},
	// fruit
	{Key: "apple", Category: CategoryFruit, CaloriesPer100: 52, ProteinPer100: 0.3, CarbsPer100: 14, FatPer100: 0.2, FiberPer100: 2.4},
	{Key: "banana", Category: CategoryFruit, CaloriesPer100: 89, ProteinPer100: 1.1, CarbsPer100: 23, FatPer100: 0.3, FiberPer100: 2.6},
	{Key: "orange", Category: CategoryFruit, CaloriesPer100: 47, ProteinPer100: 0.9, CarbsPer100: 12, FatPer100: 0.1, FiberPer100: 2.4},
	{Key: "strawberry", Category: CategoryFruit, CaloriesPer100: 32, ProteinPer100: 0.7, CarbsPer100: 7.7, FatPer100: 0.3, FiberPer100: 2},
	{Key: "berry", Category: CategoryFruit, CaloriesPer100: 57, ProteinPer100: 0.7, CarbsPer100: 14, FatPer100: 0.3, FiberPer100: 2.4},
	{Key: "grape", Category: CategoryFruit, CaloriesPer100: 69, ProteinPer100: 0.7, CarbsPer100: 18, FatPer100: 0.2, FiberPer100: 0.9},
	{Key: "fruit", Category: CategoryFruit, CaloriesPer100: 60, ProteinPer100: 0.8, CarbsPer100: 15, FatPer100: 0.2, FiberPer100: 2.2},
	// dairy
	{Key: "milk", Category: CategoryDairy, CaloriesPer100: 42, ProteinPer100: 3.4, CarbsPer100: 5, FatPer100: 1, FiberPer100: 0},
	{Key: "cheese", Category: CategoryDairy, CaloriesPer100: 402, ProteinPer100: 25, CarbsPer100: 1.3, FatPer100: 33, FiberPer100: 0},
	{Key: "yogurt", Category: CategoryDairy, CaloriesPer100: 59, ProteinPer100: 10, CarbsPer100: 3.6, FatPer100: 0.4, FiberPer100: 0},
	// legumes
	{Key: "bean", Category: CategoryLegume, CaloriesPer100: 127, ProteinPer100: 8.7, CarbsPer100: 23, FatPer100: 0.5, FiberPer100: 6.4},
	{Key: "lentil", Category: CategoryLegume, CaloriesPer100: 116, ProteinPer100: 9, CarbsPer100: 20, FatPer100: 0.4, FiberPer100: 7.9},
	{Key: "chickpea", Category: CategoryLegume, CaloriesPer100: 164, ProteinPer100: 8.9, CarbsPer100: 27, FatPer100: 2.6, FiberPer100: 7.6},
	// fat
	{Key: "avocado", Category: CategoryFat, CaloriesPer100: 160, ProteinPer100: 2, CarbsPer100: 8.5, FatPer100: 15, FiberPer100: 6.7},
	{Key: "olive oil", Category: CategoryFat, CaloriesPer100: 884, ProteinPer100: 0, CarbsPer100: 0, FatPer100: 100, FiberPer100: 0},
	{Key: "butter", Category: CategoryFat, CaloriesPer100: 717, ProteinPer100: 0.9, CarbsPer100: 0.1, FatPer100: 81, FiberPer100: 0},
	{Key: "nut", Category: CategoryFat, CaloriesPer100: 607, ProteinPer100: 20, CarbsPer100: 21, FatPer100: 54, FiberPer100: 7},
	// mixed dishes
	{Key: "pizza", Category: CategoryMixed, CaloriesPer100: 266, ProteinPer100: 11, CarbsPer100: 33, FatPer100: 10, FiberPer100: 2.3},
	{Key: "burger", Category: CategoryMixed, CaloriesPer100: 295, ProteinPer100: 17, CarbsPer100: 24, FatPer100: 14, FiberPer100: 1.3},
	{Key: "sandwich", Category: CategoryMixed, CaloriesPer100: 250, ProteinPer100: 11, CarbsPer100: 30, FatPer100: 9, FiberPer100: 2.5},
	{Key: "sushi", Category: CategoryMixed, CaloriesPer100: 143, ProteinPer100: 6, CarbsPer100: 28, FatPer100: 0.6, FiberPer100: 0.5},
	{Key: "soup", Category: CategoryMixed, CaloriesPer100: 50, ProteinPer100: 2.5, CarbsPer100: 6, FatPer100: 1.5, FiberPer100: 1},
}

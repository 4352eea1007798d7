package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitpulse/internal/meals"
	"github.com/2beens/fitpulse/internal/nutrition"
)

// MealsRepo lists stored meals (for dependency injection and testing).
type MealsRepo interface {
	ListAll(ctx context.Context, userID int, from, to *time.Time) ([]meals.Meal, error)
}

// contextService provides nutrition context data to the tool handlers.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListMeals(ctx context.Context, userID int, from, to time.Time) ([]meals.Meal, error)
	GetDailyNutrition(ctx context.Context, userID int, from, to time.Time) ([]meals.DaySummary, error)
	LookupFood(name string) nutrition.Reference
}

type ContextService struct {
	schema SchemaRepo
	meals  MealsRepo
	table  *nutrition.Table
}

func NewContextService(schemaRepo SchemaRepo, mealsRepo MealsRepo, table *nutrition.Table) *ContextService {
	if table == nil {
		table = nutrition.DefaultTable()
	}
	return &ContextService{
		schema: schemaRepo,
		meals:  mealsRepo,
		table:  table,
	}
}

// GetSchema returns the DB schema (table names, columns, types) of the meal and users tables.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetNutritionColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatNutritionSchema(cols), nil
}

func formatNutritionSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# FitPulse Nutrition DB Schema\n\nNo nutrition tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# FitPulse Nutrition DB Schema\n\n")
	b.WriteString("Tables: meal, users (schema: public). meal.analysis holds the full analysis as JSONB.\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := c.Default
			if def == "" {
				def = "-"
			}
			nullable := "NO"
			if c.Nullable {
				nullable = "YES"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, nullable, def)
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) ListMeals(ctx context.Context, userID int, from, to time.Time) ([]meals.Meal, error) {
	return s.meals.ListAll(ctx, userID, &from, &to)
}

// GetDailyNutrition sums the user's meals per day (in from's location) between from and to.
func (s *ContextService) GetDailyNutrition(ctx context.Context, userID int, from, to time.Time) ([]meals.DaySummary, error) {
	list, err := s.meals.ListAll(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}
	return meals.NewHistoryAnalyzer(from.Location()).DailySummaries(list), nil
}

func (s *ContextService) LookupFood(name string) nutrition.Reference {
	return s.table.Lookup(name)
}

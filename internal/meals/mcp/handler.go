package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler parses tool input, calls the service and formats the MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// SchemaInput is the (empty) input for get_nutrition_context.
type SchemaInput struct{}

func (h *Handler) GetNutritionContextTool() func(context.Context, *mcp.CallToolRequest, SchemaInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SchemaInput) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// MealsTimeRangeInput is the input for get_meals_for_time_range and get_daily_nutrition.
type MealsTimeRangeInput struct {
	UserID   int    `json:"user_id" jsonschema:"Id of the user whose meals are read"`
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
	Timezone string `json:"timezone,omitempty" jsonschema:"IANA timezone the dates are in (e.g. Europe/Berlin), UTC when empty"`
}

func (in MealsTimeRangeInput) parse() (from, to time.Time, errText string) {
	if in.UserID <= 0 {
		return from, to, "Invalid user_id"
	}
	loc := time.UTC
	if in.Timezone != "" {
		l, err := time.LoadLocation(in.Timezone)
		if err != nil {
			return from, to, "Invalid timezone: use an IANA name like Europe/Berlin"
		}
		loc = l
	}
	from, err := time.ParseInLocation(time.DateOnly, in.FromDate, loc)
	if err != nil {
		return from, to, "Invalid from_date: use YYYY-MM-DD"
	}
	to, err = time.ParseInLocation(time.DateOnly, in.ToDate, loc)
	if err != nil {
		return from, to, "Invalid to_date: use YYYY-MM-DD"
	}
	if to.Before(from) {
		return from, to, "to_date is before from_date"
	}
	to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, loc)
	return from, to, ""
}

func (h *Handler) GetMealsForTimeRangeTool() func(context.Context, *mcp.CallToolRequest, MealsTimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in MealsTimeRangeInput) (*mcp.CallToolResult, any, error) {
		from, to, errText := in.parse()
		if errText != "" {
			return errorResult(errText), nil, nil
		}
		list, err := h.service.ListMeals(ctx, in.UserID, from, to)
		if err != nil {
			return errorResult("Error listing meals: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

func (h *Handler) GetDailyNutritionTool() func(context.Context, *mcp.CallToolRequest, MealsTimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in MealsTimeRangeInput) (*mcp.CallToolResult, any, error) {
		from, to, errText := in.parse()
		if errText != "" {
			return errorResult(errText), nil, nil
		}
		days, err := h.service.GetDailyNutrition(ctx, in.UserID, from, to)
		if err != nil {
			return errorResult("Error summing daily nutrition: " + err.Error()), nil, nil
		}
		return jsonResult(days), nil, nil
	}
}

// LookupFoodInput is the input for lookup_food.
type LookupFoodInput struct {
	Name string `json:"name" jsonschema:"Food name (e.g. grilled chicken)"`
}

func (h *Handler) LookupFoodTool() func(context.Context, *mcp.CallToolRequest, LookupFoodInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in LookupFoodInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.service.LookupFood(in.Name)), nil, nil
	}
}

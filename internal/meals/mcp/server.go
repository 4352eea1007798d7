package mcp

import (
	"crypto/subtle"
	"net/http"

	"github.com/2beens/fitpulse/internal/meals"
	"github.com/2beens/fitpulse/internal/nutrition"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

const SecretHeader = "X-MCP-Secret"

// NewServer builds an MCP server with nutrition tools: schema, meals, daily nutrition, food lookup.
// Mounted at /mcp by the backend and run over stdio by cmd/nutrition_mcp.
func NewServer(pool *pgxpool.Pool, repo *meals.Repo, table *nutrition.Table) *mcp.Server {
	svc := NewContextService(NewPoolSchemaRepo(pool), repo, table)
	return newServer(NewHandler(svc))
}

func newServer(h *Handler) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitpulse-nutrition",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_nutrition_context",
		Description: "Returns the DB schema of the nutrition tables (meal, users): columns, types, nullable, default. Use when you need to know how meals are stored.",
	}, h.GetNutritionContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_meals_for_time_range",
		Description: "Returns the meals a user logged within a date range, newest first, each with foods, totals, insights and score. Args: user_id, from_date, to_date (YYYY-MM-DD); optional: timezone.",
	}, h.GetMealsForTimeRangeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_daily_nutrition",
		Description: "Returns per-day sums (calories, protein, carbs, fat, fiber, meals count, average score) of a user's meals in a date range. Args: user_id, from_date, to_date (YYYY-MM-DD); optional: timezone.",
	}, h.GetDailyNutritionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "lookup_food",
		Description: "Returns the per-100g nutrition reference (calories, protein, carbs, fat, fiber, category) used for a food name. Unknown foods resolve to a generic mixed-dish entry.",
	}, h.LookupFoodTool())

	return s
}

// NewHTTPHandler serves the MCP server over streamable HTTP, guarded by the X-MCP-Secret header.
// An empty secret disables the endpoint.
func NewHTTPHandler(server *mcp.Server, secret string) http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret == "" {
			http.Error(w, "mcp disabled", http.StatusNotFound)
			return
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(secret)) != 1 {
			log.Warnf("mcp: wrong or missing secret from %s", r.RemoteAddr)
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		streamable.ServeHTTP(w, r)
	})
}

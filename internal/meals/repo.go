package meals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrMealNotFound = errors.New("meal not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, meal Meal) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", meal.UserID))

	analysisJson, err := json.Marshal(meal.Analysis)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}

	totals := meal.Analysis.Totals
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO meal
				(user_id, meal_type, photo_key, calories, protein, carbs, fat, fiber, score, confidence, analysis, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id;`,
		meal.UserID, string(meal.MealType), meal.PhotoKey,
		int(totals.Calories), totals.Protein, totals.Carbs, totals.Fat, totals.Fiber,
		meal.Analysis.NutritionScore.Score, meal.Analysis.Confidence,
		analysisJson, meal.CreatedAt,
	).Scan(&meal.ID)
	if err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}

	span.SetAttributes(attribute.Int("meal.id", meal.ID))

	meal.HasPhoto = meal.PhotoKey != ""
	return &meal, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, meal_type, photo_key, analysis, created_at
			FROM meal
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals, err := r.rows2meals(rows)
	if err != nil {
		return nil, err
	}
	if len(meals) != 1 {
		return nil, ErrMealNotFound
	}

	return &meals[0], nil
}

// Delete removes the meal and returns its photo key, so the photo can be removed as well.
func (r *Repo) Delete(ctx context.Context, userID, id int) (photoKey string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	err = r.db.QueryRow(
		ctx,
		`DELETE FROM meal WHERE id = $1 AND user_id = $2 RETURNING photo_key;`,
		id, userID,
	).Scan(&photoKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrMealNotFound
	}
	if err != nil {
		return "", err
	}
	return photoKey, nil
}

func (r *Repo) Count(ctx context.Context, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM meal WHERE user_id = $1;`,
		userID,
	).Scan(&count); err != nil {
		return -1, fmt.Errorf("count meals: %w", err)
	}
	return count, nil
}

// List returns one page of the user's meals, newest first.
func (r *Repo) List(ctx context.Context, userID, page, size int) (_ []Meal, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))

	if page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	total, err = r.Count(ctx, userID)
	if err != nil {
		return nil, -1, err
	}
	span.SetAttributes(attribute.Int("count_all", total))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, meal_type, photo_key, analysis, created_at
			FROM meal
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
			OFFSET $3;`,
		userID, size, (page-1)*size,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	meals, err := r.rows2meals(rows)
	if err != nil {
		return nil, -1, err
	}
	return meals, total, nil
}

// ListAll returns all the user's meals within [from, to], newest first. Nil bounds are open.
func (r *Repo) ListAll(ctx context.Context, userID int, from, to *time.Time) (_ []Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if from != nil {
		span.SetAttributes(attribute.String("from", from.String()))
	}
	if to != nil {
		span.SetAttributes(attribute.String("to", to.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, meal_type, photo_key, analysis, created_at
			FROM meal
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR created_at >= $2)
				AND ($3::timestamptz IS NULL OR created_at <= $3)
			ORDER BY created_at DESC, id DESC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	meals, err := r.rows2meals(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2meals: %w", err)
	}
	return meals, nil
}

func (r *Repo) rows2meals(rows pgx.Rows) ([]Meal, error) {
	meals := make([]Meal, 0)
	for rows.Next() {
		var (
			meal         Meal
			mealType     string
			analysisJson []byte
		)
		if err := rows.Scan(
			&meal.ID, &meal.UserID, &mealType, &meal.PhotoKey, &analysisJson, &meal.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal(analysisJson, &meal.Analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis of meal %d: %w", meal.ID, err)
		}
		meal.MealType = MealType(mealType)
		meal.HasPhoto = meal.PhotoKey != ""
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return meals, nil
}

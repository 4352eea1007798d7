// Package localstore keeps the mealscan CLI state in a single SQLite file:
// the monthly recognition usage and meals analyzed while offline.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitpulse/internal/meals"
	"github.com/2beens/fitpulse/internal/recognition"

	_ "modernc.org/sqlite"
)

var _ recognition.UsageCounter = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS usage (
    id    INTEGER PRIMARY KEY CHECK (id = 1),
    count INTEGER NOT NULL,
    month TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS meal (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    meal_type  TEXT     NOT NULL,
    analysis   TEXT     NOT NULL,
    created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meal_created_at ON meal (created_at);
`

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single writer keeps sqlite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context) (recognition.Usage, error) {
	var usage recognition.Usage
	err := s.db.QueryRowContext(ctx, `SELECT count, month FROM usage WHERE id = 1;`).Scan(&usage.Count, &usage.Month)
	if errors.Is(err, sql.ErrNoRows) {
		return recognition.Usage{}, nil
	}
	if err != nil {
		return recognition.Usage{}, fmt.Errorf("get usage: %w", err)
	}
	return usage, nil
}

func (s *Store) Increment(ctx context.Context) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO usage (id, count, month) VALUES (1, 1, '')
			ON CONFLICT (id) DO UPDATE SET count = count + 1;`,
	)
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

func (s *Store) ResetIfNewMonth(ctx context.Context, now time.Time) error {
	month := recognition.MonthKey(now)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO usage (id, count, month) VALUES (1, 0, ?)
			ON CONFLICT (id) DO UPDATE SET count = 0, month = excluded.month
			WHERE usage.month <> excluded.month;`,
		month,
	)
	if err != nil {
		return fmt.Errorf("reset usage: %w", err)
	}
	return nil
}

// SaveMeal stores an analyzed meal and returns it with its local id.
func (s *Store) SaveMeal(ctx context.Context, meal meals.Meal) (*meals.Meal, error) {
	analysis, err := json.Marshal(meal.Analysis)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO meal (meal_type, analysis, created_at) VALUES (?, ?, ?);`,
		string(meal.MealType), string(analysis), meal.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	meal.ID = int(id)
	return &meal, nil
}

// ListMeals returns up to limit meals, newest first.
func (s *Store) ListMeals(ctx context.Context, limit int) ([]meals.Meal, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be greater than 0")
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, meal_type, analysis, created_at FROM meal ORDER BY created_at DESC, id DESC LIMIT ?;`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer rows.Close()

	result := make([]meals.Meal, 0)
	for rows.Next() {
		var (
			m        meals.Meal
			mealType string
			analysis string
		)
		if err := rows.Scan(&m.ID, &mealType, &analysis, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal([]byte(analysis), &m.Analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis of meal %d: %w", m.ID, err)
		}
		m.MealType = meals.MealType(mealType)
		result = append(result, m)
	}

	return result, rows.Err()
}

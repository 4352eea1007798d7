package mcp

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaRepo describes the columns of the tables an assistant may reason about.
type SchemaRepo interface {
	GetNutritionColumns(ctx context.Context) ([]SchemaColumn, error)
}

type SchemaColumn struct {
	TableName  string `db:"table_name"`
	ColumnName string `db:"column_name"`
	DataType   string `db:"data_type"`
	Nullable   bool   `db:"nullable"`
	Default    string `db:"column_default"`
}

var (
	nutritionTables = []string{"meal", "users"}
	hiddenColumns   = map[string][]string{
		"users": {"password_hash"},
	}
)

type poolSchemaRepo struct {
	pool *pgxpool.Pool
}

func NewPoolSchemaRepo(pool *pgxpool.Pool) SchemaRepo {
	return &poolSchemaRepo{pool: pool}
}

func (r *poolSchemaRepo) GetNutritionColumns(ctx context.Context) ([]SchemaColumn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT table_name,
		       column_name,
		       data_type,
		       is_nullable = 'YES' AS nullable,
		       COALESCE(column_default, '') AS column_default
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = ANY($1)
		ORDER BY table_name, ordinal_position`,
		nutritionTables,
	)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}

	cols, err := pgx.CollectRows(rows, pgx.RowToStructByName[SchemaColumn])
	if err != nil {
		return nil, fmt.Errorf("collect columns: %w", err)
	}

	return slices.DeleteFunc(cols, func(c SchemaColumn) bool {
		return slices.Contains(hiddenColumns[c.TableName], c.ColumnName)
	}), nil
}

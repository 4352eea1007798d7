package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrVideoNotFound   = errors.New("video not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListPrograms returns all programs, optionally of a single category, without their videos.
func (r *Repo) ListPrograms(ctx context.Context, category string) (_ []Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.listPrograms")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("category", category))

	rows, err := r.db.Query(
		ctx,
		`SELECT
				p.id, p.slug, p.title, p.description, p.level, p.category, p.cover_url, p.created_at,
				COUNT(v.id), COALESCE(SUM(v.duration_seconds), 0)
			FROM program p
			LEFT JOIN video v ON v.program_id = p.id
			WHERE ($1::text = '' OR p.category = $1)
			GROUP BY p.id
			ORDER BY p.id;`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer rows.Close()

	programs := make([]Program, 0)
	for rows.Next() {
		var (
			p     Program
			level string
		)
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Title, &p.Description, &level, &p.Category, &p.CoverURL, &p.CreatedAt,
			&p.VideosCount, &p.DurationSeconds,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		p.Level = Level(level)
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}

// GetProgram returns the program with its videos in playing order.
func (r *Repo) GetProgram(ctx context.Context, slug string) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.getProgram")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("slug", slug))

	var (
		p     Program
		level string
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT id, slug, title, description, level, category, cover_url, created_at
			FROM program WHERE slug = $1;`,
		slug,
	).Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &level, &p.Category, &p.CoverURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}
	p.Level = Level(level)

	rows, err := r.db.Query(
		ctx,
		`SELECT id, program_id, title, video_url, position, duration_seconds
			FROM video WHERE program_id = $1
			ORDER BY position;`,
		p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	p.Videos = make([]Video, 0)
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.ProgramID, &v.Title, &v.VideoURL, &v.Position, &v.DurationSeconds); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		p.Videos = append(p.Videos, v)
		p.DurationSeconds += v.DurationSeconds
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	p.VideosCount = len(p.Videos)

	return &p, nil
}

func (r *Repo) VideoDuration(ctx context.Context, videoID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.videoDuration")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("video.id", videoID))

	var duration int
	err = r.db.QueryRow(ctx, `SELECT duration_seconds FROM video WHERE id = $1;`, videoID).Scan(&duration)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrVideoNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get video duration: %w", err)
	}
	return duration, nil
}

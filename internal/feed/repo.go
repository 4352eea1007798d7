package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddPost(ctx context.Context, post Post) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.feed.addPost")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO post (user_id, content, meal_id, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		post.UserID, post.Content, post.MealID, post.CreatedAt,
	).Scan(&id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("linked meal or user missing: %w", err)
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}

	post.ID = id
	post.Reactions = map[Reaction]int{}
	return &post, nil
}

// DeletePost removes the post if userID wrote it. Its reactions and comments go with it.
func (r *Repo) DeletePost(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.feed.deletePost")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post.id", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			span.RecordError(err)
		}
	}()

	var authorID int
	err = tx.QueryRow(ctx, `SELECT user_id FROM post WHERE id = $1 FOR UPDATE;`, id).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("get post author: %w", err)
	}
	if authorID != userID {
		return ErrNotAuthor
	}

	if _, err := tx.Exec(ctx, `DELETE FROM post WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *Repo) CountPosts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM post;`).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

// ListPosts returns a page of the feed, newest first, with reaction counts and the viewer's own reaction.
func (r *Repo) ListPosts(ctx context.Context, viewerID, page, size int) (_ []Post, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.feed.listPosts")
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

	total, err = r.CountPosts(ctx)
	if err != nil {
		return nil, -1, err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT p.id, p.user_id, p.content, p.meal_id, p.created_at,
				(SELECT COUNT(*) FROM comment c WHERE c.post_id = p.id)
			FROM post p
			ORDER BY p.created_at DESC, p.id DESC
			LIMIT $1
			OFFSET $2;`,
		size, (page-1)*size,
	)
	if err != nil {
		return nil, -1, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]Post, 0, size)
	ids := make([]int, 0, size)
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &p.MealID, &p.CreatedAt, &p.CommentsCount); err != nil {
			return nil, -1, fmt.Errorf("rows scan: %w", err)
		}
		p.Reactions = map[Reaction]int{}
		posts = append(posts, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, -1, err
	}
	if len(posts) == 0 {
		return posts, total, nil
	}

	if err := r.fillReactions(ctx, posts, ids, viewerID); err != nil {
		return nil, -1, err
	}

	return posts, total, nil
}

func (r *Repo) fillReactions(ctx context.Context, posts []Post, ids []int, viewerID int) error {
	rows, err := r.db.Query(
		ctx,
		`SELECT post_id, reaction, COUNT(*), BOOL_OR(user_id = $2)
			FROM post_reaction
			WHERE post_id = ANY($1)
			GROUP BY post_id, reaction;`,
		ids, viewerID,
	)
	if err != nil {
		return fmt.Errorf("query reactions: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]*Post, len(posts))
	for i := range posts {
		byID[posts[i].ID] = &posts[i]
	}

	for rows.Next() {
		var (
			postID   int
			reaction string
			count    int
			mine     bool
		)
		if err := rows.Scan(&postID, &reaction, &count, &mine); err != nil {
			return fmt.Errorf("scan reaction: %w", err)
		}
		p, ok := byID[postID]
		if !ok {
			continue
		}
		p.Reactions[Reaction(reaction)] = count
		if mine {
			p.MyReaction = Reaction(reaction)
		}
	}

	return rows.Err()
}

// SetReaction stores the user's single reaction to the post, ReactionNone removes it.
func (r *Repo) SetReaction(ctx context.Context, userID, postID int, reaction Reaction) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.feed.setReaction")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post.id", postID))
	span.SetAttributes(attribute.String("reaction", string(reaction)))

	if !reaction.Valid() {
		return ErrInvalidReaction
	}

	if reaction == ReactionNone {
		if _, err := r.db.Exec(ctx, `DELETE FROM post_reaction WHERE post_id = $1 AND user_id = $2;`, postID, userID); err != nil {
			return fmt.Errorf("delete reaction: %w", err)
		}
		return nil
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO post_reaction (post_id, user_id, reaction)
			VALUES ($1, $2, $3)
			ON CONFLICT (post_id, user_id) DO UPDATE SET reaction = EXCLUDED.reaction, created_at = NOW();`,
		postID, userID, string(reaction),
	)
	if pkg.IsForeignKeyViolationError(err) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("upsert reaction: %w", err)
	}
	return nil
}

func (r *Repo) AddComment(ctx context.Context, comment Comment) (_ *Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.feed.addComment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post.id", comment.PostID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO comment (post_id, user_id, content, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		comment.PostID, comment.UserID, comment.Content, comment.CreatedAt,
	).Scan(&comment.ID)
	if pkg.IsForeignKeyViolationError(err) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// ListComments returns the post's comments, oldest first.
func (r *Repo) ListComments(ctx context.Context, postID int) (_ []Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.feed.listComments")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post.id", postID))

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM post WHERE id = $1);`, postID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check post: %w", err)
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, post_id, user_id, content, created_at
			FROM comment
			WHERE post_id = $1
			ORDER BY created_at, id;`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

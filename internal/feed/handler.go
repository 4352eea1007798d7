package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitpulse/internal/auth"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=feed_test

const maxPageSize = 50

type feedRepo interface {
	AddPost(ctx context.Context, post Post) (*Post, error)
	DeletePost(ctx context.Context, userID, id int) error
	ListPosts(ctx context.Context, viewerID, page, size int) ([]Post, int, error)
	SetReaction(ctx context.Context, userID, postID int, reaction Reaction) error
	AddComment(ctx context.Context, comment Comment) (*Comment, error)
	ListComments(ctx context.Context, postID int) ([]Comment, error)
}

type displayNamer interface {
	DisplayNames(ctx context.Context, ids []int) (map[int]string, error)
}

type PostsPageResponse struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
}

type CommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type DeletePostResponse struct {
	DeletedID int `json:"deletedId"`
}

type addPostRequest struct {
	Content string `json:"content"`
	MealID  *int   `json:"mealId"`
}

type reactionRequest struct {
	Reaction Reaction `json:"reaction"`
}

type addCommentRequest struct {
	Content string `json:"content"`
}

type Handler struct {
	repo           feedRepo
	names          displayNamer
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewHandler(repo feedRepo, names displayNamer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		names:          names,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/feed", handler.HandleAddPost).Methods("POST", "OPTIONS").Name("add-post")
	router.HandleFunc("/feed/page/{page}/size/{size}", handler.HandleList).Methods("GET").Name("list-posts")
	router.HandleFunc("/feed/{id}", handler.HandleDeletePost).Methods("DELETE", "OPTIONS").Name("delete-post")
	router.HandleFunc("/feed/{id}/reaction", handler.HandleReaction).Methods("PUT", "OPTIONS").Name("react-to-post")
	router.HandleFunc("/feed/{id}/comments", handler.HandleListComments).Methods("GET").Name("list-comments")
	router.HandleFunc("/feed/{id}/comments", handler.HandleAddComment).Methods("POST", "OPTIONS").Name("add-comment")
}

func (handler *Handler) HandleAddPost(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.feed.addPost")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req addPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "invalid post", false, http.StatusBadRequest)
		return
	}
	content, err := validateContent(req.Content, maxPostLength)
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), false, http.StatusBadRequest)
		return
	}

	post, err := handler.repo.AddPost(ctx, Post{
		UserID:    userID,
		Content:   content,
		MealID:    req.MealID,
		CreatedAt: handler.now().UTC(),
	})
	if err != nil {
		log.Errorf("add post of %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to add post", true, http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterFeedPosts.Inc()

	posts := []Post{*post}
	handler.fillAuthorNames(ctx, posts, nil)

	pkg.WriteJSON(w, posts[0], http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.feed.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 1 {
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size < 1 || size > maxPageSize {
		http.Error(w, "invalid size (has to be between 1 and 50)", http.StatusBadRequest)
		return
	}

	posts, total, err := handler.repo.ListPosts(ctx, userID, page, size)
	if err != nil {
		log.Errorf("list posts: %s", err)
		http.Error(w, "failed to get posts", http.StatusInternalServerError)
		return
	}
	handler.fillAuthorNames(ctx, posts, nil)

	pkg.WriteJSON(w, PostsPageResponse{
		Posts: posts,
		Total: total,
	}, http.StatusOK)
}

func (handler *Handler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.feed.deletePost")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	err = handler.repo.DeletePost(ctx, userID, id)
	switch {
	case err == nil:
	case errors.Is(err, ErrPostNotFound):
		pkg.WriteJSONError(w, err.Error(), false, http.StatusNotFound)
		return
	case errors.Is(err, ErrNotAuthor):
		pkg.WriteJSONError(w, err.Error(), false, http.StatusForbidden)
		return
	default:
		log.Errorf("delete post %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to delete post", true, http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, DeletePostResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleReaction(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.feed.reaction")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req reactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "invalid reaction", false, http.StatusBadRequest)
		return
	}
	if !req.Reaction.Valid() {
		pkg.WriteJSONError(w, ErrInvalidReaction.Error(), false, http.StatusBadRequest)
		return
	}

	err = handler.repo.SetReaction(ctx, userID, id, req.Reaction)
	switch {
	case err == nil:
	case errors.Is(err, ErrPostNotFound):
		pkg.WriteJSONError(w, err.Error(), false, http.StatusNotFound)
		return
	default:
		log.Errorf("set reaction on post %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to react", true, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.feed.listComments")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	comments, err := handler.repo.ListComments(ctx, id)
	if errors.Is(err, ErrPostNotFound) {
		pkg.WriteJSONError(w, err.Error(), false, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("list comments of post %d: %s", id, err)
		http.Error(w, "failed to get comments", http.StatusInternalServerError)
		return
	}
	handler.fillAuthorNames(ctx, nil, comments)

	pkg.WriteJSON(w, CommentsResponse{Comments: comments}, http.StatusOK)
}

func (handler *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.feed.addComment")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "invalid comment", false, http.StatusBadRequest)
		return
	}
	content, err := validateContent(req.Content, maxCommentLength)
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), false, http.StatusBadRequest)
		return
	}

	comment, err := handler.repo.AddComment(ctx, Comment{
		PostID:    id,
		UserID:    userID,
		Content:   content,
		CreatedAt: handler.now().UTC(),
	})
	if errors.Is(err, ErrPostNotFound) {
		pkg.WriteJSONError(w, err.Error(), false, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("add comment to post %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to add comment", true, http.StatusInternalServerError)
		return
	}

	comments := []Comment{*comment}
	handler.fillAuthorNames(ctx, nil, comments)

	pkg.WriteJSON(w, comments[0], http.StatusCreated)
}

// fillAuthorNames sets display names in place. A failed lookup only leaves the names empty.
func (handler *Handler) fillAuthorNames(ctx context.Context, posts []Post, comments []Comment) {
	seen := map[int]struct{}{}
	ids := make([]int, 0, len(posts)+len(comments))
	add := func(id int) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, p := range posts {
		add(p.UserID)
	}
	for _, c := range comments {
		add(c.UserID)
	}
	if len(ids) == 0 {
		return
	}

	names, err := handler.names.DisplayNames(ctx, ids)
	if err != nil {
		log.Errorf("get display names: %s", err)
		return
	}

	for i := range posts {
		posts[i].AuthorName = names[posts[i].UserID]
	}
	for i := range comments {
		comments[i].AuthorName = names[comments[i].UserID]
	}
}

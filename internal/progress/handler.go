package progress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitpulse/internal/auth"
	"github.com/2beens/fitpulse/internal/catalog"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=progress_test

const (
	defaultContinueLimit = 5
	maxContinueLimit     = 20
)

type progressTracker interface {
	Get(ctx context.Context, userID int) (*Progress, error)
	Replace(ctx context.Context, userID int, p *Progress) error
	UpdateVideo(ctx context.Context, userID, videoID, positionSeconds int) (*VideoProgress, error)
}

type ProgressResponse struct {
	*Progress
	Level int `json:"level"`
}

func (r ProgressResponse) MarshalJSON() ([]byte, error) {
	var doc map[string]any
	if r.Progress != nil {
		doc = r.Progress.document()
	} else {
		doc = newProgress().document()
	}
	doc["level"] = r.Level
	return json.Marshal(doc)
}

func (r *ProgressResponse) UnmarshalJSON(data []byte) error {
	p := newProgress()
	if err := json.Unmarshal(data, p); err != nil {
		return err
	}
	var level struct {
		Level int `json:"level"`
	}
	if err := json.Unmarshal(data, &level); err != nil {
		return err
	}
	r.Progress, r.Level = p, level.Level
	return nil
}

type UpdateVideoRequest struct {
	PositionSeconds int `json:"positionSeconds"`
}

type ContinueResponse struct {
	Videos []ContinueItem `json:"videos"`
}

type Handler struct {
	tracker progressTracker
}

func NewHandler(tracker progressTracker) *Handler {
	return &Handler{
		tracker: tracker,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/progress", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-progress")
	router.HandleFunc("/progress", handler.HandlePut).Methods("PUT", "OPTIONS").Name("put-progress")
	router.HandleFunc("/progress/videos/{id}", handler.HandleUpdateVideo).Methods("PUT", "OPTIONS").Name("update-video-progress")
	router.HandleFunc("/progress/continue", handler.HandleContinue).Methods("GET", "OPTIONS").Name("continue-watching")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", false, http.StatusUnauthorized)
		return
	}

	p, err := handler.tracker.Get(ctx, userID)
	if err != nil {
		log.Errorf("get progress of %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to get progress", true, http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ProgressResponse{Progress: p, Level: Level(p.XP)}, http.StatusOK)
}

func (handler *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.put")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", false, http.StatusUnauthorized)
		return
	}

	p := newProgress()
	if err := json.NewDecoder(r.Body).Decode(p); err != nil {
		pkg.WriteJSONError(w, "invalid progress", false, http.StatusBadRequest)
		return
	}

	err := handler.tracker.Replace(ctx, userID, p)
	if errors.Is(err, ErrInvalidProgress) {
		pkg.WriteJSONError(w, err.Error(), false, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("replace progress of %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to save progress", true, http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ProgressResponse{Progress: p, Level: Level(p.XP)}, http.StatusOK)
}

func (handler *Handler) HandleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.updateVideo")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", false, http.StatusUnauthorized)
		return
	}

	videoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || videoID <= 0 {
		pkg.WriteJSONError(w, "invalid video id", false, http.StatusBadRequest)
		return
	}

	var req UpdateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "invalid request", false, http.StatusBadRequest)
		return
	}

	vp, err := handler.tracker.UpdateVideo(ctx, userID, videoID, req.PositionSeconds)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidPosition):
		pkg.WriteJSONError(w, err.Error(), false, http.StatusBadRequest)
		return
	case errors.Is(err, catalog.ErrVideoNotFound):
		pkg.WriteJSONError(w, "video not found", false, http.StatusNotFound)
		return
	default:
		log.Errorf("update video %d progress of %d: %s", videoID, userID, err)
		pkg.WriteJSONError(w, "failed to update progress", true, http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, vp, http.StatusOK)
}

func (handler *Handler) HandleContinue(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.continue")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", false, http.StatusUnauthorized)
		return
	}

	limit := defaultContinueLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			pkg.WriteJSONError(w, "invalid limit", false, http.StatusBadRequest)
			return
		}
		limit = min(l, maxContinueLimit)
	}

	p, err := handler.tracker.Get(ctx, userID)
	if err != nil {
		log.Errorf("get progress of %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to get progress", true, http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ContinueResponse{Videos: ContinueWatching(p, limit)}, http.StatusOK)
}

package meals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitpulse/internal/auth"
	"github.com/2beens/fitpulse/internal/nutrition"
	"github.com/2beens/fitpulse/internal/photos"
	"github.com/2beens/fitpulse/internal/recognition"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=meals_test

const (
	maxPhotoUploadBytes = 10 << 20
	defaultHistoryDays  = 7
	maxHistoryDays      = 92
)

type mealsRepo interface {
	Add(ctx context.Context, meal Meal) (*Meal, error)
	Get(ctx context.Context, userID, id int) (*Meal, error)
	Delete(ctx context.Context, userID, id int) (string, error)
	List(ctx context.Context, userID, page, size int) ([]Meal, int, error)
	ListAll(ctx context.Context, userID int, from, to *time.Time) ([]Meal, error)
}

type xpAwarder interface {
	AwardMeal(ctx context.Context, userID int) error
}

type usageReporter interface {
	Usage(ctx context.Context) (recognition.UsageReport, error)
}

type timezoneResolver interface {
	RequestTimezone(ctx context.Context, r *http.Request) (*time.Location, error)
}

type HandlerParams struct {
	Analyzer       *Analyzer
	Repo           mealsRepo
	PhotoStore     photos.Store
	Generations    *GenerationTracker
	Table          *nutrition.Table
	Usage          usageReporter
	Progress       xpAwarder
	Timezones      timezoneResolver
	MetricsManager *metrics.Manager
	Now            func() time.Time
}

type Handler struct {
	analyzer       *Analyzer
	repo           mealsRepo
	photoStore     photos.Store
	generations    *GenerationTracker
	table          *nutrition.Table
	usage          usageReporter
	progress       xpAwarder
	timezones      timezoneResolver
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewHandler(params HandlerParams) *Handler {
	if params.Generations == nil {
		params.Generations = NewGenerationTracker()
	}
	if params.Table == nil {
		params.Table = nutrition.DefaultTable()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Handler{
		analyzer:       params.Analyzer,
		repo:           params.Repo,
		photoStore:     params.PhotoStore,
		generations:    params.Generations,
		table:          params.Table,
		usage:          params.Usage,
		progress:       params.Progress,
		timezones:      params.Timezones,
		metricsManager: params.MetricsManager,
		now:            params.Now,
	}
}

// SetupRoutes registers the /nutrition routes; analyzeMiddleware wraps only the analyze route.
func (handler *Handler) SetupRoutes(router *mux.Router, analyzeMiddleware ...mux.MiddlewareFunc) {
	var analyze http.Handler = http.HandlerFunc(handler.HandleAnalyze)
	for i := len(analyzeMiddleware) - 1; i >= 0; i-- {
		analyze = analyzeMiddleware[i](analyze)
	}
	router.Handle("/analyze", analyze).Methods("POST", "OPTIONS").Name("analyze-meal")

	router.HandleFunc("/meals", handler.HandleAdd).Methods("POST", "OPTIONS").Name("add-meal")
	router.HandleFunc("/meals/page/{page}/size/{size}", handler.HandleList).Methods("GET").Name("list-meals")
	router.HandleFunc("/meals/{id}", handler.HandleGet).Methods("GET").Name("get-meal")
	router.HandleFunc("/meals/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-meal")
	router.HandleFunc("/meals/{id}/photo", handler.HandleGetPhoto).Methods("GET").Name("get-meal-photo")
	router.HandleFunc("/history", handler.HandleHistory).Methods("GET").Name("meals-history")
	router.HandleFunc("/foods/lookup", handler.HandleLookup).Methods("GET").Name("lookup-food")
	router.HandleFunc("/usage", handler.HandleUsage).Methods("GET").Name("recognition-usage")
}

type AnalyzeResponse struct {
	Analysis *AnalysisResult `json:"analysis"`
	Meal     *Meal           `json:"meal,omitempty"`
}

type persistenceErrorResponse struct {
	pkg.ErrorResponse
	Analysis *AnalysisResult `json:"analysis"`
}

type addMealRequest struct {
	Analysis  *AnalysisResult `json:"analysis"`
	MealType  MealType        `json:"mealType"`
	CreatedAt *time.Time      `json:"createdAt"`
}

type MealsListResponse struct {
	Meals []Meal `json:"meals"`
	Total int    `json:"total"`
}

type DeleteMealResponse struct {
	DeletedID int `json:"deletedId"`
}

type HistoryResponse struct {
	From string       `json:"from"`
	To   string       `json:"to"`
	Days []DaySummary `json:"days"`
}

type LookupResponse struct {
	Query     string              `json:"query"`
	Reference nutrition.Reference `json:"reference"`
}

func (handler *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.analyze")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes)
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		log.Errorf("analyze meal, parse multipart form: %s", err)
		pkg.WriteJSONError(w, "photo upload failed", false, http.StatusBadRequest)
		return
	}

	photo, err := readFormFile(r, "photo")
	if err != nil {
		log.Errorf("analyze meal, read photo: %s", err)
		pkg.WriteJSONError(w, "photo missing", false, http.StatusBadRequest)
		return
	}

	var weight float64
	if weightStr := strings.TrimSpace(r.FormValue("weight")); weightStr != "" {
		weight, err = strconv.ParseFloat(weightStr, 64)
		if err != nil || !validWeight(weight) {
			pkg.WriteJSONError(w, "invalid weight", false, http.StatusBadRequest)
			return
		}
	}
	save := r.FormValue("save") == "true" || r.FormValue("save") == "1"

	generation := handler.generations.Begin(userID)
	defer handler.generations.Done(userID, generation)

	result, err := handler.analyzer.Analyze(ctx, photo, weight)
	if err != nil {
		log.Warnf("analyze meal for user %d: %s", userID, err)
		handler.writeError(w, err)
		return
	}

	if !handler.generations.IsCurrent(userID, generation) {
		log.Debugf("analyze meal for user %d: generation %d is stale", userID, generation)
		if handler.metricsManager != nil {
			handler.metricsManager.CounterStaleAnalyses.Inc()
		}
		handler.writeError(w, ErrStaleAnalysis)
		return
	}

	resp := AnalyzeResponse{Analysis: result}
	if save {
		loc := handler.requestLocation(ctx, r)
		createdAt := handler.now().In(loc)
		meal, err := handler.saveMeal(ctx, userID, result, MealTypeAt(createdAt), createdAt)
		if err != nil {
			log.Errorf("save analyzed meal for user %d: %s", userID, err)
			ue := toUserError(err)
			pkg.WriteJSON(w, persistenceErrorResponse{
				ErrorResponse: pkg.ErrorResponse{Error: ue.message, Retryable: ue.retryable},
				Analysis:      result,
			}, ue.status)
			return
		}
		resp.Meal = meal
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.add")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req addMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add meal, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid meal", false, http.StatusBadRequest)
		return
	}
	if req.Analysis == nil || len(req.Analysis.Foods) == 0 {
		pkg.WriteJSONError(w, "meal has no foods", false, http.StatusBadRequest)
		return
	}
	if score := req.Analysis.NutritionScore.Score; score < 0 || score > 100 {
		pkg.WriteJSONError(w, "invalid nutrition score", false, http.StatusBadRequest)
		return
	}
	if req.MealType != "" && !req.MealType.Valid() {
		pkg.WriteJSONError(w, "invalid meal type", false, http.StatusBadRequest)
		return
	}

	createdAt := handler.now().In(handler.requestLocation(ctx, r))
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}
	mealType := req.MealType
	if mealType == "" {
		mealType = MealTypeAt(createdAt)
	}

	meal, err := handler.saveMeal(ctx, userID, req.Analysis, mealType, createdAt)
	if err != nil {
		log.Errorf("add meal for user %d: %s", userID, err)
		handler.writeError(w, err)
		return
	}

	pkg.WriteJSON(w, meal, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.get")
	defer span.End()

	userID, id, ok := userAndMealID(w, r)
	if !ok {
		return
	}

	meal, err := handler.repo.Get(ctx, userID, id)
	if errors.Is(err, ErrMealNotFound) {
		http.Error(w, "meal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get meal %d: %s", id, err)
		http.Error(w, "failed to get meal", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, meal, http.StatusOK)
}

func (handler *Handler) HandleGetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.photo")
	defer span.End()

	userID, id, ok := userAndMealID(w, r)
	if !ok {
		return
	}

	meal, err := handler.repo.Get(ctx, userID, id)
	if errors.Is(err, ErrMealNotFound) {
		http.Error(w, "meal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get meal %d: %s", id, err)
		http.Error(w, "failed to get meal", http.StatusInternalServerError)
		return
	}
	if meal.PhotoKey == "" || !photos.OwnedBy(meal.PhotoKey, userID) {
		http.Error(w, "photo not found", http.StatusNotFound)
		return
	}

	data, err := handler.photoStore.Get(ctx, meal.PhotoKey)
	if errors.Is(err, photos.ErrNotFound) {
		http.Error(w, "photo not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get photo of meal %d: %s", id, err)
		http.Error(w, "failed to get photo", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=86400")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JPEG, data)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.delete")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, id, ok := userAndMealID(w, r)
	if !ok {
		return
	}

	photoKey, err := handler.repo.Delete(ctx, userID, id)
	if errors.Is(err, ErrMealNotFound) {
		http.Error(w, "meal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to delete meal %d: %s", id, err)
		http.Error(w, "meal not deleted", http.StatusInternalServerError)
		return
	}

	if photoKey != "" && handler.photoStore != nil {
		if err := handler.photoStore.Delete(ctx, photoKey); err != nil {
			log.Errorf("meal %d deleted, but its photo [%s] was not: %s", id, photoKey, err)
		}
	}

	pkg.WriteJSON(w, DeleteMealResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Errorf("handle get meals page, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Errorf("handle get meals page, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}
	if page < 1 {
		http.Error(w, "invalid page size (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 || size > 100 {
		http.Error(w, "invalid size (has to be between 1 and 100)", http.StatusBadRequest)
		return
	}

	meals, total, err := handler.repo.List(ctx, userID, page, size)
	if err != nil {
		log.Errorf("list meals error: %s", err)
		http.Error(w, "failed to get meals", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, MealsListResponse{
		Meals: meals,
		Total: total,
	}, http.StatusOK)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.history")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loc := handler.requestLocation(ctx, r)
	from, to, err := historyRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"), handler.now().In(loc))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// to is inclusive, up to the end of that day
	toEnd := to.AddDate(0, 0, 1).Add(-time.Microsecond)
	meals, err := handler.repo.ListAll(ctx, userID, &from, &toEnd)
	if err != nil {
		log.Errorf("meals history for user %d: %s", userID, err)
		http.Error(w, "failed to get meals history", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, HistoryResponse{
		From: from.Format(time.DateOnly),
		To:   to.Format(time.DateOnly),
		Days: NewHistoryAnalyzer(loc).DailySummaries(meals),
	}, http.StatusOK)
}

func (handler *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.lookup")
	defer span.End()

	name := r.URL.Query().Get("name")
	pkg.WriteJSON(w, LookupResponse{
		Query:     name,
		Reference: handler.table.Lookup(name),
	}, http.StatusOK)
}

func (handler *Handler) HandleUsage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.usage")
	defer span.End()

	if handler.usage == nil {
		http.Error(w, "usage not tracked", http.StatusNotFound)
		return
	}

	report, err := handler.usage.Usage(ctx)
	if err != nil {
		log.Errorf("get recognition usage: %s", err)
		http.Error(w, "failed to get usage", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, report, http.StatusOK)
}

// saveMeal stores the photo (if any) and the meal. A photo that fails to store is dropped,
// a meal that fails to store is reported as ErrPersistence.
func (handler *Handler) saveMeal(
	ctx context.Context,
	userID int,
	result *AnalysisResult,
	mealType MealType,
	createdAt time.Time,
) (*Meal, error) {
	var photoKey string
	if photo := result.Photo(); len(photo) > 0 && handler.photoStore != nil {
		photoKey = photos.NewMealPhotoKey(userID)
		if err := handler.photoStore.Put(ctx, photoKey, pkg.ContentType.JPEG, photo); err != nil {
			log.Errorf("store meal photo for user %d: %s", userID, err)
			photoKey = ""
		}
	}

	meal, err := handler.repo.Add(ctx, Meal{
		UserID:    userID,
		MealType:  mealType,
		PhotoKey:  photoKey,
		Analysis:  *result,
		CreatedAt: createdAt,
	})
	if err != nil {
		if photoKey != "" {
			if delErr := handler.photoStore.Delete(ctx, photoKey); delErr != nil {
				log.Errorf("remove orphan meal photo [%s]: %s", photoKey, delErr)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterMealsLogged.Inc()
	}
	if handler.progress != nil {
		if err := handler.progress.AwardMeal(ctx, userID); err != nil {
			log.Errorf("award meal xp to user %d: %s", userID, err)
		}
	}

	log.Debugf("meal %d saved for user %d", meal.ID, userID)
	return meal, nil
}

// requestLocation resolves the caller's timezone: X-Timezone header, then geo ip, then UTC.
func (handler *Handler) requestLocation(ctx context.Context, r *http.Request) *time.Location {
	if tz := strings.TrimSpace(r.Header.Get("X-Timezone")); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
		log.Debugf("invalid X-Timezone header [%s]", tz)
	}
	if handler.timezones != nil {
		loc, err := handler.timezones.RequestTimezone(ctx, r)
		if err == nil {
			return loc
		}
		log.Debugf("request timezone: %s", err)
	}
	return time.UTC
}

func (handler *Handler) writeError(w http.ResponseWriter, err error) {
	ue := toUserError(err)
	pkg.WriteJSONError(w, ue.message, ue.retryable, ue.status)
}

func userAndMealID(w http.ResponseWriter, r *http.Request) (userID, id int, ok bool) {
	userID, ok = auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return 0, 0, false
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, id, true
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// historyRange parses from/to days (YYYY-MM-DD) in now's location. Missing values default to
// the last defaultHistoryDays days.
func historyRange(fromStr, toStr string, now time.Time) (from, to time.Time, err error) {
	loc := now.Location()
	to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if toStr != "" {
		to, err = time.ParseInLocation(time.DateOnly, toStr, loc)
		if err != nil {
			return from, to, fmt.Errorf("invalid <to> param: %s", toStr)
		}
	}
	from = to.AddDate(0, 0, -(defaultHistoryDays - 1))
	if fromStr != "" {
		from, err = time.ParseInLocation(time.DateOnly, fromStr, loc)
		if err != nil {
			return from, to, fmt.Errorf("invalid <from> param: %s", fromStr)
		}
	}
	if from.After(to) {
		return from, to, fmt.Errorf("<from> is after <to>")
	}
	if to.Sub(from) > maxHistoryDays*24*time.Hour {
		return from, to, fmt.Errorf("range longer than %d days", maxHistoryDays)
	}
	return from, to, nil
}

// validWeight accepts 0 (use the default portion) up to MaxWeightGrams.
func validWeight(grams float64) bool {
	return !math.IsNaN(grams) && !math.IsInf(grams, 0) && grams >= 0 && grams <= MaxWeightGrams
}

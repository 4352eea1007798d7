package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=catalog_test

type programsRepo interface {
	ListPrograms(ctx context.Context, category string) ([]Program, error)
	GetProgram(ctx context.Context, slug string) (*Program, error)
}

type ProgramsListResponse struct {
	Programs []Program `json:"programs"`
}

type Handler struct {
	repo programsRepo
}

func NewHandler(repo programsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/programs", handler.HandleList).Methods("GET").Name("list-programs")
	router.HandleFunc("/programs/{slug}", handler.HandleGet).Methods("GET").Name("get-program")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	programs, err := handler.repo.ListPrograms(ctx, r.URL.Query().Get("category"))
	if err != nil {
		log.Errorf("list programs: %s", err)
		http.Error(w, "failed to get programs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	pkg.WriteJSON(w, ProgramsListResponse{Programs: programs}, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.get")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	program, err := handler.repo.GetProgram(ctx, slug)
	if errors.Is(err, ErrProgramNotFound) {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get program [%s]: %s", slug, err)
		http.Error(w, "failed to get program", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	pkg.WriteJSON(w, program, http.StatusOK)
}

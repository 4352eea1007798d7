package misc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type timezoneResolver interface {
	RequestTimezone(ctx context.Context, r *http.Request) (*time.Location, error)
}

type Handler struct {
	timezones   timezoneResolver
	versionInfo string
	now         func() time.Time
}

func NewHandler(timezones timezoneResolver, versionInfo string) *Handler {
	return &Handler{
		timezones:   timezones,
		versionInfo: versionInfo,
		now:         time.Now,
	}
}

type TimezoneResponse struct {
	Timezone  string `json:"timezone"`
	LocalTime string `json:"localTime"`
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/myip", handler.handleGetMyIp).Methods("GET").Name("myip")
	mainRouter.HandleFunc("/timezone", handler.handleTimezone).Methods("GET").Name("timezone")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

// handleTimezone tells the client which timezone its meals will be labeled in when it sends no X-Timezone.
func (handler *Handler) handleTimezone(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.timezone")
	defer span.End()

	loc, err := handler.timezones.RequestTimezone(ctx, r)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("get request timezone: %s", err))
		log.Errorf("error getting request timezone: %s", err)
		http.Error(w, "geo ip info error", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.timezone", loc.String()))
	pkg.WriteJSON(w, TimezoneResponse{
		Timezone:  loc.String(),
		LocalTime: handler.now().In(loc).Format(time.RFC3339),
	}, http.StatusOK)
}

func (handler *Handler) handleGetMyIp(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.getMyIp")
	defer span.End()

	ip, err := pkg.ReadUserIP(r)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("failed to get user IP address: %s", err))
		log.Errorf("failed to get user IP address: %s", err)
		http.Error(w, "failed to get IP", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.ip", ip))
	pkg.WriteTextResponseOK(w, ip)
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

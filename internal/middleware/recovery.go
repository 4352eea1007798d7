package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/fitpulse/internal/telemetry/metrics"
	"github.com/2beens/fitpulse/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicRecovery turns a panicking handler into a 500 JSON error. If the handler
// already started the response, only the panic is recorded.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			resp := wrapResponseWriter(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				span := trace.SpanFromContext(req.Context())
				span.SetStatus(codes.Error, fmt.Sprintf("panic: %v", rec))

				log.WithFields(log.Fields{
					"method": req.Method,
					"path":   req.URL.Path,
					"stack":  string(debug.Stack()),
				}).Errorf("panic serving request: %v", rec)

				if !resp.wroteHeader {
					pkg.WriteJSONError(resp, "internal server error", true, http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(resp, req)
		})
	}
}

package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogRequest logs every finished request. Server errors go out at warn level,
// everything else at trace so production logs stay quiet.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			resp := wrapResponseWriter(w)
			next.ServeHTTP(resp, r)

			fields := log.Fields{
				"method": r.Method,
				"route":  routeName(r),
				"status": resp.statusCode,
				"bytes":  resp.written,
				"took":   time.Since(start).Round(time.Microsecond).String(),
			}
			if ua := r.Header.Get("User-Agent"); ua != "" {
				fields["ua"] = ua
			}

			entry := log.WithFields(fields)
			if resp.statusCode >= http.StatusInternalServerError {
				entry.Warnf("%s %s failed", r.Method, r.URL.Path)
				return
			}
			entry.Tracef("%s %s", r.Method, r.URL.Path)
		})
	}
}

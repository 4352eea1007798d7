package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var defaultAllowedOrigins = []string{
	"https://fitpulse.app",
	"https://www.fitpulse.app",
	"http://localhost:5173",
	"test",
}

const (
	corsAllowedHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Timezone, X-MCP-Secret, MCP-Protocol-Version, MCP-Session-Id"
	corsAllowedMethods = "POST, GET, OPTIONS, PUT, PATCH, DELETE"
)

// trusted clients that do not send an Origin
var corsAllowedAgentPrefixes = []string{"curl/", "test-agent", "mealscan/"}

type corsPolicy struct {
	origins map[string]bool
}

func (p corsPolicy) allows(r *http.Request) bool {
	if p.origins[r.Header.Get("Origin")] {
		return true
	}

	userAgent := r.Header.Get("User-Agent")
	for _, prefix := range corsAllowedAgentPrefixes {
		if strings.HasPrefix(userAgent, prefix) {
			return true
		}
	}

	path := r.URL.Path
	// meal photos are embedded by the feed, MCP clients often send no Origin
	isMealPhoto := strings.HasPrefix(path, "/nutrition/meals/") && strings.HasSuffix(path, "/photo")
	return isMealPhoto || strings.HasPrefix(path, "/mcp")
}

func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultAllowedOrigins
	}
	policy := corsPolicy{origins: make(map[string]bool, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		policy.origins[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !policy.allows(r) {
				log.Warnf("CORS: origin [%s] not allowed for path [%s]", origin, r.URL.Path)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			h := w.Header()
			if origin == "" {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowedMethods)

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fitpulse/internal/auth"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=auth.go -destination=auth_mocks_test.go -package=middleware_test

type loginChecker interface {
	UserID(ctx context.Context, token string) (int, error)
}

type AuthMiddlewareHandler struct {
	loginChecker         loginChecker
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(loginChecker loginChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		allowedPaths: map[string]bool{
			"/":         true,
			"/version":  true,
			"/myip":     true,
			"/timezone": true,

			// login-logout:
			"/a/register": true,
			"/a/login":    true,
			"/a/logout":   true,

			// workout catalog is browsable without an account
			"/programs": true,

			"/nutrition/foods/lookup": true,

			// checks its own secret header
			"/mcp": true,
		},
		allowedPathsPrefixes: []string{
			"/programs/",
			"/mcp/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			deny := func(reason string, err error) {
				if err != nil {
					log.Errorf("auth check %s: %s", r.URL.Path, err)
					span.RecordError(err)
				} else {
					log.Tracef("auth check %s: %s", r.URL.Path, reason)
				}
				span.SetStatus(codes.Error, reason)
				http.Error(w, "no can do", http.StatusUnauthorized)
			}

			switch {
			case r.Method == http.MethodOptions:
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				return
			case h.pathIsAlwaysAllowed(r.URL.Path):
				next.ServeHTTP(w, r)
				return
			}

			authToken := auth.BearerToken(r)
			if authToken == "" {
				deny("missing-auth-token", nil)
				return
			}

			userID, err := h.loginChecker.UserID(ctx, authToken)
			switch {
			case errors.Is(err, auth.ErrNotLogged):
				deny("not-logged", nil)
				return
			case err != nil:
				deny("check-logged-err", err)
				return
			}

			span.SetAttributes(attribute.Int("user.id", userID))
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

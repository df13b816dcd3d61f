package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vgtennis/court-scheduler/internal/coins"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey   contextKey = "dryRun"
	usernameKey contextKey = "username"
)

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run',
// and resolves the caller identity from the Authorization header.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			// This defer will reset the log level after the handler finishes.
			defer log.SetLevel(originalLevel)
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)
		ctx = context.WithValue(ctx, usernameKey, bearerUsername(r))

		// Call the next handler with the modified context.
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerUsername extracts the caller identity from a bearer token. The club
// runs on trust: the token is the username, not a secret.
func bearerUsername(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// usernameFromContext retrieves the caller identity resolved by paramsMiddleware.
func usernameFromContext(r *http.Request) string {
	username, _ := r.Context().Value(usernameKey).(string)
	return username
}

// coinGate charges the club pool for a priced feature before running the
// handler. The admin user passes through with a journal entry only. A short
// pool rejects the request with 402 so the caller can top up.
func (s *Server) coinGate(feature string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := usernameFromContext(r)
			if username == "" {
				username = "club_member"
			}

			if _, err := s.Coins.Debit(username, feature, ""); err != nil {
				if errors.Is(err, coins.ErrInsufficientCoins) {
					log.Warn("Club pool cannot cover feature", "feature", feature, "user", username)
					respondJSON(w, http.StatusPaymentRequired, map[string]any{
						"error":   "insufficient club coins",
						"feature": feature,
					})
					return
				}
				log.Error("Failed to charge coins", "feature", feature, "error", err)
				http.Error(w, "Failed to charge coins", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// adminOnly restricts a handler to the configured admin user.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Coins.IsAdmin(bearerUsername(r)) {
			http.Error(w, "Access denied. Restricted to authorized administrators only.", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

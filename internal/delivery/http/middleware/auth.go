package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "meetupfinder/internal/delivery/http/helpers"
	"meetupfinder/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	userKey   contextKey = "user"
)

// SetUserID returns a context with the user ID set. Used by auth middleware.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// SetUser returns a context carrying the resolved user.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the resolved user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok && u != nil
}

// bearerToken extracts the token from the Authorization header. problem is
// non-empty when a header is present but malformed.
func bearerToken(r *http.Request) (token, problem string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", "invalid authorization format"
	}
	token = strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the user ID in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, problem := bearerToken(r)
			if problem != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, problem)
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetUserID(r.Context(), userID))
			next(w, r)
		}
	}
}

// OptionalAuth sets the user ID when a valid Bearer token is present and
// otherwise serves the request anonymously.
func OptionalAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, problem := bearerToken(r)
			if problem == "" {
				if userID, err := verifier.Verify(token); err == nil {
					r = r.WithContext(SetUserID(r.Context(), userID))
				} else {
					logger.DebugContext(r.Context(), "ignoring invalid token", "err", err)
				}
			}
			next(w, r)
		}
	}
}

// UserLookup resolves a user by ID.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// LoadUser resolves the user ID set by RequireAuth or OptionalAuth into a
// *domain.User. A token whose user no longer exists is rejected with 401.
func LoadUser(users UserLookup, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				next(w, r)
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unknown user")
					return
				}
				logger.ErrorContext(r.Context(), "load user failed", "user_id", userID, "err", err)
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "could not load user")
				return
			}
			r = r.WithContext(SetUser(r.Context(), user))
			next(w, r)
		}
	}
}

package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"taskmanager/auth"
)

type contextKey string

const (
	userKey     contextKey = "userID"
	usernameKey contextKey = "username"
)

// TokenValidator validates access tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token. Browsers are
// redirected to loginURL; API clients receive a 401.
func RequireAuth(validator TokenValidator, loginURL string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				unauthenticated(w, r, loginURL, "Missing token")
				return
			}

			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			claims, err := validator.ValidateAccessToken(tokenStr)
			if err != nil {
				unauthenticated(w, r, loginURL, "Invalid or expired token")
				return
			}
			userID, err := claims.UUID()
			if err != nil {
				unauthenticated(w, r, loginURL, "User ID not found in token")
				return
			}

			// Pass userID via context
			ctx := context.WithValue(r.Context(), userKey, userID)
			ctx = context.WithValue(ctx, usernameKey, claims.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthenticated(w http.ResponseWriter, r *http.Request, loginURL, message string) {
	if loginURL != "" && wantsHTML(r) {
		if target, err := loginRedirect(loginURL, r.URL.RequestURI()); err == nil {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
	}

	w.Header().Set("WWW-Authenticate", `Bearer realm="taskmanager"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "authentication_required",
		"message": message,
	})
}

// loginRedirect adds next to loginURL, keeping any query it already carries.
func loginRedirect(loginURL, next string) (string, error) {
	u, err := url.Parse(loginURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("next", next)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// UserID returns the authenticated user set by RequireAuth.
func UserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(userKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

func Username(r *http.Request) string {
	if name, ok := r.Context().Value(usernameKey).(string); ok {
		return name
	}
	return ""
}

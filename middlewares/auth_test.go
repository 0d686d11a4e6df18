package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/auth"
)

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret:     "middleware-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	userID := uuid.New()
	pair, err := tokens.Issue(userID, "alice")
	require.NoError(t, err)

	newRouter := func() *mux.Router {
		r := mux.NewRouter()
		r.Use(RequireAuth(tokens, "/login"))
		r.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
			id, ok := UserID(r)
			if !ok {
				t.Error("expected user id in context")
			}
			w.Write([]byte(id.String() + " " + Username(r)))
		})
		return r
	}

	tests := []struct {
		name           string
		authHeader     string
		accept         string
		expectedStatus int
		expectedBody   string
		expectedLoc    string
	}{
		{
			name:           "missing authorization header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"authentication_required"`,
		},
		{
			name:           "basic scheme",
			authHeader:     "Basic abc",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Missing token",
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid or expired token",
		},
		{
			name:           "refresh token used as access token",
			authHeader:     "Bearer " + pair.RefreshToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid or expired token",
		},
		{
			name:           "browser is redirected to login",
			accept:         "text/html,application/xhtml+xml",
			expectedStatus: http.StatusSeeOther,
			expectedLoc:    "/login?next=%2Ftasks",
		},
		{
			name:           "valid token",
			authHeader:     "Bearer " + pair.AccessToken,
			expectedStatus: http.StatusOK,
			expectedBody:   userID.String() + " alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()

			newRouter().ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
			if tt.expectedLoc != "" {
				assert.Equal(t, tt.expectedLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func TestUserIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserID(req)
	assert.False(t, ok)
	assert.Empty(t, Username(req))
}

func TestRequireAuthRedirectKeepsLoginQuery(t *testing.T) {
	tokens := auth.NewTokenManager(auth.TokenConfig{Secret: "middleware-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour})

	tests := []struct {
		name     string
		loginURL string
		request  string
		expected string
	}{
		{name: "plain login path", loginURL: "/login", request: "/tasks?page=2", expected: "/login?next=%2Ftasks%3Fpage%3D2"},
		{name: "login path with query", loginURL: "/login?lang=en", request: "/tasks", expected: "/login?lang=en&next=%2Ftasks"},
		{name: "absolute login url", loginURL: "https://sso.example.com/login?client=tasks", request: "/tasks/1", expected: "https://sso.example.com/login?client=tasks&next=%2Ftasks%2F1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mux.NewRouter()
			r.Use(RequireAuth(tokens, tt.loginURL))
			r.PathPrefix("/tasks").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not run without a token")
			})

			req := httptest.NewRequest(http.MethodGet, tt.request, nil)
			req.Header.Set("Accept", "text/html")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.expected, rec.Header().Get("Location"))
		})
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"

	"taskmanager/auth"
	"taskmanager/forms"
	"taskmanager/middlewares"
	"taskmanager/store"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Fields  []forms.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// respondError maps domain errors to responses. Anything unrecognised is
// logged and reported as a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Please correct the errors below.",
			Fields:  verr.Fields,
		})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Task not found")
	case errors.Is(err, store.ErrAuthenticationRequired):
		writeError(w, http.StatusUnauthorized, "authentication_required", "Authentication required")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "invalid_token", "Invalid or expired token")
	case errors.Is(err, store.ErrUserExists):
		writeError(w, http.StatusConflict, "conflict", "A user with that username already exists")
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "username", middlewares.Username(r), "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}

// decodeBody fills dst from a JSON body, or from url-encoded form values via
// fromForm when the request was submitted as an HTML form.
func decodeBody(r *http.Request, dst any, fromForm func(url.Values)) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return err
		}
		fromForm(r.PostForm)
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

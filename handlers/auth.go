package handlers

import (
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"taskmanager/auth"
	"taskmanager/forms"
)

// WelcomeSender delivers the post-registration greeting.
type WelcomeSender interface {
	Enabled() bool
	SendWelcome(to, username string) error
}

type AuthHandler struct {
	auth   *auth.Service
	mailer WelcomeSender
	logger *log.Logger
}

func NewAuthHandler(svc *auth.Service, mailer WelcomeSender, logger *log.Logger) *AuthHandler {
	return &AuthHandler{auth: svc, mailer: mailer, logger: logger}
}

func (h *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/register", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", h.LoginInfo).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/token/refresh", h.RefreshToken).Methods(http.MethodPost)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Signup godoc
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user  body      forms.RegisterForm  true  "Account details"
// @Success      201   {object}  models.User
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var form forms.RegisterForm
	err := decodeBody(r, &form, func(v url.Values) {
		form.Username = v.Get("username")
		form.Email = v.Get("email")
		form.Password1 = v.Get("password1")
		form.Password2 = v.Get("password2")
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), form)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if h.mailer != nil && h.mailer.Enabled() {
		go func(to, username string) {
			if err := h.mailer.SendWelcome(to, username); err != nil {
				h.logger.Warn("welcome email failed", "user_id", user.ID, "err", err)
			}
		}(user.Email, user.Username)
	}

	writeJSON(w, http.StatusCreated, user)
}

// LoginInfo godoc
// @Summary      Login entry point
// @Description  Where unauthenticated browsers are redirected; describes how to obtain a token
// @Tags         auth
// @Produce      json
// @Param        next  query  string  false  "Path to return to after login"
// @Success      200
// @Router       /login [get]
func (h *AuthHandler) LoginInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "POST username and password to /login to obtain a bearer token",
		"next":    r.URL.Query().Get("next"),
	})
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      forms.LoginForm  true  "Credentials"
// @Success      200          {object}  auth.TokenPair
// @Failure      401          {object}  ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form forms.LoginForm
	err := decodeBody(r, &form, func(v url.Values) {
		form.Username = v.Get("username")
		form.Password = v.Get("password")
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	pair, err := h.auth.Login(r.Context(), form)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.logger.Info("user logged in", "username", form.Username)
	writeJSON(w, http.StatusOK, pair)
}

// RefreshToken godoc
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshRequest  true  "Refresh token"
// @Success      200   {object}  auth.TokenPair
// @Failure      401   {object}  ErrorResponse
// @Router       /token/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	err := decodeBody(r, &req, func(v url.Values) {
		req.RefreshToken = v.Get("refresh_token")
	})
	if err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "Refresh token is required")
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

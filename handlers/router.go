package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"taskmanager/auth"
	_ "taskmanager/docs"
	"taskmanager/middlewares"
	"taskmanager/store"
)

type RouterConfig struct {
	Tasks    *store.TaskStore
	Auth     *auth.Service
	Mailer   WelcomeSender
	LoginURL string
	Logger   *log.Logger
}

// NewRouter wires every route. Task routes sit behind RequireAuth.
func NewRouter(cfg RouterConfig) *mux.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := mux.NewRouter()
	r.HandleFunc("/", homeHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	NewAuthHandler(cfg.Auth, cfg.Mailer, logger).Register(r)

	protected := r.NewRoute().Subrouter()
	protected.Use(middlewares.RequireAuth(cfg.Auth, cfg.LoginURL))
	NewTaskHandler(cfg.Tasks, logger).Register(protected)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed")
	})
	return r
}

// homeHandler godoc
// @Summary      Welcome message
// @Tags         meta
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func homeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Task Manager API"})
}

// healthHandler godoc
// @Summary      Liveness check
// @Tags         meta
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handlers

import (
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"taskmanager/forms"
	"taskmanager/middlewares"
	"taskmanager/store"
)

type TaskHandler struct {
	store  *store.TaskStore
	logger *log.Logger
}

func NewTaskHandler(s *store.TaskStore, logger *log.Logger) *TaskHandler {
	return &TaskHandler{store: s, logger: logger}
}

// Register mounts the task routes on r. r is expected to run RequireAuth.
func (h *TaskHandler) Register(r *mux.Router) {
	r.HandleFunc("/tasks", h.GetTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", h.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", h.GetTaskByID).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", h.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id}/toggle", h.ToggleTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", h.DeleteTask).Methods(http.MethodDelete)
}

// GetTasks godoc
// @Summary      List tasks
// @Description  Returns the caller's tasks, newest first, with total and completed counts
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  store.TaskList
// @Failure      401  {object}  ErrorResponse
// @Router       /tasks [get]
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r)
	list, err := h.store.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateTask godoc
// @Summary      Create a new task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        task  body      forms.TaskForm  true  "Task to create"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeTaskForm(w, r)
	if !ok {
		return
	}

	userID, _ := middlewares.UserID(r)
	task, err := h.store.Create(r.Context(), userID, form.Title)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// GetTaskByID godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	userID, _ := middlewares.UserID(r)
	task, err := h.store.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTask godoc
// @Summary      Edit a task's title
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Task ID"
// @Param        task  body      forms.TaskForm  true  "New title"
// @Success      200   {object}  models.Task
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	form, ok := h.decodeTaskForm(w, r)
	if !ok {
		return
	}

	userID, _ := middlewares.UserID(r)
	task, err := h.store.Edit(r.Context(), userID, id, form.Title)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ToggleTask godoc
// @Summary      Toggle completion
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	userID, _ := middlewares.UserID(r)
	task, err := h.store.Toggle(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	userID, _ := middlewares.UserID(r)
	if err := h.store.Delete(r.Context(), userID, id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) decodeTaskForm(w http.ResponseWriter, r *http.Request) (forms.TaskForm, bool) {
	var form forms.TaskForm
	err := decodeBody(r, &form, func(v url.Values) {
		form.Title = v.Get("title")
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return form, false
	}
	return form, true
}

func taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}

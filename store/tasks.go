// Package store owns the Task entity and enforces ownership-scoped CRUD.
//
// Callers pass the authenticated identity into every operation. A task that
// exists but belongs to another user is reported as ErrNotFound so that
// non-owners cannot learn whether an id exists.
package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"taskmanager/forms"
	"taskmanager/models"
)

// TaskList is the result of List: the owner's tasks, newest first, with counts.
type TaskList struct {
	Tasks     []models.Task `json:"tasks"`
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
}

type TaskStore struct {
	repo   TaskRepository
	now    func() time.Time
	newID  func() uuid.UUID
	logger *log.Logger
}

type Option func(*TaskStore)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *TaskStore) { s.newID = newID }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *TaskStore) { s.logger = logger }
}

func NewTaskStore(repo TaskRepository, opts ...Option) *TaskStore {
	s := &TaskStore{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.New,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskStore) List(ctx context.Context, owner uuid.UUID) (*TaskList, error) {
	if owner == uuid.Nil {
		return nil, ErrAuthenticationRequired
	}
	tasks, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	list := &TaskList{Tasks: tasks, Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			list.Completed++
		}
	}
	return list, nil
}

func (s *TaskStore) Get(ctx context.Context, owner, id uuid.UUID) (*models.Task, error) {
	if owner == uuid.Nil {
		return nil, ErrAuthenticationRequired
	}
	return s.repo.FindOwned(ctx, owner, id)
}

// Create validates the title and persists a new, incomplete task owned by owner.
func (s *TaskStore) Create(ctx context.Context, owner uuid.UUID, title string) (*models.Task, error) {
	if owner == uuid.Nil {
		return nil, ErrAuthenticationRequired
	}
	clean, verr := forms.TaskForm{Title: title}.Validate()
	if verr != nil {
		return nil, verr
	}

	task := &models.Task{
		ID:        s.newID(),
		UserID:    owner,
		Title:     clean,
		Completed: false,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Debug("task created", "task_id", task.ID, "user_id", owner)
	return task, nil
}

func (s *TaskStore) Toggle(ctx context.Context, owner, id uuid.UUID) (*models.Task, error) {
	if owner == uuid.Nil {
		return nil, ErrAuthenticationRequired
	}
	task, err := s.repo.ToggleCompleted(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("task toggled", "task_id", id, "completed", task.Completed)
	return task, nil
}

// Edit replaces the title of an owned task. Ownership is checked before the
// title so that a non-owner sees ErrNotFound regardless of input.
func (s *TaskStore) Edit(ctx context.Context, owner, id uuid.UUID, title string) (*models.Task, error) {
	if owner == uuid.Nil {
		return nil, ErrAuthenticationRequired
	}
	clean, verr := forms.TaskForm{Title: title}.Validate()
	if verr != nil {
		if _, err := s.repo.FindOwned(ctx, owner, id); err != nil {
			return nil, err
		}
		return nil, verr
	}
	task, err := s.repo.UpdateTitle(ctx, owner, id, clean)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("task edited", "task_id", id)
	return task, nil
}

func (s *TaskStore) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return ErrAuthenticationRequired
	}
	if err := s.repo.DeleteOwned(ctx, owner, id); err != nil {
		return err
	}
	s.logger.Debug("task deleted", "task_id", id)
	return nil
}

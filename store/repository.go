package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"taskmanager/models"
)

var (
	// ErrNotFound is returned when a task does not exist or belongs to someone else.
	ErrNotFound = errors.New("task not found")
	// ErrAuthenticationRequired is returned when an operation is called without a caller identity.
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserExists             = errors.New("a user with that username already exists")
)

// TaskRepository persists tasks. Every lookup and mutation is scoped by owner.
type TaskRepository interface {
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	FindOwned(ctx context.Context, owner, id uuid.UUID) (*models.Task, error)
	// ToggleCompleted flips completed in a single atomic update and returns the new row.
	ToggleCompleted(ctx context.Context, owner, id uuid.UUID) (*models.Task, error)
	UpdateTitle(ctx context.Context, owner, id uuid.UUID, title string) (*models.Task, error)
	DeleteOwned(ctx context.Context, owner, id uuid.UUID) error
}

// UserRepository persists accounts for the auth service.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Repository is implemented by both storage backends.
type Repository interface {
	TaskRepository
	UserRepository
}

var (
	_ Repository = (*Postgres)(nil)
	_ Repository = (*GormRepository)(nil)
)

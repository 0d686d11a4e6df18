package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskmanager/models"
)

// GormRepository stores tasks and users through GORM. It backs the SQLite
// driver used for local development and tests.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (r *GormRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *GormRepository) FindOwned(ctx context.Context, owner, id uuid.UUID) (*models.Task, error) {
	return findOwned(r.db.WithContext(ctx), owner, id)
}

func (r *GormRepository) ToggleCompleted(ctx context.Context, owner, id uuid.UUID) (*models.Task, error) {
	return r.updateOwned(ctx, owner, id, "completed", gorm.Expr("NOT completed"))
}

func (r *GormRepository) UpdateTitle(ctx context.Context, owner, id uuid.UUID, title string) (*models.Task, error) {
	return r.updateOwned(ctx, owner, id, "title", title)
}

// updateOwned applies a single-column update and re-reads the row in one transaction.
func (r *GormRepository) updateOwned(ctx context.Context, owner, id uuid.UUID, column string, value any) (*models.Task, error) {
	var task *models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).
			Where("id = ? AND user_id = ?", id, owner).
			Update(column, value)
		if result.Error != nil {
			return fmt.Errorf("failed to update task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		var err error
		task, err = findOwned(tx, owner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *GormRepository) DeleteOwned(ctx context.Context, owner, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ? AND user_id = ?", id, owner)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func findOwned(db *gorm.DB, owner, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ? AND user_id = ?", id, owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

func (r *GormRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *GormRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, "username = ?", username)
}

func (r *GormRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findUser(ctx, "id = ?", id)
}

func (r *GormRepository) findUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

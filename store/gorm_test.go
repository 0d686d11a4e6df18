package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/models"
)

func TestGormRepository_Users(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	user := &models.User{
		ID:        uuid.New(),
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "hash",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateUser(ctx, user))

	t.Run("find by username", func(t *testing.T) {
		found, err := repo.FindUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "hash", found.Password)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := &models.User{ID: uuid.New(), Username: "alice", Email: "x@example.com", Password: "h", CreatedAt: time.Now()}
		assert.ErrorIs(t, repo.CreateUser(ctx, dup), ErrUserExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.FindUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = repo.FindUserByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestGormRepository_ScopedMutations(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	task := &models.Task{ID: uuid.New(), UserID: owner, Title: "scoped", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, task))

	_, err := repo.ToggleCompleted(ctx, stranger, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.UpdateTitle(ctx, stranger, task.ID, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteOwned(ctx, stranger, task.ID), ErrNotFound)

	updated, err := repo.UpdateTitle(ctx, owner, task.ID, "scoped")
	require.NoError(t, err, "re-saving the same title is still a match")
	assert.Equal(t, "scoped", updated.Title)

	toggled, err := repo.ToggleCompleted(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, owner, toggled.UserID)
}

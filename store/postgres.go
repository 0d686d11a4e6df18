package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskmanager/models"
)

const taskColumns = "id, user_id, title, completed, created_at"

// Postgres stores tasks and users in PostgreSQL through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Task, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id=$1 ORDER BY created_at DESC, id DESC",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Completed, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (p *Postgres) Create(ctx context.Context, task *models.Task) error {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES ($1, $2, $3, $4, $5)",
		task.ID, task.UserID, task.Title, task.Completed, task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (p *Postgres) FindOwned(ctx context.Context, owner, id uuid.UUID) (*models.Task, error) {
	row := p.pool.QueryRow(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id=$1 AND user_id=$2",
		id, owner,
	)
	return scanTask(row)
}

func (p *Postgres) ToggleCompleted(ctx context.Context, owner, id uuid.UUID) (*models.Task, error) {
	row := p.pool.QueryRow(ctx,
		"UPDATE tasks SET completed = NOT completed WHERE id=$1 AND user_id=$2 RETURNING "+taskColumns,
		id, owner,
	)
	return scanTask(row)
}

func (p *Postgres) UpdateTitle(ctx context.Context, owner, id uuid.UUID, title string) (*models.Task, error) {
	row := p.pool.QueryRow(ctx,
		"UPDATE tasks SET title=$3 WHERE id=$1 AND user_id=$2 RETURNING "+taskColumns,
		id, owner, title,
	)
	return scanTask(row)
}

func (p *Postgres) DeleteOwned(ctx context.Context, owner, id uuid.UUID) error {
	commandTag, err := p.pool.Exec(ctx, "DELETE FROM tasks WHERE id=$1 AND user_id=$2", id, owner)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Completed, &task.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO users (id, username, email, password, created_at) VALUES ($1, $2, $3, $4, $5)",
		user.ID, user.Username, user.Email, user.Password, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (p *Postgres) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := p.pool.QueryRow(ctx,
		"SELECT id, username, email, password, created_at FROM users WHERE username=$1",
		username,
	)
	return scanUser(row)
}

func (p *Postgres) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := p.pool.QueryRow(ctx,
		"SELECT id, username, email, password, created_at FROM users WHERE id=$1",
		id,
	)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

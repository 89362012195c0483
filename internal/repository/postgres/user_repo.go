package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/models"
	repo "github.com/cdazamolina/ProjectsManager/internal/repository"
)

const pgUniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

// Create inserts the user and its role assignments in one transaction.
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	start := time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: could not begin transaction", err)
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO users (id, username, email, password_hash, is_enable)
				VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsEnable,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repo.ErrDuplicate
		}
		logger.Error("Repository: could not insert user", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("insert user: %w", err)
	}

	for _, role := range user.Roles {
		_, err = tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_name) VALUES ($1, $2)`,
			user.ID, role)
		if err != nil {
			logger.Error("Repository: could not assign role", err)
			return fmt.Errorf("assign role: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	start := time.Now()

	query := `UPDATE users
			SET username = $1,
				email = $2,
				password_hash = $3,
				is_enable = $4
			WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsEnable,
		user.ID,
	)
	if err != nil {
		logger.Error("Repository: could not update user", err)
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, `WHERE username = $1`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *UserRepo) getBy(ctx context.Context, where string, arg any) (*models.User, error) {
	start := time.Now()

	query := `SELECT
				id,
				username,
				email,
				password_hash,
				is_enable
				FROM users ` + where

	user := &models.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsEnable,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: could not get user", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Roles, err = r.rolesOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT
				id,
				username,
				email,
				password_hash,
				is_enable
				FROM users
				ORDER BY username`

	return r.list(ctx, query)
}

func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	query := `SELECT
				u.id,
				u.username,
				u.email,
				u.password_hash,
				u.is_enable
				FROM users u
				JOIN user_roles ur ON ur.user_id = u.id
				WHERE ur.role_name = $1
				ORDER BY u.username`

	return r.list(ctx, query, role)
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	start := time.Now()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: could not list users", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.IsEnable,
		)
		if err != nil {
			logger.Warn("Repository: could not scan user row", zap.Error(err))
			continue
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	for _, user := range users {
		user.Roles, err = r.rolesOf(ctx, user.ID)
		if err != nil {
			return nil, err
		}
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return users, nil
}

func (r *UserRepo) rolesOf(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role_name FROM user_roles WHERE user_id = $1 ORDER BY role_name`,
		userID)
	if err != nil {
		logger.Error("Repository: could not load roles", err)
		return nil, fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			logger.Warn("Repository: could not scan role row", zap.Error(err))
			continue
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return roles, nil
}

// EnsureRole makes the role row exist; idempotent for bootstrap.
func (r *UserRepo) EnsureRole(ctx context.Context, name string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
		name)
	if err != nil {
		logger.Error("Repository: could not ensure role", err)
		return fmt.Errorf("ensure role: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/models"
	repo "github.com/cdazamolina/ProjectsManager/internal/repository"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func (r *TaskRepo) Create(ctx context.Context, task *models.ProjectTask) error {
	start := time.Now()

	query := `INSERT INTO project_tasks
				(name, description, execution_date, status, project_id)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		task.Name,
		task.Description,
		task.ExecutionDate,
		task.Status,
		task.ProjectID,
	).Scan(&task.ID)
	if err != nil {
		logger.Error("Repository: could not insert task", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("insert task: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, task *models.ProjectTask) error {
	start := time.Now()

	query := `UPDATE project_tasks
			SET name = $1,
				description = $2,
				execution_date = $3,
				status = $4
			WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query,
		task.Name,
		task.Description,
		task.ExecutionDate,
		task.Status,
		task.ID,
	)
	if err != nil {
		logger.Error("Repository: could not update task", err)
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id int) (*models.ProjectTask, error) {
	start := time.Now()

	query := `SELECT
				id,
				name,
				description,
				execution_date,
				status,
				project_id
				FROM project_tasks
				WHERE id = $1`

	task := &models.ProjectTask{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&task.ExecutionDate,
		&task.Status,
		&task.ProjectID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: could not get task", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("get task: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return task, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM project_tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: could not delete task", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

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

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	start := time.Now()

	query := `INSERT INTO projects
				(name, description, start_date, end_date, status)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.StartDate,
		project.EndDate,
		project.Status,
	).Scan(&project.ID)
	if err != nil {
		logger.Error("Repository: could not insert project", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("insert project: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	start := time.Now()

	query := `UPDATE projects
			SET name = $1,
				description = $2,
				start_date = $3,
				end_date = $4,
				status = $5
			WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		project.Name,
		project.Description,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.ID,
	)
	if err != nil {
		logger.Error("Repository: could not update project", err)
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// GetByID loads the project and its task subcollection.
func (r *ProjectRepo) GetByID(ctx context.Context, id int) (*models.Project, error) {
	start := time.Now()

	query := `SELECT
				id,
				name,
				description,
				start_date,
				end_date,
				status
				FROM projects
				WHERE id = $1`

	project := &models.Project{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.StartDate,
		&project.EndDate,
		&project.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: could not get project", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("get project: %w", err)
	}

	taskQuery := `SELECT
				id,
				name,
				description,
				execution_date,
				status,
				project_id
				FROM project_tasks
				WHERE project_id = $1
				ORDER BY id`

	rows, err := r.pool.Query(ctx, taskQuery, id)
	if err != nil {
		logger.Error("Repository: could not load project tasks", err)
		return nil, fmt.Errorf("load project tasks: %w", err)
	}
	defer rows.Close()

	project.Tasks = []models.ProjectTask{}
	for rows.Next() {
		task := models.ProjectTask{}
		err := rows.Scan(
			&task.ID,
			&task.Name,
			&task.Description,
			&task.ExecutionDate,
			&task.Status,
			&task.ProjectID,
		)
		if err != nil {
			logger.Warn("Repository: could not scan task row", zap.Error(err))
			continue
		}
		project.Tasks = append(project.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return project, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	start := time.Now()

	query := `SELECT
				id,
				name,
				description,
				start_date,
				end_date,
				status
				FROM projects
				ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: could not list projects", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.StartDate,
			&project.EndDate,
			&project.Status,
		)
		if err != nil {
			logger.Warn("Repository: could not scan project row", zap.Error(err))
			continue
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return projects, nil
}

// Delete removes the project; project_tasks go with it through the FK cascade.
func (r *ProjectRepo) Delete(ctx context.Context, id int) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: could not delete project", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: slow query", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

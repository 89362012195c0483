package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/models"
	"github.com/cdazamolina/ProjectsManager/internal/repository"
)

type TaskService struct {
	tasks    TaskRepository
	projects ProjectRepository
}

func NewTaskService(tasks TaskRepository, projects ProjectRepository) TaskService {
	return TaskService{
		tasks:    tasks,
		projects: projects,
	}
}

func (s *TaskService) Get(ctx context.Context, id int) (*models.ProjectTask, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("Project task", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// Create binds a task to an unfinished project and requires the execution
// date to fall inside the project window.
func (s *TaskService) Create(ctx context.Context, projectID int, name, description string, executionDate time.Time) (*models.ProjectTask, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("Invalid project Id")
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	if project.Status == models.StatusFinished {
		return nil, NewValidationError("Error, Project is finished.")
	}

	executionDate = models.DateOnly(executionDate)
	if executionDate.Before(project.StartDate) {
		return nil, NewValidationError("Error, date is early to init project date.")
	}
	if executionDate.After(project.EndDate) {
		return nil, NewValidationError("Error, date is greater than end project date.")
	}

	task := &models.ProjectTask{
		Name:          name,
		Description:   description,
		ExecutionDate: executionDate,
		Status:        models.StatusInProgress,
		ProjectID:     projectID,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: task created",
		zap.Int("task_id", task.ID),
		zap.Int("project_id", projectID))
	return task, nil
}

// Update applies only the fields that are present and different. An
// execution-date change is validated against the parent project's current
// bounds.
func (s *TaskService) Update(ctx context.Context, id int, update TaskUpdate) (*models.ProjectTask, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.ExecutionDate != nil {
		newDate := models.DateOnly(*update.ExecutionDate)
		if !newDate.Equal(task.ExecutionDate) {
			project, err := s.projects.GetByID(ctx, task.ProjectID)
			if err != nil {
				return nil, fmt.Errorf("get parent project: %w", err)
			}

			if newDate.Before(project.StartDate) {
				return nil, NewValidationError("Error, date is early to init project date.")
			}
			if newDate.After(project.EndDate) {
				return nil, NewValidationError("Error, date is greater than end project date.")
			}
			task.ExecutionDate = newDate
		}
	}

	if update.Name != nil && *update.Name != task.Name {
		task.Name = *update.Name
	}
	if update.Description != nil && *update.Description != task.Description {
		task.Description = *update.Description
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: task updated", zap.Int("task_id", id))
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: task deleted", zap.Int("task_id", id))
	return nil
}

// Finish sets FINISHED unconditionally. Finishing a finished task is an
// idempotent success.
func (s *TaskService) Finish(ctx context.Context, id int) (*models.ProjectTask, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Status = models.StatusFinished
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: task finished", zap.Int("task_id", id))
	return task, nil
}

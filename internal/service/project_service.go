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

type ProjectService struct {
	projects ProjectRepository
	users    UserRepository
	notifier Notifier
}

func NewProjectService(projects ProjectRepository, users UserRepository, notifier Notifier) ProjectService {
	return ProjectService{
		projects: projects,
		users:    users,
		notifier: notifier,
	}
}

func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id int) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("Project", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// Create checks the date rules one by one and reports the first failure.
func (s *ProjectService) Create(ctx context.Context, name, description string, start, end time.Time) (*models.Project, error) {
	start = models.DateOnly(start)
	end = models.DateOnly(end)
	today := models.DateOnly(time.Now())

	if start.Before(today) {
		return nil, NewValidationError("Project start date-time must be greather than current date-time")
	}
	if end.Before(start) {
		return nil, NewValidationError("Project end date-time must be greather than start date-time")
	}

	project := &models.Project{
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		Status:      models.StatusInProgress,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: project created", zap.Int("project_id", project.ID))
	return project, nil
}

// Update applies only the fields that are present and different. An end-date
// change must not orphan any task past the new end, and must not precede the
// project start.
func (s *ProjectService) Update(ctx context.Context, id int, update ProjectUpdate) (*models.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.EndDate != nil {
		newEnd := models.DateOnly(*update.EndDate)
		if !newEnd.Equal(project.EndDate) {
			for _, task := range project.Tasks {
				if task.ExecutionDate.After(newEnd) {
					return nil, NewValidationError("Error, somes project tasks will be execute after your new project end-date, we can't assign the new end-date.")
				}
			}
			if newEnd.Before(project.StartDate) {
				return nil, NewValidationError("Error, new end-date is early to startDate.")
			}
			project.EndDate = newEnd
		}
	}

	if update.Name != nil && *update.Name != project.Name {
		project.Name = *update.Name
	}
	if update.Description != nil && *update.Description != project.Description {
		project.Description = *update.Description
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: project updated", zap.Int("project_id", id))
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	// backing store cascades the delete onto the task subcollection
	if err := s.projects.Delete(ctx, id); err != nil {
		return NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: project deleted", zap.Int("project_id", id))
	return nil
}

// Finish moves the project to FINISHED once no task is still in progress,
// then mails every administrator. Notification is best-effort: the response
// never depends on delivery.
func (s *ProjectService) Finish(ctx context.Context, id int) (*models.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, task := range project.Tasks {
		if task.Status == models.StatusInProgress {
			return nil, NewValidationError("Error, some tasks are IN_PROGRESS..",
				ToDetail("task_id", task.ID))
		}
	}

	project.Status = models.StatusFinished
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: project finished", zap.Int("project_id", id))

	admins, err := s.users.ListByRole(ctx, models.RoleAdministrator)
	if err != nil {
		logger.Warn("Service: could not resolve administrators for notification", zap.Error(err))
		return project, nil
	}

	recipients := make([]string, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, admin.Email)
	}
	s.notifier.ProjectFinished(ctx, project.Name, recipients)

	return project, nil
}

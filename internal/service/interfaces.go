package service

import (
	"context"

	"github.com/cdazamolina/ProjectsManager/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	// GetByID loads the project together with its task subcollection.
	GetByID(ctx context.Context, id int) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Delete(ctx context.Context, id int) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.ProjectTask) error
	Update(ctx context.Context, task *models.ProjectTask) error
	GetByID(ctx context.Context, id int) (*models.ProjectTask, error)
	Delete(ctx context.Context, id int) error
}

// Notifier delivers the project-finished mail to each recipient.
// Failures are the notifier's to log; callers never see them.
type Notifier interface {
	ProjectFinished(ctx context.Context, projectName string, recipients []string)
}

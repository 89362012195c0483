package inmemory

import (
	"context"
	"sync"

	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/models"
)

// Storage keeps the whole data set behind one RWMutex so the project/task
// relation stays consistent. Intended for development and tests; the
// postgres package is the production store.
type Storage struct {
	mtx        sync.RWMutex
	users      map[string]*models.User
	userIDs    []string
	projects   map[int]*models.Project
	projectIDs []int
	tasks      map[int]*models.ProjectTask
	taskIDs    []int

	nextProjectID int
	nextTaskID    int
}

func NewStorage() *Storage {
	return &Storage{
		users:         make(map[string]*models.User),
		projects:      make(map[int]*models.Project),
		tasks:         make(map[int]*models.ProjectTask),
		nextProjectID: 1,
		nextTaskID:    1,
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: in-memory store is healthy")
	return nil
}

func (s *Storage) Users() *UserRepo       { return &UserRepo{s: s} }
func (s *Storage) Projects() *ProjectRepo { return &ProjectRepo{s: s} }
func (s *Storage) Tasks() *TaskRepo       { return &TaskRepo{s: s} }

func cloneUser(u *models.User) *models.User {
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func cloneProject(p *models.Project) *models.Project {
	clone := *p
	clone.Tasks = nil
	return &clone
}

func cloneTask(t *models.ProjectTask) *models.ProjectTask {
	clone := *t
	return &clone
}

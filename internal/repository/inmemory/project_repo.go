package inmemory

import (
	"context"

	"github.com/cdazamolina/ProjectsManager/internal/models"
	repo "github.com/cdazamolina/ProjectsManager/internal/repository"
)

type ProjectRepo struct {
	s *Storage
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	project.ID = r.s.nextProjectID
	r.s.nextProjectID++

	r.s.projects[project.ID] = cloneProject(project)
	r.s.projectIDs = append(r.s.projectIDs, project.ID)
	return nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.projects[project.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id int) (*models.Project, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	stored, ok := r.s.projects[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	project := cloneProject(stored)
	project.Tasks = r.s.tasksOf(id)
	return project, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	projects := make([]*models.Project, 0, len(r.s.projectIDs))
	for _, id := range r.s.projectIDs {
		projects = append(projects, cloneProject(r.s.projects[id]))
	}
	return projects, nil
}

// Delete removes the project and cascades onto its tasks.
func (r *ProjectRepo) Delete(ctx context.Context, id int) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return repo.ErrNotFound
	}

	delete(r.s.projects, id)
	for ind, val := range r.s.projectIDs {
		if val == id {
			r.s.projectIDs = append(r.s.projectIDs[:ind], r.s.projectIDs[ind+1:]...)
			break
		}
	}

	kept := r.s.taskIDs[:0]
	for _, taskID := range r.s.taskIDs {
		if r.s.tasks[taskID].ProjectID == id {
			delete(r.s.tasks, taskID)
			continue
		}
		kept = append(kept, taskID)
	}
	r.s.taskIDs = kept
	return nil
}

// caller holds the lock
func (s *Storage) tasksOf(projectID int) []models.ProjectTask {
	tasks := []models.ProjectTask{}
	for _, taskID := range s.taskIDs {
		task := s.tasks[taskID]
		if task.ProjectID == projectID {
			tasks = append(tasks, *task)
		}
	}
	return tasks
}

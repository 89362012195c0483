package inmemory

import (
	"context"

	"github.com/cdazamolina/ProjectsManager/internal/models"
	repo "github.com/cdazamolina/ProjectsManager/internal/repository"
)

type TaskRepo struct {
	s *Storage
}

func (r *TaskRepo) Create(ctx context.Context, task *models.ProjectTask) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.projects[task.ProjectID]; !ok {
		return repo.ErrNotFound
	}

	task.ID = r.s.nextTaskID
	r.s.nextTaskID++

	r.s.tasks[task.ID] = cloneTask(task)
	r.s.taskIDs = append(r.s.taskIDs, task.ID)
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, task *models.ProjectTask) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.tasks[task.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id int) (*models.ProjectTask, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	task, ok := r.s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneTask(task), nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return repo.ErrNotFound
	}

	delete(r.s.tasks, id)
	for ind, val := range r.s.taskIDs {
		if val == id {
			r.s.taskIDs = append(r.s.taskIDs[:ind], r.s.taskIDs[ind+1:]...)
			break
		}
	}
	return nil
}

package inmemory

import (
	"context"

	"github.com/cdazamolina/ProjectsManager/internal/models"
	repo "github.com/cdazamolina/ProjectsManager/internal/repository"
)

type UserRepo struct {
	s *Storage
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repo.ErrDuplicate
		}
	}

	r.s.users[user.ID] = cloneUser(user)
	r.s.userIDs = append(r.s.userIDs, user.ID)
	return nil
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	for _, user := range r.s.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	users := make([]*models.User, 0, len(r.s.userIDs))
	for _, id := range r.s.userIDs {
		users = append(users, cloneUser(r.s.users[id]))
	}
	return users, nil
}

func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	users := []*models.User{}
	for _, id := range r.s.userIDs {
		user := r.s.users[id]
		for _, assigned := range user.Roles {
			if assigned == role {
				users = append(users, cloneUser(user))
				break
			}
		}
	}
	return users, nil
}

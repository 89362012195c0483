package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdazamolina/ProjectsManager/internal/auth"
	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/models"
	"github.com/cdazamolina/ProjectsManager/internal/repository"
)

type UserService struct {
	users  UserRepository
	issuer *auth.TokenIssuer
}

func NewUserService(users UserRepository, issuer *auth.TokenIssuer) UserService {
	return UserService{
		users:  users,
		issuer: issuer,
	}
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Register creates an enabled user, assigns the role picked by the
// isAdministrator flag and returns a token for immediate use. Checks run in
// order: email taken, username taken.
func (s *UserService) Register(ctx context.Context, username, email, password string, isAdministrator bool) (string, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", NewValidationError(fmt.Sprintf("User with email %s already exist.", email))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("lookup email: %w", err)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return "", NewValidationError(fmt.Sprintf("User with username %s already exist.", username))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("lookup username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsEnable:     true,
		Roles:        []string{models.RoleName(isAdministrator)},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return "", NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: user registered",
		zap.String("user_id", user.ID),
		zap.String("role", user.Roles[0]))

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", NewInternal("Sorry, something is going wrong, please try again.", err)
	}
	return token, nil
}

// SetEnabled toggles the account flag and reissues a token for the user.
func (s *UserService) SetEnabled(ctx context.Context, id string, isEnable bool) (string, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", NewNotFound("user", id)
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	user.IsEnable = isEnable
	if err := s.users.Update(ctx, user); err != nil {
		return "", NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: user status updated",
		zap.String("user_id", id),
		zap.Bool("is_enable", isEnable))

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", NewInternal("Sorry, something is going wrong, please try again.", err)
	}
	return token, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, username, password, newPassword string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", NewNotFound("user", username)
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", NewInvalidCredentials()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return "", NewInternal("Sorry, something is going wrong, please try again.", err)
	}

	logger.Info("Service: password changed", zap.String("user_id", user.ID))

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", NewInternal("Sorry, something is going wrong, please try again.", err)
	}
	return token, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdazamolina/ProjectsManager/internal/auth"
	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/repository"
)

type AuthService struct {
	users  UserRepository
	issuer *auth.TokenIssuer
}

func NewAuthService(users UserRepository, issuer *auth.TokenIssuer) AuthService {
	return AuthService{
		users:  users,
		issuer: issuer,
	}
}

// Login checks existence, then the enabled flag, then the password, in that
// order. The existence and password failures share one generic error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: login for unknown username", zap.String("username", username))
			return "", NewInvalidCredentials()
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsEnable {
		logger.Warn("Service: login attempt on disabled account", zap.String("username", username))
		return "", NewBusinessError(CodeAccountDisabled,
			"Sorry, your account is disabled, please contact an administrator.")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", NewInvalidCredentials()
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", NewInternal("Sorry, something is going wrong, please try again.", err)
	}
	return token, nil
}

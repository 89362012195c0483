package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdazamolina/ProjectsManager/internal/auth"
	"github.com/cdazamolina/ProjectsManager/internal/models"
	"github.com/cdazamolina/ProjectsManager/internal/repository"
	"github.com/cdazamolina/ProjectsManager/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(testSecret, 24*time.Hour)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		password    string
		setupMock   func(*testing.T, *MockUserRepository)
		expectCode  string
		expectToken bool
	}{
		{
			name:     "success",
			password: "secret",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
					ID:           "u1",
					Username:     "alice",
					Email:        "a@x.com",
					PasswordHash: hashOf(t, "secret"),
					IsEnable:     true,
					Roles:        []string{models.RoleOperator},
				}, nil)
			},
			expectToken: true,
		},
		{
			name:     "unknown user gets the generic error",
			password: "secret",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "alice").Return(nil, repository.ErrNotFound)
			},
			expectCode: service.CodeInvalidCredentials,
		},
		{
			name:     "wrong password gets the same generic error",
			password: "wrong",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
					Username:     "alice",
					PasswordHash: hashOf(t, "secret"),
					IsEnable:     true,
				}, nil)
			},
			expectCode: service.CodeInvalidCredentials,
		},
		{
			name:     "disabled account is rejected before the password check",
			password: "secret",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
					Username:     "alice",
					PasswordHash: hashOf(t, "secret"),
					IsEnable:     false,
				}, nil)
			},
			expectCode: service.CodeAccountDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			tt.setupMock(t, mockUsers)

			svc := service.NewAuthService(mockUsers, testIssuer())
			token, err := svc.Login(ctx, "alice", tt.password)

			if tt.expectToken {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
			} else {
				require.Error(t, err)
				busErr, ok := err.(*service.BusinessError)
				require.True(t, ok)
				assert.Equal(t, tt.expectCode, busErr.Code)
			}

			mockUsers.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_SameMessageForMissingUserAndWrongPassword(t *testing.T) {
	ctx := context.Background()

	missing := new(MockUserRepository)
	missing.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
	missingSvc := service.NewAuthService(missing, testIssuer())
	_, errMissing := missingSvc.Login(ctx, "ghost", "whatever")

	wrongPw := new(MockUserRepository)
	wrongPw.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
		Username:     "alice",
		PasswordHash: hashOf(t, "secret"),
		IsEnable:     true,
	}, nil)
	wrongPwSvc := service.NewAuthService(wrongPw, testIssuer())
	_, errWrong := wrongPwSvc.Login(ctx, "alice", "nope")

	require.Error(t, errMissing)
	require.Error(t, errWrong)
	assert.Equal(t,
		errMissing.(*service.BusinessError).Message,
		errWrong.(*service.BusinessError).Message)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		isAdministrator bool
		setupMock       func(*MockUserRepository)
		expectError     string
		expectRole      string
	}{
		{
			name:            "success - operator",
			isAdministrator: false,
			setupMock: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repository.ErrNotFound)
				m.On("GetByUsername", mock.Anything, "alice").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					return u.IsEnable && u.ID != "" && u.PasswordHash != "p"
				})).Return(nil)
			},
			expectRole: models.RoleOperator,
		},
		{
			name:            "success - administrator",
			isAdministrator: true,
			setupMock: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repository.ErrNotFound)
				m.On("GetByUsername", mock.Anything, "alice").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					return len(u.Roles) == 1 && u.Roles[0] == models.RoleAdministrator
				})).Return(nil)
			},
			expectRole: models.RoleAdministrator,
		},
		{
			name: "error - email taken, reported before username",
			setupMock: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "a@x.com").Return(&models.User{}, nil)
			},
			expectError: "User with email a@x.com already exist.",
		},
		{
			name: "error - username taken",
			setupMock: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repository.ErrNotFound)
				m.On("GetByUsername", mock.Anything, "alice").Return(&models.User{}, nil)
			},
			expectError: "User with username alice already exist.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			tt.setupMock(mockUsers)

			svc := service.NewUserService(mockUsers, testIssuer())
			token, err := svc.Register(ctx, "alice", "a@x.com", "p", tt.isAdministrator)

			if tt.expectError != "" {
				require.Error(t, err)
				busErr, ok := err.(*service.BusinessError)
				require.True(t, ok)
				assert.Equal(t, tt.expectError, busErr.Message)
				mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)

				principal, err := testIssuer().Verify(token)
				require.NoError(t, err)
				assert.Equal(t, []string{tt.expectRole}, principal.Roles)
			}

			mockUsers.AssertExpectations(t)
		})
	}
}

func TestUserService_SetEnabled(t *testing.T) {
	ctx := context.Background()

	t.Run("disable reissues a token", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("GetByID", mock.Anything, "u1").Return(&models.User{
			ID:       "u1",
			Username: "alice",
			IsEnable: true,
		}, nil)
		mockUsers.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return !u.IsEnable
		})).Return(nil)

		svc := service.NewUserService(mockUsers, testIssuer())
		token, err := svc.SetEnabled(ctx, "u1", false)

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		mockUsers.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("GetByID", mock.Anything, "u1").Return(nil, repository.ErrNotFound)

		svc := service.NewUserService(mockUsers, testIssuer())
		_, err := svc.SetEnabled(ctx, "u1", false)

		require.Error(t, err)
		busErr, ok := err.(*service.BusinessError)
		require.True(t, ok)
		assert.Equal(t, service.CodeNotFound, busErr.Code)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores a new hash", func(t *testing.T) {
		oldHash := hashOf(t, "old")
		mockUsers := new(MockUserRepository)
		mockUsers.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
			ID:           "u1",
			Username:     "alice",
			PasswordHash: oldHash,
		}, nil)
		mockUsers.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.PasswordHash != oldHash &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new")) == nil
		})).Return(nil)

		svc := service.NewUserService(mockUsers, testIssuer())
		token, err := svc.ChangePassword(ctx, "alice", "old", "new")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		mockUsers.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("GetByUsername", mock.Anything, "alice").Return(&models.User{
			Username:     "alice",
			PasswordHash: hashOf(t, "old"),
		}, nil)

		svc := service.NewUserService(mockUsers, testIssuer())
		_, err := svc.ChangePassword(ctx, "alice", "bad", "new")

		require.Error(t, err)
		busErr, ok := err.(*service.BusinessError)
		require.True(t, ok)
		assert.Equal(t, service.CodeInvalidCredentials, busErr.Code)
		mockUsers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cdazamolina/ProjectsManager/internal/config"
	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/models"
	repo "github.com/cdazamolina/ProjectsManager/internal/repository"
	"github.com/cdazamolina/ProjectsManager/internal/repository/postgres"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	defer logger.Sync()
	os.Exit(m.Run())
}

type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	ctx        context.Context
	connString string
}

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb", host, port.Port())

	s.storage, err = postgres.New(s.ctx, config.DatabaseConfig{
		URL:            s.connString,
		MaxConnections: 5,
		MinConnections: 1,
		IdleTimeout:    time.Minute,
	})
	require.NoError(s.T(), err)

	s.storage.SetMigrationsDir("../../migrations")
	require.NoError(s.T(), s.storage.Migrate(s.ctx))

	for _, role := range []string{models.RoleAdministrator, models.RoleOperator} {
		require.NoError(s.T(), s.storage.Users().EnsureRole(s.ctx, role))
	}
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		s.container.Terminate(s.ctx)
	}
}

// SetupTest wipes the data tables; the role rows stay.
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, `TRUNCATE users, projects RESTART IDENTITY CASCADE`)
	require.NoError(s.T(), err)
}

func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) newUser(username string, roles ...string) *models.User {
	return &models.User{
		ID:           username + "-id",
		Username:     username,
		Email:        username + "@corp.test",
		PasswordHash: "hash",
		IsEnable:     true,
		Roles:        roles,
	}
}

func (s *PostgresTestSuite) newProject(name string) *models.Project {
	project := &models.Project{
		Name:        name,
		Description: "integration fixture",
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusInProgress,
	}
	require.NoError(s.T(), s.storage.Projects().Create(s.ctx, project))
	return project
}

func (s *PostgresTestSuite) TestUserRepo_CreateAndGet() {
	user := s.newUser("alice", models.RoleAdministrator, models.RoleOperator)
	require.NoError(s.T(), s.storage.Users().Create(s.ctx, user))

	got, err := s.storage.Users().GetByUsername(s.ctx, "alice")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "alice-id", got.ID)
	assert.Equal(s.T(), "alice@corp.test", got.Email)
	assert.True(s.T(), got.IsEnable)
	assert.Equal(s.T(), []string{models.RoleAdministrator, models.RoleOperator}, got.Roles)

	got, err = s.storage.Users().GetByEmail(s.ctx, "alice@corp.test")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "alice", got.Username)

	_, err = s.storage.Users().GetByUsername(s.ctx, "nobody")
	assert.ErrorIs(s.T(), err, repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestUserRepo_DuplicateIsReported() {
	require.NoError(s.T(), s.storage.Users().Create(s.ctx, s.newUser("alice", models.RoleOperator)))

	dup := s.newUser("alice", models.RoleOperator)
	dup.ID = "second-id"
	dup.Email = "different@corp.test"
	assert.ErrorIs(s.T(), s.storage.Users().Create(s.ctx, dup), repo.ErrDuplicate)

	// role rows from the failed transaction must not survive
	users, err := s.storage.Users().List(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), users, 1)
}

func (s *PostgresTestSuite) TestUserRepo_ListByRole() {
	require.NoError(s.T(), s.storage.Users().Create(s.ctx, s.newUser("carol", models.RoleAdministrator)))
	require.NoError(s.T(), s.storage.Users().Create(s.ctx, s.newUser("bob", models.RoleOperator)))
	require.NoError(s.T(), s.storage.Users().Create(s.ctx, s.newUser("alice", models.RoleAdministrator)))

	admins, err := s.storage.Users().ListByRole(s.ctx, models.RoleAdministrator)
	require.NoError(s.T(), err)
	require.Len(s.T(), admins, 2)
	assert.Equal(s.T(), "alice", admins[0].Username)
	assert.Equal(s.T(), "carol", admins[1].Username)
}

func (s *PostgresTestSuite) TestUserRepo_Update() {
	user := s.newUser("alice", models.RoleOperator)
	require.NoError(s.T(), s.storage.Users().Create(s.ctx, user))

	user.IsEnable = false
	user.PasswordHash = "newhash"
	require.NoError(s.T(), s.storage.Users().Update(s.ctx, user))

	got, err := s.storage.Users().GetByID(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), got.IsEnable)
	assert.Equal(s.T(), "newhash", got.PasswordHash)

	ghost := s.newUser("ghost")
	assert.ErrorIs(s.T(), s.storage.Users().Update(s.ctx, ghost), repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestProjectRepo_CreateAssignsID() {
	project := s.newProject("Alpha")
	assert.NotZero(s.T(), project.ID)

	got, err := s.storage.Projects().GetByID(s.ctx, project.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Alpha", got.Name)
	assert.Equal(s.T(), models.StatusInProgress, got.Status)
	assert.Empty(s.T(), got.Tasks)
}

func (s *PostgresTestSuite) TestProjectRepo_GetByIDLoadsTasks() {
	project := s.newProject("Alpha")

	for i := 1; i <= 3; i++ {
		task := &models.ProjectTask{
			Name:          fmt.Sprintf("task %d", i),
			Description:   "d",
			ExecutionDate: project.StartDate.AddDate(0, 0, i),
			Status:        models.StatusInProgress,
			ProjectID:     project.ID,
		}
		require.NoError(s.T(), s.storage.Tasks().Create(s.ctx, task))
	}

	got, err := s.storage.Projects().GetByID(s.ctx, project.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Tasks, 3)
	assert.Equal(s.T(), "task 1", got.Tasks[0].Name)
	assert.Equal(s.T(), project.ID, got.Tasks[0].ProjectID)
}

func (s *PostgresTestSuite) TestProjectRepo_UpdateAndList() {
	project := s.newProject("Alpha")
	s.newProject("Beta")

	project.Name = "Alpha v2"
	project.Status = models.StatusFinished
	require.NoError(s.T(), s.storage.Projects().Update(s.ctx, project))

	projects, err := s.storage.Projects().List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), projects, 2)
	assert.Equal(s.T(), "Alpha v2", projects[0].Name)
	assert.Equal(s.T(), models.StatusFinished, projects[0].Status)

	missing := &models.Project{ID: 9999, Status: models.StatusInProgress}
	assert.ErrorIs(s.T(), s.storage.Projects().Update(s.ctx, missing), repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestProjectRepo_DeleteCascades() {
	project := s.newProject("Doomed")

	task := &models.ProjectTask{
		Name:          "going down with the ship",
		Description:   "d",
		ExecutionDate: project.StartDate,
		Status:        models.StatusInProgress,
		ProjectID:     project.ID,
	}
	require.NoError(s.T(), s.storage.Tasks().Create(s.ctx, task))

	require.NoError(s.T(), s.storage.Projects().Delete(s.ctx, project.ID))

	_, err := s.storage.Projects().GetByID(s.ctx, project.ID)
	assert.ErrorIs(s.T(), err, repo.ErrNotFound)

	_, err = s.storage.Tasks().GetByID(s.ctx, task.ID)
	assert.ErrorIs(s.T(), err, repo.ErrNotFound)

	assert.ErrorIs(s.T(), s.storage.Projects().Delete(s.ctx, project.ID), repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestTaskRepo_CRUD() {
	project := s.newProject("Alpha")

	task := &models.ProjectTask{
		Name:          "initial",
		Description:   "d",
		ExecutionDate: project.StartDate.AddDate(0, 0, 5),
		Status:        models.StatusInProgress,
		ProjectID:     project.ID,
	}
	require.NoError(s.T(), s.storage.Tasks().Create(s.ctx, task))
	require.NotZero(s.T(), task.ID)

	task.Name = "renamed"
	task.Status = models.StatusFinished
	require.NoError(s.T(), s.storage.Tasks().Update(s.ctx, task))

	got, err := s.storage.Tasks().GetByID(s.ctx, task.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "renamed", got.Name)
	assert.Equal(s.T(), models.StatusFinished, got.Status)
	assert.True(s.T(), got.ExecutionDate.Equal(task.ExecutionDate))

	require.NoError(s.T(), s.storage.Tasks().Delete(s.ctx, task.ID))
	_, err = s.storage.Tasks().GetByID(s.ctx, task.ID)
	assert.ErrorIs(s.T(), err, repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestEnsureRoleIsIdempotent() {
	require.NoError(s.T(), s.storage.Users().EnsureRole(s.ctx, models.RoleAdministrator))
	require.NoError(s.T(), s.storage.Users().EnsureRole(s.ctx, models.RoleAdministrator))
}

func (s *PostgresTestSuite) TestHealthCheck() {
	require.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

func (s *PostgresTestSuite) TestMigrateDownAndUpAgain() {
	require.NoError(s.T(), s.storage.Down(s.ctx))
	require.NoError(s.T(), s.storage.Migrate(s.ctx))

	for _, role := range []string{models.RoleAdministrator, models.RoleOperator} {
		require.NoError(s.T(), s.storage.Users().EnsureRole(s.ctx, role))
	}

	require.NoError(s.T(), s.storage.Users().Create(s.ctx, s.newUser("alice", models.RoleOperator)))
}

func TestStorage_New_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "invalid connection string", url: "://not-a-url"},
		{name: "unreachable host", url: "postgres://u:p@127.0.0.1:1/none?connect_timeout=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := postgres.New(context.Background(), config.DatabaseConfig{
				URL:            tt.url,
				MaxConnections: 1,
				MinConnections: 1,
			})
			assert.Error(t, err)
		})
	}
}

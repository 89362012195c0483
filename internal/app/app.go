package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdazamolina/ProjectsManager/internal/auth"
	"github.com/cdazamolina/ProjectsManager/internal/config"
	"github.com/cdazamolina/ProjectsManager/internal/handlers"
	"github.com/cdazamolina/ProjectsManager/internal/logger"
	"github.com/cdazamolina/ProjectsManager/internal/mailer"
	"github.com/cdazamolina/ProjectsManager/internal/middleware"
	"github.com/cdazamolina/ProjectsManager/internal/models"
	"github.com/cdazamolina/ProjectsManager/internal/repository"
	"github.com/cdazamolina/ProjectsManager/internal/repository/inmemory"
	"github.com/cdazamolina/ProjectsManager/internal/repository/postgres"
	"github.com/cdazamolina/ProjectsManager/internal/service"
)

// store is what a backing implementation must provide to the app.
type store interface {
	Users() service.UserRepository
	Projects() service.ProjectRepository
	Tasks() service.TaskRepository
	HealthCheck(ctx context.Context) error
}

// roleEnsurer is implemented by stores that keep roles as rows.
type roleEnsurer interface {
	EnsureRole(ctx context.Context, name string) error
}

type App struct {
	config    *config.Config
	server    *http.Server
	users     service.UserRepository
	health    handlers.HealthChecker
	shutdowns []func()
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	st, err := a.buildStore(ctx)
	if err != nil {
		return err
	}
	a.users = st.Users()
	a.health = st

	issuer := auth.NewTokenIssuer(a.config.JWT.Secret, a.config.JWT.TTL)
	notifier := mailer.New(a.config.Mail)

	authService := service.NewAuthService(st.Users(), issuer)
	userService := service.NewUserService(st.Users(), issuer)
	projectService := service.NewProjectService(st.Projects(), st.Users(), notifier)
	taskService := service.NewTaskService(st.Tasks(), st.Projects())

	if err := a.seed(ctx, st); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	authHandler := handlers.NewAuthHandler(&authService)
	userHandler := handlers.NewUserHandler(&userService)
	projectHandler := handlers.NewProjectHandler(&projectService)
	taskHandler := handlers.NewTaskHandler(&taskService)

	router := a.buildRouter(issuer, &authHandler, &userHandler, &projectHandler, &taskHandler)

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

func (a *App) buildStore(ctx context.Context) (store, error) {
	switch a.config.Repository.Type {
	case "postgres":
		pg, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.shutdowns = append(a.shutdowns, pg.Close)
		return &pgStore{pg}, nil
	case "inmemory", "":
		logger.Warn("App: using in-memory repository, data will not survive a restart")
		return &memStore{inmemory.NewStorage()}, nil
	default:
		return nil, fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}
}

// seed makes the role set and the bootstrap administrator exist; safe to run
// on every start.
func (a *App) seed(ctx context.Context, st store) error {
	if ensurer, ok := st.(roleEnsurer); ok {
		for _, role := range []string{models.RoleAdministrator, models.RoleOperator} {
			if err := ensurer.EnsureRole(ctx, role); err != nil {
				return err
			}
		}
	}

	seed := a.config.Seed
	if seed.AdminUsername == "" {
		return nil
	}

	if _, err := st.Users().GetByUsername(ctx, seed.AdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:           uuid.New().String(),
		Username:     seed.AdminUsername,
		Email:        seed.AdminEmail,
		PasswordHash: string(hash),
		IsEnable:     true,
		Roles:        []string{models.RoleAdministrator},
	}
	if err := st.Users().Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("App: seeded administrator account", zap.String("username", seed.AdminUsername))
	return nil
}

func (a *App) buildRouter(issuer *auth.TokenIssuer,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler) *chi.Mux {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	}))

	authenticated := middleware.Authenticate(issuer)
	anyOperator := middleware.RequireRoles(models.RoleAdministrator, models.RoleOperator)
	adminOnly := middleware.RequireRoles(models.RoleAdministrator)

	r.Post("/api/authentication", authHandler.Login)

	r.Route("/api/users", func(r chi.Router) {
		r.Use(authenticated)

		r.With(adminOnly).Get("/", userHandler.List)
		r.With(adminOnly).Post("/", userHandler.Register)
		r.With(adminOnly).Put("/{id}", userHandler.ToggleStatus)
		r.With(anyOperator).Put("/", userHandler.ChangePassword)
	})

	r.Route("/api/projects", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(anyOperator)

		r.Get("/", projectHandler.List)
		r.Post("/", projectHandler.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", projectHandler.Get)
			r.Put("/", projectHandler.Update)
			r.Delete("/", projectHandler.Delete)
			r.Post("/finish", projectHandler.Finish)
		})
	})

	r.Route("/api/projecttasks", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(anyOperator)

		r.Post("/", taskHandler.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.Get)
			r.Put("/", taskHandler.Update)
			r.Delete("/", taskHandler.Delete)
			r.Post("/finish", taskHandler.Finish)
		})
	})

	r.Get("/health", handlers.HealthCheck(a.health))
	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("App: server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Shutdown()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("App: shutting down")
	err := a.server.Shutdown(shutdownCtx)
	a.Shutdown()
	return err
}

// Shutdown runs the registered cleanup hooks in reverse order.
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

type pgStore struct{ *postgres.Storage }

func (s *pgStore) Users() service.UserRepository       { return s.Storage.Users() }
func (s *pgStore) Projects() service.ProjectRepository { return s.Storage.Projects() }
func (s *pgStore) Tasks() service.TaskRepository       { return s.Storage.Tasks() }

func (s *pgStore) EnsureRole(ctx context.Context, name string) error {
	return s.Storage.Users().EnsureRole(ctx, name)
}

type memStore struct{ *inmemory.Storage }

func (s *memStore) Users() service.UserRepository       { return s.Storage.Users() }
func (s *memStore) Projects() service.ProjectRepository { return s.Storage.Projects() }
func (s *memStore) Tasks() service.TaskRepository       { return s.Storage.Tasks() }

package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cdazamolina/ProjectsManager/internal/config"
	"github.com/cdazamolina/ProjectsManager/internal/logger"
)

const slowQuery = 100 * time.Millisecond

type Storage struct {
	pool          *pgxpool.Pool
	migrationsDir string
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: invalid database config", err)
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnIdleTime = cfg.IdleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: could not create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return &Storage{pool: pool, migrationsDir: "internal/migrations"}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: closed all PostgreSQL connections")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Users() *UserRepo       { return &UserRepo{pool: s.pool} }
func (s *Storage) Projects() *ProjectRepo { return &ProjectRepo{pool: s.pool} }
func (s *Storage) Tasks() *TaskRepo       { return &TaskRepo{pool: s.pool} }

// SetMigrationsDir overrides the default location; tests use it.
func (s *Storage) SetMigrationsDir(dir string) {
	s.migrationsDir = dir
}

// Migrate applies the versioned .up.sql files in order.
func (s *Storage) Migrate(ctx context.Context) error {
	return s.apply(ctx, []string{"001_init.up.sql", "002_indexes.up.sql"})
}

// Down rolls the schema back, newest first.
func (s *Storage) Down(ctx context.Context) error {
	return s.apply(ctx, []string{"002_indexes.down.sql", "001_init.down.sql"})
}

func (s *Storage) apply(ctx context.Context, files []string) error {
	for _, name := range files {
		sql, err := os.ReadFile(filepath.Join(s.migrationsDir, name))
		if err != nil {
			logger.Error("Repository: could not read migration", err)
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			logger.Error("Repository: could not apply migration", err)
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Info("Repository: applied migration " + name)
	}
	return nil
}

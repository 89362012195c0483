package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const minSecretLen = 32

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	JWT        JWTConfig        `yaml:"jwt"`
	Mail       MailConfig       `yaml:"mail"`
	Seed       SeedConfig       `yaml:"seed"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int           `yaml:"max_connections"`
	MinConnections int           `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // "postgres" or "inmemory"
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type MailConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	From         string        `yaml:"from"`
	DisplayName  string        `yaml:"display_name"`
	Password     string        `yaml:"password"`
	TemplatePath string        `yaml:"template_path"`
	SendTimeout  time.Duration `yaml:"send_timeout"`
}

type SeedConfig struct {
	AdminUsername string `yaml:"admin_username"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var cfg Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if value, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.JWT.Secret = value
	}
	if value, ok := os.LookupEnv("MAIL_PASSWORD"); ok {
		cfg.Mail.Password = value
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// A missing or short signing key is a configuration error, not something
// to discover on the first login request.
func (c *Config) validate() error {
	if len(c.JWT.Secret) < minSecretLen {
		return fmt.Errorf("jwt secret must be at least %d bytes, got %d", minSecretLen, len(c.JWT.Secret))
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 24 * time.Hour
	}
	if c.Mail.SendTimeout == 0 {
		c.Mail.SendTimeout = 15 * time.Second
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

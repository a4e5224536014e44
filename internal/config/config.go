package config

import (
	"os"
	"path/filepath"
)

// Config holds all Planwise settings.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Together TogetherConfig `mapstructure:"together"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig configures token signing.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// TogetherConfig configures the roadmap generation backend.
type TogetherConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":5000"},
		Database: DatabaseConfig{Path: defaultDBPath()},
		Auth:     AuthConfig{JWTSecret: "dev-secret-change-me"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planwise/planwise.db"
	}
	return filepath.Join(home, ".planwise", "planwise.db")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".planwise", "config.yaml")
}

// ProjectConfigPath returns the path to the per-project config file.
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".planwise", "config.yaml")
}

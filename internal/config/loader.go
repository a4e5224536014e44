package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load merges configuration from defaults, the global and project YAML files,
// a .env file in the working directory, and environment variables. Later
// sources override earlier ones.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := loadFile(GlobalConfigPath(), cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err := loadFile(ProjectConfigPath(), cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv("PLANWISE_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if path := os.Getenv("PLANWISE_DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if key := os.Getenv("TOGETHER_API_KEY"); key != "" {
		cfg.Together.APIKey = key
	}
}

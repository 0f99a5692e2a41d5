package config

import (
	"fmt"
	"os"
)

// Environment represents the buildlens environment
type Environment string

const (
	EnvProd  Environment = "prod"
	EnvDev   Environment = "dev"
	EnvLocal Environment = "local"
)

// EnvConfig holds environment-specific URLs and settings
type EnvConfig struct {
	VaultURL string
}

// GetEnvironment returns the current environment from BUILDLENS_ENV
func GetEnvironment() Environment {
	env := os.Getenv("BUILDLENS_ENV")
	if env == "" {
		return EnvProd
	}

	switch Environment(env) {
	case EnvProd, EnvDev, EnvLocal:
		return Environment(env)
	default:
		return EnvProd
	}
}

// GetEnvConfig returns the configuration for the specified environment
func GetEnvConfig(env Environment) (*EnvConfig, error) {
	switch env {
	case EnvProd:
		return &EnvConfig{
			VaultURL: getEnvOrDefault("LOGVAULT_URL", "https://logvault.buildlens.io"),
		}, nil
	case EnvDev:
		return &EnvConfig{
			VaultURL: getEnvOrDefault("LOGVAULT_URL", "https://dev-logvault.buildlens.io"),
		}, nil
	case EnvLocal:
		return &EnvConfig{
			VaultURL: getEnvOrDefault("LOGVAULT_URL", "http://localhost:4180"),
		}, nil
	default:
		return nil, fmt.Errorf("invalid environment: %s", env)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".buildlens"
	DefaultConfigFile = "config.yaml"
)

// Config holds the CLI configuration
type Config struct {
	environment      Environment
	envConfig        *EnvConfig
	LogGroup         string
	APIToken         string
	SkipVersionCheck bool
	LogLevel         string
	TelemetryEnabled *bool // Pointer to distinguish between unset (nil) and explicitly set (true/false)
}

// ValidUserFacingConfigKeys lists config keys that users should interact with
var ValidUserFacingConfigKeys = map[string]bool{
	// Global settings
	"skipversioncheck": true,
	"loglevel":         true,
	"telemetry":        true,

	// Environment-specific settings (user doesn't need to know about env prefixes)
	"loggroup": true,
	"apitoken": true,
}

// IsValidUserFacingKey checks if a config key is a recognized user-facing key
func IsValidUserFacingKey(key string) bool {
	return ValidUserFacingConfigKeys[key]
}

// GetConfigKeyDescription returns a description for a config key
func GetConfigKeyDescription(key string) string {
	descriptions := map[string]string{
		"skipversioncheck": "Disable automatic version update checks (true/false)",
		"loglevel":         "Logging level (debug/info/warn/error, default: info)",
		"telemetry":        "Enable error telemetry and crash reporting (true/false, default: true)",
		"loggroup":         "Log vault group containing the build log streams",
		"apitoken":         "Bearer token used to authenticate against the log vault API",
	}
	return descriptions[key]
}

// GetEnvironmentPrefixedKey returns the key with environment prefix
// For user-facing commands, users work with unprefixed keys (e.g., "loggroup")
// This function adds the environment prefix (e.g., "dev-loggroup") automatically
func GetEnvironmentPrefixedKey(key string, env Environment) string {
	// Global keys (not environment-specific)
	globalKeys := map[string]bool{
		"skipversioncheck": true,
		"loglevel":         true,
		"telemetry":        true,
	}

	if globalKeys[key] {
		return key
	}

	// Add environment prefix
	return getKeyPrefix(env) + key
}

// GetUserFacingKeys returns the list of keys users should interact with
func GetUserFacingKeys() []string {
	return []string{
		"skip-version-check",
		"log-level",
		"telemetry",
		"log-group",
		"api-token",
	}
}

// Load reads the configuration from ~/.buildlens/config.yaml
func Load() (*Config, error) {
	env := GetEnvironment()
	envConfig, err := GetEnvConfig(env)
	if err != nil {
		return nil, fmt.Errorf("failed to get environment config: %w", err)
	}

	// Set up Viper to read from ~/.buildlens/config.yaml
	configPath := getConfigPath()
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Create config file if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := ensureConfigDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := viper.WriteConfig(); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
	}

	// Read the config
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Get environment-specific keys
	prefix := getKeyPrefix(env)

	config := &Config{
		environment:      env,
		envConfig:        envConfig,
		LogGroup:         viper.GetString(prefix + "loggroup"),
		APIToken:         viper.GetString(prefix + "apitoken"),
		SkipVersionCheck: viper.GetBool("skipversioncheck"), // Global setting (not env-specific)
		LogLevel:         viper.GetString("loglevel"),       // Global setting (not env-specific)
	}

	// Environment variables take precedence over the config file
	if group := os.Getenv("BUILDLENS_LOG_GROUP"); group != "" {
		config.LogGroup = group
	}
	if token := os.Getenv("BUILDLENS_API_TOKEN"); token != "" {
		config.APIToken = token
	}

	// Handle telemetry setting - use pointer to distinguish unset from false
	if viper.IsSet("telemetry") {
		telemetryEnabled := viper.GetBool("telemetry")
		config.TelemetryEnabled = &telemetryEnabled
	}

	return config, nil
}

// IsTelemetryEnabled returns whether telemetry is enabled.
// Returns true by default if not explicitly set (opt-out model).
func (c *Config) IsTelemetryEnabled() bool {
	// Check environment variable first (highest priority)
	if envVal := os.Getenv("BUILDLENS_TELEMETRY_DISABLED"); envVal != "" {
		return envVal != "true" && envVal != "1"
	}

	// Check config file setting
	if c.TelemetryEnabled != nil {
		return *c.TelemetryEnabled
	}

	// Default to enabled (opt-out model)
	return true
}

// Save writes the current configuration to disk
func Save(config *Config) error {
	prefix := getKeyPrefix(config.environment)

	viper.Set(prefix+"loggroup", config.LogGroup)
	viper.Set(prefix+"apitoken", config.APIToken)
	viper.Set("skipversioncheck", config.SkipVersionCheck) // Global setting
	viper.Set("loglevel", config.LogLevel)                 // Global setting

	// Save telemetry setting if explicitly set
	if config.TelemetryEnabled != nil {
		viper.Set("telemetry", *config.TelemetryEnabled)
	}

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// getConfigPath returns the full path to the config file
func getConfigPath() string {
	if path := os.Getenv("BUILDLENS_CONFIG_PATH"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback
		return filepath.Join(".", DefaultConfigDir, DefaultConfigFile)
	}

	return filepath.Join(homeDir, DefaultConfigDir, DefaultConfigFile)
}

// Context key for storing config
type contextKey string

const configContextKey contextKey = "config"

// GetConfigFromContext retrieves the config from the command context
func GetConfigFromContext(cmd *cobra.Command) (*Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("no context available")
	}

	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not found in context")
	}

	return cfg, nil
}

// GetContextKey returns the context key used for storing config
// This is needed by root.go to store the config in context
func GetContextKey() interface{} {
	return configContextKey
}

// GetLogGroup returns the configured log group name.
// The log group is required for every retrieval; a missing value is a
// configuration error surfaced immediately, before any network call.
func (c *Config) GetLogGroup() (string, error) {
	if c.LogGroup == "" {
		return "", fmt.Errorf("no log group configured. Set it with 'buildlens config set log-group NAME' or the BUILDLENS_LOG_GROUP environment variable")
	}

	return c.LogGroup, nil
}

// SetLogGroup sets and saves the log group name
func (c *Config) SetLogGroup(group string) error {
	if group == "" {
		return fmt.Errorf("log group name must not be empty")
	}

	c.LogGroup = group
	return Save(c)
}

// ensureConfigDir ensures the config directory exists
func ensureConfigDir() error {
	configPath := getConfigPath()
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755) //nolint:gosec // Config directory needs standard permissions
}

// getKeyPrefix returns the environment-specific key prefix
func getKeyPrefix(env Environment) string {
	if env == EnvProd {
		return ""
	}
	return string(env) + "-"
}

// GetEnvConfig returns the environment configuration
func (c *Config) GetEnvConfig() *EnvConfig {
	return c.envConfig
}

// GetLogLevel returns the configured log level as slog.Level
// Defaults to Info if not set or invalid
func (c *Config) GetLogLevel() slog.Level {
	if c.LogLevel == "" {
		return slog.LevelInfo
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

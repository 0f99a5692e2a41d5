package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/buildlens/buildlens/pkg/config"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value from ~/.buildlens/config.yaml

Examples:
  buildlens config get log-group
  buildlens config get skip-version-check`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	key := args[0]

	// Normalize the key (convert kebab-case to lowercase)
	normalizedKey := strings.ToLower(strings.ReplaceAll(key, "-", ""))

	if !config.IsValidUserFacingKey(normalizedKey) {
		return fmt.Errorf("'%s' is not a recognized configuration key. Run 'buildlens config set --help' for valid keys", key)
	}

	// Get the environment-prefixed key (e.g., "loggroup" → "dev-loggroup" in dev)
	env := config.GetEnvironment()
	actualKey := config.GetEnvironmentPrefixedKey(normalizedKey, env)

	if !viper.IsSet(actualKey) {
		return fmt.Errorf("configuration key '%s' not set", key)
	}

	value := viper.Get(actualKey)
	fmt.Println(value)

	return nil
}

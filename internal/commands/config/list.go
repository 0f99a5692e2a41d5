package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/buildlens/buildlens/pkg/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration",
		Long: `List all configuration keys and values from ~/.buildlens/config.yaml

Example:
  buildlens config list`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
}

// displayNames maps normalized keys to their kebab-case display form
var displayNames = map[string]string{
	"skipversioncheck": "skip-version-check",
	"loglevel":         "log-level",
	"telemetry":        "telemetry",
	"loggroup":         "log-group",
	"apitoken":         "api-token",
}

func runList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	env := config.GetEnvironment()
	envPrefix := ""
	if env != config.EnvProd {
		envPrefix = string(env) + "-"
	}

	settings := viper.AllSettings()

	if len(settings) == 0 {
		fmt.Println("No configuration found")
		return nil
	}

	type item struct {
		displayKey string
		value      any
	}
	var displayItems []item

	globalKeys := map[string]bool{
		"skipversioncheck": true,
		"loglevel":         true,
		"telemetry":        true,
	}

	for key, val := range settings {
		if globalKeys[key] {
			displayItems = append(displayItems, item{displayNames[key], val})
			continue
		}

		// Environment-specific keys, shown without their prefix
		if envPrefix != "" && !strings.HasPrefix(key, envPrefix) {
			continue
		}
		userFacingKey := strings.TrimPrefix(key, envPrefix)
		display, ok := displayNames[userFacingKey]
		if !ok {
			continue
		}

		// Don't print secrets
		if userFacingKey == "apitoken" {
			val = "****"
		}
		displayItems = append(displayItems, item{display, val})
	}

	if len(displayItems) == 0 {
		fmt.Println("No configuration found for current environment")
		return nil
	}

	sort.Slice(displayItems, func(i, j int) bool {
		return displayItems[i].displayKey < displayItems[j].displayKey
	})

	for _, it := range displayItems {
		fmt.Printf("%s: %v\n", it.displayKey, it.value)
	}

	return nil
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	configCmd "github.com/buildlens/buildlens/internal/commands/config"
	"github.com/buildlens/buildlens/internal/ui"
	"github.com/buildlens/buildlens/internal/version"
	buildlens_bugsnag "github.com/buildlens/buildlens/pkg/bugsnag"
	"github.com/buildlens/buildlens/pkg/config"
	"github.com/buildlens/buildlens/pkg/lenslog"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "buildlens",
		Short: "Buildlens CLI",
		Long:  "Command line interface for retrieving and reassembling build logs from the log vault",
		// Silence errors - we handle them in main.go
		// Note: SilenceUsage is NOT set here so unknown commands show usage.
		// Individual commands set cmd.SilenceUsage = true to hide usage on errors.
		SilenceErrors: true,
		// Load config once and store in context for all subcommands
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")

			displayOpts, err := ui.NewDisplayConfig(cmd, verbose)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error getting display options: %v\n", err)
				os.Exit(1)
			}

			// Load config first (needed to get the configured log level)
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				os.Exit(1)
			}

			if verbose {
				logFile, err := lenslog.Setup(displayOpts.IsInteractive, cfg.GetLogLevel())
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error setting up logger: %v\n", err)
					os.Exit(1)
				}

				// Print log file location if logging to file
				if logFile != "" {
					fmt.Fprintf(os.Stderr, "Debug logs: %s\n", logFile)
				}
			} else {
				lenslog.Disable()
			}

			slog.Debug("Config loaded successfully")

			// Tag error reports with the invoked command
			buildlens_bugsnag.SetCommandContext(cmd.Name(), args)

			// Store config and display options in context so subcommands can access them
			ctx := context.WithValue(cmd.Context(), config.GetContextKey(), cfg)
			ctx = context.WithValue(ctx, ui.GetDisplayConfigContextKey(), displayOpts)
			cmd.SetContext(ctx)

			// Run version check (skip for version and config commands)
			if cmd.Name() != "version" && cmd.Name() != "config" {
				version.PrintUpdateNotification(cmd.Context(), cfg.SkipVersionCheck)
			}
		},
	}

	// Global flags (persistent flags are inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output and animations")
	rootCmd.PersistentFlags().Bool("no-ansi", false, "Disable colored output and animations (equivalent to --no-color)")
	rootCmd.PersistentFlags().Bool("disable-animation", false, "Disable animations but keep colors")

	rootCmd.AddCommand(NewLogsCmd())
	rootCmd.AddCommand(NewExportCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(configCmd.NewConfigCmd())

	return rootCmd
}

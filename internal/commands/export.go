package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/buildlens/buildlens/internal/retrieve"
	"github.com/buildlens/buildlens/internal/store"
	"github.com/buildlens/buildlens/internal/ui"
	"github.com/buildlens/buildlens/pkg/config"
)

const maxConcurrentStepFetches = 4

func NewExportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export BUILD_ID",
		Short: "Export a build's logs to files",
		Long: `Export the whole-build log plus one file per step into a directory.

The overall log goes to <dir>/build.log and each step's segment to
<dir>/step-<id>.log.

Example:
  buildlens export 42 --out ./42-logs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportCommand(cmd, args[0], outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to write log files into (required)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExportCommand(cmd *cobra.Command, buildID, outDir string) error {
	cmd.SilenceUsage = true

	cfg, err := config.GetConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get config: %w", err))
	}

	group, err := cfg.GetLogGroup()
	if err != nil {
		return ui.NewConfigurationError(err)
	}

	client, err := store.Shared(cfg)
	if err != nil {
		return ui.NewConfigurationError(fmt.Errorf("failed to create log vault client: %w", err))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return ui.NewFileSystemError(fmt.Errorf("failed to create output directory: %w", err))
	}

	// One shared tracker: the overall fetch seeds it, step fetches reuse it
	tracker := retrieve.NewTimestampTracker()
	retriever, err := retrieve.New(client, group, tracker)
	if err != nil {
		return ui.NewConfigurationError(err)
	}

	overall, err := retriever.OverallLog(cmd.Context(), buildID, true, retrieve.Options{})
	if err != nil {
		return ui.NewAPIError(err)
	}

	overallPath := filepath.Join(outDir, "build.log")
	if err := os.WriteFile(overallPath, overall.Bytes(), 0o644); err != nil {
		return ui.NewFileSystemError(fmt.Errorf("failed to write %s: %w", overallPath, err))
	}
	fmt.Printf("Wrote %s (%s)\n", overallPath, ui.FormatSize(overall.Size()))

	stepIDs := overall.StepIDs()

	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(maxConcurrentStepFetches)

	for _, stepID := range stepIDs {
		eg.Go(func() error {
			// Each step gets its own retriever; only the tracker is shared
			stepRetriever, err := retrieve.New(client, group, tracker)
			if err != nil {
				return err
			}

			log, err := stepRetriever.StepLog(ctx, buildID, stepID, true, retrieve.Options{})
			if err != nil {
				return fmt.Errorf("step %s: %w", stepID, err)
			}

			path := filepath.Join(outDir, fmt.Sprintf("step-%s.log", stepID))
			if err := os.WriteFile(path, log.Bytes(), 0o644); err != nil {
				return fmt.Errorf("step %s: %w", stepID, err)
			}

			fmt.Printf("Wrote %s (%s)\n", path, ui.FormatSize(log.Size()))
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return ui.NewAPIError(fmt.Errorf("failed to export step logs: %w", err))
	}

	fmt.Printf("Exported build %s: %d step(s) to %s\n", buildID, len(stepIDs), outDir)
	if !overall.Complete() {
		fmt.Fprintln(os.Stderr, ui.FormatCompleteness(false))
	}

	return nil
}

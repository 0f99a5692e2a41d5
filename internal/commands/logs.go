package commands

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/buildlens/buildlens/internal/render"
	"github.com/buildlens/buildlens/internal/retrieve"
	"github.com/buildlens/buildlens/internal/store"
	"github.com/buildlens/buildlens/internal/timeutil"
	"github.com/buildlens/buildlens/internal/ui"
	"github.com/buildlens/buildlens/internal/ui/logging"
	"github.com/buildlens/buildlens/pkg/config"
)

const (
	formatConsole = "console"
	formatPlain   = "plain"
	formatHTML    = "html"
)

type logsOptions struct {
	stepID   string
	follow   bool
	markers  bool
	complete bool
	format   string
	since    string
}

func NewLogsCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs BUILD_ID",
		Short: "View logs for a build",
		Long: `Fetch and display the reassembled log of a build.

Examples:
  # Print the whole interleaved build log
  buildlens logs 42

  # Print one step's log segment
  buildlens logs 42 --step 3

  # Print with step boundary markers
  buildlens logs 42 --markers

  # Emit the detailed HTML rendering
  buildlens logs 42 --format html

  # Follow a running build until its log is complete
  buildlens logs 42 --follow --complete

  # Only events from the last two hours
  buildlens logs 42 --since 2h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsCommand(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.stepID, "step", "", "Show only this step's log segment")
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Poll for new log lines until the log is complete")
	cmd.Flags().BoolVar(&opts.markers, "markers", false, "Annotate the whole-build log with step boundary markers")
	cmd.Flags().BoolVar(&opts.complete, "complete", false, "Assert that the build's execution has finished, enabling the completeness check")
	cmd.Flags().StringVar(&opts.format, "format", formatConsole, "Output format: console, plain or html")
	cmd.Flags().StringVar(&opts.since, "since", "", "Show logs since timestamp. Supports relative ('w|d|h|m|s') or absolute ('YYYY-MM-DD HH:mm:ss')")

	return cmd
}

func runLogsCommand(cmd *cobra.Command, buildID string, opts logsOptions) error {
	cmd.SilenceUsage = true

	switch opts.format {
	case formatConsole, formatPlain, formatHTML:
	default:
		return ui.NewValidationError(fmt.Errorf("unknown --format %q: use console, plain or html", opts.format))
	}

	// Boundary markers come from the whole-build line index, which
	// step-scoped retrievals do not carry
	annotated := opts.markers || opts.format == formatHTML
	if annotated && opts.stepID != "" {
		return ui.NewValidationError(fmt.Errorf("--markers and --format html apply to whole-build logs, not --step"))
	}
	if annotated && opts.follow {
		return ui.NewValidationError(fmt.Errorf("--markers and --format html cannot be combined with --follow"))
	}
	if opts.markers && opts.format == formatPlain {
		return ui.NewValidationError(fmt.Errorf("--markers requires --format console or html"))
	}

	cfg, err := config.GetConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get config: %w", err))
	}

	group, err := cfg.GetLogGroup()
	if err != nil {
		return ui.NewConfigurationError(err)
	}

	var startTime *int64
	if opts.since != "" {
		millis, err := timeutil.ParseSinceMillis(opts.since)
		if err != nil {
			return ui.NewValidationError(err)
		}
		startTime = &millis
	}

	client, err := store.Shared(cfg)
	if err != nil {
		return ui.NewConfigurationError(fmt.Errorf("failed to create log vault client: %w", err))
	}

	retriever, err := retrieve.New(client, group, retrieve.NewTimestampTracker())
	if err != nil {
		return ui.NewConfigurationError(err)
	}

	if opts.follow {
		return followLogs(cmd, retriever, buildID, opts, startTime)
	}

	retrieveOpts := retrieve.Options{StartTime: startTime}

	var log *render.RenderedLog
	if opts.stepID != "" {
		log, err = retriever.StepLog(cmd.Context(), buildID, opts.stepID, opts.complete, retrieveOpts)
	} else {
		log, err = retriever.OverallLog(cmd.Context(), buildID, opts.complete, retrieveOpts)
	}
	if err != nil {
		return ui.NewAPIError(err)
	}

	if opts.stepID != "" && opts.format == formatConsole {
		fmt.Fprintln(os.Stderr, ui.FormatStepTitle(opts.stepID))
	}

	switch {
	case opts.format == formatHTML:
		err = log.AnnotateFrom(0, render.NewHTMLAnnotator(os.Stdout))
	case opts.markers:
		err = log.AnnotateFrom(0, render.NewConsoleAnnotator(os.Stdout))
	default:
		_, err = log.WriteFrom(os.Stdout, 0)
	}
	if err != nil {
		return ui.NewInternalError(fmt.Errorf("failed to write log output: %w", err))
	}

	// The verdict is only meaningful when the caller asserted the build
	// finished
	if opts.complete {
		fmt.Fprintln(os.Stderr, ui.FormatCompleteness(log.Complete()))
	}

	return nil
}

// followLogs runs the polling provider under the Bubbletea viewer until the
// log is complete or the user cancels
func followLogs(cmd *cobra.Command, retriever *retrieve.Retriever, buildID string, opts logsOptions, startTime *int64) error {
	displayOpts, err := ui.GetDisplayConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get display options: %w", err))
	}

	provider := logging.NewPollingProvider(logging.PollingProviderConfig{
		Retriever:     retriever,
		BuildID:       buildID,
		StepID:        opts.stepID,
		BuildFinished: opts.complete,
		StartTime:     startTime,
	})

	model := logging.NewLogViewer(cmd.Context(), logging.LogViewerConfig{
		DisplayConfig: displayOpts,
		Provider:      provider,
	})

	var programOpts []tea.ProgramOption
	if !displayOpts.IsInteractive {
		programOpts = append(programOpts,
			tea.WithoutRenderer(),
			tea.WithInput(nil),
		)
	}

	p := tea.NewProgram(model, programOpts...)

	ui.SetupSignalHandling(p, 0)

	finalModel, err := p.Run()
	if err != nil {
		return ui.NewInternalError(fmt.Errorf("program error: %w", err))
	}

	//nolint:errcheck // Type assertion guaranteed by Bubbletea model structure
	m := finalModel.(*logging.LogViewerModel)
	if err := m.Error(); err != nil {
		var uiErr *ui.UIError
		if errors.As(err, &uiErr) {
			if uiErr.SilentExit {
				return nil
			}
			return uiErr
		}
		return ui.NewAPIError(err)
	}

	return nil
}

// Package bugsnag provides error tracking and monitoring for the buildlens CLI.
// It automatically captures errors, panics, and system metadata to help diagnose issues in production.
package bugsnag

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/bugsnag/bugsnag-go/v2"
	"github.com/buildlens/buildlens/internal/version"
	"github.com/buildlens/buildlens/pkg/config"
)

// Build-time variables that can be set via ldflags
// Example: go build -ldflags "-X github.com/buildlens/buildlens/pkg/bugsnag.BugsnagAPIKey=your-key"
var (
	// BugsnagAPIKey is the API key for error reporting, injected at compile time.
	// If not set during build, error reporting will be disabled.
	BugsnagAPIKey = ""

	// DefaultReleaseStage defines the default environment for error reporting.
	// Can be overridden at compile time via ldflags.
	DefaultReleaseStage = "prod"
)

// initialized tracks whether Bugsnag has been initialized
var initialized bool

// enabled tracks whether Bugsnag error reporting is actually active
var enabled bool

// Initialize configures the Bugsnag error reporting client.
// It sets up automatic error capture and system metadata collection.
// This function is idempotent and thread-safe for concurrent initialization.
// If BugsnagAPIKey is not set at compile time or telemetry is disabled, error reporting will be silently disabled.
func Initialize() error {
	if initialized {
		return nil
	}

	// Check if telemetry is disabled by user
	cfg, _ := config.Load() // Ignore error - proceed with default behavior if config unavailable
	if cfg != nil && !cfg.IsTelemetryEnabled() {
		initialized = true
		enabled = false
		return nil
	}

	// Skip initialization if API key was not provided at compile time
	if BugsnagAPIKey == "" {
		initialized = true // Mark as initialized to prevent repeated checks
		enabled = false
		return nil
	}

	// Allow environment variable override for API key if needed
	apiKey := BugsnagAPIKey
	if envKey := os.Getenv("BUGSNAG_API_KEY"); envKey != "" {
		apiKey = envKey
	}

	releaseStage := os.Getenv("BUILDLENS_ENV")
	if releaseStage == "" {
		releaseStage = DefaultReleaseStage
	}

	appVersion := version.Version
	if appVersion == "" {
		appVersion = "dev"
	}

	// Configure Bugsnag with production-ready settings
	bugsnag.Configure(bugsnag.Configuration{
		APIKey:              apiKey,
		ReleaseStage:        releaseStage,
		AppVersion:          appVersion,
		AppType:             "cli",
		ProjectPackages:     []string{"main", "github.com/buildlens/buildlens"},
		NotifyReleaseStages: []string{"prod", "dev", "local"},
		PanicHandler:        func() {}, // Manual panic handling for better control
		Synchronous:         false,     // Asynchronous error reporting for performance
		AutoCaptureSessions: true,      // Track CLI session health metrics
	})

	// Enrich error reports with system information
	addSystemMetadata()

	// Attach log-group context for better error attribution
	setGroupContext()

	initialized = true
	enabled = true
	return nil
}

// IsEnabled returns whether Bugsnag error reporting is active.
// This will be false if no API key was provided at compile time.
func IsEnabled() bool {
	return enabled
}

// addSystemMetadata enriches error reports with runtime environment information.
// This includes OS details, architecture, Go version, and resource utilization metrics.
func addSystemMetadata() {
	systemInfo := bugsnag.MetaData{
		"system": {
			"os_type":       runtime.GOOS,
			"os_arch":       runtime.GOARCH,
			"go_version":    runtime.Version(),
			"num_cpu":       runtime.NumCPU(),
			"num_goroutine": runtime.NumGoroutine(),
		},
	}

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, bugsnagConfig *bugsnag.Configuration) error {
		for tab, data := range systemInfo {
			for key, value := range data {
				event.MetaData.Add(tab, key, value)
			}
		}
		return nil
	})
}

// setGroupContext attaches the configured log group to error reports so that
// misconfiguration reports can be correlated with the store namespace queried.
// The API token is never transmitted.
func setGroupContext() {
	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, bugsnagConfig *bugsnag.Configuration) error {
		// Load config to get group context - ignore errors to avoid blocking error reporting
		cfg, _ := config.Load()
		if cfg == nil {
			return nil
		}

		if cfg.LogGroup != "" {
			event.MetaData.Add("vault", "log_group", cfg.LogGroup)
		}

		return nil
	})
}

// NotifyError reports critical errors that indicate system failures or unexpected behavior.
// These errors typically require immediate attention and may affect user functionality.
func NotifyError(ctx context.Context, err error) {
	if !initialized {
		_ = Initialize()
	}

	if !enabled || err == nil {
		return
	}

	_ = bugsnag.Notify(err, ctx, bugsnag.SeverityError)
}

// NotifyOnPanic captures and reports panic conditions before propagating them.
// Always use with defer at the start of goroutines and main functions for comprehensive panic tracking.
func NotifyOnPanic(ctx context.Context) {
	if r := recover(); r != nil {
		var err error
		switch x := r.(type) {
		case string:
			err = fmt.Errorf("panic: %s", x)
		case error:
			err = fmt.Errorf("panic: %w", x)
		default:
			err = fmt.Errorf("panic: %v", r)
		}

		// Report panic as critical error
		NotifyError(ctx, err)

		// Preserve panic behavior for proper error handling
		panic(r)
	}
}

// SetCommandContext tracks which CLI command triggered an error for better debugging.
// This metadata helps identify command-specific issues and usage patterns.
func SetCommandContext(command string, args []string) {
	if !initialized {
		_ = Initialize()
	}

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, bugsnagConfig *bugsnag.Configuration) error {
		event.MetaData.Add("command", "name", command)
		if len(args) > 0 {
			event.MetaData.Add("command", "args", strings.Join(args, " "))
		}
		return nil
	})
}

// IsUserCancellation identifies errors from user-initiated cancellations.
// These errors are excluded from reporting as they represent normal user behavior, not system issues.
func IsUserCancellation(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") ||
		strings.Contains(errStr, "operation cancelled") ||
		strings.Contains(errStr, "user cancelled")
}

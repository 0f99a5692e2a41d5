package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/buildlens/buildlens/internal/commands"
	buildlens_bugsnag "github.com/buildlens/buildlens/pkg/bugsnag"
)

func main() {
	// Initialize Bugsnag error tracking
	if err := buildlens_bugsnag.Initialize(); err != nil {
		// Don't fail if Bugsnag initialization fails, just log it
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize error tracking: %v\n", err)
	}

	// Recover from panics and report them to Bugsnag
	defer buildlens_bugsnag.NotifyOnPanic(context.Background())

	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Commands handle their own error presentation logic.
		// If we get an error here, check if it's an unknown command error
		// and show usage if so.
		errMsg := err.Error()
		if strings.HasPrefix(errMsg, "unknown command") {
			// We've suppressed usage for commands, so show it manually here
			_ = rootCmd.Usage()
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, err)
		} else if strings.HasPrefix(errMsg, "unknown flag") {
			// Cobra already showed usage, don't duplicate
			fmt.Fprintln(os.Stderr, err)
		} else {
			// Cancellations are normal user behavior, not reportable failures
			if !buildlens_bugsnag.IsUserCancellation(err) {
				buildlens_bugsnag.NotifyError(context.Background(), err)
			}
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

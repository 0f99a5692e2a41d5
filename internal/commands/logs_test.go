package commands

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildlens/buildlens/internal/ui"
)

func TestLogsCommand_FlagValidation(t *testing.T) {
	tcs := []struct {
		name        string
		opts        logsOptions
		errContains string
	}{
		{
			name:        "unknown format",
			opts:        logsOptions{format: "yaml"},
			errContains: "unknown --format",
		},
		{
			name:        "markers with step scope",
			opts:        logsOptions{format: formatConsole, markers: true, stepID: "3"},
			errContains: "whole-build",
		},
		{
			name:        "html with step scope",
			opts:        logsOptions{format: formatHTML, stepID: "3"},
			errContains: "whole-build",
		},
		{
			name:        "markers with follow",
			opts:        logsOptions{format: formatConsole, markers: true, follow: true},
			errContains: "--follow",
		},
		{
			name:        "markers with plain format",
			opts:        logsOptions{format: formatPlain, markers: true},
			errContains: "--markers requires",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "logs"}

			err := runLogsCommand(cmd, "42", tc.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)

			var uiErr *ui.UIError
			require.True(t, errors.As(err, &uiErr))
			assert.Equal(t, ui.ErrorTypeValidation, uiErr.Type)
		})
	}
}

func TestLogsCommand_Flags(t *testing.T) {
	cmd := NewLogsCmd()

	for _, name := range []string{"step", "follow", "markers", "complete", "format", "since"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "%s flag should be defined", name)
	}

	formatFlag := cmd.Flags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, formatConsole, formatFlag.DefValue)
}

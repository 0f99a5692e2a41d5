package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buildlens/buildlens/internal/ui"
)

// LogViewerConfig contains configuration for the log viewer
type LogViewerConfig struct {
	ui.DisplayConfig

	Provider     LogProvider
	TickInterval time.Duration // UI refresh interval (default: 500ms)
}

// LogViewerModel is a Bubbletea component that drains a LogProvider. In
// interactive mode it shows a spinner and the most recent lines; in simple
// mode lines are printed directly as they arrive.
type LogViewerModel struct {
	ctx           context.Context
	config        LogViewerConfig
	spinner       *ui.SpinnerModel
	logChan       chan []Log
	doneChan      chan error
	lastLogTime   time.Time
	idleIndex     int
	logs          []Log
	isComplete    bool // Provider has finished
	logChanClosed bool // Log channel has been drained
	err           error
}

const (
	// MaxLogsInMemory is the hard limit for logs stored in memory.
	// When exceeded, oldest logs are evicted.
	MaxLogsInMemory = 10_000

	// recentLines is how many trailing lines the interactive view shows
	recentLines = 20
)

// Idle messages shown while waiting on a quiet log
var idleIntervals = []time.Duration{20 * time.Second, 60 * time.Second, 120 * time.Second}
var idleMessages = []string{
	"Waiting for new log lines...",
	"Still waiting, the build looks quiet...",
	"No new lines in a while, still watching...",
}

// NewLogViewer creates a new log viewer
func NewLogViewer(ctx context.Context, config LogViewerConfig) *LogViewerModel {
	if config.TickInterval == 0 {
		config.TickInterval = 500 * time.Millisecond
	}

	return &LogViewerModel{
		ctx:         ctx,
		config:      config,
		spinner:     ui.NewSpinner(),
		logChan:     make(chan []Log, 10), // Buffered to prevent blocking provider
		doneChan:    make(chan error, 1),
		lastLogTime: time.Now(),
	}
}

// Error returns the error if any occurred during execution
func (m *LogViewerModel) Error() error {
	return m.err
}

func (m *LogViewerModel) Init() tea.Cmd {
	// Start provider in background goroutine
	go func() {
		defer close(m.logChan)
		err := m.config.Provider.Collect(m.ctx, func(logs []Log) error {
			select {
			case m.logChan <- logs:
			case <-m.ctx.Done():
				return m.ctx.Err()
			}
			return nil
		})
		m.doneChan <- err
	}()

	return tea.Batch(
		m.spinner.Init(),
		waitForLogBatch(m.logChan),
		waitForProviderDone(m.doneChan),
		tick(m.config.TickInterval),
	)
}

// Update handles messages
func (m *LogViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case logBatchReceivedMsg:
		// A nil batch means the channel was closed
		if msg.logs == nil {
			m.logChanClosed = true
			return m, nil
		}

		for _, log := range msg.logs {
			m.logs = append(m.logs, log)

			// Direct output in simple mode
			if m.config.SimpleOutput() {
				fmt.Println(formatLogEntry(log))
			}
		}

		// Enforce memory limit, evicting oldest logs
		if len(m.logs) > MaxLogsInMemory {
			m.logs = m.logs[len(m.logs)-MaxLogsInMemory:]
		}

		if len(msg.logs) > 0 {
			m.lastLogTime = time.Now()
			m.idleIndex = 0
		}

		// Keep listening for more logs
		return m, waitForLogBatch(m.logChan)

	case providerDoneMsg:
		m.isComplete = true
		m.err = msg.err
		return m, nil

	case tickMsg:
		idleTime := time.Since(m.lastLogTime)
		for i, interval := range idleIntervals {
			if idleTime >= interval && i >= m.idleIndex {
				m.idleIndex = i + 1
				break
			}
		}

		// Only quit once the provider is done AND the log channel has been
		// drained, so no line is dropped
		if m.isComplete && m.logChanClosed {
			return m, tea.Quit
		}

		return m, tick(m.config.TickInterval)

	case ui.SignalCancelMsg:
		if m.config.SimpleOutput() {
			fmt.Fprintf(os.Stderr, "\nCancelled by user\n")
		}
		m.err = ui.NewUserCancelledError()
		m.isComplete = true
		return m, tea.Quit

	default:
		// Update spinner only in interactive mode
		if !m.config.SimpleOutput() {
			updatedSpinner, cmd := m.spinner.Update(msg)
			m.spinner = updatedSpinner.(*ui.SpinnerModel) //nolint:errcheck // Type assertion guaranteed by SpinnerModel structure
			return m, cmd
		}
	}

	return m, nil
}

// View renders the log viewer
func (m *LogViewerModel) View() string {
	// Simple mode: output already printed directly
	if m.config.SimpleOutput() {
		return ""
	}

	var output strings.Builder

	spinnerText := "Following build logs..."
	if m.idleIndex > 0 && m.idleIndex-1 < len(idleMessages) {
		spinnerText = idleMessages[m.idleIndex-1]
	}

	if !m.isComplete {
		output.WriteString(m.spinner.View())
		output.WriteString(" ")
		output.WriteString(spinnerText)
		output.WriteString("\n\n")
	}

	startIdx := 0
	if len(m.logs) > recentLines {
		startIdx = len(m.logs) - recentLines
	}

	for i := startIdx; i < len(m.logs); i++ {
		output.WriteString(formatLogEntry(m.logs[i]))
		output.WriteString("\n")
	}

	return output.String()
}

// GetLogs returns all accumulated logs
func (m *LogViewerModel) GetLogs() []Log {
	return m.logs
}

// IsComplete returns true if log collection has finished
func (m *LogViewerModel) IsComplete() bool {
	return m.isComplete
}

// Messages

type logBatchReceivedMsg struct {
	logs []Log
}

type providerDoneMsg struct {
	err error
}

type tickMsg time.Time

// Commands

func waitForLogBatch(ch <-chan []Log) tea.Cmd {
	return func() tea.Msg {
		logs, ok := <-ch
		if !ok {
			// Channel closed - signal with nil logs
			return logBatchReceivedMsg{logs: nil}
		}
		return logBatchReceivedMsg{logs: logs}
	}
}

func waitForProviderDone(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return providerDoneMsg{err: <-ch}
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Helpers

func formatLogEntry(log Log) string {
	timestamp := ui.TimestampStyle.Render(log.Timestamp.Local().Format("15:04:05.000"))
	if log.StepID != "" {
		step := ui.StepStyle.Render(fmt.Sprintf("[%s]", log.StepID))
		return fmt.Sprintf("%s %s %s", timestamp, step, log.Content)
	}
	return fmt.Sprintf("%s %s", timestamp, log.Content)
}

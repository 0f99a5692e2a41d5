package ui

import "github.com/charmbracelet/lipgloss"

var (
	GreenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	BoldStyle  = lipgloss.NewStyle().Bold(true)

	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	// Log timestamp - subtle gray to distinguish from log content
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	// Step id column in log lines
	StepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))
)

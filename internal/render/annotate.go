package render

import (
	"fmt"
	"html"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	stepBeginStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	stepEndStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ConsoleAnnotator is an AnnotatedLineSink that writes log content verbatim
// and step boundaries as styled marker lines.
type ConsoleAnnotator struct {
	w io.Writer
}

var _ AnnotatedLineSink = (*ConsoleAnnotator)(nil)

// NewConsoleAnnotator creates a console sink writing to w
func NewConsoleAnnotator(w io.Writer) *ConsoleAnnotator {
	return &ConsoleAnnotator{w: w}
}

func (c *ConsoleAnnotator) WriteLine(text []byte) error {
	_, err := fmt.Fprintf(c.w, "%s\n", text)
	return err
}

func (c *ConsoleAnnotator) BeginStep(stepID string) error {
	_, err := fmt.Fprintln(c.w, stepBeginStyle.Render(fmt.Sprintf("── step %s ──", stepID)))
	return err
}

func (c *ConsoleAnnotator) EndStep(stepID string) error {
	_, err := fmt.Fprintln(c.w, stepEndStyle.Render(fmt.Sprintf("── end of step %s ──", stepID)))
	return err
}

// HTMLAnnotator is an AnnotatedLineSink that emits escaped log lines wrapped
// in per-step container elements, for detailed build log pages.
type HTMLAnnotator struct {
	w io.Writer
}

var _ AnnotatedLineSink = (*HTMLAnnotator)(nil)

// NewHTMLAnnotator creates an HTML sink writing to w
func NewHTMLAnnotator(w io.Writer) *HTMLAnnotator {
	return &HTMLAnnotator{w: w}
}

func (h *HTMLAnnotator) WriteLine(text []byte) error {
	_, err := fmt.Fprintf(h.w, "%s\n", html.EscapeString(string(text)))
	return err
}

func (h *HTMLAnnotator) BeginStep(stepID string) error {
	_, err := fmt.Fprintf(h.w, "<span class=\"build-step\" data-step-id=%q>\n", stepID)
	return err
}

func (h *HTMLAnnotator) EndStep(_ string) error {
	_, err := fmt.Fprint(h.w, "</span>\n")
	return err
}

package testing

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
)

// TestHarness drives a Bubbletea model through a sequence of messages and
// asserts the View output and model state after each one. Commands returned
// by Update are executed and their messages fed back in, the way the
// Bubbletea runtime would, up to a fixed depth so tick loops terminate.
type TestHarness[T tea.Model] struct {
	model  T
	steps  []TestStep[T]
	goldie *goldie.Goldie
}

// TestStep is one message plus its assertions
type TestStep[T tea.Model] struct {
	// Name identifies this step in subtest and failure output
	Name string

	// Msg to send to Update(). If nil, only View() is asserted.
	Msg tea.Msg

	// ViewGolden compares View() output against testdata/<name>.golden.
	// Regenerate with: go test -update
	ViewGolden string

	// ViewAssert is a custom assertion on View() output
	ViewAssert func(t *testing.T, view string)

	// ModelAssert inspects model state after Update()
	ModelAssert func(t *testing.T, m T)

	// SkipViewAssertion skips View() entirely for this step
	SkipViewAssertion bool
}

// NewTestHarness creates a harness for the given model. The color profile is
// forced to ASCII so rendered output is byte-stable across environments. The
// model is not initialized until Run.
func NewTestHarness[T tea.Model](t *testing.T, model T) *TestHarness[T] {
	t.Helper()

	lipgloss.SetColorProfile(termenv.Ascii)

	return &TestHarness[T]{
		model: model,
		goldie: goldie.New(t,
			goldie.WithFixtureDir("testdata"),
			goldie.WithNameSuffix(".golden"),
		),
	}
}

// Step appends a test step. Steps run in the order added.
func (h *TestHarness[T]) Step(step TestStep[T]) *TestHarness[T] {
	h.steps = append(h.steps, step)
	return h
}

// Run initializes the model, then executes every step
func (h *TestHarness[T]) Run(t *testing.T) {
	t.Helper()

	h.processCommands(t, h.model.Init(), 0)

	for _, step := range h.steps {
		t.Run(step.Name, func(t *testing.T) {
			if step.Msg != nil {
				updatedModel, cmd := h.model.Update(step.Msg)
				var ok bool
				h.model, ok = updatedModel.(T)
				if !ok {
					t.Fatalf("model %T is not %T", updatedModel, new(T))
				}
				h.processCommands(t, cmd, 0)
			}

			if !step.SkipViewAssertion {
				view := normalizeView(h.model.View())

				if step.ViewGolden != "" {
					h.goldie.Assert(t, step.ViewGolden, []byte(view))
				}
				if step.ViewAssert != nil {
					step.ViewAssert(t, view)
				}
			}

			if step.ModelAssert != nil {
				step.ModelAssert(t, h.model)
			}
		})
	}
}

const maxCommandDepth = 10

// processCommands runs a command and feeds resulting messages back to Update,
// recursively, bounded by maxCommandDepth so tick commands cannot loop forever
func (h *TestHarness[T]) processCommands(t *testing.T, cmd tea.Cmd, depth int) {
	t.Helper()

	if cmd == nil {
		return
	}
	if depth >= maxCommandDepth {
		t.Log("max command depth exceeded")
		return
	}

	msg := cmd()
	if msg == nil {
		return
	}

	updatedModel, nextCmd := h.model.Update(msg)
	h.model = updatedModel.(T) //nolint:errcheck // Type assertion guaranteed by test harness generic type
	h.processCommands(t, nextCmd, depth+1)
}

// normalizeView trims surrounding whitespace and normalizes line endings for
// stable comparison
func normalizeView(view string) string {
	view = strings.TrimSpace(view)
	view = strings.ReplaceAll(view, "\r\n", "\n")
	return view
}

// AssertContains checks that the view contains a substring
func AssertContains(t *testing.T, view, substring string) {
	t.Helper()
	if !strings.Contains(view, substring) {
		t.Errorf("View does not contain expected substring.\nExpected substring: %q\nActual view:\n%s", substring, view)
	}
}

// AssertNotContains checks that the view does not contain a substring
func AssertNotContains(t *testing.T, view, substring string) {
	t.Helper()
	if strings.Contains(view, substring) {
		t.Errorf("View contains unexpected substring.\nUnexpected substring: %q\nActual view:\n%s", substring, view)
	}
}

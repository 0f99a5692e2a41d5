package render

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	// Pin the color profile so rendered output is stable regardless of the
	// terminal the tests run in
	lipgloss.SetColorProfile(termenv.Ascii)

	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestConsoleAnnotator(t *testing.T) {
	g := newGoldie(t)

	log := Indexed(scenarioLines(), false)

	var buf bytes.Buffer
	require.NoError(t, log.AnnotateFrom(0, NewConsoleAnnotator(&buf)))

	g.Assert(t, "console_markers", buf.Bytes())
}

func TestHTMLAnnotator(t *testing.T) {
	g := newGoldie(t)

	log := Indexed([]Line{
		{StepID: "3", Text: "a"},
		{StepID: "3", Text: `echo "<hello & goodbye>"`},
		{StepID: "", Text: "c"},
	}, false)

	var buf bytes.Buffer
	require.NoError(t, log.AnnotateFrom(0, NewHTMLAnnotator(&buf)))

	g.Assert(t, "html_markers", buf.Bytes())
}

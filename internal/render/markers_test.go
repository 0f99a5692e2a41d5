package render

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures the marker/line event sequence for assertions
type recordingSink struct {
	events []string
	begins int
	ends   int
	open   []string // stack of open steps, to check balance
	err    error    // returned from every call when set
}

func (s *recordingSink) WriteLine(text []byte) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, "line:"+string(text))
	return nil
}

func (s *recordingSink) BeginStep(stepID string) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, "begin:"+stepID)
	s.begins++
	s.open = append(s.open, stepID)
	return nil
}

func (s *recordingSink) EndStep(stepID string) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, "end:"+stepID)
	s.ends++
	if len(s.open) == 0 || s.open[len(s.open)-1] != stepID {
		return fmt.Errorf("end marker for %q without matching open begin", stepID)
	}
	s.open = s.open[:len(s.open)-1]
	return nil
}

func TestAnnotateFrom_Scenario(t *testing.T) {
	log := Indexed(scenarioLines(), false)

	sink := &recordingSink{}
	require.NoError(t, log.AnnotateFrom(0, sink))

	assert.Equal(t, []string{
		"begin:3",
		"line:a",
		"line:b",
		"end:3",
		"line:c",
	}, sink.events)
	assert.Empty(t, sink.open, "no step open at close, no trailing end marker")
}

func TestAnnotateFrom_TrailingEndOnFlush(t *testing.T) {
	log := Indexed([]Line{
		{StepID: "", Text: "prologue"},
		{StepID: "5", Text: "building"},
		{StepID: "5", Text: "still building"},
	}, false)

	sink := &recordingSink{}
	require.NoError(t, log.AnnotateFrom(0, sink))

	assert.Equal(t, []string{
		"line:prologue",
		"begin:5",
		"line:building",
		"line:still building",
		"end:5",
	}, sink.events)
}

func TestAnnotateFrom_StepTransitions(t *testing.T) {
	log := Indexed([]Line{
		{StepID: "1", Text: "a"},
		{StepID: "2", Text: "b"},
		{StepID: "", Text: "c"},
		{StepID: "2", Text: "d"},
	}, false)

	sink := &recordingSink{}
	require.NoError(t, log.AnnotateFrom(0, sink))

	assert.Equal(t, []string{
		"begin:1",
		"line:a",
		"end:1",
		"begin:2",
		"line:b",
		"end:2",
		"line:c",
		"begin:2",
		"line:d",
		"end:2",
	}, sink.events)
}

func TestAnnotateFrom_MarkerBalance(t *testing.T) {
	// For any id sequence, begin and end counts match and nesting is sound
	sequences := [][]string{
		{"1", "1", "2", "", "2", "3"},
		{"", "", ""},
		{"1"},
		{},
		{"1", "2", "3", "4", "5"},
		{"", "1", "", "1", ""},
	}

	for i, ids := range sequences {
		t.Run(fmt.Sprintf("sequence_%d", i), func(t *testing.T) {
			lines := make([]Line, len(ids))
			for j, id := range ids {
				lines[j] = Line{StepID: id, Text: fmt.Sprintf("l%d", j)}
			}

			sink := &recordingSink{}
			require.NoError(t, Indexed(lines, false).AnnotateFrom(0, sink))
			assert.Equal(t, sink.begins, sink.ends, "every begin marker has a matching end marker")
			assert.Empty(t, sink.open)
		})
	}
}

func TestAnnotateFrom_Offset(t *testing.T) {
	log := Indexed(scenarioLines(), false) // content "a\nb\nc\n"

	// Offset 2 lands on line "b" (one newline precedes it); the re-render
	// resumes there and opens step 3 fresh
	sink := &recordingSink{}
	require.NoError(t, log.AnnotateFrom(2, sink))
	assert.Equal(t, []string{
		"begin:3",
		"line:b",
		"end:3",
		"line:c",
	}, sink.events)

	// Offset past the end emits nothing
	sink = &recordingSink{}
	require.NoError(t, log.AnnotateFrom(100, sink))
	assert.Empty(t, sink.events)
}

func TestAnnotateFrom_OffsetAfterMultiLineMessage(t *testing.T) {
	log := Indexed([]Line{
		{StepID: "3", Text: "a\nb"},
		{StepID: "", Text: "c"},
	}, false) // content "a\nb\nc\n"

	// Offset 4 is the start of line "c". The multi-line event before it
	// counts as two physical lines, so the re-render must not skip "c".
	sink := &recordingSink{}
	require.NoError(t, log.AnnotateFrom(4, sink))
	assert.Equal(t, []string{"line:c"}, sink.events)
}

func TestAnnotateFrom_MidLineOffset(t *testing.T) {
	log := Indexed(scenarioLines(), false)

	// An offset inside a line re-emits the whole containing line: the
	// newline count up to the offset identifies the logical line
	sink := &recordingSink{}
	require.NoError(t, log.AnnotateFrom(1, sink))
	assert.Equal(t, "line:a", sink.events[1])
}

func TestAnnotateFrom_RequiresIndexedRender(t *testing.T) {
	log := Flat(scenarioLines(), false)

	err := log.AnnotateFrom(0, &recordingSink{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexed")
}

func TestAnnotateFrom_SinkErrorPropagates(t *testing.T) {
	log := Indexed(scenarioLines(), false)

	sink := &recordingSink{err: fmt.Errorf("downstream closed")}
	err := log.AnnotateFrom(0, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "downstream closed")
}

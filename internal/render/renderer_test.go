package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioLines is the canonical three-event build: two step-3 lines
// followed by one build-level line.
func scenarioLines() []Line {
	return []Line{
		{Timestamp: 1, StepID: "3", Text: "a"},
		{Timestamp: 2, StepID: "3", Text: "b"},
		{Timestamp: 3, StepID: "", Text: "c"},
	}
}

func TestFlat(t *testing.T) {
	log := Flat(scenarioLines(), false)

	assert.Equal(t, "a\nb\nc\n", string(log.Bytes()))
	assert.Equal(t, int64(6), log.Size())
	assert.Equal(t, 3, log.LineCount())
	assert.False(t, log.Indexed())

	_, ok := log.StepIDForLine(0)
	assert.False(t, ok, "flat renders carry no line index")
}

func TestIndexed(t *testing.T) {
	log := Indexed(scenarioLines(), false)

	assert.Equal(t, "a\nb\nc\n", string(log.Bytes()))
	assert.True(t, log.Indexed())

	// idsByLine corresponds exactly to the step attributed to each line
	expected := []string{"3", "3", ""}
	for i, want := range expected {
		id, ok := log.StepIDForLine(i)
		require.True(t, ok)
		assert.Equal(t, want, id)
	}

	_, ok := log.StepIDForLine(3)
	assert.False(t, ok)
	_, ok = log.StepIDForLine(-1)
	assert.False(t, ok)
}

func TestIndexed_StepIDs(t *testing.T) {
	log := Indexed([]Line{
		{StepID: "", Text: "prologue"},
		{StepID: "1", Text: "x"},
		{StepID: "2", Text: "y"},
		{StepID: "1", Text: "z"},
	}, false)

	assert.Equal(t, []string{"1", "2"}, log.StepIDs(), "first appearance order, no-step lines skipped")
}

func TestIndexed_MultiLineMessage(t *testing.T) {
	// An event whose message spans several lines splits into one Line per
	// physical line, with the step id attributed to every piece
	log := Indexed([]Line{
		{Timestamp: 1, StepID: "3", Text: "a\nb"},
		{Timestamp: 2, StepID: "", Text: "c"},
	}, false)

	assert.Equal(t, "a\nb\nc\n", string(log.Bytes()))
	require.Equal(t, 3, log.LineCount())

	expected := []string{"3", "3", ""}
	for i, want := range expected {
		id, ok := log.StepIDForLine(i)
		require.True(t, ok)
		assert.Equal(t, want, id)
	}
}

func TestFlat_MultiLineMessage(t *testing.T) {
	log := Flat([]Line{{Timestamp: 7, StepID: "2", Text: "x\n\ny\n"}}, false)

	assert.Equal(t, "x\n\ny\n", string(log.Bytes()))
	require.Equal(t, 3, log.LineCount())
	for _, line := range log.Lines() {
		assert.Equal(t, int64(7), line.Timestamp)
		assert.Equal(t, "2", line.StepID)
	}
}

func TestRenderBytes_TrimsTrailingNewline(t *testing.T) {
	log := Flat([]Line{{Text: "already terminated\n"}, {Text: "bare"}}, false)
	assert.Equal(t, "already terminated\nbare\n", string(log.Bytes()))
}

func TestRenderedLog_WriteFrom(t *testing.T) {
	log := Flat(scenarioLines(), false)

	tcs := []struct {
		name     string
		offset   int64
		expected string
	}{
		{name: "from zero replays everything", offset: 0, expected: "a\nb\nc\n"},
		{name: "mid-buffer", offset: 2, expected: "b\nc\n"},
		{name: "at end writes nothing", offset: 6, expected: ""},
		{name: "past end writes nothing", offset: 100, expected: ""},
		{name: "negative clamps to start", offset: -5, expected: "a\nb\nc\n"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := log.WriteFrom(&buf, tc.offset)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, buf.String())
			assert.Equal(t, int64(len(tc.expected)), n)
		})
	}
}

func TestRenderedLog_CompleteSnapshot(t *testing.T) {
	complete := Flat(nil, true)
	incomplete := Flat(nil, false)

	// The flag is fixed at construction for the session's lifetime
	assert.True(t, complete.Complete())
	assert.True(t, complete.Complete())
	assert.False(t, incomplete.Complete())
}

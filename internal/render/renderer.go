// Package render turns merged, ordered log events into a byte/line stream.
//
// A RenderedLog is one rendering session: its content, line index and
// completeness flag are fixed at construction and never change. Range replay
// (WriteFrom) and the boundary-marker pass (AnnotateFrom) both read the same
// immutable buffer.
package render

import (
	"bytes"
	"io"
	"strings"
)

// Line is one physical output line: its content, the step it originated from
// (empty for build-level output) and the source event timestamp.
// Content holds no newline: an event whose message spans several lines is
// split at construction, one Line per physical line.
type Line struct {
	Timestamp int64
	StepID    string
	Text      string
}

// RenderedLog is the rendered byte stream for one retrieval, with an optional
// line-to-step index for whole-build renders.
type RenderedLog struct {
	lines     []Line
	buf       []byte
	idsByLine []string // nil for flat renders; "" entries mean "no step"
	complete  bool
}

// Flat renders a step-scoped event sequence, no step index (the caller
// already filtered to a single step).
func Flat(lines []Line, complete bool) *RenderedLog {
	lines = normalizeLines(lines)
	l := &RenderedLog{lines: lines, complete: complete}
	l.buf = renderBytes(lines)
	return l
}

// Indexed renders a whole-build event sequence and records, in lockstep with
// line emission, the step id each physical line originated from.
func Indexed(lines []Line, complete bool) *RenderedLog {
	lines = normalizeLines(lines)
	l := &RenderedLog{lines: lines, complete: complete}
	l.buf = renderBytes(lines)
	l.idsByLine = make([]string, len(lines))
	for i, line := range lines {
		l.idsByLine[i] = line.StepID
	}
	return l
}

// normalizeLines splits events whose text spans several physical lines so
// that every Line holds exactly one, keeping the line index, line count and
// byte offsets consistent. The step id and timestamp carry to every piece.
func normalizeLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		text := strings.TrimSuffix(line.Text, "\n")
		for _, piece := range strings.Split(text, "\n") {
			out = append(out, Line{Timestamp: line.Timestamp, StepID: line.StepID, Text: piece})
		}
	}
	return out
}

func renderBytes(lines []Line) []byte {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line.Text)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Bytes returns the rendered content. Callers must not modify it.
func (l *RenderedLog) Bytes() []byte {
	return l.buf
}

// Size returns the rendered content length in bytes
func (l *RenderedLog) Size() int64 {
	return int64(len(l.buf))
}

// Complete reports whether this rendering session observed the full, final
// record of the build. It is a snapshot taken at construction, not a live
// status: once true it stays true for the session's lifetime.
func (l *RenderedLog) Complete() bool {
	return l.complete
}

// Lines returns the rendered lines in emission order
func (l *RenderedLog) Lines() []Line {
	return l.lines
}

// LineCount returns the number of physical output lines
func (l *RenderedLog) LineCount() int {
	return len(l.lines)
}

// Indexed reports whether this render recorded a line-to-step index
func (l *RenderedLog) Indexed() bool {
	return l.idsByLine != nil
}

// StepIDForLine returns the step id attributed to physical line i.
// An empty id with ok=true means the line belongs to no step. ok is false
// when i is out of range or the render is flat.
func (l *RenderedLog) StepIDForLine(i int) (stepID string, ok bool) {
	if l.idsByLine == nil || i < 0 || i >= len(l.idsByLine) {
		return "", false
	}
	return l.idsByLine[i], true
}

// StepIDs returns the distinct step ids present in an indexed render, in
// order of first appearance. Lines with no step are skipped.
func (l *RenderedLog) StepIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, id := range l.idsByLine {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// WriteFrom replays the rendered content starting at the given byte offset,
// returning the number of bytes written. An offset at or past the end writes
// nothing; the log simply has not grown that far.
func (l *RenderedLog) WriteFrom(w io.Writer, offset int64) (int64, error) {
	if offset < 0 {
		offset = 0
	}
	if offset >= int64(len(l.buf)) {
		return 0, nil
	}

	n, err := w.Write(l.buf[offset:])
	return int64(n), err
}

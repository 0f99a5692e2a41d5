package render

import (
	"bytes"
	"errors"
)

// LineSink receives rendered lines. Text carries no trailing newline; the
// sink decides its own framing.
type LineSink interface {
	WriteLine(text []byte) error
}

// AnnotatedLineSink additionally receives balanced step boundary markers
// around the lines of each step. Every BeginStep is matched by an EndStep for
// the same id before the next BeginStep or the end of the pass.
type AnnotatedLineSink interface {
	LineSink
	BeginStep(stepID string) error
	EndStep(stepID string) error
}

// AnnotateFrom re-renders the log starting at the given byte offset,
// emitting a step-end/step-begin marker pair into the sink wherever the step
// id changes between consecutive lines (including transitions to and from
// build-level output). A step still open when the content ends is closed with
// a trailing end marker.
//
// The offset is mapped back to a logical line by counting newlines from the
// start of the buffer: the underlying buffer only supports byte-addressed
// reads, so this linear scan is the precise recovery.
//
// Only indexed (whole-build) renders carry the line-to-step index the pass
// needs.
func (l *RenderedLog) AnnotateFrom(offset int64, sink AnnotatedLineSink) error {
	if l.idsByLine == nil {
		return errors.New("step markers require an indexed whole-build render")
	}

	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(l.buf)) {
		offset = int64(len(l.buf))
	}

	startLine := bytes.Count(l.buf[:offset], []byte{'\n'})

	active := "" // empty means no active step
	for i := startLine; i < len(l.lines); i++ {
		id := l.idsByLine[i]
		if id != active {
			if active != "" {
				if err := sink.EndStep(active); err != nil {
					return err
				}
			}
			if id != "" {
				if err := sink.BeginStep(id); err != nil {
					return err
				}
			}
			active = id
		}

		if err := sink.WriteLine([]byte(l.lines[i].Text)); err != nil {
			return err
		}
	}

	// Flush: close the step left open by the final line, if any
	if active != "" {
		return sink.EndStep(active)
	}
	return nil
}

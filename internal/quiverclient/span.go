// Package quiverclient is the tracing-library span builder: the
// instrumentation layer applications embed to accumulate spans from a
// hierarchical scope and hand them to the Quiver transport.
package quiverclient

import (
	"sync"
	"time"

	"github.com/archer-go/archer/internal/model"
)

// Level mirrors the severity an instrumented log event carries, folded
// into the canonical Log's Fields as a "level" tag since the canonical
// model has no dedicated level/target fields.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "Trace"
	case LevelDebug:
		return "Debug"
	case LevelWarn:
		return "Warn"
	case LevelError:
		return "Error"
	default:
		return "Info"
	}
}

// Span accumulates one span's tags, logs, and busy/idle timing as the
// scope it was opened for is entered and exited. A Span is safe for
// concurrent use: a span may be entered from more than one goroutine if
// the embedding application re-enters it across an await/select point.
type Span struct {
	mu sync.Mutex

	conn   spanTransport
	span   model.Span
	closed bool

	// last is the timestamp of the most recent enter/exit transition,
	// used to accumulate the busy/idle breakdown.
	last time.Time
}

// spanTransport is the transport a completed span is handed to. *Connection
// satisfies it; tests substitute a fake to avoid dialing real QUIC.
type spanTransport interface {
	SendSpan(span *model.Span)
}

func newSpan(conn spanTransport, traceID model.TraceID, spanID model.SpanID, operation string, references []model.Reference, process model.Process, tags []model.Tag) *Span {
	now := time.Now().UTC()
	s := &Span{
		conn: conn,
		span: model.Span{
			TraceID:       traceID,
			SpanID:        spanID,
			OperationName: operation,
			Flags:         1, // sampled
			References:    references,
			Start:         now,
			Timing:        &model.Timing{},
			Tags:          tags,
			Process:       process,
		},
		last: now,
	}
	if file, line, ok := callerLocation(3); ok {
		s.span.Location = &model.Location{Filepath: file, Lineno: line}
	}
	s.span.Thread = &model.Thread{ID: goroutineID()}
	return s
}

// TraceID returns the span's trace id, for constructing FollowsFrom
// references or correlating with external systems.
func (s *Span) TraceID() model.TraceID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.span.TraceID
}

// SpanID returns the span's own id.
func (s *Span) SpanID() model.SpanID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.span.SpanID
}

// SetTag records a key/value attribute on the span.
func (s *Span) SetTag(tag model.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.span.Tags = append(s.span.Tags, tag)
}

// Record merges on_record-style field updates into the span's tag list.
// Updates are appended, never deduplicated against prior tags of the
// same key.
func (s *Span) Record(fields ...model.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.span.Tags = append(s.span.Tags, fields...)
}

// Enter marks the span as active on the calling goroutine, folding the
// time since the last transition into idle, and returns a function that
// marks it inactive again, folding the elapsed time into busy. Call the
// returned function when the scope suspends or ends.
func (s *Span) Enter() func() {
	s.mu.Lock()
	now := time.Now()
	s.span.Timing.Idle += now.Sub(s.last)
	s.last = now
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		exitNow := time.Now()
		s.span.Timing.Busy += exitNow.Sub(s.last)
		s.last = exitNow
		s.mu.Unlock()
	}
}

// Event appends a log entry to the span: a logged event below a closing
// span becomes a timestamped fields record, with level/target folded into
// Fields as fixed-key tags since the canonical Log type carries only
// timestamp and fields.
func (s *Span) Event(level Level, target, message string, fields ...model.Tag) {
	entryFields := make([]model.Tag, 0, len(fields)+3)
	entryFields = append(entryFields,
		model.NewStringTag("level", level.String()),
		model.NewStringTag("target", target),
		model.NewStringTag("message", message),
	)
	entryFields = append(entryFields, fields...)

	log := model.Log{Timestamp: time.Now().UTC(), Fields: entryFields}
	if file, line, ok := callerLocation(2); ok {
		log.Location = &model.Location{Filepath: file, Lineno: line}
	}

	s.mu.Lock()
	s.span.Logs = append(s.span.Logs, log)
	s.mu.Unlock()
}

// End finalizes the span's duration, emits the accumulated busy/idle
// timing as a "timing" field pair, and hands the completed record to the
// transport. End is idempotent; calls after the first are no-ops.
func (s *Span) End() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true

	now := time.Now()
	s.span.Duration = now.UTC().Sub(s.span.Start)
	busy, idle := s.span.Timing.Busy, s.span.Timing.Idle
	out := s.span
	s.mu.Unlock()

	out.Tags = append(append([]model.Tag{}, out.Tags...),
		model.NewInt64Tag("timing.busy_ns", busy.Nanoseconds()),
		model.NewInt64Tag("timing.idle_ns", idle.Nanoseconds()),
	)

	s.conn.SendSpan(&out)
}

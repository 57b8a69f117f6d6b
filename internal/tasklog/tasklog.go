// Package tasklog adapts github.com/joeycumines/logiface to the handful of
// structured lifecycle events the task package ever emits: state
// transitions, hook failures, and the default exception handler's
// terminate-and-reraise path.
//
// The package never writes anywhere on its own. Callers supply a
// logiface.Writer (to stdout, to a log aggregator, wherever); with none
// configured, logging is a no-op.
package tasklog

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// Event is the logiface.Event implementation used for every log line this
// module emits. It's deliberately minimal: a level, a message, and an
// ordered slice of key/value fields.
type Event struct {
	logiface.UnimplementedEvent

	level  logiface.Level
	msg    string
	err    error
	fields []Field
}

// Field is a single structured key/value pair attached to an Event.
type Field struct {
	Key   string
	Value any
}

func (e *Event) Level() logiface.Level { return e.level }

func (e *Event) AddField(key string, val any) {
	e.fields = append(e.fields, Field{Key: key, Value: val})
}

func (e *Event) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

func (e *Event) AddError(err error) bool {
	e.err = err
	return true
}

func (e *Event) AddString(key string, val string) bool {
	e.AddField(key, val)
	return true
}

func (e *Event) AddInt(key string, val int) bool {
	e.AddField(key, val)
	return true
}

func (e *Event) AddInt64(key string, val int64) bool {
	e.AddField(key, val)
	return true
}

func (e *Event) AddUint64(key string, val uint64) bool {
	e.AddField(key, val)
	return true
}

func (e *Event) AddBool(key string, val bool) bool {
	e.AddField(key, val)
	return true
}

// Message returns the event's message, for use by a Writer.
func (e *Event) Message() string { return e.msg }

// Err returns the event's attached error, if any.
func (e *Event) Err() error { return e.err }

// Fields returns the event's accumulated fields, in call order.
func (e *Event) Fields() []Field { return e.fields }

// String renders the event as a single line, used by the default writer.
func (e *Event) String() string {
	s := fmt.Sprintf("[%s] %s", e.level, e.msg)
	for _, f := range e.fields {
		s += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	if e.err != nil {
		s += fmt.Sprintf(" err=%v", e.err)
	}
	return s
}

// eventFactory implements logiface.EventFactory[*Event].
type eventFactory struct{}

func (eventFactory) NewEvent(level logiface.Level) *Event {
	return &Event{level: level, fields: make([]Field, 0, 4)}
}

// eventReleaser implements logiface.EventReleaser[*Event], returning events
// to the zero value so a pooled factory (not used here, but a natural next
// step) could recycle them without leaking prior fields.
type eventReleaser struct{}

func (eventReleaser) ReleaseEvent(e *Event) {
	e.msg = ""
	e.err = nil
	e.fields = e.fields[:0]
}

// WriterFunc adapts a plain function to logiface.Writer[*Event].
type WriterFunc func(*Event) error

func (f WriterFunc) Write(e *Event) error { return f(e) }

// NewLogger builds a *logiface.Logger[logiface.Event] around the given
// writer. A nil writer yields a logger that never writes (every build-level
// check short-circuits via logiface's own ErrDisabled convention).
func NewLogger(writer logiface.Writer[*Event]) *logiface.Logger[logiface.Event] {
	opts := []logiface.Option[*Event]{
		logiface.WithEventFactory[*Event](eventFactory{}),
		logiface.WithEventReleaser[*Event](eventReleaser{}),
	}
	if writer != nil {
		opts = append(opts, logiface.WithWriter[*Event](writer))
	}
	return logiface.New[*Event](opts...).Logger()
}

// Discard is a Logger that drops every event; it's the default used when a
// task is constructed without WithLogger.
func Discard() *logiface.Logger[logiface.Event] {
	return NewLogger(nil)
}

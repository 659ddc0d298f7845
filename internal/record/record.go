// Package record defines the log record broadcast to connected viewers and
// the builder that assembles one per log call.
package record

import (
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/binhonglee/slogx/internal/stack"
	"github.com/binhonglee/slogx/internal/structured"
)

// Level is the severity of a log record. Values match the wire protocol.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Lang identifies this SDK implementation in record metadata.
const Lang = "go"

// timestampLayout renders ISO-8601 with millisecond precision and a UTC
// offset, e.g. "2026-08-23T10:30:00.123Z".
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Metadata describes where a log call originated.
type Metadata struct {
	File     string `json:"file,omitempty"`
	Line     uint32 `json:"line,omitempty"`
	Function string `json:"func,omitempty"`
	Lang     string `json:"lang"`
	Service  string `json:"service"`
}

// Record is one unit of log data. Immutable once built; it lives only long
// enough to be serialized and pushed to viewers.
type Record struct {
	ID         string             `json:"id"`
	Timestamp  string             `json:"timestamp"`
	Level      Level              `json:"level"`
	Args       []structured.Value `json:"args"`
	Stacktrace string             `json:"stacktrace,omitempty"`
	Metadata   Metadata           `json:"metadata"`
}

// Builder assembles records with a fresh id, timestamp, and captured stack.
type Builder struct {
	clock   clockwork.Clock
	capture stack.Capturer
}

// NewBuilder returns a builder using the given clock and stack capturer.
func NewBuilder(clock clockwork.Clock, capture stack.Capturer) *Builder {
	return &Builder{clock: clock, capture: capture}
}

// Build assembles a record for one log call. The stack is captured for every
// level so all records share the same payload shape. Build never fails.
func (b *Builder) Build(level Level, args []structured.Value, service, file string, line uint32, function string) Record {
	if args == nil {
		args = []structured.Value{}
	}
	return Record{
		ID:         uuid.NewString(),
		Timestamp:  b.clock.Now().UTC().Format(timestampLayout),
		Level:      level,
		Args:       args,
		Stacktrace: b.capture.Capture(),
		Metadata: Metadata{
			File:     file,
			Line:     line,
			Function: function,
			Lang:     Lang,
			Service:  service,
		},
	}
}

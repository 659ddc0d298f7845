package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binhonglee/slogx/internal/structured"
)

// countingCapturer counts Capture calls and returns a fixed trace.
type countingCapturer struct {
	calls int
	trace string
}

func (c *countingCapturer) Capture() string {
	c.calls++
	return c.trace
}

func testBuilder(t *testing.T) (*Builder, *clockwork.FakeClock, *countingCapturer) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 23, 10, 30, 0, 123_000_000, time.UTC))
	capture := &countingCapturer{trace: "  at main.main (main.go:1)"}
	return NewBuilder(clock, capture), clock, capture
}

func TestBuild_PopulatesMetadata(t *testing.T) {
	b, _, _ := testBuilder(t)

	rec := b.Build(LevelInfo, []structured.Value{structured.String("hello")}, "my-service", "handler.go", 42, "handleRequest")

	assert.Equal(t, "my-service", rec.Metadata.Service)
	assert.Equal(t, "handler.go", rec.Metadata.File)
	assert.Equal(t, uint32(42), rec.Metadata.Line)
	assert.Equal(t, "handleRequest", rec.Metadata.Function)
	assert.Equal(t, "go", rec.Metadata.Lang)
}

func TestBuild_TimestampMillisUTC(t *testing.T) {
	b, _, _ := testBuilder(t)

	rec := b.Build(LevelDebug, nil, "svc", "", 0, "")
	assert.Equal(t, "2026-08-23T10:30:00.123Z", rec.Timestamp)
}

func TestBuild_FreshUUIDPerRecord(t *testing.T) {
	b, _, _ := testBuilder(t)

	first := b.Build(LevelInfo, nil, "svc", "", 0, "")
	second := b.Build(LevelInfo, nil, "svc", "", 0, "")

	_, err := uuid.Parse(first.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBuild_CapturesStackForEveryLevel(t *testing.T) {
	b, _, capture := testBuilder(t)

	for _, level := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		rec := b.Build(level, nil, "svc", "", 0, "")
		assert.NotEmpty(t, rec.Stacktrace, "level %s", level)
	}
	assert.Equal(t, 4, capture.calls)
}

func TestBuild_PreservesArgsOrder(t *testing.T) {
	b, _, _ := testBuilder(t)

	args := []structured.Value{
		structured.String("first"),
		structured.Mapping(structured.Member{Key: "second", Value: structured.Bool(true)}),
		structured.Number(3),
	}
	rec := b.Build(LevelInfo, args, "svc", "", 0, "")

	require.Len(t, rec.Args, 3)
	assert.True(t, rec.Args[0].Equal(structured.String("first")))
	assert.True(t, rec.Args[2].Equal(structured.Number(3)))
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	b, _, _ := testBuilder(t)

	rec := b.Build(LevelWarn, []structured.Value{
		structured.String("héllo 🎉"),
		structured.Mapping(),
		structured.Sequence(),
		structured.Null(),
		structured.Mapping(structured.Member{Key: "n", Value: structured.Number(1)}),
	}, "svc", "f.go", 7, "fn")

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, rec.ID, back.ID)
	assert.Equal(t, rec.Timestamp, back.Timestamp)
	assert.Equal(t, rec.Level, back.Level)
	assert.Equal(t, rec.Stacktrace, back.Stacktrace)
	assert.Equal(t, rec.Metadata, back.Metadata)
	require.Len(t, back.Args, len(rec.Args))
	for i := range rec.Args {
		assert.True(t, rec.Args[i].Equal(back.Args[i]), "arg %d", i)
	}
}

func TestRecord_WireFormat(t *testing.T) {
	b, _, _ := testBuilder(t)

	rec := b.Build(LevelError, nil, "svc", "", 0, "")
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "id")
	assert.Contains(t, raw, "timestamp")
	assert.Contains(t, raw, "args")
	assert.Equal(t, `"ERROR"`, string(raw["level"]))

	var meta map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["metadata"], &meta))
	assert.Equal(t, `"go"`, string(meta["lang"]))
	assert.Equal(t, `"svc"`, string(meta["service"]))
	// Absent call-site fields are omitted, not null.
	assert.NotContains(t, meta, "file")
	assert.NotContains(t, meta, "line")
	assert.NotContains(t, meta, "func")
}

// Package stack captures and filters call stacks for log records.
//
// The raw runtime stack contains the SDK's own wrapper frames between the
// capture site and the user's call site. The filter walks frames from the
// innermost outward, drops frames while they still belong to the SDK or the
// capture mechanism, and keeps everything from the first external frame on.
package stack

import (
	"fmt"
	"runtime"
	"strings"
)

// internalPrefixes marks frames belonging to the SDK itself and to the
// runtime capture mechanism. Frames matching these are trimmed from the top
// of the trace, never from the middle.
var internalPrefixes = []string{
	"github.com/binhonglee/slogx",
	"runtime.Callers",
}

const unknownSymbol = "<unknown>"

// Frame is one resolved stack frame.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Capturer produces a human-readable trace of the current call stack.
type Capturer interface {
	Capture() string
}

// RuntimeCapturer captures stacks via runtime.Callers.
type RuntimeCapturer struct {
	prefixes []string
}

// NewCapturer returns a capturer that trims the SDK's internal frames.
// Prefixes override the default internal namespace; used by tests.
func NewCapturer(prefixes ...string) *RuntimeCapturer {
	if len(prefixes) == 0 {
		prefixes = internalPrefixes
	}
	return &RuntimeCapturer{prefixes: prefixes}
}

// Capture returns the filtered trace of the calling goroutine. It never
// fails: unresolvable symbols degrade to a placeholder, and if filtering
// removes every frame the unfiltered trace is returned instead.
func (c *RuntimeCapturer) Capture() string {
	frames := collect()
	filtered := filter(frames, c.prefixes)
	if len(filtered) == 0 {
		filtered = frames
	}
	return format(filtered)
}

func collect() []Frame {
	pc := make([]uintptr, 64)
	for {
		n := runtime.Callers(2, pc)
		if n < len(pc) {
			pc = pc[:n]
			break
		}
		pc = make([]uintptr, len(pc)*2)
	}

	var frames []Frame
	iter := runtime.CallersFrames(pc)
	for {
		fr, more := iter.Next()
		frames = append(frames, Frame{Function: fr.Function, File: fr.File, Line: fr.Line})
		if !more {
			break
		}
	}
	return frames
}

// filter drops leading frames that belong to any of the given namespaces.
// Once a frame outside them appears, it and every later frame are kept, so
// runtime and third-party frames below user code stay visible.
func filter(frames []Frame, prefixes []string) []Frame {
	var kept []Frame
	external := false
	for _, fr := range frames {
		if !external && isInternal(fr.Function, prefixes) {
			continue
		}
		external = true
		kept = append(kept, fr)
	}
	return kept
}

func isInternal(function string, prefixes []string) bool {
	if function == "" {
		// Unattributed frames at the top of the stack usually belong to the
		// capture mechanism; treat them as internal until user code appears.
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(function, p) {
			return true
		}
	}
	return false
}

func format(frames []Frame) string {
	lines := make([]string, 0, len(frames))
	for _, fr := range frames {
		fn := fr.Function
		if fn == "" {
			fn = unknownSymbol
		}
		file := fr.File
		if file == "" {
			file = unknownSymbol
		}
		lines = append(lines, fmt.Sprintf("  at %s (%s:%d)", fn, file, fr.Line))
	}
	return strings.Join(lines, "\n")
}

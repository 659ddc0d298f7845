// Package slogx streams structured logs from a running process to any
// number of connected viewers over WebSocket.
//
// Call Init once at startup, then log through Debug, Info, Warn, and Error.
// Logging is fire-and-forget: nothing is buffered for late viewers, nothing
// is persisted, and no error ever surfaces back to application code.
package slogx

import (
	"path/filepath"
	"runtime"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/binhonglee/slogx/internal/record"
	"github.com/binhonglee/slogx/internal/server"
	"github.com/binhonglee/slogx/internal/stack"
	"github.com/binhonglee/slogx/internal/structured"
)

const (
	defaultPort        = 8080
	defaultServiceName = "go-service"
)

// Config controls Init.
type Config struct {
	// Enabled must be true to start the stream server. The zero value keeps
	// slogx inert, preventing accidental activation in production.
	Enabled bool
	// Port for the WebSocket listener. Defaults to 8080.
	Port int
	// ServiceName appears in every record's metadata. Defaults to
	// "go-service".
	ServiceName string
}

var (
	defaultServer *server.Server
	defaultOnce   sync.Once
)

// Default returns the process-wide server instance, creating it lazily.
// The core type carries no global state of its own; only this outermost
// boundary does.
func Default() *server.Server {
	defaultOnce.Do(func() {
		defaultServer = server.New(clockwork.NewRealClock(), stack.NewCapturer())
	})
	return defaultServer
}

// Init starts the stream server on the default instance. It is a no-op when
// cfg.Enabled is false. A bind failure is returned; every other condition is
// handled internally.
func Init(cfg Config) error {
	if !cfg.Enabled {
		return nil
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}

	return Default().Start(port, name)
}

// IsInitialized reports whether the default server has started.
func IsInitialized() bool { return Default().IsInitialized() }

// ClientCount returns the number of viewers connected to the default server.
func ClientCount() int { return Default().ClientCount() }

// ServiceName returns the service name of the default server.
func ServiceName() string { return Default().ServiceName() }

// Debug logs at DEBUG level. Arguments are converted to structured values.
func Debug(args ...any) { logAt(record.LevelDebug, args) }

// Info logs at INFO level. Arguments are converted to structured values.
func Info(args ...any) { logAt(record.LevelInfo, args) }

// Warn logs at WARN level. Arguments are converted to structured values.
func Warn(args ...any) { logAt(record.LevelWarn, args) }

// Error logs at ERROR level. Arguments are converted to structured values.
func Error(args ...any) { logAt(record.LevelError, args) }

// LogAt forwards pre-built structured values with explicit call-site
// metadata to the default server. Wrappers that do their own argument
// conversion and call-site capture use this instead of the variadic API.
func LogAt(level record.Level, args []structured.Value, file string, line uint32, function string) {
	Default().Log(level, args, file, line, function)
}

func logAt(level record.Level, args []any) {
	srv := Default()

	// Cheap guard before paying for conversion; the server re-checks under
	// its own lock.
	if !srv.IsInitialized() || srv.ClientCount() == 0 {
		return
	}

	values := make([]structured.Value, len(args))
	for i, arg := range args {
		values[i] = ToValue(arg)
	}

	file, line, function := callSite(3)
	srv.Log(level, values, file, line, function)
}

// callSite resolves the application frame that invoked the public API.
func callSite(skip int) (file string, line uint32, function string) {
	pc, f, l, ok := runtime.Caller(skip)
	if !ok {
		return "", 0, ""
	}
	file = filepath.Base(f)
	line = uint32(l)
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = filepath.Base(fn.Name())
	}
	return file, line, function
}

// Package log has the logger used by the ytdlq SDK.
//
// Logs are disabled by default. Pass any [Logger] implementation in [lib.Config]
// to get the tracker, storage and download service client logs, for example
// wrapping log/slog:
//
//	type slogLogger struct{ l *slog.Logger }
//
//	func (s slogLogger) Infof(format string, args ...any) { s.l.Info(fmt.Sprintf(format, args...)) }
//	func (s slogLogger) WithValues(kv log.Kv) log.Logger {
//	    args := []any{}
//	    for k, v := range kv {
//	        args = append(args, k, v)
//	    }
//	    return slogLogger{l: s.l.With(args...)}
//	}
//	// ... remaining methods
//
// Every component adds its name on the "svc" key and the task related logs the
// task ID on the "task-id" key.
package log

import "github.com/slok/ytdlq/internal/log"

// Logger is the interface loggers must implement to be used by the SDK.
type Logger = log.Logger

// Kv are the structured logging key-value pairs.
type Kv = log.Kv

// Noop discards all logs, used when no logger is configured.
var Noop = log.Noop

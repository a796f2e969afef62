// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package slog defines a pluggable diagnostic sink with the severities
// info, warn and error. It is a thin interface rather than a concrete
// logger, so a host application can supply its own implementation. No
// other package of this module calls it: the rasterizer and device emit
// no diagnostics.
package slog

import "log"

// Logger receives severity-tagged diagnostic messages.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// stdLogger adapts the standard library's log.Logger to Logger, prefixing
// each line with its severity.
type stdLogger struct{ l *log.Logger }

func (s stdLogger) Info(format string, args ...any)  { s.l.Printf("info: "+format, args...) }
func (s stdLogger) Warn(format string, args ...any)  { s.l.Printf("warn: "+format, args...) }
func (s stdLogger) Error(format string, args ...any) { s.l.Printf("error: "+format, args...) }

// Default returns a Logger that writes to log.Default().
func Default() Logger { return stdLogger{l: log.Default()} }

// discard is a Logger that drops every message, useful in benchmarks and
// tests that don't want diagnostic noise.
type discard struct{}

func (discard) Info(string, ...any)  {}
func (discard) Warn(string, ...any)  {}
func (discard) Error(string, ...any) {}

// Discard returns a Logger that drops everything.
func Discard() Logger { return discard{} }

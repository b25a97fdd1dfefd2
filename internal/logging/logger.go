// Package logging holds the replaceable diagnostic loggers used by library
// packages. Binaries decide where the output goes; tests can mute or capture it.
package logging

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf receives per-stage pipeline detail. It is a no-op until
// SetDebug(true) or SetDebugLogger is called.
var Debugf func(format string, v ...interface{}) = discard

func discard(string, ...interface{}) {}

// SetLogger replaces Logf. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = discard
		return
	}
	Logf = f
}

// SetDebugLogger replaces Debugf. Passing nil disables debug output.
func SetDebugLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Debugf = discard
		return
	}
	Debugf = f
}

// SetDebug routes Debugf through Logf with a "debug: " prefix when enabled.
func SetDebug(enabled bool) {
	if !enabled {
		Debugf = discard
		return
	}
	Debugf = func(format string, v ...interface{}) {
		Logf("debug: "+format, v...)
	}
}

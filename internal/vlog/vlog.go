// Package vlog provides a process-wide verbose logging switch. Logging is
// off by default; enabling it turns on progress messages from every
// pipeline phase.
package vlog

import "log"

var verboseMode bool

// SetVerbose sets the global verbose mode
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// Printf logs only when verbose mode is enabled
func Printf(format string, v ...interface{}) {
	if verboseMode {
		log.Printf(format, v...)
	}
}

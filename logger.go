package main

import (
	"log"
	"os"
)

// For log management, use journalctl commands:
//   - View logs: journalctl -u sunbot
//   - Follow logs: journalctl -u sunbot -f
//   - View errors: journalctl -u sunbot -p err
// Refer to the documentation for details on systemd unit setup.

// Initialize loggers for informational and error messages.
var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
)

// initLoggers sets up separate loggers for stdout and stderr.
func initLoggers() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

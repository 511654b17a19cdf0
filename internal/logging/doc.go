// Package logging builds the application's slog loggers.
//
// Two handler formats are supported: a console handler that renders
// "timestamp LEVEL component: message key=value" lines, and a JSON
// handler for machine consumption. Output goes to stdout plus a log
// file under the configured log directory. Components tag their
// loggers through WithComponent so console lines stay attributable.
package logging

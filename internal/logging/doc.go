// Package logging assembles structured slog loggers and formatting helpers used
// across seqview.
//
// It owns the configurable console/JSON handlers, maps the CLI verbosity names
// (notset, debug, info, warning, error, critical) onto slog levels, and
// exposes context-aware helpers so handler code can tag log lines with event
// and launch identifiers. A no-op logger is provided for tests and wiring
// code that cannot fail.
package logging

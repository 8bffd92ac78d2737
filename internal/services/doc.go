// Package services defines shared utilities consumed by the action handlers and
// the tracking, viewer, and event-hub integrations.
//
// Key responsibilities:
//   - Context helpers that stamp event identifiers, launch identifiers, and
//     topics for logging and tracing.
//   - Structured error markers plus the Wrap helper that tag failures so the
//     launch handler can turn them into a {success:false} response.
//
// Use these helpers when wiring new handler logic so failure reporting and
// observability stay uniform.
package services

// Package daemon coordinates the long-running seqview listener.
//
// It wires configuration, the tracking client, the event hub connection and
// the viewer action into a single lifecycle with flock-based locking so only
// one listener runs per state directory. Startup fails when the tracking
// server or the event hub cannot be reached; after that the hub connection
// reconnects on its own. An optional status server exposes runtime state and
// Prometheus metrics.
//
// Keep orchestration logic here: event handling lives in internal/action and
// transport in internal/eventhub.
package daemon

// Package main hosts the seqview CLI entrypoint and command graph.
//
// Running seqview with no subcommand starts the listener: it connects to the
// tracking server and its event hub, registers the viewer action for the
// current user and blocks until interrupted. Subcommands expose the sequence
// expander for local debugging, the launch history and configuration
// scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main

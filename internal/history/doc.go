// Package history persists viewer launches in a SQLite database under the
// state directory so recent launches can be listed from the CLI.
//
// The schema is embedded and versioned; a database written by a different
// schema version is rejected with ErrSchemaMismatch rather than migrated.
package history

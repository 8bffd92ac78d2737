// Package config loads, normalizes, and validates seqview configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads .env files, and honours environment
// fallbacks such as FTRACK_SERVER and FTRACK_API_KEY. The Config type
// centralizes the tracking connection, event hub, viewer, and logging knobs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a resolved event-hub URL, and clear validation errors.
package config

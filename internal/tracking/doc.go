// Package tracking models the production-tracking entities the action reads
// (tasks, assets, asset versions, components) as immutable value structs and
// defines the typed Client used to fetch them.
//
// HTTPClient implements Client against the tracking server REST API,
// authenticating with the ftrack-user / ftrack-api-key headers. Unknown ids
// surface as services.ErrNotFound so callers can branch on entity kind
// without string matching.
package tracking

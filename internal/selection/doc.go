// Package selection decides whether a tracking-system selection can be opened
// in the viewer and enumerates the components it offers.
//
// Validity only looks at the first selected entity. A task qualifies when its
// remote object type is "Task"; an asset version qualifies when its asset is
// an image asset. Enumeration walks every selected entity: tasks contribute
// the components of their first image asset, newest version first, with the
// first name seen winning; anything that cannot be resolved as a task is
// treated as an asset version whose components are taken as-is and which is
// published when it was not already.
package selection

// Package sequence resolves a single representative file path into the set of
// sibling files that make up an image sequence.
//
// A base name containing a printf-style placeholder (shot_%04d.exr, or the
// unpadded shot_%d.exr) is parsed into a Descriptor of head, digit width and
// tail; Expand then scans the containing directory, without recursing, for
// entries whose base name is exactly head + width digits + tail. Names are
// compared after NFC normalisation so decomposed filenames (as written by
// macOS) still match. Paths without a placeholder expand to every sibling
// sharing the file extension.
//
// Results are sorted lexicographically so the representative frame handed to
// a viewer does not depend on directory listing order.
package sequence

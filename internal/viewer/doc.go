// Package viewer starts the external image viewer on a resolved frame and
// reports whether the configured viewer executable is usable.
package viewer

//go:build unix

package viewer

import (
	"os"

	"golang.org/x/sys/unix"
)

func checkExecutable(path string) error {
	if err := unix.Access(path, unix.X_OK); err != nil {
		return &os.PathError{Op: "access", Path: path, Err: err}
	}
	return nil
}

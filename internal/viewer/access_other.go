//go:build !unix

package viewer

import "os"

func checkExecutable(path string) error {
	_, err := os.Stat(path)
	return err
}

// Package filesys provides small file-system utility helpers shared by
// kvsd's storage backends.
package filesys

import (
	"errors"
	"os"
)

// ErrIsNotDir is returned by CreateDir when the target path exists and
// is not a directory.
var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates a directory at dirPath with the given permission,
// creating parent directories as needed. If force is true, an existing
// directory at dirPath is accepted rather than treated as an error.
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if !force && !os.IsNotExist(err) {
		if err == nil {
			return os.ErrExist
		}
		return err
	}

	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}

	if err := os.MkdirAll(dirPath, permission); err != nil {
		return err
	}

	return nil
}

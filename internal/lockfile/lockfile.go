// Package lockfile pins a data directory to one storage backend. On
// first run a server writes .kvs.lock with the backend name it was
// started with; every later run reads it back and refuses to start
// with a different --engine, since the two backends write incompatible
// on-disk formats into the same directory.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arvindmehta/kvsd/internal/kvserrors"
	"github.com/arvindmehta/kvsd/pkg/kvsoptions"
)

// Ensure reads dir's lock file if one exists and fails if it names a
// backend other than engine; otherwise it creates the lock file naming
// engine. It must be called before any engine-specific file is opened.
func Ensure(dir string, engine kvsoptions.Engine) error {
	path := filepath.Join(dir, kvsoptions.LockFileName)

	existing, err := os.ReadFile(path)
	if err == nil {
		locked := kvsoptions.Engine(strings.TrimSpace(string(existing)))
		if locked != engine {
			return kvserrors.New(nil, kvserrors.General, "data directory is locked to a different engine").
				WithDetail("path", path).WithDetail("locked", string(locked)).WithDetail("requested", string(engine))
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return kvserrors.New(err, kvserrors.IO, "failed to read lock file").WithDetail("path", path)
	}

	if err := os.WriteFile(path, []byte(fmt.Sprintf("%s\n", engine)), 0644); err != nil {
		return kvserrors.New(err, kvserrors.IO, "failed to write lock file").WithDetail("path", path)
	}
	return nil
}

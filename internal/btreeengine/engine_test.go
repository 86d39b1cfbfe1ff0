package btreeengine

import (
	"testing"

	"go.uber.org/zap"

	"github.com/arvindmehta/kvsd/internal/kvserrors"
)

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(zap.NewNop().Sugar(), t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngine_SetGetRemove(t *testing.T) {
	e := openTestEngine(t)

	if err := e.Set([]byte("k"), []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, found, err := e.Get([]byte("k"))
	if err != nil || !found || string(value) != "v1" {
		t.Fatalf("Get() = (%q, %v, %v), want (v1, true, nil)", value, found, err)
	}

	if err := e.Set([]byte("k"), []byte("v2")); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	value, found, err = e.Get([]byte("k"))
	if err != nil || !found || string(value) != "v2" {
		t.Fatalf("Get() after overwrite = (%q, %v, %v), want (v2, true, nil)", value, found, err)
	}

	if err := e.Remove([]byte("k")); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	_, found, err = e.Get([]byte("k"))
	if err != nil || found {
		t.Fatalf("Get() after remove = (found=%v, err=%v), want (false, nil)", found, err)
	}
}

func TestEngine_GetMissingKeyIsNotAnError(t *testing.T) {
	e := openTestEngine(t)

	_, found, err := e.Get([]byte("missing"))
	if err != nil || found {
		t.Fatalf("Get() on missing key = (found=%v, err=%v), want (false, nil)", found, err)
	}
}

func TestEngine_RemoveMissingKeyFails(t *testing.T) {
	e := openTestEngine(t)

	err := e.Remove([]byte("missing"))
	if kvserrors.KindOf(err) != kvserrors.KeyNotFound {
		t.Fatalf("Remove() kind = %v, want KeyNotFound", kvserrors.KindOf(err))
	}
}

func TestEngine_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	log := zap.NewNop().Sugar()

	e, err := Open(log, dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := e.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(log, dir)
	if err != nil {
		t.Fatalf("reopen Open() error = %v", err)
	}
	defer reopened.Close()

	value, found, err := reopened.Get([]byte("a"))
	if err != nil || !found || string(value) != "1" {
		t.Fatalf("Get() after reopen = (%q, %v, %v), want (1, true, nil)", value, found, err)
	}
}

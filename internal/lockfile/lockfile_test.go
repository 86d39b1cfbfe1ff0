package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arvindmehta/kvsd/pkg/kvsoptions"
)

func TestEnsure_CreatesLockOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	if err := Ensure(dir, kvsoptions.EngineKVS); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, kvsoptions.LockFileName))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := string(data); got != "kvs\n" {
		t.Errorf("lock file contents = %q, want %q", got, "kvs\n")
	}
}

func TestEnsure_MatchingEngineSucceedsOnLaterRuns(t *testing.T) {
	dir := t.TempDir()

	if err := Ensure(dir, kvsoptions.EngineSled); err != nil {
		t.Fatalf("first Ensure() error = %v", err)
	}
	if err := Ensure(dir, kvsoptions.EngineSled); err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}
}

func TestEnsure_MismatchedEngineFails(t *testing.T) {
	dir := t.TempDir()

	if err := Ensure(dir, kvsoptions.EngineKVS); err != nil {
		t.Fatalf("first Ensure() error = %v", err)
	}

	err := Ensure(dir, kvsoptions.EngineSled)
	if err == nil {
		t.Fatal("Ensure() with mismatched engine returned nil error")
	}
}

// Package btreeengine implements kvsd's second storage backend: a
// thin adapter over go.etcd.io/bbolt, the same embedded B-tree store
// vendored widely across this repository's retrieval corpus (erigon,
// go-ethereum, rclone, k3s, loki). Unlike the log-structured engine
// beside it, it needs no hand-rolled index, compaction, or checksumming
// — bbolt's own copy-on-write B+tree and single-writer transactions
// supply durability and structural integrity directly.
package btreeengine

import (
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/arvindmehta/kvsd/internal/kvserrors"
	"github.com/arvindmehta/kvsd/pkg/filesys"
	"github.com/arvindmehta/kvsd/pkg/kvsoptions"
)

// bucketName is the single top-level bucket every key/value pair
// lives under. kvsd has no notion of namespaces, so one bucket is
// enough.
var bucketName = []byte("kvsd")

// Engine is the bbolt-backed kvsd backend. It satisfies
// github.com/arvindmehta/kvsd/internal/engine.Engine.
type Engine struct {
	log *zap.SugaredLogger
	db  *bbolt.DB
}

// Open opens (creating if absent) the bolt file kvs.bolt inside dir
// and ensures the bucket exists.
func Open(log *zap.SugaredLogger, dir string) (*Engine, error) {
	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return nil, kvserrors.ClassifyDirCreationError(err, dir)
	}

	path := filepath.Join(dir, kvsoptions.BoltFileName)
	db, err := bbolt.Open(path, 0644, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, kvserrors.ClassifyFileOpenError(err, path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, kvserrors.New(err, kvserrors.BackendInternal, "failed to create bolt bucket").WithDetail("path", path)
	}

	log.Infow("btree engine opened", "path", path)
	return &Engine{log: log, db: db}, nil
}

// Set persists value under key, overwriting any existing binding.
func (e *Engine) Set(key, value []byte) error {
	if _, err := kvserrors.ValidateUTF8(key, "key"); err != nil {
		return err
	}
	if _, err := kvserrors.ValidateUTF8(value, "value"); err != nil {
		return err
	}

	err := e.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, value)
	})
	if err != nil {
		return kvserrors.New(err, kvserrors.BackendInternal, "bolt put failed").WithDetail("key", string(key))
	}
	return nil
}

// Get looks up key.
func (e *Engine) Get(key []byte) ([]byte, bool, error) {
	if _, err := kvserrors.ValidateUTF8(key, "key"); err != nil {
		return nil, false, err
	}

	var value []byte
	err := e.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get(key)
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, kvserrors.New(err, kvserrors.BackendInternal, "bolt get failed").WithDetail("key", string(key))
	}
	return value, value != nil, nil
}

// Remove deletes the binding for key, failing with KeyNotFound if it
// has none — bbolt's own Delete is a silent no-op on a missing key, so
// existence is checked first inside the same transaction.
func (e *Engine) Remove(key []byte) error {
	if _, err := kvserrors.ValidateUTF8(key, "key"); err != nil {
		return err
	}

	err := e.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket.Get(key) == nil {
			return kvserrors.New(nil, kvserrors.KeyNotFound, "key not found").WithDetail("key", string(key))
		}
		return bucket.Delete(key)
	})
	if err != nil {
		return err
	}
	return nil
}

// Close releases the underlying bolt database file.
func (e *Engine) Close() error {
	if err := e.db.Close(); err != nil {
		return kvserrors.New(err, kvserrors.IO, "failed to close bolt database")
	}
	return nil
}

// Package logengine implements kvsd's bespoke log-structured storage
// backend: an append-only write log, an in-memory key -> log-position
// index, and size-triggered rename-based compaction. It is grounded on
// the teacher corpus's segmented storage engine (internal/storage,
// internal/index) simplified to the single append-only file the spec
// mandates, with its record format replaced end to end by the spec's
// JSON on-disk format (records concatenated with no separator).
package logengine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/arvindmehta/kvsd/internal/kvserrors"
	"github.com/arvindmehta/kvsd/pkg/filesys"
	"github.com/arvindmehta/kvsd/pkg/kvsoptions"
)

// Engine is the log-structured kvsd backend. It satisfies
// github.com/arvindmehta/kvsd/internal/engine.Engine.
type Engine struct {
	log                 *zap.SugaredLogger
	dir                 string
	logPath             string
	file                *os.File
	idx                 *index
	endOffset           int64
	compactionBytes     uint64
	compactionThreshold uint64
}

// Open opens (creating if absent) the log file kvs.db inside dir,
// rebuilds the index by scanning it end to end, and returns a ready
// Engine. On a malformed tail record the scan stops at the first
// unrecoverable record and treats everything before it as canonical.
func Open(log *zap.SugaredLogger, dir string, compactionThreshold uint64) (*Engine, error) {
	if compactionThreshold == 0 {
		compactionThreshold = kvsoptions.DefaultCompactionThreshold
	}

	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return nil, kvserrors.ClassifyDirCreationError(err, dir)
	}

	logPath := filepath.Join(dir, kvsoptions.LogFileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, kvserrors.ClassifyFileOpenError(err, logPath)
	}

	e := &Engine{
		log:                 log,
		dir:                 dir,
		logPath:             logPath,
		file:                file,
		idx:                 newIndex(),
		compactionThreshold: compactionThreshold,
	}

	if err := e.rebuildIndex(); err != nil {
		_ = file.Close()
		return nil, err
	}

	log.Infow("log engine opened", "path", logPath, "keys", e.idx.len(), "endOffset", e.endOffset)
	return e, nil
}

// rebuildIndex scans the log from the start, reconstructing the index
// from the most recent record per key. It is called by Open; Compact
// builds the index of the rewritten log itself.
func (e *Engine) rebuildIndex() error {
	e.idx = newIndex()
	e.compactionBytes = 0
	e.endOffset = 0

	if _, err := e.file.Seek(0, io.SeekStart); err != nil {
		return kvserrors.New(err, kvserrors.IO, "failed to seek to start of log for recovery")
	}

	reader := bufio.NewReader(e.file)
	dec := json.NewDecoder(reader)

	var start int64
	for {
		var r record
		if err := dec.Decode(&r); err != nil {
			if err == io.EOF {
				break
			}
			// A syntactically invalid or truncated tail record: stop
			// here and treat everything decoded so far as canonical,
			// per spec.md §9.
			e.log.Warnw("stopping log recovery at first unrecoverable record", "offset", start, "error", err)
			break
		}

		end := dec.InputOffset()
		length := end - start

		key, err := r.key()
		if err != nil {
			return kvserrors.New(err, kvserrors.General, "recovered record names no key")
		}

		if r.isSet() {
			if old, had := e.idx.set(key, indexEntry{offset: start, length: length}); had {
				e.compactionBytes += uint64(old.length)
			}
		} else {
			if old, had := e.idx.delete(key); had {
				e.compactionBytes += uint64(old.length)
			}
		}

		start = end
	}

	// The file may have bytes beyond the last decoded record only when
	// the tail was torn; the canonical end of the log is the end of
	// the last fully-decoded record. Those bytes are cut off so that
	// the next append lands exactly at endOffset.
	e.endOffset = start
	if err := e.file.Truncate(start); err != nil {
		return kvserrors.New(err, kvserrors.IO, "failed to truncate torn tail of log")
	}

	if _, err := e.file.Seek(0, io.SeekEnd); err != nil {
		return kvserrors.New(err, kvserrors.IO, "failed to seek to end of log after recovery")
	}
	return nil
}

// Set stores key and value, compacting first if the dead-byte counter
// has crossed the configured threshold.
func (e *Engine) Set(key, value []byte) error {
	if e.compactionBytes > e.compactionThreshold {
		if err := e.Compact(); err != nil {
			return err
		}
	}

	keyStr, err := kvserrors.ValidateUTF8(key, "key")
	if err != nil {
		return err
	}
	valueStr, err := kvserrors.ValidateUTF8(value, "value")
	if err != nil {
		return err
	}

	return e.writeSet(keyStr, valueStr)
}

// writeSet appends a Set record and installs its index entry. It is
// also used by compaction to repopulate the rewritten log.
func (e *Engine) writeSet(key, value string) error {
	encoded, err := newSetRecord(key, value).encode()
	if err != nil {
		return kvserrors.New(err, kvserrors.Serialization, "failed to encode Set record")
	}

	offset := e.endOffset
	n, err := e.file.Write(encoded)
	if err != nil {
		return kvserrors.ClassifyWriteError(err)
	}
	if n != len(encoded) {
		return kvserrors.New(nil, kvserrors.IO, "short write appending Set record").
			WithDetail("wrote", n).WithDetail("expected", len(encoded))
	}
	if err := e.file.Sync(); err != nil {
		return kvserrors.New(err, kvserrors.IO, "failed to flush Set record to disk")
	}

	e.endOffset += int64(n)

	if old, had := e.idx.set(key, indexEntry{offset: offset, length: int64(n)}); had {
		e.compactionBytes += uint64(old.length)
	}
	return nil
}

// Get returns the current value bound to key, if any.
func (e *Engine) Get(key []byte) ([]byte, bool, error) {
	keyStr, err := kvserrors.ValidateUTF8(key, "key")
	if err != nil {
		return nil, false, err
	}

	entry, ok := e.idx.get(keyStr)
	if !ok {
		return nil, false, nil
	}

	buf := make([]byte, entry.length)
	if _, err := e.file.ReadAt(buf, entry.offset); err != nil {
		return nil, false, kvserrors.ClassifyReadError(err, entry.offset)
	}

	r, err := decodeRecord(buf)
	if err != nil {
		return nil, false, kvserrors.New(err, kvserrors.General, "index points at an undecodable record").
			WithDetail("offset", entry.offset).WithDetail("length", entry.length)
	}
	if !r.isSet() {
		return nil, false, kvserrors.New(nil, kvserrors.General, "index points at a non-Set record").
			WithDetail("offset", entry.offset)
	}
	if r.Set.Key != keyStr {
		return nil, false, kvserrors.New(nil, kvserrors.General, "record key does not match index key").
			WithDetail("offset", entry.offset).WithDetail("indexKey", keyStr).WithDetail("recordKey", r.Set.Key)
	}

	return []byte(r.Set.Value), true, nil
}

// Remove deletes the binding for key, failing with KeyNotFound if it
// has none.
func (e *Engine) Remove(key []byte) error {
	keyStr, err := kvserrors.ValidateUTF8(key, "key")
	if err != nil {
		return err
	}

	entry, ok := e.idx.get(keyStr)
	if !ok {
		return kvserrors.New(nil, kvserrors.KeyNotFound, "key not found").WithDetail("key", keyStr)
	}

	encoded, err := newRmRecord(keyStr).encode()
	if err != nil {
		return kvserrors.New(err, kvserrors.Serialization, "failed to encode Rm record")
	}

	n, err := e.file.Write(encoded)
	if err != nil {
		return kvserrors.ClassifyWriteError(err)
	}
	if err := e.file.Sync(); err != nil {
		return kvserrors.New(err, kvserrors.IO, "failed to flush Rm record to disk")
	}

	e.endOffset += int64(n)
	e.idx.delete(keyStr)
	e.compactionBytes += uint64(entry.length)
	return nil
}

// Close flushes and releases the log file handle.
func (e *Engine) Close() error {
	if e.file == nil {
		return nil
	}
	if err := e.file.Sync(); err != nil {
		_ = e.file.Close()
		return kvserrors.New(err, kvserrors.IO, "failed to sync log file on close")
	}
	if err := e.file.Close(); err != nil {
		return kvserrors.New(err, kvserrors.IO, "failed to close log file")
	}
	e.file = nil
	return nil
}

// liveSnapshot scans the whole log once and returns the final Set
// value for every key that was not subsequently removed, in the order
// each key was first seen — used by Compact.
func (e *Engine) liveSnapshot() ([]string, map[string]string, error) {
	if _, err := e.file.Seek(0, io.SeekStart); err != nil {
		return nil, nil, kvserrors.New(err, kvserrors.IO, "failed to seek to start of log for compaction scan")
	}
	defer e.file.Seek(0, io.SeekEnd)

	reader := bufio.NewReader(e.file)
	dec := json.NewDecoder(reader)

	order := make([]string, 0, e.idx.len())
	live := make(map[string]string, e.idx.len())
	seen := make(map[string]struct{}, e.idx.len())

	for {
		var r record
		if err := dec.Decode(&r); err != nil {
			if err == io.EOF {
				break
			}
			break
		}

		key, err := r.key()
		if err != nil {
			return nil, nil, kvserrors.New(err, kvserrors.General, "compaction scan found a record with no key")
		}

		if r.isSet() {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				order = append(order, key)
			}
			live[key] = r.Set.Value
		} else {
			delete(live, key)
		}
	}

	return order, live, nil
}

// Compact rewrites the log to contain only live records. It follows
// the rename-based strategy spec.md's Design Notes recommend in place
// of truncate-in-place: the live snapshot is written to a sibling
// file, fsynced, and atomically renamed over the log, so a crash
// mid-rewrite never leaves a half-truncated kvs.db.
func (e *Engine) Compact() error {
	order, live, err := e.liveSnapshot()
	if err != nil {
		return err
	}

	tmpPath := fmt.Sprintf("%s.compact.%d", e.logPath, time.Now().UnixNano())
	tmpFile, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		return kvserrors.ClassifyFileOpenError(err, tmpPath)
	}

	newIdx := newIndex()
	var offset int64
	for _, key := range order {
		value, ok := live[key]
		if !ok {
			continue
		}
		encoded, err := newSetRecord(key, value).encode()
		if err != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
			return kvserrors.New(err, kvserrors.Serialization, "failed to encode record during compaction")
		}
		n, err := tmpFile.Write(encoded)
		if err != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
			return kvserrors.ClassifyWriteError(err)
		}
		newIdx.set(key, indexEntry{offset: offset, length: int64(n)})
		offset += int64(n)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return kvserrors.New(err, kvserrors.IO, "failed to sync compacted log")
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return kvserrors.New(err, kvserrors.IO, "failed to close compacted log")
	}

	if err := e.file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return kvserrors.New(err, kvserrors.IO, "failed to close active log before compaction rename")
	}

	if err := os.Rename(tmpPath, e.logPath); err != nil {
		return kvserrors.New(err, kvserrors.IO, "failed to rename compacted log into place")
	}

	file, err := os.OpenFile(e.logPath, os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return kvserrors.ClassifyFileOpenError(err, e.logPath)
	}

	e.file = file
	e.idx = newIdx
	e.endOffset = offset
	e.compactionBytes = 0

	e.log.Infow("compaction completed", "path", e.logPath, "liveKeys", newIdx.len(), "newSize", offset)
	return nil
}

package logengine

// indexEntry locates the most recent Set record for a key: the byte
// offset at which it begins in the log file, and its encoded length in
// bytes.
type indexEntry struct {
	offset int64
	length int64
}

// index is the in-memory key -> indexEntry map. It provides
// expected-constant-time lookup and carries no concurrency protection
// of its own — the engine that owns it is single-threaded by design
// (spec.md §5), and callers serialize access at the server loop level.
type index struct {
	entries map[string]indexEntry
}

func newIndex() *index {
	return &index{entries: make(map[string]indexEntry, 1024)}
}

func (idx *index) get(key string) (indexEntry, bool) {
	entry, ok := idx.entries[key]
	return entry, ok
}

func (idx *index) set(key string, entry indexEntry) (indexEntry, bool) {
	old, had := idx.entries[key]
	idx.entries[key] = entry
	return old, had
}

func (idx *index) delete(key string) (indexEntry, bool) {
	old, had := idx.entries[key]
	if had {
		delete(idx.entries, key)
	}
	return old, had
}

func (idx *index) len() int {
	return len(idx.entries)
}

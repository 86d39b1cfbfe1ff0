package logengine

import "testing"

func TestIndex_SetGetDelete(t *testing.T) {
	idx := newIndex()

	if _, ok := idx.get("missing"); ok {
		t.Fatal("get() on empty index returned ok = true")
	}

	idx.set("k", indexEntry{offset: 10, length: 5})
	entry, ok := idx.get("k")
	if !ok {
		t.Fatal("get() after set returned ok = false")
	}
	if entry.offset != 10 || entry.length != 5 {
		t.Errorf("get() = %+v, want {10 5}", entry)
	}

	old, had := idx.set("k", indexEntry{offset: 20, length: 8})
	if !had {
		t.Fatal("set() overwrite reported had = false")
	}
	if old.offset != 10 {
		t.Errorf("set() returned old offset %d, want 10", old.offset)
	}

	if idx.len() != 1 {
		t.Errorf("len() = %d, want 1", idx.len())
	}

	old, had = idx.delete("k")
	if !had || old.offset != 20 {
		t.Errorf("delete() = (%+v, %v), want ({offset:20 ...} true)", old, had)
	}
	if idx.len() != 0 {
		t.Errorf("len() after delete = %d, want 0", idx.len())
	}

	if _, had := idx.delete("k"); had {
		t.Error("delete() on absent key reported had = true")
	}
}

package journal

import "testing"

func TestSetGetRoundTrip(t *testing.T) {
	j := New[string, int]()
	j.Set("a", 1)
	v, found, deleted := j.Get("a")
	if !found || deleted || v != 1 {
		t.Fatalf("Get(a) = (%d, %v, %v), want (1, true, false)", v, found, deleted)
	}
}

func TestDiscardRestoresPriorValue(t *testing.T) {
	j := New[string, int]()
	j.Set("a", 1)
	cp := j.Record(NextCheckpoint())
	j.Set("a", 2)
	j.Set("b", 9)

	if err := j.Discard(cp); err != nil {
		t.Fatalf("Discard: %v", err)
	}

	v, found, deleted := j.Get("a")
	if !found || deleted || v != 1 {
		t.Fatalf("after discard Get(a) = (%d, %v, %v), want (1, true, false)", v, found, deleted)
	}
	if _, found, _ := j.Get("b"); found {
		t.Fatalf("after discard Get(b) found=true, want false (never existed before checkpoint)")
	}
}

func TestDiscardRestoresNewKeyToAbsent(t *testing.T) {
	j := New[string, int]()
	cp := j.Record(NextCheckpoint())
	j.Set("a", 1)
	j.Discard(cp)
	if _, found, _ := j.Get("a"); found {
		t.Fatalf("Get(a) found=true after discard of key that never existed, want false")
	}
}

func TestCommitMakesDiscardUnreachable(t *testing.T) {
	j := New[string, int]()
	root := j.RootCheckpoint()
	cp1 := j.Record(NextCheckpoint())
	j.Set("a", 1)
	cp2 := j.Record(NextCheckpoint())
	j.Set("a", 2)

	if err := j.Commit(cp2); err != nil {
		t.Fatalf("Commit(cp2): %v", err)
	}
	if err := j.Commit(cp1); err != nil {
		t.Fatalf("Commit(cp1): %v", err)
	}

	if err := j.Discard(cp1); err == nil {
		t.Fatalf("Discard(cp1) after commit: want error, got nil")
	}
	if err := j.Commit(root); !errorsIsCommitRoot(err) {
		t.Fatalf("Commit(root) = %v, want ErrCommitRoot", err)
	}
}

func errorsIsCommitRoot(err error) bool {
	return err == ErrCommitRoot
}

func TestDeleteThenDiscardRestoresPriorValue(t *testing.T) {
	j := New[string, int]()
	j.Set("a", 42)
	cp := j.Record(NextCheckpoint())
	j.Delete("a")

	if v, found, deleted := j.Get("a"); !found || !deleted {
		t.Fatalf("Get(a) after delete = (%d,%v,%v), want deleted", v, found, deleted)
	}

	j.Discard(cp)
	if v, found, deleted := j.Get("a"); !found || deleted || v != 42 {
		t.Fatalf("Get(a) after discard = (%d,%v,%v), want (42,true,false)", v, found, deleted)
	}
}

func TestUnknownCheckpointErrors(t *testing.T) {
	j := New[string, int]()
	if err := j.Discard(Checkpoint(999999)); err != ErrUnknownCheckpoint {
		t.Fatalf("Discard(unknown) = %v, want ErrUnknownCheckpoint", err)
	}
	if err := j.Commit(Checkpoint(999999)); err != ErrUnknownCheckpoint {
		t.Fatalf("Commit(unknown) = %v, want ErrUnknownCheckpoint", err)
	}
}

type fakeStore struct {
	data map[string]int
}

func (f *fakeStore) Put(k string, v int) { f.data[k] = v }
func (f *fakeStore) Delete(k string)     { delete(f.data, k) }

func TestPersistAppliesOverlayAndResets(t *testing.T) {
	j := New[string, int]()
	j.Set("a", 1)
	j.Set("b", 2)
	j.Delete("b")

	store := &fakeStore{data: map[string]int{"b": 7}}
	j.Persist(store)

	if store.data["a"] != 1 {
		t.Fatalf("store[a] = %d, want 1", store.data["a"])
	}
	if _, ok := store.data["b"]; ok {
		t.Fatalf("store[b] should have been deleted")
	}
	if !j.IsFlattened() {
		t.Fatalf("journal should be flattened to a single root checkpoint after persist")
	}
}

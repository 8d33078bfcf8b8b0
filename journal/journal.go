// Package journal implements the checkpoint-stacked overlay that backs
// every mutable table in the engine (accounts, storage, code, transient
// slots). It is grounded on the teacher's in-repo checkpoint/changeset
// pattern (db/AccountBatchDB.py in original_source), generalized with Go
// generics so one implementation serves every typed journal instead of
// four hand-duplicated classes.
package journal

import (
	"errors"
)

// Checkpoint is an opaque, monotonically-assigned handle to a point in
// a journal's history.
type Checkpoint uint64

var nextCheckpoint Checkpoint

// NextCheckpoint returns a fresh globally-monotonic checkpoint id. A
// single global counter (rather than one per journal) is what lets the
// State facade record one joint checkpoint id across all four
// journals and use it as a single revert/commit handle.
func NextCheckpoint() Checkpoint {
	nextCheckpoint++
	return nextCheckpoint
}

var (
	// ErrUnknownCheckpoint is returned by Commit/Discard when the
	// checkpoint is not on the current stack.
	ErrUnknownCheckpoint = errors.New("journal: unknown checkpoint")
	// ErrCommitRoot is returned when committing the root checkpoint;
	// callers must use Clear/Persist instead.
	ErrCommitRoot = errors.New("journal: cannot commit the root checkpoint, use persist instead")
	// ErrCheckpointExists is the value Record panics with when a
	// caller-supplied custom checkpoint id collides with one already on
	// record.
	ErrCheckpointExists = errors.New("journal: checkpoint already recorded")
)

type changeKind uint8

const (
	// revertToDB means: before this checkpoint, the key had no overlay
	// entry at all, on discard, fall back to the base store.
	revertToDB changeKind = iota
	// deleted means: before this checkpoint, the key was DELETED in
	// the overlay.
	deleted
	// set means: before this checkpoint, the key held a value in the
	// overlay.
	set
)

type change[V any] struct {
	kind  changeKind
	value V
}

// entry is an overlay value: either "set to V" or "deleted".
type entry[V any] struct {
	deleted bool
	value   V
}

// Journal is a checkpoint-stacked overlay over an external base store.
// K must be comparable (it is used as a Go map key); V may be any type.
type Journal[K comparable, V any] struct {
	current    map[K]entry[V]
	changesets map[Checkpoint]map[K]change[V]
	order      []Checkpoint // checkpoint stack, oldest first
	clearsAt   map[Checkpoint]bool
}

// New returns a Journal with a single root checkpoint already recorded.
func New[K comparable, V any]() *Journal[K, V] {
	j := &Journal[K, V]{
		current:    make(map[K]entry[V]),
		changesets: make(map[Checkpoint]map[K]change[V]),
		clearsAt:   make(map[Checkpoint]bool),
	}
	j.Record(NextCheckpoint())
	return j
}

// RootCheckpoint returns the journal's base checkpoint.
func (j *Journal[K, V]) RootCheckpoint() Checkpoint {
	return j.order[0]
}

// LastCheckpoint returns the most recently recorded checkpoint.
func (j *Journal[K, V]) LastCheckpoint() Checkpoint {
	return j.order[len(j.order)-1]
}

// IsFlattened reports whether there are no nested checkpoints beyond
// the root (i.e. every prior checkpoint has been committed).
func (j *Journal[K, V]) IsFlattened() bool {
	return len(j.order) < 2
}

// HasCheckpoint reports whether cp is currently on the stack.
func (j *Journal[K, V]) HasCheckpoint(cp Checkpoint) bool {
	for _, c := range j.order {
		if c == cp {
			return true
		}
	}
	return false
}

// Record pushes a new checkpoint and returns it. If cp is provided
// (non-zero callers typically pass NextCheckpoint(), but a caller may
// also pass a pre-minted id to keep several journals in lock-step) and
// already exists, Record panics with ErrCheckpointExists; it does not
// return an error, so callers check HasCheckpoint first if collision is
// a real possibility.
func (j *Journal[K, V]) Record(cp Checkpoint) Checkpoint {
	if _, exists := j.changesets[cp]; exists {
		panic(ErrCheckpointExists)
	}
	j.changesets[cp] = make(map[K]change[V])
	j.order = append(j.order, cp)
	return cp
}

// Get returns the overlay value for k and whether it was found. If
// found is false, the caller must consult the base store. If found is
// true but deleted is true, the key is authoritatively absent.
func (j *Journal[K, V]) Get(k K) (value V, found, deleted bool) {
	e, ok := j.current[k]
	if !ok {
		return value, false, false
	}
	if e.deleted {
		return value, true, true
	}
	return e.value, true, false
}

func (j *Journal[K, V]) captureRevert(k K) {
	top := j.changesets[j.LastCheckpoint()]
	if _, already := top[k]; already {
		return
	}
	if e, ok := j.current[k]; ok {
		if e.deleted {
			top[k] = change[V]{kind: deleted}
		} else {
			top[k] = change[V]{kind: set, value: e.value}
		}
	} else {
		top[k] = change[V]{kind: revertToDB}
	}
}

// Set assigns k = v in the overlay, recording whatever was there
// before (or the fact that nothing was) against the current checkpoint.
func (j *Journal[K, V]) Set(k K, v V) {
	j.captureRevert(k)
	j.current[k] = entry[V]{value: v}
}

// Delete marks k as DELETED in the overlay.
func (j *Journal[K, V]) Delete(k K) {
	j.captureRevert(k)
	j.current[k] = entry[V]{deleted: true}
}

// Commit collapses every checkpoint from the top of the stack down to
// and including cp: those checkpoints' changesets are discarded (they
// can no longer be reached by Discard) but current values are kept.
func (j *Journal[K, V]) Commit(cp Checkpoint) error {
	idx := j.indexOf(cp)
	if idx < 0 {
		return ErrUnknownCheckpoint
	}
	if idx == 0 {
		return ErrCommitRoot
	}
	for _, c := range j.order[idx:] {
		delete(j.changesets, c)
		delete(j.clearsAt, c)
	}
	j.order = j.order[:idx]
	return nil
}

// Discard pops every checkpoint from the top of the stack down to and
// including cp, replaying their revert-changesets in reverse
// (most-recent-first) order so current values end up exactly as they
// were immediately before cp was recorded.
func (j *Journal[K, V]) Discard(cp Checkpoint) error {
	idx := j.indexOf(cp)
	if idx < 0 {
		return ErrUnknownCheckpoint
	}
	for i := len(j.order) - 1; i >= idx; i-- {
		c := j.order[i]
		changeset := j.changesets[c]
		for k, ch := range changeset {
			switch ch.kind {
			case revertToDB:
				delete(j.current, k)
			case deleted:
				j.current[k] = entry[V]{deleted: true}
			case set:
				j.current[k] = entry[V]{value: ch.value}
			}
		}
		delete(j.changesets, c)
		delete(j.clearsAt, c)
	}
	j.order = j.order[:idx]
	return nil
}

func (j *Journal[K, V]) indexOf(cp Checkpoint) int {
	for i := len(j.order) - 1; i >= 0; i-- {
		if j.order[i] == cp {
			return i
		}
	}
	return -1
}

// Clear records a checkpoint whose revert-changeset is a verbatim copy
// of current_values, so a later Discard restores everything, and then
// empties the overlay, modeling "the underlying DB will also be
// wiped by some other mechanism."
func (j *Journal[K, V]) Clear() Checkpoint {
	cp := NextCheckpoint()
	snapshot := make(map[K]change[V], len(j.current))
	for k, e := range j.current {
		if e.deleted {
			snapshot[k] = change[V]{kind: deleted}
		} else {
			snapshot[k] = change[V]{kind: set, value: e.value}
		}
	}
	j.changesets[cp] = snapshot
	j.order = append(j.order, cp)
	j.clearsAt[cp] = true
	j.current = make(map[K]entry[V])
	return cp
}

// Store is the minimal backing K→V store Persist writes through to.
type Store[K comparable, V any] interface {
	Put(k K, v V)
	Delete(k K)
}

// Persist atomically applies the overlay diff to store, then collapses
// the journal back to a single fresh root checkpoint.
func (j *Journal[K, V]) Persist(store Store[K, V]) {
	for k, e := range j.current {
		if e.deleted {
			store.Delete(k)
		} else {
			store.Put(k, e.value)
		}
	}
	j.current = make(map[K]entry[V])
	j.changesets = make(map[Checkpoint]map[K]change[V])
	j.order = nil
	j.clearsAt = make(map[Checkpoint]bool)
	j.Record(NextCheckpoint())
}

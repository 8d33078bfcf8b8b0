package state

import (
	"github.com/blocklayer/tinyevm/journal"
	"github.com/blocklayer/tinyevm/types"
	"github.com/holiman/uint256"
)

// TransientDB implements EIP-1153 TLOAD/TSTORE: an in-memory-only
// overlay with no backing store at all, since transient values never
// survive past the transaction that created them. ClearAll wipes it at
// every transaction boundary.
type TransientDB struct {
	j *journal.Journal[transientKey, uint256.Int]
}

func NewTransientDB() *TransientDB {
	return &TransientDB{j: journal.New[transientKey, uint256.Int]()}
}

func (t *TransientDB) Get(addr types.Address, slot uint256.Int) uint256.Int {
	k := transientKey{addr: addr, slot: slot}
	if v, found, deleted := t.j.Get(k); found && !deleted {
		return v
	}
	return uint256.Int{}
}

func (t *TransientDB) Set(addr types.Address, slot, value uint256.Int) {
	k := transientKey{addr: addr, slot: slot}
	if value.IsZero() {
		t.j.Delete(k)
		return
	}
	t.j.Set(k, value)
}

func (t *TransientDB) Record(cp journal.Checkpoint) journal.Checkpoint { return t.j.Record(cp) }
func (t *TransientDB) Commit(cp journal.Checkpoint) error              { return t.j.Commit(cp) }
func (t *TransientDB) Discard(cp journal.Checkpoint) error             { return t.j.Discard(cp) }

// ClearAll drops every transient value, to be called at each new
// transaction's start.
func (t *TransientDB) ClearAll() {
	t.j.Clear()
}

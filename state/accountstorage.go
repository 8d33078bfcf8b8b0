package state

import (
	"github.com/blocklayer/tinyevm/journal"
	"github.com/blocklayer/tinyevm/types"
	"github.com/holiman/uint256"
)

// AccountStorageDB journals (address, slot) → value for every account's
// storage. Reading an untouched slot yields the zero word; writing zero
// to a slot that was already absent (zero everywhere) is a no-op so it
// never creates a spurious overlay entry, while writing zero to a slot
// that holds a non-zero value marks it DELETED, matching the "storing
// zero clears the slot" rule the original interpreter and gas-refund
// logic both depend on.
type AccountStorageDB struct {
	kv *KVStore
	j  *journal.Journal[storageKey, uint256.Int]
}

func NewAccountStorageDB(kv *KVStore) *AccountStorageDB {
	return &AccountStorageDB{kv: kv, j: journal.New[storageKey, uint256.Int]()}
}

// Get returns the value at (addr, slot), defaulting to zero.
func (s *AccountStorageDB) Get(addr types.Address, slot uint256.Int) uint256.Int {
	k := storageKey{addr: addr, slot: slot}
	if v, found, deleted := s.j.Get(k); found {
		if deleted {
			return uint256.Int{}
		}
		return v
	}
	if v, ok := s.kv.GetStorage(k); ok {
		return v
	}
	return uint256.Int{}
}

// Set writes value at (addr, slot), applying the zero-write
// collapsing rule described on AccountStorageDB.
func (s *AccountStorageDB) Set(addr types.Address, slot, value uint256.Int) {
	k := storageKey{addr: addr, slot: slot}
	if value.IsZero() {
		if s.Get(addr, slot).IsZero() {
			return
		}
		s.j.Delete(k)
		return
	}
	s.j.Set(k, value)
}

func (s *AccountStorageDB) Record(cp journal.Checkpoint) journal.Checkpoint { return s.j.Record(cp) }
func (s *AccountStorageDB) Commit(cp journal.Checkpoint) error              { return s.j.Commit(cp) }
func (s *AccountStorageDB) Discard(cp journal.Checkpoint) error             { return s.j.Discard(cp) }

func (s *AccountStorageDB) Persist() {
	s.j.Persist(storageStore{kv: s.kv})
}

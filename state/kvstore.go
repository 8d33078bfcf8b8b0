// Package state implements the account/storage/code/transient journals
// (spec.md §4.B) and the State facade that sits over them (§4.C).
package state

import (
	"github.com/blocklayer/tinyevm/types"
	"github.com/holiman/uint256"
)

// storageKey identifies one (address, slot) pair. It is comparable, so
// it can back a single journal instance shared by every account's
// storage instead of one journal per address, checkpoint/commit/
// discard behavior is identical either way since a joint checkpoint id
// rolls back all affected keys regardless of which address they
// belong to.
type storageKey struct {
	addr types.Address
	slot uint256.Int
}

// transientKey identifies one (address, slot) transient-storage pair.
type transientKey struct {
	addr types.Address
	slot uint256.Int
}

// KVStore is the backing key/value store beneath the journals: three
// logical tables, matching spec.md §6 exactly (account, account_storage,
// code). It is a plain in-memory map; a real deployment would back this
// with the SQL-backed persistence tier that spec.md §1 places out of
// scope.
type KVStore struct {
	accounts map[types.Address]types.Account
	storage  map[storageKey]uint256.Int
	code     map[types.Hash][]byte
}

// NewKVStore returns an empty backing store.
func NewKVStore() *KVStore {
	return &KVStore{
		accounts: make(map[types.Address]types.Account),
		storage:  make(map[storageKey]uint256.Int),
		code:     make(map[types.Hash][]byte),
	}
}

func (s *KVStore) GetAccount(addr types.Address) (types.Account, bool) {
	a, ok := s.accounts[addr]
	return a, ok
}
func (s *KVStore) PutAccount(addr types.Address, a types.Account) { s.accounts[addr] = a }
func (s *KVStore) DeleteAccount(addr types.Address)               { delete(s.accounts, addr) }

func (s *KVStore) GetStorage(k storageKey) (uint256.Int, bool) {
	v, ok := s.storage[k]
	return v, ok
}
func (s *KVStore) PutStorage(k storageKey, v uint256.Int) { s.storage[k] = v }
func (s *KVStore) DeleteStorage(k storageKey)             { delete(s.storage, k) }

func (s *KVStore) GetCode(h types.Hash) ([]byte, bool) {
	b, ok := s.code[h]
	return b, ok
}
func (s *KVStore) PutCode(h types.Hash, b []byte) { s.code[h] = b }
func (s *KVStore) DeleteCode(h types.Hash)        { delete(s.code, h) }

// accountStore / storageStore / codeStore adapt KVStore's typed
// methods to the journal.Store[K,V] interface expected by
// Journal.Persist.

type accountStore struct{ kv *KVStore }

func (a accountStore) Put(k types.Address, v types.Account) { a.kv.PutAccount(k, v) }
func (a accountStore) Delete(k types.Address)                { a.kv.DeleteAccount(k) }

type storageStore struct{ kv *KVStore }

func (s storageStore) Put(k storageKey, v uint256.Int) { s.kv.PutStorage(k, v) }
func (s storageStore) Delete(k storageKey)             { s.kv.DeleteStorage(k) }

type codeStore struct{ kv *KVStore }

func (c codeStore) Put(k types.Hash, v []byte) { c.kv.PutCode(k, v) }
func (c codeStore) Delete(k types.Hash)        { c.kv.DeleteCode(k) }

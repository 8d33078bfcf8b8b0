package state

import (
	"errors"

	"github.com/blocklayer/tinyevm/journal"
	"github.com/blocklayer/tinyevm/types"
)

// ErrAccountNeverAccessed is returned by Delete when called against an
// address that was never read or written in this journal's lifetime,
// mirroring the original Python AccountBatchDB's refusal to delete
// something it has no record of ever having touched.
var ErrAccountNeverAccessed = errors.New("state: delete of an address never accessed")

// AccountInfoDB journals Address → Account. It additionally tracks,
// per address, whether it has been read or written at all ("accessed"),
// so a caller can't silently delete an address the engine never looked
// at, a defect class the original implementation treats as a bug.
type AccountInfoDB struct {
	kv       *KVStore
	j        *journal.Journal[types.Address, types.Account]
	accessed map[types.Address]bool
}

func NewAccountInfoDB(kv *KVStore) *AccountInfoDB {
	return &AccountInfoDB{
		kv:       kv,
		j:        journal.New[types.Address, types.Account](),
		accessed: make(map[types.Address]bool),
	}
}

// Get returns the account at addr, falling back to the backing store,
// and an "exists" flag (false for an address with no record anywhere).
func (a *AccountInfoDB) Get(addr types.Address) (types.Account, bool) {
	a.accessed[addr] = true
	if v, found, deleted := a.j.Get(addr); found {
		return v, !deleted
	}
	acct, ok := a.kv.GetAccount(addr)
	return acct, ok
}

func (a *AccountInfoDB) Set(addr types.Address, acct types.Account) {
	a.accessed[addr] = true
	a.j.Set(addr, acct)
}

// Delete removes addr's account record. Returns ErrAccountNeverAccessed
// if addr was never read or written via Get/Set beforehand.
func (a *AccountInfoDB) Delete(addr types.Address) error {
	if !a.accessed[addr] {
		return ErrAccountNeverAccessed
	}
	a.j.Delete(addr)
	return nil
}

func (a *AccountInfoDB) Record(cp journal.Checkpoint) journal.Checkpoint { return a.j.Record(cp) }
func (a *AccountInfoDB) Commit(cp journal.Checkpoint) error              { return a.j.Commit(cp) }
func (a *AccountInfoDB) Discard(cp journal.Checkpoint) error             { return a.j.Discard(cp) }

func (a *AccountInfoDB) Persist() {
	a.j.Persist(accountStore{kv: a.kv})
}

package state

import (
	"github.com/blocklayer/tinyevm/evmcrypto"
	"github.com/blocklayer/tinyevm/journal"
	"github.com/blocklayer/tinyevm/types"
)

// CodeDB journals code_hash → bytecode. The same code always hashes to
// the same key, so re-deploying identical code rewrites that key with
// the same bytes; only writing empty code over an empty entry is
// skipped.
type CodeDB struct {
	kv *KVStore
	j  *journal.Journal[types.Hash, []byte]
}

func NewCodeDB(kv *KVStore) *CodeDB {
	return &CodeDB{kv: kv, j: journal.New[types.Hash, []byte]()}
}

// Get returns the code for hash, falling back to the backing store when
// the journal has no overlay entry. A hash with no code anywhere (most
// notably evmcrypto.EmptyCodeHash) yields an empty slice.
func (c *CodeDB) Get(hash types.Hash) []byte {
	if v, found, deleted := c.j.Get(hash); found {
		if deleted {
			return nil
		}
		return v
	}
	if v, ok := c.kv.GetCode(hash); ok {
		return v
	}
	return nil
}

// Set stores code under its own Keccak256 hash and returns that hash.
func (c *CodeDB) Set(code []byte) types.Hash {
	hash := evmcrypto.Keccak256Hash(code)
	if len(c.Get(hash)) == 0 && len(code) == 0 {
		return hash
	}
	c.j.Set(hash, code)
	return hash
}

func (c *CodeDB) Record(cp journal.Checkpoint) journal.Checkpoint { return c.j.Record(cp) }
func (c *CodeDB) Commit(cp journal.Checkpoint) error              { return c.j.Commit(cp) }
func (c *CodeDB) Discard(cp journal.Checkpoint) error             { return c.j.Discard(cp) }

func (c *CodeDB) Persist() {
	c.j.Persist(codeStore{kv: c.kv})
}

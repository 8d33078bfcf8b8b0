// Package oracle implements the ancestor-hash collaborator spec.md's
// component I abstracts over (get_block_hash(n) → Hash32 | absent),
// plus a JSON-RPC-backed adapter for block and transaction lookups
// (spec.md's ambient component N).
package oracle

import "github.com/blocklayer/tinyevm/types"

// AncestorHashOracle answers BLOCKHASH queries. Callers must only ask
// within the 256-block window preceding the current block; an oracle
// is free to return found=false outside that window rather than
// enforcing it itself.
type AncestorHashOracle interface {
	GetAncestorHash(n uint64) (hash types.Hash, found bool)
}

// Fixed is an in-memory AncestorHashOracle over a fixed block→hash
// table, suitable for tests. The CLI driver's offline mode uses an
// empty Fixed, so every lookup there returns found=false.
type Fixed struct {
	hashes map[uint64]types.Hash
}

// NewFixed returns a Fixed oracle seeded with hashes.
func NewFixed(hashes map[uint64]types.Hash) *Fixed {
	cp := make(map[uint64]types.Hash, len(hashes))
	for k, v := range hashes {
		cp[k] = v
	}
	return &Fixed{hashes: cp}
}

func (f *Fixed) GetAncestorHash(n uint64) (types.Hash, bool) {
	h, ok := f.hashes[n]
	return h, ok
}

// Set records block n's hash, overwriting any prior entry.
func (f *Fixed) Set(n uint64, hash types.Hash) {
	f.hashes[n] = hash
}

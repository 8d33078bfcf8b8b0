package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

// Account is the persistent metadata for one address: nonce, balance,
// a nominal storage root (never a real trie root), and
// the hash of the account's code.
type Account struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot Hash
	CodeHash    Hash
}

// NewEmptyAccount returns a freshly-touched account: zero nonce, zero
// balance, zero storage root, and codeHash set to the caller-supplied
// empty-code sentinel (EMPTY_HASH).
func NewEmptyAccount(emptyCodeHash Hash) Account {
	return Account{Balance: new(big.Int), CodeHash: emptyCodeHash}
}

// IsEmpty reports whether the account has the EIP-161 "empty" shape:
// zero nonce, zero balance, and no code.
func (a Account) IsEmpty(emptyCodeHash Hash) bool {
	return a.Nonce == 0 && a.Balance.Sign() == 0 && (a.CodeHash.IsZero() || a.CodeHash == emptyCodeHash)
}

// accountRLP is the wire shape encoded/decoded via go-ethereum's rlp
// package, an ordered sequence matching spec.md §6's backing-store
// encoding (nonce, balance, storage_root, code_hash).
type accountRLP struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot Hash
	CodeHash    Hash
}

// EncodeAccount serializes an Account for the backing store.
func EncodeAccount(a Account) ([]byte, error) {
	bal := a.Balance
	if bal == nil {
		bal = new(big.Int)
	}
	return rlp.EncodeToBytes(accountRLP{
		Nonce:       a.Nonce,
		Balance:     bal,
		StorageRoot: a.StorageRoot,
		CodeHash:    a.CodeHash,
	})
}

// DecodeAccount deserializes an Account from backing-store bytes.
func DecodeAccount(b []byte) (Account, error) {
	var dec accountRLP
	if err := rlp.DecodeBytes(b, &dec); err != nil {
		return Account{}, err
	}
	return Account{
		Nonce:       dec.Nonce,
		Balance:     dec.Balance,
		StorageRoot: dec.StorageRoot,
		CodeHash:    dec.CodeHash,
	}, nil
}

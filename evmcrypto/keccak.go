// Package evmcrypto wraps the cryptographic primitives the interpreter
// needs (hashing, contract address derivation and signature recovery;
// the elliptic-curve and KZG operations live in package precompiles)
// around real ecosystem libraries instead of hand-rolled math, per the
// teacher's own crypto package convention.
package evmcrypto

import (
	"github.com/blocklayer/tinyevm/types"
	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash is Keccak256 wrapped as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}

// EmptyCodeHash is Keccak-256 of the empty byte string, the sentinel
// code_hash of an account that exists but owns no code.
var EmptyCodeHash = Keccak256Hash(nil)

package evmcrypto

import (
	"math/big"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Ecrecover recovers the 65-byte uncompressed public key that produced
// sig (64-byte R||S plus a single recovery byte in [0,3]) over hash.
// It delegates to go-ethereum's secp256k1 binding rather than
// reimplementing curve arithmetic.
func Ecrecover(hash, sig []byte) ([]byte, error) {
	return gethcrypto.Ecrecover(hash, sig)
}

// ValidateSignatureValues reports whether r, s form a canonical
// secp256k1 signature (homestead enforces the lower-half-order s rule
// when homestead is true).
func ValidateSignatureValues(v byte, r, s []byte, homestead bool) bool {
	return gethcrypto.ValidateSignatureValues(v, new(big.Int).SetBytes(r), new(big.Int).SetBytes(s), homestead)
}

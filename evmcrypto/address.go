package evmcrypto

import (
	gethcommon "github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/blocklayer/tinyevm/types"
)

// CreateAddress derives the address CREATE assigns a new contract:
// Keccak256(RLP(sender, nonce))[12:], delegated to go-ethereum's crypto
// package rather than reimplementing the RLP encoding by hand.
func CreateAddress(sender types.Address, nonce uint64) types.Address {
	addr := gethcrypto.CreateAddress(gethcommon.Address(sender), nonce)
	return types.Address(addr)
}

// CreateAddress2 derives the address CREATE2 assigns a new contract
// (EIP-1014): Keccak256(0xff ++ sender ++ salt ++ Keccak256(initCode))[12:].
func CreateAddress2(sender types.Address, salt [32]byte, initCode []byte) types.Address {
	addr := gethcrypto.CreateAddress2(gethcommon.Address(sender), salt, Keccak256(initCode))
	return types.Address(addr)
}

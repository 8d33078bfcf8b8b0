// Package validate implements the boundary checks spec.md's component J
// calls for: bounded-integer, canonical-address, and byte-string
// invariants enforced at the edge of public operations. Failures here
// are programmer errors (malformed calls into the engine), never VM
// reverts, so every function returns a plain error rather than a
// vm.VMError.
package validate

import (
	"fmt"
	"math/big"

	"github.com/blocklayer/tinyevm/types"
)

// Uint256Max is the inclusive upper bound for any 256-bit EVM word.
var Uint256Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// NonNegativeInt checks that n is a non-negative big.Int, as required
// for values like nonce, balance, and gas that have no sign bit in the
// EVM's model.
func NonNegativeInt(name string, n *big.Int) error {
	if n == nil {
		return fmt.Errorf("validate: %s must not be nil", name)
	}
	if n.Sign() < 0 {
		return fmt.Errorf("validate: %s must be non-negative, got %s", name, n)
	}
	return nil
}

// BoundedUint256 checks that n fits in [0, 2^256 - 1].
func BoundedUint256(name string, n *big.Int) error {
	if err := NonNegativeInt(name, n); err != nil {
		return err
	}
	if n.Cmp(Uint256Max) > 0 {
		return fmt.Errorf("validate: %s exceeds 2^256-1, got %s", name, n)
	}
	return nil
}

// CanonicalAddress checks that b is exactly 20 bytes, the only byte
// length types.Address accepts.
func CanonicalAddress(name string, b []byte) error {
	if len(b) != types.AddressLength {
		return fmt.Errorf("validate: %s must be %d bytes, got %d", name, types.AddressLength, len(b))
	}
	return nil
}

// CanonicalHash checks that b is exactly 32 bytes, the only byte
// length types.Hash accepts.
func CanonicalHash(name string, b []byte) error {
	if len(b) != types.HashLength {
		return fmt.Errorf("validate: %s must be %d bytes, got %d", name, types.HashLength, len(b))
	}
	return nil
}

// BoundedBytes checks that b's length does not exceed max, used at
// the boundary for call data, return data, and code payloads where an
// external caller could otherwise hand the engine an unbounded slice.
func BoundedBytes(name string, b []byte, max int) error {
	if len(b) > max {
		return fmt.Errorf("validate: %s exceeds maximum length %d, got %d", name, max, len(b))
	}
	return nil
}

// CallDepth checks that depth is within maxDepth before a new sub-call
// frame is entered. Callers pass the engine's configured call depth
// limit (1024 by default, see vm.Config.MaxCallDepth).
func CallDepth(depth, maxDepth int) error {
	if depth < 0 || depth > maxDepth {
		return fmt.Errorf("validate: call depth %d exceeds maximum %d", depth, maxDepth)
	}
	return nil
}

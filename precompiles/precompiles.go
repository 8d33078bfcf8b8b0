// Package precompiles implements the ten Cancun-era precompiled
// contracts (addresses 0x01-0x0a) the CALL-family opcodes dispatch to
// instead of running interpreted bytecode. Grounded on the teacher's
// core/vm/precompiles.go registry and dispatch shape.
package precompiles

import (
	"errors"

	"github.com/blocklayer/tinyevm/types"
)

// Contract is the interface every precompiled contract implements.
type Contract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// ErrNotAPrecompile is returned by Run for an address with no
// registered precompiled contract.
var ErrNotAPrecompile = errors.New("precompiles: not a precompiled contract address")

// Cancun is the address→contract table active under the Cancun fork.
var Cancun = map[types.Address]Contract{
	types.BytesToAddress([]byte{0x01}): &ecrecover{},
	types.BytesToAddress([]byte{0x02}): &sha256hash{},
	types.BytesToAddress([]byte{0x03}): &ripemd160hash{},
	types.BytesToAddress([]byte{0x04}): &identity{},
	types.BytesToAddress([]byte{0x05}): &bigModExp{},
	types.BytesToAddress([]byte{0x06}): &bn254Add{},
	types.BytesToAddress([]byte{0x07}): &bn254ScalarMul{},
	types.BytesToAddress([]byte{0x08}): &bn254Pairing{},
	types.BytesToAddress([]byte{0x09}): &blake2F{},
	types.BytesToAddress([]byte{0x0a}): &kzgPointEvaluation{},
}

// IsPrecompile reports whether addr names a precompiled contract.
func IsPrecompile(addr types.Address) bool {
	_, ok := Cancun[addr]
	return ok
}

// Run executes the precompile at addr against input, charging gas out
// of the caller-supplied budget. It returns the output, the remaining
// gas, and an error either for an unrecognized address, an
// insufficient gas budget, or a contract-specific failure.
func Run(addr types.Address, input []byte, gas uint64) ([]byte, uint64, error) {
	p, ok := Cancun[addr]
	if !ok {
		return nil, gas, ErrNotAPrecompile
	}
	cost := p.RequiredGas(input)
	if gas < cost {
		return nil, 0, ErrOutOfGas
	}
	out, err := p.Run(input)
	return out, gas - cost, err
}

// ErrOutOfGas is returned by Run when the caller's gas budget is below
// the precompile's RequiredGas.
var ErrOutOfGas = errors.New("precompiles: out of gas")

// wordCount returns ceil(size / 32).
func wordCount(size int) uint64 {
	if size == 0 {
		return 0
	}
	return uint64((size + 31) / 32)
}

// padRight zero-pads data on the right to at least minLen bytes.
func padRight(data []byte, minLen int) []byte {
	if len(data) >= minLen {
		return data
	}
	padded := make([]byte, minLen)
	copy(padded, data)
	return padded
}

// dataSlice extracts length bytes from data starting at offset,
// zero-padding where data runs short, the same helper the teacher's
// modexp and point-evaluation precompiles use for their variable-width
// header-described fields.
func dataSlice(data []byte, offset, length uint64) []byte {
	if length == 0 {
		return nil
	}
	result := make([]byte, length)
	if offset >= uint64(len(data)) {
		return result
	}
	end := offset + length
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	copy(result, data[offset:end])
	return result
}

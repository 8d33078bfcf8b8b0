package vm

import (
	"github.com/blocklayer/tinyevm/evmcrypto"
)

func opKeccak256(c *Computation) error {
	offset, size := c.Stack.Pop(), c.Stack.Peek()
	data := c.Memory.GetPtr(offset.Uint64(), size.Uint64())
	hash := evmcrypto.Keccak256(data)
	size.SetBytes(hash)
	return nil
}

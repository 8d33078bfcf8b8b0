package vm

import (
	"github.com/blocklayer/tinyevm/types"
	"github.com/holiman/uint256"
)

// makeLog returns the LOGn handler for n topics (0..4).
func makeLog(n int) executionFunc {
	return func(c *Computation) error {
		offset, size := c.Stack.Pop(), c.Stack.Pop()
		topics := make([]uint256.Int, n)
		for i := 0; i < n; i++ {
			topics[i] = c.Stack.Pop()
		}
		data := c.Memory.Get(offset.Uint64(), size.Uint64())
		c.logs = append(c.logs, types.Log{
			Sequence: c.Tx.NextLogSequence(),
			Address:  c.Msg.StorageAddress,
			Topics:   topics,
			Data:     data,
		})
		return nil
	}
}

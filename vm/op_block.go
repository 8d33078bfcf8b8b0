package vm

import "github.com/holiman/uint256"

func opBlockhash(c *Computation) error {
	num := c.Stack.Peek()
	var w uint256.Int
	current := c.State.Block.Number
	if num.LtUint64(current) && current-num.Uint64() <= 256 {
		hash, found := c.State.GetAncestorHash(num.Uint64())
		if found {
			w.SetBytes(hash.Bytes())
		}
	}
	*c.Stack.Peek() = w
	return nil
}

func opCoinbase(c *Computation) error {
	w := addressToWord(c.State.Block.Coinbase)
	return c.Stack.Push(&w)
}

func opTimestamp(c *Computation) error {
	var w uint256.Int
	w.SetUint64(c.State.Block.Timestamp)
	return c.Stack.Push(&w)
}

func opNumber(c *Computation) error {
	var w uint256.Int
	w.SetUint64(c.State.Block.Number)
	return c.Stack.Push(&w)
}

func opPrevRandao(c *Computation) error {
	var w uint256.Int
	w.SetBytes(c.State.Block.PrevRandao.Bytes())
	return c.Stack.Push(&w)
}

func opGasLimit(c *Computation) error {
	var w uint256.Int
	w.SetUint64(c.State.Block.GasLimit)
	return c.Stack.Push(&w)
}

func opChainID(c *Computation) error {
	w := newWord(c.State.Block.ChainID)
	return c.Stack.Push(&w)
}

func opSelfBalance(c *Computation) error {
	bal := c.State.GetBalance(c.Msg.StorageAddress)
	w := newWord(bal)
	return c.Stack.Push(&w)
}

func opBaseFee(c *Computation) error {
	w := newWord(c.State.Block.BaseFee)
	return c.Stack.Push(&w)
}

func opBlobHash(c *Computation) error {
	idx := c.Stack.Peek()
	var w uint256.Int
	i, overflow := idx.Uint64WithOverflow()
	if !overflow && i < uint64(len(c.Tx.BlobVersionedHashes)) {
		w.SetBytes(c.Tx.BlobVersionedHashes[i].Bytes())
	}
	*c.Stack.Peek() = w
	return nil
}

func opBlobBaseFee(c *Computation) error {
	w := newWord(c.State.Block.BlobBaseFee())
	return c.Stack.Push(&w)
}

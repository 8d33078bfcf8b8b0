package vm

import (
	"github.com/blocklayer/tinyevm/types"
	"github.com/holiman/uint256"
)

func addressToWord(addr types.Address) uint256.Int {
	var w uint256.Int
	w.SetBytes(addr.Bytes())
	return w
}

func wordToAddress(w *uint256.Int) types.Address {
	var b [32]byte
	w.WriteToSlice(b[:])
	return types.BytesToAddress(b[12:])
}

func opAddress(c *Computation) error {
	w := addressToWord(c.Msg.StorageAddress)
	return c.Stack.Push(&w)
}

func opBalance(c *Computation) error {
	addr := wordToAddress(c.Stack.Peek())
	c.State.MarkAddressWarm(addr)
	bal := c.State.GetBalance(addr)
	w := newWord(bal)
	*c.Stack.Peek() = w
	return nil
}

func opOrigin(c *Computation) error {
	w := addressToWord(c.Tx.Origin)
	return c.Stack.Push(&w)
}

func opCaller(c *Computation) error {
	w := addressToWord(c.Msg.Sender)
	return c.Stack.Push(&w)
}

func opCallValue(c *Computation) error {
	w := newWord(c.Msg.Value)
	return c.Stack.Push(&w)
}

func opCalldataLoad(c *Computation) error {
	x := c.Stack.Peek()
	offset, overflow := x.Uint64WithOverflow()
	var b [32]byte
	if !overflow && offset < uint64(len(c.Msg.Data)) {
		copy(b[:], c.Msg.Data[offset:])
	}
	x.SetBytes(b[:])
	return nil
}

func opCalldataSize(c *Computation) error {
	var w uint256.Int
	w.SetUint64(uint64(len(c.Msg.Data)))
	return c.Stack.Push(&w)
}

func opCalldataCopy(c *Computation) error {
	destOffset, offset, size := c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	data := paddedSlice(c.Msg.Data, offset.Uint64(), size.Uint64())
	c.Memory.Set(destOffset.Uint64(), size.Uint64(), data)
	return nil
}

func opCodeSize(c *Computation) error {
	var w uint256.Int
	w.SetUint64(uint64(len(c.Msg.Code)))
	return c.Stack.Push(&w)
}

func opCodeCopy(c *Computation) error {
	destOffset, offset, size := c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	data := paddedSlice(c.Msg.Code, offset.Uint64(), size.Uint64())
	c.Memory.Set(destOffset.Uint64(), size.Uint64(), data)
	return nil
}

func opGasPrice(c *Computation) error {
	w := newWord(c.Tx.GasPrice)
	return c.Stack.Push(&w)
}

func opExtcodesize(c *Computation) error {
	addr := wordToAddress(c.Stack.Peek())
	c.State.MarkAddressWarm(addr)
	var w uint256.Int
	w.SetUint64(uint64(len(c.State.GetCode(addr))))
	*c.Stack.Peek() = w
	return nil
}

func opExtcodecopy(c *Computation) error {
	addrWord, destOffset, offset, size := c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	addr := wordToAddress(&addrWord)
	c.State.MarkAddressWarm(addr)
	code := c.State.GetCode(addr)
	data := paddedSlice(code, offset.Uint64(), size.Uint64())
	c.Memory.Set(destOffset.Uint64(), size.Uint64(), data)
	return nil
}

func opReturndataSize(c *Computation) error {
	var w uint256.Int
	w.SetUint64(uint64(len(c.ReturnData)))
	return c.Stack.Push(&w)
}

func opReturndataCopy(c *Computation) error {
	destOffset, offset, size := c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	off, sz := offset.Uint64(), size.Uint64()
	if off+sz > uint64(len(c.ReturnData)) {
		return ErrReturnDataOutOfBounds
	}
	c.Memory.Set(destOffset.Uint64(), sz, c.ReturnData[off:off+sz])
	return nil
}

func opExtcodehash(c *Computation) error {
	addr := wordToAddress(c.Stack.Peek())
	c.State.MarkAddressWarm(addr)
	var w uint256.Int
	if !c.State.Exists(addr) {
		*c.Stack.Peek() = w
		return nil
	}
	hash := c.State.GetCodeHash(addr)
	w.SetBytes(hash.Bytes())
	*c.Stack.Peek() = w
	return nil
}

// paddedSlice returns src[offset:offset+size], zero-padding on the
// right when the requested range runs past src's end, the convention
// CALLDATACOPY/CODECOPY/EXTCODECOPY all share.
func paddedSlice(src []byte, offset, size uint64) []byte {
	out := make([]byte, size)
	if offset >= uint64(len(src)) {
		return out
	}
	avail := src[offset:]
	n := uint64(len(avail))
	if n > size {
		n = size
	}
	copy(out, avail[:n])
	return out
}

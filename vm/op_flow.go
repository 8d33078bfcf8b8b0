package vm

import "github.com/holiman/uint256"

func opStop(c *Computation) error {
	return Halt
}

func opPop(c *Computation) error {
	c.Stack.Pop()
	return nil
}

func opMload(c *Computation) error {
	offset := c.Stack.Peek()
	var w uint256.Int
	w.SetBytes(c.Memory.Get(offset.Uint64(), 32))
	*c.Stack.Peek() = w
	return nil
}

func opMstore(c *Computation) error {
	offset, val := c.Stack.Pop(), c.Stack.Pop()
	c.Memory.Set32(offset.Uint64(), &val)
	return nil
}

func opMstore8(c *Computation) error {
	offset, val := c.Stack.Pop(), c.Stack.Pop()
	c.Memory.Set(offset.Uint64(), 1, []byte{byte(val.Uint64())})
	return nil
}

func opSload(c *Computation) error {
	slot := c.Stack.Peek()
	c.State.MarkStorageWarm(c.Msg.StorageAddress, *slot)
	v := c.State.Storage.Get(c.Msg.StorageAddress, *slot)
	*c.Stack.Peek() = v
	return nil
}

func opSstore(c *Computation) error {
	slot, val := c.Stack.Pop(), c.Stack.Pop()
	c.State.MarkStorageWarm(c.Msg.StorageAddress, slot)
	c.State.Storage.Set(c.Msg.StorageAddress, slot, val)
	return nil
}

func opJump(c *Computation) error {
	dest := c.Stack.Pop()
	d := dest.Uint64()
	if !dest.IsUint64() || !c.Code.IsValidJumpDest(d) {
		return ErrInvalidJump
	}
	c.Code.SetPC(d)
	return nil
}

func opJumpi(c *Computation) error {
	dest, cond := c.Stack.Pop(), c.Stack.Pop()
	if cond.IsZero() {
		return nil
	}
	d := dest.Uint64()
	if !dest.IsUint64() || !c.Code.IsValidJumpDest(d) {
		return ErrInvalidJump
	}
	c.Code.SetPC(d)
	return nil
}

func opPc(c *Computation) error {
	var w uint256.Int
	w.SetUint64(c.Code.PC() - 1)
	return c.Stack.Push(&w)
}

func opMsize(c *Computation) error {
	var w uint256.Int
	w.SetUint64(uint64(c.Memory.Len()))
	return c.Stack.Push(&w)
}

// opGas returns the message's gas verbatim, spec.md §9's nominal gas
// stance means nothing is ever deducted from it during execution.
func opGas(c *Computation) error {
	var w uint256.Int
	w.SetUint64(c.Msg.Gas)
	return c.Stack.Push(&w)
}

func opJumpdest(c *Computation) error {
	return nil
}

func opTload(c *Computation) error {
	slot := c.Stack.Peek()
	v := c.State.Transient.Get(c.Msg.StorageAddress, *slot)
	*c.Stack.Peek() = v
	return nil
}

func opTstore(c *Computation) error {
	slot, val := c.Stack.Pop(), c.Stack.Pop()
	c.State.Transient.Set(c.Msg.StorageAddress, slot, val)
	return nil
}

func opMcopy(c *Computation) error {
	dst, src, size := c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	c.Memory.Copy(dst.Uint64(), src.Uint64(), size.Uint64())
	return nil
}

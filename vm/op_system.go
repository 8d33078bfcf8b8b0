package vm

import (
	"math/big"

	"github.com/blocklayer/tinyevm/evmcrypto"
	"github.com/blocklayer/tinyevm/types"
	"github.com/holiman/uint256"
)

// allButOne64th implements EIP-150: a CALL-family instruction may only
// forward 63/64ths of the gas the caller has left to retain, structurally
// present even though spec.md §9 never deducts against a global meter.
func allButOne64th(gas uint64) uint64 {
	return gas - gas/64
}

// forwardedGas caps the requested gas operand at the 63/64ths ceiling.
func forwardedGas(requested *uint256.Int, available uint64) uint64 {
	ceiling := allButOne64th(available)
	if !requested.IsUint64() || requested.Uint64() > ceiling {
		return ceiling
	}
	return requested.Uint64()
}

func opReturn(c *Computation) error {
	offset, size := c.Stack.Pop(), c.Stack.Pop()
	c.Output = c.Memory.Get(offset.Uint64(), size.Uint64())
	return Halt
}

func opRevert(c *Computation) error {
	offset, size := c.Stack.Pop(), c.Stack.Pop()
	c.Output = c.Memory.Get(offset.Uint64(), size.Uint64())
	return ErrExecutionReverted
}

func opInvalidOp(c *Computation) error {
	return ErrInvalidInstruction
}

func opSelfDestruct(c *Computation) error {
	beneficiaryWord := c.Stack.Pop()
	beneficiary := wordToAddress(&beneficiaryWord)
	self := c.Msg.StorageAddress

	bal := c.State.GetBalance(self)
	if bal.Sign() != 0 {
		c.State.AddBalance(beneficiary, bal)
		c.State.SetBalance(self, new(big.Int))
	}

	// EIP-6780: only an address CREATE'd within this transaction is
	// actually removed from state and reported for deletion; an older
	// contract just loses its balance. beneficiary is recorded either way.
	if c.State.IsContractCreated(self) {
		if err := c.State.DeleteAccount(self); err != nil {
			return err
		}
		c.accountsToDelete[self] = true
	}
	c.beneficiaries[self] = beneficiary
	return Halt
}

func pushBool(c *Computation, ok bool) error {
	var w uint256.Int
	if ok {
		w.SetOne()
	}
	return c.Stack.Push(&w)
}

func opCreate(c *Computation) error {
	value, offset, size := c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	initCode := c.Memory.Get(offset.Uint64(), size.Uint64())

	sender := c.Msg.StorageAddress
	nonce := c.State.GetNonce(sender)
	target := evmcrypto.CreateAddress(sender, nonce)
	c.State.SetNonce(sender, nonce+1)

	msg := &Message{
		Gas:                 allButOne64th(c.Msg.Gas),
		To:                  types.Address{},
		Sender:              sender,
		Value:               value.ToBig(),
		Code:                initCode,
		CodeAddress:         types.Address{},
		StorageAddress:      target,
		CreateAddress:       target,
		Depth:               c.Msg.Depth + 1,
		IsStatic:            c.Msg.IsStatic,
		ShouldTransferValue: true,
	}
	child := applyCreateMessage(c.State, msg, c.Tx, c.Config)
	c.Children = append(c.Children, child)

	if child.IsError() {
		c.ReturnData = child.Output
		return pushBool(c, false)
	}
	c.ReturnData = nil
	var w uint256.Int
	w.SetBytes(target.Bytes())
	return c.Stack.Push(&w)
}

func opCreate2(c *Computation) error {
	value, offset, size, saltWord := c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	initCode := c.Memory.Get(offset.Uint64(), size.Uint64())

	var salt [32]byte
	saltWord.WriteToSlice(salt[:])

	sender := c.Msg.StorageAddress
	target := evmcrypto.CreateAddress2(sender, salt, initCode)
	nonce := c.State.GetNonce(sender)
	c.State.SetNonce(sender, nonce+1)

	msg := &Message{
		Gas:                 allButOne64th(c.Msg.Gas),
		To:                  types.Address{},
		Sender:              sender,
		Value:               value.ToBig(),
		Code:                initCode,
		CodeAddress:         types.Address{},
		StorageAddress:      target,
		CreateAddress:       target,
		Depth:               c.Msg.Depth + 1,
		IsStatic:            c.Msg.IsStatic,
		ShouldTransferValue: true,
	}
	child := applyCreateMessage(c.State, msg, c.Tx, c.Config)
	c.Children = append(c.Children, child)

	if child.IsError() {
		c.ReturnData = child.Output
		return pushBool(c, false)
	}
	c.ReturnData = nil
	var w uint256.Int
	w.SetBytes(target.Bytes())
	return c.Stack.Push(&w)
}

func opCall(c *Computation) error {
	gasWord := c.Stack.Pop()
	addrWord, value, argsOffset, argsSize, retOffset, retSize :=
		c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	addr := wordToAddress(&addrWord)
	c.State.MarkAddressWarm(addr)

	if c.Msg.IsStatic && value.Sign() != 0 {
		return ErrWriteProtection
	}

	input := c.Memory.Get(argsOffset.Uint64(), argsSize.Uint64())
	msg := &Message{
		Gas:                 forwardedGas(&gasWord, c.Msg.Gas),
		To:                  addr,
		Sender:              c.Msg.StorageAddress,
		Value:               value.ToBig(),
		Data:                input,
		Code:                c.State.GetCode(addr),
		CodeAddress:         addr,
		StorageAddress:      addr,
		Depth:               c.Msg.Depth + 1,
		IsStatic:            c.Msg.IsStatic,
		ShouldTransferValue: true,
	}
	return runChildCall(c, msg, retOffset.Uint64(), retSize.Uint64())
}

func opCallCode(c *Computation) error {
	gasWord := c.Stack.Pop()
	addrWord, value, argsOffset, argsSize, retOffset, retSize :=
		c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	addr := wordToAddress(&addrWord)
	c.State.MarkAddressWarm(addr)

	input := c.Memory.Get(argsOffset.Uint64(), argsSize.Uint64())
	msg := &Message{
		Gas:                 forwardedGas(&gasWord, c.Msg.Gas),
		To:                  c.Msg.StorageAddress,
		Sender:              c.Msg.StorageAddress,
		Value:               value.ToBig(),
		Data:                input,
		Code:                c.State.GetCode(addr),
		CodeAddress:         addr,
		StorageAddress:      c.Msg.StorageAddress,
		Depth:               c.Msg.Depth + 1,
		IsStatic:            c.Msg.IsStatic,
		ShouldTransferValue: true,
	}
	return runChildCall(c, msg, retOffset.Uint64(), retSize.Uint64())
}

func opDelegateCall(c *Computation) error {
	gasWord := c.Stack.Pop()
	addrWord, argsOffset, argsSize, retOffset, retSize :=
		c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	addr := wordToAddress(&addrWord)
	c.State.MarkAddressWarm(addr)

	input := c.Memory.Get(argsOffset.Uint64(), argsSize.Uint64())
	msg := &Message{
		Gas:                 forwardedGas(&gasWord, c.Msg.Gas),
		To:                  c.Msg.StorageAddress,
		Sender:              c.Msg.Sender,
		Value:               c.Msg.Value,
		Data:                input,
		Code:                c.State.GetCode(addr),
		CodeAddress:         addr,
		StorageAddress:      c.Msg.StorageAddress,
		Depth:               c.Msg.Depth + 1,
		IsStatic:            c.Msg.IsStatic,
		ShouldTransferValue: false,
	}
	return runChildCall(c, msg, retOffset.Uint64(), retSize.Uint64())
}

func opStaticCall(c *Computation) error {
	gasWord := c.Stack.Pop()
	addrWord, argsOffset, argsSize, retOffset, retSize :=
		c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop(), c.Stack.Pop()
	addr := wordToAddress(&addrWord)
	c.State.MarkAddressWarm(addr)

	input := c.Memory.Get(argsOffset.Uint64(), argsSize.Uint64())
	msg := &Message{
		Gas:                 forwardedGas(&gasWord, c.Msg.Gas),
		To:                  addr,
		Sender:              c.Msg.StorageAddress,
		Value:               new(big.Int),
		Data:                input,
		Code:                c.State.GetCode(addr),
		CodeAddress:         addr,
		StorageAddress:      addr,
		Depth:               c.Msg.Depth + 1,
		IsStatic:            true,
		ShouldTransferValue: false,
	}
	return runChildCall(c, msg, retOffset.Uint64(), retSize.Uint64())
}

// runChildCall dispatches msg as a child frame, copies its output into
// the caller's memory at [retOffset, retOffset+retSize), records the
// caller's ReturnData, and pushes the success flag every CALL-family
// opcode returns.
func runChildCall(c *Computation, msg *Message, retOffset, retSize uint64) error {
	child := applyMessage(c.State, msg, c.Tx, c.Config)
	c.Children = append(c.Children, child)
	c.ReturnData = child.Output
	if retSize > 0 {
		c.Memory.Set(retOffset, retSize, paddedSlice(child.Output, 0, retSize))
	}
	return pushBool(c, !child.IsError())
}

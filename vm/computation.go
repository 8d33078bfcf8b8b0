package vm

import (
	"errors"
	"math/big"

	"github.com/blocklayer/tinyevm/journal"
	"github.com/blocklayer/tinyevm/log"
	"github.com/blocklayer/tinyevm/precompiles"
	"github.com/blocklayer/tinyevm/state"
	"github.com/blocklayer/tinyevm/types"
	"github.com/blocklayer/tinyevm/validate"
	"github.com/holiman/uint256"
)

const (
	maxCodeSize     = 24576 // EIP-170
	maxInitCodeSize = 2 * maxCodeSize // EIP-3860
)

var jumpTable = NewCancunJumpTable()

// Computation is one call frame: the message and transaction context it
// executes under, its private stack/memory/code stream, the output it
// produces, and the side-effect buckets it accumulates along the way
// (child frames, logs, self-destructs). Grounded on original_source's
// vm/Computation.py, with apply_message/apply_create_message/
// apply_computation/build_computation living here in vm rather than on
// state.State, to keep state from importing vm (see DESIGN.md).
type Computation struct {
	State  *state.State
	Msg    *Message
	Tx     *TransactionContext
	Config *Config

	Code   *CodeStream
	Stack  *Stack
	Memory *Memory

	// ReturnData is the most recent child call's output, readable via
	// RETURNDATACOPY/RETURNDATASIZE until the next child call replaces it.
	ReturnData []byte
	// Output is this frame's own final output (RETURN/REVERT's payload,
	// or a CREATE's deployed runtime code).
	Output []byte
	Err    error

	Children         []*Computation
	beneficiaries    map[types.Address]types.Address
	accountsToDelete map[types.Address]bool
	logs             []types.Log
}

// buildComputation constructs a fresh call frame ready to execute msg's
// code, sharing st, tx and cfg with its caller. A nil cfg is replaced
// with the default Config (1024-frame depth limit, tracing disabled).
func buildComputation(st *state.State, msg *Message, tx *TransactionContext, cfg *Config) *Computation {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Computation{
		State:            st,
		Msg:              msg,
		Tx:               tx,
		Config:           cfg,
		Code:             NewCodeStream(msg.Code),
		Stack:            NewStack(),
		Memory:           NewMemory(),
		beneficiaries:    make(map[types.Address]types.Address),
		accountsToDelete: make(map[types.Address]bool),
	}
}

// maxCallDepth returns cfg's configured depth limit, defaulting the
// way buildComputation does if cfg is nil.
func maxCallDepth(cfg *Config) int {
	if cfg == nil {
		return defaultMaxCallDepth
	}
	return cfg.MaxCallDepth
}

// IsError reports whether this frame terminated abnormally.
func (c *Computation) IsError() bool { return c.Err != nil }

// GetAccountsForDeletion returns every address self-destructed within
// this frame or any of its descendants that was also CREATE'd within
// the current transaction (EIP-6780): a pre-existing contract that
// self-destructs still transfers its balance via beneficiaries, but
// is never itself appended to this list.
func (c *Computation) GetAccountsForDeletion() []types.Address {
	addrs := make([]types.Address, 0, len(c.accountsToDelete))
	for addr := range c.accountsToDelete {
		addrs = append(addrs, addr)
	}
	for _, child := range c.Children {
		if child.IsError() {
			continue
		}
		addrs = append(addrs, child.GetAccountsForDeletion()...)
	}
	return addrs
}

// GetSelfDestructBeneficiaries returns the selfdestructed-address ->
// beneficiary-address map accumulated across this frame and its
// non-error descendants.
func (c *Computation) GetSelfDestructBeneficiaries() map[types.Address]types.Address {
	out := make(map[types.Address]types.Address)
	for addr, ben := range c.beneficiaries {
		out[addr] = ben
	}
	for _, child := range c.Children {
		if child.IsError() {
			continue
		}
		for addr, ben := range child.GetSelfDestructBeneficiaries() {
			out[addr] = ben
		}
	}
	return out
}

// GetRawLogEntries returns every LOGn emission from this frame and its
// non-error descendants, in the transaction-global sequence order
// TransactionContext.NextLogSequence assigned them.
func (c *Computation) GetRawLogEntries() []types.Log {
	out := append([]types.Log(nil), c.logs...)
	for _, child := range c.Children {
		if child.IsError() {
			continue
		}
		out = append(out, child.GetRawLogEntries()...)
	}
	sortLogsBySequence(out)
	return out
}

func sortLogsBySequence(logs []types.Log) {
	for i := 1; i < len(logs); i++ {
		for j := i; j > 0 && logs[j].Sequence < logs[j-1].Sequence; j-- {
			logs[j], logs[j-1] = logs[j-1], logs[j]
		}
	}
}

// applyComputation runs the fetch-decode-execute loop until the frame
// halts (STOP/RETURN/REVERT/SELFDESTRUCT), falls off the end of code
// (implicit STOP), or an opcode handler returns an error.
func applyComputation(c *Computation) {
	for {
		if c.Code.AtEnd() {
			return
		}
		pc := c.Code.PC()
		op := c.Code.Next()

		tracer := c.Config.Tracer
		operation := jumpTable[op]
		if operation == nil {
			c.Err = vmErrorFor(ErrInvalidInstruction)
			if tracer != nil {
				tracer.CaptureFault(pc, op, c.Msg.Gas, 0, c.Msg.Depth, c.Err)
			}
			return
		}
		if c.Stack.Len() < operation.minStack {
			c.Err = vmErrorFor(ErrStackUnderflow)
			if tracer != nil {
				tracer.CaptureFault(pc, op, c.Msg.Gas, 0, c.Msg.Depth, c.Err)
			}
			return
		}
		if c.Stack.Len() > operation.maxStack {
			c.Err = vmErrorFor(ErrStackOverflow)
			if tracer != nil {
				tracer.CaptureFault(pc, op, c.Msg.Gas, 0, c.Msg.Depth, c.Err)
			}
			return
		}
		if operation.writes && c.Msg.IsStatic {
			c.Err = vmErrorFor(ErrWriteProtection)
			if tracer != nil {
				tracer.CaptureFault(pc, op, c.Msg.Gas, 0, c.Msg.Depth, c.Err)
			}
			return
		}
		if operation.memorySize != nil {
			size := operation.memorySize(c.Stack)
			c.Memory.Extend(size)
		}

		if tracer != nil {
			tracer.CaptureState(pc, op, c.Msg.Gas, 0, c.Stack, c.Memory, c.Msg.Depth)
		}

		c.Code.SetPC(pc + 1 + uint64(op.PushSize()))
		if err := operation.execute(c); err != nil {
			if errors.Is(err, Halt) {
				return
			}
			if errors.Is(err, ErrExecutionReverted) {
				c.Err = vmErrorFor(ErrExecutionReverted)
			} else {
				c.Err = vmErrorFor(err)
			}
			if tracer != nil {
				tracer.CaptureFault(pc, op, c.Msg.Gas, 0, c.Msg.Depth, c.Err)
			}
			return
		}
	}
}

// applyMessage runs msg as a top-level or CALL-family child frame: it
// snapshots state, executes msg's code, and commits or reverts
// depending on the outcome. A VMError that erases return data clears
// the frame's Output the way go-ethereum's EVM.Call does on failure.
func applyMessage(st *state.State, msg *Message, tx *TransactionContext, cfg *Config) *Computation {
	if err := validate.CallDepth(msg.Depth, maxCallDepth(cfg)); err != nil {
		c := buildComputation(st, msg, tx, cfg)
		c.Err = vmErrorFor(ErrDepthLimit)
		return c
	}

	cp := st.Snapshot()
	c := buildComputation(st, msg, tx, cfg)
	log.Default().Module("vm").Debug("COMPUTATION STARTING", "depth", msg.Depth, "to", msg.StorageAddress.Hex(), "gas", msg.Gas)

	if msg.ShouldTransferValue && msg.Value != nil && msg.Value.Sign() != 0 {
		if st.GetBalance(msg.Sender).Cmp(msg.Value) < 0 {
			c.Err = vmErrorFor(ErrInsufficientBalance)
			_ = st.Revert(cp)
			return c
		}
		st.Transfer(msg.Sender, msg.StorageAddress, msg.Value)
	}

	if precompileRun(c) {
		finalizeMessage(st, c, cp)
		return c
	}

	applyComputation(c)
	finalizeMessage(st, c, cp)
	return c
}

func finalizeMessage(st *state.State, c *Computation, cp journal.Checkpoint) {
	if c.IsError() {
		verr := c.Err.(VMError)
		if verr.ErasesReturnData() {
			c.Output = nil
		}
		_ = st.Revert(cp)
		log.Default().Module("vm").Debug("COMPUTATION ERROR", "depth", c.Msg.Depth, "err", c.Err)
		return
	}
	_ = st.Commit(cp)
	log.Default().Module("vm").Debug("COMPUTATION SUCCESS", "depth", c.Msg.Depth, "outputLen", len(c.Output))
}

// applyCreateMessage runs a CREATE/CREATE2 message: it derives and
// validates the new contract's address, checks for a collision with an
// existing contract, runs msg.Code as init code, and on success stores
// whatever bytes the init code returned as the new account's runtime
// code.
func applyCreateMessage(st *state.State, msg *Message, tx *TransactionContext, cfg *Config) *Computation {
	if err := validate.CallDepth(msg.Depth, maxCallDepth(cfg)); err != nil {
		c := buildComputation(st, msg, tx, cfg)
		c.Err = vmErrorFor(ErrDepthLimit)
		return c
	}
	if len(msg.Code) > maxInitCodeSize {
		c := buildComputation(st, msg, tx, cfg)
		c.Err = vmErrorFor(ErrMaxInitCodeSizeExceeded)
		return c
	}

	target := msg.CreateAddress
	cp := st.Snapshot()
	c := buildComputation(st, msg, tx, cfg)
	log.Default().Module("vm").Debug("COMPUTATION STARTING", "depth", msg.Depth, "create", target.Hex(), "gas", msg.Gas)

	if acct, exists := st.Accounts.Get(target); exists && (acct.Nonce != 0 || len(st.GetCode(target)) != 0) {
		c.Err = vmErrorFor(ErrContractCollision)
		_ = st.Revert(cp)
		log.Default().Module("vm").Debug("COMPUTATION ERROR", "depth", msg.Depth, "err", c.Err)
		return c
	}

	st.SetNonce(target, 1)
	st.MarkContractCreated(target)

	if msg.Value != nil && msg.Value.Sign() != 0 {
		if st.GetBalance(msg.Sender).Cmp(msg.Value) < 0 {
			c.Err = vmErrorFor(ErrInsufficientBalance)
			_ = st.Revert(cp)
			log.Default().Module("vm").Debug("COMPUTATION ERROR", "depth", msg.Depth, "err", c.Err)
			return c
		}
		st.Transfer(msg.Sender, target, msg.Value)
	}

	applyComputation(c)
	if c.IsError() {
		verr := c.Err.(VMError)
		if verr.ErasesReturnData() {
			c.Output = nil
		}
		_ = st.Revert(cp)
		log.Default().Module("vm").Debug("COMPUTATION ERROR", "depth", msg.Depth, "err", c.Err)
		return c
	}

	runtimeCode := c.Output
	if len(runtimeCode) > maxCodeSize {
		c.Err = vmErrorFor(ErrMaxCodeSizeExceeded)
		_ = st.Revert(cp)
		log.Default().Module("vm").Debug("COMPUTATION ERROR", "depth", msg.Depth, "err", c.Err)
		return c
	}
	if len(runtimeCode) > 0 && runtimeCode[0] == 0xef {
		c.Err = vmErrorFor(ErrCodeStoreOutOfGas)
		_ = st.Revert(cp)
		log.Default().Module("vm").Debug("COMPUTATION ERROR", "depth", msg.Depth, "err", c.Err)
		return c
	}
	st.SetCode(target, runtimeCode)
	_ = st.Commit(cp)
	log.Default().Module("vm").Debug("COMPUTATION SUCCESS", "depth", msg.Depth, "create", target.Hex(), "codeLen", len(runtimeCode))
	return c
}

// precompileRun runs msg against the precompile registry if CodeAddress
// names one, returning true if it was handled (whether successfully or
// not) so applyMessage skips the bytecode interpreter entirely.
func precompileRun(c *Computation) bool {
	if !precompiles.IsPrecompile(c.Msg.CodeAddress) {
		return false
	}
	log.Default().Module("vm").Debug("precompile dispatch", "address", c.Msg.CodeAddress.Hex())
	out, _, err := precompiles.Run(c.Msg.CodeAddress, c.Msg.Data, c.Msg.Gas)
	if err != nil {
		c.Err = vmErrorFor(ErrExecutionReverted)
		return true
	}
	c.Output = out
	return true
}

// newWord is a small convenience for handlers that need to push a
// freshly-computed uint256 value.
func newWord(v *big.Int) uint256.Int {
	var w uint256.Int
	w.SetFromBig(v)
	return w
}

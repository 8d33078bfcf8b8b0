package vm

import (
	"math/big"

	"github.com/blocklayer/tinyevm/evmcrypto"
	"github.com/blocklayer/tinyevm/state"
	"github.com/blocklayer/tinyevm/types"
)

// ExecutionOutcome is the externally-visible result of running one
// top-level message through the engine: the output returned by the
// outermost frame, whether it reverted, the logs it emitted (in
// transaction-sequence order), and the accounts SELFDESTRUCT removed.
type ExecutionOutcome struct {
	Output                    []byte
	Reverted                  bool
	Error                     error
	Logs                      []types.Log
	DeletedAccounts           []types.Address
	SelfDestructBeneficiaries map[types.Address]types.Address
}

// ExecuteBytecode is the engine's single entry point (spec.md §6):
// given a transaction's origin/gas price/blob hashes and one call
// message's parameters, it runs the call to completion against st and
// returns the outcome. code is the bytecode actually executed; for an
// ordinary call this is the callee's stored code, for a CREATE it is
// the init code. Runs with the default Config (1024-frame depth limit,
// tracing disabled); use ExecuteBytecodeWithConfig to override either.
func ExecuteBytecode(
	st *state.State,
	origin types.Address,
	gasPrice *big.Int,
	blobHashes []types.Hash,
	gas uint64,
	to types.Address,
	sender types.Address,
	value *big.Int,
	data []byte,
	code []byte,
	codeAddress types.Address,
) *ExecutionOutcome {
	return ExecuteBytecodeWithConfig(st, origin, gasPrice, blobHashes, gas, to, sender, value, data, code, codeAddress, nil)
}

// ExecuteBytecodeWithConfig is ExecuteBytecode with an explicit Config,
// letting callers attach a tracer or a non-default call depth limit. A
// nil cfg behaves exactly like ExecuteBytecode.
func ExecuteBytecodeWithConfig(
	st *state.State,
	origin types.Address,
	gasPrice *big.Int,
	blobHashes []types.Hash,
	gas uint64,
	to types.Address,
	sender types.Address,
	value *big.Int,
	data []byte,
	code []byte,
	codeAddress types.Address,
	cfg *Config,
) *ExecutionOutcome {
	if cfg == nil {
		cfg = NewConfig()
	}
	tx := NewTransactionContext(gasPrice, origin, blobHashes)
	st.Transient.ClearAll()

	isCreate := to.IsZero()
	var c *Computation
	if isCreate {
		target := codeAddress
		if target.IsZero() {
			target = deriveCreateTarget(st, sender)
		}
		msg := &Message{
			Gas:                 gas,
			To:                  types.Address{},
			Sender:              sender,
			Value:               value,
			Data:                nil,
			Code:                code,
			CodeAddress:         types.Address{},
			StorageAddress:      target,
			CreateAddress:       target,
			Depth:               0,
			IsStatic:            false,
			ShouldTransferValue: true,
		}
		c = applyCreateMessage(st, msg, tx, cfg)
	} else {
		ca := codeAddress
		if ca.IsZero() {
			ca = to
		}
		msg := &Message{
			Gas:                 gas,
			To:                  to,
			Sender:              sender,
			Value:               value,
			Data:                data,
			Code:                code,
			CodeAddress:         ca,
			StorageAddress:      to,
			Depth:               0,
			IsStatic:            false,
			ShouldTransferValue: true,
		}
		c = applyMessage(st, msg, tx, cfg)
	}

	outcome := &ExecutionOutcome{
		Output:                    c.Output,
		Logs:                      c.GetRawLogEntries(),
		DeletedAccounts:           c.GetAccountsForDeletion(),
		SelfDestructBeneficiaries: c.GetSelfDestructBeneficiaries(),
	}
	if c.IsError() {
		outcome.Error = c.Err
		outcome.Reverted = true
	}
	if cfg.Tracer != nil {
		cfg.Tracer.CaptureEnd(outcome.Output, 0, outcome.Error)
	}
	return outcome
}

// deriveCreateTarget derives the address a top-level CREATE
// transaction assigns its new contract, bumping sender's nonce the
// way a real transaction's intrinsic nonce increment does.
func deriveCreateTarget(st *state.State, sender types.Address) types.Address {
	nonce := st.GetNonce(sender)
	target := evmcrypto.CreateAddress(sender, nonce)
	st.SetNonce(sender, nonce+1)
	return target
}

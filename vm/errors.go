package vm

import "errors"

// VMError is the interface every frame-terminating error implements:
// beyond a message, callers need to know whether an error burns the
// remaining gas and whether it erases the frame's return data.
// applyMessage and applyCreateMessage read ErasesReturnData to decide
// whether a failed frame keeps its Output; nothing in this package
// reads BurnsGas, since gas is not metered.
type VMError interface {
	error
	BurnsGas() bool
	ErasesReturnData() bool
}

type vmError struct {
	msg      string
	burnsGas bool
	erases   bool
}

func (e *vmError) Error() string          { return e.msg }
func (e *vmError) BurnsGas() bool         { return e.burnsGas }
func (e *vmError) ErasesReturnData() bool { return e.erases }

func newVMError(msg string, burnsGas, erases bool) *vmError {
	return &vmError{msg: msg, burnsGas: burnsGas, erases: erases}
}

// Sentinel frame errors, declared with errors.New per the teacher's
// interpreter.go convention and distinguished with errors.Is.
var (
	// ErrOutOfGas: gas tracked nominally per spec.md §9; nothing in this
	// package raises it, since no global meter is enforced and a failed
	// precompile (its own out-of-gas included) ends the frame with
	// ErrExecutionReverted.
	ErrOutOfGas = errors.New("vm: out of gas")

	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrStackUnderflow = errors.New("vm: stack underflow")

	ErrInvalidJump        = errors.New("vm: invalid jump destination")
	ErrInvalidInstruction = errors.New("vm: invalid instruction")
	ErrWriteProtection    = errors.New("vm: write protection")
	ErrContractCollision  = errors.New("vm: contract creation collision")
	ErrDepthLimit         = errors.New("vm: max call depth exceeded")
	ErrInsufficientBalance = errors.New("vm: insufficient balance for call value")
	ErrCodeStoreOutOfGas  = errors.New("vm: contract creation code storage out of gas")
	ErrMaxCodeSizeExceeded = errors.New("vm: max code size exceeded")
	ErrMaxInitCodeSizeExceeded = errors.New("vm: max initcode size exceeded")
	ErrExecutionReverted  = errors.New("vm: execution reverted")
	ErrReturnDataOutOfBounds = errors.New("vm: return data copy out of bounds")
)

// Halt is a sentinel signaling normal completion (STOP/RETURN), not a
// failure, it carries no VMError wrapping since it never burns gas or
// erases return data.
var Halt = errors.New("vm: halt")

// vmErrorFor wraps a sentinel with its BurnsGas/ErasesReturnData
// classification, matching spec.md §7's two-axis error taxonomy.
func vmErrorFor(sentinel error) VMError {
	switch sentinel {
	case ErrOutOfGas, ErrStackOverflow, ErrStackUnderflow, ErrInvalidJump,
		ErrInvalidInstruction, ErrWriteProtection, ErrContractCollision,
		ErrDepthLimit, ErrInsufficientBalance, ErrCodeStoreOutOfGas,
		ErrMaxCodeSizeExceeded, ErrMaxInitCodeSizeExceeded, ErrReturnDataOutOfBounds:
		return newVMError(sentinel.Error(), true, true)
	case ErrExecutionReverted:
		// REVERT burns no gas nominally (see spec.md §9) and keeps its
		// output visible to the caller instead of erasing it.
		return newVMError(sentinel.Error(), false, false)
	default:
		return newVMError(sentinel.Error(), true, true)
	}
}

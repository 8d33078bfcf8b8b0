package state

import (
	"math/big"

	"github.com/blocklayer/tinyevm/evmcrypto"
	"github.com/blocklayer/tinyevm/journal"
	"github.com/blocklayer/tinyevm/types"
	"github.com/holiman/uint256"
)

// AncestorHashOracle answers BLOCKHASH queries: the hash of block
// number n, or found=false if it has no hash for n. The 256-ancestor
// window is checked by BLOCKHASH's handler, not by the oracle, which
// answers whatever n it is asked. Implementations live in the
// oracle package; State only depends on this narrow interface to avoid
// state ↔ oracle import coupling.
type AncestorHashOracle interface {
	GetAncestorHash(n uint64) (hash types.Hash, found bool)
}

// BlockContext carries the per-block values opcodes like COINBASE,
// TIMESTAMP, NUMBER, PREVRANDAO, GASLIMIT, BASEFEE and BLOBBASEFEE read.
type BlockContext struct {
	Coinbase      types.Address
	Timestamp     uint64
	Number        uint64
	PrevRandao    types.Hash
	GasLimit      uint64
	BaseFee       *big.Int
	ExcessBlobGas uint64
	ChainID       *big.Int
}

const (
	// MinBlobBaseFee is EIP-4844's fake_exponential factor argument.
	MinBlobBaseFee = 1
	// BlobBaseFeeUpdateFraction is EIP-4844's fake_exponential denominator
	// argument, controlling how fast the blob base fee responds to
	// excess_blob_gas.
	BlobBaseFeeUpdateFraction = 3338477
)

// fakeExponentialMaxIterations bounds FakeExponential's series expansion,
// matching original_source's fake_exponential default.
const fakeExponentialMaxIterations = 10000

// FakeExponential computes factor * e**(numerator/denominator) using the
// integer Taylor-series approximation EIP-4844 specifies, grounded on
// original_source's vm/State.py fake_exponential.
func FakeExponential(factor, numerator, denominator *big.Int) *big.Int {
	output := new(big.Int)
	accum := new(big.Int).Mul(factor, denominator)

	for i := 1; accum.Sign() > 0 && i < fakeExponentialMaxIterations; i++ {
		output.Add(output, accum)
		accum.Mul(accum, numerator)
		accum.Div(accum, denominator)
		accum.Div(accum, big.NewInt(int64(i)))
	}
	return output.Div(output, denominator)
}

// BlobBaseFee derives the current block's blob base fee from
// excess_blob_gas per EIP-4844: fake_exponential(MIN_BLOB_BASE_FEE,
// excess_blob_gas, BLOB_BASE_FEE_UPDATE_FRACTION).
func (b BlockContext) BlobBaseFee() *big.Int {
	return FakeExponential(
		big.NewInt(MinBlobBaseFee),
		new(big.Int).SetUint64(b.ExcessBlobGas),
		big.NewInt(BlobBaseFeeUpdateFraction),
	)
}

// State is the facade over the four journals (accounts, storage, code,
// transient storage) plus the EIP-2929 warm-access sets, all tied
// together by a single joint checkpoint stack so one Snapshot/Revert/
// Commit triple rolls every table back or forward in lock-step.
type State struct {
	kv *KVStore

	Accounts  *AccountInfoDB
	Storage   *AccountStorageDB
	Code      *CodeDB
	Transient *TransientDB

	warmAddresses *journal.Journal[types.Address, struct{}]
	warmStorage   *journal.Journal[storageKey, struct{}]

	// contractsCreated tracks addresses CREATE'd within the current
	// transaction; EIP-6780 restricts SELFDESTRUCT's account-deletion
	// behavior to addresses in this set. Journaled alongside the warm
	// sets so a reverted CREATE (e.g. for insufficient balance) also
	// undoes the address's creation marker.
	contractsCreated *journal.Journal[types.Address, struct{}]

	Oracle AncestorHashOracle
	Block  BlockContext
}

// New returns a fresh State over an empty backing store.
func New(oracle AncestorHashOracle, block BlockContext) *State {
	kv := NewKVStore()
	return &State{
		kv:               kv,
		Accounts:         NewAccountInfoDB(kv),
		Storage:          NewAccountStorageDB(kv),
		Code:             NewCodeDB(kv),
		Transient:        NewTransientDB(),
		warmAddresses:    journal.New[types.Address, struct{}](),
		warmStorage:      journal.New[storageKey, struct{}](),
		contractsCreated: journal.New[types.Address, struct{}](),
		Oracle:           oracle,
		Block:            block,
	}
}

// Snapshot records one joint checkpoint across every journaled table
// and returns it as an opaque revert/commit handle.
func (s *State) Snapshot() journal.Checkpoint {
	cp := journal.NextCheckpoint()
	s.Accounts.Record(cp)
	s.Storage.Record(cp)
	s.Code.Record(cp)
	s.Transient.Record(cp)
	s.warmAddresses.Record(cp)
	s.warmStorage.Record(cp)
	s.contractsCreated.Record(cp)
	return cp
}

// Revert unwinds every table back to the state at cp.
func (s *State) Revert(cp journal.Checkpoint) error {
	if err := s.Accounts.Discard(cp); err != nil {
		return err
	}
	if err := s.Storage.Discard(cp); err != nil {
		return err
	}
	if err := s.Code.Discard(cp); err != nil {
		return err
	}
	if err := s.Transient.Discard(cp); err != nil {
		return err
	}
	if err := s.warmAddresses.Discard(cp); err != nil {
		return err
	}
	if err := s.warmStorage.Discard(cp); err != nil {
		return err
	}
	return s.contractsCreated.Discard(cp)
}

// Commit collapses every table's checkpoints down through cp, keeping
// the values as final (no longer separately revertible).
func (s *State) Commit(cp journal.Checkpoint) error {
	if err := s.Accounts.Commit(cp); err != nil {
		return err
	}
	if err := s.Storage.Commit(cp); err != nil {
		return err
	}
	if err := s.Code.Commit(cp); err != nil {
		return err
	}
	if err := s.Transient.Commit(cp); err != nil {
		return err
	}
	if err := s.warmAddresses.Commit(cp); err != nil {
		return err
	}
	if err := s.warmStorage.Commit(cp); err != nil {
		return err
	}
	return s.contractsCreated.Commit(cp)
}

// GetAncestorHash delegates to the oracle, returning the zero hash and
// found=false when no oracle is set or the oracle has no hash for n.
// It does not check the 256-block window itself; BLOCKHASH's opcode
// handler does that before asking.
func (s *State) GetAncestorHash(n uint64) (types.Hash, bool) {
	if s.Oracle == nil {
		return types.Hash{}, false
	}
	return s.Oracle.GetAncestorHash(n)
}

// IsAddressWarm reports whether addr has already been charged its
// EIP-2929 cold-access surcharge in the current transaction.
func (s *State) IsAddressWarm(addr types.Address) bool {
	_, found, deleted := s.warmAddresses.Get(addr)
	return found && !deleted
}

// MarkAddressWarm records addr as warm; idempotent.
func (s *State) MarkAddressWarm(addr types.Address) {
	if s.IsAddressWarm(addr) {
		return
	}
	s.warmAddresses.Set(addr, struct{}{})
}

// IsStorageWarm reports whether (addr, slot) has already been charged
// its EIP-2929 cold-access surcharge in the current transaction.
func (s *State) IsStorageWarm(addr types.Address, slot uint256.Int) bool {
	k := storageKey{addr: addr, slot: slot}
	_, found, deleted := s.warmStorage.Get(k)
	return found && !deleted
}

// MarkStorageWarm records (addr, slot) as warm; idempotent.
func (s *State) MarkStorageWarm(addr types.Address, slot uint256.Int) {
	if s.IsStorageWarm(addr, slot) {
		return
	}
	s.warmStorage.Set(storageKey{addr: addr, slot: slot}, struct{}{})
}

// IsContractCreated reports whether addr was CREATE'd within the
// current transaction (EIP-6780).
func (s *State) IsContractCreated(addr types.Address) bool {
	_, found, deleted := s.contractsCreated.Get(addr)
	return found && !deleted
}

// MarkContractCreated records addr as CREATE'd within the current
// transaction; idempotent, and rolled back by Revert like any other
// journaled table.
func (s *State) MarkContractCreated(addr types.Address) {
	if s.IsContractCreated(addr) {
		return
	}
	s.contractsCreated.Set(addr, struct{}{})
}

// GetCodeHash returns the code hash recorded against addr, or the
// empty-code sentinel if the account exists but has no code hash
// recorded. For an account that does not exist it returns the zero
// hash.
func (s *State) GetCodeHash(addr types.Address) types.Hash {
	acct, ok := s.Accounts.Get(addr)
	if !ok {
		return types.Hash{}
	}
	if acct.CodeHash.IsZero() {
		return evmcrypto.EmptyCodeHash
	}
	return acct.CodeHash
}

// GetCode returns the bytecode for addr, or nil if it has none.
func (s *State) GetCode(addr types.Address) []byte {
	acct, ok := s.Accounts.Get(addr)
	if !ok || acct.CodeHash.IsZero() {
		return nil
	}
	return s.Code.Get(acct.CodeHash)
}

// SetCode installs code under addr's account, storing it content-
// addressed in the code table and pointing the account's CodeHash at it.
func (s *State) SetCode(addr types.Address, code []byte) {
	acct, ok := s.Accounts.Get(addr)
	if !ok {
		acct = types.NewEmptyAccount(evmcrypto.EmptyCodeHash)
	}
	if len(code) == 0 {
		acct.CodeHash = evmcrypto.EmptyCodeHash
		s.Accounts.Set(addr, acct)
		return
	}
	acct.CodeHash = s.Code.Set(code)
	s.Accounts.Set(addr, acct)
}

// GetBalance returns addr's balance, or zero for a non-existent account.
func (s *State) GetBalance(addr types.Address) *big.Int {
	acct, ok := s.Accounts.Get(addr)
	if !ok || acct.Balance == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(acct.Balance)
}

// GetNonce returns addr's nonce, or zero for a non-existent account.
func (s *State) GetNonce(addr types.Address) uint64 {
	acct, ok := s.Accounts.Get(addr)
	if !ok {
		return 0
	}
	return acct.Nonce
}

// Exists reports whether addr has any account record at all.
func (s *State) Exists(addr types.Address) bool {
	_, ok := s.Accounts.Get(addr)
	return ok
}

// SetBalance overwrites addr's balance, creating the account if absent.
func (s *State) SetBalance(addr types.Address, bal *big.Int) {
	acct, ok := s.Accounts.Get(addr)
	if !ok {
		acct = types.NewEmptyAccount(evmcrypto.EmptyCodeHash)
	}
	acct.Balance = bal
	s.Accounts.Set(addr, acct)
}

// AddBalance credits amount to addr's balance, creating the account if absent.
func (s *State) AddBalance(addr types.Address, amount *big.Int) {
	s.SetBalance(addr, new(big.Int).Add(s.GetBalance(addr), amount))
}

// SubBalance debits amount from addr's balance.
func (s *State) SubBalance(addr types.Address, amount *big.Int) {
	s.SetBalance(addr, new(big.Int).Sub(s.GetBalance(addr), amount))
}

// SetNonce overwrites addr's nonce, creating the account if absent.
func (s *State) SetNonce(addr types.Address, nonce uint64) {
	acct, ok := s.Accounts.Get(addr)
	if !ok {
		acct = types.NewEmptyAccount(evmcrypto.EmptyCodeHash)
	}
	acct.Nonce = nonce
	s.Accounts.Set(addr, acct)
}

// Transfer moves amount from sender to recipient, creating either
// account as needed. Callers are responsible for checking sufficient
// balance beforehand (spec.md's ErrInsufficientBalance).
func (s *State) Transfer(sender, recipient types.Address, amount *big.Int) {
	s.SubBalance(sender, amount)
	s.AddBalance(recipient, amount)
}

// DeleteAccount removes addr's account record (SELFDESTRUCT's EIP-6780
// same-transaction-creation path).
func (s *State) DeleteAccount(addr types.Address) error {
	return s.Accounts.Delete(addr)
}

package vm

import (
	"math/big"
	"testing"

	"github.com/blocklayer/tinyevm/evmcrypto"
	"github.com/blocklayer/tinyevm/state"
	"github.com/blocklayer/tinyevm/types"
	"github.com/holiman/uint256"
)

func newTestState() *state.State {
	return state.New(nil, state.BlockContext{})
}

func addr(b byte) types.Address {
	var a types.Address
	a[len(a)-1] = b
	return a
}

func testComputationOver(st *state.State, self types.Address, code []byte) *Computation {
	return &Computation{
		State: st,
		Msg: &Message{
			Gas:            1_000_000,
			StorageAddress: self,
			Sender:         self,
		},
		Tx:               NewTransactionContext(new(big.Int), types.Address{}, nil),
		Config:           NewConfig(),
		Code:             NewCodeStream(code),
		Stack:            NewStack(),
		Memory:           NewMemory(),
		beneficiaries:    make(map[types.Address]types.Address),
		accountsToDelete: make(map[types.Address]bool),
	}
}

// TestExtcodehashOfCodedAccount covers spec.md §8 scenario 4's first
// case: an account with code b"pseudocode" hashes to keccak(code).
func TestExtcodehashOfCodedAccount(t *testing.T) {
	st := newTestState()
	target := addr(0x01)
	st.SetCode(target, []byte("pseudocode"))

	c := testComputationOver(st, addr(0xff), nil)
	pushAddress(t, c, target)
	if err := opExtcodehash(c); err != nil {
		t.Fatalf("opExtcodehash: %v", err)
	}

	want := evmcrypto.Keccak256Hash([]byte("pseudocode"))
	var got [32]byte
	c.Stack.Peek().WriteToSlice(got[:])
	if types.BytesToHash(got[:]) != want {
		t.Fatalf("EXTCODEHASH(coded) = %x, want %x", got, want)
	}
}

// TestExtcodehashOfBalanceOnlyAccount covers scenario 4's second case:
// an account with a balance but no code hashes to the empty-code
// sentinel (keccak256(""), the well-known 0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470).
func TestExtcodehashOfBalanceOnlyAccount(t *testing.T) {
	st := newTestState()
	target := addr(0x02)
	st.SetBalance(target, big.NewInt(5))

	c := testComputationOver(st, addr(0xff), nil)
	pushAddress(t, c, target)
	if err := opExtcodehash(c); err != nil {
		t.Fatalf("opExtcodehash: %v", err)
	}

	var got [32]byte
	c.Stack.Peek().WriteToSlice(got[:])
	if types.BytesToHash(got[:]) != evmcrypto.EmptyCodeHash {
		t.Fatalf("EXTCODEHASH(balance-only) = %x, want %x", got, evmcrypto.EmptyCodeHash)
	}
}

// TestExtcodehashOfNonExistentAccount covers scenario 4's third case:
// a never-touched address hashes to zero.
func TestExtcodehashOfNonExistentAccount(t *testing.T) {
	st := newTestState()
	target := addr(0x03)

	c := testComputationOver(st, addr(0xff), nil)
	pushAddress(t, c, target)
	if err := opExtcodehash(c); err != nil {
		t.Fatalf("opExtcodehash: %v", err)
	}
	if !c.Stack.Peek().IsZero() {
		t.Fatalf("EXTCODEHASH(non-existent) = %s, want 0", c.Stack.Peek().Hex())
	}
}

func pushAddress(t *testing.T, c *Computation, a types.Address) {
	t.Helper()
	w := addressToWord(a)
	if err := c.Stack.Push(&w); err != nil {
		t.Fatalf("push address: %v", err)
	}
}

// TestCreateDerivesExpectedAddress covers spec.md §8 scenario 5: CREATE
// from 0x9bbfed6889322e016e0a02ee459d306fc19545d8 (balance=10, nonce=0)
// with empty init code pushes 0x43a61f3f4c73ea0d444c5c1c1a8544067a86219b
// and bumps the sender's nonce to 1.
func TestCreateDerivesExpectedAddress(t *testing.T) {
	st := newTestState()
	sender := types.HexToAddress("0x9bbfed6889322e016e0a02ee459d306fc19545d8")
	st.SetBalance(sender, big.NewInt(10))

	c := testComputationOver(st, sender, nil)
	pushZero(t, c) // size
	pushZero(t, c) // offset
	pushZero(t, c) // value
	if err := opCreate(c); err != nil {
		t.Fatalf("opCreate: %v", err)
	}

	want := types.HexToAddress("0x43a61f3f4c73ea0d444c5c1c1a8544067a86219b")
	var gotBytes [32]byte
	c.Stack.Peek().WriteToSlice(gotBytes[:])
	got := types.BytesToAddress(gotBytes[12:])
	if got != want {
		t.Fatalf("CREATE address = %s, want %s", got.Hex(), want.Hex())
	}
	if nonce := st.GetNonce(sender); nonce != 1 {
		t.Fatalf("sender nonce after CREATE = %d, want 1", nonce)
	}
}

// TestCreate2DerivesExpectedAddress covers spec.md §8 scenario 6:
// CREATE2(value=0, offset=0, length=0, salt=0) from the same sender
// derives 0x0687a12da0ffa0a64a28c9512512b8ae8870b7ea.
func TestCreate2DerivesExpectedAddress(t *testing.T) {
	st := newTestState()
	sender := types.HexToAddress("0x9bbfed6889322e016e0a02ee459d306fc19545d8")
	st.SetBalance(sender, big.NewInt(10))

	c := testComputationOver(st, sender, nil)
	pushZero(t, c) // salt
	pushZero(t, c) // size
	pushZero(t, c) // offset
	pushZero(t, c) // value
	if err := opCreate2(c); err != nil {
		t.Fatalf("opCreate2: %v", err)
	}

	want := types.HexToAddress("0x0687a12da0ffa0a64a28c9512512b8ae8870b7ea")
	var gotBytes [32]byte
	c.Stack.Peek().WriteToSlice(gotBytes[:])
	got := types.BytesToAddress(gotBytes[12:])
	if got != want {
		t.Fatalf("CREATE2 address = %s, want %s", got.Hex(), want.Hex())
	}
}

func pushZero(t *testing.T, c *Computation) {
	t.Helper()
	var w uint256.Int
	if err := c.Stack.Push(&w); err != nil {
		t.Fatalf("push zero: %v", err)
	}
}

// TestLoopEmitsThreeLogEntries covers spec.md §8 scenario 7 at the
// handler level: calling the LOG0 handler three times over
// b"hello" right-aligned in 32 bytes produces exactly three raw log
// entries, each carrying that payload. No bytecode loop is run.
func TestLoopEmitsThreeLogEntries(t *testing.T) {
	st := newTestState()
	self := addr(0x10)

	// mem[0:32] = "hello" right-aligned (helper for the loop body).
	var hello [32]byte
	copy(hello[32-5:], "hello")

	c := testComputationOver(st, self, nil)
	log0 := makeLog(0)
	for i := 0; i < 3; i++ {
		c.Memory.Set(0, 32, hello[:])
		pushUint64(t, c, 32) // size
		pushUint64(t, c, 0)  // offset
		if err := log0(c); err != nil {
			t.Fatalf("iteration %d: LOG0: %v", i, err)
		}
	}

	logs := c.GetRawLogEntries()
	if len(logs) != 3 {
		t.Fatalf("log count = %d, want 3", len(logs))
	}
	for i, l := range logs {
		if string(l.Data) != string(hello[:]) {
			t.Fatalf("log %d data = %x, want %x", i, l.Data, hello)
		}
		if l.Sequence != uint64(i) {
			t.Fatalf("log %d sequence = %d, want %d", i, l.Sequence, i)
		}
	}
}

// TestSelfDestructFromSameTxCreatedContract covers spec.md §8 scenario
// 8: SELFDESTRUCT from a contract created in the current transaction
// transfers its entire balance to the beneficiary, zeroes its own
// balance, and (per EIP-6780) is actually removed from state.
func TestSelfDestructFromSameTxCreatedContract(t *testing.T) {
	st := newTestState()
	self := addr(0x20)
	beneficiary := addr(0x21)

	st.SetBalance(self, big.NewInt(1000))
	st.MarkContractCreated(self)

	c := testComputationOver(st, self, nil)
	pushAddress(t, c, beneficiary)
	if err := opSelfDestruct(c); err != Halt {
		t.Fatalf("opSelfDestruct: err = %v, want Halt", err)
	}

	if bal := st.GetBalance(beneficiary); bal.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("beneficiary balance = %v, want 1000", bal)
	}
	if bal := st.GetBalance(self); bal.Sign() != 0 {
		t.Fatalf("self balance after selfdestruct = %v, want 0", bal)
	}
	if st.Exists(self) {
		t.Fatalf("self-destructed same-tx-created contract still exists in state")
	}
	if ben := c.GetSelfDestructBeneficiaries()[self]; ben != beneficiary {
		t.Fatalf("recorded beneficiary = %s, want %s", ben.Hex(), beneficiary.Hex())
	}
	found := false
	for _, a := range c.GetAccountsForDeletion() {
		if a == self {
			found = true
		}
	}
	if !found {
		t.Fatalf("same-tx-created self-destructed contract missing from GetAccountsForDeletion")
	}
}

// TestSelfDestructFromPreexistingContractKeepsBalanceTransferOnly covers
// EIP-6780's other branch: a contract NOT created in the current
// transaction still pays its balance to the beneficiary on
// SELFDESTRUCT, but must never be reported in GetAccountsForDeletion
// (a driver would otherwise wrongly delete a pre-existing account).
func TestSelfDestructFromPreexistingContractKeepsBalanceTransferOnly(t *testing.T) {
	st := newTestState()
	self := addr(0x22)
	beneficiary := addr(0x23)

	st.SetBalance(self, big.NewInt(500))
	// self is NOT marked as contract-created.

	c := testComputationOver(st, self, nil)
	pushAddress(t, c, beneficiary)
	if err := opSelfDestruct(c); err != Halt {
		t.Fatalf("opSelfDestruct: err = %v, want Halt", err)
	}

	if bal := st.GetBalance(beneficiary); bal.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("beneficiary balance = %v, want 500", bal)
	}
	if bal := st.GetBalance(self); bal.Sign() != 0 {
		t.Fatalf("self balance after selfdestruct = %v, want 0", bal)
	}
	if !st.Exists(self) {
		t.Fatalf("self-destructed pre-existing contract must remain in state (EIP-6780)")
	}
	if ben := c.GetSelfDestructBeneficiaries()[self]; ben != beneficiary {
		t.Fatalf("recorded beneficiary = %s, want %s", ben.Hex(), beneficiary.Hex())
	}
	for _, a := range c.GetAccountsForDeletion() {
		if a == self {
			t.Fatalf("pre-existing contract wrongly reported in GetAccountsForDeletion")
		}
	}
}

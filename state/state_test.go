package state

import (
	"math/big"
	"testing"

	"github.com/blocklayer/tinyevm/evmcrypto"
	"github.com/blocklayer/tinyevm/types"
	"github.com/holiman/uint256"
)

func addr(b byte) types.Address {
	var a types.Address
	a[len(a)-1] = b
	return a
}

func TestStorageZeroWriteCollapsesNoOp(t *testing.T) {
	s := New(nil, BlockContext{})
	a := addr(1)
	slot := uint256.NewInt(1)
	s.Storage.Set(a, *slot, uint256.Int{})
	if got := s.Storage.Get(a, *slot); !got.IsZero() {
		t.Fatalf("Get = %v, want zero", got)
	}
}

func TestStorageZeroWriteDeletesExisting(t *testing.T) {
	s := New(nil, BlockContext{})
	a := addr(1)
	slot := uint256.NewInt(1)
	s.Storage.Set(a, *slot, *uint256.NewInt(42))
	s.Storage.Set(a, *slot, uint256.Int{})
	if got := s.Storage.Get(a, *slot); !got.IsZero() {
		t.Fatalf("Get after zero-write = %v, want zero", got)
	}
}

func TestSnapshotRevertRestoresBalanceAndCode(t *testing.T) {
	s := New(nil, BlockContext{})
	a := addr(7)
	s.Accounts.Set(a, types.Account{Balance: big.NewInt(100), CodeHash: evmcrypto.EmptyCodeHash})

	cp := s.Snapshot()
	s.Accounts.Set(a, types.Account{Balance: big.NewInt(0), CodeHash: evmcrypto.EmptyCodeHash})
	s.SetCode(a, []byte("pseudocode"))

	if err := s.Revert(cp); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if got := s.GetBalance(a); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("balance after revert = %v, want 100", got)
	}
	if got := s.GetCode(a); len(got) != 0 {
		t.Fatalf("code after revert = %q, want empty", got)
	}
}

func TestWarmAddressRevert(t *testing.T) {
	s := New(nil, BlockContext{})
	a := addr(3)
	cp := s.Snapshot()
	s.MarkAddressWarm(a)
	if !s.IsAddressWarm(a) {
		t.Fatalf("expected warm after mark")
	}
	if err := s.Revert(cp); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if s.IsAddressWarm(a) {
		t.Fatalf("expected cold after revert")
	}
}

func TestAccountDeleteNeverAccessedErrors(t *testing.T) {
	s := New(nil, BlockContext{})
	if err := s.Accounts.Delete(addr(9)); err != ErrAccountNeverAccessed {
		t.Fatalf("Delete(never accessed) = %v, want ErrAccountNeverAccessed", err)
	}
}

func TestTransientClearedAtTxBoundary(t *testing.T) {
	s := New(nil, BlockContext{})
	a := addr(5)
	slot := *uint256.NewInt(2)
	s.Transient.Set(a, slot, *uint256.NewInt(11))
	s.Transient.ClearAll()
	if got := s.Transient.Get(a, slot); !got.IsZero() {
		t.Fatalf("Transient.Get after ClearAll = %v, want zero", got)
	}
}

// TestContractCreatedRevertedByRevert covers the EIP-6780 corner case
// a plain map would miss: if the CREATE that set a contract-created
// marker is itself reverted, the marker must not survive, or a later
// SELFDESTRUCT of the reverted address would wrongly qualify for
// deletion.
func TestContractCreatedRevertedByRevert(t *testing.T) {
	s := New(nil, BlockContext{})
	a := addr(4)

	cp := s.Snapshot()
	s.MarkContractCreated(a)
	if !s.IsContractCreated(a) {
		t.Fatalf("expected contract-created after mark")
	}
	if err := s.Revert(cp); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if s.IsContractCreated(a) {
		t.Fatalf("expected contract-created marker gone after revert")
	}
}

type fakeOracle struct{ hashes map[uint64]types.Hash }

func (f fakeOracle) GetAncestorHash(n uint64) (types.Hash, bool) {
	h, ok := f.hashes[n]
	return h, ok
}

func TestGetAncestorHashDelegatesToOracle(t *testing.T) {
	want := evmcrypto.Keccak256Hash([]byte("block-5"))
	s := New(fakeOracle{hashes: map[uint64]types.Hash{5: want}}, BlockContext{})
	got, found := s.GetAncestorHash(5)
	if !found || got != want {
		t.Fatalf("GetAncestorHash(5) = (%v,%v), want (%v,true)", got, found, want)
	}
	if _, found := s.GetAncestorHash(6); found {
		t.Fatalf("GetAncestorHash(6) found=true, want false")
	}
}

// TestBlobBaseFeeAtZeroExcess covers EIP-4844's floor: zero excess blob
// gas must yield exactly MinBlobBaseFee.
func TestBlobBaseFeeAtZeroExcess(t *testing.T) {
	bc := BlockContext{ExcessBlobGas: 0}
	if got := bc.BlobBaseFee(); got.Cmp(big.NewInt(MinBlobBaseFee)) != 0 {
		t.Fatalf("BlobBaseFee(excess=0) = %s, want %d", got, MinBlobBaseFee)
	}
}

// TestBlobBaseFeeIncreasesWithExcess covers the monotonicity fake_exponential
// must have: more excess blob gas never yields a lower fee.
func TestBlobBaseFeeIncreasesWithExcess(t *testing.T) {
	low := BlockContext{ExcessBlobGas: 1_000_000}.BlobBaseFee()
	high := BlockContext{ExcessBlobGas: 10_000_000}.BlobBaseFee()
	if high.Cmp(low) <= 0 {
		t.Fatalf("BlobBaseFee(10M) = %s, want > BlobBaseFee(1M) = %s", high, low)
	}
}

package vm

import (
	"testing"

	"github.com/holiman/uint256"
)

// TestStackOverflowAtLimit covers the universal invariant that stack
// size never exceeds 1024: the 1025th push is rejected.
func TestStackOverflowAtLimit(t *testing.T) {
	s := NewStack()
	var w uint256.Int
	for i := 0; i < stackLimit; i++ {
		if err := s.Push(&w); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if s.Len() != stackLimit {
		t.Fatalf("stack len = %d, want %d", s.Len(), stackLimit)
	}
	if err := s.Push(&w); err != ErrStackOverflow {
		t.Fatalf("push past limit = %v, want ErrStackOverflow", err)
	}
}

// TestStackDupAndSwap exercise DUPn/SWAPn's 1-indexed addressing.
func TestStackDupAndSwap(t *testing.T) {
	s := NewStack()
	for i := uint64(1); i <= 3; i++ {
		var w uint256.Int
		w.SetUint64(i)
		if err := s.Push(&w); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	// stack (bottom->top): 1, 2, 3
	s.Dup(1) // duplicate top (3)
	if got := s.Peek().Uint64(); got != 3 {
		t.Fatalf("after DUP1, top = %d, want 3", got)
	}
	s.Swap(1) // swap top (3) with second (3), no visible change here
	s.Pop()   // drop the duplicate
	s.Swap(1) // swap top (3) with second (2)
	if got := s.Peek().Uint64(); got != 2 {
		t.Fatalf("after SWAP1, top = %d, want 2", got)
	}
}

// TestMemoryExtendRoundsUpToWord covers the universal invariant that
// memory length is always a multiple of 32.
func TestMemoryExtendRoundsUpToWord(t *testing.T) {
	m := NewMemory()
	m.Extend(1)
	if m.Len() != 32 {
		t.Fatalf("Extend(1) length = %d, want 32", m.Len())
	}
	m.Extend(33)
	if m.Len() != 64 {
		t.Fatalf("Extend(33) length = %d, want 64", m.Len())
	}
	// Extending to a smaller size is a no-op (monotonically non-decreasing).
	m.Extend(1)
	if m.Len() != 64 {
		t.Fatalf("Extend(1) after growth = %d, want 64 (non-decreasing)", m.Len())
	}
}

// TestMemoryCopyOverlapSafe covers MCOPY's overlap-safe semantics
// (EIP-5656): copying a range onto one that overlaps it must behave as
// if the source were read in full before any byte is written.
func TestMemoryCopyOverlapSafe(t *testing.T) {
	m := NewMemory()
	src := []byte{1, 2, 3, 4, 5}
	m.Set(0, 5, src)
	m.Copy(2, 0, 5) // shift [0:5) to [2:7), overlapping
	got := m.Get(2, 5)
	for i, want := range src {
		if got[i] != want {
			t.Fatalf("MCOPY overlap byte %d = %d, want %d", i, got[i], want)
		}
	}
}

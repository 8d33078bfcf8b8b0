package validate

import (
	"math/big"
	"testing"
)

func TestBoundedUint256Rejects(t *testing.T) {
	tooBig := new(big.Int).Add(Uint256Max, big.NewInt(1))
	if err := BoundedUint256("x", tooBig); err == nil {
		t.Fatalf("expected error for value above 2^256-1")
	}
	if err := BoundedUint256("x", big.NewInt(-1)); err == nil {
		t.Fatalf("expected error for negative value")
	}
	if err := BoundedUint256("x", Uint256Max); err != nil {
		t.Fatalf("unexpected error at upper bound: %v", err)
	}
}

func TestCanonicalAddress(t *testing.T) {
	if err := CanonicalAddress("a", make([]byte, 20)); err != nil {
		t.Fatalf("unexpected error for 20-byte address: %v", err)
	}
	if err := CanonicalAddress("a", make([]byte, 19)); err == nil {
		t.Fatalf("expected error for 19-byte address")
	}
}

func TestCallDepth(t *testing.T) {
	if err := CallDepth(1024, 1024); err != nil {
		t.Fatalf("unexpected error at max depth: %v", err)
	}
	if err := CallDepth(1025, 1024); err == nil {
		t.Fatalf("expected error beyond max depth")
	}
}

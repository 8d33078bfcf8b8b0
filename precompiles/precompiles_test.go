package precompiles

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/blocklayer/tinyevm/types"
)

func TestIsPrecompileRange(t *testing.T) {
	for i := byte(1); i <= 0x0a; i++ {
		if !IsPrecompile(types.BytesToAddress([]byte{i})) {
			t.Fatalf("address 0x%02x should be a precompile", i)
		}
	}
	if IsPrecompile(types.BytesToAddress([]byte{0x0b})) {
		t.Fatalf("address 0x0b should not be a precompile")
	}
}

func TestIdentityRun(t *testing.T) {
	in := []byte("hello world")
	out, _, err := Run(types.BytesToAddress([]byte{4}), in, 1_000_000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("identity output = %q, want %q", out, in)
	}
}

func TestSHA256Known(t *testing.T) {
	out, _, err := Run(types.BytesToAddress([]byte{2}), []byte("abc"), 1_000_000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if hexEncode(out) != want {
		t.Fatalf("sha256(abc) = %s, want %s", hexEncode(out), want)
	}
}

func TestModExpSmall(t *testing.T) {
	// 3^5 mod 7 == 5
	input := make([]byte, 96+3)
	binary.BigEndian.PutUint64(input[24:32], 1) // baseLen
	binary.BigEndian.PutUint64(input[56:64], 1) // expLen
	binary.BigEndian.PutUint64(input[88:96], 1) // modLen
	input[96] = 3
	input[97] = 5
	input[98] = 7

	out, _, err := Run(types.BytesToAddress([]byte{5}), input, 1_000_000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 || out[0] != 5 {
		t.Fatalf("modexp(3,5,7) = %v, want [5]", out)
	}
}

func TestOutOfGas(t *testing.T) {
	_, _, err := Run(types.BytesToAddress([]byte{1}), make([]byte, 128), 1)
	if err != ErrOutOfGas {
		t.Fatalf("Run with insufficient gas = %v, want ErrOutOfGas", err)
	}
}

func hexEncode(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}

package vm

import "github.com/holiman/uint256"

// Memory implements the EVM's byte-addressable, word-aligned-expansion
// memory model, grounded on the teacher's core/vm/memory.go.
type Memory struct {
	store []byte
}

// NewMemory returns a new empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Extend grows memory so it is at least size bytes long, rounding up
// to the next 32-byte word the way every memory-touching opcode's
// memorySizeFunc computes its requirement.
func (m *Memory) Extend(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	words := (size + 31) / 32
	newLen := words * 32
	grown := make([]byte, newLen)
	copy(grown, m.store)
	m.store = grown
}

// Set copies value into memory at [offset, offset+size), extending
// first if needed.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	m.Extend(offset + size)
	copy(m.store[offset:offset+size], value)
}

// Set32 writes a 32-byte big-endian word at offset, extending first.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	m.Extend(offset + 32)
	var b [32]byte
	val.WriteToSlice(b[:])
	copy(m.store[offset:offset+32], b[:])
}

// Get returns a fresh copy of memory[offset:offset+size).
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	m.Extend(offset + size)
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out
}

// GetPtr returns a direct slice reference into memory[offset:offset+size),
// for callers (CALLDATACOPY's source, KECCAK256's input) that only
// read and don't need an isolated copy.
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	m.Extend(offset + size)
	return m.store[offset : offset+size]
}

// Copy implements MCOPY (EIP-5656): an overlap-safe move of size bytes
// from src to dst within the same memory, extending first.
func (m *Memory) Copy(dst, src, size uint64) {
	if size == 0 {
		return
	}
	end := dst
	if src+size > end {
		end = src + size
	}
	if dst+size > end {
		end = dst + size
	}
	m.Extend(end)
	copy(m.store[dst:dst+size], m.store[src:src+size])
}

// Len returns the current length of memory in bytes (always a multiple
// of 32 once non-empty).
func (m *Memory) Len() int {
	return len(m.store)
}

// Data returns the full backing slice.
func (m *Memory) Data() []byte {
	return m.store
}

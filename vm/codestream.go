package vm

// CodeStream wraps a contract's bytecode with a program counter and a
// precomputed JUMPDEST bitmap, so JUMP/JUMPI can reject any destination
// that falls inside a PUSH immediate's data bytes.
type CodeStream struct {
	code       []byte
	pc         uint64
	jumpDests  []bool
}

// NewCodeStream analyzes code once and returns a ready-to-run stream
// positioned at pc=0.
func NewCodeStream(code []byte) *CodeStream {
	return &CodeStream{code: code, jumpDests: analyzeJumpDests(code)}
}

// analyzeJumpDests walks code linearly, skipping PUSH immediates, and
// marks every JUMPDEST opcode's position as a valid jump target.
func analyzeJumpDests(code []byte) []bool {
	dests := make([]bool, len(code))
	for i := 0; i < len(code); {
		op := OpCode(code[i])
		if op == JUMPDEST {
			dests[i] = true
			i++
			continue
		}
		if op.IsPush() {
			i += 1 + op.PushSize()
			continue
		}
		i++
	}
	return dests
}

// PC returns the current program counter.
func (c *CodeStream) PC() uint64 { return c.pc }

// SetPC sets the program counter directly (used by JUMP/JUMPI).
func (c *CodeStream) SetPC(pc uint64) { c.pc = pc }

// Len returns the code length in bytes.
func (c *CodeStream) Len() uint64 { return uint64(len(c.code)) }

// Code returns the raw bytecode.
func (c *CodeStream) Code() []byte { return c.code }

// AtEnd reports whether pc has run past the end of the code.
func (c *CodeStream) AtEnd() bool { return c.pc >= uint64(len(c.code)) }

// Next returns the opcode at the current pc (STOP if past the end,
// matching the implicit-STOP-padding convention every EVM
// implementation uses) and advances pc by one.
func (c *CodeStream) Next() OpCode {
	if c.AtEnd() {
		return STOP
	}
	op := OpCode(c.code[c.pc])
	c.pc++
	return op
}

// ReadImmediate returns the n bytes following the current pc (for a
// PUSHn handler), zero-padding if the code runs short, and advances pc
// past them.
func (c *CodeStream) ReadImmediate(n int) []byte {
	out := make([]byte, n)
	start := c.pc
	end := start + uint64(n)
	if start < uint64(len(c.code)) {
		avail := c.code[start:]
		if uint64(len(avail)) > uint64(n) {
			avail = avail[:n]
		}
		copy(out, avail)
	}
	c.pc = end
	return out
}

// IsValidJumpDest reports whether dest is both within code bounds and
// lands on a JUMPDEST opcode outside any PUSH immediate.
func (c *CodeStream) IsValidJumpDest(dest uint64) bool {
	if dest >= uint64(len(c.jumpDests)) {
		return false
	}
	return c.jumpDests[dest]
}

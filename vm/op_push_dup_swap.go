package vm

import "github.com/holiman/uint256"

func opPush0(c *Computation) error {
	var w uint256.Int
	return c.Stack.Push(&w)
}

// makePush returns the PUSHn handler for n immediate bytes. The
// dispatcher has already advanced the code stream's pc past the
// opcode and its n immediate bytes, so the handler reads the immediate
// from the n bytes just before the new pc.
func makePush(n int) executionFunc {
	return func(c *Computation) error {
		start := c.Code.PC() - uint64(n)
		raw := immediateAt(c.Code, start, n)
		var w uint256.Int
		w.SetBytes(raw)
		return c.Stack.Push(&w)
	}
}

// immediateAt reads n bytes of already-consumed code starting at pc,
// zero-padding past the code's end the same way ReadImmediate does.
func immediateAt(code *CodeStream, pc uint64, n int) []byte {
	out := make([]byte, n)
	full := code.Code()
	if pc >= uint64(len(full)) {
		return out
	}
	avail := full[pc:]
	if uint64(len(avail)) > uint64(n) {
		avail = avail[:n]
	}
	copy(out, avail)
	return out
}

func makeDup(n int) executionFunc {
	return func(c *Computation) error {
		c.Stack.Dup(n)
		return nil
	}
}

func makeSwap(n int) executionFunc {
	return func(c *Computation) error {
		c.Stack.Swap(n)
		return nil
	}
}

package vm

// GasMeter is a nominal accounting shell over a call's gas allowance.
// spec.md §9 deliberately does not enforce a global gas budget against
// opcode dispatch, GAS returns Message.Gas verbatim and no handler
// ever deducts from it. Nothing in the repository uses GasMeter: the
// CALL family calls allButOne64th in op_system.go directly, and
// package precompiles checks its own gas budget. It matches the shape
// spec.md's option (b) sketches without wiring it into the dispatch
// loop.
type GasMeter struct {
	Allowance uint64
}

// NewGasMeter returns a meter seeded with allowance.
func NewGasMeter(allowance uint64) *GasMeter {
	return &GasMeter{Allowance: allowance}
}

// Remaining returns the meter's allowance, unchanged by execution.
func (g *GasMeter) Remaining() uint64 {
	return g.Allowance
}

// ForwardableToChild returns the EIP-150-capped amount a CALL-family
// instruction may hand to a child frame.
func (g *GasMeter) ForwardableToChild() uint64 {
	return allButOne64th(g.Allowance)
}

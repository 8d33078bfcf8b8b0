package vm

import (
	"math/big"
	"testing"

	"github.com/blocklayer/tinyevm/state"
	"github.com/blocklayer/tinyevm/types"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	if c.MaxCallDepth != defaultMaxCallDepth {
		t.Fatalf("MaxCallDepth = %d, want %d", c.MaxCallDepth, defaultMaxCallDepth)
	}
	if c.Tracer != nil {
		t.Fatalf("Tracer = %v, want nil", c.Tracer)
	}
	if c.Fork != ForkCancun {
		t.Fatalf("Fork = %q, want %q", c.Fork, ForkCancun)
	}
}

func TestNewConfigOptions(t *testing.T) {
	tracer := NewStructLogTracer()
	c := NewConfig(WithMaxCallDepth(4), WithTracer(tracer))
	if c.MaxCallDepth != 4 {
		t.Fatalf("MaxCallDepth = %d, want 4", c.MaxCallDepth)
	}
	if c.Tracer != tracer {
		t.Fatalf("Tracer = %v, want %v", c.Tracer, tracer)
	}
}

// TestExecuteBytecodeWithConfigDrivesTracer confirms a tracer attached
// via Config.Tracer observes every opcode a real run executes and
// receives exactly one CaptureEnd at top-level completion.
func TestExecuteBytecodeWithConfigDrivesTracer(t *testing.T) {
	st := state.New(nil, state.BlockContext{})
	tracer := NewStructLogTracer()
	cfg := NewConfig(WithTracer(tracer))

	// PUSH1 1, PUSH1 2, ADD, STOP
	code := []byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}
	to := addr(0x11) // outside the precompile range 0x01..0x0a
	st.SetCode(to, code)

	outcome := ExecuteBytecodeWithConfig(st, addr(0xaa), big.NewInt(1), nil, 100_000, to, addr(0xaa), nil, nil, code, types.Address{}, cfg)
	if outcome.Error != nil {
		t.Fatalf("unexpected error: %v", outcome.Error)
	}
	if len(tracer.Logs) != 4 {
		t.Fatalf("len(tracer.Logs) = %d, want 4 (PUSH1, PUSH1, ADD, STOP)", len(tracer.Logs))
	}
	if tracer.Logs[2].Op != ADD {
		t.Fatalf("Logs[2].Op = %v, want ADD", tracer.Logs[2].Op)
	}
	if tracer.Error() != nil {
		t.Fatalf("tracer.Error() = %v, want nil", tracer.Error())
	}
}

// TestCallDepthHonorsConfig confirms a lowered MaxCallDepth from the
// Config is the limit checked, at its boundary: with MaxCallDepth 0 the
// top-level frame (depth 0) still runs.
func TestCallDepthHonorsConfig(t *testing.T) {
	st := state.New(nil, state.BlockContext{})
	cfg := NewConfig(WithMaxCallDepth(0))

	code := []byte{0x00} // STOP
	to := addr(0x12)     // outside the precompile range 0x01..0x0a
	st.SetCode(to, code)

	outcome := ExecuteBytecodeWithConfig(st, addr(0xaa), big.NewInt(1), nil, 100_000, to, addr(0xaa), nil, nil, code, types.Address{}, cfg)
	if outcome.Error != nil {
		t.Fatalf("top-level depth 0 call should still succeed against MaxCallDepth 0: %v", outcome.Error)
	}
}

package vm

// EVMLogger observes the dispatch loop when attached via Config.Tracer:
// CaptureState fires immediately before an opcode executes, CaptureFault
// fires instead of CaptureState's follow-up when that opcode terminated
// the frame with an error, and CaptureEnd fires once a top-level
// message's frame (and all its children) have finished. Grounded on
// the teacher's core/vm/tracer.go EVMLogger shape, with CaptureFault
// split out the way go-ethereum's own tracer interface does, since a
// faulted step and a normal step carry different information.
//
// Gas and cost are nominal (spec.md §9): no dynamic gas table exists,
// so cost is always 0 and gas is the frame's remaining Message.Gas.
type EVMLogger interface {
	CaptureState(pc uint64, op OpCode, gas, cost uint64, stack *Stack, memory *Memory, depth int)
	CaptureFault(pc uint64, op OpCode, gas, cost uint64, depth int, err error)
	CaptureEnd(output []byte, gasUsed uint64, err error)
}

// StructLogEntry is a single step recorded by StructLogTracer.
type StructLogEntry struct {
	PC    uint64
	Op    OpCode
	Gas   uint64
	Cost  uint64
	Depth int
	Err   error
}

// StructLogTracer is an in-memory EVMLogger collecting one StructLogEntry
// per opcode, grounded on the teacher's StructLogTracer; used by tests
// and by the CLI's --trace mode.
type StructLogTracer struct {
	Logs   []StructLogEntry
	output []byte
	err    error
}

// NewStructLogTracer returns an empty StructLogTracer.
func NewStructLogTracer() *StructLogTracer { return &StructLogTracer{} }

func (t *StructLogTracer) CaptureState(pc uint64, op OpCode, gas, cost uint64, stack *Stack, memory *Memory, depth int) {
	t.Logs = append(t.Logs, StructLogEntry{PC: pc, Op: op, Gas: gas, Cost: cost, Depth: depth})
}

func (t *StructLogTracer) CaptureFault(pc uint64, op OpCode, gas, cost uint64, depth int, err error) {
	t.Logs = append(t.Logs, StructLogEntry{PC: pc, Op: op, Gas: gas, Cost: cost, Depth: depth, Err: err})
}

func (t *StructLogTracer) CaptureEnd(output []byte, gasUsed uint64, err error) {
	t.output = output
	t.err = err
}

// Output returns the return data from the traced execution.
func (t *StructLogTracer) Output() []byte { return t.output }

// Error returns the error from the traced execution, if any.
func (t *StructLogTracer) Error() error { return t.err }

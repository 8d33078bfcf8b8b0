package vm

import (
	"math/big"

	"github.com/blocklayer/tinyevm/types"
)

// TransactionContext is the immutable per-transaction descriptor every
// frame in a transaction's call tree shares: gas price, origin, the
// EIP-4844 blob versioned hashes, and the monotonic log sequence
// counter (spec.md §3's TransactionContext).
type TransactionContext struct {
	GasPrice           *big.Int
	Origin             types.Address
	BlobVersionedHashes []types.Hash

	logCounter *uint64
}

// NewTransactionContext returns a TransactionContext with its log
// sequence counter freshly zeroed.
func NewTransactionContext(gasPrice *big.Int, origin types.Address, blobHashes []types.Hash) *TransactionContext {
	var ctr uint64
	return &TransactionContext{
		GasPrice:            gasPrice,
		Origin:              origin,
		BlobVersionedHashes: blobHashes,
		logCounter:          &ctr,
	}
}

// NextLogSequence returns the next transaction-global log sequence
// number. Shared across every frame in the transaction via the
// pointer, giving a total order even across child frames (spec.md §5).
func (t *TransactionContext) NextLogSequence() uint64 {
	seq := *t.logCounter
	*t.logCounter++
	return seq
}

// Message is the immutable per-call descriptor (spec.md §3).
type Message struct {
	Gas             uint64
	To              types.Address
	Sender          types.Address
	Value           *big.Int
	Data            []byte
	Code            []byte
	CodeAddress     types.Address
	StorageAddress  types.Address
	CreateAddress   types.Address
	Depth           int
	IsStatic        bool
	ShouldTransferValue bool
}

// IsCreate reports whether this message is a contract-creation call,
// derived, per spec.md §3, from To being the zero address.
func (m *Message) IsCreate() bool {
	return m.To.IsZero()
}

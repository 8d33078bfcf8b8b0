package types

import "github.com/holiman/uint256"

// Log is one LOGn emission: a transaction-global sequence number, the
// emitting account's storage address, up to four topics, and the raw
// data payload.
type Log struct {
	Sequence uint64
	Address  Address
	Topics   []uint256.Int
	Data     []byte
}

package custody

import (
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult captures any non-error result of executing a transition,
// to make sure people use error for error cases.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity.
	Data []byte
	// Log is a human-readable informational string.
	Log string
	// Tags are the transition records appended to the host's event sink.
	// They can be used to index and search the transaction history.
	Tags []common.KVPair
	// GasUsed is currently an unused field.
	GasUsed int64
}

// CheckResult captures any non-error result of validating a transition.
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity.
	Data []byte
	// Log is a human-readable informational string.
	Log string
	// GasAllocated is the maximum units of work we allow this tx to perform.
	GasAllocated int64
}

// NewCheck sets the gas used and the log message but no more info.
// These are the most common info needed to be set by the Handler.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{
		GasAllocated: gasAllocated,
		Log:          log,
	}
}

// Pair is a shortcut to create one event tag.
func Pair(key, value string) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: []byte(value),
	}
}

package escrow

import (
	"github.com/iov-one/custody/errors"
)

var (
	// ErrInvalidParties is returned when the party configuration of an
	// escrow is rejected, for example depositor and beneficiary being
	// the same identity.
	ErrInvalidParties = errors.Register(1010, "invalid parties")

	// ErrInvalidPhase is returned when the requested operation is not
	// permitted in the current lifecycle phase.
	ErrInvalidPhase = errors.Register(1011, "operation not allowed in this phase")

	// ErrNoArbiter is returned when a dispute is raised on an escrow
	// that has no arbiter configured.
	ErrNoArbiter = errors.Register(1012, "no arbiter configured")

	// ErrTransferFailed is returned when the value transfer through the
	// cash controller was rejected. State is left untouched.
	ErrTransferFailed = errors.Register(1013, "transfer failed")

	// ErrReentrancy is returned when an operation is invoked on an
	// instance that is already executing a value transfer.
	ErrReentrancy = errors.Register(1014, "reentrant call")
)

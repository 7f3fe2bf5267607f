package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

// Routing paths of all escrow messages.
const (
	pathCreateMsg     = "escrow/create"
	pathFundMsg       = "escrow/fund"
	pathReleaseMsg    = "escrow/release"
	pathRefundMsg     = "escrow/refund"
	pathDisputeMsg    = "escrow/dispute"
	pathCancelMsg     = "escrow/cancel"
	pathUpdateMemoMsg = "escrow/memo"
)

// maxMemoSize is the hard upper bound on memo length. The runtime
// configuration may lower it, never raise it.
const maxMemoSize = 128

var (
	_ custody.Msg = (*CreateMsg)(nil)
	_ custody.Msg = (*FundMsg)(nil)
	_ custody.Msg = (*ReleaseMsg)(nil)
	_ custody.Msg = (*RefundMsg)(nil)
	_ custody.Msg = (*DisputeMsg)(nil)
	_ custody.Msg = (*CancelMsg)(nil)
	_ custody.Msg = (*UpdateMemoMsg)(nil)
)

// CreateMsg starts a new escrow in the Created phase. The sender of the
// transaction becomes the owner. No value moves yet.
type CreateMsg struct {
	Depositor   custody.Address
	Beneficiary custody.Address
	// Arbiter is optional. Without it the escrow cannot be disputed.
	Arbiter custody.Address
	Memo    string
}

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	if err := m.Depositor.Validate(); err != nil {
		return errors.Wrap(err, "depositor")
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if m.Arbiter != nil {
		if err := m.Arbiter.Validate(); err != nil {
			return errors.Wrap(err, "arbiter")
		}
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo %d bytes", len(m.Memo))
	}
	return nil
}

// FundMsg deposits the attached call value into an escrow. Only the
// depositor may fund, and only once.
type FundMsg struct {
	EscrowID []byte
	// Amount must equal the value attached to the call.
	Amount coin.Amount
}

func (FundMsg) Path() string {
	return pathFundMsg
}

func (m *FundMsg) Validate() error {
	if err := validateEscrowID(m.EscrowID); err != nil {
		return err
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "funding amount must be positive")
	}
	return nil
}

// ReleaseMsg pays the full balance out to the beneficiary.
type ReleaseMsg struct {
	EscrowID []byte
}

func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

func (m *ReleaseMsg) Validate() error {
	return validateEscrowID(m.EscrowID)
}

// RefundMsg returns the full balance to the depositor.
type RefundMsg struct {
	EscrowID []byte
}

func (RefundMsg) Path() string {
	return pathRefundMsg
}

func (m *RefundMsg) Validate() error {
	return validateEscrowID(m.EscrowID)
}

// DisputeMsg escalates a funded escrow to the arbiter.
type DisputeMsg struct {
	EscrowID []byte
}

func (DisputeMsg) Path() string {
	return pathDisputeMsg
}

func (m *DisputeMsg) Validate() error {
	return validateEscrowID(m.EscrowID)
}

// CancelMsg aborts an escrow that was never funded.
type CancelMsg struct {
	EscrowID []byte
}

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	return validateEscrowID(m.EscrowID)
}

// UpdateMemoMsg replaces the memo of a non-terminal escrow.
type UpdateMemoMsg struct {
	EscrowID []byte
	Memo     string
}

func (UpdateMemoMsg) Path() string {
	return pathUpdateMemoMsg
}

func (m *UpdateMemoMsg) Validate() error {
	if err := validateEscrowID(m.EscrowID); err != nil {
		return err
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo %d bytes", len(m.Memo))
	}
	return nil
}

// validateEscrowID ensures the id is the output of the escrow sequence.
func validateEscrowID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "escrow id must be 8 bytes, got %d", len(id))
	}
	return nil
}

package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
)

// guardPrefix marks an instance with an in-flight value transfer.
var guardPrefix = []byte("_g.esc:")

func guardKey(id []byte) []byte {
	out := make([]byte, len(guardPrefix)+len(id))
	copy(out, guardPrefix)
	copy(out[len(guardPrefix):], id)
	return out
}

// Controller executes the value-moving transitions. It owns the ordering
// guarantee of the package: escrow state is committed only after the
// cash transfer succeeded, and a per-instance guard is held for the
// whole duration of any transfer.
type Controller struct {
	mover  cash.Controller
	bucket Bucket
}

// NewController returns a controller over the given cash mover and
// escrow bucket.
func NewController(mover cash.Controller, bucket Bucket) Controller {
	return Controller{
		mover:  mover,
		bucket: bucket,
	}
}

// Deposit moves amount from src into the escrow account and marks the
// instance Funded. The new balance is computed with a checked addition
// before any value moves, so an overflow cannot strand a transfer.
func (c Controller) Deposit(db custody.KVStore, escrow *Escrow, escrowID []byte, src custody.Address, amount coin.Amount) error {
	if err := c.acquire(db, escrowID); err != nil {
		return err
	}
	defer c.release(db, escrowID)

	balance, err := escrow.Balance.Add(amount)
	if err != nil {
		return err
	}
	if err := c.mover.MoveCoins(db, src, escrow.Address, amount); err != nil {
		return errors.Wrapf(ErrTransferFailed, "deposit: %s", err)
	}
	escrow.Balance = balance
	escrow.Phase = PhaseFunded
	return c.bucket.Put(db, escrowID, escrow)
}

// PayOut moves the full balance to dest and commits the terminal phase.
// On transfer failure the escrow record is left exactly as it was.
func (c Controller) PayOut(db custody.KVStore, escrow *Escrow, escrowID []byte, dest custody.Address, terminal Phase) error {
	if !terminal.Terminal() {
		return errors.Wrapf(errors.ErrHuman, "%s is not terminal", terminal)
	}
	if err := c.acquire(db, escrowID); err != nil {
		return err
	}
	defer c.release(db, escrowID)

	amount := escrow.Balance
	if !amount.IsPositive() {
		return errors.Wrap(ErrInvalidPhase, "nothing in custody")
	}
	if err := c.mover.MoveCoins(db, escrow.Address, dest, amount); err != nil {
		return errors.Wrapf(ErrTransferFailed, "payout: %s", err)
	}
	escrow.Balance = 0
	escrow.Phase = terminal
	return c.bucket.Put(db, escrowID, escrow)
}

// acquire takes the per-instance guard. A guard already present means a
// transfer on this instance is still executing and the call is rejected.
func (c Controller) acquire(db custody.KVStore, id []byte) error {
	key := guardKey(id)
	if db.Has(key) {
		return errors.Wrapf(ErrReentrancy, "escrow %x", id)
	}
	db.Set(key, []byte{1})
	return nil
}

func (c Controller) release(db custody.KVStore, id []byte) {
	db.Delete(guardKey(id))
}

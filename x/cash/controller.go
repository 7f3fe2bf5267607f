package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

// Controller is the functionality needed by other extensions to move
// native value around. The transfer is all or nothing: it either moves
// the full amount or fails with no mutation at all.
type Controller interface {
	// Balance returns the amount currently held by the given address.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Amount, error)

	// MoveCoins moves the given amount from src to dest.
	// If src doesn't hold sufficient value, it fails.
	MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Amount) error
}

// Minter is the genesis-only capability to create value out of thin air.
// Never hand this to a runtime component.
type Minter interface {
	CoinMint(db custody.KVStore, dest custody.Address, amount coin.Amount) error
}

// BaseController is a simple implementation of controller
// wallet functionality is minimal, just enough to move value.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}
var _ Minter = BaseController{}

// NewController returns a base controller implementation.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by the given address. An address
// without a wallet holds zero.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Amount, error) {
	w, err := c.bucket.Wallet(db, addr)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load wallet")
	}
	return w.Balance, nil
}

// MoveCoins moves the given amount from src to dest.
// Returns an error and leaves both wallets untouched when src holds
// less than the requested amount or the destination would overflow.
func (c BaseController) MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Amount) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer: %v", amount)
	}

	sender, err := c.bucket.Wallet(db, src)
	if err != nil {
		return errors.Wrap(err, "cannot load source wallet")
	}
	recipient, err := c.bucket.Wallet(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot load destination wallet")
	}

	remaining, err := sender.Balance.Sub(amount)
	if err != nil {
		return errors.Wrapf(err, "insufficient funds on %s", src)
	}
	total, err := recipient.Balance.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "cannot credit %s", dest)
	}

	sender.Balance = remaining
	recipient.Balance = total

	if err := c.bucket.Save(db, sender); err != nil {
		return errors.Wrap(err, "cannot save source wallet")
	}
	return errors.Wrap(c.bucket.Save(db, recipient), "cannot save destination wallet")
}

// CoinMint attempts to add the given amount to the destination address.
// Fails if it overflows the wallet.
func (c BaseController) CoinMint(db custody.KVStore, dest custody.Address, amount coin.Amount) error {
	recipient, err := c.bucket.Wallet(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot load destination wallet")
	}
	total, err := recipient.Balance.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "cannot credit %s", dest)
	}
	recipient.Balance = total
	return errors.Wrap(c.bucket.Save(db, recipient), "cannot save destination wallet")
}

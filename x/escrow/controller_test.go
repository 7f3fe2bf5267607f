package escrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

// moverFunc adapts a function to the cash.Controller interface, so a
// test can observe or sabotage the transfer in the middle of a
// transition.
type moverFunc func(db custody.KVStore, src, dest custody.Address, amount coin.Amount) error

func (f moverFunc) Balance(custody.ReadOnlyKVStore, custody.Address) (coin.Amount, error) {
	return 0, nil
}

func (f moverFunc) MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Amount) error {
	return f(db, src, dest, amount)
}

func fundedEscrow(t *testing.T, db custody.KVStore, bucket Bucket, balance coin.Amount) ([]byte, *Escrow) {
	t.Helper()
	id := escrowSeq.NextVal(db)
	esc := NewEscrow(id,
		custodytest.NewCondition().Address(),
		custodytest.NewCondition().Address(),
		custodytest.NewCondition().Address(),
		nil, "")
	esc.Balance = balance
	esc.Phase = PhaseFunded
	require.NoError(t, bucket.Put(db, id, esc))
	return id, esc
}

func TestPayOutRejectsReentrantCall(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket()
	id, esc := fundedEscrow(t, db, bucket, 500)

	var control Controller
	var nested error
	reenter := moverFunc(func(db custody.KVStore, src, dest custody.Address, amount coin.Amount) error {
		// A malicious recipient calling back into the same instance
		// while its transfer is still executing.
		inner := *esc
		nested = control.PayOut(db, &inner, id, dest, PhaseReleased)
		return nested
	})
	control = NewController(reenter, bucket)

	err := control.PayOut(db, esc, id, esc.Beneficiary, PhaseReleased)
	assert.True(t, ErrReentrancy.Is(nested), "nested call: %+v", nested)
	assert.True(t, ErrTransferFailed.Is(err), "outer call: %+v", err)

	// The instance is untouched and the guard was released.
	var stored Escrow
	require.NoError(t, bucket.One(db, id, &stored))
	assert.Equal(t, PhaseFunded, stored.Phase)
	assert.Equal(t, coin.Amount(500), stored.Balance)
	assert.False(t, db.Has(guardKey(id)))
}

func TestPayOutKeepsStateOnTransferFailure(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket()
	id, esc := fundedEscrow(t, db, bucket, 500)

	reject := moverFunc(func(custody.KVStore, custody.Address, custody.Address, coin.Amount) error {
		return errors.Wrap(errors.ErrAmount, "host rejected the transfer")
	})
	control := NewController(reject, bucket)

	err := control.PayOut(db, esc, id, esc.Beneficiary, PhaseReleased)
	assert.True(t, ErrTransferFailed.Is(err), "got %+v", err)

	var stored Escrow
	require.NoError(t, bucket.One(db, id, &stored))
	assert.Equal(t, PhaseFunded, stored.Phase)
	assert.Equal(t, coin.Amount(500), stored.Balance)
	assert.False(t, db.Has(guardKey(id)))
}

func TestPayOutCommitsAfterTransfer(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket()
	id, esc := fundedEscrow(t, db, bucket, 500)

	var moved coin.Amount
	accept := moverFunc(func(db custody.KVStore, src, dest custody.Address, amount coin.Amount) error {
		moved = amount
		return nil
	})
	control := NewController(accept, bucket)

	require.NoError(t, control.PayOut(db, esc, id, esc.Depositor, PhaseRefunded))
	assert.Equal(t, coin.Amount(500), moved)

	var stored Escrow
	require.NoError(t, bucket.One(db, id, &stored))
	assert.Equal(t, PhaseRefunded, stored.Phase)
	assert.True(t, stored.Balance.IsZero())
	assert.False(t, db.Has(guardKey(id)))
}

func TestPayOutRequiresTerminalPhase(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket()
	id, esc := fundedEscrow(t, db, bucket, 500)

	noop := moverFunc(func(custody.KVStore, custody.Address, custody.Address, coin.Amount) error {
		return nil
	})
	control := NewController(noop, bucket)

	err := control.PayOut(db, esc, id, esc.Beneficiary, PhaseDisputed)
	assert.True(t, errors.ErrHuman.Is(err), "got %+v", err)
}

func TestDepositOverflowRejectedBeforeTransfer(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket()
	id, esc := fundedEscrow(t, db, bucket, ^coin.Amount(0))

	transferred := false
	observe := moverFunc(func(custody.KVStore, custody.Address, custody.Address, coin.Amount) error {
		transferred = true
		return nil
	})
	control := NewController(observe, bucket)

	err := control.Deposit(db, esc, id, esc.Depositor, 1)
	assert.True(t, errors.ErrOverflow.Is(err), "got %+v", err)
	// The overflow must be detected before any value moves.
	assert.False(t, transferred)
	assert.False(t, db.Has(guardKey(id)))
}

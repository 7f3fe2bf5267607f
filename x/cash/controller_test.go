package cash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestBalanceOfUnknownAddressIsZero(t *testing.T) {
	db := store.MemStore()
	control := NewController(NewBucket())

	val, err := control.Balance(db, custodytest.NewCondition().Address())
	require.NoError(t, err)
	assert.True(t, val.IsZero())
}

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	control := NewController(NewBucket())
	src := custodytest.NewCondition().Address()
	dest := custodytest.NewCondition().Address()

	require.NoError(t, control.CoinMint(db, src, 500))

	require.NoError(t, control.MoveCoins(db, src, dest, 120))

	srcBal, err := control.Balance(db, src)
	require.NoError(t, err)
	destBal, err := control.Balance(db, dest)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(380), srcBal)
	assert.Equal(t, coin.Amount(120), destBal)
}

func TestMoveCoinsFailures(t *testing.T) {
	db := store.MemStore()
	control := NewController(NewBucket())
	src := custodytest.NewCondition().Address()
	dest := custodytest.NewCondition().Address()
	require.NoError(t, control.CoinMint(db, src, 500))

	assertUntouched := func(t *testing.T) {
		t.Helper()
		srcBal, err := control.Balance(db, src)
		require.NoError(t, err)
		destBal, err := control.Balance(db, dest)
		require.NoError(t, err)
		assert.Equal(t, coin.Amount(500), srcBal)
		assert.True(t, destBal.IsZero())
	}

	t.Run("insufficient funds", func(t *testing.T) {
		err := control.MoveCoins(db, src, dest, 501)
		assert.True(t, errors.ErrAmount.Is(err), "got %+v", err)
		assertUntouched(t)
	})

	t.Run("zero amount", func(t *testing.T) {
		err := control.MoveCoins(db, src, dest, 0)
		assert.True(t, errors.ErrAmount.Is(err), "got %+v", err)
		assertUntouched(t)
	})

	t.Run("destination overflow", func(t *testing.T) {
		require.NoError(t, control.CoinMint(db, dest, math.MaxUint64))
		err := control.MoveCoins(db, src, dest, 1)
		assert.True(t, errors.ErrOverflow.Is(err), "got %+v", err)

		srcBal, err := control.Balance(db, src)
		require.NoError(t, err)
		assert.Equal(t, coin.Amount(500), srcBal)
	})
}

func TestCoinMintOverflow(t *testing.T) {
	db := store.MemStore()
	control := NewController(NewBucket())
	dest := custodytest.NewCondition().Address()

	require.NoError(t, control.CoinMint(db, dest, math.MaxUint64))
	err := control.CoinMint(db, dest, 1)
	assert.True(t, errors.ErrOverflow.Is(err), "got %+v", err)
}

func TestWalletSerialization(t *testing.T) {
	w := Wallet{
		Address: custodytest.NewCondition().Address(),
		Balance: 321,
	}
	raw, err := w.Marshal()
	require.NoError(t, err)

	var loaded Wallet
	require.NoError(t, loaded.Unmarshal(raw))
	assert.Equal(t, w, loaded)
}

func TestInitializerFromGenesis(t *testing.T) {
	db := store.MemStore()
	addr := custodytest.NewCondition().Address()

	opts := custody.Options{
		"cash": []byte(`[{"address": "` + addr.String() + `", "balance": 42}]`),
	}
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	control := NewController(NewBucket())
	val, err := control.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(42), val)
}

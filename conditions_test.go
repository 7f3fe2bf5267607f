package custody_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
)

func TestConditionParse(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	cond := custody.NewCondition("sigs", "ed25519", data)

	ext, typ, got, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "sigs", ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, data, got)

	// Data containing a slash or a newline must still parse.
	tricky := custody.NewCondition("escrow", "seq", []byte("a/b\nc"))
	_, _, got, err = tricky.Parse()
	require.NoError(t, err)
	assert.Equal(t, []byte("a/b\nc"), got)

	var garbage custody.Condition = []byte("foobar")
	_, _, _, err = garbage.Parse()
	assert.Error(t, err)
	assert.Error(t, garbage.Validate())
}

func TestConditionAddress(t *testing.T) {
	cond := custodytest.NewCondition()

	addr := cond.Address()
	require.NoError(t, addr.Validate())
	assert.Len(t, addr, custody.AddressLength)

	// Derivation is deterministic.
	assert.Equal(t, addr, cond.Address())
	// And distinct inputs give distinct addresses.
	assert.False(t, addr.Equals(custodytest.NewCondition().Address()))
}

func TestAddressValidate(t *testing.T) {
	addr := custodytest.NewCondition().Address()
	assert.NoError(t, addr.Validate())

	assert.Error(t, custody.Address(nil).Validate())
	assert.Error(t, custody.Address{1, 2, 3}.Validate())
	assert.Error(t, addr[:custody.AddressLength-1].Validate())
}

func TestAddressJSON(t *testing.T) {
	addr := custodytest.NewCondition().Address()

	t.Run("hex roundtrip", func(t *testing.T) {
		raw, err := json.Marshal(addr)
		require.NoError(t, err)
		var loaded custody.Address
		require.NoError(t, json.Unmarshal(raw, &loaded))
		assert.Equal(t, addr, loaded)
	})

	t.Run("condition format", func(t *testing.T) {
		cond := custody.NewCondition("escrow", "seq", []byte{0, 0, 0, 0, 0, 0, 0, 1})
		enc := `"cond:escrow/seq/0000000000000001"`
		var loaded custody.Address
		require.NoError(t, json.Unmarshal([]byte(enc), &loaded))
		assert.Equal(t, cond.Address(), loaded)
	})

	t.Run("bech32 roundtrip", func(t *testing.T) {
		enc, err := addr.Bech32("cstd")
		require.NoError(t, err)
		var loaded custody.Address
		require.NoError(t, json.Unmarshal([]byte(`"bech32:`+enc+`"`), &loaded))
		assert.Equal(t, addr, loaded)
	})

	t.Run("empty means nil", func(t *testing.T) {
		var loaded custody.Address
		require.NoError(t, json.Unmarshal([]byte(`""`), &loaded))
		assert.Nil(t, loaded)
	})

	t.Run("unknown format", func(t *testing.T) {
		var loaded custody.Address
		assert.Error(t, json.Unmarshal([]byte(`"base64:AAAA"`), &loaded))
	})
}

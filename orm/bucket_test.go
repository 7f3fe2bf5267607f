package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

// counter is a minimal model for bucket tests.
type counter struct {
	Count int64
	bad   bool
}

var _ Model = (*counter)(nil)

func (c *counter) Validate() error {
	if c.bad {
		return errors.Wrap(errors.ErrState, "marked invalid")
	}
	return nil
}

func (c *counter) Marshal() ([]byte, error) {
	return EncodeSequence(c.Count), nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrInput, "expected 8 bytes")
	}
	c.Count = DecodeSequence(raw)
	return nil
}

func TestNewBucketName(t *testing.T) {
	assert.NotPanics(t, func() { NewBucket("good") })
	assert.NotPanics(t, func() { NewBucket("snake_cas") })

	for _, name := range []string{"", "ab", "UPPER", "with space", "waytoolongname", "num8er"} {
		assert.Panics(t, func() { NewBucket(name) }, name)
	}
}

func TestBucketPutGetDelete(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket("cnts")
	key := []byte("alice")

	var missing counter
	err := bucket.One(db, key, &missing)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
	assert.False(t, bucket.Has(db, key))

	require.NoError(t, bucket.Put(db, key, &counter{Count: 55}))
	assert.True(t, bucket.Has(db, key))

	var loaded counter
	require.NoError(t, bucket.One(db, key, &loaded))
	assert.Equal(t, int64(55), loaded.Count)

	require.NoError(t, bucket.Delete(db, key))
	assert.False(t, bucket.Has(db, key))
	err = bucket.Delete(db, key)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}

func TestBucketRejectsInvalidModel(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket("cnts")

	err := bucket.Put(db, []byte("alice"), &counter{bad: true})
	require.Error(t, err)
	assert.False(t, bucket.Has(db, []byte("alice")))
}

func TestBucketIsolation(t *testing.T) {
	db := store.MemStore()
	first := NewBucket("one")
	second := NewBucket("two")
	key := []byte("shared")

	require.NoError(t, first.Put(db, key, &counter{Count: 1}))
	require.NoError(t, second.Put(db, key, &counter{Count: 2}))

	var a, b counter
	require.NoError(t, first.One(db, key, &a))
	require.NoError(t, second.One(db, key, &b))
	assert.Equal(t, int64(1), a.Count)
	assert.Equal(t, int64(2), b.Count)

	require.NoError(t, first.Delete(db, key))
	assert.True(t, second.Has(db, key))
}

func TestBucketScan(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket("cnts")

	for i, key := range []string{"a", "b", "c"} {
		require.NoError(t, bucket.Put(db, []byte(key), &counter{Count: int64(i)}))
	}
	// A neighbouring prefix must not show up in the scan.
	db.Set([]byte("cntt:zz"), EncodeSequence(99))

	var keys []string
	err := bucket.Ascend(db, func(key, value []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	keys = nil
	err = bucket.Descend(db, func(key, value []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}

func TestBucketScanStopsOnError(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket("cnts")
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, bucket.Put(db, []byte(key), &counter{}))
	}

	fail := errors.Wrap(errors.ErrHuman, "stop here")
	seen := 0
	err := bucket.Ascend(db, func(key, value []byte) error {
		seen++
		return fail
	})
	assert.Equal(t, fail, err)
	assert.Equal(t, 1, seen)
}

func TestSequence(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("cnts", "id")

	assert.Equal(t, int64(1), seq.NextInt(db))
	assert.Equal(t, int64(2), seq.NextInt(db))

	raw := seq.NextVal(db)
	require.Len(t, raw, 8)
	assert.Equal(t, int64(3), DecodeSequence(raw))

	latest, latestRaw := seq.Latest(db)
	assert.Equal(t, int64(3), latest)
	assert.Equal(t, raw, latestRaw)

	// Independent sequences do not share state.
	other := NewSequence("cnts", "other")
	assert.Equal(t, int64(1), other.NextInt(db))
	assert.Equal(t, int64(4), seq.NextInt(db))
}

/*
Package orm breaks the state space into prefixed sections called
Buckets and provides the minimal object persistence needed by the
custody extensions: primary-key access, validation before writes, and
range scans over one bucket.
*/
package orm

import (
	"regexp"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored in a Bucket.
type Model interface {
	custody.Persistent
	Validate() error
}

// Bucket is a prefixed subspace of the DB, operating directly on the
// KVStore. All entities stored through one bucket share a common key
// prefix and the same model type.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket for the given named subspace.
// Panics on invalid name, as this is a setup error, not runtime input.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
func (b Bucket) DBKey(key []byte) []byte {
	// Always copy. The caller may own and later modify key, and
	// append(b.prefix, key...) could alias the prefix backing array.
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One queries the bucket for a single model instance. Lookup is done by
// the primary key. The result is loaded into the given destination model.
// This method returns ErrNotFound if the entity does not exist.
func (b Bucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	raw := db.Get(b.DBKey(key))
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot deserialize %T", dest)
	}
	return nil
}

// Has returns true if an entity with the given primary key exists.
func (b Bucket) Has(db custody.ReadOnlyKVStore, key []byte) bool {
	return db.Has(b.DBKey(key))
}

// Put validates and saves the given model under the given primary key.
func (b Bucket) Put(db custody.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot serialize %T", m)
	}
	db.Set(b.DBKey(key), raw)
	return nil
}

// Delete removes an entity with the given primary key. It returns
// ErrNotFound if an entity with that key does not exist.
func (b Bucket) Delete(db custody.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	if !db.Has(dbkey) {
		return errors.ErrNotFound
	}
	db.Delete(dbkey)
	return nil
}

// Ascend iterates over the whole bucket in ascending primary key order.
// The callback receives the primary key (with the bucket prefix already
// stripped) and the raw stored value. Returning an error stops the
// iteration and is passed through to the caller.
func (b Bucket) Ascend(db custody.ReadOnlyKVStore, fn func(key, value []byte) error) error {
	return b.iterate(db.Iterator(b.keyRange()), fn)
}

// Descend iterates over the whole bucket in descending primary key order.
func (b Bucket) Descend(db custody.ReadOnlyKVStore, fn func(key, value []byte) error) error {
	return b.iterate(db.ReverseIterator(b.keyRange()), fn)
}

func (b Bucket) iterate(itr custody.Iterator, fn func(key, value []byte) error) error {
	defer itr.Close()
	for ; itr.Valid(); itr.Next() {
		key := itr.Key()[len(b.prefix):]
		if err := fn(key, itr.Value()); err != nil {
			return err
		}
	}
	return nil
}

// keyRange returns the [start, end) range covering every key with this
// bucket's prefix. The end key is the prefix with its last byte (the
// separator) incremented.
func (b Bucket) keyRange() ([]byte, []byte) {
	start := b.prefix
	end := make([]byte, len(b.prefix))
	copy(end, b.prefix)
	end[len(end)-1]++
	return start, end
}

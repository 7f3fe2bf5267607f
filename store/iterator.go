package store

import (
	"bytes"

	"github.com/google/btree"
)

///////////////////////////////////////////////////////
// From btree items to Iterator

// btreeIter is a cursor over a materialized range of btree items.
// The ranges we iterate are small (one bucket), so collecting them
// up front is simpler and safer than streaming from the tree while
// the caller may be reading the backing store.
type btreeIter struct {
	items []btree.Item
	idx   int
}

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}

	if start == nil && end == nil {
		bt.Ascend(collect)
	} else if start == nil { // end != nil
		bt.AscendLessThan(bkey{end}, collect)
	} else if end == nil { // start != nil
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	} else { // both != nil
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}

	return &btreeIter{items: items}
}

func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		// Descend* in the btree package treats its pivots inclusively,
		// while our contract wants [start, end). Filter the edges.
		key := item.(keyer).Key()
		if end != nil && bytes.Compare(key, end) >= 0 {
			return true
		}
		if start != nil && bytes.Compare(key, start) < 0 {
			return false
		}
		items = append(items, item)
		return true
	}

	if end == nil {
		bt.Descend(collect)
	} else {
		bt.DescendLessOrEqual(bkey{end}, collect)
	}

	return &btreeIter{items: items}
}

func (b *btreeIter) wrap(parent Iterator, reverse bool) *itemIter {
	iter := &itemIter{
		wrap:    b,
		parent:  parent,
		reverse: reverse,
	}
	iter.skipAllDeleted()
	return iter
}

func (b *btreeIter) valid() bool {
	return b.idx < len(b.items)
}

func (b *btreeIter) next() {
	b.idx++
}

// get requires this is valid, gets what we are pointing at.
func (b *btreeIter) get() keyer {
	return b.items[b.idx].(keyer)
}

func (b *btreeIter) close() {
	b.items = nil
	b.idx = 0
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines an iterator over the cache layer with the one over
// the backing store, taking into consideration overwrites and deletes.
type itemIter struct {
	wrap    *btreeIter
	parent  Iterator
	reverse bool
}

var _ Iterator = (*itemIter)(nil)

// Valid implements Iterator and returns true iff it can be read.
func (i *itemIter) Valid() bool {
	return i.wrap.valid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *itemIter) Next() {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.wrap.next()
	case both:
		i.wrap.next()
		fallthrough
	case parent:
		i.parent.Next()
	default:
		panic("advanced past the end")
	}

	// keep advancing over all deleted entries
	i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().Key()
	case parent:
		return i.parent.Key()
	default: // none
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().(setItem).value
	case parent:
		return i.parent.Value()
	default: // none
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	i.parent.Close()
	i.wrap.close()
}

// skipAllDeleted loops and skips any number of deleted items.
func (i *itemIter) skipAllDeleted() {
	for i.skipDeleted() {
	}
}

// skipDeleted jumps over all elements we can safely fast forward.
// Returns true if skipped, so we can skip again.
func (i *itemIter) skipDeleted() bool {
	src := i.firstKey()
	if src == us || src == both {
		// if our next is deleted, advance...
		if _, ok := i.wrap.get().(deletedItem); ok {
			i.wrap.next()
			// if parent had the same key, advance parent as well
			if src == both {
				i.parent.Next()
			}
			return true
		}
	}
	return false
}

// firstKey selects the iterator whose key comes first in the order of
// iteration, if any.
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	// both are valid... compare keys....
	cmp := bytes.Compare(i.parent.Key(), i.wrap.get().Key())
	if i.reverse {
		cmp = -cmp
	}

	if cmp < 0 {
		return parent
	} else if cmp > 0 {
		return us
	}
	return both
}

// makes sure the parent is non-nil before checking if it is valid
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}

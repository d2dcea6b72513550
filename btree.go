// Package twothree implements an ordered map backed by an in-memory 2-3 tree.
//
// Every node holds one or two key/value pairs and, when internal, one more
// child than it has keys. All leaves sit at the same depth. Insertion splits
// overflowing nodes upwards; erasure borrows from a sibling holding two keys
// and merges with the parent separator otherwise.
//
// The tree can be walked with five cursor kinds:
//   - Iterator, a (node, slot) pair stepping over child and parent links
//   - LNRIterator and RNLIterator, in-order and reverse in-order cursors that
//     carry an explicit root-to-node path instead of following parent links
//   - BFSIterator, a breadth-first cursor (forward or reverse) over a
//     level-order snapshot taken when the cursor is created
//
// All kinds implement Cursor and compare equal when they address the same
// slot of the same node.
//
// A Tree is not safe for concurrent use. Insert, Erase and Clear invalidate
// every outstanding cursor and every pointer returned by GetOrInsert.
package twothree

import (
	"cmp"

	"github.com/cockroachdb/errors"

	"twothree/internal/invariants"
)

// Tree is an ordered map from K to V.
type Tree[K any, V any] struct {
	root *node[K, V]
	size int
	cmp  func(a, b K) int
	opts Options
}

// New creates an empty tree ordered by compare, which must return a
// negative number, zero or a positive number when a is less than, equal to
// or greater than b.
func New[K any, V any](compare func(a, b K) int, opts ...Option) *Tree[K, V] {
	if compare == nil {
		panic("twothree: nil comparator")
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree[K, V]{cmp: compare, opts: o}
}

// NewOrdered creates an empty tree using the natural order of K.
func NewOrdered[K cmp.Ordered, V any](opts ...Option) *Tree[K, V] {
	return New[K, V](cmp.Compare[K], opts...)
}

// NewFrom creates a tree holding pairs. Later duplicates of a key are
// ignored.
func NewFrom[K any, V any](compare func(a, b K) int, pairs ...Pair[K, V]) *Tree[K, V] {
	t := New[K, V](compare)
	t.InsertPairs(pairs...)
	return t
}

// Len returns the number of keys in the tree.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// Empty reports whether the tree holds no keys.
func (t *Tree[K, V]) Empty() bool {
	return t.size == 0
}

// Clear drops every node.
func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.size = 0
}

// Swap exchanges the contents and comparators of t and other in constant
// time. Iterators keep addressing the nodes they pointed to, which now
// belong to the other tree, except End iterators which stay with their tree.
func (t *Tree[K, V]) Swap(other *Tree[K, V]) {
	t.root, other.root = other.root, t.root
	t.size, other.size = other.size, t.size
	t.cmp, other.cmp = other.cmp, t.cmp
}

// Clone returns a deep copy of t with an identical node layout. Keys and
// values are copied by assignment.
func (t *Tree[K, V]) Clone() *Tree[K, V] {
	c := &Tree[K, V]{size: t.size, cmp: t.cmp, opts: t.opts}
	if t.root != nil {
		c.root = t.root.clone(nil)
	}
	return c
}

// Move returns a tree that takes over t's nodes, leaving t empty.
// Iterators over t remain valid for the returned tree.
func (t *Tree[K, V]) Move() *Tree[K, V] {
	m := &Tree[K, V]{root: t.root, size: t.size, cmp: t.cmp, opts: t.opts}
	t.root = nil
	t.size = 0
	return m
}

// locate returns the node and slot holding key, or a nil node.
func (t *Tree[K, V]) locate(key K) (*node[K, V], int) {
	for n := t.root; n != nil; {
		i, found := n.search(t.cmp, key)
		if found {
			return n, i
		}
		n = n.children[i]
	}
	return nil, 0
}

func (t *Tree[K, V]) iter(n *node[K, V], slot int) Iterator[K, V] {
	return Iterator[K, V]{tree: t, n: n, slot: slot}
}

// Find returns an iterator at key, or End if key is absent.
func (t *Tree[K, V]) Find(key K) Iterator[K, V] {
	n, i := t.locate(key)
	return t.iter(n, i)
}

// Get returns the value stored under key.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	n, i := t.locate(key)
	if n == nil {
		var zero V
		return zero, false
	}
	return n.pairs[i].Value, true
}

// At returns the value stored under key, or ErrKeyNotFound.
func (t *Tree[K, V]) At(key K) (V, error) {
	v, ok := t.Get(key)
	if !ok {
		return v, ErrKeyNotFound
	}
	return v, nil
}

// Count returns 1 if key is present and 0 otherwise.
func (t *Tree[K, V]) Count(key K) int {
	if n, _ := t.locate(key); n != nil {
		return 1
	}
	return 0
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	return t.Count(key) == 1
}

// GetOrInsert returns a pointer to the value stored under key, inserting
// the zero value first when key is absent. The pointer is invalidated by
// the next mutation of the tree.
func (t *Tree[K, V]) GetOrInsert(key K) *V {
	it, _ := t.Emplace(key, func() (zero V) { return zero })
	return &it.n.pairs[it.slot].Value
}

// Insert adds key with value. If key is already present the tree is left
// unchanged and the returned iterator addresses the existing pair.
func (t *Tree[K, V]) Insert(key K, value V) (Iterator[K, V], bool) {
	return t.Emplace(key, func() V { return value })
}

// Emplace is Insert with a lazily built value: mk is only called when key
// is absent.
func (t *Tree[K, V]) Emplace(key K, mk func() V) (Iterator[K, V], bool) {
	if t.root == nil {
		t.root = newLeaf(Pair[K, V]{Key: key, Value: mk()})
		t.size = 1
		t.checkInvariants("insert")
		return t.iter(t.root, 0), true
	}

	// Descend to the leaf where key belongs
	n := t.root
	var i int
	for {
		var found bool
		i, found = n.search(t.cmp, key)
		if found {
			return t.iter(n, i), false
		}
		if n.isLeaf() {
			break
		}
		n = n.children[i]
	}

	t.insertIntoLeaf(n, i, Pair[K, V]{Key: key, Value: mk()})
	t.size++
	t.checkInvariants("insert")

	// A split may have moved the new pair
	return t.Find(key), true
}

// InsertHint inserts key with value. The hint is advisory: the result is
// always the one Insert would give. Hints from another tree are reported to
// the logger.
func (t *Tree[K, V]) InsertHint(hint Iterator[K, V], key K, value V) Iterator[K, V] {
	if hint.n != nil && !t.owns(hint.n) {
		t.opts.logger.Warn("insert hint does not belong to this tree")
	}
	it, _ := t.Insert(key, value)
	return it
}

// InsertPairs inserts every pair and returns how many keys were added.
func (t *Tree[K, V]) InsertPairs(pairs ...Pair[K, V]) int {
	added := 0
	for _, p := range pairs {
		if _, ok := t.Insert(p.Key, p.Value); ok {
			added++
		}
	}
	return added
}

// Erase removes key and returns the number of keys removed (0 or 1).
func (t *Tree[K, V]) Erase(key K) int {
	n, i := t.locate(key)
	if n == nil {
		return 0
	}
	t.removeSlot(n, i)
	t.checkInvariants("erase")
	return 1
}

// EraseAt removes the pair addressed by it and returns an iterator at the
// following pair. Passing End or an iterator of another tree is a
// programming error: builds with invariants panic, other builds log it and
// return End without touching the tree.
func (t *Tree[K, V]) EraseAt(it Iterator[K, V]) Iterator[K, V] {
	if !it.Valid() || !t.owns(it.n) {
		t.misuse("erase through invalid iterator", it)
		return t.End()
	}

	next := it
	hasNext := next.Next()
	var nextKey K
	if hasNext {
		nextKey = next.Key()
	}

	t.removeSlot(it.n, it.slot)
	t.checkInvariants("erase")

	if !hasNext {
		return t.End()
	}
	return t.Find(nextKey)
}

// EraseRange removes [first, last) and returns an iterator at last's pair.
func (t *Tree[K, V]) EraseRange(first, last Iterator[K, V]) Iterator[K, V] {
	if first.Equal(last) {
		return last
	}
	if !first.Valid() || !t.owns(first.n) {
		t.misuse("erase range from invalid iterator", first)
		return t.End()
	}

	var keys []K
	for it := first; it.Valid() && !it.Equal(last); it.Next() {
		keys = append(keys, it.Key())
	}
	var lastKey K
	hasLast := last.Valid()
	if hasLast {
		lastKey = last.Key()
	}

	for _, k := range keys {
		t.Erase(k)
	}

	if !hasLast {
		return t.End()
	}
	return t.Find(lastKey)
}

// LowerBound returns an iterator at the first key not less than key.
func (t *Tree[K, V]) LowerBound(key K) Iterator[K, V] {
	return t.bound(key, false)
}

// UpperBound returns an iterator at the first key greater than key.
func (t *Tree[K, V]) UpperBound(key K) Iterator[K, V] {
	return t.bound(key, true)
}

// EqualRange returns LowerBound(key) and UpperBound(key).
func (t *Tree[K, V]) EqualRange(key K) (Iterator[K, V], Iterator[K, V]) {
	return t.LowerBound(key), t.UpperBound(key)
}

// bound descends once, remembering the smallest key seen that satisfies
// the bound. When strict is set equal keys do not satisfy it.
func (t *Tree[K, V]) bound(key K, strict bool) Iterator[K, V] {
	var best *node[K, V]
	slot := 0
	for n := t.root; n != nil; {
		i := 0
		for i < int(n.numKeys) {
			c := t.cmp(key, n.pairs[i].Key)
			if c < 0 || (c == 0 && !strict) {
				break
			}
			i++
		}
		if i < int(n.numKeys) {
			best, slot = n, i
			if !strict && t.cmp(key, n.pairs[i].Key) == 0 {
				break
			}
		}
		n = n.children[i]
	}
	return t.iter(best, slot)
}

// Begin returns an iterator at the smallest key, or End.
func (t *Tree[K, V]) Begin() Iterator[K, V] {
	if t.root == nil {
		return t.End()
	}
	return t.iter(t.root.leftmost(), 0)
}

// Last returns an iterator at the largest key, or End.
func (t *Tree[K, V]) Last() Iterator[K, V] {
	if t.root == nil {
		return t.End()
	}
	r := t.root.rightmost()
	return t.iter(r, int(r.numKeys)-1)
}

// End returns the past-the-end iterator.
func (t *Tree[K, V]) End() Iterator[K, V] {
	return t.iter(nil, 0)
}

// owns reports whether n is reachable from t's root.
func (t *Tree[K, V]) owns(n *node[K, V]) bool {
	for n.parent != nil {
		n = n.parent
	}
	return n == t.root
}

func (t *Tree[K, V]) misuse(msg string, it Iterator[K, V]) {
	if invariants.Enabled {
		panic(errors.AssertionFailedf("%s", msg))
	}
	t.opts.logger.Error(msg, "valid", it.Valid(), "size", t.size)
}

func (t *Tree[K, V]) checkInvariants(op string) {
	if !invariants.Enabled && !t.opts.verify {
		return
	}
	if err := t.Verify(); err != nil {
		t.opts.logger.Error("tree verification failed", "op", op, "error", err)
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "after %s", op))
	}
}

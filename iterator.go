package twothree

import "twothree/internal/invariants"

// Cursor is implemented by every iterator kind. Two cursors are at the same
// position when their Lite forms address the same slot of the same node;
// all End positions are equal.
type Cursor[K any, V any] interface {
	Valid() bool
	Key() K
	Value() V
	Lite() Iterator[K, V]
}

// Iterator is the lightweight cursor: a node and a slot inside it. Stepping
// follows child links down and parent links up, so it needs no extra state
// and never allocates.
//
// The zero slot of a nil node is the End sentinel. It also serves as the
// position before the first pair: Prev from the first pair yields End, and
// Prev from End yields the last pair.
type Iterator[K any, V any] struct {
	tree *Tree[K, V]
	n    *node[K, V]
	slot int
}

// Valid reports whether the iterator addresses a pair.
func (it Iterator[K, V]) Valid() bool {
	return it.n != nil
}

// Key returns the current key. It is illegal to call Key on End.
func (it Iterator[K, V]) Key() K {
	if invariants.Enabled && !it.Valid() {
		panic("twothree: Key on invalid iterator")
	}
	return it.n.pairs[it.slot].Key
}

// Value returns the current value. It is illegal to call Value on End.
func (it Iterator[K, V]) Value() V {
	if invariants.Enabled && !it.Valid() {
		panic("twothree: Value on invalid iterator")
	}
	return it.n.pairs[it.slot].Value
}

// Pair returns the current key and value.
func (it Iterator[K, V]) Pair() Pair[K, V] {
	return Pair[K, V]{Key: it.Key(), Value: it.Value()}
}

// SetValue replaces the current value in place.
func (it Iterator[K, V]) SetValue(v V) {
	if invariants.Enabled && !it.Valid() {
		panic("twothree: SetValue on invalid iterator")
	}
	it.n.pairs[it.slot].Value = v
}

// Lite returns the iterator itself.
func (it Iterator[K, V]) Lite() Iterator[K, V] {
	return it
}

// Equal reports whether c addresses the same pair as it.
func (it Iterator[K, V]) Equal(c Cursor[K, V]) bool {
	return samePosition(it, c.Lite())
}

func samePosition[K any, V any](a, b Iterator[K, V]) bool {
	return a.n == b.n && (a.n == nil || a.slot == b.slot)
}

// Next moves to the following pair and reports whether one exists.
func (it *Iterator[K, V]) Next() bool {
	if it.n == nil {
		return false
	}
	it.n, it.slot = successor(it.n, it.slot)
	return it.n != nil
}

// Prev moves to the preceding pair and reports whether one exists. From End
// it moves to the last pair.
func (it *Iterator[K, V]) Prev() bool {
	if it.n == nil {
		if it.tree == nil || it.tree.root == nil {
			return false
		}
		r := it.tree.root.rightmost()
		it.n, it.slot = r, int(r.numKeys)-1
		return true
	}
	it.n, it.slot = predecessor(it.n, it.slot)
	return it.n != nil
}

// successor returns the pair following slot i of n. From the first slot of
// a triple it enters the middle child; without a child to enter it climbs
// until it arrives from a child that has a separator on its right.
func successor[K any, V any](n *node[K, V], i int) (*node[K, V], int) {
	if !n.isLeaf() {
		return n.children[i+1].leftmost(), 0
	}
	if i+1 < int(n.numKeys) {
		return n, i + 1
	}
	for c, p := n, n.parent; p != nil; c, p = p, p.parent {
		if idx := p.childIndex(c); idx < int(p.numKeys) {
			return p, idx
		}
	}
	return nil, 0
}

// predecessor mirrors successor.
func predecessor[K any, V any](n *node[K, V], i int) (*node[K, V], int) {
	if !n.isLeaf() {
		r := n.children[i].rightmost()
		return r, int(r.numKeys) - 1
	}
	if i > 0 {
		return n, i - 1
	}
	for c, p := n, n.parent; p != nil; c, p = p, p.parent {
		if idx := p.childIndex(c); idx > 0 {
			return p, idx - 1
		}
	}
	return nil, 0
}

// root finds the root of the tree the iterator belongs to.
func (it Iterator[K, V]) root() *node[K, V] {
	if it.n == nil {
		if it.tree == nil {
			return nil
		}
		return it.tree.root
	}
	n := it.n
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// ToLNR converts it to an in-order cursor at the same pair. The path is
// rebuilt by walking from the first pair, which costs O(n).
func (it Iterator[K, V]) ToLNR() *LNRIterator[K, V] {
	c := &LNRIterator[K, V]{p: newPathIter(it.tree, it.root())}
	if !it.Valid() {
		c.p.end()
		return c
	}
	c.p.first()
	c.p.seekForward(it.n, it.slot)
	return c
}

// ToRNL converts it to a reverse in-order cursor at the same pair. The path
// is rebuilt by walking from the last pair, which costs O(n).
func (it Iterator[K, V]) ToRNL() *RNLIterator[K, V] {
	c := &RNLIterator[K, V]{p: newPathIter(it.tree, it.root())}
	if !it.Valid() {
		c.p.rend()
		return c
	}
	c.p.last()
	c.p.seekBackward(it.n, it.slot)
	return c
}

// ToBFS converts it to a breadth-first cursor at the same pair by taking a
// fresh level-order snapshot, which costs O(n).
func (it Iterator[K, V]) ToBFS() *BFSIterator[K, V] {
	c := newBFSIterator(it.tree, it.root(), false)
	if !it.Valid() {
		c.idx = len(c.seq)
		return c
	}
	for c.idx = 0; c.idx < len(c.seq); c.idx++ {
		if s := c.seq[c.idx]; s.n == it.n && s.slot == it.slot {
			break
		}
	}
	return c
}

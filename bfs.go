package twothree

import "twothree/internal/invariants"

type position[K any, V any] struct {
	n    *node[K, V]
	slot int
}

// levelOrder returns the nodes under root level by level, left to right.
func levelOrder[K any, V any](root *node[K, V]) []*node[K, V] {
	if root == nil {
		return nil
	}
	queue := []*node[K, V]{root}
	for head := 0; head < len(queue); head++ {
		n := queue[head]
		if n.isLeaf() {
			continue
		}
		for c := 0; c <= int(n.numKeys); c++ {
			queue = append(queue, n.children[c])
		}
	}
	return queue
}

// BFSIterator walks pairs breadth-first: level by level from the root, and
// within a node slot by slot.
//
// The order is captured when the iterator is created. Later insertions and
// erasures are not reflected; build a new iterator to scan again. Reading a
// pair after its tree has been mutated is invalid, as with every cursor.
type BFSIterator[K any, V any] struct {
	tree    *Tree[K, V]
	seq     []position[K, V]
	idx     int
	reverse bool
}

func newBFSIterator[K any, V any](t *Tree[K, V], root *node[K, V], reverse bool) *BFSIterator[K, V] {
	nodes := levelOrder(root)
	seq := make([]position[K, V], 0, 2*len(nodes))
	for _, n := range nodes {
		for s := 0; s < int(n.numKeys); s++ {
			seq = append(seq, position[K, V]{n: n, slot: s})
		}
	}
	return &BFSIterator[K, V]{tree: t, seq: seq, reverse: reverse}
}

// BFSBegin returns a breadth-first cursor at the root's first key.
func (t *Tree[K, V]) BFSBegin() *BFSIterator[K, V] {
	return newBFSIterator(t, t.root, false)
}

// BFSEnd returns the breadth-first cursor past the last pair.
func (t *Tree[K, V]) BFSEnd() *BFSIterator[K, V] {
	it := newBFSIterator(t, t.root, false)
	it.idx = len(it.seq)
	return it
}

// RBFSBegin returns a reverse breadth-first cursor at the last pair of the
// deepest level.
func (t *Tree[K, V]) RBFSBegin() *BFSIterator[K, V] {
	it := newBFSIterator(t, t.root, true)
	it.idx = len(it.seq) - 1
	return it
}

// RBFSEnd returns the reverse breadth-first cursor past the root's first
// key.
func (t *Tree[K, V]) RBFSEnd() *BFSIterator[K, V] {
	it := newBFSIterator(t, t.root, true)
	it.idx = -1
	return it
}

func (it *BFSIterator[K, V]) Valid() bool {
	return it.idx >= 0 && it.idx < len(it.seq)
}

func (it *BFSIterator[K, V]) pair() *Pair[K, V] {
	if invariants.Enabled && !it.Valid() {
		panic("twothree: access through invalid cursor")
	}
	p := it.seq[it.idx]
	return &p.n.pairs[p.slot]
}

func (it *BFSIterator[K, V]) Key() K   { return it.pair().Key }
func (it *BFSIterator[K, V]) Value() V { return it.pair().Value }

// Len returns the number of pairs in the snapshot.
func (it *BFSIterator[K, V]) Len() int { return len(it.seq) }

// Reverse reports whether Next walks the snapshot backwards.
func (it *BFSIterator[K, V]) Reverse() bool { return it.reverse }

func (it *BFSIterator[K, V]) step(d int) bool {
	if it.reverse {
		d = -d
	}
	it.idx += d
	// Park on the sentinel just outside the snapshot
	if it.idx < -1 {
		it.idx = -1
	} else if it.idx > len(it.seq) {
		it.idx = len(it.seq)
	}
	return it.Valid()
}

// Next moves one step in the iterator's direction.
func (it *BFSIterator[K, V]) Next() bool { return it.step(1) }

// Prev moves one step against the iterator's direction. From the end
// position it moves to the final pair of the walk.
func (it *BFSIterator[K, V]) Prev() bool { return it.step(-1) }

// Lite returns the lightweight iterator at the same pair.
func (it *BFSIterator[K, V]) Lite() Iterator[K, V] {
	if !it.Valid() {
		return Iterator[K, V]{tree: it.tree}
	}
	p := it.seq[it.idx]
	return Iterator[K, V]{tree: it.tree, n: p.n, slot: p.slot}
}

// Equal reports whether c addresses the same pair as it.
func (it *BFSIterator[K, V]) Equal(c Cursor[K, V]) bool {
	return samePosition(it.Lite(), c.Lite())
}

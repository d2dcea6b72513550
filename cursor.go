package twothree

import "twothree/internal/invariants"

// frame represents one level of the path from the root to the current
// node: the node and the child position taken below it.
type frame[K any, V any] struct {
	n   *node[K, V]
	pos int
}

// pathIter walks the tree with an explicit stack instead of parent links.
// n and pos make up the current position; pos may sit one step outside
// [0, numKeys) at the root to mark the positions past either end.
type pathIter[K any, V any] struct {
	tree  *Tree[K, V]
	root  *node[K, V]
	n     *node[K, V]
	pos   int
	stack []frame[K, V]
}

func newPathIter[K any, V any](t *Tree[K, V], root *node[K, V]) pathIter[K, V] {
	height := 0
	for n := root; n != nil && !n.isLeaf(); n = n.children[0] {
		height++
	}
	return pathIter[K, V]{
		tree:  t,
		root:  root,
		stack: make([]frame[K, V], 0, height),
	}
}

func (i *pathIter[K, V]) reset() {
	i.stack = i.stack[:0]
	i.n = i.root
	i.pos = 0
}

func (i *pathIter[K, V]) descend(n *node[K, V], pos int) {
	i.stack = append(i.stack, frame[K, V]{n: n, pos: pos})
	i.n = n.children[pos]
	i.pos = 0
}

// ascend returns to the parent and the position it was left at.
func (i *pathIter[K, V]) ascend() {
	f := i.stack[len(i.stack)-1]
	i.stack = i.stack[:len(i.stack)-1]
	i.n = f.n
	i.pos = f.pos
}

// first pushes the leftmost spine.
func (i *pathIter[K, V]) first() {
	i.reset()
	if i.n == nil {
		return
	}
	for !i.n.isLeaf() {
		i.descend(i.n, 0)
	}
	i.pos = 0
}

// last pushes the rightmost spine.
func (i *pathIter[K, V]) last() {
	i.reset()
	if i.n == nil {
		return
	}
	for !i.n.isLeaf() {
		i.descend(i.n, int(i.n.numKeys))
	}
	i.pos = int(i.n.numKeys) - 1
}

// end positions past the largest key.
func (i *pathIter[K, V]) end() {
	i.reset()
	if i.n != nil {
		i.pos = int(i.n.numKeys)
	}
}

// rend positions before the smallest key.
func (i *pathIter[K, V]) rend() {
	i.reset()
	i.pos = -1
}

func (i *pathIter[K, V]) valid() bool {
	return i.n != nil && i.pos >= 0 && i.pos < int(i.n.numKeys)
}

// next positions the iterator at the pair immediately following its
// current position.
func (i *pathIter[K, V]) next() {
	if i.n == nil || (len(i.stack) == 0 && i.pos >= int(i.n.numKeys)) {
		return
	}

	if i.n.isLeaf() {
		i.pos++
		for len(i.stack) > 0 && i.pos >= int(i.n.numKeys) {
			i.ascend()
		}
		return
	}

	i.descend(i.n, i.pos+1)
	for !i.n.isLeaf() {
		i.descend(i.n, 0)
	}
	i.pos = 0
}

// prev positions the iterator at the pair immediately preceding its
// current position.
func (i *pathIter[K, V]) prev() {
	if i.n == nil || (len(i.stack) == 0 && i.pos < 0) {
		return
	}

	if i.n.isLeaf() {
		i.pos--
		for len(i.stack) > 0 && i.pos < 0 {
			i.ascend()
			i.pos--
		}
		return
	}

	i.descend(i.n, i.pos)
	for !i.n.isLeaf() {
		i.descend(i.n, int(i.n.numKeys))
	}
	i.pos = int(i.n.numKeys) - 1
}

func (i *pathIter[K, V]) seekForward(n *node[K, V], slot int) {
	for i.valid() && (i.n != n || i.pos != slot) {
		i.next()
	}
}

func (i *pathIter[K, V]) seekBackward(n *node[K, V], slot int) {
	for i.valid() && (i.n != n || i.pos != slot) {
		i.prev()
	}
}

func (i *pathIter[K, V]) pair() *Pair[K, V] {
	if invariants.Enabled && !i.valid() {
		panic("twothree: access through invalid cursor")
	}
	return &i.n.pairs[i.pos]
}

func (i *pathIter[K, V]) lite() Iterator[K, V] {
	if !i.valid() {
		return Iterator[K, V]{tree: i.tree}
	}
	return Iterator[K, V]{tree: i.tree, n: i.n, slot: i.pos}
}

// LNRIterator is an in-order cursor that keeps the path from the root to
// the current node on a stack.
type LNRIterator[K any, V any] struct {
	p pathIter[K, V]
}

// LNRBegin returns an in-order cursor at the smallest key.
func (t *Tree[K, V]) LNRBegin() *LNRIterator[K, V] {
	it := &LNRIterator[K, V]{p: newPathIter(t, t.root)}
	it.p.first()
	return it
}

// LNREnd returns the in-order cursor past the largest key.
func (t *Tree[K, V]) LNREnd() *LNRIterator[K, V] {
	it := &LNRIterator[K, V]{p: newPathIter(t, t.root)}
	it.p.end()
	return it
}

func (it *LNRIterator[K, V]) Valid() bool { return it.p.valid() }
func (it *LNRIterator[K, V]) Key() K      { return it.p.pair().Key }
func (it *LNRIterator[K, V]) Value() V    { return it.p.pair().Value }

// Depth returns the number of ancestors of the current node.
func (it *LNRIterator[K, V]) Depth() int { return len(it.p.stack) }

// Next moves to the next larger key and reports whether one exists.
func (it *LNRIterator[K, V]) Next() bool {
	it.p.next()
	return it.p.valid()
}

// Prev moves to the next smaller key and reports whether one exists. From
// LNREnd it moves to the largest key.
func (it *LNRIterator[K, V]) Prev() bool {
	it.p.prev()
	return it.p.valid()
}

// Lite returns the lightweight iterator at the same pair.
func (it *LNRIterator[K, V]) Lite() Iterator[K, V] { return it.p.lite() }

// Equal reports whether c addresses the same pair as it.
func (it *LNRIterator[K, V]) Equal(c Cursor[K, V]) bool {
	return samePosition(it.Lite(), c.Lite())
}

// RNLIterator is a reverse in-order cursor that keeps the path from the
// root to the current node on a stack.
type RNLIterator[K any, V any] struct {
	p pathIter[K, V]
}

// RNLBegin returns a reverse in-order cursor at the largest key.
func (t *Tree[K, V]) RNLBegin() *RNLIterator[K, V] {
	it := &RNLIterator[K, V]{p: newPathIter(t, t.root)}
	it.p.last()
	return it
}

// RNLEnd returns the reverse in-order cursor past the smallest key.
func (t *Tree[K, V]) RNLEnd() *RNLIterator[K, V] {
	it := &RNLIterator[K, V]{p: newPathIter(t, t.root)}
	it.p.rend()
	return it
}

func (it *RNLIterator[K, V]) Valid() bool { return it.p.valid() }
func (it *RNLIterator[K, V]) Key() K      { return it.p.pair().Key }
func (it *RNLIterator[K, V]) Value() V    { return it.p.pair().Value }

// Depth returns the number of ancestors of the current node.
func (it *RNLIterator[K, V]) Depth() int { return len(it.p.stack) }

// Next moves to the next smaller key and reports whether one exists.
func (it *RNLIterator[K, V]) Next() bool {
	it.p.prev()
	return it.p.valid()
}

// Prev moves to the next larger key and reports whether one exists. From
// RNLEnd it moves to the smallest key.
func (it *RNLIterator[K, V]) Prev() bool {
	it.p.next()
	return it.p.valid()
}

// Lite returns the lightweight iterator at the same pair.
func (it *RNLIterator[K, V]) Lite() Iterator[K, V] { return it.p.lite() }

// Equal reports whether c addresses the same pair as it.
func (it *RNLIterator[K, V]) Equal(c Cursor[K, V]) bool {
	return samePosition(it.Lite(), c.Lite())
}

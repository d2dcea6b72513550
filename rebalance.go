package twothree

// insertPairAt puts p at slot i of a node holding at most one key. When
// right is non-nil it becomes the child following slot i.
func (n *node[K, V]) insertPairAt(i int, p Pair[K, V], right *node[K, V]) {
	copy(n.pairs[i+1:n.numKeys+1], n.pairs[i:n.numKeys])
	n.pairs[i] = p
	if right != nil {
		copy(n.children[i+2:n.numKeys+2], n.children[i+1:n.numKeys+1])
		n.setChild(i+1, right)
	}
	n.numKeys++
}

// insertIntoLeaf adds p at slot i of leaf n, splitting upwards when n is
// already full.
func (t *Tree[K, V]) insertIntoLeaf(n *node[K, V], i int, p Pair[K, V]) {
	if n.numKeys < 2 {
		n.insertPairAt(i, p, nil)
		return
	}
	t.split(n, i, p, nil)
}

// split handles a full node n receiving p at slot i (and right as the child
// after it). The three pairs are divided into n (smallest), a new sibling
// (largest) and the median, which is pushed into the parent. A full parent
// is split in turn; splitting the root adds a level.
func (t *Tree[K, V]) split(n *node[K, V], i int, p Pair[K, V], right *node[K, V]) {
	for {
		var pairs [3]Pair[K, V]
		copy(pairs[:i], n.pairs[:i])
		pairs[i] = p
		copy(pairs[i+1:], n.pairs[i:])

		var kids [4]*node[K, V]
		copy(kids[:i+1], n.children[:i+1])
		kids[i+1] = right
		copy(kids[i+2:], n.children[i+1:])

		// Build the new nodes before touching n
		sibling := newLeaf(pairs[2])
		var root *node[K, V]
		if n.parent == nil {
			root = newLeaf(pairs[1])
		}

		n.pairs = [2]Pair[K, V]{pairs[0]}
		n.numKeys = 1
		n.children = [3]*node[K, V]{}
		if kids[0] != nil {
			n.setChild(0, kids[0])
			n.setChild(1, kids[1])
			sibling.setChild(0, kids[2])
			sibling.setChild(1, kids[3])
		}

		if root != nil {
			root.setChild(0, n)
			root.setChild(1, sibling)
			t.root = root
			return
		}

		parent := n.parent
		pos := parent.childIndex(n)
		if parent.numKeys < 2 {
			parent.insertPairAt(pos, pairs[1], sibling)
			return
		}
		n, i, p, right = parent, pos, pairs[1], sibling
	}
}

// removeSlot deletes the pair at slot i of n. An internal pair is first
// replaced by its in-order successor, which always lives in a leaf.
func (t *Tree[K, V]) removeSlot(n *node[K, V], i int) {
	if !n.isLeaf() {
		leaf := n.children[i+1].leftmost()
		n.pairs[i] = leaf.pairs[0]
		n, i = leaf, 0
	}
	n.removePairAt(i, -1)
	t.size--
	if n.numKeys == 0 {
		t.fixUnderflow(n)
	}
}

// fixUnderflow repairs h, a node left without keys (and with at most one
// child). A sibling holding two keys lends one through the parent;
// otherwise h is merged with a sibling and the parent separator, which may
// empty the parent and repeat one level up.
func (t *Tree[K, V]) fixUnderflow(h *node[K, V]) {
	for {
		parent := h.parent
		if parent == nil {
			// Root emptied: its only child, if any, takes over
			t.root = h.children[0]
			if t.root != nil {
				t.root.parent = nil
			}
			return
		}

		idx := parent.childIndex(h)

		// Try to borrow from left sibling
		if idx > 0 && parent.children[idx-1].numKeys == 2 {
			borrowFromLeft(h, parent.children[idx-1], parent, idx-1)
			return
		}

		// Try to borrow from right sibling
		if idx < int(parent.numKeys) && parent.children[idx+1].numKeys == 2 {
			borrowFromRight(h, parent.children[idx+1], parent, idx)
			return
		}

		// Merge with a sibling
		if idx > 0 {
			mergeIntoLeft(h, parent.children[idx-1], parent, idx-1)
		} else {
			mergeIntoRight(h, parent.children[1], parent)
		}
		if parent.numKeys > 0 {
			return
		}
		h = parent
	}
}

// borrowFromLeft rotates the last pair of left through separator sep of
// parent into the empty node h.
func borrowFromLeft[K any, V any](h, left, parent *node[K, V], sep int) {
	h.pairs[0] = parent.pairs[sep]
	h.numKeys = 1
	parent.pairs[sep] = left.pairs[1]
	left.pairs[1] = Pair[K, V]{}

	// Move the last child pointer too
	if !left.isLeaf() {
		h.setChild(1, h.children[0])
		h.setChild(0, left.children[2])
		left.children[2] = nil
	}
	left.numKeys = 1
}

// borrowFromRight rotates the first pair of right through separator sep of
// parent into the empty node h.
func borrowFromRight[K any, V any](h, right, parent *node[K, V], sep int) {
	h.pairs[0] = parent.pairs[sep]
	h.numKeys = 1
	parent.pairs[sep] = right.pairs[0]

	// Move the first child pointer too
	if right.isLeaf() {
		right.removePairAt(0, -1)
		return
	}
	h.setChild(1, right.children[0])
	right.removePairAt(0, 0)
}

// mergeIntoLeft folds h and separator sep of parent into left, which holds
// a single key, then drops h from parent.
func mergeIntoLeft[K any, V any](h, left, parent *node[K, V], sep int) {
	left.pairs[1] = parent.pairs[sep]
	left.numKeys = 2
	if !left.isLeaf() {
		left.setChild(2, h.children[0])
	}
	parent.removePairAt(sep, sep+1)
	h.parent = nil
	h.children[0] = nil
}

// mergeIntoRight folds h, the first child of parent, and the first
// separator into right, which holds a single key, then drops h from parent.
func mergeIntoRight[K any, V any](h, right, parent *node[K, V]) {
	right.pairs[1] = right.pairs[0]
	right.pairs[0] = parent.pairs[0]
	right.numKeys = 2
	if !right.isLeaf() {
		right.children[2] = right.children[1]
		right.children[1] = right.children[0]
		right.setChild(0, h.children[0])
	}
	parent.removePairAt(0, 0)
	h.parent = nil
	h.children[0] = nil
}

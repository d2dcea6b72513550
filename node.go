package twothree

// Pair is a single key/value entry stored in the tree.
type Pair[K any, V any] struct {
	Key   K
	Value V
}

// kind describes a node by its key count. It is derived from the node
// contents and never stored, so a node cannot disagree with its own tag.
type kind uint8

const (
	kindEmpty  kind = iota // 0 keys, only during rebalancing
	kindDouble             // 1 key, 2 children when internal
	kindTriple             // 2 keys, 3 children when internal
)

func (k kind) String() string {
	switch k {
	case kindEmpty:
		return "empty"
	case kindDouble:
		return "double"
	case kindTriple:
		return "triple"
	}
	return "unknown"
}

// node holds one or two pairs and, when internal, numKeys+1 children.
// Children are owned by the node; parent is a back-reference only used for
// walking up.
type node[K any, V any] struct {
	pairs    [2]Pair[K, V]
	numKeys  uint8
	children [3]*node[K, V]
	parent   *node[K, V]
}

func newLeaf[K any, V any](p Pair[K, V]) *node[K, V] {
	n := &node[K, V]{numKeys: 1}
	n.pairs[0] = p
	return n
}

func (n *node[K, V]) kind() kind {
	return kind(n.numKeys)
}

func (n *node[K, V]) isLeaf() bool {
	return n.children[0] == nil
}

// childIndex returns the position of child c among n's children.
func (n *node[K, V]) childIndex(c *node[K, V]) int {
	for i := 0; i <= int(n.numKeys); i++ {
		if n.children[i] == c {
			return i
		}
	}
	return -1
}

// search compares key against at most two keys. It returns the slot of an
// equal key, or the index of the child to descend into.
func (n *node[K, V]) search(cmp func(a, b K) int, key K) (int, bool) {
	for i := 0; i < int(n.numKeys); i++ {
		c := cmp(key, n.pairs[i].Key)
		if c == 0 {
			return i, true
		}
		if c < 0 {
			return i, false
		}
	}
	return int(n.numKeys), false
}

// setChild links c at position i and points its parent back at n.
func (n *node[K, V]) setChild(i int, c *node[K, V]) {
	n.children[i] = c
	if c != nil {
		c.parent = n
	}
}

// leftmost descends the first child until a leaf is reached.
func (n *node[K, V]) leftmost() *node[K, V] {
	for !n.isLeaf() {
		n = n.children[0]
	}
	return n
}

// rightmost descends the last child until a leaf is reached.
func (n *node[K, V]) rightmost() *node[K, V] {
	for !n.isLeaf() {
		n = n.children[n.numKeys]
	}
	return n
}

// removePairAt drops the pair at slot i and the child at position c. Pass
// c < 0 for leaves.
func (n *node[K, V]) removePairAt(i, c int) {
	var zero Pair[K, V]
	copy(n.pairs[i:n.numKeys], n.pairs[i+1:n.numKeys])
	n.pairs[n.numKeys-1] = zero
	if c >= 0 {
		copy(n.children[c:n.numKeys+1], n.children[c+1:n.numKeys+1])
		n.children[n.numKeys] = nil
	}
	n.numKeys--
}

// clone copies the subtree rooted at n, keeping its shape.
func (n *node[K, V]) clone(parent *node[K, V]) *node[K, V] {
	c := &node[K, V]{
		pairs:   n.pairs,
		numKeys: n.numKeys,
		parent:  parent,
	}
	if !n.isLeaf() {
		for i := 0; i <= int(n.numKeys); i++ {
			c.children[i] = n.children[i].clone(c)
		}
	}
	return c
}

package twothree

import "github.com/cockroachdb/errors"

// Verify checks the structural invariants of the tree: key counts match
// child counts, keys are strictly ordered within and across nodes, parent
// links point back at the owning node, every leaf sits at the same depth
// and the size counter matches the number of stored keys. The returned
// error wraps ErrInvariant.
func (t *Tree[K, V]) Verify() error {
	if t.root == nil {
		if t.size != 0 {
			return errors.Wrapf(ErrInvariant, "empty tree reports size %d", t.size)
		}
		return nil
	}
	if t.root.parent != nil {
		return errors.Wrap(ErrInvariant, "root has a parent")
	}

	v := verifier[K, V]{cmp: t.cmp, leafDepth: -1}
	if err := v.check(t.root, 0, nil, nil); err != nil {
		return err
	}
	if v.count != t.size {
		return errors.Wrapf(ErrInvariant, "size %d but %d keys reachable", t.size, v.count)
	}
	return nil
}

type verifier[K any, V any] struct {
	cmp       func(a, b K) int
	leafDepth int
	count     int
}

// check verifies the subtree at n, whose keys must lie strictly between lo
// and hi when those are set.
func (v *verifier[K, V]) check(n *node[K, V], depth int, lo, hi *K) error {
	if n.kind() != kindDouble && n.kind() != kindTriple {
		return errors.Wrapf(ErrInvariant, "%s node at depth %d", n.kind(), depth)
	}
	v.count += int(n.numKeys)

	for i := 0; i < int(n.numKeys); i++ {
		k := n.pairs[i].Key
		if lo != nil && v.cmp(k, *lo) <= 0 {
			return errors.Wrapf(ErrInvariant, "key %v at depth %d not above lower bound %v", k, depth, *lo)
		}
		if hi != nil && v.cmp(k, *hi) >= 0 {
			return errors.Wrapf(ErrInvariant, "key %v at depth %d not below upper bound %v", k, depth, *hi)
		}
		if i > 0 && v.cmp(n.pairs[i-1].Key, k) >= 0 {
			return errors.Wrapf(ErrInvariant, "keys %v and %v out of order", n.pairs[i-1].Key, k)
		}
	}

	// Children beyond the arity must be unset
	for c := int(n.numKeys) + 1; c < len(n.children); c++ {
		if n.children[c] != nil {
			return errors.Wrapf(ErrInvariant, "%s node has child at %d", n.kind(), c)
		}
	}

	if n.isLeaf() {
		for c := 1; c <= int(n.numKeys); c++ {
			if n.children[c] != nil {
				return errors.Wrapf(ErrInvariant, "leaf has child at %d", c)
			}
		}
		if v.leafDepth < 0 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return errors.Wrapf(ErrInvariant, "leaf at depth %d, expected %d", depth, v.leafDepth)
		}
		return nil
	}

	for c := 0; c <= int(n.numKeys); c++ {
		child := n.children[c]
		if child == nil {
			return errors.Wrapf(ErrInvariant, "%s node missing child %d", n.kind(), c)
		}
		if child.parent != n {
			return errors.Wrapf(ErrInvariant, "child %d at depth %d has wrong parent", c, depth+1)
		}
		clo, chi := lo, hi
		if c > 0 {
			clo = &n.pairs[c-1].Key
		}
		if c < int(n.numKeys) {
			chi = &n.pairs[c].Key
		}
		if err := v.check(child, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}

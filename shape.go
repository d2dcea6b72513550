package twothree

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Height returns the number of levels, 0 for an empty tree.
func (t *Tree[K, V]) Height() int {
	h := 0
	for n := t.root; n != nil; n = n.children[0] {
		h++
	}
	return h
}

// Digest fingerprints the layout of the tree. Nodes are visited in level
// order and each contributes its key count and its keys formatted with %v;
// values do not contribute. Trees built by the same insertion and erasure
// sequence have equal digests.
func (t *Tree[K, V]) Digest() uint64 {
	d := xxhash.New()
	var buf []byte
	for _, n := range levelOrder(t.root) {
		buf = append(buf[:0], byte(n.numKeys))
		for i := 0; i < int(n.numKeys); i++ {
			buf = fmt.Appendf(buf, "%v\x00", n.pairs[i].Key)
		}
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}

// String renders the tree one level per line, e.g.
//
//	[8]
//	[4] [12]
//	[2] [6] [10] [14]
func (t *Tree[K, V]) String() string {
	if t.root == nil {
		return "[]"
	}
	var b strings.Builder
	level := []*node[K, V]{t.root}
	for len(level) > 0 {
		var next []*node[K, V]
		for i, n := range level {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('[')
			for s := 0; s < int(n.numKeys); s++ {
				if s > 0 {
					b.WriteByte(' ')
				}
				fmt.Fprintf(&b, "%v", n.pairs[s].Key)
			}
			b.WriteByte(']')
			if !n.isLeaf() {
				next = append(next, n.children[:n.numKeys+1]...)
			}
		}
		b.WriteByte('\n')
		level = next
	}
	return strings.TrimSuffix(b.String(), "\n")
}

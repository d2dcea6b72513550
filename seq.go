package twothree

import (
	"cmp"
	"iter"
)

// Collect builds a naturally ordered tree from seq. Later duplicates of a
// key are ignored.
func Collect[K cmp.Ordered, V any](seq iter.Seq2[K, V], opts ...Option) *Tree[K, V] {
	t := NewOrdered[K, V](opts...)
	t.InsertSeq(seq)
	return t
}

// InsertSeq inserts every pair of seq and returns how many keys were added.
func (t *Tree[K, V]) InsertSeq(seq iter.Seq2[K, V]) int {
	added := 0
	for k, v := range seq {
		if _, ok := t.Insert(k, v); ok {
			added++
		}
	}
	return added
}

// All yields pairs in ascending key order.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := t.Begin(); it.Valid(); it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Backward yields pairs in descending key order.
func (t *Tree[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := t.RNLBegin(); it.Valid(); it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Keys yields keys in ascending order.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields values in ascending key order.
func (t *Tree[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range t.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// LevelOrder yields pairs breadth-first over a snapshot taken when the
// iteration starts.
func (t *Tree[K, V]) LevelOrder() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := t.BFSBegin(); it.Valid(); it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Range yields pairs with from <= key < to in ascending order.
func (t *Tree[K, V]) Range(from, to K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := t.LowerBound(from); it.Valid() && t.cmp(it.Key(), to) < 0; it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

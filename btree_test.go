package twothree

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioKeys = []int{12, 1, 13, 14, 15, 6, 9, 4, 5, 7, 2, 3, 8, 10, 11}

// setup builds a verifying int tree holding keys, each mapped to "v<key>".
func setup(t *testing.T, keys ...int) *Tree[int, string] {
	t.Helper()
	tree := NewOrdered[int, string](WithVerify())
	for _, k := range keys {
		_, ok := tree.Insert(k, fmt.Sprintf("v%d", k))
		require.True(t, ok, "key %d inserted twice", k)
	}
	return tree
}

func span(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// Basic Operations Tests

func TestTreeBasicOps(t *testing.T) {
	t.Parallel()

	tree := NewOrdered[string, int]()
	assert.True(t, tree.Empty())
	assert.Equal(t, 0, tree.Height())

	it, ok := tree.Insert("b", 2)
	require.True(t, ok)
	assert.Equal(t, "b", it.Key())
	assert.Equal(t, 2, it.Value())

	tree.Insert("a", 1)
	tree.Insert("c", 3)
	assert.Equal(t, 3, tree.Len())
	assert.False(t, tree.Empty())

	v, err := tree.At("a")
	assert.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = tree.At("nonexistent")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.Equal(t, 1, tree.Count("c"))
	assert.Equal(t, 0, tree.Count("d"))
	assert.True(t, tree.Contains("b"))
	assert.NoError(t, tree.Verify())
}

func TestScenarioInsertThenErase(t *testing.T) {
	t.Parallel()

	tree := setup(t, scenarioKeys...)
	assert.Equal(t, span(1, 15), slices.Collect(tree.Keys()))
	assert.Equal(t, strings.Join([]string{
		"[8]",
		"[4] [12]",
		"[2] [6] [10] [14]",
		"[1] [3] [5] [7] [9] [11] [13] [15]",
	}, "\n"), tree.String())

	assert.Equal(t, 1, tree.Erase(10))
	assert.Equal(t, strings.Join([]string{
		"[4 8]",
		"[2] [6] [12 14]",
		"[1] [3] [5] [7] [9 11] [13] [15]",
	}, "\n"), tree.String())

	assert.Equal(t, 1, tree.Erase(1))
	assert.Equal(t, 13, tree.Len())
	assert.True(t, tree.Find(10).Equal(tree.End()))
	assert.False(t, tree.Find(1).Valid())
	assert.Equal(t, strings.Join([]string{
		"[8]",
		"[4 6] [12 14]",
		"[2 3] [5] [7] [9 11] [13] [15]",
	}, "\n"), tree.String())
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9, 11, 12, 13, 14, 15}, slices.Collect(tree.Keys()))
}

func TestInsertExistingKeepsValue(t *testing.T) {
	t.Parallel()

	tree := setup(t, 1, 2, 3)
	it, ok := tree.Insert(2, "other")
	assert.False(t, ok)
	assert.Equal(t, 2, it.Key())
	assert.Equal(t, "v2", it.Value())
	assert.Equal(t, 3, tree.Len())
}

// Node Splitting Tests

func TestInsertSplitShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		keys []int
		want []string
	}{
		{
			name: "single_leaf",
			keys: []int{2, 1},
			want: []string{"[1 2]"},
		},
		{
			name: "root_split",
			keys: []int{1, 2, 3},
			want: []string{"[2]", "[1] [3]"},
		},
		{
			name: "ascending_seven",
			keys: span(1, 7),
			want: []string{"[4]", "[2] [6]", "[1] [3] [5] [7]"},
		},
		{
			name: "ascending_ten",
			keys: span(1, 10),
			want: []string{"[4]", "[2] [6 8]", "[1] [3] [5] [7] [9 10]"},
		},
		{
			name: "descending_ten",
			keys: []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
			want: []string{"[7]", "[3 5] [9]", "[1 2] [4] [6] [8] [10]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree := setup(t, tt.keys...)
			assert.Equal(t, strings.Join(tt.want, "\n"), tree.String())
			assert.Equal(t, len(tt.want), tree.Height())
		})
	}
}

func TestInsertReturnsIteratorAfterSplit(t *testing.T) {
	t.Parallel()

	tree := setup(t, 1, 2)
	// Inserting 3 splits the root and moves 2 upwards
	it, ok := tree.Insert(3, "v3")
	require.True(t, ok)
	assert.Equal(t, 3, it.Key())
	assert.True(t, it.Equal(tree.Find(3)))
}

func TestGetOrInsert(t *testing.T) {
	t.Parallel()

	counts := NewOrdered[string, int](WithVerify())
	for _, w := range strings.Fields("the cat saw the dog and the bird") {
		*counts.GetOrInsert(w)++
	}

	assert.Equal(t, 6, counts.Len())
	v, err := counts.At("the")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	// Existing keys are never reset
	p := counts.GetOrInsert("cat")
	assert.Equal(t, 1, *p)
	assert.Equal(t, 6, counts.Len())
}

func TestEmplaceBuildsValueOnlyWhenAbsent(t *testing.T) {
	t.Parallel()

	tree := setup(t, 5)
	calls := 0
	mk := func() string {
		calls++
		return "built"
	}

	_, ok := tree.Emplace(5, mk)
	assert.False(t, ok)
	assert.Equal(t, 0, calls)

	it, ok := tree.Emplace(6, mk)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "built", it.Value())
}

func TestInsertPairsAndNewFrom(t *testing.T) {
	t.Parallel()

	tree := NewFrom(func(a, b string) int { return strings.Compare(a, b) },
		Pair[string, int]{"b", 2},
		Pair[string, int]{"a", 1},
		Pair[string, int]{"b", 20},
	)
	assert.Equal(t, 2, tree.Len())
	v, _ := tree.Get("b")
	assert.Equal(t, 2, v)

	added := tree.InsertPairs(Pair[string, int]{"c", 3}, Pair[string, int]{"a", 10})
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"a", "b", "c"}, slices.Collect(tree.Keys()))
}

func TestInsertHint(t *testing.T) {
	t.Parallel()

	tree := setup(t, 1, 3, 5)
	it := tree.InsertHint(tree.Find(5), 4, "v4")
	assert.Equal(t, 4, it.Key())
	it = tree.InsertHint(tree.End(), 6, "v6")
	assert.Equal(t, 6, it.Key())
	// Existing keys are returned untouched
	it = tree.InsertHint(tree.Begin(), 3, "x")
	assert.Equal(t, "v3", it.Value())
	assert.Equal(t, []int{1, 3, 4, 5, 6}, slices.Collect(tree.Keys()))
}

// Deletion Tests

func TestEraseAbsentKey(t *testing.T) {
	t.Parallel()

	tree := setup(t, 1, 2, 3)
	assert.Equal(t, 0, tree.Erase(42))
	assert.Equal(t, 3, tree.Len())

	empty := NewOrdered[int, int]()
	assert.Equal(t, 0, empty.Erase(1))
}

func TestEraseRebalancing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		keys  []int
		erase int
		want  []string
	}{
		{
			name:  "leaf_with_two_keys",
			keys:  []int{1, 2},
			erase: 1,
			want:  []string{"[2]"},
		},
		{
			name:  "last_key",
			keys:  []int{1},
			erase: 1,
			want:  []string{"[]"},
		},
		{
			name:  "borrow_from_right",
			keys:  []int{1, 2, 3, 4},
			erase: 1,
			want:  []string{"[3]", "[2] [4]"},
		},
		{
			name:  "borrow_from_left",
			keys:  []int{2, 3, 4, 1},
			erase: 4,
			want:  []string{"[2]", "[1] [3]"},
		},
		{
			name:  "merge_shrinks_root",
			keys:  []int{1, 2, 3},
			erase: 1,
			want:  []string{"[2 3]"},
		},
		{
			name:  "internal_key_uses_successor",
			keys:  []int{1, 2, 3, 4},
			erase: 2,
			want:  []string{"[3]", "[1] [4]"},
		},
		{
			name:  "cascading_merge",
			keys:  span(1, 7),
			erase: 1,
			want:  []string{"[4 6]", "[2 3] [5] [7]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree := setup(t, tt.keys...)
			assert.Equal(t, 1, tree.Erase(tt.erase))
			assert.Equal(t, strings.Join(tt.want, "\n"), tree.String())
			assert.Equal(t, len(tt.keys)-1, tree.Len())
			assert.False(t, tree.Contains(tt.erase))
		})
	}
}

func TestEraseAt(t *testing.T) {
	t.Parallel()

	tree := setup(t, scenarioKeys...)
	next := tree.EraseAt(tree.Find(8))
	require.True(t, next.Valid())
	assert.Equal(t, 9, next.Key())
	assert.Equal(t, 14, tree.Len())

	next = tree.EraseAt(tree.Last())
	assert.True(t, next.Equal(tree.End()))
	assert.Equal(t, 13, tree.Len())
}

func TestEraseRange(t *testing.T) {
	t.Parallel()

	tree := setup(t, span(1, 20)...)
	it := tree.EraseRange(tree.Find(5), tree.Find(15))
	require.True(t, it.Valid())
	assert.Equal(t, 15, it.Key())
	assert.Equal(t, []int{1, 2, 3, 4, 15, 16, 17, 18, 19, 20}, slices.Collect(tree.Keys()))

	it = tree.EraseRange(tree.Find(16), tree.End())
	assert.False(t, it.Valid())
	assert.Equal(t, []int{1, 2, 3, 4, 15}, slices.Collect(tree.Keys()))

	// Empty range is a no-op
	it = tree.EraseRange(tree.Find(3), tree.Find(3))
	assert.Equal(t, 3, it.Key())
	assert.Equal(t, 5, tree.Len())
}

func TestEraseEverythingRandomOrder(t *testing.T) {
	t.Parallel()

	keys := rand.New(rand.NewPCG(1, 2)).Perm(500)
	tree := setup(t, keys...)

	order := rand.New(rand.NewPCG(3, 4)).Perm(500)
	for i, k := range order {
		require.Equal(t, 1, tree.Erase(k), "erase %d", k)
		require.Equal(t, 500-i-1, tree.Len())
		require.True(t, tree.Find(k).Equal(tree.End()))
	}
	assert.True(t, tree.Empty())
	assert.Equal(t, "[]", tree.String())
}

func TestRandomMutationsKeepInvariants(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(42, 7))
	tree := NewOrdered[int, int]()
	ref := map[int]int{}

	for step := 0; step < 5000; step++ {
		k := r.IntN(300)
		if r.IntN(100) < 55 {
			_, ok := tree.Insert(k, step)
			_, had := ref[k]
			require.Equal(t, !had, ok)
			if !had {
				ref[k] = step
			}
		} else {
			_, had := ref[k]
			want := 0
			if had {
				want = 1
			}
			require.Equal(t, want, tree.Erase(k))
			delete(ref, k)
		}

		require.NoError(t, tree.Verify(), "step %d", step)
		require.Equal(t, len(ref), tree.Len())
	}

	want := make([]int, 0, len(ref))
	for k := range ref {
		want = append(want, k)
	}
	slices.Sort(want)
	assert.Equal(t, want, slices.Collect(tree.Keys()))
	for k, v := range ref {
		got, err := tree.At(k)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

// Bounds Tests

func TestBounds(t *testing.T) {
	t.Parallel()

	tree := setup(t, 10, 20, 30, 40, 50, 60, 70)

	tests := []struct {
		key       int
		wantLower int // 0 means End
		wantUpper int
	}{
		{key: 5, wantLower: 10, wantUpper: 10},
		{key: 10, wantLower: 10, wantUpper: 20},
		{key: 35, wantLower: 40, wantUpper: 40},
		{key: 40, wantLower: 40, wantUpper: 50},
		{key: 69, wantLower: 70, wantUpper: 70},
		{key: 70, wantLower: 70, wantUpper: 0},
		{key: 99, wantLower: 0, wantUpper: 0},
	}

	keyOrZero := func(it Iterator[int, string]) int {
		if !it.Valid() {
			return 0
		}
		return it.Key()
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.key), func(t *testing.T) {
			lo, hi := tree.EqualRange(tt.key)
			assert.Equal(t, tt.wantLower, keyOrZero(lo))
			assert.Equal(t, tt.wantUpper, keyOrZero(hi))
			assert.True(t, lo.Equal(tree.LowerBound(tt.key)))
			assert.True(t, hi.Equal(tree.UpperBound(tt.key)))
		})
	}
}

func TestBoundsMatchLinearScan(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(9, 9))
	tree := NewOrdered[int, struct{}]()
	for i := 0; i < 300; i++ {
		tree.Insert(r.IntN(1000), struct{}{})
	}

	linear := func(key int, strict bool) Iterator[int, struct{}] {
		it := tree.Begin()
		for it.Valid() && (it.Key() < key || (strict && it.Key() == key)) {
			it.Next()
		}
		return it
	}

	for key := -1; key <= 1001; key++ {
		require.True(t, tree.LowerBound(key).Equal(linear(key, false)), "lower %d", key)
		require.True(t, tree.UpperBound(key).Equal(linear(key, true)), "upper %d", key)
	}
}

// Whole-tree Tests

func TestClearTwice(t *testing.T) {
	t.Parallel()

	tree := setup(t, span(1, 50)...)
	tree.Clear()
	assert.True(t, tree.Empty())
	assert.False(t, tree.Begin().Valid())
	tree.Clear()
	assert.True(t, tree.Empty())
	assert.NoError(t, tree.Verify())

	// Still usable
	tree.Insert(1, "one")
	assert.Equal(t, 1, tree.Len())
}

func TestSwap(t *testing.T) {
	t.Parallel()

	a := setup(t, 1, 2, 3)
	b := NewOrdered[int, string]()
	b.Insert(-1, "minus")

	a.Swap(b)
	assert.Equal(t, []int{-1}, slices.Collect(a.Keys()))
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(b.Keys()))
	assert.NoError(t, a.Verify())
	assert.NoError(t, b.Verify())
}

func TestSwapExchangesComparator(t *testing.T) {
	t.Parallel()

	asc := NewOrdered[int, int]()
	desc := New[int, int](func(a, b int) int { return b - a })
	asc.InsertPairs(Pair[int, int]{1, 1}, Pair[int, int]{2, 2})

	asc.Swap(desc)
	desc.Insert(3, 3)
	asc.InsertPairs(Pair[int, int]{1, 1}, Pair[int, int]{2, 2})
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(desc.Keys()))
	assert.Equal(t, []int{2, 1}, slices.Collect(asc.Keys()))
}

func TestCloneKeepsShapeAndIsIndependent(t *testing.T) {
	t.Parallel()

	tree := setup(t, scenarioKeys...)
	tree.Erase(10)
	clone := tree.Clone()

	assert.Equal(t, tree.String(), clone.String())
	assert.Equal(t, tree.Digest(), clone.Digest())
	assert.NoError(t, clone.Verify())

	clone.Erase(8)
	clone.Find(9).SetValue("changed")
	assert.True(t, tree.Contains(8))
	v, _ := tree.Get(9)
	assert.Equal(t, "v9", v)
	assert.NotEqual(t, tree.Digest(), clone.Digest())
}

func TestMove(t *testing.T) {
	t.Parallel()

	tree := setup(t, 1, 2, 3, 4)
	it := tree.Find(3)

	moved := tree.Move()
	assert.True(t, tree.Empty())
	assert.NoError(t, tree.Verify())
	assert.Equal(t, 4, moved.Len())
	assert.Equal(t, []int{1, 2, 3, 4}, slices.Collect(moved.Keys()))

	// Iterators follow the nodes
	assert.True(t, it.Equal(moved.Find(3)))
}

func TestNilComparatorPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { New[int, int](nil) })
}

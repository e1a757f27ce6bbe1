package virtual

import "math/bits"

// fenwick is a binary indexed tree of item heights. It answers prefix sums
// and "which item contains this offset" in O(log n).
type fenwick struct {
	tree []float64 // 1-based; tree[0] is unused
}

// newFenwick builds the tree in O(n).
func newFenwick(values []float64) *fenwick {
	tree := make([]float64, len(values)+1)
	copy(tree[1:], values)
	for i := 1; i < len(tree); i++ {
		if parent := i + (i & -i); parent < len(tree) {
			tree[parent] += tree[i]
		}
	}
	return &fenwick{tree: tree}
}

func (f *fenwick) len() int {
	return len(f.tree) - 1
}

// add adjusts the value at index i (0-based) by delta.
func (f *fenwick) add(i int, delta float64) {
	for pos := i + 1; pos < len(f.tree); pos += pos & -pos {
		f.tree[pos] += delta
	}
}

// prefix returns the sum of values [0, i).
func (f *fenwick) prefix(i int) float64 {
	if i > f.len() {
		i = f.len()
	}
	sum := 0.0
	for pos := i; pos > 0; pos -= pos & -pos {
		sum += f.tree[pos]
	}
	return sum
}

// search returns the smallest index i whose running sum prefix(i+1) exceeds
// target, or len() when no such index exists. Values must be non-negative.
func (f *fenwick) search(target float64) int {
	n := f.len()
	if n == 0 || target < 0 {
		return 0
	}
	pos := 0
	remaining := target
	for step := 1 << (bits.Len(uint(n)) - 1); step > 0; step >>= 1 {
		next := pos + step
		if next <= n && f.tree[next] <= remaining {
			pos = next
			remaining -= f.tree[next]
		}
	}
	return pos
}

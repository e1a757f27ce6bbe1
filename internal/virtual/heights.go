package virtual

import (
	"math"
	"sort"
)

// HeightModel answers how tall an item is, and how tall the whole list is,
// without every item having been rendered.
//
// In fixed-height mode every item has the configured height and the
// measurement cache is never consulted. In variable-height mode the model
// keeps a sparse index -> measured height cache and falls back to the
// configured estimate for items that were never measured. Effective heights
// are mirrored into a Fenwick tree so prefix sums stay O(log n); the tree is
// rebuilt lazily after the item count changes.
type HeightModel struct {
	fixed    float64
	estimate float64
	count    int

	cache map[int]float64
	sums  *fenwick
	dirty bool
}

// NewHeightModel returns a model for count items.
func NewHeightModel(cfg Config, count int) (*HeightModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HeightModel{
		fixed:    cfg.FixedItemHeight,
		estimate: cfg.EstimatedItemHeight,
		count:    max(0, count),
		cache:    map[int]float64{},
		dirty:    true,
	}, nil
}

// Fixed reports whether the model is in fixed-height mode.
func (h *HeightModel) Fixed() bool {
	return h.fixed > 0
}

// Count returns the number of items the model covers.
func (h *HeightModel) Count() int {
	return h.count
}

// Estimate returns the configured fallback height.
func (h *HeightModel) Estimate() float64 {
	return h.estimate
}

// HeightOf returns the height of item i, or 0 when i is out of range.
func (h *HeightModel) HeightOf(i int) float64 {
	if i < 0 || i >= h.count {
		return 0
	}
	if h.Fixed() {
		return h.fixed
	}
	if measured, ok := h.cache[i]; ok {
		return measured
	}
	return h.estimate
}

// TotalExtent returns the summed height of all items.
func (h *HeightModel) TotalExtent() float64 {
	if h.Fixed() {
		return float64(h.count) * h.fixed
	}
	return h.index().prefix(h.count)
}

// OffsetOf returns the summed height of all items before i. i is clamped to
// [0, Count()].
func (h *HeightModel) OffsetOf(i int) float64 {
	i = min(max(i, 0), h.count)
	if h.Fixed() {
		return float64(i) * h.fixed
	}
	return h.index().prefix(i)
}

// indexAt returns the first item whose bottom edge lies past offset. The
// result is in [0, Count()]; Count() means offset is past the last item.
func (h *HeightModel) indexAt(offset float64) int {
	if offset < 0 {
		return 0
	}
	if h.Fixed() {
		i := math.Floor(offset / h.fixed)
		if i >= float64(h.count) {
			return h.count
		}
		return int(i)
	}
	return h.index().search(offset)
}

// Record stores a measured height for item i and reports whether the change
// is large enough to warrant recomputing the window.
//
// Zero, negative and non-finite heights mean the item is not measurable yet
// and are ignored, as are stale indices and every call in fixed-height mode.
func (h *HeightModel) Record(i int, measured float64) bool {
	if h.Fixed() || i < 0 || i >= h.count {
		return false
	}
	if !(measured > 0) || math.IsInf(measured, 0) {
		return false
	}
	prev, cached := h.cache[i]
	if !cached {
		prev = h.estimate
	}
	changed := math.Abs(measured-prev) > Epsilon
	if cached && !changed {
		return false
	}
	h.cache[i] = measured
	if !h.dirty {
		h.sums.add(i, measured-prev)
	}
	return changed
}

// Measured reports whether item i has a cached measurement.
func (h *HeightModel) Measured(i int) bool {
	if h.Fixed() {
		return i >= 0 && i < h.count
	}
	_, ok := h.cache[i]
	return ok
}

// Forget drops the measurement for item i so it falls back to the estimate.
func (h *HeightModel) Forget(i int) bool {
	prev, ok := h.cache[i]
	if !ok {
		return false
	}
	delete(h.cache, i)
	if !h.dirty {
		h.sums.add(i, h.estimate-prev)
	}
	return math.Abs(h.estimate-prev) > Epsilon
}

// SetCount resizes the model. Measurements for indices past the new end are
// dropped.
func (h *HeightModel) SetCount(n int) {
	n = max(0, n)
	if n == h.count {
		return
	}
	if n < h.count {
		for i := range h.cache {
			if i >= n {
				delete(h.cache, i)
			}
		}
	}
	h.count = n
	h.dirty = true
}

// Reset drops every measurement.
func (h *HeightModel) Reset() {
	clear(h.cache)
	h.dirty = true
}

// MeasuredIndices returns the cached indices in ascending order.
func (h *HeightModel) MeasuredIndices() []int {
	out := make([]int, 0, len(h.cache))
	for i := range h.cache {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (h *HeightModel) index() *fenwick {
	if !h.dirty && h.sums != nil {
		return h.sums
	}
	values := make([]float64, h.count)
	for i := range values {
		values[i] = h.estimate
	}
	for i, v := range h.cache {
		values[i] = v
	}
	h.sums = newFenwick(values)
	h.dirty = false
	return h.sums
}

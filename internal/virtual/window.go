package virtual

import "math"

// WindowState is the render window for one scroll position.
//
// When the list is non-empty and the viewport has height,
// 0 <= StartIndex <= EndIndex < item count. Otherwise both indices are -1.
type WindowState struct {
	ScrollOffset   float64
	ViewportHeight float64
	StartIndex     int
	EndIndex       int
	// OffsetBeforeStart is the summed height of every item before StartIndex.
	OffsetBeforeStart float64
	// TotalExtent is the summed height of every item, rendered or not.
	TotalExtent float64
}

// Empty reports whether the window renders nothing.
func (w WindowState) Empty() bool {
	return w.StartIndex < 0 || w.EndIndex < w.StartIndex
}

// Len returns the number of items in the window.
func (w WindowState) Len() int {
	if w.Empty() {
		return 0
	}
	return w.EndIndex - w.StartIndex + 1
}

// Remaining returns the distance between the bottom of the viewport and the
// bottom of the list.
func (w WindowState) Remaining() float64 {
	return w.TotalExtent - w.ScrollOffset - w.ViewportHeight
}

// Calculate computes the inclusive index range to render for the given
// scroll position. It is a pure function of its inputs and trusts them:
// callers clamp scrollOffset with ClampScroll when they need to.
func Calculate(heights *HeightModel, scrollOffset, viewportHeight float64, overscan int) WindowState {
	ws := WindowState{
		ScrollOffset:   scrollOffset,
		ViewportHeight: viewportHeight,
		StartIndex:     -1,
		EndIndex:       -1,
		TotalExtent:    heights.TotalExtent(),
	}
	n := heights.Count()
	if n == 0 || !(viewportHeight > 0) {
		return ws
	}
	overscan = max(0, overscan)

	var start, end int
	if heights.Fixed() {
		h := heights.fixed
		start = clampIndex(math.Floor(scrollOffset/h)-float64(overscan), n)
		end = clampIndex(math.Ceil((scrollOffset+viewportHeight)/h)+float64(overscan), n)
	} else {
		// Same bounds as the fixed path with prefix sums in place of i*h:
		// start is the item containing the upper band edge, end is the first
		// item whose top edge is at or past the lower band edge.
		lead := float64(overscan) * heights.Estimate()
		start = heights.indexAt(scrollOffset - lead)
		bottom := scrollOffset + viewportHeight + lead
		end = heights.indexAt(bottom)
		if end < n && heights.OffsetOf(end) < bottom {
			end++
		}
	}
	start = min(max(start, 0), n-1)
	end = min(max(end, start), n-1)

	ws.StartIndex = start
	ws.EndIndex = end
	ws.OffsetBeforeStart = heights.OffsetOf(start)
	return ws
}

// clampIndex converts f to an index in [0, n-1] without overflowing on
// out-of-range offsets.
func clampIndex(f float64, n int) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= float64(n-1):
		return n - 1
	}
	return int(f)
}

// ClampScroll bounds offset to [0, total-viewport].
func ClampScroll(offset, total, viewport float64) float64 {
	limit := math.Max(0, total-viewport)
	if math.IsNaN(offset) || offset < 0 {
		return 0
	}
	return math.Min(offset, limit)
}

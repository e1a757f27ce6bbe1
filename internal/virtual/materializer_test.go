package virtual

import (
	"fmt"
	"testing"
)

type row struct {
	id    string
	lines int
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{id: fmt.Sprintf("r%d", i), lines: i%3 + 1}
	}
	return out
}

func renderRow(r row, index int) string {
	return fmt.Sprintf("%d:%s", index, r.id)
}

func mustList(t *testing.T, items []row, cfg Config, hooks Hooks[row]) *List[row, string] {
	t.Helper()
	l, err := New(items, cfg, renderRow, hooks)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	return l
}

// settle renders and measures the window until the engine stops
// recomputing, returning the number of passes it took.
func settle(t *testing.T, l *List[row, string]) int {
	t.Helper()
	for pass := 1; pass <= 20; pass++ {
		v := l.Controller().Version()
		for _, p := range l.Visible() {
			l.Measure(p.Index, float64(p.Item.lines))
		}
		if l.Controller().Version() == v {
			return pass
		}
	}
	t.Fatal("window did not settle within 20 passes")
	return 0
}

func TestMaterializePositionsItemsAtCumulativeOffsets(t *testing.T) {
	l := mustList(t, rows(10), Config{EstimatedItemHeight: 2}, Hooks[row]{})
	l.SetViewportHeight(5)
	l.Measure(0, 4)

	placed := l.Visible()
	if len(placed) == 0 {
		t.Fatal("expected a non-empty window")
	}
	wantOffset := 0.0
	for _, p := range placed {
		if p.Offset != wantOffset {
			t.Fatalf("item %d: offset %v, want %v", p.Index, p.Offset, wantOffset)
		}
		if p.View != renderRow(p.Item, p.Index) {
			t.Fatalf("item %d: unexpected view %q", p.Index, p.View)
		}
		wantOffset += p.Height
	}
	if placed[0].Height != 4 {
		t.Fatalf("measured height not used: %v", placed[0].Height)
	}
}

func TestMaterializeEmptyList(t *testing.T) {
	l := mustList(t, nil, Config{EstimatedItemHeight: 2}, Hooks[row]{})
	l.SetViewportHeight(10)
	if got := l.Visible(); got != nil {
		t.Fatalf("expected no renders, got %d", len(got))
	}
	if ws := l.State(); ws.StartIndex != -1 || ws.EndIndex != -1 || ws.TotalExtent != 0 {
		t.Fatalf("unexpected empty state: %+v", ws)
	}
}

func TestMeasurementConverges(t *testing.T) {
	l := mustList(t, rows(200), Config{EstimatedItemHeight: 2, Overscan: 1}, Hooks[row]{})
	l.SetViewportHeight(12)
	l.ScrollTo(40)
	settle(t, l)

	heights := l.Controller().Heights()
	for _, p := range l.Visible() {
		if heights.Record(p.Index, float64(p.Item.lines)) {
			t.Fatalf("item %d still changing after settle", p.Index)
		}
		if got := l.ItemState(p.Index); got != Measured {
			t.Fatalf("item %d: state %v, want measured", p.Index, got)
		}
	}
	if passes := settle(t, l); passes != 1 {
		t.Fatalf("settled window needed %d passes", passes)
	}
}

func TestNonConvergentItemStopsRetriggering(t *testing.T) {
	l := mustList(t, rows(5), Config{EstimatedItemHeight: 1, MaxMeasurePasses: 2}, Hooks[row]{})
	l.SetViewportHeight(3)

	for i, h := range []float64{5, 10} {
		v := l.Controller().Version()
		l.Measure(0, h)
		if l.Controller().Version() == v {
			t.Fatalf("measurement %d should recompute", i)
		}
	}

	v := l.Controller().Version()
	l.Measure(0, 5)
	if l.Controller().Version() != v {
		t.Fatal("oscillating item should stop triggering recomputes")
	}
	if !l.mat.Stalled(0) {
		t.Fatal("expected item 0 to be stalled")
	}
	if got := l.HeightOf(0); got != 5 {
		t.Fatalf("stalled item should keep the best-known height, got %v", got)
	}
}

func TestItemStateLifecycle(t *testing.T) {
	l := mustList(t, rows(50), Config{EstimatedItemHeight: 1}, Hooks[row]{
		Key: func(r row) string { return r.id },
	})
	l.SetViewportHeight(4)

	if got := l.ItemState(2); got != Unmeasured {
		t.Fatalf("before render: %v", got)
	}
	l.Visible()
	if got := l.ItemState(2); got != Estimated {
		t.Fatalf("after render: %v", got)
	}
	l.Measure(2, 3)
	if got := l.ItemState(2); got != Measured {
		t.Fatalf("after measure: %v", got)
	}
	if got := l.ItemState(40); got != Unmeasured {
		t.Fatalf("off-screen item: %v", got)
	}

	// Replacing the item at index 2 reverts it to the estimate.
	next := rows(50)
	next[2].id = "replaced"
	l.SetItems(next)
	if got := l.ItemState(2); got != Unmeasured {
		t.Fatalf("after identity change: %v", got)
	}
	if got := l.HeightOf(2); got != 1 {
		t.Fatalf("after identity change height %v, want estimate 1", got)
	}
}

func TestSetItemsWithSameIdentityKeepsMeasurements(t *testing.T) {
	l := mustList(t, rows(10), Config{EstimatedItemHeight: 1}, Hooks[row]{
		Key: func(r row) string { return r.id },
	})
	l.SetViewportHeight(4)
	l.Measure(1, 3)

	l.SetItems(append(rows(10), row{id: "extra"}))
	if got := l.ItemState(1); got != Measured {
		t.Fatalf("append should keep measurements, got %v", got)
	}
}

func TestTruncationInvalidatesMeasurements(t *testing.T) {
	items := rows(10)
	l := mustList(t, items, Config{EstimatedItemHeight: 1}, Hooks[row]{})
	l.SetViewportHeight(20)
	l.Measure(5, 4)

	l.SetItems(items[:3])
	if got := l.ItemState(5); got != Unmeasured {
		t.Fatalf("truncated index should be unmeasured, got %v", got)
	}
	l.SetItems(items)
	if got := l.HeightOf(5); got != 1 {
		t.Fatalf("regrown index should use the estimate, got %v", got)
	}
}

func TestFixedModeItemsAreAlwaysMeasured(t *testing.T) {
	l := mustList(t, rows(3), Config{FixedItemHeight: 2, EstimatedItemHeight: 1}, Hooks[row]{})
	if got := l.ItemState(1); got != Measured {
		t.Fatalf("fixed mode state: %v", got)
	}
	v := l.Controller().Version()
	l.Measure(1, 7)
	if l.Controller().Version() != v || l.HeightOf(1) != 2 {
		t.Fatal("fixed mode must ignore measurements")
	}
}

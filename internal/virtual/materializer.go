package virtual

// ItemState is the measurement lifecycle of one item in variable-height mode.
type ItemState int

const (
	// Unmeasured items have never been rendered.
	Unmeasured ItemState = iota
	// Estimated items were rendered at the estimated height and await a
	// measurement.
	Estimated
	// Measured items use their cached real height.
	Measured
)

func (s ItemState) String() string {
	switch s {
	case Unmeasured:
		return "unmeasured"
	case Estimated:
		return "estimated"
	case Measured:
		return "measured"
	default:
		return "unknown"
	}
}

// Placed is one rendered item positioned inside the list.
type Placed[T, R any] struct {
	Index  int
	Offset float64 // top edge, measured from the start of the list
	Height float64 // height used for layout (measured or estimated)
	Item   T
	View   R
}

// Materializer maps the controller's window onto externally owned items and
// closes the measurement feedback loop.
//
// Each index carries a pass counter. A measurement within Epsilon of the
// previous one means the item has converged and the counter resets. An item
// whose height keeps changing for more than Config.MaxMeasurePasses
// consecutive measurements is marked stalled: its latest height is still
// recorded, but it no longer triggers recomputes.
type Materializer[T, R any] struct {
	ctrl   *Controller
	items  []T
	render func(item T, index int) R
	key    func(item T) string

	rendered map[int]bool
	keys     map[int]string
	passes   map[int]int
	stalled  map[int]bool
}

// NewMaterializer attaches a materializer to ctrl and syncs the controller's
// item count with items.
func NewMaterializer[T, R any](ctrl *Controller, items []T, render func(item T, index int) R) *Materializer[T, R] {
	m := &Materializer[T, R]{
		ctrl:     ctrl,
		render:   render,
		rendered: map[int]bool{},
		keys:     map[int]string{},
		passes:   map[int]int{},
		stalled:  map[int]bool{},
	}
	ctrl.hooks = controllerHooks{
		measure: m.record,
		forget:  m.forget,
		resize:  m.truncate,
		reset:   m.reset,
	}
	m.SetItems(items)
	return m
}

// SetKeyFunc installs an identity function. When set, replacing the items
// drops measurements for indices whose item identity changed.
func (m *Materializer[T, R]) SetKeyFunc(key func(item T) string) {
	m.key = key
}

// Items returns the current item view.
func (m *Materializer[T, R]) Items() []T {
	return m.items
}

// SetItems replaces the item view and updates the controller's item count.
func (m *Materializer[T, R]) SetItems(items []T) {
	m.setItems(items, false)
}

func (m *Materializer[T, R]) setItems(items []T, clampScroll bool) {
	var changed []int
	if m.key != nil {
		for i, prev := range m.keys {
			if i < len(items) && m.key(items[i]) != prev {
				changed = append(changed, i)
			}
		}
	}
	m.items = items
	m.ctrl.dispatch(event{kind: eventCount, index: len(items), forget: changed, clamp: clampScroll})
}

// Materialize renders every item in the current window.
func (m *Materializer[T, R]) Materialize() []Placed[T, R] {
	ws := m.ctrl.State()
	if ws.Empty() || m.render == nil {
		return nil
	}
	heights := m.ctrl.Heights()
	end := min(ws.EndIndex, len(m.items)-1, heights.Count()-1)
	if ws.StartIndex > end {
		return nil
	}

	out := make([]Placed[T, R], 0, end-ws.StartIndex+1)
	offset := ws.OffsetBeforeStart
	for i := ws.StartIndex; i <= end; i++ {
		height := heights.HeightOf(i)
		item := m.items[i]
		out = append(out, Placed[T, R]{
			Index:  i,
			Offset: offset,
			Height: height,
			Item:   item,
			View:   m.render(item, i),
		})
		if !heights.Measured(i) {
			m.rendered[i] = true
		}
		offset += height
	}
	return out
}

// Measure reports the rendered height of item index.
func (m *Materializer[T, R]) Measure(index int, height float64) {
	m.ctrl.Measure(index, height)
}

// State returns the measurement state of item index.
func (m *Materializer[T, R]) State(index int) ItemState {
	heights := m.ctrl.Heights()
	switch {
	case heights.Measured(index):
		return Measured
	case m.rendered[index]:
		return Estimated
	default:
		return Unmeasured
	}
}

// Stalled reports whether item index stopped triggering recomputes.
func (m *Materializer[T, R]) Stalled(index int) bool {
	return m.stalled[index]
}

func (m *Materializer[T, R]) record(index int, height float64) bool {
	heights := m.ctrl.Heights()
	changed := heights.Record(index, height)
	if !heights.Measured(index) {
		return false
	}
	delete(m.rendered, index)
	if m.key != nil && index < len(m.items) {
		m.keys[index] = m.key(m.items[index])
	}
	if !changed {
		delete(m.passes, index)
		return false
	}
	if m.stalled[index] {
		return false
	}
	m.passes[index]++
	if limit := m.ctrl.cfg.maxMeasurePasses(); m.passes[index] > limit {
		m.stalled[index] = true
		m.ctrl.log.Warn("item height did not converge; recompute suppressed",
			"index", index, "passes", m.passes[index], "height", height)
		return false
	}
	return true
}

func (m *Materializer[T, R]) forget(index int) {
	delete(m.rendered, index)
	delete(m.keys, index)
	delete(m.passes, index)
	delete(m.stalled, index)
}

func (m *Materializer[T, R]) truncate(n int) {
	for _, state := range []map[int]bool{m.rendered, m.stalled} {
		for i := range state {
			if i >= n {
				delete(state, i)
			}
		}
	}
	for i := range m.keys {
		if i >= n {
			delete(m.keys, i)
		}
	}
	for i := range m.passes {
		if i >= n {
			delete(m.passes, i)
		}
	}
}

func (m *Materializer[T, R]) reset() {
	clear(m.rendered)
	clear(m.keys)
	clear(m.passes)
	clear(m.stalled)
}

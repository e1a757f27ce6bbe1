// Package virtual implements list windowing: rendering only the slice of a
// long item sequence that is visible inside a fixed-size viewport.
//
// The package is split along the data flow:
//
//   - HeightModel answers "how tall is item i" and "how tall is the list",
//     in fixed-height mode (a constant) or variable-height mode (measured
//     heights with an estimate fallback).
//   - Calculate turns a scroll offset and viewport height into a
//     WindowState: the inclusive index range to render, the offset of the
//     first rendered item and the total extent.
//   - Controller queues scroll, viewport, item-count and measurement inputs,
//     recomputes the WindowState after each one and raises the end-reached
//     signal used for infinite scrolling.
//   - Materializer renders the window through a caller-supplied function and
//     feeds measured heights back, stopping once heights converge.
//
// List bundles all four behind one handle. Nothing in the package fetches
// data, owns item content or performs I/O; it is driven from a single UI
// event loop.
package virtual

import "log/slog"

// Hooks are optional callbacks for a List.
type Hooks[T any] struct {
	// OnEndReached fires when the viewport nears the end of the list.
	OnEndReached func()
	// OnWindowChange receives every new WindowState.
	OnWindowChange func(WindowState)
	// Key identifies an item. When set, an index whose item identity changes
	// across SetItems falls back to the estimated height.
	Key func(item T) string
	// Logger overrides the default "virtual" component logger.
	Logger *slog.Logger
}

// List is a virtualized view over an externally owned slice of T whose
// visible items render to R.
type List[T, R any] struct {
	ctrl *Controller
	mat  *Materializer[T, R]
}

// New validates cfg and returns a List over items.
func New[T, R any](items []T, cfg Config, render func(item T, index int) R, hooks Hooks[T]) (*List[T, R], error) {
	ctrl, err := NewController(cfg, len(items))
	if err != nil {
		return nil, err
	}
	ctrl.SetLogger(hooks.Logger)
	ctrl.OnEndReached(hooks.OnEndReached)
	ctrl.OnWindowChange(hooks.OnWindowChange)

	mat := NewMaterializer(ctrl, items, render)
	mat.SetKeyFunc(hooks.Key)
	return &List[T, R]{ctrl: ctrl, mat: mat}, nil
}

// Controller returns the underlying controller.
func (l *List[T, R]) Controller() *Controller {
	return l.ctrl
}

// Len returns the number of items.
func (l *List[T, R]) Len() int {
	return len(l.mat.Items())
}

// Items returns the current item view.
func (l *List[T, R]) Items() []T {
	return l.mat.Items()
}

// SetItems replaces the item view. The scroll offset is re-clamped so a
// shrinking list never leaves the viewport past its end.
func (l *List[T, R]) SetItems(items []T) {
	l.mat.setItems(items, true)
}

// ScrollTo moves the viewport top to offset, clamped to the list extent.
func (l *List[T, R]) ScrollTo(offset float64) {
	l.ctrl.dispatch(event{kind: eventScroll, value: offset, clamp: true})
}

// ScrollBy moves the viewport by delta, clamped to the list extent.
func (l *List[T, R]) ScrollBy(delta float64) {
	l.ctrl.dispatch(event{kind: eventScroll, value: delta, relative: true, clamp: true})
}

// ScrollToEnd moves the viewport to the bottom of the list.
func (l *List[T, R]) ScrollToEnd() {
	l.ScrollTo(l.ctrl.Heights().TotalExtent())
}

// SetViewportHeight updates the visible height.
func (l *List[T, R]) SetViewportHeight(height float64) {
	l.ctrl.SetViewportHeight(height)
}

// EnsureVisible scrolls the minimum distance needed to show item i in full,
// aligning its top edge when it is taller than the viewport.
func (l *List[T, R]) EnsureVisible(i int) {
	heights := l.ctrl.Heights()
	if i < 0 || i >= heights.Count() {
		return
	}
	ws := l.ctrl.State()
	top := heights.OffsetOf(i)
	bottom := top + heights.HeightOf(i)
	switch {
	case top < ws.ScrollOffset || bottom-top > ws.ViewportHeight:
		l.ScrollTo(top)
	case bottom > ws.ScrollOffset+ws.ViewportHeight:
		l.ScrollTo(bottom - ws.ViewportHeight)
	}
}

// Measure reports the rendered height of item index.
func (l *List[T, R]) Measure(index int, height float64) {
	l.mat.Measure(index, height)
}

// Visible renders the current window.
func (l *List[T, R]) Visible() []Placed[T, R] {
	return l.mat.Materialize()
}

// State returns the current window.
func (l *List[T, R]) State() WindowState {
	return l.ctrl.State()
}

// OffsetOf returns the top edge of item i.
func (l *List[T, R]) OffsetOf(i int) float64 {
	return l.ctrl.Heights().OffsetOf(i)
}

// HeightOf returns the layout height of item i.
func (l *List[T, R]) HeightOf(i int) float64 {
	return l.ctrl.Heights().HeightOf(i)
}

// ItemState returns the measurement state of item i.
func (l *List[T, R]) ItemState(i int) ItemState {
	return l.mat.State(i)
}

// Reset drops every measurement.
func (l *List[T, R]) Reset() {
	l.ctrl.Reset()
}

// Dispose detaches all callbacks. The List must not be used afterwards.
func (l *List[T, R]) Dispose() {
	l.ctrl.Dispose()
}

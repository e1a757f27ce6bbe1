package virtual

import (
	"log/slog"

	"github.com/eapache/queue"

	"github.com/treykane/ward-roster/internal/logging"
)

type eventKind int

const (
	eventScroll eventKind = iota
	eventViewport
	eventCount
	eventMeasure
	eventReset
)

func (k eventKind) String() string {
	switch k {
	case eventScroll:
		return "scroll"
	case eventViewport:
		return "viewport"
	case eventCount:
		return "count"
	case eventMeasure:
		return "measure"
	case eventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// event is one queued controller input.
type event struct {
	kind  eventKind
	index int
	value float64

	// scroll events only
	relative bool
	clamp    bool

	// count events only: indices whose item changed identity
	forget []int
}

// controllerHooks lets the materializer observe inputs in queue order.
type controllerHooks struct {
	measure func(index int, height float64) bool
	forget  func(index int)
	resize  func(n int)
	reset   func()
}

// Controller turns scroll, viewport, item-count and measurement inputs into
// a sequence of WindowStates and evaluates the end-reached condition.
//
// Inputs are queued and drained in arrival order. An input issued from a
// callback while the queue is draining (for example an onEndReached handler
// that appends items) runs after the current input finishes rather than
// recursing into it. A Controller is not safe for concurrent use; it is
// driven from a single UI event loop.
//
// End-reached contract: by default the callback fires on every scroll,
// viewport or item-count update for which
// TotalExtent - ScrollOffset - ViewportHeight < EndThreshold holds. A
// consumer that fetches pages must therefore ignore the signal while a fetch
// is in flight, or set Config.DedupeEndReached.
type Controller struct {
	cfg     Config
	heights *HeightModel
	log     *slog.Logger

	scroll   float64
	viewport float64
	state    WindowState
	version  uint64

	pending  *queue.Queue
	draining bool
	disposed bool
	endFired bool

	onEndReached func()
	onWindow     func(WindowState)
	hooks        controllerHooks
}

// NewController returns a controller for count items. It fails when cfg is
// invalid.
func NewController(cfg Config, count int) (*Controller, error) {
	heights, err := NewHeightModel(cfg, count)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		heights: heights,
		log:     logging.New("virtual"),
		pending: queue.New(),
	}
	c.state = Calculate(heights, 0, 0, cfg.Overscan)
	return c, nil
}

// SetLogger replaces the component logger.
func (c *Controller) SetLogger(log *slog.Logger) {
	if log != nil {
		c.log = log
	}
}

// OnEndReached registers the end-reached callback.
func (c *Controller) OnEndReached(fn func()) {
	c.onEndReached = fn
}

// OnWindowChange registers a listener for every new WindowState.
func (c *Controller) OnWindowChange(fn func(WindowState)) {
	c.onWindow = fn
}

// Heights exposes the height model for read access.
func (c *Controller) Heights() *HeightModel {
	return c.heights
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() Config {
	return c.cfg
}

// State returns the most recent WindowState.
func (c *Controller) State() WindowState {
	return c.state
}

// Version increments whenever the WindowState changes.
func (c *Controller) Version() uint64 {
	return c.version
}

// Disposed reports whether Dispose was called.
func (c *Controller) Disposed() bool {
	return c.disposed
}

// ScrollTo sets the scroll offset as given. It does not clamp.
func (c *Controller) ScrollTo(offset float64) {
	c.dispatch(event{kind: eventScroll, value: offset})
}

// SetViewportHeight sets the visible height.
func (c *Controller) SetViewportHeight(height float64) {
	c.dispatch(event{kind: eventViewport, value: height})
}

// SetItemCount updates the number of items.
func (c *Controller) SetItemCount(n int) {
	c.dispatch(event{kind: eventCount, index: n})
}

// Measure reports the rendered height of item index.
func (c *Controller) Measure(index int, height float64) {
	c.dispatch(event{kind: eventMeasure, index: index, value: height})
}

// Reset drops every cached measurement and recomputes.
func (c *Controller) Reset() {
	c.dispatch(event{kind: eventReset})
}

// Dispose discards pending inputs and detaches all callbacks. Every later
// input is ignored.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	dropped := c.pending.Length()
	c.pending = queue.New()
	c.onEndReached = nil
	c.onWindow = nil
	c.hooks = controllerHooks{}
	c.log.Debug("controller disposed", "dropped_events", dropped)
}

func (c *Controller) dispatch(ev event) {
	if c.disposed {
		return
	}
	c.pending.Add(ev)
	if c.draining {
		return
	}
	c.draining = true
	defer func() { c.draining = false }()
	for !c.disposed && c.pending.Length() > 0 {
		next, _ := c.pending.Remove().(event)
		c.apply(next)
	}
}

func (c *Controller) apply(ev event) {
	switch ev.kind {
	case eventScroll:
		offset := ev.value
		if ev.relative {
			offset += c.scroll
		}
		if ev.clamp {
			offset = ClampScroll(offset, c.heights.TotalExtent(), c.viewport)
		}
		c.scroll = offset
		c.recompute()
		c.checkEnd()
	case eventViewport:
		c.viewport = ev.value
		c.recompute()
		c.checkEnd()
	case eventCount:
		for _, i := range ev.forget {
			c.heights.Forget(i)
			if c.hooks.forget != nil {
				c.hooks.forget(i)
			}
		}
		if ev.index != c.heights.Count() {
			c.heights.SetCount(ev.index)
			if c.hooks.resize != nil {
				c.hooks.resize(c.heights.Count())
			}
			c.endFired = false
		}
		if ev.clamp {
			c.scroll = ClampScroll(c.scroll, c.heights.TotalExtent(), c.viewport)
		}
		c.recompute()
		c.checkEnd()
	case eventMeasure:
		record := c.heights.Record
		if c.hooks.measure != nil {
			record = c.hooks.measure
		}
		if record(ev.index, ev.value) {
			c.recompute()
		}
	case eventReset:
		c.heights.Reset()
		if c.hooks.reset != nil {
			c.hooks.reset()
		}
		c.endFired = false
		c.recompute()
	default:
		c.log.Warn("ignore unknown controller event", "kind", ev.kind.String())
	}
}

func (c *Controller) recompute() {
	next := Calculate(c.heights, c.scroll, c.viewport, c.cfg.Overscan)
	if next == c.state {
		return
	}
	c.state = next
	c.version++
	if c.onWindow != nil {
		c.onWindow(next)
	}
}

func (c *Controller) checkEnd() {
	if c.state.Remaining() >= c.cfg.EndThreshold {
		c.endFired = false
		return
	}
	if c.cfg.DedupeEndReached && c.endFired {
		return
	}
	c.endFired = true
	if c.onEndReached != nil {
		c.onEndReached()
	}
}

// render.go implements debounced, cached chart rendering for the chart pane.
//
// Rendering markdown through Glamour is relatively expensive, so this module
// applies two optimizations to keep the roster responsive:
//
// # Debouncing
//
// Moving the roster cursor would otherwise render every chart passed over.
// requestRender increments a sequence number and schedules the render after
// RenderDebounce. If the selection moves again before the timer fires, the
// sequence number changes and the stale request is discarded.
//
// # Caching
//
// Completed renders are cached by MRN together with the width bucket used.
// Width bucketing rounds the viewport width down to a multiple of
// RenderWidthBucket so small resizes reuse cached charts.
//
// # Glamour Renderers
//
// Glamour TermRenderer instances are cached per (width bucket, style) in a
// small LRU protected by a mutex, because renders run on background
// goroutines. The style comes from WARD_ROSTER_GLAMOUR_STYLE, then the
// glamour_style config setting, then GLAMOUR_STYLE, defaulting to "dark".
package app

import (
	"container/list"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/treykane/ward-roster/internal/records"
)

// renderCacheEntry stores a completed chart render alongside the width
// bucket that produced it.
type renderCacheEntry struct {
	width   int
	content string
}

// renderRequestMsg is emitted by the debounce timer to trigger the actual
// render. The seq field is compared to the model's current renderSeq to
// discard stale requests.
type renderRequestMsg struct {
	mrn   string
	width int
	seq   int
}

// renderResultMsg carries the completed render back to Update.
type renderResultMsg struct {
	mrn     string
	width   int
	seq     int
	content string
}

// rendererKey identifies one cached Glamour renderer.
type rendererKey struct {
	width int
	style string
}

var (
	// maxRendererCacheEntries bounds the number of Glamour renderers retained
	// in memory.
	maxRendererCacheEntries = 8

	// rendererCacheMu protects concurrent access to the renderer cache.
	rendererCacheMu sync.Mutex

	rendererCache = map[rendererKey]*glamour.TermRenderer{}

	// rendererCacheOrder tracks keys in LRU order (front = least recent,
	// back = most recent).
	rendererCacheOrder = list.New()

	// rendererCacheNodes stores the LRU-list node for each cached key.
	rendererCacheNodes = map[rendererKey]*list.Element{}
)

// showSelectedChart renders the chart of the patient under the cursor.
func (m *Model) showSelectedChart() tea.Cmd {
	p, ok := m.selectedPatient()
	if !ok {
		return nil
	}
	return m.requestRender(p)
}

// refreshViewport re-renders the current chart, e.g. after a resize.
func (m *Model) refreshViewport() tea.Cmd {
	if m.currentMRN == "" {
		return nil
	}
	return m.showSelectedChart()
}

// requestRender initiates a debounced render for the given patient.
//
// Fast path (cache hit): the cached chart is displayed immediately and no Cmd
// is returned.
//
// Slow path (cache miss): a spinner is shown, renderSeq is incremented
// (invalidating any in-flight render), and a debounce timer is started.
func (m *Model) requestRender(p records.Patient) tea.Cmd {
	width := renderWidthBucket(m.viewport.Width)
	changed := m.currentMRN != p.MRN
	m.currentMRN = p.MRN
	if entry, ok := m.renderCache[p.MRN]; ok && entry.width == width {
		m.viewport.SetContent(entry.content)
		if changed {
			m.viewport.GotoTop()
		}
		m.clearRenderingState()
		return nil
	}
	m.rendering = true
	m.viewport.SetContent(m.spinner.View() + " Rendering chart...")
	m.renderSeq++
	seq := m.renderSeq
	m.pendingPatient = p
	m.pendingWidth = width
	return tea.Tick(RenderDebounce, func(time.Time) tea.Msg {
		return renderRequestMsg{mrn: p.MRN, width: width, seq: seq}
	})
}

// handleRenderRequest validates and dispatches a render command.
func (m *Model) handleRenderRequest(msg renderRequestMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.renderSeq || msg.mrn != m.pendingPatient.MRN || msg.width != m.pendingWidth {
		return m, nil
	}
	return m, renderChartCmd(m.pendingPatient, msg.width, msg.seq, m.cfg.GlamourStyle)
}

// handleRenderResult caches a finished render and shows it when it still
// belongs to the selected patient at the current width.
func (m *Model) handleRenderResult(msg renderResultMsg) (tea.Model, tea.Cmd) {
	if len(m.renderCache) >= MaxChartCacheEntries {
		clear(m.renderCache)
	}
	m.renderCache[msg.mrn] = renderCacheEntry{width: msg.width, content: msg.content}

	if msg.seq != m.renderSeq || msg.mrn != m.currentMRN {
		return m, nil
	}
	if msg.width == renderWidthBucket(m.viewport.Width) {
		m.viewport.SetContent(msg.content)
		m.viewport.GotoTop()
		m.clearRenderingState()
	}
	return m, nil
}

func (m *Model) clearRenderingState() {
	m.rendering = false
	m.pendingWidth = 0
}

// renderChartCmd renders a patient chart on a background goroutine.
func renderChartCmd(p records.Patient, width, seq int, style string) tea.Cmd {
	return func() tea.Msg {
		return renderResultMsg{
			mrn:     p.MRN,
			width:   width,
			seq:     seq,
			content: renderMarkdown(records.Chart(p), width, style),
		}
	}
}

// renderMarkdown converts chart markdown to ANSI-formatted output. If
// renderer creation or rendering fails, the raw markdown is returned so the
// chart is still readable.
func renderMarkdown(content string, width int, style string) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := getRenderer(width, resolveGlamourStyle(style))
	if err != nil {
		appLog.Error("create markdown renderer", "width", width, "error", err)
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		appLog.Error("render chart markdown", "width", width, "error", err)
		return content
	}
	return out
}

// getRenderer returns a cached Glamour TermRenderer for the given width and
// style, creating one if it doesn't exist.
func getRenderer(width int, style string) (*glamour.TermRenderer, error) {
	key := rendererKey{width: width, style: style}
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	if renderer, ok := rendererCache[key]; ok {
		if node, ok := rendererCacheNodes[key]; ok {
			rendererCacheOrder.MoveToBack(node)
		}
		return renderer, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamourStyleOption(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache[key] = renderer
	rendererCacheNodes[key] = rendererCacheOrder.PushBack(key)
	evictOldestRendererIfNeeded()
	return renderer, nil
}

func evictOldestRendererIfNeeded() {
	for len(rendererCache) > maxRendererCacheEntries && rendererCacheOrder.Len() > 0 {
		oldest := rendererCacheOrder.Front()
		key, _ := oldest.Value.(rendererKey)
		rendererCacheOrder.Remove(oldest)
		delete(rendererCache, key)
		delete(rendererCacheNodes, key)
	}
}

func resetRendererCacheForTests() {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	rendererCache = map[rendererKey]*glamour.TermRenderer{}
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[rendererKey]*list.Element{}
}

// resolveGlamourStyle picks the rendering style. The lookup order is:
//
//  1. WARD_ROSTER_GLAMOUR_STYLE
//  2. the configured style
//  3. GLAMOUR_STYLE (Glamour's own environment variable)
//  4. "dark" (avoids OSC background queries on startup)
func resolveGlamourStyle(configured string) string {
	for _, candidate := range []string{
		os.Getenv("WARD_ROSTER_GLAMOUR_STYLE"),
		configured,
		os.Getenv("GLAMOUR_STYLE"),
	} {
		style := strings.ToLower(strings.TrimSpace(candidate))
		switch style {
		case "dark", "light", "notty", "auto":
			return style
		}
	}
	return "dark"
}

// glamourStyleOption maps a resolved style to a renderer option. "auto"
// delegates to Glamour's background detection.
func glamourStyleOption(style string) glamour.TermRendererOption {
	if style == "auto" {
		return glamour.WithAutoStyle()
	}
	return glamour.WithStandardStyle(style)
}

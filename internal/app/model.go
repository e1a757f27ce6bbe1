package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/ward-roster/internal/config"
	"github.com/treykane/ward-roster/internal/records"
	"github.com/treykane/ward-roster/internal/virtual"
)

// PatientSource supplies roster pages.
type PatientSource interface {
	Total() int
	Page(ctx context.Context, offset, limit int) ([]records.Patient, error)
}

// Model holds the Bubble Tea state for the entire UI.
type Model struct {
	cfg    config.Config
	source PatientSource

	// Roster state
	patients []records.Patient
	roster   *virtual.List[records.Patient, string]
	rows     []virtual.Placed[records.Patient, string]
	cursor   int
	rowWidth int

	// Paging
	wantMore  bool
	loading   bool
	exhausted bool
	fetchErrs int

	// UI widgets
	viewport      viewport.Model
	spinner       spinner.Model
	status        string
	statusIsError bool
	showHelp      bool

	// Layout sizing
	width  int
	height int

	// Keybindings
	keyForAction map[string][]string
	keyToAction  map[string]string

	// Debounced chart rendering
	rendering      bool
	renderSeq      int
	pendingPatient records.Patient
	pendingWidth   int
	currentMRN     string
	renderCache    map[string]renderCacheEntry
}

// New prepares the initial UI model. It fails when the list settings in cfg
// are invalid.
func New(cfg config.Config, source PatientSource) (*Model, error) {
	vp := viewport.New(0, 0)
	vp.SetContent("Select a patient to view their chart")

	spin := spinner.New()
	spin.Spinner = spinner.Line

	m := &Model{
		cfg:         cfg,
		source:      source,
		viewport:    vp,
		spinner:     spin,
		status:      "Ready",
		renderCache: map[string]renderCacheEntry{},
	}
	roster, err := virtual.New(m.patients, cfg.List(), m.renderPatientRow, virtual.Hooks[records.Patient]{
		OnEndReached: m.requestMore,
		Key:          func(p records.Patient) string { return p.MRN },
		Logger:       appLog.With("list", "roster"),
	})
	if err != nil {
		return nil, fmt.Errorf("roster list: %w", err)
	}
	m.roster = roster
	m.loadKeybindings(cfg)
	return m, nil
}

// Init starts the spinner and fetches the first page of patients.
func (m *Model) Init() tea.Cmd {
	m.wantMore = true
	return tea.Batch(m.spinner.Tick, m.maybeFetch())
}

// Update is the Bubble Tea update loop: handle events and emit commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	case renderRequestMsg:
		return m.handleRenderRequest(msg)
	case renderResultMsg:
		return m.handleRenderResult(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// Close tears down the roster engine. No engine callback fires afterwards.
func (m *Model) Close() {
	m.roster.Dispose()
}

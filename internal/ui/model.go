package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"hnstories/internal/controller"
	"hnstories/internal/eventbus"
	"hnstories/internal/lifecycle"
	"hnstories/internal/ui/input"
	inputtypes "hnstories/internal/ui/input/types"
	"hnstories/internal/ui/logic"
	"hnstories/internal/ui/views"
)

const (
	defaultStatusTTL = 3 * time.Second
	spinnerInterval  = 100 * time.Millisecond

	// chromeLines is everything on screen that is not a story row
	chromeLines = 11
)

// Options configures a Model
type Options struct {
	Controller *controller.Controller
	Logger     *zap.Logger
	StatusTTL  time.Duration
	Notice     string // shown as an error status on start
}

// Model represents the UI state
type Model struct {
	ctrl   *controller.Controller
	logger *zap.Logger

	width  int
	height int
	keys   KeyMap
	help   help.Model

	selectedIndex  int
	viewportOffset int
	viewportHeight int

	// values restored when a text mode is cancelled
	searchOrigin string
	filterOrigin string

	statusMessage string
	statusIsError bool
	statusID      int
	statusTTL     time.Duration
	notice        string

	showHelp     bool
	inPagerMode  bool
	ticking      bool
	spinnerFrame int

	navigator    *logic.Navigator
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	inputHandler *input.Handler
	pager        *Pager

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = defaultStatusTTL
	}
	keys := DefaultKeyMap()
	return &Model{
		ctrl:           opts.Controller,
		logger:         opts.Logger,
		keys:           keys,
		help:           help.New(),
		viewportHeight: 20, // Will be updated on first WindowSizeMsg
		statusTTL:      opts.StatusTTL,
		notice:         opts.Notice,
		navigator:      logic.NewNavigator(),
		renderer:       views.NewRenderer(),
		helpRenderer:   NewHelpRenderer(keys),
		inputHandler:   input.New(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPager(p)
}

// Init issues the request for the initial search term
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.notice != "" {
		cmds = append(cmds, m.setStatus(m.notice, true))
	}
	if req, ok := m.ctrl.Start(); ok {
		cmds = append(cmds, m.startFetch(req))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewportHeight = msg.Height - chromeLines
		if m.viewportHeight < 3 {
			m.viewportHeight = 3
		}
		m.syncNavigator()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case fetchResultMsg:
		if !m.ctrl.Complete(msg.req, msg.stories, msg.err) {
			return m, nil
		}
		m.syncNavigator()
		return m, nil

	case tickMsg:
		if m.inPagerMode || !m.ctrl.Snapshot().IsLoading {
			m.ticking = false
			return m, nil
		}
		m.spinnerFrame++
		return m, tick()

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case pagerMsg:
		if msg.err == nil {
			return m, nil
		}
		m.logger.Warn("pager failed", zap.Error(msg.err))
		if msg.kind == pagerHelp {
			m.showHelp = true
			return m, nil
		}
		return m, m.setStatus(fmt.Sprintf("Could not open pager: %v", msg.err), true)

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		if m.ctrl.Snapshot().IsLoading {
			return m, m.startTicking()
		}
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusMessage = ""
			m.statusIsError = false
		}
		return m, nil
	}

	// Remaining messages (cursor blink) belong to the text input
	return m, m.inputHandler.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "esc", "?", "q", "enter":
			m.showHelp = false
		case "ctrl+c":
			return m, m.quit()
		}
		return m, nil
	}

	before := m.inputHandler.CurrentMode()
	if before == inputtypes.ModeNormal {
		m.searchOrigin = m.ctrl.SearchTerm()
		m.filterOrigin = m.ctrl.Filter()
	}

	actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

	cmds := []tea.Cmd{}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	for _, action := range actions {
		if actionCmd := m.processAction(action); actionCmd != nil {
			cmds = append(cmds, actionCmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) inputContext() *input.ModelContext {
	view := m.ctrl.Snapshot()
	return &input.ModelContext{
		Stories:       view.Stories,
		SelectedIndex: m.selectedIndex,
		Term:          view.Term,
		Filter:        view.Filter,
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.syncNavigator()
		m.selectedIndex, m.viewportOffset = m.navigator.Move(a.Direction)
		return nil

	case inputtypes.UpdateTextAction:
		switch a.Mode {
		case inputtypes.ModeSearch:
			return m.setSearchTerm(a.Text)
		case inputtypes.ModeFilter:
			m.setFilter(a.Text)
		}
		return nil

	case inputtypes.SubmitTextAction:
		switch a.Mode {
		case inputtypes.ModeSearch:
			if cmd := m.setSearchTerm(a.Text); cmd != nil {
				return tea.Batch(cmd, m.submit())
			}
			return m.submit()
		case inputtypes.ModeFilter:
			m.setFilter(a.Text)
		}
		return nil

	case inputtypes.CancelTextAction:
		switch a.Mode {
		case inputtypes.ModeSearch:
			if m.ctrl.SearchTerm() != m.searchOrigin {
				return m.setSearchTerm(m.searchOrigin)
			}
		case inputtypes.ModeFilter:
			m.setFilter(m.filterOrigin)
		}
		return nil

	case inputtypes.ClearFilterAction:
		m.setFilter("")
		return nil

	case inputtypes.RefreshAction:
		return m.startFetch(m.ctrl.Refresh())

	case inputtypes.DismissAction:
		view := m.ctrl.Snapshot()
		index := a.Index
		if index < 0 {
			index = m.selectedIndex
		}
		if index < 0 || index >= len(view.Stories) {
			return nil
		}
		m.ctrl.Remove(view.Stories[index])
		m.syncNavigator()
		return nil

	case inputtypes.OpenStoryAction:
		view := m.ctrl.Snapshot()
		if m.selectedIndex >= len(view.Stories) {
			return nil
		}
		content := m.renderer.Stories().RenderDetails(view.Stories[m.selectedIndex])
		return m.showPager(pagerStory, content)

	case inputtypes.ToggleHelpAction:
		if m.pager == nil {
			m.showHelp = !m.showHelp
			return nil
		}
		return m.showPager(pagerHelp, m.helpRenderer.Render())

	case inputtypes.QuitAction:
		return m.quit()
	}
	return nil
}

func (m *Model) setSearchTerm(term string) tea.Cmd {
	if err := m.ctrl.SetSearchTerm(term); err != nil {
		return m.setStatus("Could not save search term: "+err.Error(), true)
	}
	return nil
}

func (m *Model) setFilter(filter string) {
	m.ctrl.SetFilter(filter)
	m.selectedIndex = 0
	m.viewportOffset = 0
	m.syncNavigator()
}

// submit issues a request for the current term unless it is already showing
func (m *Model) submit() tea.Cmd {
	req, ok := m.ctrl.Submit()
	if !ok {
		return m.setStatus(fmt.Sprintf("Already showing %q (r to refresh)", m.ctrl.SearchTerm()), false)
	}
	m.selectedIndex = 0
	m.viewportOffset = 0
	return m.startFetch(req)
}

// startFetch runs req off the update loop and keeps the spinner going
func (m *Model) startFetch(req controller.Request) tea.Cmd {
	ctrl := m.ctrl
	fetch := func() tea.Msg {
		stories, err := ctrl.Run(req)
		return fetchResultMsg{req: req, stories: stories, err: err}
	}
	return tea.Batch(fetch, m.startTicking())
}

func (m *Model) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}

// showPager hands the terminal to ov, pausing our rendering meanwhile
func (m *Model) showPager(kind pagerKind, content string) tea.Cmd {
	pager := m.pager
	program := m.program
	return func() tea.Msg {
		if program != nil {
			program.Send(pauseRenderingMsg{})
			defer program.Send(resumeRenderingMsg{})
		}
		return pagerMsg{kind: kind, err: pager.Show(content)}
	}
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.StoryDismissedEvent:
		return m.setStatus(fmt.Sprintf("Dismissed %q", e.Title), false)
	case eventbus.FetchDiscardedEvent:
		m.logger.Debug("ui saw discarded response", zap.Uint64("generation", e.Generation))
	}
	return nil
}

// setStatus shows message until it is replaced or times out
func (m *Model) setStatus(message string, isError bool) tea.Cmd {
	m.statusID++
	m.statusMessage = message
	m.statusIsError = isError
	id := m.statusID
	return tea.Tick(m.statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m *Model) quit() tea.Cmd {
	m.ctrl.Close()
	return tea.Quit
}

// syncNavigator clamps the cursor to the current projected list
func (m *Model) syncNavigator() {
	total := len(m.ctrl.Snapshot().Stories)
	m.navigator.UpdateState(m.selectedIndex, m.viewportOffset, m.viewportHeight, total)
	m.selectedIndex = m.navigator.SelectedIndex()
	m.viewportOffset = m.navigator.ViewportOffset()
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	view := m.ctrl.Snapshot()
	m.navigator.UpdateState(m.selectedIndex, m.viewportOffset, m.viewportHeight, len(view.Stories))
	start, end, above, below := m.navigator.VisibleRange()

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Stories:       view.Stories,
		Total:         view.Total,
		SelectedIndex: m.navigator.SelectedIndex(),
		VisibleStart:  start,
		VisibleEnd:    end,
		MoreAbove:     above,
		MoreBelow:     below,
		IsLoading:     view.IsLoading,
		IsError:       view.IsError,
		HasFetched:    view.Phase != lifecycle.PhaseIdle,
		SearchTerm:    view.Term,
		FilterQuery:   view.Filter,
		StatusMessage: m.statusMessage,
		StatusIsError: m.statusIsError,
		ShowHelp:      m.showHelp,
		HelpLine:      m.help.View(m.keys),
		SpinnerFrame:  m.spinnerFrame,
	}
	if m.showHelp {
		state.HelpContent = m.helpRenderer.Render()
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		state.InputMode = m.inputHandler.CurrentMode().String()
		state.InputPrompt = m.inputHandler.Prompt()
		state.TextInput = ti.View()
	}

	return m.renderer.Render(state)
}

// tick returns a command that sends a tick message after a delay
func tick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hnstories/internal/ui/input/types"
)

// ggTimeout is how long the first g of a gg sequence stays armed
const ggTimeout = 500 * time.Millisecond

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
	now         func() time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{now: time.Now}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	wasG := m.lastKeyWasG && m.now().Sub(m.lastGTime) < ggTimeout
	m.lastKeyWasG = false

	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		if ctx.FilterQuery() != "" {
			return []types.Action{types.ClearFilterAction{}}, true
		}
		return nil, false

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		if ctx.HasCurrentStory() {
			return []types.Action{types.OpenStoryAction{}}, true
		}
		return nil, false

	case tea.KeyDelete:
		if ctx.HasCurrentStory() {
			return []types.Action{types.DismissAction{Index: -1}}, true
		}
		return nil, false
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "g":
		if wasG {
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = m.now()
		return nil, true

	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Data: ctx.SearchTerm()}}, true

	case "/", "f":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter, Data: ctx.FilterQuery()}}, true

	case "r":
		return []types.Action{types.RefreshAction{}}, true

	case "d", "x":
		if ctx.HasCurrentStory() {
			return []types.Action{types.DismissAction{Index: -1}}, true
		}
		return nil, false

	case "o":
		if ctx.HasCurrentStory() {
			return []types.Action{types.OpenStoryAction{}}, true
		}
		return nil, false

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{}}, true
	}

	return nil, false
}

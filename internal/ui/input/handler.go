package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"hnstories/internal/ui/input/modes"
	"hnstories/internal/ui/input/types"
)

// prompter is implemented by text modes
type prompter interface {
	Prompt() string
}

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
}

func New() *Handler {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)
	h.modes[types.ModeFilter] = modes.NewFilterMode(h.textInput)

	return h
}

// HandleKey routes msg to the current mode. Mode changes are applied here
// and not returned; every other action is returned for the model to run.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}

		if current := h.modes[h.currentMode]; current != nil {
			allActions = append(allActions, current.Exit(ctx)...)
		}

		h.currentMode = changeMode.Mode

		if next := h.modes[h.currentMode]; next != nil {
			allActions = append(allActions, next.Enter(ctx)...)
		}

		if h.isTextMode(h.currentMode) {
			h.textInput.SetValue(changeMode.Data)
			h.textInput.CursorEnd()
			h.textInput.Focus()
			cmd = textinput.Blink
		}
	}

	// Keys the text mode did not consume go to the text input
	if h.isTextMode(h.currentMode) && !consumed {
		before := h.textInput.Value()
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		if after := h.textInput.Value(); after != before {
			allActions = append(allActions, types.UpdateTextAction{Text: after, Mode: h.currentMode})
		}
	}

	return allActions, cmd
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.currentMode
}

// TextInput returns the shared input while a text mode is active
func (h *Handler) TextInput() *textinput.Model {
	if h.isTextMode(h.currentMode) {
		return h.textInput
	}
	return nil
}

// Prompt returns the label of the active text mode
func (h *Handler) Prompt() string {
	if p, ok := h.modes[h.currentMode].(prompter); ok {
		return p.Prompt()
	}
	return ""
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	switch mode {
	case types.ModeSearch, types.ModeFilter:
		return true
	default:
		return false
	}
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}

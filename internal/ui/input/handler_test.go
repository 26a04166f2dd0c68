package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hnstories/internal/domain"
	"hnstories/internal/ui/input/types"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newContext() *ModelContext {
	return &ModelContext{
		Stories: []domain.Story{{ObjectID: "0", Title: "React"}, {ObjectID: "1", Title: "Redux"}},
		Term:    "React",
	}
}

func TestNormalModeNavigation(t *testing.T) {
	h := New()
	ctx := newContext()

	actions, _ := h.HandleKey(runes("j"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.NavigateAction{Direction: "down"}, actions[0])

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyUp}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.NavigateAction{Direction: "up"}, actions[0])

	actions, _ = h.HandleKey(runes("G"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.NavigateAction{Direction: "end"}, actions[0])
}

func TestGGJumpsHome(t *testing.T) {
	h := New()
	ctx := newContext()

	actions, _ := h.HandleKey(runes("g"), ctx)
	assert.Empty(t, actions)

	actions, _ = h.HandleKey(runes("g"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.NavigateAction{Direction: "home"}, actions[0])
}

func TestSearchModePrefillsAndEmitsUpdates(t *testing.T) {
	h := New()
	ctx := newContext()

	actions, cmd := h.HandleKey(runes("s"), ctx)
	assert.Empty(t, actions)
	assert.NotNil(t, cmd)
	assert.Equal(t, types.ModeSearch, h.CurrentMode())
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "React", h.TextInput().Value())
	assert.Equal(t, "Search: ", h.Prompt())

	actions, _ = h.HandleKey(runes("!"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "React!", Mode: types.ModeSearch}, actions[0])

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.SubmitTextAction{Text: "React!", Mode: types.ModeSearch}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestTextModeSwallowsNormalBindings(t *testing.T) {
	h := New()
	ctx := newContext()
	h.HandleKey(runes("/"), ctx)
	require.Equal(t, types.ModeFilter, h.CurrentMode())

	actions, _ := h.HandleKey(runes("q"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "q", Mode: types.ModeFilter}, actions[0])
	assert.Equal(t, types.ModeFilter, h.CurrentMode())
}

func TestEscCancelsTextMode(t *testing.T) {
	h := New()
	ctx := newContext()
	h.HandleKey(runes("s"), ctx)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.CancelTextAction{Mode: types.ModeSearch}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestStoryActionsNeedAStory(t *testing.T) {
	h := New()
	empty := &ModelContext{}

	actions, _ := h.HandleKey(runes("d"), empty)
	assert.Empty(t, actions)
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, empty)
	assert.Empty(t, actions)

	actions, _ = h.HandleKey(runes("d"), newContext())
	require.Len(t, actions, 1)
	assert.Equal(t, types.DismissAction{Index: -1}, actions[0])
}

func TestEscClearsActiveFilter(t *testing.T) {
	h := New()
	ctx := newContext()

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Empty(t, actions)

	ctx.Filter = "red"
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.ClearFilterAction{}, actions[0])
}

func TestQuitKeys(t *testing.T) {
	h := New()
	ctx := newContext()

	actions, _ := h.HandleKey(runes("q"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.QuitAction{}, actions[0])

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlC}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.QuitAction{Force: true}, actions[0])
}

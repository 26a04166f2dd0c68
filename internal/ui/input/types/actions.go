package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
	Mode Mode
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode Mode
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Story actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type DismissAction struct {
	Index int // -1 for current
}

func (a DismissAction) Type() string { return "dismiss" }

type OpenStoryAction struct{}

func (a OpenStoryAction) Type() string { return "open_story" }

type ClearFilterAction struct{}

func (a ClearFilterAction) Type() string { return "clear_filter" }

// Other actions
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }

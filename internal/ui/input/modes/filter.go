package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"hnstories/internal/ui/input/types"
)

// FilterMode edits the local title filter
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}

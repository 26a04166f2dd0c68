package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"hnstories/internal/ui/input/types"
)

// SearchMode edits the server-side search term
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}

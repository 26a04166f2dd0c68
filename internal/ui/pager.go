package ui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// errNoProgram is returned when the pager cannot take over the terminal
var errNoProgram = errors.New("program not set")

// Pager shows long content in the ov pager
type Pager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPager creates a pager bound to program
func NewPager(program *tea.Program) *Pager {
	return &Pager{program: program}
}

// Show releases the terminal, runs ov over content and restores the
// terminal when the user leaves the pager.
func (p *Pager) Show(content string) error {
	if p == nil || p.program == nil {
		return errNoProgram
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov time to leave the alternate screen before bubbletea takes it back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Writing on exit would leave pager content on our screen
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

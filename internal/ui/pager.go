package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// pagerExitMsg reports the end of a pager session
type pagerExitMsg struct {
	title string
	err   error
}

// PagerOps shows long documents in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// Show hands the terminal to ov until the user quits it
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to open pager: %w", err)
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov time to leave the alternate screen before Bubble Tea takes over again
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	config := oviewer.NewConfig()
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// pagerCmd runs the pager outside the update loop
func (p *PagerOps) pagerCmd(title, content string) tea.Cmd {
	return func() tea.Msg {
		return pagerExitMsg{title: title, err: p.Show(content)}
	}
}

// Package tui shows comparison progress on interactive terminals.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/compare"
)

// StageMsg reports that the comparison entered a new stage.
type StageMsg struct {
	Stage compare.Stage
}

// DoneMsg carries the comparison outcome and ends the program.
type DoneMsg struct {
	Result *compare.Result
	Err    error
}

// Target describes what is being compared, for display only.
type Target struct {
	NodeID string
	URL    string
}

// Model is the progress view for a single comparison run.
type Model struct {
	target    Target
	spinner   spinner.Model
	stage     compare.Stage
	visited   map[compare.Stage]bool
	result    *compare.Result
	err       error
	finished  bool
	cancelled bool
}

// NewModel returns a model waiting for the first stage.
func NewModel(target Target) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		target:  target,
		spinner: s,
		visited: make(map[compare.Stage]bool),
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Stage returns the current stage.
func (m Model) Stage() compare.Stage {
	return m.stage
}

// IsFinished reports whether a DoneMsg arrived or the user interrupted.
func (m Model) IsFinished() bool {
	return m.finished
}

// Cancelled reports whether the user interrupted the run.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Outcome returns what DoneMsg delivered.
func (m Model) Outcome() (*compare.Result, error) {
	return m.result, m.err
}

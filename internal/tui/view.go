package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/compare"
)

var stageOrder = []compare.Stage{compare.StageDesign, compare.StageLive}

// View renders the current state of the model. It is empty once finished so
// the report printed afterwards starts on a clean line.
func (m Model) View() string {
	if m.finished {
		return ""
	}

	sections := []string{titleStyle.Render("layoutcheck")}

	var lines []string
	for _, s := range stageOrder {
		label := m.stageLabel(s)
		switch {
		case m.visited[s]:
			lines = append(lines, doneStyle.Render("✔ "+label))
		case m.stage == s:
			lines = append(lines, fmt.Sprintf("%s %s", m.spinner.View(), label))
		default:
			lines = append(lines, pendingStyle.Render("· "+label))
		}
	}
	sections = append(sections, strings.Join(lines, "\n"))
	sections = append(sections, hintStyle.Render("ctrl+c to cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) stageLabel(s compare.Stage) string {
	switch s {
	case compare.StageDesign:
		return fmt.Sprintf("Resolving design node %s", m.target.NodeID)
	case compare.StageLive:
		return fmt.Sprintf("Measuring %s", m.target.URL)
	default:
		return string(s)
	}
}

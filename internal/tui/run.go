package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/compare"
)

// RunFunc performs the comparison, reporting stage changes through onStage.
type RunFunc func(ctx context.Context, onStage func(compare.Stage)) (*compare.Result, error)

// Run executes fn behind a spinner drawn on out. Interrupting the program
// cancels fn's context; Run still waits for fn to return so the browser is
// released before control goes back to the caller.
func Run(ctx context.Context, in io.Reader, out io.Writer, target Target, fn RunFunc) (*compare.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(target),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	type outcome struct {
		res *compare.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := fn(ctx, func(s compare.Stage) { p.Send(StageMsg{Stage: s}) })
		done <- outcome{res: res, err: err}
		p.Send(DoneMsg{Result: res, Err: err})
	}()

	final, progErr := p.Run()
	if m, ok := final.(Model); !ok || !m.IsFinished() || m.Cancelled() {
		cancel()
	}

	o := <-done
	if o.err != nil {
		return nil, o.err
	}
	if progErr != nil && !errors.Is(progErr, tea.ErrProgramKilled) {
		return nil, progErr
	}
	if m, ok := final.(Model); ok && m.Cancelled() {
		return nil, context.Canceled
	}
	return o.res, nil
}

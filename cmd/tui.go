package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hottest100/internal/tasks"
	"github.com/desertthunder/hottest100/internal/ui"
)

// runTUI runs the sync behind the interactive progress view and returns its outcome after the view exits.
// It does not return while the run is still in flight, so callers may release what the run uses.
func (r *Runner) runTUI(ctx context.Context, run ui.RunFunc) (*tasks.RunResult, error) {
	model := ui.NewModel(ctx, run)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	_, runErr := p.Run()
	model.Stop()

	result, err := model.Result()
	if runErr != nil {
		return result, fmt.Errorf("error running TUI: %w", runErr)
	}
	if result == nil && err == nil {
		err = context.Canceled
	}
	return result, err
}

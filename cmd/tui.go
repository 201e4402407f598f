package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/VladimirStojanovski/MealStack/internal/shared"
	"github.com/VladimirStojanovski/MealStack/internal/ui"
)

// DownloadUI launches the interactive terminal UI for a bulk download.
func (r *Runner) DownloadUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard("/download"); err != nil {
		return err
	}
	if r.coordinator == nil {
		return fmt.Errorf("%w: download coordinator not initialized", shared.ErrServiceUnavailable)
	}

	urls := shared.CleanURLs(cmd.StringSlice("url"))
	if len(urls) == 0 {
		return fmt.Errorf("%w: at least one --url is required", shared.ErrMissingArgument)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mealstack-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	save := func(archive []byte) (string, error) {
		return r.saveArchive(cmd.String("output"), archive)
	}

	model := ui.NewModel(ctx, r.coordinator, urls, save)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

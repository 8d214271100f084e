package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playlistctl/internal/shared"
	"github.com/desertthunder/playlistctl/internal/storage"
	"github.com/desertthunder/playlistctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playlist shell.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.UI.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if cmd.Bool("verbose") {
		shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	}
	r.SetLogger(fileLogger)

	opts := ui.Options{
		Service:    r.service(),
		Logger:     shared.WithLogger(fileLogger, "component", "ui"),
		PageSize:   r.config.UI.PageSize,
		MessageTTL: r.config.UI.MessageTTL(),
	}

	prefs, err := storage.OpenPrefsStore(r.config.UI.PrefsPath)
	if err != nil {
		fileLogger.Warn("view preferences disabled", "path", r.config.UI.PrefsPath, "error", err)
	} else {
		defer prefs.Close()
		opts.Prefs = prefs
	}

	engine, err := r.engine(true)
	if err != nil {
		fileLogger.Warn("snapshots disabled", "error", err)
		if engine, err = r.engine(false); err != nil {
			return err
		}
	}
	opts.Engine = engine

	model := ui.NewModel(ctx, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-arranger/internal/project"
	"github.com/hazadus/go-arranger/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for arranging and playing the project.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx)
		},
	}
}

func (app *Application) launchTUI(ctx context.Context) error {
	p, err := app.loadProject()
	if err != nil {
		return err
	}

	e, err := app.buildEngine(ctx, p)
	if err != nil {
		return err
	}
	defer e.Close()

	// Изменения из TUI сохраняются снимком текущего состояния движка
	saveFunc := func() error {
		return app.saveProject(project.FromEngine(e))
	}

	tuiApp := tui.NewApp(e, saveFunc)
	if err := tuiApp.Run(); err != nil {
		return fmt.Errorf("ошибка TUI: %w", err)
	}

	return nil
}

package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arranger",
		Short: "A command line multitrack audio arranger",
		Long:  `A command line tool to arrange audio clips on parallel tracks and play the result.`,
	}

	// Путь к файлу проекта общий для всех команд
	rootCmd.PersistentFlags().StringVarP(&app.ProjectPath, "project", "p", app.ProjectPath, "path to the project file")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createAddCommand(ctx))
	rootCmd.AddCommand(app.createTracksCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createDownloadCommand(ctx))
	rootCmd.AddCommand(app.createRemoveCommand())
	rootCmd.AddCommand(app.createTUICommand(ctx))

	return rootCmd
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-arranger/internal/utils"
)

// createTracksCommand создает команду tracks с привязкой к экземпляру приложения
func (app *Application) createTracksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "List all tracks of the project",
		Long:  `Display a list of all tracks and their clips from the project file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.listTracks()
		},
	}
}

func (app *Application) listTracks() error {
	p, err := app.loadProject()
	if err != nil {
		return err
	}

	if len(p.Tracks) == 0 {
		fmt.Println("📚 Проект пуст. Добавьте дорожки с помощью команды 'add'.")
		return nil
	}

	fmt.Printf("📚 Проект: %s | Темп: %.0f BPM | Дорожек: %d\n\n", app.ProjectPath, p.Tempo, len(p.Tracks))

	// Выводим заголовок таблицы
	fmt.Printf("%-4s %-26s %-6s %-10s %-8s\n",
		"ID", "Название", "Флаги", "Громкость", "Клипы")
	fmt.Println(strings.Repeat("-", 60))

	// Выводим каждую дорожку с ее клипами
	for _, track := range p.Tracks {
		flags := ""
		if track.Muted {
			flags += "M"
		}
		if track.Solo {
			flags += "S"
		}

		fmt.Printf("%-4d %-26s %-6s %-10s %-8d\n",
			track.ID,
			utils.TruncateString(track.Name, 24),
			flags,
			fmt.Sprintf("%.0f%%", track.Volume*100),
			len(track.Clips))

		for _, clip := range track.Clips {
			fmt.Printf("     └ %-22s %s - %s\n",
				utils.TruncateString(clip.Name, 20),
				utils.FormatSeconds(clip.StartTime),
				utils.FormatSeconds(clip.StartTime+clip.Duration))
		}
	}

	fmt.Println()
	fmt.Println("💡 Используйте 'arranger play' для воспроизведения проекта")
	return nil
}

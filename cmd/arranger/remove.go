package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// createRemoveCommand создает команду remove с привязкой к экземпляру приложения
func (app *Application) createRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [track id]",
		Short: "Remove a track by ID",
		Long:  `Remove a track and all its clips from the project by its ID.`,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("❌ Ошибка: неверный ID '%s'. ID должен быть числом.\n", args[0])
				return
			}
			app.removeTrack(id)
		},
	}
}

func (app *Application) removeTrack(id int) {
	p, err := app.loadProject()
	if err != nil {
		fmt.Printf("❌ Ошибка загрузки проекта: %v\n", err)
		return
	}

	index := -1
	for i, t := range p.Tracks {
		if t.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		fmt.Printf("❌ Ошибка: дорожки с ID %d не найдено\n", id)
		return
	}

	track := p.Tracks[index]
	fmt.Printf("🗑️  Удаляем дорожку: %s (%d клип.)\n", track.Name, len(track.Clips))

	p.Tracks = append(p.Tracks[:index], p.Tracks[index+1:]...)

	// Сохраняем обновленный проект
	if err := app.saveProject(p); err != nil {
		fmt.Printf("❌ Ошибка сохранения проекта: %v\n", err)
		return
	}

	fmt.Println("✅ Дорожка успешно удалена из проекта")
}

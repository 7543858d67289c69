package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-arranger/internal/project"
	"github.com/hazadus/go-arranger/internal/utils"
)

// createAddCommand создает команду add с привязкой к экземпляру приложения
func (app *Application) createAddCommand(ctx context.Context) *cobra.Command {
	var startTime float64
	var trackID int

	cmd := &cobra.Command{
		Use:   "add [file path]",
		Short: "Add an audio file to the project",
		Long: `Import an audio file, upload it to the configured storage and place it
as a clip on a project track. Without --track a new track is created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Создаем контекст с таймаутом для загрузки (10 минут)
			importCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			return app.addClip(importCtx, args[0], trackID, startTime)
		},
	}

	cmd.Flags().Float64Var(&startTime, "at", 0, "clip start time on the timeline, seconds")
	cmd.Flags().IntVar(&trackID, "track", 0, "track ID to place the clip on (0 = new track)")

	return cmd
}

// addClip импортирует аудиофайл и размещает его клипом на дорожке проекта
func (app *Application) addClip(ctx context.Context, filePath string, trackID int, startTime float64) error {
	service, err := app.assetService()
	if err != nil {
		return err
	}

	p, err := app.loadProject()
	if err != nil {
		return err
	}

	fmt.Printf("📤 Импортируем аудиофайл:\n")
	fmt.Printf("   Файл: %s\n", filePath)
	fmt.Println()

	// Создаем канал для отслеживания прогресса загрузки в хранилище
	progressChan := make(chan int64)
	done := make(chan struct{})

	go func() {
		defer close(done)
		startedAt := time.Now()

		for {
			select {
			case progress, ok := <-progressChan:
				if !ok {
					return
				}
				if progress > 0 {
					elapsed := time.Since(startedAt)
					speed := float64(progress) / elapsed.Seconds()
					fmt.Printf("\r📊 Загружено: %s | Скорость: %s/s",
						utils.FormatFileSize(progress),
						utils.FormatFileSize(int64(speed)))
				}
			case <-ctx.Done():
				fmt.Printf("\n🚫 Импорт отменен\n")
				return
			}
		}
	}()

	result, err := service.ImportFile(ctx, filePath, func(bytesRead int64) {
		progressChan <- bytesRead
	})

	close(progressChan)
	<-done

	if err != nil {
		return fmt.Errorf("ошибка импорта файла: %w", err)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("операция отменена: %w", ctx.Err())
	}

	clipName := result.Metadata.Title
	duration := result.FileInfo.Duration.Seconds()

	// Ссылка на аудио в проекте: URL хранилища или локальный путь
	asset := result.Path
	if result.URL != "" {
		asset = result.URL
	}

	// Находим дорожку или создаем новую
	track := findTrack(p, trackID)
	if track == nil {
		p.Tracks = append(p.Tracks, project.Track{
			ID:     nextProjectID(p),
			Name:   clipName,
			Volume: 1.0,
		})
		track = &p.Tracks[len(p.Tracks)-1]
		fmt.Printf("\n🎚 Создана дорожка %d: %s\n", track.ID, track.Name)
	}

	track.Clips = append(track.Clips, project.Clip{
		ID:        nextProjectID(p),
		Name:      clipName,
		TrackID:   track.ID,
		StartTime: startTime,
		Duration:  duration,
		Gain:      1.0,
		Asset:     asset,
	})

	if err := app.saveProject(p); err != nil {
		return fmt.Errorf("ошибка сохранения проекта: %w", err)
	}

	fmt.Printf("\n✅ Клип добавлен в проект!\n")
	fmt.Printf("   Исполнитель: %s\n", result.Metadata.Artist)
	fmt.Printf("   Название: %s\n", result.Metadata.Title)
	fmt.Printf("   Длительность: %s\n", utils.FormatDuration(result.FileInfo.Duration))
	fmt.Printf("   Позиция: %s\n", utils.FormatSeconds(startTime))
	if result.URL != "" {
		fmt.Printf("   URL: %s\n", result.URL)
	}

	return nil
}

// findTrack возвращает дорожку проекта по ID или nil
func findTrack(p *project.Project, trackID int) *project.Track {
	if trackID == 0 {
		return nil
	}
	for i := range p.Tracks {
		if p.Tracks[i].ID == trackID {
			return &p.Tracks[i]
		}
	}
	return nil
}

// nextProjectID выдает следующий свободный идентификатор в проекте
func nextProjectID(p *project.Project) int {
	maxID := 0
	for _, t := range p.Tracks {
		if t.ID > maxID {
			maxID = t.ID
		}
		for _, c := range t.Clips {
			if c.ID > maxID {
				maxID = c.ID
			}
		}
	}
	return maxID + 1
}

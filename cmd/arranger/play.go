package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-arranger/internal/engine"
	"github.com/hazadus/go-arranger/internal/utils"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var from float64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the project",
		Long:  `Play all project tracks mixed together, honoring mute, solo and volume.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.playProject(ctx, from)
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "start position, seconds")

	return cmd
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для воспроизведения
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// readSingleChar читает одиночный символ без ожидания Enter
func readSingleChar() (byte, error) {
	buffer := make([]byte, 1)
	_, err := os.Stdin.Read(buffer)
	return buffer[0], err
}

func (app *Application) playProject(ctx context.Context, from float64) error {
	p, err := app.loadProject()
	if err != nil {
		return err
	}

	if len(p.Tracks) == 0 {
		return fmt.Errorf("проект пуст: добавьте дорожки командой 'add'")
	}

	e, err := app.buildEngine(ctx, p)
	if err != nil {
		return err
	}
	defer e.Close()

	// Общая длительность аранжировки
	var total float64
	for _, t := range e.Tracks() {
		if d := t.Duration(); d > total {
			total = d
		}
	}

	fmt.Printf("🎵 Воспроизводим проект: %s\n", app.ProjectPath)
	fmt.Printf("   Дорожек: %d\n", len(p.Tracks))
	fmt.Printf("   Темп: %.0f BPM\n", e.Tempo())
	fmt.Printf("   Длительность: %s\n", utils.FormatSeconds(total))
	fmt.Println()
	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - пауза/воспроизведение\n")
	fmt.Printf("   [s] - стоп (курсор в начало)\n")
	fmt.Printf("   [Ctrl+C] - выйти\n")
	fmt.Println()

	// Подписываемся на позицию до старта воспроизведения
	posCh := make(chan float64, 16)
	e.OnTimeUpdate(func(position float64) {
		select {
		case posCh <- position:
		default:
		}
	})

	if from > 0 {
		e.Seek(from)
	}
	if err := e.Play(); err != nil {
		return fmt.Errorf("ошибка запуска воспроизведения: %w", err)
	}

	// Включаем raw режим для чтения одиночных клавиш
	enableRawMode()
	defer disableRawMode()

	// Создаем канал для обработки сигналов прерывания
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Запускаем горутину для обработки клавиш
	go func() {
		for {
			char, err := readSingleChar()
			if err != nil {
				continue
			}

			switch char {
			case ' ':
				// Пауза/воспроизведение
				fmt.Printf("\r\033[K") // Очищаем текущую строку
				if e.State() == engine.Playing {
					e.Pause()
					fmt.Printf("⏸️  Пауза\n")
				} else {
					if err := e.Play(); err == nil {
						fmt.Printf("▶️  Воспроизведение\n")
					}
				}
			case 's':
				e.Stop()
				fmt.Printf("\r\033[K⏹  Стоп\n")
			}
		}
	}()

	// Главный цикл обработки событий
	for {
		select {
		case position := <-posCh:
			fmt.Printf("\r⏱️  %s | %s / %s",
				e.FormatPosition(position),
				utils.FormatSeconds(position),
				utils.FormatSeconds(total))

			// Достигли конца аранжировки
			if position >= total {
				e.Stop()
				fmt.Println("\n✅ Воспроизведение завершено")
				return nil
			}
		case <-interrupt:
			fmt.Println("\n⏹️  Воспроизведение остановлено пользователем")
			e.Stop()
			return nil
		case <-ctx.Done():
			fmt.Println("\n🚫 Операция отменена")
			e.Stop()
			return ctx.Err()
		}
	}
}

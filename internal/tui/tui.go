// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-arranger/internal/engine"
	"github.com/hazadus/go-arranger/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	engine   *engine.Engine
	saveFunc func() error // Функция для сохранения проекта
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(e *engine.Engine, saveFunc func() error) *App {
	return &App{
		engine:   e,
		saveFunc: saveFunc,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run() error {
	// Создаем модель для Bubble Tea
	model := app.NewMainModel(tuiApp.engine, tuiApp.saveFunc)

	// Создаем программу Bubble Tea
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Запускаем программу
	_, err := p.Run()

	// Останавливаем воспроизведение после завершения программы
	model.Close()

	return err
}

// Package app содержит основную логику TUI приложения
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-arranger/internal/engine"
	"github.com/hazadus/go-arranger/internal/tui/editor"
	"github.com/hazadus/go-arranger/internal/tui/tracklist"
	"github.com/hazadus/go-arranger/internal/tui/transport"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// TracklistScreen - экран списка дорожек
	TracklistScreen ScreenType = iota
	// TransportScreen - экран управления воспроизведением
	TransportScreen
	// EditorScreen - экран редактирования дорожки
	EditorScreen
)

// MainModel представляет главную модель TUI
type MainModel struct {
	engine         *engine.Engine
	currentScreen  ScreenType
	tracklistModel *tracklist.Model
	transportModel *transport.Model
	editorModel    *editor.Model // Создается при входе в редактор
	saveFunc       func() error  // Функция для сохранения проекта
}

// NewMainModel создает новую главную модель
func NewMainModel(e *engine.Engine, saveFunc func() error) *MainModel {
	return &MainModel{
		engine:         e,
		currentScreen:  TracklistScreen,
		tracklistModel: tracklist.NewModel(e),
		// Модель транспорта живет все время работы TUI: она держит
		// подписки на события движка
		transportModel: transport.NewModel(e),
		saveFunc:       saveFunc,
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.tracklistModel.Init(),
		m.transportModel.Init(),
	)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		switch msg.String() {
		case "ctrl+c":
			// Останавливаем воспроизведение и сохраняем проект перед выходом
			m.engine.Stop()
			if m.saveFunc != nil {
				_ = m.saveFunc()
			}
			return m, tea.Quit
		}

	case tracklist.OpenTransportMsg:
		// Переключаемся на экран транспорта
		m.currentScreen = TransportScreen
		return m, nil

	case tracklist.EditTrackMsg:
		// Открываем редактор выбранной дорожки
		m.editorModel = editor.NewModel(m.engine, msg.Track, m.saveFunc)
		m.currentScreen = EditorScreen
		return m, m.editorModel.Init()

	case editor.GoBackMsg, editor.TrackSavedMsg:
		// Возвращаемся из редактора к списку дорожек
		m.currentScreen = TracklistScreen
		m.editorModel = nil
		m.tracklistModel.RefreshData()
		return m, nil

	case transport.GoBackMsg:
		// Возвращаемся к списку дорожек
		m.currentScreen = TracklistScreen
		m.tracklistModel.RefreshData()
		return m, nil

	case transport.PositionMsg, transport.StateMsg:
		// События движка обрабатывает транспорт независимо от экрана,
		// чтобы не терять цепочку прослушивания
		updatedModel, transportCmd := m.transportModel.Update(msg)
		if transportModel, ok := updatedModel.(*transport.Model); ok {
			m.transportModel = transportModel
		}
		return m, transportCmd

	case tea.WindowSizeMsg:
		// Передаем размеры окна обеим моделям
		var tracklistCmd, transportCmd tea.Cmd
		m.tracklistModel, tracklistCmd = m.tracklistModel.Update(msg)
		updatedModel, transportCmd := m.transportModel.Update(msg)
		if transportModel, ok := updatedModel.(*transport.Model); ok {
			m.transportModel = transportModel
		}
		var editorCmd tea.Cmd
		if m.editorModel != nil {
			m.editorModel, editorCmd = m.editorModel.Update(msg)
		}
		return m, tea.Batch(tracklistCmd, transportCmd, editorCmd)
	}

	// Передаем сообщение активной модели
	switch m.currentScreen {
	case TracklistScreen:
		var tracklistCmd tea.Cmd
		m.tracklistModel, tracklistCmd = m.tracklistModel.Update(msg)
		cmd = tracklistCmd

	case TransportScreen:
		updatedModel, transportCmd := m.transportModel.Update(msg)
		if transportModel, ok := updatedModel.(*transport.Model); ok {
			m.transportModel = transportModel
		}
		cmd = transportCmd

	case EditorScreen:
		if m.editorModel != nil {
			m.editorModel, cmd = m.editorModel.Update(msg)
		}
	}

	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case TracklistScreen:
		return m.tracklistModel.View()

	case TransportScreen:
		return m.transportModel.View()

	case EditorScreen:
		if m.editorModel != nil {
			return m.editorModel.View()
		}
		return ""

	default:
		return "Неизвестный экран"
	}
}

// Close закрывает ресурсы главной модели
func (m *MainModel) Close() {
	m.engine.Stop()
}

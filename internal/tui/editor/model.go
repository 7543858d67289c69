// Package editor содержит модель экрана редактирования дорожки для TUI
package editor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-arranger/internal/engine"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(15)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Margin(1, 0)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

// TrackSavedMsg отправляется когда дорожка успешно сохранена
type TrackSavedMsg struct{}

// GoBackMsg отправляется при отмене редактирования
type GoBackMsg struct{}

// fieldType определяет тип поля для редактирования
type fieldType int

const (
	nameField fieldType = iota
	colorField
	volumeField
	panField
	numFields
)

// Model представляет модель экрана редактирования дорожки
type Model struct {
	engine     *engine.Engine
	track      *engine.Track
	inputs     []textinput.Model
	focusIndex int
	err        string
	success    string
	saveFunc   func() error // Функция для сохранения проекта в файл
}

// NewModel создает новую модель редактора дорожки
func NewModel(e *engine.Engine, track *engine.Track, saveFunc func() error) *Model {
	// Создаем поля ввода
	inputs := make([]textinput.Model, numFields)

	// Поле Name
	inputs[nameField] = textinput.New()
	inputs[nameField].Placeholder = "Введите название дорожки"
	inputs[nameField].SetValue(track.Name)
	inputs[nameField].Focus()
	inputs[nameField].PromptStyle = focusedStyle
	inputs[nameField].TextStyle = focusedStyle

	// Поле Color
	inputs[colorField] = textinput.New()
	inputs[colorField].Placeholder = "Цвет, например #ff8800"
	inputs[colorField].SetValue(track.Color)

	// Поле Volume (в процентах)
	inputs[volumeField] = textinput.New()
	inputs[volumeField].Placeholder = "Громкость в процентах, 0-100"
	inputs[volumeField].SetValue(strconv.Itoa(int(track.Volume*100 + 0.5)))

	// Поле Pan
	inputs[panField] = textinput.New()
	inputs[panField].Placeholder = "Панорама от -1 до 1"
	inputs[panField].SetValue(strconv.FormatFloat(track.Pan, 'f', -1, 64))

	return &Model{
		engine:     e,
		track:      track,
		inputs:     inputs,
		focusIndex: 0,
		saveFunc:   saveFunc,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			// Отменяем редактирование
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "ctrl+s":
			// Сохраняем изменения
			return m, m.saveTrack()

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			// Обработка навигации между полями
			if s == "enter" && m.focusIndex == len(m.inputs) {
				// Enter на кнопке Save
				return m, m.saveTrack()
			}

			// Перемещение фокуса
			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := 0; i < len(m.inputs); i++ {
				if i == m.focusIndex {
					// Устанавливаем фокус на текущее поле
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].PromptStyle = focusedStyle
					m.inputs[i].TextStyle = focusedStyle
				} else {
					// Убираем фокус с остальных полей
					m.inputs[i].Blur()
					m.inputs[i].PromptStyle = blurredStyle
					m.inputs[i].TextStyle = blurredStyle
				}
			}

			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		// Обновляем ширину полей ввода
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 20
		}
		return m, nil
	}

	// Обновляем активное поле ввода
	if m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}

	return m, nil
}

// saveTrack применяет изменения к дорожке движка и сохраняет проект
func (m *Model) saveTrack() tea.Cmd {
	return func() tea.Msg {
		// Валидируем и парсим поля
		name := strings.TrimSpace(m.inputs[nameField].Value())
		color := strings.TrimSpace(m.inputs[colorField].Value())
		volumeStr := strings.TrimSpace(m.inputs[volumeField].Value())
		panStr := strings.TrimSpace(m.inputs[panField].Value())

		// Проверяем обязательные поля
		if name == "" {
			m.err = "Поле 'Название' не может быть пустым"
			m.success = ""
			return nil
		}

		// Парсим громкость в процентах
		volume, err := strconv.ParseFloat(volumeStr, 64)
		if err != nil || volume < 0 || volume > 100 {
			m.err = "Громкость должна быть числом от 0 до 100"
			m.success = ""
			return nil
		}

		// Парсим панораму
		pan, err := strconv.ParseFloat(panStr, 64)
		if err != nil || pan < -1 || pan > 1 {
			m.err = "Панорама должна быть числом от -1 до 1"
			m.success = ""
			return nil
		}

		// Применяем изменения к дорожке движка
		m.track.Name = name
		m.track.Color = color
		m.track.Pan = pan
		m.engine.SetTrackVolume(m.track.ID, volume/100)

		// Сохраняем проект в файл
		if m.saveFunc != nil {
			if err := m.saveFunc(); err != nil {
				m.err = fmt.Sprintf("Ошибка сохранения в файл: %v", err)
				m.success = ""
				return nil
			}
		}

		m.err = ""
		m.success = "Дорожка успешно сохранена!"

		// Возвращаемся к списку дорожек через небольшую задержку
		return tea.Tick(time.Second, func(time.Time) tea.Msg {
			return TrackSavedMsg{}
		})()
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	// Заголовок
	b.WriteString(titleStyle.Render(fmt.Sprintf("Редактирование дорожки #%d", m.track.ID)))
	b.WriteString("\n\n")

	// Поля ввода
	labels := []string{"Название:", "Цвет:", "Громкость, %:", "Панорама:"}

	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	// Кнопка сохранения
	saveButton := "[ Сохранить ]"
	if m.focusIndex == len(m.inputs) {
		saveButton = focusedStyle.Render("[ Сохранить ]")
	} else {
		saveButton = blurredStyle.Render(saveButton)
	}
	b.WriteString(saveButton)
	b.WriteString("\n\n")

	// Сообщения об ошибках или успехе
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	if m.success != "" {
		b.WriteString(successStyle.Render(m.success))
		b.WriteString("\n")
	}

	// Справка
	b.WriteString(helpStyle.Render("Tab/Enter: следующее поле • Shift+Tab: предыдущее поле"))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Ctrl+S: сохранить • Esc: отмена"))

	return b.String()
}

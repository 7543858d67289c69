// Package transport содержит модель экрана управления воспроизведением для TUI
package transport

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-arranger/internal/engine"
	"github.com/hazadus/go-arranger/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	positionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	trackLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// GoBackMsg отправляется для возврата к списку дорожек
type GoBackMsg struct{}

// PositionMsg содержит обновление позиции воспроизведения
type PositionMsg struct {
	Position float64
}

// StateMsg содержит обновление состояния транспорта
type StateMsg struct {
	State engine.State
}

// Model представляет модель экрана транспорта
type Model struct {
	engine      *engine.Engine
	progressBar progress.Model
	position    float64
	state       engine.State
	posCh       chan float64
	stateCh     chan engine.State
	error       error
	width       int
	height      int
}

// NewModel создает новую модель транспорта и подписывается на события движка.
// Модель создается один раз на сессию TUI: подписки движка не отменяются.
func NewModel(e *engine.Engine) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	m := &Model{
		engine:      e,
		progressBar: prog,
		state:       e.State(),
		posCh:       make(chan float64, 16),
		stateCh:     make(chan engine.State, 4),
	}

	// Уведомления приходят из цикла движка: не блокируем его,
	// устаревшие обновления позиции можно терять
	e.OnTimeUpdate(func(position float64) {
		select {
		case m.posCh <- position:
		default:
		}
	})
	e.OnPlayStateChange(func(state engine.State) {
		select {
		case m.stateCh <- state:
		default:
		}
	})

	return m
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenForPosition(),
		m.listenForState(),
	)
}

// totalDuration возвращает длительность самой длинной дорожки
func (m *Model) totalDuration() float64 {
	var total float64
	for _, t := range m.engine.Tracks() {
		if d := t.Duration(); d > total {
			total = d
		}
	}
	return total
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			// Возвращаемся к списку дорожек, не останавливая воспроизведение
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case " ":
			// Пауза/воспроизведение
			if m.engine.State() == engine.Playing {
				m.engine.Pause()
			} else {
				if err := m.engine.Play(); err != nil {
					m.error = err
				}
			}
			return m, nil

		case "s":
			// Стоп: курсор возвращается в начало
			m.engine.Stop()
			return m, nil

		case "left":
			m.engine.Seek(m.engine.Position() - 1)
			m.position = m.engine.Position()
			return m, nil

		case "right":
			m.engine.Seek(m.engine.Position() + 1)
			m.position = m.engine.Position()
			return m, nil
		}

	case PositionMsg:
		m.position = msg.Position

		// Вычисляем прогресс относительно длины аранжировки
		var percent float64
		if total := m.totalDuration(); total > 0 {
			percent = msg.Position / total
			if percent > 1 {
				percent = 1
			}
		}

		return m, tea.Batch(
			m.progressBar.SetPercent(percent),
			m.listenForPosition(),
		)

	case StateMsg:
		m.state = msg.State
		if msg.State != engine.Playing {
			m.position = m.engine.Position()
		}
		return m, m.listenForState()

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View отображает модель
func (m *Model) View() string {
	title := titleStyle.Render("🎚 Транспорт")

	// Состояние транспорта
	var statusIcon string
	switch m.state {
	case engine.Playing:
		statusIcon = "▶️"
	case engine.Paused:
		statusIcon = "⏸️"
	default:
		statusIcon = "⏹"
	}

	// Позиция в тактах и секундах
	positionText := positionStyle.Render(fmt.Sprintf(
		"%s %s  |  %s / %s  |  %.0f BPM",
		statusIcon,
		m.engine.FormatPosition(m.position),
		utils.FormatSeconds(m.position),
		utils.FormatSeconds(m.totalDuration()),
		m.engine.Tempo(),
	))

	// Сводка по дорожкам
	var trackLines string
	for _, t := range m.engine.Tracks() {
		flags := ""
		if t.Muted {
			flags += " [M]"
		}
		if t.Solo {
			flags += " [S]"
		}
		trackLines += trackLineStyle.Render(fmt.Sprintf(
			"  %s%s — %d клип.", utils.TruncateString(t.Name, 24), flags, len(t.Clips()))) + "\n"
	}

	controls := controlsStyle.Render(
		"Пробел: пауза/воспроизведение • s: стоп • ←/→: перемотка • q/esc: к дорожкам",
	)

	view := fmt.Sprintf(
		"%s\n%s\n%s\n\n%s%s",
		title,
		positionText,
		m.progressBar.View(),
		trackLines,
		controls,
	)

	if m.error != nil {
		view += "\n" + errorStyle.Render("❌ "+m.error.Error())
	}

	return view
}

// listenForPosition слушает обновления позиции от движка
func (m *Model) listenForPosition() tea.Cmd {
	return func() tea.Msg {
		return PositionMsg{Position: <-m.posCh}
	}
}

// listenForState слушает смену состояния транспорта
func (m *Model) listenForState() tea.Cmd {
	return func() tea.Msg {
		return StateMsg{State: <-m.stateCh}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

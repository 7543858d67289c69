// Package tracklist содержит модель экрана списка дорожек для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-arranger/internal/engine"
	"github.com/hazadus/go-arranger/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	mutedItemStyle    = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("240"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
)

// OpenTransportMsg отправляется для перехода к экрану транспорта
type OpenTransportMsg struct{}

// EditTrackMsg отправляется для перехода к редактированию дорожки
type EditTrackMsg struct {
	Track *engine.Track
}

// trackItem реализует интерфейс list.Item для дорожки
type trackItem struct {
	track *engine.Track
}

func (i trackItem) FilterValue() string {
	return i.track.Name
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	// Флаги mute и solo
	flags := "  "
	if i.track.Muted {
		flags = "M "
	}
	if i.track.Solo {
		flags = flags[:1] + "S"
	}

	// Форматируем строку: ID | Название | Флаги | Громкость | Клипы | Длительность
	str := fmt.Sprintf("%-4d %-24s [%s] %4.0f%% %2d клип. %s",
		i.track.ID,
		utils.TruncateString(i.track.Name, 24),
		flags,
		i.track.Volume*100,
		len(i.track.Clips()),
		utils.FormatSeconds(i.track.Duration()))

	fn := itemStyle.Render
	if i.track.Muted {
		fn = mutedItemStyle.Render
	}
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана списка дорожек
type Model struct {
	list     list.Model
	engine   *engine.Engine
	quitting bool
}

// NewModel создает новую модель списка дорожек
func NewModel(e *engine.Engine) *Model {
	l := list.New(trackItems(e), trackItemDelegate{}, 0, 0)
	l.Title = "Дорожки"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return &Model{
		list:   l,
		engine: e,
	}
}

// trackItems преобразует дорожки движка в элементы списка
func trackItems(e *engine.Engine) []list.Item {
	tracks := e.Tracks()
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// RefreshData обновляет данные модели без пересоздания
func (m *Model) RefreshData() {
	m.list.SetItems(trackItems(m.engine))
}

// selectedTrack возвращает дорожку под курсором или nil
func (m *Model) selectedTrack() *engine.Track {
	if item, ok := m.list.SelectedItem().(trackItem); ok {
		return item.track
	}
	return nil
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4) // Оставляем место для заголовка и справки
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "enter", "tab":
			// Переходим к экрану транспорта
			return m, func() tea.Msg {
				return OpenTransportMsg{}
			}

		case "e":
			// Переходим к редактированию выбранной дорожки
			if t := m.selectedTrack(); t != nil {
				return m, func() tea.Msg {
					return EditTrackMsg{Track: t}
				}
			}
			return m, nil

		case "m":
			// Переключаем mute выбранной дорожки
			if t := m.selectedTrack(); t != nil {
				m.engine.SetTrackMuted(t.ID, !t.Muted)
				m.RefreshData()
			}
			return m, nil

		case "s":
			// Переключаем solo выбранной дорожки
			if t := m.selectedTrack(); t != nil {
				m.engine.SetTrackSolo(t.ID, !t.Solo)
				m.RefreshData()
			}
			return m, nil

		case "+", "=":
			// Увеличиваем громкость выбранной дорожки
			if t := m.selectedTrack(); t != nil {
				m.engine.SetTrackVolume(t.ID, t.Volume+0.05)
				m.RefreshData()
			}
			return m, nil

		case "-", "_":
			// Уменьшаем громкость выбранной дорожки
			if t := m.selectedTrack(); t != nil {
				m.engine.SetTrackVolume(t.ID, t.Volume-0.05)
				m.RefreshData()
			}
			return m, nil
		}
	}

	// Обновляем список
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if m.quitting {
		return quitTextStyle.Render("До свидания!")
	}

	view := m.list.View()
	// Добавляем дополнительную справку
	extraHelp := helpStyle.Render("Enter: транспорт • e: редактировать • m: mute • s: solo • +/-: громкость • q: выход")
	return view + "\n" + extraHelp
}

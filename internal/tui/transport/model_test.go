package transport

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-arranger/internal/engine"
)

// stubDevice — неактивное устройство для тестов интерфейса
type stubDevice struct{}

func (d *stubDevice) Start() error                  { return nil }
func (d *stubDevice) Ready() bool                   { return false }
func (d *stubDevice) Now() float64                  { return 0 }
func (d *stubDevice) NewSink() (engine.Sink, error) { return nil, engine.ErrDeviceNotReady }
func (d *stubDevice) SetMasterGain(gain float64)    {}
func (d *stubDevice) Play(sink engine.Sink, cmd engine.PlayCommand) engine.Playback {
	return nil
}

func TestNewModel(t *testing.T) {
	e := engine.New(&stubDevice{})

	model := NewModel(e)

	if model == nil {
		t.Fatal("NewModel returned nil")
	}

	if model.state != engine.Stopped {
		t.Errorf("Expected initial state Stopped, got %v", model.state)
	}
}

func TestUpdateWindowSize(t *testing.T) {
	e := engine.New(&stubDevice{})
	model := NewModel(e)

	msg := tea.WindowSizeMsg{Width: 100, Height: 40}
	updatedModel, _ := model.Update(msg)

	transportModel := updatedModel.(*Model)

	if transportModel.width != 100 {
		t.Errorf("Expected width 100, got %d", transportModel.width)
	}

	if transportModel.height != 40 {
		t.Errorf("Expected height 40, got %d", transportModel.height)
	}
}

func TestGoBackKey(t *testing.T) {
	e := engine.New(&stubDevice{})
	model := NewModel(e)

	keyMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	_, cmd := model.Update(keyMsg)

	if cmd == nil {
		t.Fatal("Expected command to be returned for 'q' key")
	}

	if _, ok := cmd().(GoBackMsg); !ok {
		t.Error("Expected GoBackMsg from 'q' key")
	}
}

func TestPlayErrorShown(t *testing.T) {
	e := engine.New(&stubDevice{})
	model := NewModel(e)

	// Устройство не активно: попытка воспроизведения должна показать ошибку
	keyMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	updatedModel, _ := model.Update(keyMsg)

	transportModel := updatedModel.(*Model)
	if transportModel.error == nil {
		t.Fatal("Expected error after play on inactive device")
	}
	if !errors.Is(transportModel.error, engine.ErrDeviceNotReady) {
		t.Errorf("Expected ErrDeviceNotReady, got %v", transportModel.error)
	}
}

func TestPositionMsgUpdatesModel(t *testing.T) {
	e := engine.New(&stubDevice{})
	model := NewModel(e)

	updatedModel, cmd := model.Update(PositionMsg{Position: 2.5})

	transportModel := updatedModel.(*Model)
	if transportModel.position != 2.5 {
		t.Errorf("Expected position 2.5, got %v", transportModel.position)
	}
	if cmd == nil {
		t.Error("Expected command to continue listening for updates")
	}
}

func TestViewContainsPosition(t *testing.T) {
	e := engine.New(&stubDevice{})
	model := NewModel(e)

	view := model.View()
	if view == "" {
		t.Fatal("Expected non-empty view")
	}
}

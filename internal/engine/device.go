package engine

import "errors"

// ErrDeviceNotReady возвращается, когда устройство воспроизведения еще не
// активировано. Вызывающий код должен повторить операцию позже.
var ErrDeviceNotReady = errors.New("устройство воспроизведения не готово")

// Device представляет внешнее устройство воспроизведения с монотонными часами.
// Движок только выдает команды и читает часы; рендеринг звука полностью
// на стороне устройства.
type Device interface {
	// Start активирует устройство. Повторный вызов — no-op.
	Start() error

	// Ready возвращает true, если устройство активировано
	Ready() bool

	// Now возвращает показание монотонных часов устройства в секундах
	Now() float64

	// NewSink создает новый выходной канал (по одному на дорожку)
	NewSink() (Sink, error)

	// SetMasterGain устанавливает общую громкость устройства
	SetMasterGain(gain float64)

	// Play ставит в очередь одноразовую команду воспроизведения.
	// Команда начнет звучать в момент cmd.DeviceStart по часам устройства.
	Play(sink Sink, cmd PlayCommand) Playback
}

// Sink представляет выходной канал дорожки, привязанный к устройству
type Sink interface {
	// SetGain устанавливает линейный гейн канала
	SetGain(gain float64)

	// Close освобождает канал. Дальнейшие команды в него не выдаются.
	Close() error
}

// PlayCommand описывает воспроизведение участка буфера в заданный момент
// времени устройства
type PlayCommand struct {
	Buffer       *Buffer // разделяемый декодированный буфер
	DeviceStart  float64 // момент старта по часам устройства, секунды
	SourceOffset float64 // смещение внутри буфера, секунды
	Duration     float64 // воспроизводимая длительность, секунды
	Gain         float64 // линейный гейн клипа
}

// Playback представляет выданную команду, которую можно отменить
type Playback interface {
	// Cancel отменяет команду. Отмена завершенной или не начавшейся
	// команды — no-op, не ошибка.
	Cancel()
}

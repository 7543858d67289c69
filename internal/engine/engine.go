// Package engine содержит ядро аранжировщика: модель таймлайна (дорожки и
// клипы), разрешение микса mute/solo, темповую сетку, планировщик команд
// воспроизведения и транспорт
package engine

import (
	"context"
	"math"
	"sync"
)

const (
	// DefaultTempo — темп нового проекта
	DefaultTempo = 120.0

	// Границы допустимого темпа, BPM
	MinTempo = 20.0
	MaxTempo = 300.0
)

// Engine — корневой объект движка. Создается приложением один раз на сессию
// и передается всем потребителям; владеет дорожками, темпом, транспортом и
// планировщиком. Все состояние мутирует только поток управления.
type Engine struct {
	mu        sync.RWMutex
	device    Device
	scheduler *Scheduler

	tracks       []*Track
	tempo        float64
	masterVolume float64

	// Транспорт
	state    State
	position float64 // логический курсор, секунды; актуален вне Playing
	epoch    float64 // deviceNow - position на момент старта воспроизведения

	// Цикл уведомлений о позиции
	loopCancel context.CancelFunc

	// Подписчики, уведомляются в порядке регистрации
	timeSubs  []func(position float64)
	stateSubs []func(state State)

	// Счетчик идентификаторов, монотонный в рамках сессии
	nextID int

	// Дорожки, звучавшие при последнем разрешении микса; смена этого
	// множества требует перепланирования
	audible map[int]bool
}

// New создает движок поверх устройства воспроизведения
func New(device Device) *Engine {
	return &Engine{
		device:       device,
		scheduler:    NewScheduler(device),
		tempo:        DefaultTempo,
		masterVolume: 1.0,
		state:        Stopped,
		nextID:       1,
		audible:      make(map[int]bool),
	}
}

// Init активирует устройство воспроизведения и привязывает выходные каналы
// к дорожкам, созданным до активации. Идемпотентен. Если устройство еще
// не может быть активировано, возвращает ошибку — вызывающий код должен
// повторить попытку, а не считать ее фатальной.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.device.Ready() {
		if err := e.device.Start(); err != nil {
			return err
		}
	}

	// Привязываем каналы к дорожкам, оставшимся без них
	for _, t := range e.tracks {
		if t.Sink() == nil {
			sink, err := e.device.NewSink()
			if err != nil {
				return err
			}
			t.AttachSink(sink)
		}
	}

	e.device.SetMasterGain(e.masterVolume)
	e.applyMixLocked()
	return nil
}

// Close останавливает воспроизведение и цикл уведомлений
func (e *Engine) Close() error {
	e.Stop()
	return nil
}

// nextIDLocked выдает следующий идентификатор сессии
func (e *Engine) nextIDLocked() int {
	id := e.nextID
	e.nextID++
	return id
}

// AddTrack создает дорожку и, если устройство активно, сразу привязывает
// к ней выходной канал
func (e *Engine) AddTrack(name string) *Track {
	e.mu.Lock()
	t := NewTrack(e.nextIDLocked(), name)
	if e.device.Ready() {
		if sink, err := e.device.NewSink(); err == nil {
			t.AttachSink(sink)
		}
	}
	e.tracks = append(e.tracks, t)
	e.applyMixLocked()
	e.mu.Unlock()
	return t
}

// RemoveTrack удаляет дорожку, отменяет ее команды и закрывает выходной
// канал. Неизвестный ID — no-op. Политику "хотя бы одна дорожка" движок
// не навязывает: это решение вызывающего кода.
func (e *Engine) RemoveTrack(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, t := range e.tracks {
		if t.ID == id {
			e.scheduler.CancelTrack(id)
			_ = t.DetachSink()
			e.tracks = append(e.tracks[:i], e.tracks[i+1:]...)
			delete(e.audible, id)
			e.applyMixLocked()
			return
		}
	}
}

// GetTrack возвращает дорожку по ID или nil
func (e *Engine) GetTrack(id int) *Track {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trackByIDLocked(id)
}

// Tracks возвращает дорожки в порядке создания
func (e *Engine) Tracks() []*Track {
	e.mu.RLock()
	defer e.mu.RUnlock()
	tracks := make([]*Track, len(e.tracks))
	copy(tracks, e.tracks)
	return tracks
}

func (e *Engine) trackByIDLocked(id int) *Track {
	for _, t := range e.tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// NewClip создает клип поверх буфера с новым идентификатором сессии.
// Клип еще не размещен ни на одной дорожке.
func (e *Engine) NewClip(name string, buffer *Buffer) *Clip {
	e.mu.Lock()
	defer e.mu.Unlock()
	return NewClip(e.nextIDLocked(), name, buffer)
}

// CloneClip создает копию клипа с новой идентичностью и общим буфером
func (e *Engine) CloneClip(c *Clip) *Clip {
	e.mu.Lock()
	defer e.mu.Unlock()
	return c.Clone(e.nextIDLocked())
}

// AddClip размещает клип на дорожке. Неизвестная дорожка — no-op.
func (e *Engine) AddClip(trackID int, c *Clip) {
	e.mu.Lock()
	t := e.trackByIDLocked(trackID)
	if t == nil {
		e.mu.Unlock()
		return
	}
	t.AddClip(c)
	e.rescheduleLocked()
	e.mu.Unlock()
}

// RemoveClip удаляет клип с любой дорожки. Неизвестный ID — no-op.
func (e *Engine) RemoveClip(clipID int) {
	e.mu.Lock()
	for _, t := range e.tracks {
		if t.ClipByID(clipID) != nil {
			t.RemoveClip(clipID)
			e.rescheduleLocked()
			break
		}
	}
	e.mu.Unlock()
}

// MoveClip переносит клип на новую позицию таймлайна, восстанавливая
// сортировку клипов дорожки
func (e *Engine) MoveClip(clipID int, startTime float64) {
	e.mu.Lock()
	for _, t := range e.tracks {
		if c := t.ClipByID(clipID); c != nil {
			c.SetStartTime(startTime)
			t.sortClips()
			e.rescheduleLocked()
			break
		}
	}
	e.mu.Unlock()
}

// SetTrackVolume устанавливает громкость дорожки и сразу доставляет
// разрешенный гейн в ее выходной канал
func (e *Engine) SetTrackVolume(trackID int, volume float64) {
	e.mu.Lock()
	if t := e.trackByIDLocked(trackID); t != nil {
		t.SetVolume(volume)
		if e.applyMixLocked() {
			e.rescheduleLocked()
		}
	}
	e.mu.Unlock()
}

// SetTrackMuted устанавливает mute дорожки. Если дорожка при этом
// становится слышимой или замолкает, воспроизведение перепланируется.
func (e *Engine) SetTrackMuted(trackID int, muted bool) {
	e.mu.Lock()
	if t := e.trackByIDLocked(trackID); t != nil {
		t.SetMuted(muted)
		if e.applyMixLocked() {
			e.rescheduleLocked()
		}
	}
	e.mu.Unlock()
}

// SetTrackSolo устанавливает solo дорожки с перепланированием при смене
// множества слышимых дорожек
func (e *Engine) SetTrackSolo(trackID int, solo bool) {
	e.mu.Lock()
	if t := e.trackByIDLocked(trackID); t != nil {
		t.SetSolo(solo)
		if e.applyMixLocked() {
			e.rescheduleLocked()
		}
	}
	e.mu.Unlock()
}

// SetTempo устанавливает темп, ограничивая его диапазоном [MinTempo,
// MaxTempo]. NaN и бесконечность отвергаются без изменения состояния.
func (e *Engine) SetTempo(bpm float64) {
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return
	}
	if bpm < MinTempo {
		bpm = MinTempo
	}
	if bpm > MaxTempo {
		bpm = MaxTempo
	}
	e.mu.Lock()
	e.tempo = bpm
	e.mu.Unlock()
}

// Tempo возвращает текущий темп в BPM
func (e *Engine) Tempo() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tempo
}

// SetMasterVolume устанавливает общую громкость, ограничивая ее [0, 1]
func (e *Engine) SetMasterVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	e.mu.Lock()
	e.masterVolume = v
	if e.device.Ready() {
		e.device.SetMasterGain(v)
	}
	e.mu.Unlock()
}

// MasterVolume возвращает общую громкость
func (e *Engine) MasterVolume() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.masterVolume
}

// Grid возвращает темповую сетку для текущего темпа
func (e *Engine) Grid() TimeGrid {
	return TimeGrid{Tempo: e.Tempo()}
}

// FormatPosition форматирует позицию в секундах как "BBB:BB:TTT"
// для текущего темпа
func (e *Engine) FormatPosition(seconds float64) string {
	return e.Grid().FormatPosition(seconds)
}

// Snap притягивает момент времени к темповой сетке
func (e *Engine) Snap(t, fraction float64) float64 {
	return e.Grid().Snap(t, fraction)
}

// OnTimeUpdate регистрирует подписчика на обновления позиции.
// Подписчики уведомляются в порядке регистрации.
func (e *Engine) OnTimeUpdate(fn func(position float64)) {
	e.mu.Lock()
	e.timeSubs = append(e.timeSubs, fn)
	e.mu.Unlock()
}

// OnPlayStateChange регистрирует подписчика на смену состояния транспорта
func (e *Engine) OnPlayStateChange(fn func(state State)) {
	e.mu.Lock()
	e.stateSubs = append(e.stateSubs, fn)
	e.mu.Unlock()
}

// PendingCommands возвращает количество невыполненных команд дорожки
// (используется в тестах и диагностике)
func (e *Engine) PendingCommands(trackID int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scheduler.PendingCount(trackID)
}

// applyMixLocked разрешает гейны всех дорожек и доставляет их в привязанные
// каналы. Возвращает true, если множество слышимых дорожек изменилось —
// в этом случае при активном воспроизведении требуется перепланирование.
func (e *Engine) applyMixLocked() bool {
	gains := ResolveGains(e.tracks)
	changed := false
	for _, t := range e.tracks {
		gain := gains[t.ID]
		if sink := t.Sink(); sink != nil {
			sink.SetGain(gain)
		}
		nowAudible := gain > 0
		if e.audible[t.ID] != nowAudible {
			e.audible[t.ID] = nowAudible
			changed = true
		}
	}
	return changed
}

// rescheduleLocked перепланирует воспроизведение с текущей позиции,
// если транспорт в состоянии Playing
func (e *Engine) rescheduleLocked() {
	if e.state != Playing || !e.device.Ready() {
		return
	}
	now := e.device.Now()
	e.scheduler.Reschedule(e.tracks, now-e.epoch, now)
}

// Reschedule принудительно перепланирует воспроизведение с текущей позиции.
// Вызывается UI после правок таймлайна, сделанных напрямую на клипах.
func (e *Engine) Reschedule() {
	e.mu.Lock()
	e.rescheduleLocked()
	e.mu.Unlock()
}

// notifyPosition уведомляет подписчиков о позиции. Вызывается без
// удержания мьютекса.
func (e *Engine) notifyPosition(position float64) {
	e.mu.RLock()
	subs := make([]func(float64), len(e.timeSubs))
	copy(subs, e.timeSubs)
	e.mu.RUnlock()
	for _, fn := range subs {
		fn(position)
	}
}

// notifyState уведомляет подписчиков о смене состояния транспорта
func (e *Engine) notifyState(state State) {
	e.mu.RLock()
	subs := make([]func(State), len(e.stateSubs))
	copy(subs, e.stateSubs)
	e.mu.RUnlock()
	for _, fn := range subs {
		fn(state)
	}
}

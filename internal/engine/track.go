package engine

import "sort"

// Track представляет дорожку: упорядоченный набор клипов плюс состояние
// микширования. Выходной канал привязывается к дорожке один раз на все
// время ее жизни (двухфазный цикл: сначала конструирование, затем привязка).
type Track struct {
	ID     int
	Name   string
	Color  string  // косметика для UI
	Volume float64 // [0, 1]
	Pan    float64 // [-1, 1]; планировщиком не используется, микшируется устройством
	Muted  bool
	Solo   bool

	clips []*Clip
	sink  Sink
}

// NewTrack создает дорожку без привязанного выходного канала
func NewTrack(id int, name string) *Track {
	return &Track{
		ID:     id,
		Name:   name,
		Volume: 1.0,
	}
}

// AttachSink привязывает выходной канал к дорожке.
// Уже привязанная дорожка не перепривязывается.
func (t *Track) AttachSink(sink Sink) {
	if t.sink != nil {
		return
	}
	t.sink = sink
}

// DetachSink отвязывает и закрывает выходной канал дорожки
func (t *Track) DetachSink() error {
	if t.sink == nil {
		return nil
	}
	err := t.sink.Close()
	t.sink = nil
	return err
}

// Sink возвращает привязанный выходной канал (nil, если не привязан)
func (t *Track) Sink() Sink {
	return t.sink
}

// AddClip добавляет клип на дорожку. Клипы всегда поддерживаются
// отсортированными по возрастанию StartTime; пересечения по времени допустимы.
func (t *Track) AddClip(c *Clip) {
	c.TrackID = t.ID
	t.clips = append(t.clips, c)
	t.sortClips()
}

// RemoveClip удаляет клип по ID. Отсутствующий клип — no-op.
func (t *Track) RemoveClip(id int) {
	for i, c := range t.clips {
		if c.ID == id {
			t.clips = append(t.clips[:i], t.clips[i+1:]...)
			return
		}
	}
}

// ClipByID возвращает клип по ID или nil
func (t *Track) ClipByID(id int) *Clip {
	for _, c := range t.clips {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Clips возвращает клипы дорожки в порядке возрастания StartTime
func (t *Track) Clips() []*Clip {
	return t.clips
}

// Duration возвращает занятую протяженность дорожки: максимум
// StartTime+Duration по всем клипам, 0 для пустой дорожки.
// Используется, чтобы определить, куда дописывать импортированные клипы.
func (t *Track) Duration() float64 {
	duration := 0.0
	for _, c := range t.clips {
		if end := c.End(); end > duration {
			duration = end
		}
	}
	return duration
}

// SetVolume устанавливает громкость дорожки, ограничивая ее диапазоном [0, 1]
func (t *Track) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	t.Volume = v
}

// SetMuted устанавливает флаг mute
func (t *Track) SetMuted(muted bool) {
	t.Muted = muted
}

// SetSolo устанавливает флаг solo
func (t *Track) SetSolo(solo bool) {
	t.Solo = solo
}

// sortClips восстанавливает инвариант сортировки по StartTime
func (t *Track) sortClips() {
	sort.SliceStable(t.clips, func(i, j int) bool {
		return t.clips[i].StartTime < t.clips[j].StartTime
	})
}

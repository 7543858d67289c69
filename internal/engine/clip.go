package engine

import "math"

// MinClipDuration — минимальная длительность клипа в секундах
const MinClipDuration = 0.1

// Clip представляет участок буфера, размещенный на таймлайне дорожки.
// Идентичность клипа неизменна, позиция — нет.
type Clip struct {
	ID        int     // уникальный в рамках сессии, назначается движком
	Name      string  // отображаемое имя
	TrackID   int     // ID дорожки-владельца (0 — не привязан)
	StartTime float64 // позиция на таймлайне, секунды, >= 0
	Offset    float64 // смещение внутри буфера, секунды, >= 0
	Duration  float64 // длительность, секунды, > 0
	Gain      float64 // линейный гейн, по умолчанию 1.0
	Selected  bool    // флаг выделения в UI, на воспроизведение не влияет

	buffer *Buffer

	// Кэш пиков волновой формы, инвалидируется при смене количества корзин
	peaks []float64
}

// NewClip создает клип, покрывающий буфер целиком
func NewClip(id int, name string, buffer *Buffer) *Clip {
	return &Clip{
		ID:       id,
		Name:     name,
		Duration: buffer.Duration(),
		Gain:     1.0,
		buffer:   buffer,
	}
}

// Buffer возвращает разделяемый буфер клипа
func (c *Clip) Buffer() *Buffer {
	return c.buffer
}

// SetStartTime устанавливает позицию клипа на таймлайне, не давая ей
// уйти в отрицательную область
func (c *Clip) SetStartTime(t float64) {
	if t < 0 {
		t = 0
	}
	c.StartTime = t
}

// Move сдвигает клип на delta секунд
func (c *Clip) Move(delta float64) {
	c.SetStartTime(c.StartTime + delta)
}

// SetDuration устанавливает длительность клипа, ограничивая ее диапазоном
// [MinClipDuration, длина буфера - смещение]
func (c *Clip) SetDuration(d float64) {
	maxDuration := c.buffer.Duration() - c.Offset
	if d > maxDuration {
		d = maxDuration
	}
	if d < MinClipDuration {
		d = MinClipDuration
	}
	c.Duration = d
}

// End возвращает момент окончания клипа на таймлайне
func (c *Clip) End() float64 {
	return c.StartTime + c.Duration
}

// Clone создает независимую копию клипа с новой идентичностью.
// Буфер разделяется, привязка к дорожке сбрасывается.
func (c *Clip) Clone(id int) *Clip {
	return &Clip{
		ID:        id,
		Name:      c.Name,
		StartTime: c.StartTime,
		Offset:    c.Offset,
		Duration:  c.Duration,
		Gain:      c.Gain,
		buffer:    c.buffer,
	}
}

// WaveformPeaks возвращает ровно n пиков волновой формы: максимум модуля
// сэмпла первого канала в каждом из n последовательных окон. Результат
// кэшируется до запроса с другим n.
func (c *Clip) WaveformPeaks(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if len(c.peaks) == n {
		return c.peaks
	}

	total := c.buffer.NumSamples()
	window := total / n
	peaks := make([]float64, n)

	for i := 0; i < n; i++ {
		start := i * window
		end := start + window
		if end > total {
			end = total
		}
		peak := 0.0
		for j := start; j < end; j++ {
			if v := math.Abs(c.buffer.Sample(j)[0]); v > peak {
				peak = v
			}
		}
		peaks[i] = peak
	}

	c.peaks = peaks
	return peaks
}

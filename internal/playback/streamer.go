package playback

import (
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/hazadus/go-arranger/internal/engine"
)

// bufferStreamer стримит участок неизменяемого буфера движка.
// Буфер читается без синхронизации: он не мутирует после декодирования.
type bufferStreamer struct {
	buffer *engine.Buffer
	pos    int // текущий сэмпл
	end    int // сэмпл за концом участка
}

// Stream реализует beep.Streamer
func (b *bufferStreamer) Stream(samples [][2]float64) (int, bool) {
	if b.pos >= b.end {
		return 0, false
	}
	n := 0
	for i := range samples {
		if b.pos >= b.end {
			break
		}
		samples[i] = b.buffer.Sample(b.pos)
		b.pos++
		n++
	}
	return n, true
}

// Err реализует beep.Streamer; у буфера ошибок не бывает
func (b *bufferStreamer) Err() error {
	return nil
}

// clockStreamer оборачивает главный стример устройства и считает отданные
// в динамики сэмплы. Счетчик и есть монотонные часы устройства: он растет
// только когда рендер действительно читает сэмплы, поэтому показания
// совпадают с воспроизводимой позицией с точностью до сэмпла.
type clockStreamer struct {
	inner   beep.Streamer
	samples atomic.Int64
}

// Stream реализует beep.Streamer. Главный микшер заполняет недостающие
// сэмплы тишиной и никогда не завершается, поэтому часы идут всегда.
func (c *clockStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := c.inner.Stream(samples)
	c.samples.Add(int64(n))
	return n, ok
}

// Err реализует beep.Streamer
func (c *clockStreamer) Err() error {
	return nil
}

// Samples возвращает количество сэмплов, отданных в динамики с момента старта
func (c *clockStreamer) Samples() int64 {
	return c.samples.Load()
}

// stoppable оборачивает стример отменяемым флагом: после Cancel стример
// сообщает о завершении, и микшер отбрасывает его. Отмена идемпотентна
// и безопасна из потока управления, пока рендер читает стример.
type stoppable struct {
	inner   beep.Streamer
	stopped atomic.Bool
}

// Stream реализует beep.Streamer
func (s *stoppable) Stream(samples [][2]float64) (int, bool) {
	if s.stopped.Load() {
		return 0, false
	}
	return s.inner.Stream(samples)
}

// Err реализует beep.Streamer
func (s *stoppable) Err() error {
	return nil
}

// Cancel реализует engine.Playback
func (s *stoppable) Cancel() {
	s.stopped.Store(true)
}

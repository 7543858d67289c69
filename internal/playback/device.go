// Package playback реализует устройство воспроизведения движка поверх
// beep/speaker. Устройство ведет монотонные часы по количеству отданных
// в динамики сэмплов и исполняет команды планировщика с точностью до сэмпла.
package playback

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/hazadus/go-arranger/internal/engine"
)

// DefaultSampleRate — частота дискретизации устройства по умолчанию
const DefaultSampleRate = 44100

// Device — устройство воспроизведения на основе beep/speaker.
// Реализует engine.Device.
type Device struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	master     *beep.Mixer
	masterGain *effects.Gain
	clock      *clockStreamer
	ready      bool
}

// NewDevice создает устройство. Динамики не инициализируются до Start:
// это внешний активационный шлюз, до которого временнЫе операции движка
// откладываются.
func NewDevice(sampleRate int) *Device {
	master := &beep.Mixer{}
	return &Device{
		sampleRate: beep.SampleRate(sampleRate),
		master:     master,
		masterGain: &effects.Gain{Streamer: master, Gain: 0},
	}
}

// Start инициализирует динамики и запускает главный микшер с часами.
// Повторный вызов — no-op.
func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ready {
		return nil
	}

	err := speaker.Init(d.sampleRate, d.sampleRate.N(time.Second/10))
	if err != nil {
		return fmt.Errorf("ошибка инициализации динамиков: %w", err)
	}

	// Часы устройства: обертка считает сэмплы, отданные в динамики.
	// Главный микшер молчит, пока нет команд, поэтому часы идут всегда.
	d.clock = &clockStreamer{inner: d.masterGain}
	speaker.Play(d.clock)

	d.ready = true
	return nil
}

// Ready возвращает true после успешного Start
func (d *Device) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

// Now возвращает показание монотонных часов устройства в секундах.
// До активации часы стоят на нуле.
func (d *Device) Now() float64 {
	d.mu.Lock()
	clock := d.clock
	d.mu.Unlock()
	if clock == nil {
		return 0
	}
	return float64(clock.Samples()) / float64(d.sampleRate)
}

// SetMasterGain устанавливает общую громкость устройства
func (d *Device) SetMasterGain(gain float64) {
	d.mu.Lock()
	ready := d.ready
	d.mu.Unlock()
	if !ready {
		return
	}
	speaker.Lock()
	// effects.Gain умножает сэмпл на (1 + Gain)
	d.masterGain.Gain = gain - 1
	speaker.Unlock()
}

// NewSink создает выходной канал дорожки: собственный микшер с гейном,
// подмешанный в главный микшер устройства
func (d *Device) NewSink() (engine.Sink, error) {
	d.mu.Lock()
	ready := d.ready
	d.mu.Unlock()
	if !ready {
		return nil, engine.ErrDeviceNotReady
	}

	mixer := &beep.Mixer{}
	gain := &effects.Gain{Streamer: mixer, Gain: 0}
	wrapper := &stoppable{inner: gain}

	speaker.Lock()
	d.master.Add(wrapper)
	speaker.Unlock()

	return &trackSink{mixer: mixer, gain: gain, wrapper: wrapper}, nil
}

// Play ставит в очередь одноразовую команду: тишина до момента старта,
// затем участок буфера с гейном клипа. Возвращенный дескриптор отменяет
// команду идемпотентно.
func (d *Device) Play(sink engine.Sink, cmd engine.PlayCommand) engine.Playback {
	ts, ok := sink.(*trackSink)
	if !ok || !d.Ready() || cmd.Buffer == nil {
		return noopPlayback{}
	}

	bufRate := beep.SampleRate(cmd.Buffer.SampleRate())
	startSample := int(math.Round(cmd.SourceOffset * float64(bufRate)))
	endSample := startSample + int(math.Round(cmd.Duration*float64(bufRate)))
	if endSample > cmd.Buffer.NumSamples() {
		endSample = cmd.Buffer.NumSamples()
	}
	if startSample >= endSample {
		return noopPlayback{}
	}

	var s beep.Streamer = &bufferStreamer{
		buffer: cmd.Buffer,
		pos:    startSample,
		end:    endSample,
	}
	if cmd.Gain != 1 {
		s = &effects.Gain{Streamer: s, Gain: cmd.Gain - 1}
	}
	if bufRate != d.sampleRate {
		s = beep.Resample(4, bufRate, d.sampleRate, s)
	}

	delay := int(math.Round((cmd.DeviceStart - d.Now()) * float64(d.sampleRate)))
	if delay > 0 {
		s = beep.Seq(beep.Silence(delay), s)
	}

	playback := &stoppable{inner: s}
	speaker.Lock()
	ts.mixer.Add(playback)
	speaker.Unlock()
	return playback
}

// Close сбрасывает все звучащие команды устройства
func (d *Device) Close() error {
	d.mu.Lock()
	ready := d.ready
	d.mu.Unlock()
	if ready {
		speaker.Clear()
	}
	return nil
}

// trackSink — выходной канал дорожки
type trackSink struct {
	mixer   *beep.Mixer
	gain    *effects.Gain
	wrapper *stoppable
	closed  bool
}

// SetGain устанавливает линейный гейн канала
func (s *trackSink) SetGain(gain float64) {
	if s.closed {
		return
	}
	speaker.Lock()
	s.gain.Gain = gain - 1
	speaker.Unlock()
}

// Close выводит канал из главного микшера; микшер отбрасывает
// завершившиеся стримеры сам
func (s *trackSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.wrapper.Cancel()
	return nil
}

// noopPlayback — дескриптор невыданной команды
type noopPlayback struct{}

func (noopPlayback) Cancel() {}

package engine

// Поддельное устройство воспроизведения для тестов ядра: команды только
// записываются, часы двигаются вручную.

type fakeDevice struct {
	ready      bool
	now        float64
	masterGain float64
	sinks      []*fakeSink
	commands   []issuedCommand
}

type issuedCommand struct {
	sink     *fakeSink
	cmd      PlayCommand
	playback *fakePlayback
}

type fakeSink struct {
	gain   float64
	closed bool
}

type fakePlayback struct {
	canceled bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{ready: true}
}

func (d *fakeDevice) Start() error {
	d.ready = true
	return nil
}

func (d *fakeDevice) Ready() bool {
	return d.ready
}

func (d *fakeDevice) Now() float64 {
	return d.now
}

// advance двигает часы устройства вперед на dt секунд
func (d *fakeDevice) advance(dt float64) {
	d.now += dt
}

func (d *fakeDevice) NewSink() (Sink, error) {
	s := &fakeSink{gain: 1}
	d.sinks = append(d.sinks, s)
	return s, nil
}

func (d *fakeDevice) SetMasterGain(gain float64) {
	d.masterGain = gain
}

func (d *fakeDevice) Play(sink Sink, cmd PlayCommand) Playback {
	p := &fakePlayback{}
	d.commands = append(d.commands, issuedCommand{
		sink:     sink.(*fakeSink),
		cmd:      cmd,
		playback: p,
	})
	return p
}

// activeCommands возвращает выданные и не отмененные команды
func (d *fakeDevice) activeCommands() []issuedCommand {
	var active []issuedCommand
	for _, c := range d.commands {
		if !c.playback.canceled {
			active = append(active, c)
		}
	}
	return active
}

func (s *fakeSink) SetGain(gain float64) {
	s.gain = gain
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

func (p *fakePlayback) Cancel() {
	p.canceled = true
}

// almostEqual сравнивает числа с точностью до микросекунды
func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-6
}

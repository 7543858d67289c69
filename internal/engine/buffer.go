package engine

// Buffer хранит декодированные сэмплы аудиофайла. Буфер неизменяем после
// создания: его безопасно читают и поток управления, и рендер устройства
// без синхронизации. Несколько клипов могут разделять один буфер.
type Buffer struct {
	samples    [][2]float64
	sampleRate int
	source     string
}

// NewBuffer создает буфер из декодированных сэмплов.
// source — путь или URL исходного файла (используется при сохранении проекта).
func NewBuffer(samples [][2]float64, sampleRate int, source string) *Buffer {
	return &Buffer{
		samples:    samples,
		sampleRate: sampleRate,
		source:     source,
	}
}

// NumSamples возвращает количество сэмплов в буфере
func (b *Buffer) NumSamples() int {
	return len(b.samples)
}

// SampleRate возвращает частоту дискретизации буфера
func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

// Sample возвращает сэмпл по индексу (левый и правый каналы)
func (b *Buffer) Sample(i int) [2]float64 {
	return b.samples[i]
}

// Duration возвращает длительность буфера в секундах
func (b *Buffer) Duration() float64 {
	if b.sampleRate == 0 {
		return 0
	}
	return float64(len(b.samples)) / float64(b.sampleRate)
}

// Source возвращает путь или URL исходного файла буфера
func (b *Buffer) Source() string {
	return b.source
}

// Package audiofile декодирует аудиофайлы в буферы движка и извлекает
// их метаданные
package audiofile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	"github.com/hazadus/go-arranger/internal/engine"
)

// Metadata хранит метаданные аудиофайла
type Metadata struct {
	Artist string
	Title  string
	Album  string
}

// FileInfo содержит информацию о файле
type FileInfo struct {
	Size       int64
	Duration   time.Duration
	SampleRate int
}

// Loader декодирует аудиофайлы в буферы движка
type Loader struct{}

// NewLoader создает новый загрузчик
func NewLoader() *Loader {
	return &Loader{}
}

// decodeChunkSize — размер порции чтения при декодировании, сэмплов
const decodeChunkSize = 4096

// Decode декодирует файл целиком в неизменяемый буфер движка.
// Поддерживаются mp3 и wav; формат определяется по расширению.
func (l *Loader) Decode(filePath string) (*engine.Buffer, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".wav":
		streamer, format, err = wav.Decode(file)
	default:
		return nil, fmt.Errorf("неподдерживаемый формат файла: %s", filepath.Ext(filePath))
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования: %w", err)
	}
	defer streamer.Close()

	// Вычитываем весь поток в память: клипы ссылаются на общий буфер
	samples := make([][2]float64, 0, streamer.Len())
	chunk := make([][2]float64, decodeChunkSize)
	for {
		n, ok := streamer.Stream(chunk)
		samples = append(samples, chunk[:n]...)
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения потока: %w", err)
	}

	return engine.NewBuffer(samples, int(format.SampleRate), filePath), nil
}

// Metadata извлекает метаданные из файла. При ошибке чтения тегов
// используются значения, выведенные из имени файла.
func (l *Loader) Metadata(filePath string) Metadata {
	file, err := os.Open(filePath)
	if err != nil {
		return l.defaultMetadata(filePath)
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return l.defaultMetadata(filePath)
	}

	m := Metadata{
		Artist: metadata.Artist(),
		Title:  metadata.Title(),
		Album:  metadata.Album(),
	}
	if m.Title == "" {
		m.Title = l.defaultMetadata(filePath).Title
	}
	return m
}

// Info возвращает размер и длительность файла
func (l *Loader) Info(filePath string) (*FileInfo, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	buffer, err := l.Decode(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения длительности: %w", err)
	}

	return &FileInfo{
		Size:       stat.Size(),
		Duration:   time.Duration(buffer.Duration() * float64(time.Second)),
		SampleRate: buffer.SampleRate(),
	}, nil
}

// defaultMetadata выводит метаданные из имени файла в формате "Artist - Title"
func (l *Loader) defaultMetadata(source string) Metadata {
	fileName := filepath.Base(source)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	parts := strings.Split(nameWithoutExt, " - ")
	if len(parts) >= 2 {
		return Metadata{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " - ")),
		}
	}

	return Metadata{
		Artist: "Unknown Artist",
		Title:  nameWithoutExt,
	}
}

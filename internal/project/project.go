// Package project отвечает за сохранение и загрузку проектов аранжировки
// в формате YAML
package project

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hazadus/go-arranger/internal/engine"
)

type Clip struct {
	ID        int     `yaml:"id"`
	Name      string  `yaml:"name"`
	TrackID   int     `yaml:"track_id"`
	StartTime float64 `yaml:"start_time"` // Позиция клипа на таймлайне в секундах
	Offset    float64 `yaml:"offset"`     // Смещение от начала исходного буфера
	Duration  float64 `yaml:"duration"`
	Gain      float64 `yaml:"gain"`
	Asset     string  `yaml:"asset"` // Путь к исходному аудиофайлу
}

type Track struct {
	ID     int     `yaml:"id"`
	Name   string  `yaml:"name"`
	Color  string  `yaml:"color"`
	Volume float64 `yaml:"volume"`
	Pan    float64 `yaml:"pan"`
	Muted  bool    `yaml:"muted"`
	Solo   bool    `yaml:"solo"`
	Clips  []Clip  `yaml:"clips"`
}

type Project struct {
	Tempo        float64 `yaml:"tempo"`
	MasterVolume float64 `yaml:"master_volume"`
	Tracks       []Track `yaml:"tracks"`
}

// NewProject создает новый пустой проект
func NewProject() *Project {
	return &Project{
		Tempo:        engine.DefaultTempo,
		MasterVolume: 1.0,
		Tracks:       make([]Track, 0),
	}
}

// Load загружает проект из файла
func (p *Project) Load(filePath string) error {
	path, err := expandPath(filePath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Если файл не найден, инициализируем пустым проектом
		if os.IsNotExist(err) {
			*p = *NewProject()
			return nil
		}
		return fmt.Errorf("ошибка чтения файла проекта: %w", err)
	}
	if len(data) == 0 {
		*p = *NewProject()
		return nil
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return fmt.Errorf("ошибка разбора проекта: %w", err)
	}
	return nil
}

// Save сохраняет проект в файл
func (p *Project) Save(filePath string) error {
	path, err := expandPath(filePath)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("ошибка сериализации проекта: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла проекта: %w", err)
	}
	return nil
}

// FromEngine снимает текущее состояние движка в сериализуемый проект.
// Для каждого клипа сохраняется путь к исходному файлу его буфера.
func FromEngine(e *engine.Engine) *Project {
	p := NewProject()
	p.Tempo = e.Tempo()
	p.MasterVolume = e.MasterVolume()

	for _, t := range e.Tracks() {
		track := Track{
			ID:     t.ID,
			Name:   t.Name,
			Color:  t.Color,
			Volume: t.Volume,
			Pan:    t.Pan,
			Muted:  t.Muted,
			Solo:   t.Solo,
			Clips:  make([]Clip, 0),
		}
		for _, c := range t.Clips() {
			track.Clips = append(track.Clips, Clip{
				ID:        c.ID,
				Name:      c.Name,
				TrackID:   t.ID,
				StartTime: c.StartTime,
				Offset:    c.Offset,
				Duration:  c.Duration,
				Gain:      c.Gain,
				Asset:     c.Buffer().Source(),
			})
		}
		p.Tracks = append(p.Tracks, track)
	}
	return p
}

// Apply восстанавливает состояние движка из проекта. Буферы клипов
// загружаются через переданную функцию по пути к исходному файлу.
func (p *Project) Apply(e *engine.Engine, load func(asset string) (*engine.Buffer, error)) error {
	e.SetTempo(p.Tempo)
	e.SetMasterVolume(p.MasterVolume)

	for _, t := range p.Tracks {
		track := e.AddTrack(t.Name)
		track.Color = t.Color
		track.Pan = t.Pan
		e.SetTrackVolume(track.ID, t.Volume)
		e.SetTrackMuted(track.ID, t.Muted)
		e.SetTrackSolo(track.ID, t.Solo)

		for _, c := range t.Clips {
			buffer, err := load(c.Asset)
			if err != nil {
				return fmt.Errorf("ошибка загрузки аудио для клипа '%s': %w", c.Name, err)
			}
			clip := e.NewClip(c.Name, buffer)
			clip.StartTime = c.StartTime
			clip.Offset = c.Offset
			clip.SetDuration(c.Duration)
			clip.Gain = c.Gain
			e.AddClip(track.ID, clip)
		}
	}
	return nil
}

// expandPath заменяет "~" на домашнюю директорию пользователя
func expandPath(filePath string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(filePath, "~", home, 1), nil
}

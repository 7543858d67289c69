package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazadus/go-arranger/internal/config"
	"github.com/hazadus/go-arranger/internal/project"
)

// captureOutput перехватывает stdout и stderr во время выполнения функции
func captureOutput(t *testing.T, fn func()) string {
	// Сохраняем оригинальные stdout и stderr
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	// Создаем временные файлы для перехвата
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Ошибка создания pipe: %v", err)
	}

	// Перенаправляем stdout и stderr
	os.Stdout = w
	os.Stderr = w

	// Выполняем функцию
	fn()

	// Восстанавливаем оригинальные stdout и stderr
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	// Закрываем writer
	w.Close()

	// Читаем результат
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("Ошибка чтения результата: %v", err)
	}

	return buf.String()
}

// createTestApplication создает тестовое приложение с временным файлом проекта
func createTestApplication(t *testing.T, tempDir string) *Application {
	// Создаем тестовую конфигурацию без S3, чтобы не обращаться к хранилищу
	testConfig := &config.Config{
		AssetsDir:    tempDir,
		DefaultTempo: 120,
	}

	return &Application{
		Config:      testConfig,
		ProjectPath: filepath.Join(tempDir, "project.yaml"),
	}
}

// saveTestProject сохраняет проект в файл тестового приложения
func saveTestProject(t *testing.T, app *Application, p *project.Project) {
	if err := p.Save(app.ProjectPath); err != nil {
		t.Fatalf("Ошибка сохранения тестового проекта: %v", err)
	}
}

// TestCmdTracks проверяет, что команда `tracks` корректно выводит дорожки проекта
func TestCmdTracks(t *testing.T) {
	// Создаем временную директорию для тестов
	tempDir := t.TempDir()

	// Создаем тестовое приложение
	app := createTestApplication(t, tempDir)

	// Сохраняем проект с одной дорожкой и клипом
	p := project.NewProject()
	p.Tracks = append(p.Tracks, project.Track{
		ID:     1,
		Name:   "Drums",
		Volume: 0.8,
		Muted:  true,
		Clips: []project.Clip{
			{
				ID:        2,
				Name:      "Kick Loop",
				StartTime: 1.5,
				Duration:  4,
				Gain:      1.0,
				Asset:     filepath.Join(tempDir, "kick.wav"),
			},
		},
	})
	saveTestProject(t, app, p)

	// Создаем команду tracks
	tracksCmd := app.createTracksCommand()

	// Захватываем вывод с помощью captureOutput
	output := captureOutput(t, func() {
		tracksCmd.SetArgs([]string{})
		if err := tracksCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды tracks: %v", err)
		}
	})

	// Проверяем вывод
	expectedStrings := []string{
		"Дорожек: 1",
		"Drums",
		"M",
		"80%",
		"Kick Loop",
		"00:01 - 00:05",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Вывод команды tracks не содержит ожидаемую строку '%s': %s", expected, output)
		}
	}
}

// TestCmdTracksEmpty проверяет, что команда `tracks` корректно обрабатывает пустой проект
func TestCmdTracksEmpty(t *testing.T) {
	// Создаем временную директорию для тестов
	tempDir := t.TempDir()

	// Создаем тестовое приложение с пустым проектом
	app := createTestApplication(t, tempDir)

	// Создаем команду tracks
	tracksCmd := app.createTracksCommand()

	// Захватываем вывод с помощью captureOutput
	output := captureOutput(t, func() {
		tracksCmd.SetArgs([]string{})
		if err := tracksCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды tracks: %v", err)
		}
	})

	// Проверяем вывод для пустого проекта
	if !strings.Contains(output, "📚 Проект пуст") {
		t.Errorf("Команда tracks не отобразила сообщение о пустом проекте: %s", output)
	}
}

// TestCmdRemove проверяет, что команда `remove` удаляет указанную дорожку
func TestCmdRemove(t *testing.T) {
	// Создаем временную директорию для тестов
	tempDir := t.TempDir()

	// Создаем тестовое приложение
	app := createTestApplication(t, tempDir)

	// Сохраняем проект с двумя дорожками
	p := project.NewProject()
	p.Tracks = append(p.Tracks,
		project.Track{ID: 1, Name: "Drums", Volume: 1.0},
		project.Track{ID: 2, Name: "Bass", Volume: 1.0},
	)
	saveTestProject(t, app, p)

	// Создаем команду remove
	removeCmd := app.createRemoveCommand()

	// Захватываем вывод с помощью captureOutput
	output := captureOutput(t, func() {
		removeCmd.SetArgs([]string{"1"})
		if err := removeCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды remove: %v", err)
		}
	})

	// Проверяем вывод
	if !strings.Contains(output, "🗑️  Удаляем дорожку: Drums") {
		t.Errorf("Команда remove не отобразила ожидаемый вывод: %s", output)
	}

	// Проверяем, что дорожка была удалена из файла проекта
	reloaded, err := app.loadProject()
	if err != nil {
		t.Fatalf("Ошибка загрузки проекта после удаления: %v", err)
	}

	if len(reloaded.Tracks) != 1 {
		t.Fatalf("Ожидалась 1 дорожка после удаления, получено %d", len(reloaded.Tracks))
	}

	if reloaded.Tracks[0].Name != "Bass" {
		t.Errorf("Ожидалась дорожка Bass, получено: %s", reloaded.Tracks[0].Name)
	}
}

// TestCmdRemoveInvalidID проверяет обработку неверного ID в команде remove
func TestCmdRemoveInvalidID(t *testing.T) {
	// Создаем временную директорию для тестов
	tempDir := t.TempDir()

	// Создаем тестовое приложение
	app := createTestApplication(t, tempDir)

	// Создаем команду remove
	removeCmd := app.createRemoveCommand()

	// Захватываем вывод с помощью captureOutput
	output := captureOutput(t, func() {
		removeCmd.SetArgs([]string{"invalid"})
		if err := removeCmd.Execute(); err != nil {
			t.Errorf("Команда remove завершилась с ошибкой при неверном ID: %v", err)
		}
	})

	// Проверяем вывод об ошибке
	if !strings.Contains(output, "❌ Ошибка: неверный ID") {
		t.Errorf("Команда remove не отобразила ошибку для неверного ID: %s", output)
	}
}

// TestCmdRemoveMissingTrack проверяет обработку несуществующей дорожки в команде remove
func TestCmdRemoveMissingTrack(t *testing.T) {
	// Создаем временную директорию для тестов
	tempDir := t.TempDir()

	// Создаем тестовое приложение с пустым проектом
	app := createTestApplication(t, tempDir)

	// Создаем команду remove
	removeCmd := app.createRemoveCommand()

	// Захватываем вывод с помощью captureOutput
	output := captureOutput(t, func() {
		removeCmd.SetArgs([]string{"42"})
		if err := removeCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды remove: %v", err)
		}
	})

	// Проверяем вывод об ошибке
	if !strings.Contains(output, "❌ Ошибка: дорожки с ID 42 не найдено") {
		t.Errorf("Команда remove не отобразила ошибку для несуществующей дорожки: %s", output)
	}
}

// TestCmdDownloadInvalidURL проверяет обработку неверного URL в команде download
func TestCmdDownloadInvalidURL(t *testing.T) {
	// Создаем временную директорию для тестов
	tempDir := t.TempDir()

	// Создаем тестовое приложение
	app := createTestApplication(t, tempDir)

	// Создаем команду download
	ctx := context.Background()
	downloadCmd := app.createDownloadCommand(ctx)
	downloadCmd.SilenceUsage = true
	downloadCmd.SilenceErrors = true

	// Выполняем команду с неверным URL
	downloadCmd.SetArgs([]string{"invalid-url"})
	err := downloadCmd.Execute()

	// Проверяем результат
	if err == nil {
		t.Fatal("Ожидалась ошибка при выполнении команды download с неверным URL")
	}

	if !strings.Contains(err.Error(), "ошибка извлечения ID видео") {
		t.Errorf("Неожиданная ошибка команды download: %v", err)
	}
}

// TestExtractVideoID проверяет извлечение ID видео из различных форматов URL
func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"Полный URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"Короткий URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"Embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"Только ID", "dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"Неверный URL", "https://example.com/video", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractVideoID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("extractVideoID(%q) ожидалась ошибка, получено %q", tt.url, got)
				}
				return
			}
			if err != nil {
				t.Errorf("extractVideoID(%q) вернула ошибку: %v", tt.url, err)
				return
			}
			if got != tt.want {
				t.Errorf("extractVideoID(%q) = %q, ожидалось %q", tt.url, got, tt.want)
			}
		})
	}
}

// TestSanitizeFileName проверяет очистку имени файла от недопустимых символов
func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Simple Name", "Simple Name"},
		{`Name/With\Slashes`, "Name_With_Slashes"},
		{"Name: With * Special?", "Name_ With _ Special_"},
		{"  Spaces  ", "Spaces"},
	}

	for _, tt := range tests {
		got := sanitizeFileName(tt.input)
		if got != tt.want {
			t.Errorf("sanitizeFileName(%q) = %q, ожидалось %q", tt.input, got, tt.want)
		}
	}
}

// TestCmdAddInvalidArgs проверяет обработку неверных аргументов в команде add
func TestCmdAddInvalidArgs(t *testing.T) {
	// Создаем временную директорию для тестов
	tempDir := t.TempDir()

	// Создаем тестовое приложение
	app := createTestApplication(t, tempDir)

	// Создаем команду add
	ctx := context.Background()
	addCmd := app.createAddCommand(ctx)

	// Захватываем вывод
	var buf bytes.Buffer
	addCmd.SetOut(&buf)
	addCmd.SetErr(&buf)

	// Выполняем команду без аргументов
	err := addCmd.Execute()

	// Проверяем, что команда отображает ошибку о неверных аргументах
	if err == nil {
		t.Error("Ожидалась ошибка при выполнении команды add без аргументов")
	}

	// Проверяем вывод об ошибке
	output := buf.String()
	if !strings.Contains(output, "requires exactly 1 arg") && !strings.Contains(output, "accepts 1 arg") {
		t.Errorf("Команда add не отобразила ошибку о неверных аргументах: %s", output)
	}
}

// Package assets управляет аудиофайлами проекта: импорт, локальный кэш
// и синхронизация с удаленным хранилищем
package assets

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazadus/go-arranger/internal/audiofile"
	"github.com/hazadus/go-arranger/internal/engine"
	"github.com/hazadus/go-arranger/internal/streaming"
)

// fetchBufferSize — размер буфера чтения при скачивании файлов
const fetchBufferSize = 256 * 1024

// Remote — удаленное хранилище аудиофайлов (реализуется s3.Storage)
type Remote interface {
	UploadFile(ctx context.Context, reader io.Reader, key string) (string, error)
	DownloadFile(ctx context.Context, key string, localPath string) error
}

// Service управляет аудиофайлами проекта
type Service struct {
	remote    Remote // nil, если удаленное хранилище не настроено
	loader    *audiofile.Loader
	assetsDir string
}

// NewService создает новый сервис аудиофайлов
func NewService(remote Remote, assetsDir string) *Service {
	return &Service{
		remote:    remote,
		loader:    audiofile.NewLoader(),
		assetsDir: assetsDir,
	}
}

// ImportResult содержит результат импорта аудиофайла
type ImportResult struct {
	Path     string // Локальный путь к файлу
	URL      string // URL в удаленном хранилище, если файл был загружен
	Metadata audiofile.Metadata
	FileInfo *audiofile.FileInfo
}

// ImportFile регистрирует аудиофайл в проекте: извлекает метаданные и,
// если настроено удаленное хранилище, загружает файл в него
func (s *Service) ImportFile(ctx context.Context, filePath string, progressCallback func(int64)) (*ImportResult, error) {
	// Проверяем существование файла
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("файл не найден: %s", filePath)
	}

	// Получаем информацию о файле
	fileInfo, err := s.loader.Info(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	// Извлекаем метаданные
	meta := s.loader.Metadata(filePath)

	result := &ImportResult{
		Path:     filePath,
		Metadata: meta,
		FileInfo: fileInfo,
	}

	if s.remote == nil {
		return result, nil
	}

	// Открываем файл для загрузки в хранилище
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	// Создаем reader с отслеживанием прогресса
	var reader io.Reader = file
	if progressCallback != nil {
		reader = &ProgressReader{
			Reader:     file,
			Size:       fileInfo.Size,
			OnProgress: progressCallback,
		}
	}

	uploadedURL, err := s.remote.UploadFile(ctx, reader, filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в хранилище: %w", err)
	}
	result.URL = uploadedURL

	return result, nil
}

// Resolve превращает ссылку на аудиофайл из проекта в декодированный буфер.
// Локальные файлы декодируются напрямую, HTTP-ссылки скачиваются в кэш,
// остальное запрашивается из удаленного хранилища по ключу.
func (s *Service) Resolve(ctx context.Context, asset string) (*engine.Buffer, error) {
	if _, err := os.Stat(asset); err == nil {
		return s.loader.Decode(asset)
	}

	if strings.HasPrefix(asset, "http://") || strings.HasPrefix(asset, "https://") {
		localPath, err := s.Fetch(ctx, asset)
		if err != nil {
			return nil, err
		}
		return s.loader.Decode(localPath)
	}

	if s.remote != nil {
		localPath := filepath.Join(s.assetsDir, filepath.Base(asset))
		if _, err := os.Stat(localPath); os.IsNotExist(err) {
			if err := os.MkdirAll(s.assetsDir, 0755); err != nil {
				return nil, fmt.Errorf("ошибка создания кэша: %w", err)
			}
			if err := s.remote.DownloadFile(ctx, asset, localPath); err != nil {
				return nil, err
			}
		}
		return s.loader.Decode(localPath)
	}

	return nil, fmt.Errorf("аудиофайл недоступен: %s", asset)
}

// Fetch скачивает файл по HTTP в локальный кэш и возвращает путь к нему.
// Повторное скачивание уже закэшированного файла не выполняется.
func (s *Service) Fetch(ctx context.Context, fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("некорректный URL: %w", err)
	}

	localPath := filepath.Join(s.assetsDir, filepath.Base(parsed.Path))
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	if err := os.MkdirAll(s.assetsDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания кэша: %w", err)
	}

	reader, err := streaming.NewReader(ctx, fileURL, fetchBufferSize)
	if err != nil {
		return "", fmt.Errorf("ошибка скачивания файла: %w", err)
	}
	defer reader.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("ошибка создания локального файла: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		// Не оставляем недокачанный файл в кэше
		os.Remove(localPath)
		return "", fmt.Errorf("ошибка сохранения файла: %w", err)
	}

	return localPath, nil
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}

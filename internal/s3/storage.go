// Package s3 предоставляет хранилище аудиофайлов проекта поверх Amazon S3
package s3

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

// Storage обертка для S3: загрузка, скачивание и удаление аудиофайлов
type Storage struct {
	s3Uploader   *s3manager.Uploader
	s3Downloader *s3manager.Downloader
	s3Client     *s3.S3
	config       *Config
}

// NewStorage создает новое S3-хранилище
func NewStorage(config *Config) (*Storage, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return &Storage{
		s3Uploader:   s3manager.NewUploader(sess),
		s3Downloader: s3manager.NewDownloader(sess),
		s3Client:     s3.New(sess),
		config:       config,
	}, nil
}

// UploadFile загружает файл в S3
func (s *Storage) UploadFile(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := s.s3Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
		Body:   reader,
	})

	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}

	// Формируем URL файла
	url := fmt.Sprintf("%s/%s/%s", s.config.Endpoint, s.config.BucketName, key)
	return url, nil
}

// DownloadFile скачивает файл из S3 в локальный файл
func (s *Storage) DownloadFile(ctx context.Context, key string, localPath string) error {
	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("ошибка создания локального файла: %w", err)
	}
	defer file.Close()

	_, err = s.s3Downloader.DownloadWithContext(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		// Не оставляем пустой файл после неудачного скачивания
		os.Remove(localPath)
		return fmt.Errorf("ошибка скачивания файла из S3: %w", err)
	}

	return nil
}

// DeleteFile удаляет файл из S3
func (s *Storage) DeleteFile(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	})

	if err != nil {
		return fmt.Errorf("ошибка удаления файла из S3: %w", err)
	}

	return nil
}

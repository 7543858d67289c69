package main

import (
	"context"
	"fmt"

	"github.com/hazadus/go-arranger/internal/assets"
	"github.com/hazadus/go-arranger/internal/config"
	"github.com/hazadus/go-arranger/internal/engine"
	"github.com/hazadus/go-arranger/internal/playback"
	"github.com/hazadus/go-arranger/internal/project"
	"github.com/hazadus/go-arranger/internal/s3"
)

// Application хранит состояние приложения: конфигурацию и путь к проекту.
// Команды работают с проектом через методы приложения.
type Application struct {
	Config      *config.Config
	ProjectPath string
}

// loadProject загружает проект из файла приложения
func (app *Application) loadProject() (*project.Project, error) {
	p := project.NewProject()
	if err := p.Load(app.ProjectPath); err != nil {
		return nil, err
	}
	return p, nil
}

// saveProject сохраняет проект в файл приложения
func (app *Application) saveProject(p *project.Project) error {
	return p.Save(app.ProjectPath)
}

// assetService создает сервис аудиофайлов. Удаленное хранилище подключается
// только при заполненной конфигурации S3.
func (app *Application) assetService() (*assets.Service, error) {
	var remote assets.Remote

	if app.Config.AwsBucketName != "" {
		storage, err := s3.NewStorage(&s3.Config{
			Region:     app.Config.AwsRegion,
			AccessKey:  app.Config.AwsAccessKey,
			SecretKey:  app.Config.AwsSecretKey,
			Endpoint:   app.Config.AwsEndpoint,
			BucketName: app.Config.AwsBucketName,
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания S3 хранилища: %w", err)
		}
		remote = storage
	}

	return assets.NewService(remote, app.Config.AssetsDir), nil
}

// buildEngine создает движок с устройством воспроизведения и восстанавливает
// в нем состояние проекта
func (app *Application) buildEngine(ctx context.Context, p *project.Project) (*engine.Engine, error) {
	device := playback.NewDevice(playback.DefaultSampleRate)
	e := engine.New(device)

	if err := e.Init(); err != nil {
		return nil, fmt.Errorf("ошибка активации устройства воспроизведения: %w", err)
	}

	service, err := app.assetService()
	if err != nil {
		return nil, err
	}

	err = p.Apply(e, func(asset string) (*engine.Buffer, error) {
		return service.Resolve(ctx, asset)
	})
	if err != nil {
		return nil, err
	}

	return e, nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hazadus/go-arranger/internal/config"
)

const (
	defaultConfigPath  = "~/.arranger"
	defaultProjectPath = "~/arranger.yaml"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(defaultConfigPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	app := &Application{
		Config:      cfg,
		ProjectPath: defaultProjectPath,
	}

	rootCmd := app.createRootCommand(context.Background())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

package main

import (
	"log"
	"log/slog"
	"os"

	"pipeline-inspector/config"
	telegram "pipeline-inspector/internal/api"
	"pipeline-inspector/internal/container"
	"pipeline-inspector/internal/domain/port"
	"pipeline-inspector/internal/infrastructure/camera"
	"pipeline-inspector/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// Калибровка камеры необязательна, без неё физические координаты не выводятся
	var cam port.Camera
	if cfg.Camera != nil {
		cam = camera.NewStaticCamera(cfg.Camera.UnitsPerPixelX, cfg.Camera.UnitsPerPixelY, cfg.Camera.Units)
	}

	appContainer := container.New(container.Options{
		Runner:     vision.NewRunner(cfg.StageLengthUnit),
		Camera:     cam,
		Logger:     logger,
		TrueColors: cfg.DisplayTrueColors,
	})

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}

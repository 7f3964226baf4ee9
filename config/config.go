package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"pipeline-inspector/internal/domain/entity"
)

// Camera калибровка камеры из окружения
type Camera struct {
	UnitsPerPixelX float64
	UnitsPerPixelY float64
	Units          entity.LengthUnit
}

type Config struct {
	TelegramToken     string
	LogLevel          slog.Level
	DisplayTrueColors bool
	Camera            *Camera            // nil, если калибровка не задана
	StageLengthUnit   *entity.LengthUnit // единицы для стадий с геометрией
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		DisplayTrueColors: true,
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	if v := os.Getenv("DISPLAY_TRUE_COLORS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("DISPLAY_TRUE_COLORS: %w", err)
		}
		cfg.DisplayTrueColors = enabled
	}

	camera, err := loadCamera()
	if err != nil {
		return nil, err
	}
	cfg.Camera = camera

	if v := os.Getenv("STAGE_LENGTH_UNIT"); v != "" {
		unit, err := entity.ParseLengthUnit(v)
		if err != nil {
			return nil, fmt.Errorf("STAGE_LENGTH_UNIT: %w", err)
		}
		cfg.StageLengthUnit = &unit
	}

	return cfg, nil
}

func loadCamera() (*Camera, error) {
	x, y := os.Getenv("CAMERA_UNITS_PER_PIXEL_X"), os.Getenv("CAMERA_UNITS_PER_PIXEL_Y")
	if x == "" && y == "" {
		return nil, nil
	}
	if y == "" {
		y = x
	}
	if x == "" {
		x = y
	}

	cam := &Camera{Units: entity.Millimeters}
	var err error
	if cam.UnitsPerPixelX, err = strconv.ParseFloat(strings.TrimSpace(x), 64); err != nil {
		return nil, fmt.Errorf("CAMERA_UNITS_PER_PIXEL_X: %w", err)
	}
	if cam.UnitsPerPixelY, err = strconv.ParseFloat(strings.TrimSpace(y), 64); err != nil {
		return nil, fmt.Errorf("CAMERA_UNITS_PER_PIXEL_Y: %w", err)
	}
	if v := os.Getenv("CAMERA_UNITS"); v != "" {
		if cam.Units, err = entity.ParseLengthUnit(v); err != nil {
			return nil, fmt.Errorf("CAMERA_UNITS: %w", err)
		}
	}
	return cam, nil
}

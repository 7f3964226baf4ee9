package port

import (
	"image"
	"image/color"

	"pipeline-inspector/internal/domain/entity"
)

// ColorNormalizer приводит изображение к каноническому BGR для отображения
type ColorNormalizer interface {
	// Normalize не меняет входное изображение. При несовпадении пространства и
	// числа каналов возвращает вход без изменений и ошибку entity.ErrColorSpaceMismatch.
	Normalize(img *entity.Image, colorSpace entity.ColorSpace) (*entity.Image, error)
}

// PixelSampler возвращает цвет, видимый пользователем в точке
type PixelSampler interface {
	SampleAt(p image.Point) (color.Color, bool)
}

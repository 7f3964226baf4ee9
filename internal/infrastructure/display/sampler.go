package display

import (
	"image"
	"image/color"

	"pipeline-inspector/internal/domain/entity"
	"pipeline-inspector/internal/domain/port"
)

// ImageSampler берёт цвет из показанного изображения, а не с экрана
type ImageSampler struct {
	img image.Image
}

// NewImageSampler создаёт сэмплер поверх канонического BGR изображения.
// Для nil изображения сэмплер ничего не возвращает.
func NewImageSampler(img *entity.Image) *ImageSampler {
	if img.Empty() {
		return &ImageSampler{}
	}
	return &ImageSampler{img: img.ToImage()}
}

// SampleAt цвет пикселя или false вне изображения
func (s *ImageSampler) SampleAt(p image.Point) (color.Color, bool) {
	if s.img == nil || !p.In(s.img.Bounds()) {
		return nil, false
	}
	return s.img.At(p.X, p.Y), true
}

var _ port.PixelSampler = (*ImageSampler)(nil)

//go:build !gocv
// +build !gocv

package colorspace

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"pipeline-inspector/internal/domain/entity"
)

// Normalizer переводит изображения в BGR средствами go-colorful
type Normalizer struct{}

// NewNormalizer создаёт нормализатор без OpenCV
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize возвращает новое BGR изображение, вход не меняется
func (n *Normalizer) Normalize(img *entity.Image, colorSpace entity.ColorSpace) (*entity.Image, error) {
	if img == nil || colorSpace == entity.ColorSpaceNone {
		return img, nil
	}
	if err := checkChannels(img, colorSpace); err != nil {
		return img, err
	}
	if passthrough(img, colorSpace) {
		return img, nil
	}

	switch colorSpace {
	case entity.ColorSpaceRgb:
		out := img.Clone()
		for i := 0; i+2 < len(out.Pix); i += 3 {
			out.Pix[i], out.Pix[i+2] = out.Pix[i+2], out.Pix[i]
		}
		return out, nil
	case entity.ColorSpaceHls, entity.ColorSpaceHlsFull:
		return convert(img, colorSpace.HueRange(), func(h, l, s float64) colorful.Color {
			return colorful.Hsl(h, s, l)
		}), nil
	case entity.ColorSpaceHsv, entity.ColorSpaceHsvFull:
		return convert(img, colorSpace.HueRange(), colorful.Hsv), nil
	}
	return img, nil
}

// convert применяет цилиндрическое преобразование к каждому пикселю.
// Первый канал тон в диапазоне [0, hueRange), остальные 0-255.
func convert(img *entity.Image, hueRange float64, toColor func(h, a, b float64) colorful.Color) *entity.Image {
	out := entity.NewImage(img.Width, img.Height, 3)
	for i := 0; i+2 < len(img.Pix); i += 3 {
		h := math.Mod(float64(img.Pix[i])*360/hueRange, 360)
		c := toColor(h, float64(img.Pix[i+1])/255, float64(img.Pix[i+2])/255)
		r, g, b := c.Clamped().RGB255()
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = b, g, r
	}
	return out
}

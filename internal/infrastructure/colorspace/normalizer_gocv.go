//go:build gocv
// +build gocv

package colorspace

import (
	"errors"

	"gocv.io/x/gocv"

	"pipeline-inspector/internal/domain/entity"
)

var cvtCodes = map[entity.ColorSpace]gocv.ColorConversionCode{
	entity.ColorSpaceHls:     gocv.ColorHLSToBGR,
	entity.ColorSpaceHlsFull: gocv.ColorHLSToBGRFull,
	entity.ColorSpaceHsv:     gocv.ColorHSVToBGR,
	entity.ColorSpaceHsvFull: gocv.ColorHSVToBGRFull,
}

// Normalizer переводит изображения в BGR средствами OpenCV
type Normalizer struct{}

// NewNormalizer создаёт нормализатор на gocv
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize возвращает новое BGR изображение. Все Mat освобождаются до возврата.
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

	mat, err := ToMat(img)
	if err != nil {
		return img, err
	}
	defer mat.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	if colorSpace == entity.ColorSpaceRgb {
		// меняем местами каналы 0 и 2
		channels := gocv.Split(mat)
		for i := range channels {
			defer channels[i].Close()
		}
		if len(channels) != 3 {
			return img, errors.New("unexpected channel split")
		}
		gocv.Merge([]gocv.Mat{channels[2], channels[1], channels[0]}, &dst)
		return FromMat(dst), nil
	}

	code, ok := cvtCodes[colorSpace]
	if !ok {
		return img, nil
	}
	gocv.CvtColor(mat, &dst, code)
	return FromMat(dst), nil
}

// ToMat копирует изображение в новый Mat, владельцем которого становится вызывающий
func ToMat(img *entity.Image) (gocv.Mat, error) {
	mt := gocv.MatTypeCV8UC3
	if img.Channels == 1 {
		mt = gocv.MatTypeCV8UC1
	}
	view, err := gocv.NewMatFromBytes(img.Height, img.Width, mt, img.Pix)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer view.Close()
	return view.Clone(), nil
}

// FromMat копирует пиксели Mat в изображение
func FromMat(mat gocv.Mat) *entity.Image {
	return &entity.Image{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Pix:      mat.ToBytes(),
	}
}

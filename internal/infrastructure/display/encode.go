package display

import (
	"bytes"
	"errors"

	"github.com/disintegration/imaging"

	"pipeline-inspector/internal/domain/entity"
)

// MaxSide ограничение стороны картинки при отправке
const MaxSide = 1280

// EncodePNG кодирует изображение для отправки, большие картинки уменьшаются
func EncodePNG(img *entity.Image) ([]byte, error) {
	if img.Empty() {
		return nil, errors.New("empty image")
	}

	out := img.ToImage()
	if img.Width > MaxSide || img.Height > MaxSide {
		out = imaging.Fit(out, MaxSide, MaxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

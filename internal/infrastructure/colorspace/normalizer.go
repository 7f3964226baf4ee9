// Package colorspace приводит результаты стадий к каноническому BGR для отображения.
//
// По умолчанию собирается реализация на go-colorful. С тегом gocv
// преобразования выполняет OpenCV.
package colorspace

import (
	"fmt"

	"pipeline-inspector/internal/domain/entity"
)

// checkChannels проверяет, что заявленное пространство применимо к изображению.
// Одноканальное изображение допустимо только как Gray.
func checkChannels(img *entity.Image, colorSpace entity.ColorSpace) error {
	if img.Channels == 3 || colorSpace == entity.ColorSpaceGray {
		return nil
	}
	return fmt.Errorf("%w: expecting %s image but it has %d channel(s)",
		entity.ErrColorSpaceMismatch, colorSpace, img.Channels)
}

// passthrough сообщает, что преобразование не требуется
func passthrough(img *entity.Image, colorSpace entity.ColorSpace) bool {
	return img.Empty() ||
		colorSpace == entity.ColorSpaceNone ||
		colorSpace == entity.ColorSpaceGray ||
		colorSpace == entity.ColorSpaceBgr
}

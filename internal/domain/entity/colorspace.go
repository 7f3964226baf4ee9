package entity

import "errors"

// ColorSpace цветовое пространство, в котором стадия отдала изображение
type ColorSpace int

const (
	ColorSpaceNone    ColorSpace = iota // не задано
	ColorSpaceGray                      // один канал яркости
	ColorSpaceBgr                       // канонический порядок для отображения
	ColorSpaceRgb                       // красный и синий переставлены
	ColorSpaceHls                       // H 0-180, L, S
	ColorSpaceHlsFull                   // H 0-255, L, S
	ColorSpaceHsv                       // H 0-180, S, V
	ColorSpaceHsvFull                   // H 0-255, S, V
)

// ErrColorSpaceMismatch заявленное пространство не совпадает с числом каналов
var ErrColorSpaceMismatch = errors.New("color space does not match channel count")

var colorSpaceNames = map[ColorSpace]string{
	ColorSpaceNone:    "None",
	ColorSpaceGray:    "Gray",
	ColorSpaceBgr:     "Bgr",
	ColorSpaceRgb:     "Rgb",
	ColorSpaceHls:     "Hls",
	ColorSpaceHlsFull: "HlsFull",
	ColorSpaceHsv:     "Hsv",
	ColorSpaceHsvFull: "HsvFull",
}

func (c ColorSpace) String() string {
	if name, ok := colorSpaceNames[c]; ok {
		return name
	}
	return "Unknown"
}

// HueRange верхняя граница канала тона для HLS/HSV пространств
func (c ColorSpace) HueRange() float64 {
	switch c {
	case ColorSpaceHlsFull, ColorSpaceHsvFull:
		return 255
	case ColorSpaceHls, ColorSpaceHsv:
		return 180
	}
	return 0
}

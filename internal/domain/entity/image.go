package entity

import (
	"image"
	"image/color"
)

// Image растровое изображение с побайтовыми каналами, строки подряд без выравнивания.
// Порядок каналов определяется цветовым пространством результата.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewImage создаёт изображение, заполненное нулями
func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// Clone возвращает независимую копию изображения
func (img *Image) Clone() *Image {
	if img == nil {
		return nil
	}
	pix := make([]byte, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{Width: img.Width, Height: img.Height, Channels: img.Channels, Pix: pix}
}

// Empty сообщает, что в изображении нет пикселей
func (img *Image) Empty() bool {
	return img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) == 0
}

// Offset индекс первого канала пикселя (x, y)
func (img *Image) Offset(x, y int) int {
	return (y*img.Width + x) * img.Channels
}

// In проверяет, что точка лежит внутри изображения
func (img *Image) In(p image.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < img.Width && p.Y < img.Height
}

// ToImage превращает изображение в каноническом BGR (или сером) виде в image.Image
func (img *Image) ToImage() image.Image {
	rect := image.Rect(0, 0, img.Width, img.Height)
	if img.Channels == 1 {
		gray := image.NewGray(rect)
		copy(gray.Pix, img.Pix)
		return gray
	}

	out := image.NewNRGBA(rect)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := img.Offset(x, y)
			out.SetNRGBA(x, y, color.NRGBA{R: img.Pix[i+2], G: img.Pix[i+1], B: img.Pix[i], A: 255})
		}
	}
	return out
}

// FromImage собирает трёхканальное BGR изображение из image.Image
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy(), 3)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := img.Offset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = c.B, c.G, c.R
		}
	}
	return img
}

// FromGray собирает одноканальное изображение из image.Image
func FromGray(src image.Image) *Image {
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy(), 1)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			img.Pix[img.Offset(x, y)] = c.Y
		}
	}
	return img
}

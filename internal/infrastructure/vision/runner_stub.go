//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"pipeline-inspector/internal/domain/entity"
)

// brightLevel порог яркости для поиска объектов без OpenCV
const brightLevel = 128

// Run выполняет конвейер на чистом Go. Детекторы упрощённые: один объект по маске яркости.
func (r *Runner) Run(ctx context.Context, imageData []byte) (*entity.PipelineRun, error) {
	started := time.Now()
	src, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if b := src.Bounds(); b.Dx() > r.MaxSide || b.Dy() > r.MaxSide {
		src = imaging.Fit(src, r.MaxSide, r.MaxSide, imaging.Lanczos)
	}

	run := newRun()
	bgr := entity.FromImage(src)
	r.record(run, StageImageRead, &entity.Result{Image: bgr, ColorSpace: entity.ColorSpaceBgr}, started)

	started = time.Now()
	r.record(run, StageConvertToRgb, &entity.Result{Image: toRgb(bgr), ColorSpace: entity.ColorSpaceRgb}, started)

	started = time.Now()
	r.record(run, StageConvertToHsv, &entity.Result{Image: toHsvFull(bgr), ColorSpace: entity.ColorSpaceHsvFull}, started)

	started = time.Now()
	r.record(run, StageConvertToHls, &entity.Result{Image: toHls(bgr), ColorSpace: entity.ColorSpaceHls}, started)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started = time.Now()
	grayImg := imaging.Grayscale(src)
	gray := entity.FromGray(grayImg)
	r.record(run, StageConvertToGray, &entity.Result{Image: gray, ColorSpace: entity.ColorSpaceGray}, started)

	started = time.Now()
	blurImg := imaging.Blur(grayImg, 2)
	blur := entity.FromGray(blurImg)
	r.record(run, StageBlurGaussian, &entity.Result{Image: blur, ColorSpace: entity.ColorSpaceGray}, started)

	started = time.Now()
	edges := entity.FromGray(effect.Sobel(blurImg))
	r.record(run, StageDetectEdges, &entity.Result{Image: edges, ColorSpace: entity.ColorSpaceGray}, started)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started = time.Now()
	mask := entity.FromGray(segment.Threshold(blurImg, brightLevel))
	r.record(run, StageDetectCircles, &entity.Result{
		Image:      bgr.Clone(),
		Model:      r.brightCircles(mask),
		ColorSpace: entity.ColorSpaceBgr,
	}, started)

	started = time.Now()
	r.record(run, StageKeypoints, &entity.Result{
		Image:      gray.Clone(),
		Model:      brightestKeypoint(blur),
		ColorSpace: entity.ColorSpaceGray,
	}, started)

	started = time.Now()
	r.record(run, StageMinAreaRect, &entity.Result{
		Image:      mask,
		Model:      r.boundingRects(mask),
		ColorSpace: entity.ColorSpaceGray,
	}, started)

	return run, nil
}

func toRgb(bgr *entity.Image) *entity.Image {
	out := bgr.Clone()
	for i := 0; i+2 < len(out.Pix); i += 3 {
		out.Pix[i], out.Pix[i+2] = out.Pix[i+2], out.Pix[i]
	}
	return out
}

// toHsvFull тон 0-255, как COLOR_BGR2HSV_FULL
func toHsvFull(bgr *entity.Image) *entity.Image {
	out := entity.NewImage(bgr.Width, bgr.Height, 3)
	for i := 0; i+2 < len(bgr.Pix); i += 3 {
		h, s, v := pixelColor(bgr.Pix[i:]).Hsv()
		out.Pix[i] = byte(math.Round(h*255/360)) % 255
		out.Pix[i+1] = byte(math.Round(s * 255))
		out.Pix[i+2] = byte(math.Round(v * 255))
	}
	return out
}

// toHls тон 0-180, каналы H, L, S как COLOR_BGR2HLS
func toHls(bgr *entity.Image) *entity.Image {
	out := entity.NewImage(bgr.Width, bgr.Height, 3)
	for i := 0; i+2 < len(bgr.Pix); i += 3 {
		h, s, l := pixelColor(bgr.Pix[i:]).Hsl()
		out.Pix[i] = byte(math.Round(h/2)) % 180
		out.Pix[i+1] = byte(math.Round(l * 255))
		out.Pix[i+2] = byte(math.Round(s * 255))
	}
	return out
}

func pixelColor(bgr []byte) colorful.Color {
	return colorful.Color{R: float64(bgr[2]) / 255, G: float64(bgr[1]) / 255, B: float64(bgr[0]) / 255}
}

// maskStats площадь, центр масс и рамка ненулевых пикселей маски
func maskStats(mask *entity.Image) (area int, cx, cy float64, box image.Rectangle) {
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.Pix[mask.Offset(x, y)] == 0 {
				continue
			}
			if area == 0 {
				box = image.Rect(x, y, x+1, y+1)
			} else {
				box = box.Union(image.Rect(x, y, x+1, y+1))
			}
			area++
			cx += float64(x)
			cy += float64(y)
		}
	}
	if area > 0 {
		cx /= float64(area)
		cy /= float64(area)
	}
	return area, cx, cy, box
}

func (r *Runner) minArea(img *entity.Image) int {
	return int(float64(img.Width*img.Height) * r.MinAreaRatio)
}

func (r *Runner) brightCircles(mask *entity.Image) entity.Model {
	list := entity.ModelList{}
	area, cx, cy, _ := maskStats(mask)
	if area == 0 || area < r.minArea(mask) {
		return list
	}
	list.Items = append(list.Items, entity.Circle{X: cx, Y: cy, Radius: math.Sqrt(float64(area) / math.Pi)})
	return list
}

func (r *Runner) boundingRects(mask *entity.Image) entity.Model {
	list := entity.ModelList{}
	area, _, _, box := maskStats(mask)
	if area == 0 || area < r.minArea(mask) {
		return list
	}
	list.Items = append(list.Items, entity.OrientedPoint{
		Center: entity.Point2f{
			X: float64(box.Min.X) + float64(box.Dx())/2,
			Y: float64(box.Min.Y) + float64(box.Dy())/2,
		},
		Width:  float64(box.Dx()),
		Height: float64(box.Dy()),
	})
	return list
}

func brightestKeypoint(gray *entity.Image) entity.Model {
	list := entity.ModelList{}
	best := -1
	for i, v := range gray.Pix {
		if best < 0 || v > gray.Pix[best] {
			best = i
		}
	}
	if best < 0 {
		return list
	}
	list.Items = append(list.Items, entity.Keypoint{
		Position: entity.Point2f{X: float64(best % gray.Width), Y: float64(best / gray.Width)},
		Size:     7,
	})
	return list
}

//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"pipeline-inspector/internal/domain/entity"
)

// squarePNG белый квадрат 20x20 с центром в (30, 20) на чёрном фоне 60x40
func squarePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 60, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			c := color.NRGBA{A: 255}
			if x >= 20 && x < 40 && y >= 10 && y < 30 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRunner_StagesAreStable(t *testing.T) {
	mm := entity.Millimeters
	r := NewRunner(&mm)

	stages := r.Stages()
	require.Len(t, stages, len(stageOrder))
	require.Equal(t, stages, r.Stages())
	for _, s := range stages {
		if modelStages[s.Name] {
			require.NotNil(t, s.LengthUnit, s.Name)
		} else {
			require.Nil(t, s.LengthUnit, s.Name)
		}
	}
}

func TestRunner_Run(t *testing.T) {
	r := NewRunner(nil)

	run, err := r.Run(context.Background(), squarePNG(t))
	require.NoError(t, err)
	require.Len(t, run.Results, len(stageOrder))

	var sum int64
	for _, stage := range r.Stages() {
		result := run.Results[stage]
		require.NotNil(t, result, stage.Name)
		require.NotNil(t, result.Image, stage.Name)
		require.Equal(t, 60, result.Image.Width)
		sum += result.ProcessingTimeNs
	}
	require.Equal(t, sum, run.TotalProcessingTimeNs)

	circles := run.Results[r.byName[StageDetectCircles]]
	require.Equal(t, entity.ColorSpaceBgr, circles.ColorSpace)
	require.NotNil(t, entity.HitTest(circles.Model, image.Pt(30, 20)), "circle centered on the square")

	rects := run.Results[r.byName[StageMinAreaRect]]
	require.NotNil(t, entity.HitTest(rects.Model, image.Pt(30, 20)))

	gray := run.Results[r.byName[StageConvertToGray]]
	require.Equal(t, 1, gray.Image.Channels)
	require.Equal(t, entity.ColorSpaceGray, gray.ColorSpace)

	hsv := run.Results[r.byName[StageConvertToHsv]]
	require.Equal(t, entity.ColorSpaceHsvFull, hsv.ColorSpace)
	require.Equal(t, 3, hsv.Image.Channels)
}

func TestRunner_RunRejectsGarbage(t *testing.T) {
	_, err := NewRunner(nil).Run(context.Background(), []byte("not an image"))
	require.Error(t, err)
}

func TestRunner_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Run(ctx, squarePNG(t))
	require.ErrorIs(t, err, context.Canceled)
}

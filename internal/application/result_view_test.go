package app

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pipeline-inspector/internal/domain/entity"
	"pipeline-inspector/internal/infrastructure/camera"
	"pipeline-inspector/internal/infrastructure/colorspace"
	"pipeline-inspector/internal/infrastructure/storage"
	"pipeline-inspector/internal/infrastructure/units"
)

type brokenDumpPipeline struct {
	*storage.MemoryPipeline
}

func (brokenDumpPipeline) XMLString() (string, error) {
	return "", errors.New("boom")
}

type fixedSampler struct {
	c color.Color
}

func (s fixedSampler) SampleAt(p image.Point) (color.Color, bool) {
	return s.c, true
}

func newView(p *storage.MemoryPipeline, opts ...ResultViewOption) *ResultView {
	v := NewResultView(p, colorspace.NewNormalizer(), NewCoordinateMapper(units.NewConverter()), opts...)
	v.Refresh()
	return v
}

func store(p *storage.MemoryPipeline, total int64, results map[*entity.Stage]*entity.Result) {
	p.Store(&entity.PipelineRun{Results: results, TotalProcessingTimeNs: total})
}

func countRecords(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "\n")
}

func TestResultView_EmptyPipeline(t *testing.T) {
	v := newView(storage.NewMemoryPipeline())

	require.Nil(t, v.DisplayStage())
	require.Equal(t, View{TrueColors: true}, v.View())
	require.ErrorIs(t, v.Next(), entity.ErrNoStages)
}

func TestResultView_NavigateThroughStages(t *testing.T) {
	s1, s2, s3 := entity.NewStage("S1"), entity.NewStage("S2"), entity.NewStage("S3")
	v := newView(storage.NewMemoryPipeline(s1, s2, s3))

	require.Same(t, s1, v.DisplayStage())
	require.ErrorIs(t, v.Previous(), entity.ErrNavigationDisabled)
	require.NoError(t, v.Next())
	require.NoError(t, v.Next())

	require.Same(t, s3, v.DisplayStage())
	require.Equal(t, entity.Commands{First: true, Previous: true}, v.Commands())

	require.True(t, v.TogglePin())
	require.NoError(t, v.First())
	require.Same(t, s1, v.DisplayStage())
	require.Same(t, s3, v.Navigation().Selected)
	require.True(t, v.View().Pinned)

	require.False(t, v.TogglePin())
	require.Same(t, s3, v.DisplayStage())
}

func TestResultView_StagesShrink(t *testing.T) {
	s1, s2 := entity.NewStage("S1"), entity.NewStage("S2")
	p := storage.NewMemoryPipeline(s1, s2)
	v := newView(p)
	v.SetSelectedStage(s2)
	v.TogglePin()

	p.SetStages(s1)
	v.Refresh()

	require.Same(t, s1, v.Navigation().Selected)
	require.Nil(t, v.Navigation().Pinned)
}

func TestResultView_ModelListTextAndQuery(t *testing.T) {
	s := entity.NewStage("DetectCircles")
	p := storage.NewMemoryPipeline(s)
	circle := entity.Circle{X: 10, Y: 10, Radius: 5}
	store(p, 4_000_000, map[*entity.Stage]*entity.Result{
		s: {Model: entity.ModelList{Items: []entity.Model{nil, circle}}, ProcessingTimeNs: 1_500_000},
	})
	v := newView(p)

	view := v.View()
	lines := strings.Split(strings.TrimSuffix(view.ModelText, "\n"), "\n")
	require.Equal(t, []string{"", circle.String()}, lines)
	require.Equal(t, "DetectCircles ( 1.5 ms / 4 ms )", view.Title)
	require.Nil(t, view.Image)

	require.Equal(t, circle, v.QueryPoint(image.Pt(10, 10)))
	require.Nil(t, v.QueryPoint(image.Pt(40, 40)))
	require.Equal(t, circle.String(), v.StatusLine(image.Pt(12, 8), nil))
}

func TestResultView_MissingResultClearsText(t *testing.T) {
	s := entity.NewStage("S1")
	v := newView(storage.NewMemoryPipeline(s))

	view := v.View()
	require.Same(t, s, view.Stage)
	require.Empty(t, view.Title)
	require.Empty(t, view.ModelText)
	require.Nil(t, view.Image)
	require.Nil(t, v.QueryPoint(image.Pt(0, 0)))
}

func TestResultView_TrueColorsToggle(t *testing.T) {
	s := entity.NewStage("ConvertToRgb")
	p := storage.NewMemoryPipeline(s)
	src := &entity.Image{Width: 1, Height: 1, Channels: 3, Pix: []byte{255, 0, 0}}
	store(p, 0, map[*entity.Stage]*entity.Result{s: {Image: src, ColorSpace: entity.ColorSpaceRgb}})
	v := newView(p)

	require.Equal(t, []byte{0, 0, 255}, v.View().Image.Pix)

	v.SetDisplayTrueColors(false)
	require.False(t, v.DisplayTrueColors())
	require.Equal(t, []byte{255, 0, 0}, v.View().Image.Pix)
	require.NotSame(t, src, v.View().Image, "display always works on a copy")
	require.Equal(t, []byte{255, 0, 0}, src.Pix)
}

func TestResultView_ColorSpaceMismatchDiagnostic(t *testing.T) {
	s := entity.NewStage("Threshold")
	p := storage.NewMemoryPipeline(s)
	src := &entity.Image{Width: 2, Height: 1, Channels: 1, Pix: []byte{0, 255}}
	store(p, 0, map[*entity.Stage]*entity.Result{s: {Image: src, ColorSpace: entity.ColorSpaceHsv}})

	var buf bytes.Buffer
	v := NewResultView(p, colorspace.NewNormalizer(), nil, WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	v.Refresh()

	require.Equal(t, 1, countRecords(&buf))
	require.Contains(t, buf.String(), `"level":"ERROR"`)
	require.Contains(t, buf.String(), "cv-pipeline")
	require.Equal(t, []byte{0, 255}, v.View().Image.Pix)
}

func TestResultView_DiagnosticWithoutDump(t *testing.T) {
	s := entity.NewStage("Threshold")
	mem := storage.NewMemoryPipeline(s)
	store(mem, 0, map[*entity.Stage]*entity.Result{
		s: {Image: &entity.Image{Width: 1, Height: 1, Channels: 1, Pix: []byte{1}}, ColorSpace: entity.ColorSpaceRgb},
	})

	var buf bytes.Buffer
	v := NewResultView(brokenDumpPipeline{mem}, colorspace.NewNormalizer(), nil, WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	v.Refresh()

	require.Equal(t, 1, countRecords(&buf))
	require.Contains(t, buf.String(), "dump unavailable: boom")
	require.NotNil(t, v.View().Image)
}

func TestResultView_StatusLine(t *testing.T) {
	s := entity.NewStage("ImageRead").WithLengthUnit(entity.Millimeters)
	p := storage.NewMemoryPipeline(s)
	store(p, 0, map[*entity.Stage]*entity.Result{
		s: {Image: entity.NewImage(4, 4, 3), ColorSpace: entity.ColorSpaceBgr},
	})
	red := fixedSampler{c: color.RGBA{R: 255, A: 255}}

	withCamera := newView(p, WithCamera(camera.NewStaticCamera(0.5, 0.25, entity.Millimeters)))
	require.Equal(t,
		"RGB: 255, 000, 000 HSV(full): 000, 255, 255 XY: 3, 1 (0.500000, 0.250000 mm)",
		withCamera.StatusLine(image.Pt(3, 1), red))

	noCamera := newView(p)
	require.Equal(t, "XY: 3, 1", noCamera.StatusLine(image.Pt(3, 1), nil))
}

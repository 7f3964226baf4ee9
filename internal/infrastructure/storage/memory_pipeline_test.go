package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pipeline-inspector/internal/domain/entity"
)

func TestMemoryPipeline_StoreAndRead(t *testing.T) {
	s1 := entity.NewStage("ImageRead")
	s2 := entity.NewStage("DetectCircles").WithLengthUnit(entity.Millimeters)
	p := NewMemoryPipeline(s1, s2)

	require.Nil(t, p.Result(s1))

	result := &entity.Result{ColorSpace: entity.ColorSpaceBgr, ProcessingTimeNs: 5}
	p.Store(&entity.PipelineRun{
		Results:               map[*entity.Stage]*entity.Result{s1: result},
		TotalProcessingTimeNs: 42,
	})

	require.Same(t, result, p.Result(s1))
	require.Nil(t, p.Result(s2))
	require.Equal(t, int64(42), p.TotalProcessingTimeNs())
	require.Equal(t, []*entity.Stage{s1, s2}, p.Stages())
}

func TestMemoryPipeline_SetStagesDropsResults(t *testing.T) {
	s1 := entity.NewStage("a")
	s2 := entity.NewStage("b")
	p := NewMemoryPipeline(s1, s2)
	p.Store(&entity.PipelineRun{Results: map[*entity.Stage]*entity.Result{s1: {}, s2: {}}})

	p.SetStages(s1)

	require.Len(t, p.Stages(), 1)
	require.NotNil(t, p.Result(s1))
	require.Nil(t, p.Result(s2))
}

func TestMemoryPipeline_XMLString(t *testing.T) {
	s1 := entity.NewStage("DetectCircles").WithLengthUnit(entity.Millimeters)
	p := NewMemoryPipeline(s1)
	p.Store(&entity.PipelineRun{Results: map[*entity.Stage]*entity.Result{
		s1: {ColorSpace: entity.ColorSpaceHsv, Model: entity.Circle{X: 1, Y: 2, Radius: 3}},
	}})

	out, err := p.XMLString()
	require.NoError(t, err)
	require.Contains(t, out, "<cv-pipeline>")
	require.Contains(t, out, `name="DetectCircles"`)
	require.Contains(t, out, `id="`+s1.ID.String()+`"`)
	require.Contains(t, out, `length-unit="Millimeters"`)
	require.Contains(t, out, `color-space="Hsv"`)
	require.Contains(t, out, "Circle [x=1, y=2, radius=3]")
}

package vision

import (
	"time"

	"pipeline-inspector/internal/domain/entity"
)

// Стадии демонстрационного конвейера в порядке выполнения
const (
	StageImageRead     = "ImageRead"
	StageConvertToRgb  = "ConvertToRgb"
	StageConvertToHsv  = "ConvertToHsvFull"
	StageConvertToHls  = "ConvertToHls"
	StageConvertToGray = "ConvertToGray"
	StageBlurGaussian  = "BlurGaussian"
	StageDetectEdges   = "DetectEdges"
	StageDetectCircles = "DetectCircles"
	StageKeypoints     = "DetectKeypoints"
	StageMinAreaRect   = "MinAreaRect"
)

var stageOrder = []string{
	StageImageRead,
	StageConvertToRgb,
	StageConvertToHsv,
	StageConvertToHls,
	StageConvertToGray,
	StageBlurGaussian,
	StageDetectEdges,
	StageDetectCircles,
	StageKeypoints,
	StageMinAreaRect,
}

// modelStages стадии, которые отдают геометрию и получают единицы длины
var modelStages = map[string]bool{
	StageDetectCircles: true,
	StageKeypoints:     true,
	StageMinAreaRect:   true,
}

type Runner struct {
	MaxSide      int
	MinAreaRatio float64
	MaxModels    int

	stages []*entity.Stage
	byName map[string]*entity.Stage
}

// NewRunner создаёт конвейер. Стадии создаются один раз, чтобы выбор
// пользователя переживал повторные прогоны.
func NewRunner(lengthUnit *entity.LengthUnit) *Runner {
	r := &Runner{
		MaxSide:      1024,
		MinAreaRatio: 0.001,
		MaxModels:    50,
		byName:       make(map[string]*entity.Stage, len(stageOrder)),
	}
	for _, name := range stageOrder {
		stage := entity.NewStage(name)
		if lengthUnit != nil && modelStages[name] {
			stage.WithLengthUnit(*lengthUnit)
		}
		r.stages = append(r.stages, stage)
		r.byName[name] = stage
	}
	return r
}

// Stages возвращает стадии конвейера
func (r *Runner) Stages() []*entity.Stage {
	return append([]*entity.Stage(nil), r.stages...)
}

func newRun() *entity.PipelineRun {
	return &entity.PipelineRun{Results: make(map[*entity.Stage]*entity.Result)}
}

// record сохраняет результат стадии и время с момента started
func (r *Runner) record(run *entity.PipelineRun, name string, result *entity.Result, started time.Time) {
	result.ProcessingTimeNs = time.Since(started).Nanoseconds()
	run.Results[r.byName[name]] = result
	run.TotalProcessingTimeNs += result.ProcessingTimeNs
}

package entity

import "github.com/google/uuid"

// Stage одна стадия конвейера обработки.
// Идентичность стадии определяется указателем, ID нужен для логов и дампов.
type Stage struct {
	ID         uuid.UUID
	Name       string
	LengthUnit *LengthUnit // единицы, в которых стадия хочет видеть координаты
}

// NewStage создаёт стадию с новым идентификатором
func NewStage(name string) *Stage {
	return &Stage{ID: uuid.New(), Name: name}
}

// WithLengthUnit задаёт единицы длины стадии
func (s *Stage) WithLengthUnit(unit LengthUnit) *Stage {
	s.LengthUnit = &unit
	return s
}

// Result итог работы стадии
type Result struct {
	Image            *Image
	Model            Model
	ColorSpace       ColorSpace
	ProcessingTimeNs int64
}

// PipelineRun результаты одного прогона конвейера
type PipelineRun struct {
	Results               map[*Stage]*Result
	TotalProcessingTimeNs int64
}

// IndexOf позиция стадии в списке или -1
func IndexOf(stages []*Stage, stage *Stage) int {
	if stage == nil {
		return -1
	}
	for i, s := range stages {
		if s == stage {
			return i
		}
	}
	return -1
}

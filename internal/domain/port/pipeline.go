package port

import (
	"context"

	"pipeline-inspector/internal/domain/entity"
)

// Pipeline интерфейс уже посчитанного конвейера, ядро только читает его
type Pipeline interface {
	// Stages возвращает стадии в порядке выполнения
	Stages() []*entity.Stage

	// Result возвращает результат стадии или nil
	Result(stage *entity.Stage) *entity.Result

	// TotalProcessingTimeNs суммарное время последнего прогона
	TotalProcessingTimeNs() int64

	// XMLString текстовый дамп конвейера для диагностики
	XMLString() (string, error)
}

// PipelineStore конвейер, в который можно записать результаты прогона
type PipelineStore interface {
	Pipeline

	// Store заменяет результаты целиком
	Store(run *entity.PipelineRun)
}

// PipelineRunner выполняет конвейер над изображением
type PipelineRunner interface {
	// Stages неизменный список стадий раннера
	Stages() []*entity.Stage

	// Run обрабатывает закодированное изображение
	Run(ctx context.Context, imageData []byte) (*entity.PipelineRun, error)
}

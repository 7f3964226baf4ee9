package storage

import (
	"encoding/xml"
	"sync"

	"pipeline-inspector/internal/domain/entity"
	"pipeline-inspector/internal/domain/port"
)

// MemoryPipeline in-memory хранилище стадий и результатов последнего прогона
type MemoryPipeline struct {
	mu      sync.RWMutex
	stages  []*entity.Stage
	results map[*entity.Stage]*entity.Result
	totalNs int64
}

// NewMemoryPipeline создаёт хранилище с заданными стадиями
func NewMemoryPipeline(stages ...*entity.Stage) *MemoryPipeline {
	return &MemoryPipeline{
		stages:  append([]*entity.Stage(nil), stages...),
		results: make(map[*entity.Stage]*entity.Result),
	}
}

// Stages возвращает копию списка стадий
func (p *MemoryPipeline) Stages() []*entity.Stage {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]*entity.Stage(nil), p.stages...)
}

// SetStages заменяет список стадий, результаты исчезнувших стадий удаляются
func (p *MemoryPipeline) SetStages(stages ...*entity.Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stages = append([]*entity.Stage(nil), stages...)
	for stage := range p.results {
		if entity.IndexOf(p.stages, stage) < 0 {
			delete(p.results, stage)
		}
	}
}

// Result возвращает результат стадии или nil
func (p *MemoryPipeline) Result(stage *entity.Stage) *entity.Result {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.results[stage]
}

// TotalProcessingTimeNs время последнего прогона
func (p *MemoryPipeline) TotalProcessingTimeNs() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.totalNs
}

// Store заменяет результаты прогона целиком
func (p *MemoryPipeline) Store(run *entity.PipelineRun) {
	results := make(map[*entity.Stage]*entity.Result, len(run.Results))
	for stage, result := range run.Results {
		results[stage] = result
	}

	p.mu.Lock()
	p.results = results
	p.totalNs = run.TotalProcessingTimeNs
	p.mu.Unlock()
}

type xmlPipeline struct {
	XMLName xml.Name   `xml:"cv-pipeline"`
	Stages  []xmlStage `xml:"stages>cv-stage"`
}

type xmlStage struct {
	ID         string `xml:"id,attr"`
	Name       string `xml:"name,attr"`
	LengthUnit string `xml:"length-unit,attr,omitempty"`
	ColorSpace string `xml:"color-space,attr,omitempty"`
	Model      string `xml:"model,omitempty"`
}

// XMLString дамп стадий и последних результатов
func (p *MemoryPipeline) XMLString() (string, error) {
	p.mu.RLock()
	doc := xmlPipeline{Stages: make([]xmlStage, 0, len(p.stages))}
	for _, stage := range p.stages {
		s := xmlStage{ID: stage.ID.String(), Name: stage.Name}
		if stage.LengthUnit != nil {
			s.LengthUnit = string(*stage.LengthUnit)
		}
		if result := p.results[stage]; result != nil {
			s.ColorSpace = result.ColorSpace.String()
			if result.Model != nil {
				s.Model = result.Model.String()
			}
		}
		doc.Stages = append(doc.Stages, s)
	}
	p.mu.RUnlock()

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Проверка реализации интерфейса
var _ port.PipelineStore = (*MemoryPipeline)(nil)

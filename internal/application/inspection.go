package app

import (
	"context"
	"errors"
	"sync"

	"pipeline-inspector/internal/domain/entity"
	"pipeline-inspector/internal/domain/port"
)

// PipelineFactory создаёт хранилище результатов для набора стадий
type PipelineFactory func(stages []*entity.Stage) port.PipelineStore

// Session просмотр результатов одного чата
type Session struct {
	ChatID   int64
	Pipeline port.PipelineStore
	View     *ResultView
}

type InspectionService struct {
	runner      port.PipelineRunner
	normalizer  port.ColorNormalizer
	mapper      *CoordinateMapper
	newPipeline PipelineFactory
	viewOpts    []ResultViewOption
	sessions    map[int64]*Session
	mu          sync.RWMutex
}

// NewInspectionService создаёт сервис, который гоняет конвейер и держит просмотр по чатам
func NewInspectionService(runner port.PipelineRunner, normalizer port.ColorNormalizer, mapper *CoordinateMapper, newPipeline PipelineFactory, opts ...ResultViewOption) *InspectionService {
	return &InspectionService{
		runner:      runner,
		normalizer:  normalizer,
		mapper:      mapper,
		newPipeline: newPipeline,
		viewOpts:    opts,
		sessions:    make(map[int64]*Session),
	}
}

// Session возвращает сессию чата, создаёт новую если не найдена
func (s *InspectionService) Session(chatID int64) *Session {
	s.mu.RLock()
	session, ok := s.sessions[chatID]
	s.mu.RUnlock()
	if ok {
		return session
	}

	var stages []*entity.Stage
	if s.runner != nil {
		stages = s.runner.Stages()
	}
	pipeline := s.newPipeline(stages)
	session = &Session{
		ChatID:   chatID,
		Pipeline: pipeline,
		View:     NewResultView(pipeline, s.normalizer, s.mapper, s.viewOpts...),
	}
	session.View.Refresh()

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[chatID]; ok {
		return existing
	}
	s.sessions[chatID] = session
	return session
}

// ProcessPhoto прогоняет конвейер по фото и обновляет просмотр чата
func (s *InspectionService) ProcessPhoto(ctx context.Context, chatID int64, photo []byte) (*Session, error) {
	if s.runner == nil {
		return nil, errors.New("pipeline runner is not configured")
	}

	run, err := s.runner.Run(ctx, photo)
	if err != nil {
		return nil, err
	}

	session := s.Session(chatID)
	session.Pipeline.Store(run)
	session.View.Refresh()
	return session, nil
}

package container

import (
	"log/slog"

	app "pipeline-inspector/internal/application"
	"pipeline-inspector/internal/domain/entity"
	"pipeline-inspector/internal/domain/port"
	"pipeline-inspector/internal/infrastructure/colorspace"
	"pipeline-inspector/internal/infrastructure/storage"
	"pipeline-inspector/internal/infrastructure/units"
)

type Container struct {
	InspectionService *app.InspectionService
}

// Options внешние зависимости, которые задаёт main
type Options struct {
	Runner     port.PipelineRunner
	Camera     port.Camera // может быть nil
	Logger     *slog.Logger
	TrueColors bool
}

func New(opts Options) *Container {
	viewOpts := []app.ResultViewOption{
		app.WithLogger(opts.Logger),
		app.WithTrueColors(opts.TrueColors),
	}
	if opts.Camera != nil {
		viewOpts = append(viewOpts, app.WithCamera(opts.Camera))
	}

	inspectionService := app.NewInspectionService(
		opts.Runner,
		colorspace.NewNormalizer(),
		app.NewCoordinateMapper(units.NewConverter()),
		func(stages []*entity.Stage) port.PipelineStore {
			return storage.NewMemoryPipeline(stages...)
		},
		viewOpts...,
	)

	return &Container{
		InspectionService: inspectionService,
	}
}

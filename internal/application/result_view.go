package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"pipeline-inspector/internal/domain/entity"
	"pipeline-inspector/internal/domain/port"
)

// View то, что сейчас должен показать слой отображения
type View struct {
	Stage      *entity.Stage
	Title      string
	ModelText  string
	Image      *entity.Image // уже в каноническом BGR, если включены истинные цвета
	Commands   entity.Commands
	Pinned     bool
	TrueColors bool
}

// ResultView просмотр результатов стадий конвейера.
// Не потокобезопасен: все вызовы должны идти из одного потока.
type ResultView struct {
	pipeline   port.Pipeline
	normalizer port.ColorNormalizer
	mapper     *CoordinateMapper
	camera     port.Camera
	logger     *slog.Logger

	nav        entity.NavigationState
	trueColors bool
	view       View
}

// ResultViewOption настройка ResultView
type ResultViewOption func(*ResultView)

// WithCamera подключает калибровку для физических координат
func WithCamera(camera port.Camera) ResultViewOption {
	return func(v *ResultView) {
		v.camera = camera
	}
}

// WithLogger задаёт логгер диагностики
func WithLogger(logger *slog.Logger) ResultViewOption {
	return func(v *ResultView) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithTrueColors задаёт начальный режим цветов
func WithTrueColors(enabled bool) ResultViewOption {
	return func(v *ResultView) {
		v.trueColors = enabled
	}
}

// NewResultView создаёт просмотрщик. Истинные цвета включены по умолчанию.
func NewResultView(pipeline port.Pipeline, normalizer port.ColorNormalizer, mapper *CoordinateMapper, opts ...ResultViewOption) *ResultView {
	v := &ResultView{
		pipeline:   pipeline,
		normalizer: normalizer,
		mapper:     mapper,
		logger:     slog.New(slog.DiscardHandler),
		trueColors: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Refresh сверяет выбор со списком стадий и пересчитывает отображение
func (v *ResultView) Refresh() {
	v.nav = v.nav.Refresh(v.pipeline.Stages())
	v.recompute()
}

// SetSelectedStage выбор стадии извне, например из списка стадий
func (v *ResultView) SetSelectedStage(stage *entity.Stage) {
	v.nav = v.nav.Select(stage)
	v.recompute()
}

// First переход к первой стадии
func (v *ResultView) First() error { return v.navigate(entity.NavFirst) }

// Previous переход к предыдущей стадии
func (v *ResultView) Previous() error { return v.navigate(entity.NavPrevious) }

// Next переход к следующей стадии
func (v *ResultView) Next() error { return v.navigate(entity.NavNext) }

// Last переход к последней стадии
func (v *ResultView) Last() error { return v.navigate(entity.NavLast) }

// Navigate выполняет произвольную команду навигации
func (v *ResultView) Navigate(cmd entity.NavigationCommand) error {
	return v.navigate(cmd)
}

func (v *ResultView) navigate(cmd entity.NavigationCommand) error {
	nav, err := v.nav.Navigate(v.pipeline.Stages(), cmd)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	v.nav = nav
	v.recompute()
	return nil
}

// TogglePin закрепляет показываемую стадию или снимает закрепление.
// Возвращает, активно ли закрепление после вызова.
func (v *ResultView) TogglePin() bool {
	v.nav = v.nav.TogglePin()
	v.recompute()
	return v.nav.IsPinned()
}

// SetDisplayTrueColors включает или выключает приведение цветов
func (v *ResultView) SetDisplayTrueColors(enabled bool) {
	v.trueColors = enabled
	v.recompute()
}

// DisplayTrueColors текущий режим цветов
func (v *ResultView) DisplayTrueColors() bool {
	return v.trueColors
}

// DisplayStage показываемая стадия или nil
func (v *ResultView) DisplayStage() *entity.Stage {
	return v.nav.Display()
}

// Navigation текущее состояние выбора
func (v *ResultView) Navigation() entity.NavigationState {
	return v.nav
}

// Commands доступность команд навигации
func (v *ResultView) Commands() entity.Commands {
	return v.view.Commands
}

// View последнее вычисленное отображение
func (v *ResultView) View() View {
	return v.view
}

// Stages стадии конвейера
func (v *ResultView) Stages() []*entity.Stage {
	return v.pipeline.Stages()
}

// QueryPoint модель под пикселем в исходных координатах результата
func (v *ResultView) QueryPoint(p image.Point) entity.Model {
	stage := v.nav.Display()
	if stage == nil {
		return nil
	}
	result := v.pipeline.Result(stage)
	if result == nil {
		return nil
	}
	return entity.HitTest(result.Model, p)
}

// StatusLine строка статуса для пикселя: модель под курсором, либо цвет и координаты.
// sampler может быть nil, тогда цвет не выводится.
func (v *ResultView) StatusLine(p image.Point, sampler port.PixelSampler) string {
	if model := v.QueryPoint(p); model != nil {
		return model.String()
	}

	aux := ""
	if loc, ok := v.physical(p); ok {
		aux = fmt.Sprintf(" (%f, %f %s)", loc.X, loc.Y, loc.Units.ShortName())
	}
	xy := fmt.Sprintf("XY: %d, %d%s", p.X, p.Y, aux)

	if sampler == nil {
		return xy
	}
	c, ok := sampler.SampleAt(p)
	if !ok {
		return xy
	}
	rgb := color.NRGBAModel.Convert(c).(color.NRGBA)
	h, s, val := colorful.Color{
		R: float64(rgb.R) / 255,
		G: float64(rgb.G) / 255,
		B: float64(rgb.B) / 255,
	}.Hsv()
	return fmt.Sprintf("RGB: %03d, %03d, %03d HSV(full): %03d, %03d, %03d %s",
		rgb.R, rgb.G, rgb.B,
		int(255.999*h/360), int(255.999*s), int(255.999*val),
		xy)
}

// physical координаты пикселя в единицах выбранной стадии
func (v *ResultView) physical(p image.Point) (entity.Location, bool) {
	stage := v.nav.Selected
	if stage == nil || stage.LengthUnit == nil || v.view.Image == nil || v.mapper == nil {
		return entity.Location{}, false
	}
	return v.mapper.ToPhysical(p, v.view.Image.Width, v.view.Image.Height, v.camera, *stage.LengthUnit)
}

func (v *ResultView) recompute() {
	stage := v.nav.Display()
	view := View{
		Stage:      stage,
		Pinned:     v.nav.IsPinned(),
		TrueColors: v.trueColors,
	}

	if stage != nil {
		if result := v.pipeline.Result(stage); result != nil {
			view.Image = v.displayImage(stage, result)
			view.ModelText = entity.RenderModel(result.Model)
			view.Title = fmt.Sprintf("%s ( %s ms / %s ms )",
				stage.Name, formatMs(result.ProcessingTimeNs), formatMs(v.pipeline.TotalProcessingTimeNs()))
		}
	}

	view.Commands = v.nav.Commands(v.pipeline.Stages())
	v.view = view
}

// displayImage копия изображения результата, приведённая к BGR
func (v *ResultView) displayImage(stage *entity.Stage, result *entity.Result) *entity.Image {
	if result.Image == nil {
		return nil
	}
	img := result.Image.Clone()
	if !v.trueColors || v.normalizer == nil {
		return img
	}

	out, err := v.normalizer.Normalize(img, result.ColorSpace)
	if err != nil {
		if errors.Is(err, entity.ErrColorSpaceMismatch) {
			v.reportColorSpaceMismatch(stage, result, err)
		} else {
			v.logger.Warn("color normalization failed", "stage", stage.Name, "error", err)
		}
		return img
	}
	return out
}

func (v *ResultView) reportColorSpaceMismatch(stage *entity.Stage, result *entity.Result, cause error) {
	dump, err := v.pipeline.XMLString()
	if err != nil {
		dump = "dump unavailable: " + err.Error()
	}
	v.logger.Error("image does not match its declared color space, please send this log to the developers",
		"stage", stage.Name,
		"stage_id", stage.ID.String(),
		"color_space", result.ColorSpace.String(),
		"channels", result.Image.Channels,
		"error", cause,
		"pipeline", dump,
	)
}

func formatMs(ns int64) string {
	return strconv.FormatFloat(float64(ns)/1e6, 'f', -1, 64)
}

package camera

import "pipeline-inspector/internal/domain/entity"

// StaticCamera калибровка, заданная конфигурацией
type StaticCamera struct {
	unitsPerPixel entity.Location
}

// NewStaticCamera создаёт камеру с постоянным размером пикселя
func NewStaticCamera(x, y float64, units entity.LengthUnit) *StaticCamera {
	return &StaticCamera{unitsPerPixel: entity.Location{Units: units, X: x, Y: y}}
}

// UnitsPerPixelAtZ размер пикселя не зависит от высоты
func (c *StaticCamera) UnitsPerPixelAtZ() entity.Location {
	return c.unitsPerPixel
}

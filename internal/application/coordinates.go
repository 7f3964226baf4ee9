package app

import (
	"image"

	"gonum.org/v1/gonum/mat"

	"pipeline-inspector/internal/domain/entity"
	"pipeline-inspector/internal/domain/port"
)

// CoordinateMapper переводит пиксель изображения в физические координаты камеры
type CoordinateMapper struct {
	converter port.UnitConverter
}

// NewCoordinateMapper создаёт преобразователь с заданной таблицей единиц
func NewCoordinateMapper(converter port.UnitConverter) *CoordinateMapper {
	return &CoordinateMapper{converter: converter}
}

// ToPhysical считает координаты относительно центра изображения, ось Y направлена вверх.
// ok == false, если калибровки нет.
func (m *CoordinateMapper) ToPhysical(p image.Point, width, height int, camera port.Camera, units entity.LengthUnit) (entity.Location, bool) {
	if camera == nil || m.converter == nil {
		return entity.Location{}, false
	}
	upp, err := m.converter.ConvertToUnits(camera.UnitsPerPixelAtZ(), units)
	if err != nil {
		return entity.Location{}, false
	}

	scale := mat.NewDiagDense(2, []float64{upp.X, upp.Y})
	offset := mat.NewVecDense(2, []float64{
		float64(p.X - width/2),
		float64(height/2 - p.Y),
	})
	var physical mat.VecDense
	physical.MulVec(scale, offset)

	return entity.Location{Units: units, X: physical.AtVec(0), Y: physical.AtVec(1)}, true
}

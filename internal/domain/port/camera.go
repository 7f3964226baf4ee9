package port

import "pipeline-inspector/internal/domain/entity"

// Camera источник калибровки камеры
type Camera interface {
	// UnitsPerPixelAtZ размер пикселя в физических единицах
	UnitsPerPixelAtZ() entity.Location
}

// UnitConverter переводит вектор в другие единицы длины
type UnitConverter interface {
	ConvertToUnits(loc entity.Location, units entity.LengthUnit) (entity.Location, error)
}

package units

import (
	"fmt"

	"pipeline-inspector/internal/domain/entity"
)

// millimetersPer сколько миллиметров в одной единице
var millimetersPer = map[entity.LengthUnit]float64{
	entity.Millimeters: 1,
	entity.Centimeters: 10,
	entity.Meters:      1000,
	entity.Inches:      25.4,
	entity.Feet:        304.8,
	entity.Mils:        0.0254,
	entity.Microns:     0.001,
}

// Converter переводит линейные компоненты Location между единицами длины
type Converter struct{}

// NewConverter создаёт конвертер с таблицей через миллиметры
func NewConverter() *Converter {
	return &Converter{}
}

// ConvertToUnits масштабирует X, Y, Z. Поворот не меняется.
func (c *Converter) ConvertToUnits(loc entity.Location, units entity.LengthUnit) (entity.Location, error) {
	if loc.Units == units {
		return loc, nil
	}
	from, ok := millimetersPer[loc.Units]
	if !ok {
		return loc, fmt.Errorf("unsupported length unit %q", loc.Units)
	}
	to, ok := millimetersPer[units]
	if !ok {
		return loc, fmt.Errorf("unsupported length unit %q", units)
	}

	k := from / to
	return entity.Location{
		Units:    units,
		X:        loc.X * k,
		Y:        loc.Y * k,
		Z:        loc.Z * k,
		Rotation: loc.Rotation,
	}, nil
}

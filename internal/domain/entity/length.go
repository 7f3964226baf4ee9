package entity

import (
	"fmt"
	"strings"
)

// LengthUnit единица длины
type LengthUnit string

const (
	Millimeters LengthUnit = "Millimeters"
	Centimeters LengthUnit = "Centimeters"
	Meters      LengthUnit = "Meters"
	Inches      LengthUnit = "Inches"
	Feet        LengthUnit = "Feet"
	Mils        LengthUnit = "Mils"
	Microns     LengthUnit = "Microns"
)

var shortNames = map[LengthUnit]string{
	Millimeters: "mm",
	Centimeters: "cm",
	Meters:      "m",
	Inches:      "in",
	Feet:        "ft",
	Mils:        "mil",
	Microns:     "um",
}

// ShortName сокращение для строки статуса
func (u LengthUnit) ShortName() string {
	if s, ok := shortNames[u]; ok {
		return s
	}
	return string(u)
}

// ParseLengthUnit разбирает полное или короткое имя единицы
func ParseLengthUnit(s string) (LengthUnit, error) {
	s = strings.TrimSpace(s)
	for unit, short := range shortNames {
		if strings.EqualFold(s, string(unit)) || strings.EqualFold(s, short) {
			return unit, nil
		}
	}
	return "", fmt.Errorf("unknown length unit %q", s)
}

// Location вектор в физических единицах
type Location struct {
	Units    LengthUnit
	X        float64
	Y        float64
	Z        float64
	Rotation float64
}

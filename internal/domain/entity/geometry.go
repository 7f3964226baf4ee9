package entity

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// HitTolerance допуск попадания по каждой оси, в пикселях (строго меньше)
const HitTolerance = 5

// Point2f точка с дробными координатами
type Point2f struct {
	X float64
	Y float64
}

// Model найденная на изображении геометрия.
// Набор вариантов закрыт: OrientedPoint, Keypoint, Circle, ModelList.
type Model interface {
	fmt.Stringer
	isModel()
}

// OrientedPoint повёрнутый прямоугольник, проверяется только по центру
type OrientedPoint struct {
	Center Point2f
	Width  float64
	Height float64
	Angle  float64
}

// Keypoint особая точка детектора
type Keypoint struct {
	Position Point2f
	Size     float64
	Angle    float64
}

// Circle найденная окружность
type Circle struct {
	X      float64
	Y      float64
	Radius float64
}

// ModelList упорядоченный список моделей, элементы могут быть nil
type ModelList struct {
	Items []Model
}

func (OrientedPoint) isModel() {}
func (Keypoint) isModel()      {}
func (Circle) isModel()        {}
func (ModelList) isModel()     {}

func (r OrientedPoint) String() string {
	return fmt.Sprintf("OrientedPoint [center=(%g, %g), size=%gx%g, angle=%g]",
		r.Center.X, r.Center.Y, r.Width, r.Height, r.Angle)
}

func (k Keypoint) String() string {
	return fmt.Sprintf("Keypoint [pt=(%g, %g), size=%g, angle=%g]",
		k.Position.X, k.Position.Y, k.Size, k.Angle)
}

func (c Circle) String() string {
	return fmt.Sprintf("Circle [x=%g, y=%g, radius=%g]", c.X, c.Y, c.Radius)
}

func (l ModelList) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		if item != nil {
			parts[i] = item.String()
		} else {
			parts[i] = "null"
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RenderModel текстовое представление модели для панели результата.
// Элементы списка идут по строке каждый, nil даёт пустую строку.
func RenderModel(model Model) string {
	switch m := model.(type) {
	case nil:
		return ""
	case ModelList:
		var sb strings.Builder
		for _, item := range m.Items {
			if item != nil {
				sb.WriteString(item.String())
			}
			sb.WriteString("\n")
		}
		return sb.String()
	default:
		return m.String()
	}
}

// HitTest возвращает модель под точкой p или nil.
// Для списка проверяются только прямые потомки, первый подходящий побеждает.
func HitTest(model Model, p image.Point) Model {
	if list, ok := model.(ModelList); ok {
		for _, item := range list.Items {
			if modelAtPoint(item, p) {
				return item
			}
		}
		return nil
	}
	if modelAtPoint(model, p) {
		return model
	}
	return nil
}

func modelAtPoint(model Model, p image.Point) bool {
	switch m := model.(type) {
	case OrientedPoint:
		return near(p, m.Center.X, m.Center.Y)
	case Keypoint:
		return near(p, m.Position.X, m.Position.Y)
	case Circle:
		return near(p, m.X, m.Y)
	}
	return false
}

func near(p image.Point, x, y float64) bool {
	return math.Abs(float64(p.X)-x) < HitTolerance && math.Abs(float64(p.Y)-y) < HitTolerance
}

//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"image"
	"time"

	"gocv.io/x/gocv"

	"pipeline-inspector/internal/domain/entity"
	"pipeline-inspector/internal/infrastructure/colorspace"
)

// Run выполняет конвейер средствами OpenCV
func (r *Runner) Run(ctx context.Context, imageData []byte) (*entity.PipelineRun, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		mat.Close()
		return nil, errors.New("failed to decode image")
	}
	defer func() { mat.Close() }()

	run := newRun()
	started := time.Now()

	// Приводим изображение к стандартному размеру, как и детектор.
	if mat.Cols() > r.MaxSide || mat.Rows() > r.MaxSide {
		scale := float64(r.MaxSide) / float64(max(mat.Cols(), mat.Rows()))
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(int(float64(mat.Cols())*scale), int(float64(mat.Rows())*scale)), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}
	r.record(run, StageImageRead, &entity.Result{Image: colorspace.FromMat(mat), ColorSpace: entity.ColorSpaceBgr}, started)

	conversions := []struct {
		name  string
		code  gocv.ColorConversionCode
		space entity.ColorSpace
	}{
		{StageConvertToRgb, gocv.ColorBGRToRGB, entity.ColorSpaceRgb},
		{StageConvertToHsv, gocv.ColorBGRToHSVFull, entity.ColorSpaceHsvFull},
		{StageConvertToHls, gocv.ColorBGRToHLS, entity.ColorSpaceHls},
	}
	for _, c := range conversions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		started = time.Now()
		converted := gocv.NewMat()
		gocv.CvtColor(mat, &converted, c.code)
		r.record(run, c.name, &entity.Result{Image: colorspace.FromMat(converted), ColorSpace: c.space}, started)
		converted.Close()
	}

	started = time.Now()
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	r.record(run, StageConvertToGray, &entity.Result{Image: colorspace.FromMat(gray), ColorSpace: entity.ColorSpaceGray}, started)

	started = time.Now()
	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(9, 9), 2, 2, gocv.BorderDefault)
	r.record(run, StageBlurGaussian, &entity.Result{Image: colorspace.FromMat(blur), ColorSpace: entity.ColorSpaceGray}, started)

	started = time.Now()
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, 50, 150)
	r.record(run, StageDetectEdges, &entity.Result{Image: colorspace.FromMat(edges), ColorSpace: entity.ColorSpaceGray}, started)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started = time.Now()
	r.record(run, StageDetectCircles, &entity.Result{
		Image:      colorspace.FromMat(mat),
		Model:      r.detectCircles(blur),
		ColorSpace: entity.ColorSpaceBgr,
	}, started)

	started = time.Now()
	r.record(run, StageKeypoints, &entity.Result{
		Image:      colorspace.FromMat(gray),
		Model:      r.detectKeypoints(gray),
		ColorSpace: entity.ColorSpaceGray,
	}, started)

	started = time.Now()
	r.record(run, StageMinAreaRect, &entity.Result{
		Image:      colorspace.FromMat(edges),
		Model:      r.minAreaRects(edges),
		ColorSpace: entity.ColorSpaceGray,
	}, started)

	return run, nil
}

func (r *Runner) detectCircles(blur gocv.Mat) entity.Model {
	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(blur, &circles, gocv.HoughGradient, 1, float64(blur.Rows())/8, 100, 30, 0, 0)

	list := entity.ModelList{}
	for i := 0; i < circles.Cols() && len(list.Items) < r.MaxModels; i++ {
		v := circles.GetVecfAt(0, i)
		list.Items = append(list.Items, entity.Circle{X: float64(v[0]), Y: float64(v[1]), Radius: float64(v[2])})
	}
	return list
}

func (r *Runner) detectKeypoints(gray gocv.Mat) entity.Model {
	fast := gocv.NewFastFeatureDetector()
	defer fast.Close()

	list := entity.ModelList{}
	for _, kp := range fast.Detect(gray) {
		if len(list.Items) >= r.MaxModels {
			break
		}
		list.Items = append(list.Items, entity.Keypoint{
			Position: entity.Point2f{X: kp.X, Y: kp.Y},
			Size:     kp.Size,
			Angle:    kp.Angle,
		})
	}
	return list
}

func (r *Runner) minAreaRects(edges gocv.Mat) entity.Model {
	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	minArea := int(float64(edges.Cols()*edges.Rows()) * r.MinAreaRatio)
	list := entity.ModelList{}
	for i := 0; i < contours.Size() && len(list.Items) < r.MaxModels; i++ {
		rect := gocv.MinAreaRect(contours.At(i))
		if rect.Width*rect.Height < minArea {
			continue
		}
		list.Items = append(list.Items, entity.OrientedPoint{
			Center: entity.Point2f{X: float64(rect.Center.X), Y: float64(rect.Center.Y)},
			Width:  float64(rect.Width),
			Height: float64(rect.Height),
			Angle:  rect.Angle,
		})
	}
	return list
}

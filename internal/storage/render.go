package storage

import (
	"fmt"

	"github.com/san-kum/gasviz/internal/chart"
	"github.com/san-kum/gasviz/internal/export"
	"github.com/san-kum/gasviz/internal/pipeline"
)

var chartNames = [4]string{"vx", "vy", "avg_vx", "avg_vy"}

// drawCharts draws the four charts of s onto surfaces.
func drawCharts(s Snapshot, surfaces [4]chart.Surface) error {
	titles := [4]string{pipeline.TitleVx, pipeline.TitleVy, pipeline.TitleAvgVx, pipeline.TitleAvgVy}
	series := [4][]float64{s.RawVx, s.RawVy, s.AvgVx, s.AvgVy}

	var curve *chart.Curve
	if len(s.CurveX) > 0 {
		curve = &chart.Curve{X: s.CurveX, Y: s.CurveY}
	}

	for i, surface := range surfaces {
		c, err := chart.New(surface, chart.Layout{
			Buckets: s.Params.Buckets,
			Title:   titles[i],
			XLabel:  pipeline.XLabel,
		})
		if err != nil {
			return err
		}
		_, err = c.Draw(chart.Frame{
			Values:   series[i],
			MaxValue: float64(s.Scale.Height),
			GridStep: float64(s.Scale.GridStep),
			Left:     s.Scale.Left,
			Right:    s.Scale.Right,
			Curve:    curve,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", chartNames[i], err)
		}
	}
	return nil
}

// RenderRasters draws the four charts of s at width x height each.
func RenderRasters(s Snapshot, width, height int) ([4]*export.Raster, error) {
	var rasters [4]*export.Raster
	var surfaces [4]chart.Surface
	for i := range rasters {
		rasters[i] = export.NewRaster(width, height)
		surfaces[i] = rasters[i]
	}
	return rasters, drawCharts(s, surfaces)
}

// RenderSVGs draws the four charts of s at width x height each.
func RenderSVGs(s Snapshot, width, height int) ([4]*export.SVG, error) {
	var svgs [4]*export.SVG
	var surfaces [4]chart.Surface
	for i := range svgs {
		svgs[i] = export.NewSVG(width, height)
		surfaces[i] = svgs[i]
	}
	return svgs, drawCharts(s, surfaces)
}

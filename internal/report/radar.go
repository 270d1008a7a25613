package report

import (
	"fmt"
	"strings"

	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"
)

// radarChart is the precomputed SVG geometry of the screen view radar.
type radarChart struct {
	Size    float64
	Center  float64
	Radius  float64
	Rings   []string
	Axes    []radarAxis
	Polygon string
	Dots    []assessment.Point
}

type radarAxis struct {
	X2, Y2         float64
	LabelX, LabelY float64
	Label          string
}

const (
	radarSize   = 360.0
	radarRadius = 130.0
)

func buildRadar(categories []CategoryView) radarChart {
	c := radarSize / 2
	n := len(categories)
	chart := radarChart{Size: radarSize, Center: c, Radius: radarRadius}

	for level := catalog.MinValue; level <= catalog.MaxValue; level++ {
		ring := make([]float64, n)
		for i := range ring {
			ring[i] = float64(level)
		}
		chart.Rings = append(chart.Rings, pointsAttr(assessment.RadarPolygon(c, c, radarRadius, ring)))
	}

	scores := make([]float64, n)
	for i, cat := range categories {
		scores[i] = cat.Score
		end := assessment.RadarPoint(c, c, radarRadius, i, n, catalog.MaxValue)
		label := assessment.RadarPoint(c, c, radarRadius+16, i, n, catalog.MaxValue)
		chart.Axes = append(chart.Axes, radarAxis{
			X2: end.X, Y2: end.Y,
			LabelX: label.X, LabelY: label.Y,
			Label: fmt.Sprintf("%d", cat.Number),
		})
	}
	chart.Dots = assessment.RadarPolygon(c, c, radarRadius, scores)
	chart.Polygon = pointsAttr(chart.Dots)
	return chart
}

// pointsAttr formats vertices for an SVG points attribute.
func pointsAttr(pts []assessment.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

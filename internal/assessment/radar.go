package assessment

import (
	"math"

	"maturity_backend/internal/catalog"
)

// Point is a position in screen coordinates (y grows downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RadarAxisAngle is the angle in degrees of axis i out of n: -90 points up
// and angles grow clockwise on screen.
func RadarAxisAngle(i, n int) float64 {
	if n <= 0 {
		return -90
	}
	return -90 + float64(i)*360/float64(n)
}

// RadarPoint places a score on axis i of n around (cx, cy).
func RadarPoint(cx, cy, radius float64, i, n int, score float64) Point {
	theta := RadarAxisAngle(i, n) * math.Pi / 180
	r := radius * clampScore(score) / catalog.MaxValue
	return Point{X: cx + r*math.Cos(theta), Y: cy + r*math.Sin(theta)}
}

// RadarPolygon returns one vertex per score in the given order; callers
// close the polygon by joining the last vertex to the first.
func RadarPolygon(cx, cy, radius float64, scores []float64) []Point {
	out := make([]Point, len(scores))
	for i, s := range scores {
		out[i] = RadarPoint(cx, cy, radius, i, len(scores), s)
	}
	return out
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > catalog.MaxValue {
		return catalog.MaxValue
	}
	return s
}

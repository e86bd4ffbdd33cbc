package state

import (
	"math"

	"ShapeBoard/internal/geom"
)

const (
	starSpikes       = 5
	trapezoidTopFrac = 0.6
)

// BuildPath derives the outline of s from its type, anchors and points.
// It is pure: equal inputs give equal paths.
func BuildPath(s Shape) geom.Path {
	p := geom.NewPath()
	a, b := s.Start, s.End
	switch s.Type {
	case KindFree:
		if len(s.Points) == 0 {
			p.MoveTo(a)
			break
		}
		p.MoveTo(s.Points[0])
		for _, q := range s.Points[1:] {
			p.LineTo(q)
		}
	case KindRect:
		// Extents stay signed; a drag up or left yields negative width/height.
		p.MoveTo(a).
			LineTo(geom.Pt(b.X, a.Y)).
			LineTo(b).
			LineTo(geom.Pt(a.X, b.Y)).
			Close()
	case KindCircle:
		p.Circle(a, a.Dist(b))
	case KindLine:
		p.MoveTo(a).LineTo(b)
	case KindTriangle:
		p.MoveTo(geom.Pt(a.X, b.Y)).
			LineTo(geom.Pt((a.X+b.X)/2, a.Y)).
			LineTo(b).
			Close()
	case KindTrapezoid:
		span := b.X - a.X
		top := span * trapezoidTopFrac
		off := (span - top) / 2
		p.MoveTo(geom.Pt(a.X+off, a.Y)).
			LineTo(geom.Pt(a.X+off+top, a.Y)).
			LineTo(b).
			LineTo(geom.Pt(a.X, b.Y)).
			Close()
	case KindStar:
		buildStar(p, a.Mid(b), math.Abs(b.X-a.X)/2)
	}
	return *p
}

// buildStar traces alternating outer and inner vertices, starting straight
// up and stepping by half a spike.
func buildStar(p *geom.Path, c geom.Point, outer float64) {
	inner := outer / 2
	step := math.Pi / starSpikes
	for i := 0; i < 2*starSpikes; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := -math.Pi/2 + float64(i)*step
		v := geom.Pt(c.X+math.Cos(angle)*r, c.Y+math.Sin(angle)*r)
		if i == 0 {
			p.MoveTo(v)
		} else {
			p.LineTo(v)
		}
	}
	p.Close()
}

// StrokeTolerance is how far from the outline a point still touches the
// stroke of s.
func StrokeTolerance(s Shape) float64 {
	return s.LineWidth / 2
}

// HitTest reports whether pt touches s. Free strokes hit only on the
// stroke; every other variant hits on its fill or its outline.
func HitTest(s Shape, pt geom.Point) bool {
	path := s.Path()
	if path.NearStroke(pt, StrokeTolerance(s)) {
		return true
	}
	if s.Type == KindFree {
		return false
	}
	return path.Contains(pt)
}

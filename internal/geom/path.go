package geom

import (
	"math"

	"honnef.co/go/curve"
)

// nearestAccuracy is passed to curve's nearest-point queries. Paths here
// are straight lines, for which the answer is exact regardless.
const nearestAccuracy = 1e-9

// Path is a shape outline. Straight-edged subpaths live in Outline; full
// circles stay analytic in Circles rather than being approximated by
// cubics. It is a plain value: two paths built from the same calls compare
// equal field by field.
type Path struct {
	Outline curve.BezPath
	Circles []curve.Circle
}

// NewPath returns an empty path ready for chained building.
func NewPath() *Path {
	return &Path{}
}

func (p *Path) MoveTo(pt Point) *Path {
	p.Outline.MoveTo(pt.Curve())
	return p
}

// LineTo draws to pt. On an empty path it starts a subpath at pt instead,
// since a BezPath must open with a move.
func (p *Path) LineTo(pt Point) *Path {
	if len(p.Outline) == 0 {
		return p.MoveTo(pt)
	}
	p.Outline.LineTo(pt.Curve())
	return p
}

// Circle adds a full circle as its own closed subpath.
func (p *Path) Circle(center Point, radius float64) *Path {
	p.Circles = append(p.Circles, curve.Circle{Center: center.Curve(), Radius: math.Abs(radius)})
	return p
}

// Close closes the current subpath. It is a no-op on an empty outline.
func (p *Path) Close() *Path {
	if len(p.Outline) > 0 {
		p.Outline.ClosePath()
	}
	return p
}

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool { return len(p.Outline) == 0 && len(p.Circles) == 0 }

// Subpath is a flattened run of a path. Circle subpaths carry Center and
// Radius instead of Points.
type Subpath struct {
	Points   []Point
	Closed   bool
	IsCircle bool
	Center   Point
	Radius   float64
}

// Subpaths lists the outline's subpaths in drawing order, followed by the
// circles. After a close the next segment starts from the closed
// subpath's first point.
func (p Path) Subpaths() []Subpath {
	var (
		out    []Subpath
		cur    *Subpath
		resume Point
	)
	flush := func() {
		if cur != nil {
			out = append(out, *cur)
		}
		cur = nil
	}
	for _, el := range p.Outline {
		switch el.Kind {
		case curve.MoveToKind:
			flush()
			cur = &Subpath{Points: []Point{FromCurve(el.P0)}}
		case curve.LineToKind:
			pt := FromCurve(el.P0)
			if cur == nil {
				cur = &Subpath{Points: []Point{resume}}
				if resume == pt {
					continue
				}
			}
			cur.Points = append(cur.Points, pt)
		case curve.ClosePathKind:
			if cur != nil {
				cur.Closed = true
				resume = cur.Points[0]
				flush()
			}
		}
	}
	flush()
	for _, c := range p.Circles {
		out = append(out, Subpath{Closed: true, IsCircle: true, Center: FromCurve(c.Center), Radius: c.Radius})
	}
	return out
}

// filled returns the outline with every subpath explicitly closed, which
// is how a 2D canvas fills open subpaths.
func (p Path) filled() curve.BezPath {
	var bp curve.BezPath
	for _, sp := range p.Subpaths() {
		if sp.IsCircle {
			continue
		}
		bp.MoveTo(sp.Points[0].Curve())
		for _, q := range sp.Points[1:] {
			bp.LineTo(q.Curve())
		}
		bp.ClosePath()
	}
	return bp
}

// Contains reports whether pt lies inside the filled region of the path
// under the non-zero winding rule.
func (p Path) Contains(pt Point) bool {
	cp := pt.Curve()
	winding := p.filled().Winding(cp)
	for _, c := range p.Circles {
		winding += c.Winding(cp)
	}
	return winding != 0
}

// NearStroke reports whether pt lies within tol of the path outline. A
// subpath made of a single point is treated as a dot of radius tol.
func (p Path) NearStroke(pt Point, tol float64) bool {
	cp := pt.Curve()
	for seg := range p.Outline.Segments() {
		if d2, _ := seg.Nearest(cp, nearestAccuracy); d2 <= tol*tol {
			return true
		}
	}
	for _, c := range p.Circles {
		if math.Abs(cp.Distance(c.Center)-c.Radius) <= tol {
			return true
		}
	}
	for _, sp := range p.Subpaths() {
		if !sp.IsCircle && len(sp.Points) == 1 && pt.Dist(sp.Points[0]) <= tol {
			return true
		}
	}
	return false
}

// Bounds returns the axis-aligned box covering every subpath, lone points
// included. The zero Rect is returned for an empty path.
func (p Path) Bounds() curve.Rect {
	var (
		r     curve.Rect
		first = true
	)
	grow := func(b curve.Rect) {
		if first {
			r, first = b, false
			return
		}
		r = r.Union(b)
	}
	if p.Outline.HasSegments() {
		grow(p.Outline.BoundingBox())
	}
	for _, sp := range p.Subpaths() {
		if !sp.IsCircle && len(sp.Points) == 1 {
			q := sp.Points[0].Curve()
			grow(curve.NewRectFromPoints(q, q))
		}
	}
	for _, c := range p.Circles {
		grow(c.BoundingBox())
	}
	return r
}

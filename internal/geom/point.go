// Package geom holds the resolution-independent 2D geometry used by the board:
// points, path descriptions and the containment queries run against them.
// The curve math itself is honnef.co/go/curve; this package keeps the
// board's JSON point format and the subpath view the renderer draws from.
package geom

import "honnef.co/go/curve"

// Point is a position in surface-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// FromCurve converts a curve point.
func FromCurve(c curve.Point) Point { return Point{X: c.X, Y: c.Y} }

func (p Point) Curve() curve.Point { return curve.Pt(p.X, p.Y) }

func (p Point) Add(q Point) Point {
	return FromCurve(p.Curve().Translate(curve.Vec(q.X, q.Y)))
}

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return p.Curve().Distance(q.Curve())
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return FromCurve(p.Curve().Midpoint(q.Curve()))
}

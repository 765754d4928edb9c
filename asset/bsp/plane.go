package bsp

import (
	"errors"
	"math"

	"github.com/rmathew/VirtualTaj/types"
)

// The assumed thickness of a partition plane. Points whose signed distance
// from the plane is within this value are treated as lying on it, which
// absorbs the round-off that accumulates while splitting and welding.
const PlaneThickness = 0.0005

// Returned when a triangle is too needle-like for a meaningful normal to be
// derived from it.
var ErrDegenerateTriangle = errors.New("bsp: degenerate triangle")

// Where a point lies relative to a partition plane.
type PointSide int

const (
	BelowPlane PointSide = iota
	OnPlane
	AbovePlane
)

// Where a triangle lies relative to a partition plane.
type TriSide int

const (
	InBack TriSide = iota
	Spanning
	Coincident
	InFront
)

// A Plane holds the coefficients of the plane equation Ax + By + Cz + D = 0.
// (A,B,C) is kept as a unit vector so that substituting a point into the
// equation yields its signed distance from the plane.
type Plane struct {
	A, B, C, D float64
}

// Construct the plane containing the triangle (v0,v1,v2). The vertices must
// wind anticlockwise when seen from the front of the triangle; the normal is
// the cross product of the edges v0->v1 and v0->v2, scaled to unit length.
// Returns ErrDegenerateTriangle when the vertices are (almost) collinear.
func PlaneFromTriangle(v0, v1, v2 types.Vec3) (Plane, error) {
	abX := float64(v1[0]) - float64(v0[0])
	abY := float64(v1[1]) - float64(v0[1])
	abZ := float64(v1[2]) - float64(v0[2])

	acX := float64(v2[0]) - float64(v0[0])
	acY := float64(v2[1]) - float64(v0[1])
	acZ := float64(v2[2]) - float64(v0[2])

	nX := abY*acZ - abZ*acY
	nY := abZ*acX - abX*acZ
	nZ := abX*acY - abY*acX

	mag := math.Sqrt(nX*nX + nY*nY + nZ*nZ)
	if mag <= dblEpsilon {
		return Plane{}, ErrDegenerateTriangle
	}

	nX /= mag
	nY /= mag
	nZ /= mag

	// For any point P on the plane the dot product (P-v0).N is zero;
	// substituting P = v0 into the plane equation yields D.
	return Plane{
		A: nX,
		B: nY,
		C: nZ,
		D: -nX*float64(v0[0]) - nY*float64(v0[1]) - nZ*float64(v0[2]),
	}, nil
}

// The difference between 1.0 and the next representable float64.
const dblEpsilon = 2.220446049250313e-16

// Signed distance of a point from the plane along its normal.
func (p Plane) Distance(pt types.Vec3) float64 {
	return p.A*float64(pt[0]) + p.B*float64(pt[1]) + p.C*float64(pt[2]) + p.D
}

// Classify a point as lying below, on or above the plane. The plane is given
// an assumed thickness to absorb round-off in the distance computation.
func (p Plane) ClassifyPoint(pt types.Vec3) PointSide {
	dist := p.Distance(pt)
	switch {
	case math.Abs(dist) <= PlaneThickness:
		return OnPlane
	case dist > PlaneThickness:
		return AbovePlane
	default:
		return BelowPlane
	}
}

// Classify a triangle relative to the plane: Coincident when all three
// vertices lie on it, InFront/InBack when the off-plane vertices share one
// side, Spanning otherwise.
func (p Plane) ClassifyTriangle(v0, v1, v2 types.Vec3) TriSide {
	var onPlane, above, below int
	for _, v := range [3]types.Vec3{v0, v1, v2} {
		switch p.ClassifyPoint(v) {
		case OnPlane:
			onPlane++
		case AbovePlane:
			above++
		case BelowPlane:
			below++
		}
	}

	switch {
	case onPlane == 3:
		return Coincident
	case above+onPlane == 3:
		return InFront
	case below+onPlane == 3:
		return InBack
	default:
		return Spanning
	}
}

// Intersect the plane with the segment from v0 to v1. Returns the parameter
// t and the point such that point = v0 + t*(v1-v0). A segment (nearly)
// parallel to the plane has no usable intersection and yields ok == false;
// callers are expected to only pass edges that are known to cross the plane.
func (p Plane) IntersectSegment(v0, v1 types.Vec3) (t float64, pt types.Vec3, ok bool) {
	segX := float64(v1[0]) - float64(v0[0])
	segY := float64(v1[1]) - float64(v0[1])
	segZ := float64(v1[2]) - float64(v0[2])

	// Substituting the parametric segment into the plane equation gives
	//
	//         -(A*x0 + B*y0 + C*z0 + D)
	//    t = ---------------------------------------
	//         (A*(x1-x0) + B*(y1-y0) + C*(z1-z0))
	//
	// and the segment is parallel to the plane when the denominator
	// vanishes.
	denom := p.A*segX + p.B*segY + p.C*segZ

	// Scale the comparison epsilon to the magnitudes involved.
	epsilon := math.Abs((p.A + float64(v1[2])) * dblEpsilon / 2.0)
	if math.Abs(denom) <= epsilon {
		return 0, types.Vec3{}, false
	}

	numer := -(p.A*float64(v0[0]) + p.B*float64(v0[1]) + p.C*float64(v0[2]) + p.D)
	t = numer / denom

	pt = types.Vec3{
		float32(float64(v0[0]) + t*segX),
		float32(float64(v0[1]) + t*segY),
		float32(float64(v0[2]) + t*segZ),
	}
	return t, pt, true
}

// Plane normal as a single precision vector.
func (p Plane) Normal() types.Vec3 {
	return types.Vec3{float32(p.A), float32(p.B), float32(p.C)}
}

package gld

import (
	"math"

	"github.com/rmathew/VirtualTaj/types"
)

const fltEpsilon = 1.19209290e-07

// HasCollision reports whether moving in a straight line from one point to
// another would cross any triangle of the model, and if so the distance
// from the start to the nearest crossing. Movement clamping walks every
// triangle of the model, which is brute force but adequate for the small
// step sizes involved.
func (d *Data) HasCollision(fromPt, toPt types.Vec3) (float32, bool) {
	dir := toPt.Sub(fromPt)
	dirMag := dir.Len()
	if dirMag <= 0 {
		// A zero-length move cannot be classified; treat it as blocked.
		return 0, true
	}
	dir = dir.Mul(1.0 / dirMag)

	dist := float32(math.MaxFloat32)
	hit := false

	for _, faces := range d.TriFaces {
		for j := 0; j < len(faces); j += 3 {
			v0 := d.VertCoords[faces[j+0]]
			v1 := d.VertCoords[faces[j+1]]
			v2 := d.VertCoords[faces[j+2]]

			t, ok := intersectFace(fromPt, dir, v0, v1, v2)
			if ok && t >= 0 && t <= dirMag && t < dist {
				dist = t
				hit = true
			}
		}
	}

	return dist, hit
}

// Ray/triangle intersection after Moller and Trumbore ("Fast, Minimum
// Storage Ray/Triangle Intersection"). Returns the distance along dir at
// which the ray crosses the triangle.
func intersectFace(orig, dir, vert0, vert1, vert2 types.Vec3) (float32, bool) {
	edge1 := vert1.Sub(vert0)
	edge2 := vert2.Sub(vert0)

	// A determinant near zero means the ray lies in the triangle's plane.
	pVec := dir.Cross(edge2)
	det := edge1.Dot(pVec)
	if det > -fltEpsilon && det < fltEpsilon {
		return 0, false
	}
	invDet := 1.0 / det

	tVec := orig.Sub(vert0)
	u := tVec.Dot(pVec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qVec := tVec.Cross(edge1)
	v := dir.Dot(qVec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	return edge2.Dot(qVec) * invDet, true
}

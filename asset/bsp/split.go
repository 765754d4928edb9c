package bsp

import (
	"fmt"

	"github.com/rmathew/VirtualTaj/types"
)

// Split a triangle spanning the given plane into the triangles on its front
// and back sides, interpolating texture coordinates at the new vertices cut
// into spanning edges.
//
// The edges are walked in the original anticlockwise order and each vertex
// is appended to the front and/or back accumulator according to its side of
// the plane; on-plane vertices belong to both. Whenever consecutive vertices
// lie on strictly opposite sides the edge intersection point is appended to
// both accumulators. A non-coincident plane can cut at most two edges, so
// each side accumulates three or four vertices: three form one triangle,
// four are fanned into two while preserving the winding order.
//
// Split pieces that collapse into degenerate triangles are dropped, so
// either returned slice may be empty. The input triangle is not modified;
// the caller discards it.
func splitTriangle(tri *triangle, p Plane) (front, back []*triangle) {
	var vertSides [3]PointSide
	for i, v := range tri.verts {
		vertSides[i] = p.ClassifyPoint(v)
	}

	var frontVerts, backVerts []types.Vec3
	var frontUVs, backUVs []types.Vec2

	for i := 0; i < 3; i++ {
		switch vertSides[i] {
		case AbovePlane:
			frontVerts = append(frontVerts, tri.verts[i])
			frontUVs = append(frontUVs, tri.uvs[i])
		case BelowPlane:
			backVerts = append(backVerts, tri.verts[i])
			backUVs = append(backUVs, tri.uvs[i])
		case OnPlane:
			// On-plane vertices can form part of both the front
			// and the back triangles.
			frontVerts = append(frontVerts, tri.verts[i])
			frontUVs = append(frontUVs, tri.uvs[i])
			backVerts = append(backVerts, tri.verts[i])
			backUVs = append(backUVs, tri.uvs[i])
		}

		// Does the next vertex fall on the other side of the plane?
		next := (i + 1) % 3
		if (vertSides[i] == AbovePlane && vertSides[next] == BelowPlane) ||
			(vertSides[i] == BelowPlane && vertSides[next] == AbovePlane) {
			t, cut, ok := p.IntersectSegment(tri.verts[i], tri.verts[next])
			if !ok {
				panic("bsp: no intersection for an edge known to cross the plane")
			}

			// The cut point is trivially coincident with the
			// plane; its texture coordinates are interpolated
			// along the edge.
			cutUV := types.Vec2{
				float32(float64(tri.uvs[i][0]) + t*(float64(tri.uvs[next][0])-float64(tri.uvs[i][0]))),
				float32(float64(tri.uvs[i][1]) + t*(float64(tri.uvs[next][1])-float64(tri.uvs[i][1]))),
			}

			frontVerts = append(frontVerts, cut)
			frontUVs = append(frontUVs, cutUV)
			backVerts = append(backVerts, cut)
			backUVs = append(backUVs, cutUV)
		}
	}

	// A true spanning triangle must leave 3 or 4 vertices on each side;
	// anything else means the classification and the walk above disagree.
	if len(frontVerts) < 3 || len(backVerts) < 3 {
		panic(fmt.Sprintf("bsp: asked to split a non-spanning triangle (%d front, %d back vertices)",
			len(frontVerts), len(backVerts)))
	}
	if len(frontVerts) > 4 || len(backVerts) > 4 {
		panic(fmt.Sprintf("bsp: triangle split produced %d front, %d back vertices",
			len(frontVerts), len(backVerts)))
	}

	front = fanTriangles(frontVerts, frontUVs, tri.texIndex)
	back = fanTriangles(backVerts, backUVs, tri.texIndex)
	return front, back
}

// Triangulate the 3 or 4 vertices accumulated on one side of a split. Four
// vertices fan into the triangles (0,1,2) and (2,3,0), which keeps the
// winding order of the source triangle. Degenerate pieces are dropped.
func fanTriangles(verts []types.Vec3, uvs []types.Vec2, texIndex uint16) []*triangle {
	var out []*triangle

	piece, err := newTriangle([3]types.Vec3{verts[0], verts[1], verts[2]},
		[3]types.Vec2{uvs[0], uvs[1], uvs[2]}, texIndex)
	if err == nil {
		out = append(out, piece)
	}

	if len(verts) == 4 {
		piece, err = newTriangle([3]types.Vec3{verts[2], verts[3], verts[0]},
			[3]types.Vec2{uvs[2], uvs[3], uvs[0]}, texIndex)
		if err == nil {
			out = append(out, piece)
		}
	}

	return out
}

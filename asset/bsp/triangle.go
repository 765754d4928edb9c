package bsp

import (
	"github.com/rmathew/VirtualTaj/types"
)

// An InputTriangle is one texture-mapped triangle handed to the compiler.
// Vertices wind anticlockwise when seen from the front face.
type InputTriangle struct {
	Verts    [3]types.Vec3
	UVs      [3]types.Vec2
	TexIndex uint16
}

// The construction-time triangle record. Its plane is computed once when the
// record is created and carried along, never re-derived implicitly.
type triangle struct {
	verts    [3]types.Vec3
	uvs      [3]types.Vec2
	texIndex uint16
	plane    Plane
}

// Build a construction record from an input triangle, computing its plane.
// Degenerate triangles are rejected with ErrDegenerateTriangle.
func newTriangle(verts [3]types.Vec3, uvs [3]types.Vec2, texIndex uint16) (*triangle, error) {
	plane, err := PlaneFromTriangle(verts[0], verts[1], verts[2])
	if err != nil {
		return nil, err
	}
	return &triangle{
		verts:    verts,
		uvs:      uvs,
		texIndex: texIndex,
		plane:    plane,
	}, nil
}

func (t *triangle) classifyAgainst(p Plane) TriSide {
	return p.ClassifyTriangle(t.verts[0], t.verts[1], t.verts[2])
}

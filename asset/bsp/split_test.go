package bsp

import (
	"math"
	"testing"

	"github.com/rmathew/VirtualTaj/types"
)

func triArea(tri *triangle) float64 {
	ab := tri.verts[1].Sub(tri.verts[0])
	ac := tri.verts[2].Sub(tri.verts[0])
	return float64(ab.Cross(ac).Len()) / 2.0
}

func totalArea(tris []*triangle) float64 {
	var area float64
	for _, tri := range tris {
		area += triArea(tri)
	}
	return area
}

func TestSplitWithVertexOnPlane(t *testing.T) {
	p := Plane{A: 1, B: 0, C: 0, D: 0}
	tri, err := newTriangle(
		[3]types.Vec3{types.XYZ(-1, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0)},
		[3]types.Vec2{types.UV(0, 0), types.UV(1, 0), types.UV(0.5, 1)},
		0,
	)
	if err != nil {
		t.Fatal(err)
	}

	front, back := splitTriangle(tri, p)
	if len(front) != 1 || len(back) != 1 {
		t.Fatalf("expected 1 front and 1 back piece; got %d and %d", len(front), len(back))
	}

	for _, piece := range front {
		if piece.classifyAgainst(p) != InFront {
			t.Fatalf("expected front piece %v to lie in front of the plane", piece.verts)
		}
	}
	for _, piece := range back {
		if piece.classifyAgainst(p) != InBack {
			t.Fatalf("expected back piece %v to lie in back of the plane", piece.verts)
		}
	}

	expArea := triArea(tri)
	gotArea := totalArea(front) + totalArea(back)
	if math.Abs(gotArea-expArea) > 1e-5 {
		t.Fatalf("expected split pieces to cover an area of %f; got %f", expArea, gotArea)
	}
}

func TestSplitWithTwoCutEdges(t *testing.T) {
	p := Plane{A: 1, B: 0, C: 0, D: 0}
	tri, err := newTriangle(
		[3]types.Vec3{types.XYZ(-1, 0, 0), types.XYZ(2, 0, 0), types.XYZ(2, 1, 0)},
		[3]types.Vec2{types.UV(0, 0), types.UV(1, 0), types.UV(1, 1)},
		3,
	)
	if err != nil {
		t.Fatal(err)
	}

	front, back := splitTriangle(tri, p)

	// One vertex behind the plane, two in front: the back side keeps a
	// single triangle and the front side fans its 4 vertices into two.
	if len(back) != 1 {
		t.Fatalf("expected 1 back piece; got %d", len(back))
	}
	if len(front) != 2 {
		t.Fatalf("expected 2 front pieces; got %d", len(front))
	}

	for _, piece := range append(front, back...) {
		if piece.texIndex != 3 {
			t.Fatalf("expected split piece to keep texture map 3; got %d", piece.texIndex)
		}
	}

	expArea := triArea(tri)
	gotArea := totalArea(front) + totalArea(back)
	if math.Abs(gotArea-expArea) > 1e-5 {
		t.Fatalf("expected split pieces to cover an area of %f; got %f", expArea, gotArea)
	}

	// The edge (-1,0,0) -> (2,0,0) is cut a third of the way along, so
	// the texture coordinates interpolate to (1/3, 0). Every cut vertex
	// must carry them.
	expUV := types.UV(1.0/3.0, 0)
	found := false
	for _, piece := range back {
		for k := 0; k < 3; k++ {
			if absDiff(piece.uvs[k][0], expUV[0]) < 1e-5 && absDiff(piece.uvs[k][1], expUV[1]) < 1e-5 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a cut vertex with interpolated texture coordinates %v", expUV)
	}
}

func TestSplitNonSpanningTrianglePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected splitting a non-spanning triangle to panic")
		}
	}()

	p := Plane{A: 1, B: 0, C: 0, D: 0}
	tri, err := newTriangle(
		[3]types.Vec3{types.XYZ(1, 0, 0), types.XYZ(2, 0, 0), types.XYZ(1, 1, 0)},
		[3]types.Vec2{},
		0,
	)
	if err != nil {
		t.Fatal(err)
	}
	splitTriangle(tri, p)
}

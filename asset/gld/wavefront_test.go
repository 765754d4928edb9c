package gld

import (
	"strings"
	"testing"

	"github.com/rmathew/VirtualTaj/asset"
	"github.com/rmathew/VirtualTaj/types"
)

func mockResource(payload string) *asset.Resource {
	return asset.NewResourceFromStream("embedded", strings.NewReader(payload))
}

func TestSelectCoordIndex(t *testing.T) {
	type spec struct {
		in      string
		listLen int
		out     int
		expErr  bool
	}
	specs := []spec{
		{"2", 1, -1, true},
		{"-2", 1, -1, true},
		{"not-an-index", 10, -1, true},
		{"1", 10, 0, false}, // indices are 1-based
		{"10", 10, 9, false},
		{"-1", 10, 9, false},
	}

	for idx, s := range specs {
		v, err := selectCoordIndex(s.in, s.listLen)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error for index %q", idx, s.in)
			}
		} else if err != nil {
			t.Fatalf("[spec %d] %v", idx, err)
		} else if v != s.out {
			t.Fatalf("[spec %d] expected index to be %d; got %d", idx, s.out, v)
		}
	}
}

func TestVec3Parser(t *testing.T) {
	_, err := parseVec3([]string{"v"})
	if err == nil {
		t.Fatal("expected a syntax error for a bare 'v'")
	}

	_, err = parseVec3([]string{"v", "not-a-float", "2", "3"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseVec3([]string{"v", "3.14", "0", "0.4"})
	if err != nil {
		t.Fatal(err)
	}
	expVal := types.XYZ(3.14, 0, 0.4)
	if v != expVal {
		t.Fatalf("expected parsed value to be %v; got %v", expVal, v)
	}
}

func TestVec2Parser(t *testing.T) {
	_, err := parseVec2([]string{"vt"})
	if err == nil {
		t.Fatal("expected a syntax error for a bare 'vt'")
	}

	uv, err := parseVec2([]string{"vt", "0.25", "0.75"})
	if err != nil {
		t.Fatal(err)
	}
	expVal := types.UV(0.25, 0.75)
	if uv != expVal {
		t.Fatalf("expected parsed value to be %v; got %v", expVal, uv)
	}
}

func TestParseMaterials(t *testing.T) {
	payload := `
# A textured and an untextured material
newmtl marble
map_Kd marble.rgb
newmtl plain
`
	r := newWavefrontReader()
	if err := r.parseMaterials(mockResource(payload)); err != nil {
		t.Fatal(err)
	}

	if len(r.materials) != 2 {
		t.Fatalf("expected 2 materials; got %d", len(r.materials))
	}

	// A textured material names its map; an untextured one falls back to
	// the material name.
	expNames := []string{"marble.rgb", "plain"}
	if len(r.mapNames) != len(expNames) {
		t.Fatalf("expected %d texture maps; got %d", len(expNames), len(r.mapNames))
	}
	for i, exp := range expNames {
		if r.mapNames[i] != exp {
			t.Fatalf("expected map %d to be %q; got %q", i, exp, r.mapNames[i])
		}
	}
}

func TestParseMaterialsRejectsOrphanMapKd(t *testing.T) {
	err := newWavefrontReader().parseMaterials(mockResource("map_Kd marble.rgb"))
	if err == nil || !strings.Contains(err.Error(), "newmtl") {
		t.Fatalf(`expected a 'map_Kd before newmtl' error; got %v`, err)
	}
}

func TestParseMaterialsRejectsDuplicates(t *testing.T) {
	payload := `
newmtl marble
newmtl marble
`
	err := newWavefrontReader().parseMaterials(mockResource(payload))
	if err == nil || !strings.Contains(err.Error(), "duplicate material") {
		t.Fatalf("expected a duplicate material error; got %v", err)
	}
}

func TestParseFaces(t *testing.T) {
	mtlPayload := `
newmtl marble
map_Kd marble.rgb
`
	objPayload := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl marble
# A quad gets fan-triangulated; negative indices count from the end.
f 1/1 2/2 3/3 -1/-1
`
	r := newWavefrontReader()
	if err := r.parseMaterials(mockResource(mtlPayload)); err != nil {
		t.Fatal(err)
	}
	if err := r.parse(mockResource(objPayload)); err != nil {
		t.Fatal(err)
	}

	if len(r.tris) != 2 {
		t.Fatalf("expected the quad to triangulate into 2 triangles; got %d", len(r.tris))
	}

	exp := []Triangle{
		{
			Verts:    [3]types.Vec3{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(1, 1, 0)},
			UVs:      [3]types.Vec2{types.UV(0, 0), types.UV(1, 0), types.UV(1, 1)},
			MapIndex: 0,
		},
		{
			Verts:    [3]types.Vec3{types.XYZ(0, 0, 0), types.XYZ(1, 1, 0), types.XYZ(0, 1, 0)},
			UVs:      [3]types.Vec2{types.UV(0, 0), types.UV(1, 1), types.UV(0, 1)},
			MapIndex: 0,
		},
	}
	for i := range exp {
		if r.tris[i] != exp[i] {
			t.Fatalf("expected triangle %d to be %v; got %v", i, exp[i], r.tris[i])
		}
	}
}

func TestParseFaceWithoutMaterial(t *testing.T) {
	payload := `
v 0 0 0
v 1 0 0
v 1 1 0
f 1 2 3
`
	err := newWavefrontReader().parse(mockResource(payload))
	if err == nil || !strings.Contains(err.Error(), "usemtl") {
		t.Fatalf("expected a face-without-material error; got %v", err)
	}
}

func TestParseRejectsUndefinedMaterial(t *testing.T) {
	err := newWavefrontReader().parse(mockResource("usemtl missing"))
	if err == nil || !strings.Contains(err.Error(), "undefined material") {
		t.Fatalf("expected an undefined material error; got %v", err)
	}
}

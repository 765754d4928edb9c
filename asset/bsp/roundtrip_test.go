package bsp

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/rmathew/VirtualTaj/types"
)

func TestRoundTripQuad(t *testing.T) {
	// Two edge-sharing triangles on different texture maps, welded
	// exactly: the shared corners must still collapse and each map must
	// account for its own triangle.
	tris := quadTriangles()
	tris[1].TexIndex = 1

	tree, err := Compile(tris, []string{"marble.rgb", "stone.rgb"}, CompileOptions{ExactWeld: true})
	if err != nil {
		t.Fatal(err)
	}
	if tree.NumTri != 2 || len(tree.VertCoords) != 4 {
		t.Fatalf("expected 2 triangles over 4 vertices; got %d over %d", tree.NumTri, len(tree.VertCoords))
	}
	if tree.MapTriNums[0] != 1 || tree.MapTriNums[1] != 1 {
		t.Fatalf("expected one triangle per texture map; got %v", tree.MapTriNums)
	}

	var buf bytes.Buffer
	if err = tree.Write(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(loaded.MapNames, tree.MapNames) {
		t.Fatalf("expected map names %v; got %v", tree.MapNames, loaded.MapNames)
	}
	if !reflect.DeepEqual(loaded.MapTriNums, tree.MapTriNums) {
		t.Fatalf("expected map triangle counts %v; got %v", tree.MapTriNums, loaded.MapTriNums)
	}
	var mapTotal uint32
	for _, n := range loaded.MapTriNums {
		mapTotal += n
	}
	if mapTotal != loaded.NumTri {
		t.Fatalf("expected the per-map counts to account for %d triangles; got %d", loaded.NumTri, mapTotal)
	}
	if !reflect.DeepEqual(loaded.VertCoords, tree.VertCoords) {
		t.Fatalf("expected vertex pool %v; got %v", tree.VertCoords, loaded.VertCoords)
	}
	if !reflect.DeepEqual(loaded.TexCoords, tree.TexCoords) {
		t.Fatalf("expected texture coordinates %v; got %v", tree.TexCoords, loaded.TexCoords)
	}
	if loaded.Min != tree.Min || loaded.Max != tree.Max {
		t.Fatalf("expected bounds %v - %v; got %v - %v", tree.Min, tree.Max, loaded.Min, loaded.Max)
	}
	if loaded.MaxDepth != tree.MaxDepth || loaded.NumNodes != tree.NumNodes || loaded.NumTri != tree.NumTri {
		t.Fatal("expected the loaded tree to keep the stored statistics")
	}
	if !reflect.DeepEqual(loaded.Root.Faces, tree.Root.Faces) {
		t.Fatalf("expected root faces %v; got %v", tree.Root.Faces, loaded.Root.Faces)
	}
	if loaded.Stats() != tree.Stats() {
		t.Fatalf("expected identical statistics after the round trip:\n%s\nvs\n%s", tree.Stats(), loaded.Stats())
	}
}

func TestRoundTripCube(t *testing.T) {
	tree, err := Compile(cubeTriangles(), []string{"stone.rgb"}, CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = tree.Write(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}

	// The node structure must survive, child links included.
	var compare func(a, b *Node)
	compare = func(a, b *Node) {
		if (a == nil) != (b == nil) {
			t.Fatal("expected the loaded tree to keep the node structure")
		}
		if a == nil {
			return
		}
		if !reflect.DeepEqual(a.Faces, b.Faces) {
			t.Fatalf("expected node faces %v; got %v", a.Faces, b.Faces)
		}
		compare(a.Back, b.Back)
		compare(a.Front, b.Front)
	}
	compare(tree.Root, loaded.Root)
}

func TestRoundTripEmptyTree(t *testing.T) {
	tris := []InputTriangle{
		{Verts: [3]types.Vec3{types.XYZ(0, 0, 0), types.XYZ(1, 1, 1), types.XYZ(2, 2, 2)}},
	}
	tree, err := Compile(tris, []string{"unused.rgb"}, CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = tree.Write(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Root != nil || loaded.NumNodes != 0 || loaded.NumTri != 0 {
		t.Fatal("expected an empty tree to survive the round trip")
	}
}

func TestReadRejectsBadSignature(t *testing.T) {
	_, err := Read(strings.NewReader("NOPE\x10garbage"))
	if err == nil || !strings.Contains(err.Error(), "bad signature") {
		t.Fatalf("expected a bad signature error; got %v", err)
	}
}

func TestReadRejectsBadVersion(t *testing.T) {
	_, err := Read(strings.NewReader("BSP\x00\x42"))
	if err == nil || !strings.Contains(err.Error(), "unsupported stream version") {
		t.Fatalf("expected an unsupported version error; got %v", err)
	}
}

func TestReadRejectsCorruptChildFlag(t *testing.T) {
	tree, err := Compile(quadTriangles(), []string{"marble.rgb"}, CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = tree.Write(&buf); err != nil {
		t.Fatal(err)
	}

	// The single childless node ends the stream with its child flag.
	raw := buf.Bytes()
	raw[len(raw)-1] = 0x77

	_, err = Read(bytes.NewReader(raw))
	if err == nil || !strings.Contains(err.Error(), "child flag") {
		t.Fatalf("expected a corrupt child flag error; got %v", err)
	}
}

func TestReadRejectsTruncatedStream(t *testing.T) {
	tree, err := Compile(cubeTriangles(), []string{"stone.rgb"}, CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = tree.Write(&buf); err != nil {
		t.Fatal(err)
	}

	raw := buf.Bytes()
	_, err = Read(bytes.NewReader(raw[:len(raw)-10]))
	if err == nil {
		t.Fatal("expected a truncated stream to be rejected")
	}
}

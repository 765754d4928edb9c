package bsp

import (
	"bytes"
	"fmt"
	"math"

	"github.com/olekukonko/tablewriter"
	"github.com/rmathew/VirtualTaj/types"
)

// The 16 bit index fields of the stream format cap how much geometry a
// single tree can reference.
const (
	MaxTextureMaps = math.MaxUint16
	MaxVertices    = math.MaxUint16
	MaxNodes       = math.MaxUint16
)

// A TriFace is a texture-mapped triangle referencing the shared vertex pool
// of its tree by index.
type TriFace struct {
	TexIndex    uint16
	VertIndices [3]uint16
}

// A Node of the partition tree: the triangles coplanar with its partition
// plane plus the subtrees for the front and back subspaces. Children are nil
// when the corresponding subspace holds no geometry.
type Node struct {
	Faces     []TriFace
	PartPlane Plane

	Back  *Node
	Front *Node
}

// A Tree aggregates the partition tree with the shared vertex pool and the
// texture map table its faces reference, plus the overall model bounds and
// tree statistics. Root is nil for an empty tree.
type Tree struct {
	MapNames   []string
	MapTriNums []uint32

	// The shared vertex pool; VertCoords and TexCoords run in parallel.
	VertCoords []types.Vec3
	TexCoords  []types.Vec2

	// Axis-aligned bounds over every pooled vertex.
	Min, Max types.Vec3

	MaxDepth uint16
	NumNodes uint16
	NumTri   uint32

	Root *Node
}

// Look up the three pooled positions of a face.
func (t *Tree) FaceVerts(face *TriFace) [3]types.Vec3 {
	return [3]types.Vec3{
		t.VertCoords[face.VertIndices[0]],
		t.VertCoords[face.VertIndices[1]],
		t.VertCoords[face.VertIndices[2]],
	}
}

// Build a tabular representation of tree statistics.
func (t *Tree) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Texture maps", fmt.Sprintf("%d", len(t.MapNames))})
	table.Append([]string{"Vertices", fmt.Sprintf("%d", len(t.VertCoords))})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", t.NumTri)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", t.NumNodes)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", t.MaxDepth)})
	table.Append([]string{"Bounds min", fmt.Sprintf("(%.3f, %.3f, %.3f)", t.Min[0], t.Min[1], t.Min[2])})
	table.Append([]string{"Bounds max", fmt.Sprintf("(%.3f, %.3f, %.3f)", t.Max[0], t.Max[1], t.Max[2])})
	table.Render()
	return buf.String()
}

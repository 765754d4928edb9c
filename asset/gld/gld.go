// Package gld implements the unsorted triangle-soup model format consumed
// by the partition tree compiler: a texture map table, per-map triangle
// index lists and a shared welded vertex pool, with a compact little-endian
// binary encoding.
package gld

import (
	"bytes"
	"fmt"
	"math"

	"github.com/olekukonko/tablewriter"
	"github.com/rmathew/VirtualTaj/log"
	"github.com/rmathew/VirtualTaj/types"
)

// The 16 bit index fields of the format cap how much geometry a single
// model can reference.
const (
	MaxTextureMaps = math.MaxUint16
	MaxVertices    = math.MaxUint16
)

// Vertex positions whose ordinates each differ by no more than this value
// are considered the same point when generating a model.
const PosWeldEpsilon = 0.0011276372445

// Texture coordinates whose ordinates each differ by no more than this
// value (= 1/256) are considered the same mapping.
const TexWeldEpsilon = 0.00390625

// A Triangle is one texture-mapped input triangle prior to indexing, with
// vertices winding anticlockwise when seen from the front face.
type Triangle struct {
	Verts    [3]types.Vec3
	UVs      [3]types.Vec2
	MapIndex uint16
}

// Data is the run-time representation of a triangle-soup model. Triangles
// are grouped per texture map; TriFaces[i] packs mapTriNums[i] triads of
// indices into the shared vertex pool.
type Data struct {
	MapNames   []string
	MapTriNums []uint32

	// The shared vertex pool; VertCoords and TexCoords run in parallel.
	VertCoords []types.Vec3
	TexCoords  []types.Vec2

	// Axis-aligned bounds over every pooled vertex.
	Min, Max types.Vec3

	NumTri uint32

	TriFaces [][]uint16
}

// Gen builds an indexed model from raw triangles. Vertex definitions are
// welded: a (position, texcoord) pair within the weld epsilons of an earlier
// pooled entry reuses that entry, first match wins.
func Gen(tris []Triangle, mapNames []string) (*Data, error) {
	if len(mapNames) > MaxTextureMaps {
		return nil, fmt.Errorf("gld: model uses %d texture maps; at most %d are supported", len(mapNames), MaxTextureMaps)
	}

	logger := log.New("gld")

	d := &Data{
		MapNames:   append([]string(nil), mapNames...),
		MapTriNums: make([]uint32, len(mapNames)),
		Min:        types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max:        types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
		TriFaces:   make([][]uint16, len(mapNames)),
	}

	for _, tri := range tris {
		if int(tri.MapIndex) >= len(mapNames) {
			return nil, fmt.Errorf("gld: triangle references texture map %d of %d", tri.MapIndex, len(mapNames))
		}

		var indices [3]uint16
		for k := 0; k < 3; k++ {
			idx, err := d.intern(tri.Verts[k], tri.UVs[k])
			if err != nil {
				return nil, err
			}
			indices[k] = idx
		}

		d.TriFaces[tri.MapIndex] = append(d.TriFaces[tri.MapIndex], indices[0], indices[1], indices[2])
		d.MapTriNums[tri.MapIndex]++
		d.NumTri++
	}

	if d.NumTri == 0 {
		d.Min = types.Vec3{}
		d.Max = types.Vec3{}
	}

	logger.Noticef("generated model: %d triangles, %d shared vertices, %d texture maps",
		d.NumTri, len(d.VertCoords), len(d.MapNames))

	return d, nil
}

// Intern a (position, texcoord) pair into the shared pool, reusing the
// first earlier entry that matches within the weld epsilons on every
// compared component.
func (d *Data) intern(v types.Vec3, uv types.Vec2) (uint16, error) {
	for i := range d.VertCoords {
		if absDiff(d.VertCoords[i][0], v[0]) <= PosWeldEpsilon &&
			absDiff(d.VertCoords[i][1], v[1]) <= PosWeldEpsilon &&
			absDiff(d.VertCoords[i][2], v[2]) <= PosWeldEpsilon &&
			absDiff(d.TexCoords[i][0], uv[0]) <= TexWeldEpsilon &&
			absDiff(d.TexCoords[i][1], uv[1]) <= TexWeldEpsilon {
			return uint16(i), nil
		}
	}

	if len(d.VertCoords) >= MaxVertices {
		return 0, fmt.Errorf("gld: model needs more than %d vertex definitions", MaxVertices)
	}

	index := uint16(len(d.VertCoords))
	d.VertCoords = append(d.VertCoords, v)
	d.TexCoords = append(d.TexCoords, uv)

	d.Min = types.MinVec3(d.Min, v)
	d.Max = types.MaxVec3(d.Max, v)

	return index, nil
}

// Triangles expands the model back into the per-triangle soup, in texture
// map order. This is the form the partition tree compiler consumes.
func (d *Data) Triangles() []Triangle {
	out := make([]Triangle, 0, d.NumTri)
	for mapIdx, faces := range d.TriFaces {
		for j := 0; j < len(faces); j += 3 {
			var tri Triangle
			tri.MapIndex = uint16(mapIdx)
			for k := 0; k < 3; k++ {
				vi := faces[j+k]
				tri.Verts[k] = d.VertCoords[vi]
				tri.UVs[k] = d.TexCoords[vi]
			}
			out = append(out, tri)
		}
	}
	return out
}

// Build a tabular representation of model statistics.
func (d *Data) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Texture maps", fmt.Sprintf("%d", len(d.MapNames))})
	table.Append([]string{"Vertices", fmt.Sprintf("%d", len(d.VertCoords))})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", d.NumTri)})
	table.Append([]string{"Bounds min", fmt.Sprintf("(%.3f, %.3f, %.3f)", d.Min[0], d.Min[1], d.Min[2])})
	table.Append([]string{"Bounds max", fmt.Sprintf("(%.3f, %.3f, %.3f)", d.Max[0], d.Max[1], d.Max[2])})
	table.Render()
	return buf.String()
}

func absDiff(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}

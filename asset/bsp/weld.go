package bsp

import (
	"fmt"
	"math"

	"github.com/rmathew/VirtualTaj/types"
)

// Vertex positions whose ordinates each differ by no more than this value
// are considered the same point. This is roughly what a single pixel maps to
// on a 1024 vertical resolution display at a distance of 1.0 with a total
// vertical viewing angle of 60 degrees (= 1.0 * tan(30) / 512).
const PosWeldEpsilon = 0.0011276372445

// Texture coordinates whose ordinates each differ by no more than this
// value (= 1/256) are considered the same mapping, since texture maps are at
// most 256x256 and effective texture coordinates run from 0.0 to 1.0.
const TexWeldEpsilon = 0.00390625

// vertexPool deduplicates (position, texcoord) pairs into a shared indexed
// pool while tracking the overall bounds of everything interned.
type vertexPool struct {
	verts []types.Vec3
	uvs   []types.Vec2

	min, max types.Vec3

	posEpsilon float32
	texEpsilon float32
}

func newVertexPool(posEpsilon, texEpsilon float32) *vertexPool {
	return &vertexPool{
		min:        types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		max:        types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
		posEpsilon: posEpsilon,
		texEpsilon: texEpsilon,
	}
}

// Intern a (position, texcoord) pair and return its pool index along with
// the pooled position, which may differ from the argument by up to the
// epsilons when an earlier vertex absorbed it.
//
// The scan runs over the pool in insertion order and stops at the FIRST
// entry matching within tolerance, not the closest one; every compared
// component must match independently. Preserving this first-match bias keeps
// pool contents reproducible for identical input orders.
func (p *vertexPool) internFirst(v types.Vec3, uv types.Vec2) (uint16, types.Vec3, error) {
	for i := range p.verts {
		if absDiff(p.verts[i][0], v[0]) <= p.posEpsilon &&
			absDiff(p.verts[i][1], v[1]) <= p.posEpsilon &&
			absDiff(p.verts[i][2], v[2]) <= p.posEpsilon &&
			absDiff(p.uvs[i][0], uv[0]) <= p.texEpsilon &&
			absDiff(p.uvs[i][1], uv[1]) <= p.texEpsilon {
			return uint16(i), p.verts[i], nil
		}
	}

	if len(p.verts) >= MaxVertices {
		return 0, types.Vec3{}, fmt.Errorf("bsp: model needs more than %d vertex definitions", MaxVertices)
	}

	index := uint16(len(p.verts))
	p.verts = append(p.verts, v)
	p.uvs = append(p.uvs, uv)

	p.min = types.MinVec3(p.min, v)
	p.max = types.MaxVec3(p.max, v)

	return index, v, nil
}

func absDiff(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}

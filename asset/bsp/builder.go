package bsp

import (
	"fmt"
	"math"
	"time"

	"github.com/rmathew/VirtualTaj/log"
	"github.com/rmathew/VirtualTaj/types"
)

// CompileOptions tune the vertex welding pass of the compiler. The zero
// value selects the default epsilons.
type CompileOptions struct {
	// Weld tolerances; when zero the PosWeldEpsilon/TexWeldEpsilon
	// defaults apply.
	PosEpsilon float32
	TexEpsilon float32

	// Weld only bit-identical vertices.
	ExactWeld bool
}

func (o CompileOptions) posEpsilon() float32 {
	if o.ExactWeld {
		return 0
	}
	if o.PosEpsilon > 0 {
		return o.PosEpsilon
	}
	return PosWeldEpsilon
}

func (o CompileOptions) texEpsilon() float32 {
	if o.ExactWeld {
		return 0
	}
	if o.TexEpsilon > 0 {
		return o.TexEpsilon
	}
	return TexWeldEpsilon
}

// The construction-time node representation: triangles still carry their own
// vertex data and live in per-node slices.
type buildNode struct {
	partition Plane
	tris      []*triangle

	back  *buildNode
	front *buildNode
}

type builder struct {
	logger log.Logger

	pool      *vertexPool
	mapCounts []uint32

	nodesCreated uint32
	numTri       uint32
	maxDepth     int
}

// Compile builds a partition tree from the given triangle soup. Triangles
// reference texture maps in mapNames by index. Degenerate input triangles
// are dropped with a diagnostic; if nothing survives the result is an empty
// tree with a nil root.
func Compile(tris []InputTriangle, mapNames []string, opt CompileOptions) (*Tree, error) {
	if len(mapNames) > MaxTextureMaps {
		return nil, fmt.Errorf("bsp: model uses %d texture maps; at most %d are supported", len(mapNames), MaxTextureMaps)
	}

	b := &builder{
		logger:    log.New("bspc"),
		pool:      newVertexPool(opt.posEpsilon(), opt.texEpsilon()),
		mapCounts: make([]uint32, len(mapNames)),
	}

	// Convert the input into construction records, dropping triangles too
	// degenerate to define a plane.
	workList := make([]*triangle, 0, len(tris))
	for _, in := range tris {
		if int(in.TexIndex) >= len(mapNames) {
			return nil, fmt.Errorf("bsp: triangle references texture map %d of %d", in.TexIndex, len(mapNames))
		}
		tri, err := newTriangle(in.Verts, in.UVs, in.TexIndex)
		if err != nil {
			b.logger.Debugf("skipping malformed input triangle %v", in.Verts)
			continue
		}
		workList = append(workList, tri)
	}

	names := make([]string, len(mapNames))
	copy(names, mapNames)

	tree := &Tree{
		MapNames:   names,
		MapTriNums: b.mapCounts,
	}

	if len(workList) == 0 {
		b.logger.Warning("no usable triangles in input; producing an empty tree")
		return tree, nil
	}

	b.logger.Noticef("compiling partition tree from %d input triangles", len(workList))
	start := time.Now()

	root := b.build(workList, 1)
	if b.nodesCreated > MaxNodes {
		return nil, fmt.Errorf("bsp: tree needs %d nodes; at most %d are supported", b.nodesCreated, MaxNodes)
	}

	// Re-factor the tree to share vertex definitions through the pool.
	outRoot, err := b.convert(root)
	if err != nil {
		return nil, err
	}

	tree.Root = outRoot
	tree.NumNodes = uint16(b.nodesCreated)
	tree.MaxDepth = uint16(b.maxDepth)
	tree.NumTri = b.numTri
	tree.VertCoords = b.pool.verts
	tree.TexCoords = b.pool.uvs
	tree.Min = b.pool.min
	tree.Max = b.pool.max

	b.logger.Noticef("compiled %d triangles into %d nodes (%d levels, %d shared vertices) in %d ms",
		tree.NumTri, tree.NumNodes, tree.MaxDepth, len(tree.VertCoords),
		time.Since(start).Nanoseconds()/1e6)

	return tree, nil
}

// Recursively partition the working set. The list is consumed: the selected
// partitioning triangle seeds the node, coincident triangles join it,
// spanning triangles are split and their pieces routed into the child
// working sets.
func (b *builder) build(workList []*triangle, depth int) *buildNode {
	b.nodesCreated++
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	rootIdx := selectPartition(workList)
	rootTri := workList[rootIdx]

	// Cheap removal of the selected triangle.
	workList[rootIdx] = workList[len(workList)-1]
	rest := workList[:len(workList)-1]

	node := &buildNode{
		partition: rootTri.plane,
		tris:      []*triangle{rootTri},
	}

	var frontList, backList []*triangle
	for _, tri := range rest {
		switch tri.classifyAgainst(node.partition) {
		case Coincident:
			node.tris = append(node.tris, tri)
		case InFront:
			frontList = append(frontList, tri)
		case InBack:
			backList = append(backList, tri)
		case Spanning:
			// Up to two pieces can land on each side; the original
			// triangle is discarded.
			front, back := splitTriangle(tri, node.partition)
			frontList = append(frontList, front...)
			backList = append(backList, back...)
		}
	}

	// An empty side yields no child at all, not an empty node.
	if len(frontList) > 0 {
		node.front = b.build(frontList, depth+1)
	}
	if len(backList) > 0 {
		node.back = b.build(backList, depth+1)
	}

	return node
}

// Select the triangle whose plane best partitions the working set, scoring
// each candidate by the splits it causes plus the front/back imbalance it
// leaves. Ties go to the earliest candidate and a zero score short-circuits
// the search. This is a deliberately simple O(n^2) sweep per level and is by
// far the most expensive part of the compiler.
func selectPartition(workList []*triangle) int {
	bestIdx := 0
	minScore := uint32(math.MaxUint32)

	for i, candidate := range workList {
		var splits, inFront, inBack int

		for j, other := range workList {
			if j == i {
				continue
			}
			switch other.classifyAgainst(candidate.plane) {
			case Spanning:
				splits++
			case InFront:
				inFront++
			case InBack:
				inBack++
			}
		}

		// Minimizing splits and balancing the tree have equal weight.
		imbalance := inFront - inBack
		if imbalance < 0 {
			imbalance = -imbalance
		}
		score := uint32(splits + imbalance)

		if score < minScore {
			minScore = score
			bestIdx = i
		}
		if score == 0 {
			// A candidate that splits nothing and balances the
			// tree perfectly cannot be beaten.
			break
		}
	}

	return bestIdx
}

// Convert a construction node into the shared-pool representation, visiting
// self, back subtree, front subtree so that pool indices are assigned in the
// same order the tree is later serialized.
//
// Welding can invalidate triangles: a face whose welded indices are no
// longer pairwise distinct, or whose welded positions fail the degeneracy
// check, is dropped. The node's partition plane is recomputed from its first
// surviving face to account for the precision lost by welding; a node left
// with no faces keeps the construction-time plane.
func (b *builder) convert(in *buildNode) (*Node, error) {
	out := &Node{PartPlane: in.partition}

	for _, tri := range in.tris {
		var indices [3]uint16
		var welded [3]types.Vec3
		for k := 0; k < 3; k++ {
			var err error
			indices[k], welded[k], err = b.pool.internFirst(tri.verts[k], tri.uvs[k])
			if err != nil {
				return nil, err
			}
		}

		if indices[0] == indices[1] || indices[1] == indices[2] || indices[2] == indices[0] {
			continue
		}
		weldedPlane, err := PlaneFromTriangle(welded[0], welded[1], welded[2])
		if err != nil {
			continue
		}

		if len(out.Faces) == 0 {
			out.PartPlane = weldedPlane
		}
		out.Faces = append(out.Faces, TriFace{
			TexIndex:    tri.texIndex,
			VertIndices: indices,
		})
		b.mapCounts[tri.texIndex]++
	}

	b.numTri += uint32(len(out.Faces))

	var err error
	if in.back != nil {
		if out.Back, err = b.convert(in.back); err != nil {
			return nil, err
		}
	}
	if in.front != nil {
		if out.Front, err = b.convert(in.front); err != nil {
			return nil, err
		}
	}

	return out, nil
}

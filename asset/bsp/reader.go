package bsp

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/rmathew/VirtualTaj/log"
	"github.com/rmathew/VirtualTaj/types"
)

type treeReader struct {
	r      *bufio.Reader
	logger log.Logger

	tree *Tree

	nodesRead uint16
	trisRead  uint32
	mapCounts []uint32
}

// Read a tree from a stream previously produced by Write. The stored
// counts, bounds and vertex pool are trusted from the stream, but partition
// planes of nodes that carry triangles are recomputed from the pooled vertex
// data rather than trusted, since welding may have moved the vertices the
// construction-time plane was derived from. Per-map triangle counts are
// recounted as a sanity pass over the node records.
//
// A stream that fails validation yields a nil tree and an error; no
// partially populated tree is ever returned.
func Read(r io.Reader) (*Tree, error) {
	tr := &treeReader{
		r:      bufio.NewReader(r),
		logger: log.New("bspc"),
	}
	tree, err := tr.readTree()
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Load a tree from a file.
func ReadTree(filename string) (*Tree, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func (tr *treeReader) readTree() (*Tree, error) {
	magic := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(tr.r, magic); err != nil {
		return nil, fmt.Errorf("bsp: truncated stream: %s", err)
	}
	if string(magic) != fileMagic {
		return nil, fmt.Errorf("bsp: bad signature %q", magic)
	}
	version, err := tr.r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("bsp: truncated stream: %s", err)
	}
	if version != dataVersion {
		return nil, fmt.Errorf("bsp: unsupported stream version %#02x", version)
	}

	tree := &Tree{}
	tr.tree = tree

	var nMaps uint16
	if err = tr.read(&nMaps); err != nil {
		return nil, err
	}
	tree.MapNames = make([]string, nMaps)
	for i := range tree.MapNames {
		name, err := tr.r.ReadString(0)
		if err != nil {
			return nil, fmt.Errorf("bsp: truncated stream: %s", err)
		}
		tree.MapNames[i] = name[:len(name)-1]
	}
	tree.MapTriNums = make([]uint32, nMaps)
	if err = tr.read(tree.MapTriNums); err != nil {
		return nil, err
	}

	var nVertices uint16
	if err = tr.read(&nVertices); err != nil {
		return nil, err
	}
	tree.VertCoords = make([]types.Vec3, nVertices)
	if err = tr.read(tree.VertCoords); err != nil {
		return nil, err
	}
	tree.TexCoords = make([]types.Vec2, nVertices)
	if err = tr.read(tree.TexCoords); err != nil {
		return nil, err
	}

	var bounds [6]float32
	if err = tr.read(&bounds); err != nil {
		return nil, err
	}
	tree.Min = types.Vec3{bounds[0], bounds[2], bounds[4]}
	tree.Max = types.Vec3{bounds[1], bounds[3], bounds[5]}

	if err = tr.read(&tree.MaxDepth); err != nil {
		return nil, err
	}
	if err = tr.read(&tree.NumNodes); err != nil {
		return nil, err
	}
	if err = tr.read(&tree.NumTri); err != nil {
		return nil, err
	}

	tr.mapCounts = make([]uint32, nMaps)

	if tree.NumNodes > 0 {
		if tree.Root, err = tr.readNode(); err != nil {
			return nil, err
		}
	}

	if tr.nodesRead != tree.NumNodes {
		return nil, fmt.Errorf("bsp: stream declares %d nodes but holds %d", tree.NumNodes, tr.nodesRead)
	}
	if tr.trisRead != tree.NumTri {
		return nil, fmt.Errorf("bsp: stream declares %d triangles but holds %d", tree.NumTri, tr.trisRead)
	}
	for i, stored := range tree.MapTriNums {
		if tr.mapCounts[i] != stored {
			tr.logger.Warningf("map %q declares %d triangles but %d were read; using the recount",
				tree.MapNames[i], stored, tr.mapCounts[i])
			tree.MapTriNums[i] = tr.mapCounts[i]
		}
	}

	return tree, nil
}

// Read one node record and, per its child flag, its back and front subtrees.
func (tr *treeReader) readNode() (*Node, error) {
	tr.nodesRead++
	if tr.nodesRead > tr.tree.NumNodes {
		return nil, fmt.Errorf("bsp: stream holds more nodes than the declared %d", tr.tree.NumNodes)
	}

	node := &Node{}

	var numTri uint16
	if err := tr.read(&numTri); err != nil {
		return nil, err
	}
	if numTri > 0 {
		node.Faces = make([]TriFace, numTri)
		for i := range node.Faces {
			if err := tr.read(&node.Faces[i].TexIndex); err != nil {
				return nil, err
			}
			if err := tr.read(&node.Faces[i].VertIndices); err != nil {
				return nil, err
			}
			if int(node.Faces[i].TexIndex) >= len(tr.tree.MapNames) {
				return nil, fmt.Errorf("bsp: face references texture map %d of %d",
					node.Faces[i].TexIndex, len(tr.tree.MapNames))
			}
			for _, vi := range node.Faces[i].VertIndices {
				if int(vi) >= len(tr.tree.VertCoords) {
					return nil, fmt.Errorf("bsp: face references vertex %d of %d",
						vi, len(tr.tree.VertCoords))
				}
			}
			tr.mapCounts[node.Faces[i].TexIndex]++
		}
		tr.trisRead += uint32(numTri)

		// Recompute the partition plane from the first face.
		verts := tr.tree.FaceVerts(&node.Faces[0])
		plane, err := PlaneFromTriangle(verts[0], verts[1], verts[2])
		if err != nil {
			return nil, fmt.Errorf("bsp: stored tree holds a degenerate triangle")
		}
		node.PartPlane = plane
	} else {
		var plane [4]float64
		if err := tr.read(&plane); err != nil {
			return nil, err
		}
		node.PartPlane = Plane{A: plane[0], B: plane[1], C: plane[2], D: plane[3]}
	}

	cFlag, err := tr.r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("bsp: truncated stream: %s", err)
	}

	var hasBack, hasFront bool
	switch cFlag {
	case childNone:
	case childBack:
		hasBack = true
	case childFront:
		hasFront = true
	case childBoth:
		hasBack = true
		hasFront = true
	default:
		return nil, fmt.Errorf("bsp: corrupt stream (child flag %#02x)", cFlag)
	}

	if hasBack {
		if node.Back, err = tr.readNode(); err != nil {
			return nil, err
		}
	}
	if hasFront {
		if node.Front, err = tr.readNode(); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (tr *treeReader) read(data interface{}) error {
	if err := binary.Read(tr.r, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("bsp: truncated stream: %s", err)
	}
	return nil
}

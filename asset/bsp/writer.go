package bsp

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
)

// These form the signature of a stored tree stream.
const (
	fileMagic   = "BSP\x00"
	dataVersion = 0x10
)

// Child presence flags of a serialized node. Any other value in a stream
// marks it as corrupt.
const (
	childNone  = 0x00
	childBack  = 0xB0
	childFront = 0x0F
	childBoth  = 0xBF
)

// Write the tree to a stream in its canonical binary layout: the signature
// and version, the texture map table, the shared vertex pool, the model
// bounds and tree statistics, then the node records in preorder (self, back
// subtree, front subtree). All numbers are little-endian, all strings 7-bit
// ASCII and NUL terminated.
func (t *Tree) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(fileMagic); err != nil {
		return err
	}
	if err := bw.WriteByte(dataVersion); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint16(len(t.MapNames))); err != nil {
		return err
	}
	for _, name := range t.MapNames {
		if _, err := bw.WriteString(name); err != nil {
			return err
		}
		if err := bw.WriteByte(0); err != nil {
			return err
		}
	}
	if err := binary.Write(bw, binary.LittleEndian, t.MapTriNums); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint16(len(t.VertCoords))); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, t.VertCoords); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, t.TexCoords); err != nil {
		return err
	}

	bounds := []float32{t.Min[0], t.Max[0], t.Min[1], t.Max[1], t.Min[2], t.Max[2]}
	if err := binary.Write(bw, binary.LittleEndian, bounds); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, t.MaxDepth); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, t.NumNodes); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, t.NumTri); err != nil {
		return err
	}

	if t.Root != nil {
		if err := writeNode(bw, t.Root); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Write one node record followed by its subtrees, back before front. The
// partition plane is stored only when the node carries no triangles; a
// reader recomputes it from the first face otherwise.
func writeNode(w io.Writer, n *Node) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(n.Faces))); err != nil {
		return err
	}
	for i := range n.Faces {
		if err := binary.Write(w, binary.LittleEndian, n.Faces[i].TexIndex); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, n.Faces[i].VertIndices); err != nil {
			return err
		}
	}

	if len(n.Faces) == 0 {
		plane := [4]float64{n.PartPlane.A, n.PartPlane.B, n.PartPlane.C, n.PartPlane.D}
		if err := binary.Write(w, binary.LittleEndian, plane); err != nil {
			return err
		}
	}

	cFlag := byte(childNone)
	if n.Back != nil {
		cFlag |= childBack
	}
	if n.Front != nil {
		cFlag |= childFront
	}
	if err := binary.Write(w, binary.LittleEndian, cFlag); err != nil {
		return err
	}

	if n.Back != nil {
		if err := writeNode(w, n.Back); err != nil {
			return err
		}
	}
	if n.Front != nil {
		if err := writeNode(w, n.Front); err != nil {
			return err
		}
	}
	return nil
}

// Save the tree to a file.
func WriteTree(t *Tree, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package gld

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/rmathew/VirtualTaj/types"
)

// These form the signature of a stored model stream.
const (
	fileMagic   = "GLD\x00"
	dataVersion = 0x10
)

// Write the model to a stream: signature and version, the texture map
// table, the shared vertex pool, the model bounds, the total triangle count
// and then the per-map vertex index triads. All numbers are little-endian,
// all strings 7-bit ASCII and NUL terminated.
func (d *Data) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(fileMagic); err != nil {
		return err
	}
	if err := bw.WriteByte(dataVersion); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint16(len(d.MapNames))); err != nil {
		return err
	}
	for _, name := range d.MapNames {
		if _, err := bw.WriteString(name); err != nil {
			return err
		}
		if err := bw.WriteByte(0); err != nil {
			return err
		}
	}
	if err := binary.Write(bw, binary.LittleEndian, d.MapTriNums); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint16(len(d.VertCoords))); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, d.VertCoords); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, d.TexCoords); err != nil {
		return err
	}

	bounds := []float32{d.Min[0], d.Max[0], d.Min[1], d.Max[1], d.Min[2], d.Max[2]}
	if err := binary.Write(bw, binary.LittleEndian, bounds); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, d.NumTri); err != nil {
		return err
	}
	for _, faces := range d.TriFaces {
		if err := binary.Write(bw, binary.LittleEndian, faces); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Read a model from a stream previously produced by Write. A stream that
// fails validation yields a nil model and an error.
func Read(r io.Reader) (*Data, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("gld: truncated stream: %s", err)
	}
	if string(magic) != fileMagic {
		return nil, fmt.Errorf("gld: bad signature %q", magic)
	}
	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("gld: truncated stream: %s", err)
	}
	if version != dataVersion {
		return nil, fmt.Errorf("gld: unsupported stream version %#02x", version)
	}

	d := &Data{}

	var nMaps uint16
	if err = readField(br, &nMaps); err != nil {
		return nil, err
	}
	d.MapNames = make([]string, nMaps)
	for i := range d.MapNames {
		name, err := br.ReadString(0)
		if err != nil {
			return nil, fmt.Errorf("gld: truncated stream: %s", err)
		}
		d.MapNames[i] = name[:len(name)-1]
	}
	d.MapTriNums = make([]uint32, nMaps)
	if err = readField(br, d.MapTriNums); err != nil {
		return nil, err
	}

	var nVertices uint16
	if err = readField(br, &nVertices); err != nil {
		return nil, err
	}
	d.VertCoords = make([]types.Vec3, nVertices)
	if err = readField(br, d.VertCoords); err != nil {
		return nil, err
	}
	d.TexCoords = make([]types.Vec2, nVertices)
	if err = readField(br, d.TexCoords); err != nil {
		return nil, err
	}

	var bounds [6]float32
	if err = readField(br, &bounds); err != nil {
		return nil, err
	}
	d.Min = types.Vec3{bounds[0], bounds[2], bounds[4]}
	d.Max = types.Vec3{bounds[1], bounds[3], bounds[5]}

	if err = readField(br, &d.NumTri); err != nil {
		return nil, err
	}

	var total uint32
	d.TriFaces = make([][]uint16, nMaps)
	for i := range d.TriFaces {
		total += d.MapTriNums[i]
		d.TriFaces[i] = make([]uint16, 3*d.MapTriNums[i])
		if err = readField(br, d.TriFaces[i]); err != nil {
			return nil, err
		}
		for _, vi := range d.TriFaces[i] {
			if vi >= nVertices {
				return nil, fmt.Errorf("gld: face references vertex %d of %d", vi, nVertices)
			}
		}
	}
	if total != d.NumTri {
		return nil, fmt.Errorf("gld: stream declares %d triangles but maps account for %d", d.NumTri, total)
	}

	return d, nil
}

// Save the model to a file.
func WriteData(d *Data, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load a model from a file.
func ReadData(filename string) (*Data, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func readField(r io.Reader, data interface{}) error {
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("gld: truncated stream: %s", err)
	}
	return nil
}

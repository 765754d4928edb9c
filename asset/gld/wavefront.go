package gld

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/rmathew/VirtualTaj/asset"
	"github.com/rmathew/VirtualTaj/log"
	"github.com/rmathew/VirtualTaj/types"
)

// A material parsed from a Wavefront material library. Only the name of its
// diffuse texture map matters to the importer; untextured materials fall
// back to the material name itself so that every face still lands in a map.
type wavefrontMaterial struct {
	Name   string
	MapKd  string
	MapIdx uint16
}

func (m *wavefrontMaterial) textureMapName() string {
	if m.MapKd != "" {
		return m.MapKd
	}
	return m.Name
}

type wavefrontReader struct {
	logger log.Logger

	vertexList []types.Vec3
	uvList     []types.Vec2

	materials map[string]*wavefrontMaterial
	mapNames  []string
	curMapIdx int

	tris []Triangle
}

func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger:    log.New("wavefront"),
		materials: make(map[string]*wavefrontMaterial),
		curMapIdx: -1,
	}
}

// Import a textured Wavefront OBJ model. All faces must be textured and
// wound anticlockwise; polygonal faces are fan-triangulated.
func (r *wavefrontReader) Read(res *asset.Resource) (*Data, error) {
	r.logger.Noticef(`importing model from "%s"`, res.Path())

	if err := r.parse(res); err != nil {
		return nil, err
	}
	if len(r.tris) == 0 {
		return nil, fmt.Errorf("wavefront: no usable faces in %q", res.Path())
	}

	return Gen(r.tris, r.mapNames)
}

// Parse a wavefront object stream.
func (r *wavefrontReader) parse(res *asset.Resource) error {
	var lineNum int

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "mtllib"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			mtlRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			err = r.parseMaterials(mtlRes)
			mtlRes.Close()
			if err != nil {
				return err
			}
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			mat, exists := r.materials[lineTokens[1]]
			if !exists {
				return r.emitError(res.Path(), lineNum, "undefined material %q", lineTokens[1])
			}
			r.curMapIdx = int(mat.MapIdx)
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vt":
			uv, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.uvList = append(r.uvList, uv)
		case "f":
			if err := r.parseFace(lineTokens); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return scanner.Err()
}

// Parse a face line, fan-triangulating polygons with more than 3 vertices.
func (r *wavefrontReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 vertices; got %d`, len(lineTokens)-1)
	}
	if r.curMapIdx < 0 {
		return fmt.Errorf(`face without a preceding "usemtl"`)
	}

	verts := make([]types.Vec3, 0, len(lineTokens)-1)
	uvs := make([]types.Vec2, 0, len(lineTokens)-1)
	for _, token := range lineTokens[1:] {
		indexTokens := strings.Split(token, "/")

		vIdx, err := selectCoordIndex(indexTokens[0], len(r.vertexList))
		if err != nil {
			return err
		}
		verts = append(verts, r.vertexList[vIdx])

		var uv types.Vec2
		if len(indexTokens) > 1 && indexTokens[1] != "" {
			uvIdx, err := selectCoordIndex(indexTokens[1], len(r.uvList))
			if err != nil {
				return err
			}
			uv = r.uvList[uvIdx]
		}
		uvs = append(uvs, uv)
	}

	for i := 2; i < len(verts); i++ {
		r.tris = append(r.tris, Triangle{
			Verts:    [3]types.Vec3{verts[0], verts[i-1], verts[i]},
			UVs:      [3]types.Vec2{uvs[0], uvs[i-1], uvs[i]},
			MapIndex: uint16(r.curMapIdx),
		})
	}

	return nil
}

// Parse a wavefront material library, registering a texture map for every
// material defined in it.
func (r *wavefrontReader) parseMaterials(res *asset.Resource) error {
	r.logger.Infof(`parsing material library "%s"`, res.Path())

	var lineNum int
	var curMaterial *wavefrontMaterial

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			name := lineTokens[1]
			if _, exists := r.materials[name]; exists {
				return r.emitError(res.Path(), lineNum, "duplicate material %q", name)
			}
			if len(r.mapNames) >= MaxTextureMaps {
				return r.emitError(res.Path(), lineNum, "material library defines more than %d texture maps", MaxTextureMaps)
			}
			curMaterial = &wavefrontMaterial{Name: name, MapIdx: uint16(len(r.mapNames))}
			r.materials[name] = curMaterial
			r.mapNames = append(r.mapNames, curMaterial.textureMapName())
		case "map_Kd":
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `"map_Kd" before any "newmtl"`)
			}
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "map_Kd"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			curMaterial.MapKd = lineTokens[1]
			r.mapNames[curMaterial.MapIdx] = curMaterial.textureMapName()
		}
	}

	return scanner.Err()
}

func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return fmt.Errorf("wavefront: [%s: %d] %s", file, line, msg)
}

// Resolve a 1-based (or negative, relative) wavefront coordinate index.
func selectCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.Atoi(indexToken)
	if err != nil {
		return 0, fmt.Errorf("could not parse face coord index %q", indexToken)
	}

	switch {
	case index > 0 && index <= coordListLen:
		return index - 1, nil
	case index < 0 && coordListLen+index >= 0:
		return coordListLen + index, nil
	}
	return 0, fmt.Errorf("face coord index %d out of bounds", index)
}

func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for %q; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var out types.Vec3
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return types.Vec3{}, fmt.Errorf("could not parse %q ordinate %q", lineTokens[0], lineTokens[i+1])
		}
		out[i] = float32(val)
	}
	return out, nil
}

func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for %q; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var out types.Vec2
	for i := 0; i < 2; i++ {
		val, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return types.Vec2{}, fmt.Errorf("could not parse %q ordinate %q", lineTokens[0], lineTokens[i+1])
		}
		out[i] = float32(val)
	}
	return out, nil
}

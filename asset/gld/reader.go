package gld

import (
	"fmt"
	"strings"

	"github.com/rmathew/VirtualTaj/asset"
)

// ReadModel loads a triangle-soup model from a file: either the binary
// format handled by Read, or a textured Wavefront OBJ model which gets
// imported and indexed on the fly.
func ReadModel(filename string) (*Data, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	// Select reader based on file extension
	if strings.HasSuffix(filename, ".obj") {
		return newWavefrontReader().Read(res)
	} else if strings.HasSuffix(filename, ".gld") {
		return Read(res)
	}
	return nil, fmt.Errorf("gld: unsupported model format %q", filename)
}

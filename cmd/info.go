package cmd

import (
	"errors"
	"strings"

	"github.com/rmathew/VirtualTaj/asset/bsp"
	"github.com/rmathew/VirtualTaj/asset/gld"
	"github.com/urfave/cli"
)

// Display information about a compiled model or tree file.
func ShowInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing model or tree file")
	}

	assetFile := ctx.Args().First()
	switch {
	case strings.HasSuffix(assetFile, ".bsp"):
		tree, err := bsp.ReadTree(assetFile)
		if err != nil {
			return err
		}
		logger.Noticef("tree information:\n%s", tree.Stats())
	case strings.HasSuffix(assetFile, ".gld"), strings.HasSuffix(assetFile, ".obj"):
		data, err := gld.ReadModel(assetFile)
		if err != nil {
			return err
		}
		logger.Noticef("model information:\n%s", data.Stats())
	default:
		return errors.New("only .obj, .gld and .bsp files are supported")
	}

	return nil
}

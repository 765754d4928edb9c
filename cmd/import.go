package cmd

import (
	"errors"
	"strings"

	"github.com/rmathew/VirtualTaj/asset/gld"
	"github.com/urfave/cli"
)

// Import a wavefront model and repackage it as a binary triangle-soup file.
func ImportModel(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 2 {
		return errors.New("usage: import <model.obj> <out.gld>")
	}

	modelFile := ctx.Args().Get(0)
	outFile := ctx.Args().Get(1)
	if !strings.HasSuffix(modelFile, ".obj") {
		return errors.New("only wavefront models with a .obj extension can be imported")
	}

	logger.Noticef("importing model: %s", modelFile)
	data, err := gld.ReadModel(modelFile)
	if err != nil {
		return err
	}

	logger.Noticef("model information:\n%s", data.Stats())

	return gld.WriteData(data, outFile)
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/rmathew/VirtualTaj/asset/bsp"
	"github.com/rmathew/VirtualTaj/asset/gld"
	"github.com/urfave/cli"
)

// Compile a triangle-soup model into a binary space partitioning tree.
func CompileTree(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 2 {
		return errors.New("usage: compile <model.gld|model.obj> <out.bsp>")
	}

	modelFile := ctx.Args().Get(0)
	treeFile := ctx.Args().Get(1)

	logger.Noticef("loading model: %s", modelFile)
	data, err := gld.ReadModel(modelFile)
	if err != nil {
		return err
	}

	opt := bsp.CompileOptions{
		PosEpsilon: float32(ctx.Float64("pos-epsilon")),
		TexEpsilon: float32(ctx.Float64("tex-epsilon")),
		ExactWeld:  ctx.Bool("exact-weld"),
	}

	logger.Noticef("compiling %d triangles", data.NumTri)
	tree, err := bsp.Compile(inputTriangles(data), data.MapNames, opt)
	if err != nil {
		return err
	}

	logger.Noticef("tree information:\n%s", tree.Stats())

	if err = bsp.WriteTree(tree, treeFile); err != nil {
		return err
	}

	// Read the file back to make sure that a viewer will accept it.
	logger.Infof("verifying written tree: %s", treeFile)
	reloaded, err := bsp.ReadTree(treeFile)
	if err != nil {
		return fmt.Errorf("verification of %s failed: %v", treeFile, err)
	}
	if reloaded.NumTri != tree.NumTri || reloaded.NumNodes != tree.NumNodes {
		return fmt.Errorf(
			"verification of %s failed: expected %d triangles in %d nodes; got %d in %d",
			treeFile, tree.NumTri, tree.NumNodes, reloaded.NumTri, reloaded.NumNodes,
		)
	}

	return nil
}

func inputTriangles(data *gld.Data) []bsp.InputTriangle {
	soup := data.Triangles()
	tris := make([]bsp.InputTriangle, len(soup))
	for idx, tri := range soup {
		tris[idx] = bsp.InputTriangle{
			Verts:    tri.Verts,
			UVs:      tri.UVs,
			TexIndex: tri.MapIndex,
		}
	}
	return tris
}

// CompileFlags lists the options accepted by the compile command.
func CompileFlags() []cli.Flag {
	return []cli.Flag{
		cli.Float64Flag{
			Name:  "pos-epsilon",
			Value: 0.0,
			Usage: "vertex position welding tolerance (0 uses the default)",
		},
		cli.Float64Flag{
			Name:  "tex-epsilon",
			Value: 0.0,
			Usage: "texture coordinate welding tolerance (0 uses the default)",
		},
		cli.BoolFlag{
			Name:  "exact-weld",
			Usage: "only weld vertices that match exactly",
		},
	}
}

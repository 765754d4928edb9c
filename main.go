package main

import (
	"os"

	"github.com/rmathew/VirtualTaj/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "vtaj"
	app.Usage = "build and inspect binary space partitioned models"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "import",
			Usage: "import a wavefront model into the binary triangle-soup format",
			Description: `
Parse a model from a wavefront obj file, weld duplicate vertices and texture
coordinates and write out a compact binary triangle-soup file that the compile
command and the viewers can load directly.`,
			ArgsUsage: "model.obj out.gld",
			Action:    cmd.ImportModel,
		},
		{
			Name:  "compile",
			Usage: "compile a model into a binary space partitioning tree",
			Description: `
Load a model, recursively partition its triangles into a binary space
partitioning tree and write the tree out in a binary format suitable for
back-to-front or front-to-back traversal from any viewpoint.

The written tree is read back once to verify that a viewer will accept it.`,
			ArgsUsage: "model.gld out.bsp",
			Action:    cmd.CompileTree,
			Flags:     cmd.CompileFlags(),
		},
		{
			Name:      "info",
			Usage:     "display information about a model or tree file",
			ArgsUsage: "model.gld|tree.bsp",
			Action:    cmd.ShowInfo,
		},
	}

	app.Run(os.Args)
}

// Command protog reads a .proto-syntax IDL file, resolves one message by
// fully-qualified name, and emits a streaming JSON parser for it as a
// single Go source file.
package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/weliveindetail/protog/codegen"
	"github.com/weliveindetail/protog/graph"
	"github.com/weliveindetail/protog/schema"
)

var log = logrus.New()

func run(c *cli.Context) error {
	if c.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}

	idlPath := c.Args().Get(0)
	targetImportPath := c.Args().Get(1)
	messageName := c.Args().Get(2)
	if idlPath == "" || targetImportPath == "" || messageName == "" {
		return cli.Exit("usage: protog <idl_path> <target_import_path> <fully.qualified.MessageName>", 1)
	}

	loader := &schema.Loader{Log: log}
	fd, md, err := loader.Load(idlPath, messageName)
	if err != nil {
		return cli.Exit(errors.Wrap(err, "loading schema"), 1)
	}
	log.WithField("file", fd.Path()).Debug("schema loaded")

	g, err := graph.Build(md, log)
	if err != nil {
		return cli.Exit(errors.Wrap(err, "building parse graph"), 1)
	}
	log.WithField("states", g.NumStates).Debug("parse graph built")

	alias := path.Base(targetImportPath)
	src, err := codegen.Emit(md, g, codegen.Options{
		OutputPackage:    c.String("package"),
		TargetImportPath: targetImportPath,
		TargetAlias:      alias,
		Log:              log,
	})
	if err != nil {
		return cli.Exit(errors.Wrap(err, "emitting parser"), 1)
	}

	outDir := c.String("out-dir")
	if outDir == "" {
		outDir, err = os.Getwd()
		if err != nil {
			return cli.Exit(errors.Wrap(err, "resolving working directory"), 1)
		}
	}

	outPath := filepath.Join(outDir, outputFileName(string(md.Name())))
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return cli.Exit(errors.Wrap(&codegen.EmitIoError{Err: err}, "writing generated file"), 1)
	}

	log.WithField("path", outPath).Info("generated parser")
	return nil
}

func outputFileName(messageName string) string {
	return strings.ToLower(messageName) + "_json_parser.go"
}

func main() {
	log.SetOutput(os.Stderr)

	app := &cli.App{
		Name:      "protog",
		Usage:     "generate a streaming JSON parser for one message of a schema",
		UsageText: "protog <idl_path> <target_import_path> <fully.qualified.MessageName>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "directory to write the generated file to (default: working directory)",
			},
			&cli.StringFlag{
				Name:  "package",
				Usage: "package clause of the generated file",
				Value: "main",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dargueta/bundlepack"
	"github.com/dargueta/bundlepack/archive"
	"github.com/dargueta/bundlepack/utilities/compression"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	cli := cli.App{
		Name:  "bundlepack",
		Usage: "Deduplicate and compress asset bundles",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log match statistics and use human-readable log output",
				EnvVars: []string{"BUNDLEPACK_VERBOSE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Compress a bundle into an artifact",
				Action:    compressBundle,
				ArgsUsage: "BUNDLE_FILE  ARTIFACT_FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Entropy transform: raw, deflate, lzma, zstd, or lz4",
						Value:   compression.Lzma.String(),
						EnvVars: []string{"BUNDLEPACK_MODE"},
					},
					&cli.StringSliceFlag{
						Name:  "marker",
						Usage: "Name of an asset whose serialized name introduces a record",
					},
					&cli.PathFlag{
						Name:    "markers-file",
						Usage:   "YAML file listing marker names",
						EnvVars: []string{"BUNDLEPACK_MARKERS_FILE"},
					},
					&cli.BoolFlag{
						Name:  "asset-paths",
						Usage: "Reduce marker names given as asset paths to the bare asset name",
						Value: true,
					},
					&cli.IntFlag{
						Name:  "min-copy",
						Usage: "Shortest backreference to emit",
						Value: bundlepack.MinCopyLength,
					},
				},
			},
			{
				Name:      "decompress",
				Usage:     "Restore the original bundle from an artifact",
				Action:    decompressBundle,
				ArgsUsage: "ARTIFACT_FILE  BUNDLE_FILE",
			},
			{
				Name:      "inspect",
				Usage:     "Describe the records in an artifact",
				Action:    inspectArtifact,
				ArgsUsage: "ARTIFACT_FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Print one CSV row per record instead of a summary",
					},
				},
			},
		},
	}

	err := cli.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func newLogger(context *cli.Context) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error
	if context.Bool("verbose") {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func requireArgs(context *cli.Context, count int) error {
	if context.NArg() != count {
		return cli.Exit(
			fmt.Sprintf("expected %d arguments, got %d", count, context.NArg()), 1)
	}
	return nil
}

func compressBundle(context *cli.Context) error {
	if err := requireArgs(context, 2); err != nil {
		return err
	}

	mode, err := compression.ParseMode(context.String("mode"))
	if err != nil {
		return err
	}

	markers := context.StringSlice("marker")
	if path := context.Path("markers-file"); path != "" {
		fromFile, err := loadMarkersFile(path)
		if err != nil {
			return err
		}
		markers = append(markers, fromFile...)
	}

	logger, err := newLogger(context)
	if err != nil {
		return err
	}
	defer logger.Sync()

	inFile, err := os.Open(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer inFile.Close()

	_, err = writeOutputFile(context.Args().Get(1), func(w io.Writer) (int64, error) {
		return archive.CompressStream(
			inFile,
			w,
			markers,
			mode,
			archive.WithLogger(logger),
			archive.WithAssetPaths(context.Bool("asset-paths")),
			archive.WithMinCopyLength(context.Int("min-copy")),
		)
	})
	return err
}

func decompressBundle(context *cli.Context) error {
	if err := requireArgs(context, 2); err != nil {
		return err
	}

	logger, err := newLogger(context)
	if err != nil {
		return err
	}
	defer logger.Sync()

	inFile, err := os.Open(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer inFile.Close()

	_, err = writeOutputFile(context.Args().Get(1), func(w io.Writer) (int64, error) {
		return archive.DecompressStream(inFile, w, archive.WithLogger(logger))
	})
	return err
}

func inspectArtifact(context *cli.Context) error {
	if err := requireArgs(context, 1); err != nil {
		return err
	}

	artifact, err := os.ReadFile(context.Args().Get(0))
	if err != nil {
		return err
	}

	report, err := archive.Inspect(artifact)
	if err != nil {
		return err
	}

	out := context.App.Writer
	if context.Bool("csv") {
		return report.WriteCSV(out)
	}

	fmt.Fprintf(out, "mode:            %s\n", report.Header.Mode)
	fmt.Fprintf(out, "original size:   %d\n", report.Header.OriginalLength)
	fmt.Fprintf(out, "artifact size:   %d\n", report.ArtifactSize)
	fmt.Fprintf(out, "stream size:     %d\n", report.StreamSize)
	fmt.Fprintf(out, "literal records: %d (%d bytes)\n", report.LiteralRecords, report.LiteralBytes)
	fmt.Fprintf(out, "copy records:    %d (%d bytes)\n", report.CopyRecords, report.CopiedBytes)
	return nil
}

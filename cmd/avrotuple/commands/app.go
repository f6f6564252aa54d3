package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// NewApp creates the avrotuple CLI app.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:  "avrotuple",
		Usage: "Work with binary encoded records",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug messages to STDERR",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelInfo
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return ctx, nil
		},
		Commands: []*cli.Command{
			NewEncodeCommand(),
			NewCatCommand(),
			NewSpillCommand(),
			NewFingerprintCommand(),
			NewVersionCommand(),
		},
	}
}

func schemaFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "schema",
		Aliases:  []string{"s"},
		Usage:    "path of the JSON schema of the records",
		Required: true,
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "name of the file to output to. Defaults to STDOUT.",
	}
}

// openInput opens the file at path, or STDIN if path is empty or "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// openOutput creates the file at path, or returns w if path is empty.
func openOutput(path string, w io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{w}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

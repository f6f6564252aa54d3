package commands

import (
	"context"
	"log/slog"

	"github.com/chaisql/avrotuple/cmd/avrotuple/recutil"
	"github.com/urfave/cli/v3"
)

// NewEncodeCommand returns a cli.Command for "avrotuple encode".
func NewEncodeCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "encode",
		Usage:     "Encode JSON records as binary records.",
		UsageText: `avrotuple encode [options] [file]`,
		Description: `The encode command reads one JSON record per line and writes
the binary encoding of each record, without any header.

$ avrotuple encode -s user.avsc users.json > users.bin

If no file is given, records are read from STDIN.`,
		Flags: []cli.Flag{
			schemaFlag(),
			outputFlag(),
		},
	}

	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		s, err := recutil.ReadSchema(cmd.String("schema"))
		if err != nil {
			return err
		}

		in, err := openInput(cmd.Args().First())
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := openOutput(cmd.String("file"), cmd.Root().Writer)
		if err != nil {
			return err
		}
		defer out.Close()

		n, err := recutil.Encode(ctx, s, in, out)
		if err != nil {
			return err
		}

		slog.Debug("records encoded", "schema", s.FullName(), "count", n)
		return out.Close()
	}

	return &cmd
}

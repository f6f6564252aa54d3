package commands

import (
	"context"
	"log/slog"

	"github.com/chaisql/avrotuple/cmd/avrotuple/recutil"
	"github.com/urfave/cli/v3"
)

// NewCatCommand returns a cli.Command for "avrotuple cat".
func NewCatCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "cat",
		Usage:     "Print binary records.",
		UsageText: `avrotuple cat [options] [file]`,
		Description: `The cat command prints binary records as JSON, one per line:

$ avrotuple cat -s user.avsc users.bin

It is possible to select fields, which are printed as tuples:

$ avrotuple cat -s user.avsc -F name -F id users.bin
["alice", 1]`,
		Flags: []cli.Flag{
			schemaFlag(),
			&cli.StringSliceFlag{
				Name:    "field",
				Aliases: []string{"F"},
				Usage:   "name of a field to print. Defaults to the whole record.",
			},
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

		n, err := recutil.Cat(ctx, s, in, cmd.Root().Writer, cmd.StringSlice("field")...)
		if err != nil {
			return err
		}

		slog.Debug("records read", "schema", s.FullName(), "count", n)
		return nil
	}

	return &cmd
}

package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/chaisql/avrotuple/cmd/avrotuple/recutil"
	"github.com/urfave/cli/v3"
)

// NewSpillCommand returns a cli.Command for "avrotuple spill".
func NewSpillCommand() *cli.Command {
	cmd := cli.Command{
		Name:      "spill",
		Usage:     "Copy binary records through a transient on-disk store.",
		UsageText: `avrotuple spill [options] [file]`,
		Description: `The spill command stores every record it reads in a transient
store, then writes them back in the same order. The store is removed
when the command ends.

$ avrotuple spill -s user.avsc -d /var/tmp users.bin > copy.bin`,
		Flags: []cli.Flag{
			schemaFlag(),
			outputFlag(),
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   `directory of the transient store, ":memory:" to keep it in memory. Defaults to the system temporary directory.`,
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

		out, err := openOutput(cmd.String("file"), cmd.Root().Writer)
		if err != nil {
			return err
		}
		defer out.Close()

		start := time.Now()
		n, err := recutil.Spill(ctx, s, in, out, cmd.String("dir"))
		if err != nil {
			return err
		}

		slog.Info("records spilled", "schema", s.FullName(), "count", n, "elapsed", time.Since(start))
		return out.Close()
	}

	return &cmd
}

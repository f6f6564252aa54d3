package commands

import (
	"context"
	"fmt"

	"github.com/chaisql/avrotuple/cmd/avrotuple/recutil"
	"github.com/urfave/cli/v3"
)

// NewFingerprintCommand returns a cli.Command for "avrotuple fingerprint".
func NewFingerprintCommand() *cli.Command {
	return &cli.Command{
		Name:      "fingerprint",
		Usage:     "Print the canonical form of a schema and its fingerprint.",
		UsageText: `avrotuple fingerprint -s user.avsc`,
		Flags: []cli.Flag{
			schemaFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := recutil.ReadSchema(cmd.String("schema"))
			if err != nil {
				return err
			}

			c, fp, err := recutil.Fingerprint(s)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.Root().Writer, "%s\n%016x\n", c, fp)
			return err
		},
	}
}

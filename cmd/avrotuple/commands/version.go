package commands

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// NewVersionCommand returns a cli.Command for "avrotuple version".
func NewVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Shows the avrotuple CLI version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				_, err := fmt.Fprintln(cmd.Root().Writer, "version not available")
				return err
			}

			_, err := fmt.Fprintf(cmd.Root().Writer, "avrotuple %v (%v)\n", info.Main.Version, info.GoVersion)
			return err
		},
	}
}

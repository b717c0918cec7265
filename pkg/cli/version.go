package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

func newVersionCommand() *Command {
	cmd := &Command{
		Name:        "version",
		Description: "Print the protoreg version",
		Flags:       flag.NewFlagSet("version", flag.ContinueOnError),
	}
	cmd.Run = func(ctx context.Context, args []string) error {
		fmt.Fprintf(os.Stdout, "protoreg %s\n", Version)
		return nil
	}
	return cmd
}

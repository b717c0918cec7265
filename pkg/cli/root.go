package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(ctx context.Context, args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
}

// NewRootCommand creates the root command
func NewRootCommand() *Command {
	root := &Command{
		Name:        "protoreg",
		Description: "protoreg - dependency-aware schema registry publisher",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("protoreg", flag.ContinueOnError),
	}

	root.Subcommands["post"] = newPostCommand()
	root.Subcommands["get"] = newGetCommand()
	root.Subcommands["version"] = newVersionCommand()

	return root
}

// Execute runs the command named by the first argument
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.usage()
	}

	if args[0] == "-h" || args[0] == "--help" {
		return c.usage()
	}

	if subcmd, ok := c.Subcommands[args[0]]; ok {
		return subcmd.Run(ctx, args[1:])
	}

	return &UsageError{Message: fmt.Sprintf("unknown command: %s", args[0])}
}

// usage prints the command usage
func (c *Command) usage() error {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [args]\n\n", c.Name)
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for name, cmd := range c.Subcommands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", name, cmd.Description)
	}
	return nil
}

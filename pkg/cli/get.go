package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/platinummonkey/protoreg/pkg/publish"
	"github.com/platinummonkey/protoreg/pkg/retrieve"
)

type getOptions struct {
	topic      string
	key        bool
	record     string
	version    int
	outDir     string
	configPath string

	out io.Writer
}

func newGetCommand() *Command {
	cmd, _ := newGetCommandWithOptions()
	return cmd
}

func newGetCommandWithOptions() (*Command, *getOptions) {
	opts := &getOptions{out: os.Stdout}
	cmd := &Command{
		Name:        "get",
		Description: "Retrieve a schema and its references from the registry",
		Flags:       flag.NewFlagSet("get", flag.ContinueOnError),
	}

	cmd.Flags.StringVar(&opts.topic, "topic", "", "Topic the schema is attached to")
	cmd.Flags.BoolVar(&opts.key, "key", false, "Retrieve the topic's key schema")
	cmd.Flags.StringVar(&opts.record, "record", "", "Record name for the subject")
	cmd.Flags.IntVar(&opts.version, "version", 0, "Version to retrieve (0 means latest)")
	cmd.Flags.StringVar(&opts.outDir, "out", "", "Directory to write the schema tree to")
	cmd.Flags.StringVar(&opts.configPath, "config", "", "Config file path")

	cmd.Run = func(ctx context.Context, args []string) error {
		return runGet(ctx, cmd, opts, args)
	}
	return cmd, opts
}

func runGet(ctx context.Context, cmd *Command, opts *getOptions, args []string) error {
	if err := cmd.Flags.Parse(args); err != nil {
		return &UsageError{Message: err.Error()}
	}
	if opts.version < 0 {
		return &UsageError{Message: "version must not be negative"}
	}

	subject, err := publish.SubjectStrategy{
		Topic:  opts.topic,
		Record: opts.record,
		Key:    opts.key,
	}.Subject()
	if err != nil {
		return &UsageError{Message: err.Error()}
	}

	cfg, err := loadConfig(opts.configPath, cmd.Flags.Args())
	if err != nil {
		return err
	}
	ctx = withLogger(ctx, cfg)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	retriever := retrieve.NewRetriever(client, cfg.Retrieve.Concurrency)
	result, err := retriever.Retrieve(ctx, subject, opts.version)
	if err != nil {
		return err
	}

	printSchema(opts.out, result.Root)

	if opts.outDir != "" {
		if err := result.Materialize(opts.outDir); err != nil {
			return err
		}
		fmt.Fprintf(opts.out, "wrote %d schema(s) to %s\n", len(result.Nodes), opts.outDir)
	}
	return nil
}

// printSchema writes one retrieved schema in human-readable form
func printSchema(w io.Writer, node *retrieve.Node) {
	fmt.Fprintf(w, "subject: %s\n", node.Subject)
	fmt.Fprintf(w, "version: %d\n", node.Version)
	fmt.Fprintf(w, "id: %d\n", node.ID)
	if len(node.References) > 0 {
		fmt.Fprintf(w, "references:\n")
		for _, ref := range node.References {
			fmt.Fprintf(w, "  %s -> %s version %d\n", ref.Name, ref.Subject, ref.Version)
		}
	}
	fmt.Fprintf(w, "\n%s\n", node.Content)
}

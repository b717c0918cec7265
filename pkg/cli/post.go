package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/platinummonkey/protoreg/pkg/graph"
	"github.com/platinummonkey/protoreg/pkg/observability"
	"github.com/platinummonkey/protoreg/pkg/publish"
	"github.com/platinummonkey/protoreg/pkg/registry"
	"github.com/platinummonkey/protoreg/pkg/schema"
)

// watchDebounce coalesces bursts of file events into one republish
const watchDebounce = 500 * time.Millisecond

// stringList collects a repeatable string flag
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type postOptions struct {
	schemaType    string
	topic         string
	key           bool
	record        string
	file          string
	includes      stringList
	stripComments bool
	watch         bool
	configPath    string

	// stdout for normal operation, replaced in tests
	out io.Writer
}

func newPostCommand() *Command {
	cmd, _ := newPostCommandWithOptions()
	return cmd
}

func newPostCommandWithOptions() (*Command, *postOptions) {
	opts := &postOptions{out: os.Stdout}
	cmd := &Command{
		Name:        "post",
		Description: "Publish a schema and its imports to the registry",
		Flags:       flag.NewFlagSet("post", flag.ContinueOnError),
	}

	cmd.Flags.StringVar(&opts.schemaType, "type", "protobuf", "Schema type")
	cmd.Flags.StringVar(&opts.topic, "topic", "", "Topic the schema is attached to")
	cmd.Flags.BoolVar(&opts.key, "key", false, "Register as the topic's key schema")
	cmd.Flags.StringVar(&opts.record, "record", "", "Record name for the subject")
	cmd.Flags.StringVar(&opts.file, "file", "", "Root schema file")
	cmd.Flags.Var(&opts.includes, "include", "Additional import directory (repeatable)")
	cmd.Flags.BoolVar(&opts.stripComments, "strip-comments", false, "Strip comments before canonicalization")
	cmd.Flags.BoolVar(&opts.watch, "watch", false, "Republish whenever a loaded file changes")
	cmd.Flags.StringVar(&opts.configPath, "config", "", "Config file path")

	cmd.Run = func(ctx context.Context, args []string) error {
		return runPost(ctx, cmd, opts, args)
	}
	return cmd, opts
}

func runPost(ctx context.Context, cmd *Command, opts *postOptions, args []string) error {
	if err := cmd.Flags.Parse(args); err != nil {
		return &UsageError{Message: err.Error()}
	}

	if opts.file == "" {
		return &UsageError{Message: "a root schema file is required (-file)"}
	}
	if opts.topic == "" && opts.record == "" {
		return &UsageError{Message: "either a topic (-topic) or a record name (-record) is required"}
	}

	schemaType := registry.SchemaType(strings.ToUpper(opts.schemaType))
	if !schemaType.Valid() {
		return &UsageError{Message: fmt.Sprintf("invalid schema type: %s", opts.schemaType)}
	}
	if schemaType != registry.SchemaTypeProtobuf {
		return &UsageError{Message: fmt.Sprintf("schema type %s is not supported yet", schemaType)}
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

	if opts.watch {
		return watchAndPublish(ctx, client, opts)
	}

	records, err := publishOnce(ctx, client, opts)
	if err != nil {
		return err
	}
	printRecords(opts.out, records)
	return nil
}

// publishOnce runs the full pipeline: load the import closure, sequence
// it, and publish it.
func publishOnce(ctx context.Context, client registry.Client, opts *postOptions) ([]*publish.Record, error) {
	g, order, err := buildGraph(ctx, client, opts)
	if err != nil {
		return nil, err
	}

	subject, err := publish.SubjectStrategy{
		Topic:  opts.topic,
		Record: opts.record,
		Key:    opts.key,
	}.Subject()
	if err != nil {
		return nil, &UsageError{Message: err.Error()}
	}

	rootPath := filepath.Base(opts.file)
	publisher := publish.NewPublisher(
		client,
		&schema.ProtoCanonicalizer{StripComments: opts.stripComments},
		publish.RecordNameSubjects(map[string]string{rootPath: subject}),
	)
	return publisher.Publish(ctx, g, order)
}

// buildGraph loads the root file's import closure and sequences it.
// The root file's own directory always resolves first, then the
// include directories in order.
func buildGraph(ctx context.Context, client registry.Client, opts *postOptions) (*graph.Graph, []string, error) {
	dirs := append([]string{filepath.Dir(opts.file)}, opts.includes...)
	resolver := schema.NewDirResolver(dirs...)

	builder := graph.NewBuilder(resolver, publish.NewSubjectLookup(client))
	g, err := builder.Build(ctx, filepath.Base(opts.file))
	if err != nil {
		return nil, nil, err
	}

	order, err := g.TopoSort()
	if err != nil {
		return nil, nil, err
	}
	return g, order, nil
}

// watchAndPublish publishes once, then republishes whenever a proto
// file under a watched directory changes. Events are debounced so an
// editor's burst of writes yields one run.
func watchAndPublish(ctx context.Context, client registry.Client, opts *postOptions) error {
	logger := observability.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dirs := append([]string{filepath.Dir(opts.file)}, opts.includes...)
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	run := func() {
		records, err := publishOnce(ctx, client, opts)
		if err != nil {
			logger.WithError(err).Error("publish failed")
			return
		}
		printRecords(opts.out, records)
	}
	run()

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	logger.WithField("dirs", strings.Join(dirs, ",")).Info("watching for schema changes")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 && filepath.Ext(event.Name) == ".proto" {
				logger.WithField("file", event.Name).Debug("schema file changed")
				debounce.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")

		case <-debounce.C:
			run()
		}
	}
}

// printRecords writes one line per published schema
func printRecords(w io.Writer, records []*publish.Record) {
	for _, record := range records {
		state := "registered"
		switch {
		case record.Stub:
			state = "external"
		case record.Reused:
			state = "unchanged"
		}
		fmt.Fprintf(w, "%s  subject=%s  version=%d  id=%d  (%s)\n",
			record.Path, record.Subject, record.Version, record.ID, state)
	}
}

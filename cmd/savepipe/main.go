// Package main provides the CLI entrypoint for savepipe.
//
// savepipe loads Go packages, finds the structs annotated with
// //savepipe:record and writes, next to every source file that declares
// one, the code that reads and writes them with a version tag and migrates
// data written by older versions.
//
// Usage:
//
//	savepipe [flags] [patterns...]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-openapi/inflect"

	"savepipe/internal/analyze"
	"savepipe/internal/config"
	"savepipe/internal/diagnostic"
	"savepipe/internal/gen"
	"savepipe/internal/logging"
	"savepipe/internal/plan"
	"savepipe/internal/record"
)

// Exit codes.
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("savepipe", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configFile = fs.String("config", config.DefaultFile, "YAML config file")
		envFile    = fs.String("env", config.DefaultEnvFile, "env file with SAVEPIPE_* settings")
		workers    = fs.Int("workers", 0, "artifacts generated concurrently (0 keeps the configured value)")
		verbose    = fs.Bool("v", false, "debug logging")
		dump       = fs.Bool("dump", false, "print the planned records and exit without writing")
		watch      = fs.Bool("watch", false, "regenerate whenever a source file changes")
		initConfig = fs.Bool("init", false, "write the default config file and exit")
	)

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: savepipe [flags] [patterns...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if *initConfig {
		if err := config.WriteFile(config.Default(), *configFile); err != nil {
			fmt.Fprintln(stderr, err)
			return exitFail
		}

		return exitOK
	}

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	if *workers > 0 {
		cfg.Workers = *workers
	}

	if fs.NArg() > 0 {
		cfg.Patterns = fs.Args()
	}

	if *verbose {
		cfg.LogLevel = "debug"
	}

	level, _ := cfg.Level()
	logger := slog.New(logging.NewPrettyHandler(stderr, logging.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
	}))

	r := &runner{
		cfg:       cfg,
		log:       logger,
		committer: gen.FileCommitter{},
		loader: &analyze.Loader{
			BuildTags:    cfg.BuildTags,
			SkipSuffixes: cfg.SkipSuffixes(),
		},
	}

	switch {
	case *dump:
		return r.dump(stdout)
	case *watch:
		return r.watch(ctx)
	}

	if err := r.generate(ctx); err != nil {
		logger.Error("generation failed", "error", err)
		return exitFail
	}

	return exitOK
}

// runner carries one configured generator through its runs.
type runner struct {
	cfg       *config.Config
	log       *slog.Logger
	committer gen.Committer
	loader    *analyze.Loader
}

// errDiagnostics is returned when generation finished but reported errors.
var errDiagnostics = errors.New("error diagnostics reported")

// plan loads the configured packages and plans them.
func (r *runner) plan() (*plan.Plan, diagnostic.Diagnostics, error) {
	r.log.Debug("loading packages", "patterns", r.cfg.Patterns)

	decls, diags, err := r.loader.Load(r.cfg.Patterns...)
	if err != nil {
		return nil, diags, fmt.Errorf("loading packages: %w", err)
	}

	g := record.Collect(decls)
	r.log.Debug("collected records", "declarations", len(decls), "records", len(g.Records))

	p, planDiags := plan.Build(g)
	diags.Merge(planDiags)

	return p, diags, nil
}

// generate runs one full generation and logs its outcome.
func (r *runner) generate(ctx context.Context) error {
	p, diags, err := r.plan()
	if err != nil {
		r.report(diags)
		return err
	}

	res, genErr := gen.GenerateAll(ctx, p, r.committer, r.cfg.GenOptions())
	diags.Merge(res.Diagnostics)
	r.report(diags)

	for _, a := range res.Artifacts {
		switch {
		case a.Err != nil:
			r.log.Error("artifact failed", "unit", a.Unit, "kind", a.Kind, "error", a.Err)
		case a.Changed:
			r.log.Debug("artifact written", "path", a.Path)
		}
	}

	r.log.Info(summary(len(p.Graph.Records), len(p.Units), res.Changed()),
		"errors", len(diags.Errors), "warnings", len(diags.Warnings))

	if genErr != nil {
		return genErr
	}

	if diags.HasErrors() {
		return errDiagnostics
	}

	return nil
}

func (r *runner) report(diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		attrs := []any{"code", d.Code}
		if d.Record != "" {
			attrs = append(attrs, "record", d.Record)
		}

		if d.Field != "" {
			attrs = append(attrs, "field", d.Field)
		}

		if len(d.Suggestions) > 0 {
			attrs = append(attrs, "suggestions", d.Suggestions)
		}

		switch d.Severity {
		case diagnostic.SeverityError:
			r.log.Error(d.Message, attrs...)
		case diagnostic.SeverityWarning:
			r.log.Warn(d.Message, attrs...)
		default:
			r.log.Info(d.Message, attrs...)
		}
	}
}

// dump prints the plan without generating anything.
func (r *runner) dump(out io.Writer) int {
	p, diags, err := r.plan()
	if err != nil {
		r.log.Error("planning failed", "error", err)
		return exitFail
	}

	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}

	cfg.Fdump(out, p.Units)

	for _, d := range diags.All() {
		fmt.Fprintln(out, d.String())
	}

	if diags.HasErrors() {
		return exitFail
	}

	return exitOK
}

// summary describes a run in one line.
func summary(records, units, changed int) string {
	return fmt.Sprintf("%d %s in %d %s, %d %s changed",
		records, plural(records, "record"),
		units, plural(units, "file"),
		changed, plural(changed, "artifact"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return inflect.Pluralize(word)
}

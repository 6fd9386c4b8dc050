// Command roadmapctl inspects and edits a persisted roadmap document from the
// terminal using the configured storage and blob backends.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"roadmapcore/internal/blob"
	"roadmapcore/internal/config"
	"roadmapcore/internal/core"
	"roadmapcore/internal/render"
	"roadmapcore/pkg/domain"
)

var exitFunc = os.Exit

const usage = `usage: roadmapctl [-config path] [-trace] [-metrics] <command> [flags]

commands:
  summary                               print the roadmap overview
  add -quarter Q                        append a blank initiative
  remove-pillar -id ID [-mode M] [-target ID]
                                        remove a pillar (mode delete|move)
  export [-key K]                       write the document to the blob store
  import (-key K | -file PATH)          replace the document from a blob or file
  reset                                 restore the sample roadmap
`

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("roadmapctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "roadmap.yaml", "path to YAML config (optional)")
	trace := fs.Bool("trace", false, "write JSON trace spans to stderr")
	showMetrics := fs.Bool("metrics", false, "print operation counters after the command")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := newLogger(stderr, cfg.Log.Level)

	ctx := context.Background()
	slot, err := core.OpenSlotStore(ctx, cfg)
	if err != nil {
		logger.Error("open storage failed", "driver", cfg.Storage.Driver, "error", err)
		return 1
	}
	defer func() {
		if err := core.CloseSlotStore(slot); err != nil {
			logger.Warn("close storage failed", "error", err)
		}
	}()

	recorder, dump, err := newRecorder(cfg.Metrics)
	if err != nil {
		logger.Error("metrics setup failed", "error", err)
		return 1
	}
	opts := []core.Option{
		core.WithLogger(logger),
		core.WithMetricsRecorder(recorder),
		core.WithStorageKey(cfg.Storage.Key),
	}
	if *trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(stderr)))
	}
	store, err := core.Open(ctx, slot, opts...)
	if err != nil {
		logger.Error("load roadmap failed", "error", err)
		return 1
	}

	app := &app{cfg: cfg, store: store, stdout: stdout, stderr: stderr, logger: logger}
	code := app.run(ctx, fs.Arg(0), fs.Args()[1:])
	if *showMetrics {
		dump(stderr)
	}
	return code
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

type app struct {
	cfg    config.Config
	store  *core.Store
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func (a *app) run(ctx context.Context, cmd string, args []string) int {
	var err error
	switch cmd {
	case "summary":
		err = render.Summary(a.stdout, a.store.Document())
	case "add":
		err = a.add(ctx, args)
	case "remove-pillar":
		err = a.removePillar(ctx, args)
	case "export":
		err = a.export(ctx, args)
	case "import":
		err = a.importDoc(ctx, args)
	case "reset":
		var res domain.Result
		res, err = a.store.Reset(ctx)
		if err == nil {
			fmt.Fprintln(a.stdout, "roadmap reset to sample")
			err = render.Violations(a.stdout, res)
		}
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n%s", cmd, usage)
		return 2
	}
	if errors.Is(err, flag.ErrHelp) || errors.Is(err, errUsage) {
		return 2
	}
	if err != nil {
		var rve core.RuleViolationError
		if errors.As(err, &rve) {
			_ = render.Violations(a.stderr, rve.Result)
		}
		a.logger.Error("command failed", "command", cmd, "error", err)
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.flags("add")
	quarter := fs.String("quarter", "Q1", "quarter for the new initiative")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, res, err := a.store.AddInitiative(ctx, domain.Quarter(strings.ToUpper(*quarter)))
	if err != nil {
		return err
	}
	if in.ID == "" {
		fmt.Fprintln(a.stdout, "no pillars, nothing added")
		return nil
	}
	fmt.Fprintln(a.stdout, in.ID)
	return render.Violations(a.stdout, res)
}

func (a *app) removePillar(ctx context.Context, args []string) error {
	fs := a.flags("remove-pillar")
	id := fs.String("id", "", "pillar id")
	mode := fs.String("mode", string(core.RemoveDelete), "delete or move")
	target := fs.String("target", "", "target pillar for move")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fmt.Fprintln(a.stderr, "remove-pillar: -id is required")
		return errUsage
	}
	res, err := a.store.RemovePillar(ctx, *id, core.RemoveMode(*mode), *target)
	if err != nil {
		return err
	}
	return render.Violations(a.stdout, res)
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flags("export")
	key := fs.String("key", "", "blob key (default exports/roadmap-<year>.json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	blobs, err := blob.Open(ctx, a.cfg.Blob)
	if err != nil {
		return err
	}
	info, err := a.store.ExportTo(ctx, blobs, *key)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, info.Key)
	return nil
}

func (a *app) importDoc(ctx context.Context, args []string) error {
	fs := a.flags("import")
	key := fs.String("key", "", "blob key to import")
	file := fs.String("file", "", "local file to import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var (
		res domain.Result
		err error
	)
	switch {
	case *file != "":
		var data []byte
		if data, err = os.ReadFile(*file); err != nil {
			return err
		}
		res, err = a.store.Import(ctx, data)
	case *key != "":
		var blobs blob.Store
		if blobs, err = blob.Open(ctx, a.cfg.Blob); err != nil {
			return err
		}
		res, err = a.store.ImportFrom(ctx, blobs, *key)
	default:
		fmt.Fprintln(a.stderr, "import: -key or -file is required")
		return errUsage
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "roadmap imported")
	return render.Violations(a.stdout, res)
}

// newRecorder builds the configured metrics recorder and the function that
// prints its totals for -metrics.
func newRecorder(cfg config.Metrics) (core.MetricsRecorder, func(io.Writer), error) {
	if cfg.Exporter == config.ExporterExpvar {
		rec := core.NewExpvarMetricsRecorder("")
		return rec, func(w io.Writer) { printExpvar(w, rec.Snapshot()) }, nil
	}
	reg := prometheus.NewRegistry()
	rec, err := core.NewPrometheusMetricsRecorder(reg, cfg.Namespace)
	if err != nil {
		return nil, nil, err
	}
	return rec, func(w io.Writer) { printMetrics(w, reg) }, nil
}

func printExpvar(w io.Writer, snap core.ExpvarMetricsSnapshot) {
	var lines []string
	for op, counts := range snap.Results {
		for status, n := range counts {
			lines = append(lines, fmt.Sprintf("%s{status=%s} %d", op, status, n))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

func printMetrics(w io.Writer, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		fmt.Fprintf(w, "gather metrics: %v\n", err)
		return
	}
	var lines []string
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "_total") {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wdm0006/lfbclean/pkg/config"
	"github.com/wdm0006/lfbclean/pkg/frame"
	"github.com/wdm0006/lfbclean/pkg/io/csvio"
	"github.com/wdm0006/lfbclean/pkg/io/jsonlio"
	"github.com/wdm0006/lfbclean/pkg/io/parquetio"
	"github.com/wdm0006/lfbclean/pkg/io/pgio"
	"github.com/wdm0006/lfbclean/pkg/io/xlsxio"
	"github.com/wdm0006/lfbclean/pkg/lfb"
	"github.com/wdm0006/lfbclean/pkg/observability"
	"github.com/wdm0006/lfbclean/pkg/pipeline"
	"github.com/wdm0006/lfbclean/pkg/profile"
)

var (
	version = "0.1.0-dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "", "Path to config (JSON, YAML or TOML)")
	showProfile := flag.Bool("profile", false, "Print a profile of the cleaned table to stderr")
	reportPath := flag.String("report", "", "Write the run report as JSON to this path")
	metricsPath := flag.String("metrics-file", "", "Write Prometheus metrics in text format to this path")
	flag.Parse()

	if *showVersion {
		fmt.Println("lfbclean", version)
		return
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "no config provided; nothing to do. try --config <file> or --version")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	err = run(ctx, cfg, logger, metrics, *showProfile, *reportPath)
	if *metricsPath != "" {
		if werr := prometheus.WriteToTextfile(*metricsPath, reg); werr != nil {
			logger.Error("writing metrics", "path", *metricsPath, "error", werr)
		}
	}
	if err != nil {
		logger.Error("lfbclean failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, showProfile bool, reportPath string) error {
	raw, err := read(ctx, cfg.Input, logger)
	if err != nil {
		return err
	}
	logger.Info("input loaded", "type", cfg.Input.Type, "rows", raw.Rows())

	out, rep, err := lfb.Clean(ctx, raw, cfg.Clean,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metrics),
	)
	if rep != nil && reportPath != "" {
		if werr := writeReport(reportPath, rep); werr != nil {
			logger.Error("writing report", "path", reportPath, "error", werr)
		}
	}
	if err != nil {
		return err
	}
	if n := len(rep.Gaps); n > 0 {
		logger.Warn("some values could not be imputed", "gaps", n)
	}

	if err := write(cfg.Output, out); err != nil {
		return err
	}
	logger.Info("output written", "type", cfg.Output.Type, "path", cfg.Output.Path, "rows", out.Rows(), "run_id", rep.RunID)

	if showProfile {
		pc := profile.NewCollector(out.Schema(), 5)
		pc.ConsumeFrame(out)
		fmt.Fprint(os.Stderr, pc.ReportText())
	}
	return nil
}

func read(ctx context.Context, in config.Input, logger *slog.Logger) (*frame.Frame, error) {
	schema := lfb.RawSchema()
	switch in.Type {
	case config.InputCSV:
		f, warnings, err := csvio.Read(in.Path, schema, csvio.ReaderOptions{Delimiter: config.Delim(in.Delimiter)})
		if warnings != "" {
			logger.Warn("csv records repaired", "path", in.Path, "warnings", warnings)
		}
		return f, err
	case config.InputXLSX:
		return xlsxio.Read(in.Path, in.Sheet, schema)
	case config.InputParquet:
		return parquetio.Read(in.Path, schema)
	case config.InputPostgres:
		return pgio.Fetch(ctx, in.Source, schema, in.Query, in.Args...)
	default:
		return nil, fmt.Errorf("unsupported input type %q", in.Type)
	}
}

func write(out config.Output, f *frame.Frame) error {
	switch out.Type {
	case "csv":
		return csvio.WriteAll(out.Path, f, csvio.WriterOptions{Delimiter: config.Delim(out.Delimiter)})
	case "jsonl":
		return jsonlio.WriteAll(out.Path, f)
	case "parquet":
		return parquetio.WriteAll(out.Path, f)
	default:
		return fmt.Errorf("unsupported output type %q", out.Type)
	}
}

func writeReport(path string, rep *pipeline.Report) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

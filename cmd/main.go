package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"artifactbench/benchmark"
	"artifactbench/config"
	"artifactbench/logging"
	"artifactbench/payload"
	"artifactbench/progress"
	"artifactbench/report"
	"artifactbench/repository"
)

type options struct {
	envFile      string
	serverURL    string
	username     string
	logLevel     string
	payload      string
	phases       []string
	progressMode string
	output       string
	noColor      bool
	pageSize     int
	params       benchmark.BenchmarkParams
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{params: benchmark.DefaultParams()}

	cmd := &cobra.Command{
		Use:   "artifactbench",
		Short: "Benchmark upload, batch upload, query and search latency of an artifact repository",
		Long: `artifactbench drives a remote artifact repository through four phases and
prints the elapsed time of each:

  upload   one upload call per synthesized document
  batch    the same documents sent as archives of --batch-size entries
  query    find-all, relationship, by-UUID and metadata lookups chained on the first result
  search   one full-text search

Connection settings come from ARTIFACT_REPO_URL, ARTIFACT_REPO_USER and
ARTIFACT_REPO_PASSWORD (a .env file in the working directory is read first).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.envFile, "env-file", "", "env file to load (default ./.env if present)")
	f.StringVar(&opts.serverURL, "server", "", "repository base URL (overrides ARTIFACT_REPO_URL)")
	f.StringVar(&opts.username, "user", "", "repository user (overrides ARTIFACT_REPO_USER)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	f.StringVar(&opts.payload, "payload", "", "payload template: file path, oci://namespace/bucket/object or s3://bucket/key (default built-in PO.xsd)")
	f.StringSliceVar(&opts.phases, "phases", []string{"all"}, "phases to run: upload, batch, query, search or all")
	f.StringVar(&opts.progressMode, "progress", string(progress.ModeLines), "progress display: lines, bar or none")
	f.StringVar(&opts.output, "output", string(report.FormatText), "summary format: text or json")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	f.IntVar(&opts.pageSize, "page-size", 100, "results requested per query")

	p := &opts.params
	f.IntVar(&p.ItemCount, "count", p.ItemCount, "documents per upload phase")
	f.IntVar(&p.BatchSize, "batch-size", p.BatchSize, "documents per batched upload call")
	f.IntVar(&p.Repeat, "repeat", p.Repeat, "repetitions of each phase inside its measurement")
	f.IntVar(&p.ProgressInterval, "progress-interval", p.ProgressInterval, "iterations between progress lines")
	f.StringVar(&p.NamePrefix, "name-prefix", p.NamePrefix, "document name prefix")
	f.StringVar(&p.Extension, "extension", p.Extension, "file extension for single uploads")
	f.StringVar(&p.FindAllQuery, "find-all-query", p.FindAllQuery, "query whose first result anchors the query chain")
	f.StringVar(&p.RelationshipQuery, "relationship-query", p.RelationshipQuery, "relationship traversal query")
	f.StringVar(&p.SearchPhrase, "search-phrase", p.SearchPhrase, "full-text search phrase")

	return cmd
}

func run(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	if opts.serverURL != "" {
		cfg.ServerURL = opts.serverURL
	}
	if opts.username != "" {
		cfg.Username = opts.username
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	params := opts.params
	if params.Phases, err = benchmark.ParsePhases(opts.phases); err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}
	mode, err := progress.ParseMode(opts.progressMode)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	if opts.noColor {
		color.NoColor = true
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	out := output{stdout: stdout, stderr: stderr, mode: mode, format: format}
	if err := execute(ctx, cfg, params, opts, out, runID, logger); err != nil {
		logger.Error("benchmark aborted", zap.Error(err))
		return err
	}
	return nil
}

// output routes what the run prints. In JSON format stdout carries only JSON
// lines, so headings and progress move to stderr.
type output struct {
	stdout io.Writer
	stderr io.Writer
	mode   progress.Mode
	format report.Format
}

func (o output) console() io.Writer {
	if o.format == report.FormatJSON {
		return o.stderr
	}
	return o.stdout
}

func execute(ctx context.Context, cfg *config.Config, params benchmark.BenchmarkParams, opts *options, out output, runID string, logger *zap.Logger) error {
	loader := payload.Loader{
		OCIProvider: func() (common.ConfigurationProvider, error) {
			fmt.Fprintf(out.console(), "Loading OCI config from: %s\n", cfg.OCIConfigFile)
			return cfg.LoadOCIConfig()
		},
	}
	data, err := loader.Load(ctx, opts.payload)
	if err != nil {
		return fmt.Errorf("loading payload: %w", err)
	}
	logger.Info("payload loaded", zap.Int("bytes", len(data)), zap.String("source", payloadName(opts.payload)))

	session, err := repository.Connect(ctx, repository.Options{
		ServerURL: cfg.ServerURL,
		Username:  cfg.Username,
		Password:  cfg.Password,
		PageSize:  opts.pageSize,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	rep := report.New(out.stdout, out.format, runID).SetHeadingWriter(out.console())
	pf := progress.NewFactory(out.mode, out.console(), params.ProgressInterval)

	h, err := benchmark.NewHarness(session, params, data, rep, pf, logger)
	if err != nil {
		return err
	}
	if err := h.Run(ctx); err != nil {
		return err
	}
	return rep.Summary()
}

func payloadName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "built-in PO.xsd"
	}
	return raw
}

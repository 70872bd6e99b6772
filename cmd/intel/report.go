package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/cli"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/report"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/timeframe"
)

type reportOptions struct {
	sources   sourceFlags
	user      string
	timeframe string
	format    string
	requestID string
	out       string
	detailed  bool
	archive   bool
}

func reportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a financial intelligence report",
		Long: `Generate a report for one user from a single data source.

Examples:
  intel report --user u1 --statement statement.json
  intel report --user u1 --ofx checking.qfx --timeframe 3m --detailed --format html --out report.html
  intel report --user u1 --plaid --timeframe all --format text`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}

	addSourceFlags(cmd, &opts.sources)
	cmd.Flags().StringVar(&opts.user, "user", "", "user the report is for")
	cmd.Flags().StringVar(&opts.timeframe, "timeframe", "", "window such as 30d, 3m, 1y or all (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: json, html, pdf or text (default from config)")
	cmd.Flags().StringVar(&opts.requestID, "request-id", "", "correlation id stamped on the report")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include cadence, recurring, travel and backend rule sections")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "save the report to the archive even when archive.enabled is off")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runReport(cmd *cobra.Command, opts *reportOptions) error {
	ctx := cmd.Context()
	cfg := appConfig

	tf := opts.timeframe
	if tf == "" {
		tf = cfg.Report.Timeframe
	}
	format := opts.format
	if format == "" {
		format = cfg.Report.Format
	}
	if err := validateFormat(format); err != nil {
		return err
	}
	detailed := opts.detailed || cfg.Report.Detailed

	src, err := selectSource(cfg, opts.sources)
	if err != nil {
		return err
	}

	period := timeframe.Resolve(tf, time.Now())
	slog.Debug("Fetching snapshot", "source", src.Name(), "user", opts.user, "start", period.StartDate, "end", period.EndDate)

	input, err := src.Fetch(ctx, period)
	if err != nil {
		if common.IsRetryable(err) {
			return common.NewUserError(src.Name()+" is temporarily unavailable; try again later", err)
		}
		return fmt.Errorf("failed to fetch data from %s: %w", src.Name(), err)
	}

	engine, cleanup, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := engine.Generate(ctx, report.Request{
		UserID:          opts.user,
		Timeframe:       tf,
		RequestID:       opts.requestID,
		Format:          engineFormat(format),
		IncludeDetailed: detailed,
	}, input)
	if err != nil {
		return err
	}

	if opts.archive {
		cfg.Archive.Enabled = true
	}
	store, err := openArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeArchive(store)
	if store != nil {
		if err := store.Save(ctx, r); err != nil {
			return fmt.Errorf("failed to archive report: %w", err)
		}
		slog.Info("Report archived", "id", r.ID, "user", r.UserID)
	}

	data, err := render(ctx, r, format)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, opts.out, data); err != nil {
		return err
	}

	if opts.out != "" && opts.out != "-" {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Report %s written to %s", r.ID, opts.out)))
	}
	if n := r.FallbackCount(); n > 0 {
		slog.Warn("Some sections used fallback content", "fallback", n, "sections", len(r.Sections))
	}
	return nil
}

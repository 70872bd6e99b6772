package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/archive"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/cli"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/config"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/model"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/normalize"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/report"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/source"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/timeframe"
)

// manifest lists the reports of a bulk run.
type manifest struct {
	Jobs []manifestJob `json:"jobs"`
}

// manifestJob is one report request. Exactly one of StatementData, Statement
// or OFX supplies the data.
type manifestJob struct {
	StatementData   *normalize.Statement `json:"statementData,omitempty"`
	UserID          string               `json:"userId"`
	Timeframe       string               `json:"timeframe"`
	RequestID       string               `json:"requestId"`
	Statement       string               `json:"statement"`
	OFX             string               `json:"ofx"`
	IncludeDetailed bool                 `json:"includeDetailed"`
}

type bulkOptions struct {
	manifest string
	outDir   string
	format   string
	detailed bool
}

func bulkCmd() *cobra.Command {
	opts := &bulkOptions{}

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Generate reports for many users from a manifest",
		Long: `Generate one report per manifest entry. A failing entry is counted and
reported but never stops the others.

Manifest format:
  {"jobs": [
    {"userId": "u1", "timeframe": "3m", "statement": "u1.json"},
    {"userId": "u2", "ofx": "u2.qfx", "includeDetailed": true}
  ]}`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBulk(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "manifest JSON file")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "reports", "directory reports are written to")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: json, html, pdf or text (default from config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include detailed sections for every job")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func runBulk(cmd *cobra.Command, opts *bulkOptions) error {
	ctx := cmd.Context()
	cfg := appConfig

	format := opts.format
	if format == "" {
		format = cfg.Report.Format
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	m, err := loadManifest(config.ExpandPath(opts.manifest))
	if err != nil {
		return err
	}
	if len(m.Jobs) == 0 {
		return common.NewUserError("manifest has no jobs", common.ErrInvalidConfig)
	}

	jobs, failures := buildJobs(ctx, cfg, m, format, opts.detailed)

	engine, cleanup, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := openArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeArchive(store)

	progress := cli.NewBulkProgress(cmd.ErrOrStderr(), len(m.Jobs))
	for range failures {
		progress.Record(common.ErrNoData)
	}

	summary := engine.GenerateBulk(ctx, jobs, func(res report.BulkResult) {
		progress.Record(res.Err)
		interrupt.SetSummary(progress.Summary())
	})
	progress.Finish()

	for _, res := range summary.Results {
		if res.Err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", res.UserID, res.Err))
			continue
		}
		if err := saveBulkResult(cmd, store, res.Report, opts.outDir, format); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", res.UserID, err))
		}
	}

	for _, failure := range failures {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError(failure))
	}
	if interrupt.WasInterrupted() {
		return common.NewUserError("bulk run interrupted; "+progress.Summary(), context.Canceled)
	}
	if len(failures) == len(m.Jobs) {
		return fmt.Errorf("all %d report(s) failed", len(m.Jobs))
	}
	return nil
}

func loadManifest(path string) (*manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Failed to close manifest", "path", path, "error", closeErr)
		}
	}()
	return decodeManifest(file)
}

func decodeManifest(r io.Reader) (*manifest, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var m manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// buildJobs loads each job's data. Jobs whose data cannot be loaded are
// described in the returned failures instead.
func buildJobs(ctx context.Context, cfg *config.Config, m *manifest, format string, detailed bool) ([]report.BulkJob, []string) {
	var (
		jobs     []report.BulkJob
		failures []string
	)
	now := time.Now()

	for i, mj := range m.Jobs {
		tf := mj.Timeframe
		if tf == "" {
			tf = cfg.Report.Timeframe
		}

		input, err := loadJobInput(ctx, mj, timeframe.Resolve(tf, now))
		if err != nil {
			failures = append(failures, fmt.Sprintf("job %d (%s): %v", i, mj.UserID, err))
			continue
		}

		jobs = append(jobs, report.BulkJob{
			Input: input,
			Request: report.Request{
				UserID:          mj.UserID,
				Timeframe:       tf,
				RequestID:       mj.RequestID,
				Format:          engineFormat(format),
				IncludeDetailed: mj.IncludeDetailed || detailed || cfg.Report.Detailed,
			},
		})
	}
	return jobs, failures
}

func loadJobInput(ctx context.Context, mj manifestJob, period model.DateRange) (normalize.Input, error) {
	switch {
	case mj.StatementData != nil:
		return normalize.Input{Statement: mj.StatementData}, nil
	case mj.Statement != "":
		return source.StatementFile{Path: config.ExpandPath(mj.Statement)}.Fetch(ctx, period)
	case mj.OFX != "":
		return source.OFXFile{Path: config.ExpandPath(mj.OFX)}.Fetch(ctx, period)
	default:
		return normalize.Input{}, fmt.Errorf("%w: job has no statement, statementData or ofx", common.ErrInvalidConfig)
	}
}

func saveBulkResult(cmd *cobra.Command, store *archive.Store, r *report.Report, outDir, format string) error {
	if store != nil {
		if err := store.Save(cmd.Context(), r); err != nil {
			return fmt.Errorf("failed to archive report: %w", err)
		}
	}

	data, err := render(cmd.Context(), r, format)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s-%s.%s", safeFileName(r.UserID), r.ID, extension(format))
	return writeOutput(cmd, filepath.Join(outDir, name), data)
}

// safeFileName keeps user ids usable as file name prefixes.
func safeFileName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
	if s == "" {
		return "report"
	}
	return s
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/archive"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/config"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/llm"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/report"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/source"
)

const formatText = "text"

// sourceFlags names where a snapshot comes from.
type sourceFlags struct {
	Statement string
	OFX       string
	Plaid     bool
	SimpleFIN bool
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVar(&f.Statement, "statement", "", "JSON statement file")
	cmd.Flags().StringVar(&f.OFX, "ofx", "", "OFX/QFX file")
	cmd.Flags().BoolVar(&f.Plaid, "plaid", false, "fetch from Plaid using the configured access token")
	cmd.Flags().BoolVar(&f.SimpleFIN, "simplefin", false, "fetch from SimpleFIN using the configured access URL")
}

// selectSource returns the single snapshot source named by f.
func selectSource(cfg *config.Config, f sourceFlags) (source.SnapshotSource, error) {
	var sources []source.SnapshotSource
	if f.Statement != "" {
		sources = append(sources, source.StatementFile{Path: config.ExpandPath(f.Statement)})
	}
	if f.OFX != "" {
		sources = append(sources, source.OFXFile{Path: config.ExpandPath(f.OFX)})
	}
	if f.Plaid {
		src, err := source.NewPlaidSource(cfg.PlaidSource())
		if err != nil {
			return nil, common.NewUserError("Plaid is not configured; set plaid.client_id, plaid.secret and plaid.access_token", err)
		}
		sources = append(sources, src)
	}
	if f.SimpleFIN {
		src, err := source.NewSimpleFINSource(cfg.SimpleFIN.AccessURL)
		if err != nil {
			return nil, common.NewUserError("SimpleFIN is not configured; run 'intel auth simplefin <setup-token>'", err)
		}
		sources = append(sources, src)
	}

	switch len(sources) {
	case 0:
		return nil, common.NewUserError("no data source given; use --statement, --ofx, --plaid or --simplefin", common.ErrInvalidConfig)
	case 1:
		return sources[0], nil
	default:
		return nil, common.NewUserError("only one data source may be given", common.ErrInvalidConfig)
	}
}

// newEngine builds a report engine from cfg. The returned cleanup releases
// the oracle client.
func newEngine(ctx context.Context, cfg *config.Config) (*report.Engine, func(), error) {
	deps := report.Deps{Logger: slog.Default()}
	cleanup := func() {}

	if cfg.OracleEnabled() {
		client, err := llm.NewClient(ctx, cfg.LLM())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create %s client: %w", cfg.Oracle.Provider, err)
		}
		deps.Oracle = report.NewLLMOracle(client)
		cleanup = func() {
			if closer, ok := client.(llm.Closer); ok {
				if err := closer.Close(); err != nil {
					slog.Warn("Failed to close LLM client", "error", err)
				}
			}
		}
	} else {
		slog.Info("No oracle provider configured; sections will use fallback content")
	}

	engine, err := report.NewEngineWithConfig(deps, cfg.Engine())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return engine, cleanup, nil
}

// openArchive opens the archive when enabled. A nil store means archiving is off.
func openArchive(ctx context.Context, cfg *config.Config) (*archive.Store, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	store, err := archive.Open(ctx, cfg.Archive.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return store, nil
}

func closeArchive(store *archive.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close archive", "error", err)
	}
}

// engineFormat maps an output format to the format stamped on the report.
func engineFormat(format string) string {
	if strings.EqualFold(format, formatText) {
		return report.FormatJSON
	}
	return strings.ToLower(format)
}

// validateFormat rejects an output format before any work is done for it.
func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case formatText, report.FormatJSON, report.FormatHTML, report.FormatPDF:
		return nil
	}
	return common.NewUserError(
		fmt.Sprintf("unsupported format %q; use json, html, pdf or text", format),
		fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, format))
}

// render serializes r for output.
func render(ctx context.Context, r *report.Report, format string) ([]byte, error) {
	if strings.EqualFold(format, formatText) {
		return []byte(report.TerminalFormatter{Width: 80}.Render(r) + "\n"), nil
	}
	return report.NewFormatter(nil).Format(ctx, r, format)
}

// extension returns the file extension for a format.
func extension(format string) string {
	switch strings.ToLower(format) {
	case formatText:
		return "txt"
	case report.FormatHTML:
		return "html"
	case report.FormatPDF:
		// Without a renderer the pdf body is the pending JSON document.
		return "pdf.json"
	default:
		return "json"
	}
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	path = config.ExpandPath(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/archive"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/cli"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/timeframe"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived reports",
		Long:  `List, show and delete reports saved to the archive (archive.enabled).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cmd, args); err != nil {
				return err
			}
			if !appConfig.Archive.Enabled {
				return common.NewUserError("the archive is disabled; set archive.enabled to true", common.ErrInvalidConfig)
			}
			return nil
		},
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyDeleteCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	var (
		user  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's reports, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openArchive(cmd.Context(), appConfig)
			if err != nil {
				return err
			}
			defer closeArchive(store)

			entries, err := store.ListByUser(cmd.Context(), user, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo(fmt.Sprintf("No archived reports for %s", user)))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderEntries(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user whose reports to list")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of reports")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func historyShowCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "show <report-id>",
		Short: "Render an archived report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			store, err := openArchive(cmd.Context(), appConfig)
			if err != nil {
				return err
			}
			defer closeArchive(store)

			r, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			data, err := render(cmd.Context(), r, format)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, data)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: json, html, pdf or text")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <report-id>",
		Short: "Delete an archived report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openArchive(cmd.Context(), appConfig)
			if err != nil {
				return err
			}
			defer closeArchive(store)

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Deleted report "+args[0]))
			return nil
		},
	}
}

// renderEntries lays archive entries out as an aligned table.
func renderEntries(entries []archive.Entry) string {
	headers := []string{"ID", "GENERATED", "PERIOD", "SECTIONS", "FALLBACK"}
	columns := make([][]string, len(headers))
	for i, h := range headers {
		columns[i] = []string{cli.BoldStyle.Render(h)}
	}

	for _, e := range entries {
		period := "all time"
		if !e.PeriodStart.IsZero() && e.Timeframe != timeframe.All {
			period = e.PeriodStart.Format("2006-01-02") + " to " + e.PeriodEnd.Format("2006-01-02")
		}
		row := []string{
			e.ID,
			e.GeneratedAt.Format("2006-01-02 15:04"),
			period,
			fmt.Sprintf("%d", e.SectionCount),
			fmt.Sprintf("%d", e.FallbackCount),
		}
		for i, cell := range row {
			columns[i] = append(columns[i], cell)
		}
	}

	rendered := make([]string, len(columns))
	for i, col := range columns {
		rendered[i] = cli.TableCellStyle.Render(strings.Join(col, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

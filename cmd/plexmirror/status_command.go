package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"plexmirror/internal/catalog"
	"plexmirror/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report database health and catalog counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			health, err := st.CheckHealth(cmd.Context())
			if err != nil {
				return fmt.Errorf("check health: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Database", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Path", statusInfo, st.Path(), colorize))
			if info, err := os.Stat(st.Path()); err == nil {
				fmt.Fprintln(out, renderStatusLine("Size", statusInfo, catalog.HumanSize(info.Size()), colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Schema version", statusInfo, strconv.Itoa(health.SchemaVersion), colorize))

			ftsKind, ftsMessage := statusOK, "available"
			if !health.FTSEnabled {
				ftsKind, ftsMessage = statusWarn, "unavailable, search uses LIKE fallback"
			}
			fmt.Fprintln(out, renderStatusLine("Full-text search", ftsKind, ftsMessage, colorize))

			integrityKind, integrityMessage := statusOK, "ok"
			if !health.IntegrityCheck {
				integrityKind, integrityMessage = statusError, "integrity check failed"
			}
			fmt.Fprintln(out, renderStatusLine("Integrity", integrityKind, integrityMessage, colorize))

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Catalog", colorize) {
				fmt.Fprintln(out, line)
			}
			rows := make([][]string, 0, len(health.Tables))
			for _, counts := range health.Tables {
				rows = append(rows, []string{
					counts.Table,
					strconv.FormatInt(counts.Available, 10),
					strconv.FormatInt(counts.Total-counts.Available, 10),
					strconv.FormatInt(counts.Total, 10),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Table", "Available", "Unavailable", "Total"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight}))
			return nil
		},
	}
}

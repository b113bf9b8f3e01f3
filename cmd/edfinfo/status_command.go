package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"edfinfo/internal/config"
	"edfinfo/internal/index"
	"edfinfo/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show converter availability, paths, and index totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines, configStatusLines(ctx, cfg, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Readiness", colorize)...)
			for _, result := range preflight.RunAll(cfg) {
				lines = append(lines, preflightStatusLine(result, colorize))
			}
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Index", colorize)...)
			lines = append(lines, indexStatusLines(cmd.Context(), ctx, colorize)...)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func configStatusLines(ctx *commandContext, cfg *config.Config, colorize bool) []string {
	source := ctx.configPath
	if !ctx.configExists {
		source = "defaults (no file at " + ctx.configPath + ")"
	}
	return []string{
		renderStatusLine("Config", statusInfo, source, colorize),
		renderStatusLine("Fallback", statusInfo, yesNo(cfg.Converter.Enabled), colorize),
		renderStatusLine("Recorded by target", statusInfo, cfg.Parse.RecordedByTarget, colorize),
		renderStatusLine("Concurrency", statusInfo, fmt.Sprintf("%d", cfg.Parse.Concurrency), colorize),
	}
}

func preflightStatusLine(result preflight.Result, colorize bool) string {
	switch {
	case result.Passed:
		return renderStatusLine(result.Name, statusOK, result.Detail, colorize)
	case result.Optional:
		return renderStatusLine(result.Name, statusWarn, result.Detail, colorize)
	default:
		return renderStatusLine(result.Name, statusError, result.Detail, colorize)
	}
}

func indexStatusLines(ctx context.Context, cmdCtx *commandContext, colorize bool) []string {
	var lines []string
	err := cmdCtx.withStore(func(store *index.Store) error {
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		total := 0
		for _, count := range stats {
			total += count
		}
		lines = append(lines, renderStatusLine("Database", statusOK, store.Path(), colorize))
		summary := fmt.Sprintf("%d recordings", total)
		for _, status := range index.AllStatuses() {
			if count := stats[status]; count > 0 {
				summary += fmt.Sprintf(", %d %s", count, status)
			}
		}
		lines = append(lines, renderStatusLine("Entries", statusInfo, summary, colorize))
		return nil
	})
	if err != nil {
		lines = append(lines, renderStatusLine("Database", statusError, err.Error(), colorize))
	}
	return lines
}

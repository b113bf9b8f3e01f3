package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"edfinfo/internal/discovery"
	"edfinfo/internal/index"
	"edfinfo/internal/report"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect and manage the recording index",
	}

	indexCmd.AddCommand(newIndexScanCommand(ctx))
	indexCmd.AddCommand(newIndexListCommand(ctx))
	indexCmd.AddCommand(newIndexShowCommand(ctx))
	indexCmd.AddCommand(newIndexStatsCommand(ctx))
	indexCmd.AddCommand(newIndexRemoveCommand(ctx))
	indexCmd.AddCommand(newIndexClearCommand(ctx))

	return indexCmd
}

func newIndexScanCommand(ctx *commandContext) *cobra.Command {
	var overrides parserOverrides

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Parse every recording below a directory into the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := newCLILogger(cfg, ctx.isVerbose())
			if err != nil {
				return err
			}
			paths, err := discovery.FindRecordings(args[0])
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No recordings found under %s\n", args[0])
				return nil
			}
			parser, err := newParser(cfg, logger, nil, overrides)
			if err != nil {
				return err
			}
			results := parser.ParseAll(cmd.Context(), paths, cfg.Parse.Concurrency)
			return ctx.withStore(func(store *index.Store) error {
				return recordResults(cmd, store, results)
			})
		},
	}

	cmd.Flags().BoolVar(&overrides.noFallback, "no-fallback", false, "Only read recording headers; never run the converter")
	return cmd
}

func newIndexListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []index.Status
			for _, value := range listStatuses {
				status, ok := index.ParseStatus(value)
				if !ok {
					return fmt.Errorf("unknown status %q", value)
				}
				statuses = append(statuses, status)
			}
			return ctx.withStore(func(store *index.Store) error {
				entries, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Index is empty")
					return nil
				}
				table := report.RenderTable(
					[]string{"Recording", "Status", "Experiment", "Participant", "Session", "Parsed"},
					buildIndexListRows(entries),
					[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignLeft},
				)
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by index status (repeatable)")
	return cmd
}

func buildIndexListRows(entries []*index.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Path,
			string(entry.Status),
			entry.Field("experiment"),
			entry.Field("participant"),
			entry.Field("session"),
			entry.ParsedAt.Local().Format(time.DateTime),
		})
	}
	return rows
}

func newIndexShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <recording>",
		Short: "Show the indexed metadata of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *index.Store) error {
				entry, err := store.Get(cmd.Context(), path)
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("%s is not indexed", path)
				}
				if asJSON {
					return writeJSON(cmd, newIndexEntryView(entry))
				}
				out := cmd.OutOrStdout()
				if err := report.WriteText(out, recordFromEntry(entry)); err != nil {
					return err
				}
				fmt.Fprintf(out, "Status: %s (parsed %s)\n", entry.Status, entry.ParsedAt.Local().Format(time.DateTime))
				if entry.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", entry.Error)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the entry as JSON")
	return cmd
}

func newIndexStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count indexed recordings by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *index.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := buildIndexStatsRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Index is empty")
					return nil
				}
				table := report.RenderTable([]string{"Status", "Count"}, rows, []report.Alignment{report.AlignLeft, report.AlignRight})
				fmt.Fprint(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func buildIndexStatsRows(stats map[index.Status]int) [][]string {
	var rows [][]string
	for _, status := range index.AllStatuses() {
		if count := stats[status]; count > 0 {
			rows = append(rows, []string{string(status), fmt.Sprintf("%d", count)})
		}
	}
	return rows
}

func newIndexRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <recording>...",
		Short: "Remove recordings from the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *index.Store) error {
				out := cmd.OutOrStdout()
				var missing []string
				for _, arg := range args {
					path, err := filepath.Abs(arg)
					if err != nil {
						return err
					}
					removed, err := store.Remove(cmd.Context(), path)
					if err != nil {
						return err
					}
					if !removed {
						missing = append(missing, path)
						continue
					}
					fmt.Fprintf(out, "Removed %s\n", path)
				}
				if len(missing) > 0 {
					return fmt.Errorf("not indexed: %v", missing)
				}
				return nil
			})
		},
	}
}

func newIndexClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry from the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("refusing to clear the index without --force")
			}
			return ctx.withStore(func(store *index.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm clearing the index")
	return cmd
}

type indexEntryView struct {
	ID       string            `json:"id"`
	Path     string            `json:"path"`
	Kind     string            `json:"kind"`
	Status   string            `json:"status"`
	Fields   map[string]string `json:"fields"`
	Missing  []string          `json:"missing,omitempty"`
	Error    string            `json:"error,omitempty"`
	ParsedAt string            `json:"parsed_at"`
}

func newIndexEntryView(entry *index.Entry) indexEntryView {
	return indexEntryView{
		ID:       entry.ID,
		Path:     entry.Path,
		Kind:     entry.Kind,
		Status:   string(entry.Status),
		Fields:   entry.Fields,
		Missing:  entry.Missing,
		Error:    entry.Error,
		ParsedAt: entry.ParsedAt.Format(time.RFC3339),
	}
}

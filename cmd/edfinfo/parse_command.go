package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"edfinfo/internal/discovery"
	"edfinfo/internal/eyefile"
	"edfinfo/internal/index"
	"edfinfo/internal/metrics"
	"edfinfo/internal/report"
	"edfinfo/internal/services"
)

const (
	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type parseOptions struct {
	globs       []string
	format      string
	index       bool
	concurrency int
	metricsFile string
	overrides   parserOverrides
}

func runParse(cmd *cobra.Command, ctx *commandContext, opts *parseOptions, args []string) error {
	format := strings.ToLower(strings.TrimSpace(opts.format))
	switch format {
	case formatText, formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unsupported format %q (use text, table, json, or yaml)", opts.format)
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := newCLILogger(cfg, ctx.isVerbose())
	if err != nil {
		return err
	}

	paths, err := discovery.Expand(args, opts.globs)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	candidates := make([]string, 0, len(paths))
	for _, path := range paths {
		if !discovery.Exists(path) {
			printSkipping(stderr, path)
			continue
		}
		candidates = append(candidates, path)
	}

	collector := metrics.New()
	parser, err := newParser(cfg, logger, collector, opts.overrides)
	if err != nil {
		return err
	}

	limit := opts.concurrency
	if limit <= 0 {
		limit = cfg.Parse.Concurrency
	}
	results := parser.ParseAll(cmd.Context(), candidates, limit)

	failed, err := writeResults(cmd, format, results)
	if err != nil {
		return err
	}

	if opts.index {
		if err := ctx.withStore(func(store *index.Store) error {
			return recordResults(cmd, store, results)
		}); err != nil {
			return err
		}
	}

	textfile := strings.TrimSpace(opts.metricsFile)
	if textfile == "" {
		textfile = cfg.Metrics.TextfilePath
	}
	if err := collector.WriteTextfile(textfile); err != nil {
		return err
	}

	if err := cmd.Context().Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d recordings failed", failed, len(candidates))
	}
	return nil
}

// writeResults renders results in format and reports failures on stderr.
// Unrecognized names get the legacy skip notice and do not count as failures.
func writeResults(cmd *cobra.Command, format string, results []eyefile.Result) (int, error) {
	out := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	failed := 0
	var docs []report.Document
	for _, res := range results {
		if res.Err != nil {
			if errors.Is(res.Err, services.ErrInvalidInput) {
				printSkipping(stderr, res.Path)
				continue
			}
			failed++
		}

		switch format {
		case formatJSON, formatYAML:
			docs = append(docs, report.NewDocument(res.Path, res.Record, res.Err))
			continue
		}
		if res.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", res.Path, res.Err)
			continue
		}
		var err error
		if format == formatTable {
			err = report.WriteTable(out, res.Record)
		} else {
			err = report.WriteText(out, res.Record)
		}
		if err != nil {
			return failed, err
		}
	}

	switch format {
	case formatJSON:
		return failed, report.WriteJSON(out, docsOrEmpty(docs))
	case formatYAML:
		return failed, report.WriteYAML(out, docsOrEmpty(docs))
	}
	return failed, nil
}

func docsOrEmpty(docs []report.Document) []report.Document {
	if docs == nil {
		return []report.Document{}
	}
	return docs
}

func printSkipping(w io.Writer, path string) {
	fmt.Fprintf(w, "Skipping \"%s\" (not an edf or asc file).\n", path)
}

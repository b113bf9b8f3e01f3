package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"edfinfo/internal/discovery"
	"edfinfo/internal/eyefile"
	"edfinfo/internal/index"
	"edfinfo/internal/logging"
	"edfinfo/internal/metrics"
	"edfinfo/internal/preflight"
	"edfinfo/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var initialScan bool
	var overrides parserOverrides

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Index recordings as they appear below a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if blocking := preflight.Blocking(preflight.RunAll(cfg)); len(blocking) > 0 {
				details := make([]string, 0, len(blocking))
				for _, r := range blocking {
					details = append(details, r.Name+": "+r.Detail)
				}
				return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			lock, err := index.AcquireWriterLock(cfg.Paths.IndexPath)
			if err != nil {
				if errors.Is(err, index.ErrLocked) {
					return fmt.Errorf("another edfinfo watch is writing to %s", cfg.Paths.IndexPath)
				}
				return err
			}
			defer lock.Release()

			store, err := index.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			collector := metrics.New()
			parser, err := newParser(cfg, logger, collector, overrides)
			if err != nil {
				return err
			}
			svc := &watchService{
				parser:   parser,
				store:    store,
				metrics:  collector,
				textfile: cfg.Metrics.TextfilePath,
				logger:   logging.NewComponentLogger(logger, "watch"),
			}

			root := args[0]
			if initialScan {
				if err := svc.scan(cmd.Context(), root, cfg.Parse.Concurrency); err != nil {
					return err
				}
			}

			watcher, err := watch.New(root, cfg.WatchSettle(), logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (index %s)\n", watcher.Root(), store.Path())
			return watcher.Run(cmd.Context(), svc.handle)
		},
	}

	cmd.Flags().BoolVar(&initialScan, "initial-scan", false, "Index existing recordings before watching")
	cmd.Flags().BoolVar(&overrides.noFallback, "no-fallback", false, "Only read recording headers; never run the converter")
	return cmd
}

// watchService keeps the index in step with watcher events.
type watchService struct {
	parser   *eyefile.Parser
	store    *index.Store
	metrics  *metrics.Collector
	textfile string
	logger   *slog.Logger
}

func (s *watchService) scan(ctx context.Context, root string, limit int) error {
	paths, err := discovery.FindRecordings(root)
	if err != nil {
		return err
	}
	for _, res := range s.parser.ParseAll(ctx, paths, limit) {
		s.record(ctx, res)
	}
	s.flushMetrics()
	return ctx.Err()
}

func (s *watchService) handle(ctx context.Context, ev watch.Event) {
	if ev.Removed {
		path, err := filepath.Abs(ev.Path)
		if err != nil {
			path = ev.Path
		}
		if _, err := s.store.Remove(ctx, path); err != nil {
			s.logger.Warn("index remove failed", logging.String("path", path), logging.Error(err))
			return
		}
		s.logger.Info("recording removed from index", logging.String("path", path))
		return
	}

	rec, err := s.parser.Parse(ctx, ev.Path)
	s.record(ctx, eyefile.Result{Path: ev.Path, Record: rec, Err: err})
	s.flushMetrics()
}

func (s *watchService) record(ctx context.Context, res eyefile.Result) {
	if errors.Is(res.Err, context.Canceled) {
		return
	}
	entry, err := upsertResult(ctx, s.store, res)
	if err != nil {
		s.logger.Warn("index update failed", logging.String("path", res.Path), logging.Error(err))
		return
	}
	if res.Err != nil {
		logging.WarnWithContext(s.logger, "recording parse failed", "parse_failed",
			logging.String("path", entry.Path),
			logging.String("status", string(entry.Status)),
			logging.Error(res.Err),
		)
		return
	}
	s.logger.Info("recording indexed",
		logging.String("path", entry.Path),
		logging.String("status", string(entry.Status)),
		logging.Int("missing", len(entry.Missing)),
	)
}

func (s *watchService) flushMetrics() {
	if err := s.metrics.WriteTextfile(s.textfile); err != nil {
		s.logger.Warn("metrics textfile write failed", logging.String("path", s.textfile), logging.Error(err))
	}
}

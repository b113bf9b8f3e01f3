package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"edfinfo/internal/eyefile"
	"edfinfo/internal/index"
	"edfinfo/internal/services"
)

// indexEntry converts a parse result into the row stored in the index.
// Paths are stored absolute so lookups do not depend on the working directory.
func indexEntry(res eyefile.Result) (*index.Entry, error) {
	path, err := filepath.Abs(res.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", res.Path, err)
	}
	kind, _ := eyefile.Classify(res.Path)
	entry := &index.Entry{
		Path: path,
		Kind: kind.String(),
	}
	if res.Err != nil {
		entry.Status = services.IndexStatus(res.Err)
		entry.Error = res.Err.Error()
		return entry, nil
	}

	entry.Fields = res.Record.Fields()
	for _, f := range res.Record.Missing() {
		entry.Missing = append(entry.Missing, f.Key())
	}
	entry.Status = index.StatusPartial
	if res.Record.IsComplete() {
		entry.Status = index.StatusComplete
	}
	return entry, nil
}

func upsertResult(ctx context.Context, store *index.Store, res eyefile.Result) (*index.Entry, error) {
	entry, err := indexEntry(res)
	if err != nil {
		return nil, err
	}
	return store.Upsert(ctx, entry)
}

func recordResults(cmd *cobra.Command, store *index.Store, results []eyefile.Result) error {
	stored := 0
	for _, res := range results {
		if errors.Is(res.Err, context.Canceled) {
			continue
		}
		if _, err := upsertResult(cmd.Context(), store, res); err != nil {
			return err
		}
		stored++
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Indexed %d recordings in %s\n", stored, store.Path())
	return nil
}

// recordFromEntry rebuilds a Record for rendering an indexed entry.
func recordFromEntry(entry *index.Entry) *eyefile.Record {
	kind, _ := eyefile.Classify(entry.Path)
	return eyefile.RecordFromFields(entry.Path, kind, entry.Fields)
}

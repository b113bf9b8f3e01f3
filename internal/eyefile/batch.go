package eyefile

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Result pairs a path with its parse outcome.
type Result struct {
	Path   string
	Record *Record
	Err    error
}

// ParseAll parses paths concurrently with at most limit parses in flight
// (NumCPU when limit <= 0). Results keep the order of paths. A failing file
// does not stop the batch; cancellation of ctx marks unstarted files with
// ctx.Err().
func (p *Parser) ParseAll(ctx context.Context, paths []string, limit int) []Result {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	results := make([]Result, len(paths))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, path := range paths {
		results[i].Path = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			rec, err := p.Parse(ctx, path)
			results[i].Record = rec
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return results
}

package excel

import (
	"context"
	"fmt"

	"exportlens/domain/table"
	"exportlens/internal/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var errNoContent = fmt.Errorf("upload has no content")

// LoadAll loads every upload independently. Results keep the upload order and
// a failing or panicking file never stops its siblings. At most parallelism
// files are parsed at once; 1 loads them one after another.
func (r *DataReader) LoadAll(ctx context.Context, uploads []Upload, parallelism int) []LoadResult {
	results := make([]LoadResult, len(uploads))
	if parallelism <= 0 {
		parallelism = 1
	}

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, up := range uploads {
		i, up := i, up
		results[i] = LoadResult{ID: uuid.NewString(), Filename: up.Filename}
		g.Go(func() error {
			// per-file failures are recorded in the result, never returned
			defer func() {
				if p := recover(); p != nil {
					results[i].Table = nil
					results[i].Err = errors.LoadError(up.Filename, fmt.Errorf("parser panic: %v", p))
				}
			}()
			results[i].Format, results[i].Table, results[i].Err = r.loadOne(ctx, up)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if res.Err != nil {
			r.logger.Warn("upload %s failed: %v", res.Filename, res.Err)
		}
	}
	return results
}

func (r *DataReader) loadOne(ctx context.Context, up Upload) (Format, *table.Table, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, errors.LoadError(up.Filename, err)
	}
	format, err := FormatFromFilename(up.Filename)
	if err != nil {
		return "", nil, err
	}
	if up.Open == nil {
		return format, nil, errors.LoadError(up.Filename, errNoContent)
	}
	rc, err := up.Open()
	if err != nil {
		return format, nil, errors.LoadError(up.Filename, err)
	}
	defer rc.Close()

	t, err := r.Load(rc, up.Filename, format)
	return format, t, err
}

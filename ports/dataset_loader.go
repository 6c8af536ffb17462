package ports

import (
	"context"

	"cutoffrank/domain/cutoff"
)

// DatasetLoader provides the read-only cutoff dataset. Implementations fail
// with a LOAD_ERROR AppError and never return a partial dataset.
type DatasetLoader interface {
	LoadDataset(ctx context.Context) (*cutoff.Dataset, error)
}

// Package dataset caches downloaded card data sets so restarts do not hit
// the upstream source every time.
package dataset

//go:generate mockgen -destination=mock/mock_repository.go -package=datasetmock github.com/KirkDiggler/xwing-api/internal/repositories/dataset Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
)

// Repository defines the interface for data set caching
type Repository interface {
	// Get retrieves the cached data set for a source
	// Returns errors.InvalidArgument for an empty source
	// Returns errors.NotFound if nothing is cached or the entry expired
	// Returns errors.Internal for storage or decode failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put stores a data set for a source, replacing any previous copy
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
}

// GetInput defines the input for getting a cached data set
type GetInput struct {
	Source string
}

// GetOutput defines the output for getting a cached data set
type GetOutput struct {
	Dataset  *xwing.Dataset
	StoredAt time.Time
}

// PutInput defines the input for caching a data set
type PutInput struct {
	Source  string
	Dataset *xwing.Dataset
}

// PutOutput defines the output for caching a data set
type PutOutput struct {
	Key       string
	ExpiresAt time.Time
}

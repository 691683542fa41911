// Package xwingdata loads the X-Wing card data set from its published JSON
// or from a local copy.
package xwingdata

//go:generate mockgen -destination=mock/mock_client.go -package=xwingdatamock github.com/KirkDiggler/xwing-api/internal/clients/xwingdata Client

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
	"github.com/KirkDiggler/xwing-api/internal/errors"
)

// Client defines the interface for loading the card data set
type Client interface {
	// FetchDataset loads and decodes the full data set
	// Returns errors.NotFound when the source does not exist
	// Returns errors.Unavailable when the source cannot be reached
	// Returns errors.Internal when the payload cannot be decoded
	FetchDataset(ctx context.Context) (*xwing.Dataset, error)

	// Source identifies where the data set comes from. It is stable for
	// the life of the client and is used to version cached copies.
	Source() string
}

// Decode parses a raw data set payload
func Decode(data []byte) (*xwing.Dataset, error) {
	var dataset xwing.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, errors.Wrap(err, "failed to decode dataset")
	}
	if len(dataset.Groups) == 0 {
		return nil, errors.Internal("dataset has no card groups")
	}
	return &dataset, nil
}

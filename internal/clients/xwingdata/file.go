package xwingdata

import (
	"context"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
	"github.com/KirkDiggler/xwing-api/internal/errors"
)

// FileConfig configures the file data set client
type FileConfig struct {
	Path   string
	Logger *zap.Logger
}

// Validate validates the FileConfig
func (cfg *FileConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("path", cfg.Path, vb)
	return vb.Build()
}

type fileClient struct {
	path   string
	logger *zap.Logger
}

// NewFile creates a client that reads the data set from a local JSON file
func NewFile(cfg *FileConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &fileClient{path: cfg.Path, logger: logger}, nil
}

func (c *fileClient) Source() string {
	return "file:" + c.path
}

func (c *fileClient) FetchDataset(ctx context.Context) (*xwing.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "dataset read cancelled")
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundf("dataset file %s not found", c.path)
		}
		return nil, errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to read dataset file %s", c.path)
	}

	dataset, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode dataset file %s", c.path)
	}

	c.logger.Debug("dataset loaded from file",
		zap.String("path", c.path),
		zap.Int("cards", dataset.CardCount()))

	return dataset, nil
}
